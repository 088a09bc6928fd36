// Package report renders an Inspection as a Markdown report suitable for a
// LaTeX or plain Markdown toolchain.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/begehung/internal/interfaces"
	"github.com/ternarybob/begehung/internal/models"
	"github.com/ternarybob/begehung/internal/services/form"
)

// NoDeficiencies replaces the deficiency table when no slot was filled.
const NoDeficiencies = "Keine Mängel festgestellt."

// Options configures a Renderer. Zero values fall back to the defaults.
type Options struct {
	Profile      Profile
	Title        string
	Placeholder  string
	ImageWidth   string
	ImagesPerRow int
}

func (o Options) withDefaults() Options {
	if o.Profile != ProfileGlyph {
		o.Profile = ProfileLaTeX
	}
	if o.Title == "" {
		o.Title = "Baustellenbegehung"
	}
	if o.Placeholder == "" {
		o.Placeholder = "–"
	}
	if o.ImageWidth == "" {
		o.ImageWidth = "48%"
	}
	if o.ImagesPerRow <= 0 {
		o.ImagesPerRow = 2
	}
	return o
}

// Renderer produces the Markdown report.
type Renderer struct {
	opts   Options
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.ReportRenderer = (*Renderer)(nil)

// NewRenderer creates a report renderer
func NewRenderer(opts Options, logger arbor.ILogger) *Renderer {
	return &Renderer{
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Render returns the complete report. The output depends only on insp,
// including its run date, so repeated renders are byte-identical.
func (r *Renderer) Render(insp *models.Inspection) (string, error) {
	if insp == nil {
		return "", fmt.Errorf("inspection is nil")
	}

	fm := Frontmatter{
		Title: r.opts.Title + " – " + r.orPlaceholder(insp.Metadata.Site),
		Date:  insp.RunDate,
	}
	header, err := fm.render()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")

	r.writeMetadata(&b, insp)

	section := 1
	r.writeChecklist(&b, section, insp.Checklist)
	section++
	if insp.ImageCount() > 0 {
		r.writePhotos(&b, section, insp.Checklist)
		section++
	}
	r.writeDeficiencies(&b, section, insp.Deficiencies)
	section++
	r.writeClosing(&b, section, insp.Closing)

	r.logger.Debug().
		Str("profile", string(r.opts.Profile)).
		Int("bytes", b.Len()).
		Msg("Report rendered")

	return b.String(), nil
}

func (r *Renderer) orPlaceholder(value string) string {
	if value == "" {
		return r.opts.Placeholder
	}
	return value
}

func (r *Renderer) cell(value string) string {
	return r.orPlaceholder(form.OneLine(value))
}

func (r *Renderer) writeMetadata(b *strings.Builder, insp *models.Inspection) {
	m := insp.Metadata
	fields := []struct {
		label string
		value string
	}{
		{"Ort", m.Site},
		{"Projekt", m.Project},
		{"Bereich", m.SubArea},
		{"Koordinaten", m.Coordinates},
		{"Art der Begehung", m.Kind},
		{"Datum", m.Date},
		{"Uhrzeit", m.Time},
		{"Teilnehmende", m.Participants},
		{"Wetter", m.Weather},
		{"Sifa / Ersteller", m.Author},
	}

	fmt.Fprintf(b, "# %s\n\n", r.opts.Title)
	for _, f := range fields {
		fmt.Fprintf(b, "**%s:** %s  \n", f.label, r.orPlaceholder(form.Collapse(f.value)))
	}
	fmt.Fprintf(b, "**Gesamtergebnis:** %s\n\n", r.opts.Profile.Marker(insp.Overall))
	b.WriteString(r.opts.Profile.Legend())
	b.WriteString("\n\n")
}

func (r *Renderer) writeChecklist(b *strings.Builder, section int, entries []models.ChecklistEntry) {
	fmt.Fprintf(b, "## %d. Checkliste\n\n", section)
	b.WriteString("| Kategorie | Status | Bemerkungen |\n")
	b.WriteString("|---|:---:|---|\n")
	for _, e := range entries {
		fmt.Fprintf(b, "| %s | %s | %s |\n",
			form.Escape(e.Category.Label),
			r.opts.Profile.Cell(e.Severity),
			r.cell(e.Notes))
	}
	b.WriteString("\n")
}

func (r *Renderer) writePhotos(b *strings.Builder, section int, entries []models.ChecklistEntry) {
	fmt.Fprintf(b, "## %d. Fotos\n\n", section)
	for _, e := range entries {
		if len(e.Images) == 0 {
			continue
		}
		fmt.Fprintf(b, "### %s – Fotos\n\n", e.Category.Label)
		for _, row := range PhotoRows(e.Images, r.opts.ImagesPerRow) {
			embeds := make([]string, 0, len(row))
			for _, url := range row {
				embeds = append(embeds, fmt.Sprintf("![](%s){ width=%s }", url, r.opts.ImageWidth))
			}
			b.WriteString(strings.Join(embeds, " "))
			b.WriteString("\n\n")
		}
	}
}

func (r *Renderer) writeDeficiencies(b *strings.Builder, section int, entries []models.DeficiencyEntry) {
	fmt.Fprintf(b, "## %d. Mängel\n\n", section)
	if len(entries) == 0 {
		b.WriteString(NoDeficiencies)
		b.WriteString("\n\n")
		return
	}
	b.WriteString("| Nr. | Schweregrad | Ort/Bereich | Beschreibung / Maßnahme | Verantwortlich | Frist |\n")
	b.WriteString("|---:|---|---|---|---|---|\n")
	for _, d := range entries {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
			strconv.Itoa(d.Slot),
			r.cell(d.Severity),
			r.cell(d.Location),
			r.cell(d.Description),
			r.cell(d.Owner),
			r.cell(d.DueDate))
	}
	b.WriteString("\n")
}

func (r *Renderer) writeClosing(b *strings.Builder, section int, c models.Closing) {
	fmt.Fprintf(b, "## %d. Abschluss\n\n", section)
	fmt.Fprintf(b, "**Gesamtbewertung:** %s\n\n", r.orPlaceholder(form.Collapse(c.Assessment)))
	fmt.Fprintf(b, "**Unterzeichnet:** %s\n", r.orPlaceholder(form.Collapse(c.Signer)))
}

// PhotoRows groups urls into rows of at most perRow entries, preserving order.
func PhotoRows(urls []string, perRow int) [][]string {
	if perRow <= 0 {
		perRow = 1
	}
	rows := make([][]string, 0, (len(urls)+perRow-1)/perRow)
	for start := 0; start < len(urls); start += perRow {
		end := start + perRow
		if end > len(urls) {
			end = len(urls)
		}
		rows = append(rows, urls[start:end])
	}
	return rows
}
