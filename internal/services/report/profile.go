package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/begehung/internal/models"
	"github.com/ternarybob/begehung/internal/services/severity"
)

// Profile selects how severity markers are rendered. One profile is used
// for the whole document.
type Profile string

const (
	// ProfileLaTeX emits \cellcolor directives for a LaTeX typesetting step.
	// The colours ok, warn, fail and na must be defined by the template.
	ProfileLaTeX Profile = "latex"
	// ProfileGlyph emits plain Unicode markers.
	ProfileGlyph Profile = "glyph"
)

var glyphs = map[models.Severity]string{
	models.SeverityOK:   "🟢",
	models.SeverityWarn: "🟡",
	models.SeverityFail: "🔴",
	models.SeverityNA:   "⚪",
}

// Cell returns the table cell text for a severity
func (p Profile) Cell(s models.Severity) string {
	if !s.IsValid() {
		s = models.SeverityNA
	}
	label := severity.Display(s)
	if p == ProfileGlyph {
		return glyphs[s] + " " + label
	}
	return fmt.Sprintf(`\cellcolor{%s}\textbf{%s}`, s, label)
}

// Marker returns the severity marker for running text outside tables
func (p Profile) Marker(s models.Severity) string {
	if !s.IsValid() {
		s = models.SeverityNA
	}
	if p == ProfileGlyph {
		return glyphs[s] + " " + severity.Display(s)
	}
	return severity.Display(s)
}

// Legend describes the four severity markers
func (p Profile) Legend() string {
	parts := make([]string, 0, 4)
	for _, s := range []models.Severity{models.SeverityOK, models.SeverityWarn, models.SeverityFail, models.SeverityNA} {
		if p == ProfileGlyph {
			parts = append(parts, glyphs[s]+" "+severity.Display(s))
		} else {
			parts = append(parts, fmt.Sprintf(`(\cellcolor{%s} %s)`, s, severity.Display(s)))
		}
	}
	sep := " "
	if p == ProfileGlyph {
		sep = " · "
	}
	return "**Legende:** " + strings.Join(parts, sep)
}

var (
	latexCell   = regexp.MustCompile(`^\\cellcolor\{(ok|warn|fail|na)\}\s*(?:\\textbf\{([^}]*)\}|(.*))$`)
	latexColour = regexp.MustCompile(`\\cellcolor\{[a-z]+\}\s*`)
	latexBold   = regexp.MustCompile(`\\textbf\{([^}]*)\}`)
)

// ParseMarker recognises a severity cell of either profile and returns the
// severity with its display text.
func ParseMarker(cell string) (models.Severity, string, bool) {
	cell = strings.TrimSpace(cell)
	if m := latexCell.FindStringSubmatch(cell); m != nil {
		label := m[2]
		if label == "" {
			label = strings.TrimSpace(m[3])
		}
		return models.Severity(m[1]), label, true
	}
	for _, s := range models.AllSeverities {
		if rest, ok := strings.CutPrefix(cell, glyphs[s]+" "); ok {
			return s, rest, true
		}
	}
	return "", "", false
}

// PlainText removes severity markers of both profiles from running text.
func PlainText(text string) string {
	text = latexColour.ReplaceAllString(text, "")
	text = latexBold.ReplaceAllString(text, "$1")
	for _, g := range glyphs {
		text = strings.ReplaceAll(text, g+" ", "")
		text = strings.ReplaceAll(text, g, "")
	}
	return text
}
