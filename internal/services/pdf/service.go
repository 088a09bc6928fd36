package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ternarybob/begehung/internal/interfaces"
	"github.com/ternarybob/begehung/internal/models"
	"github.com/ternarybob/begehung/internal/services/report"
)

const (
	fontFamily = "Arial"
	bodySize   = 9.0
	lineHeight = 5.0
)

// Pandoc image attributes such as "{ width=48% }" have no meaning here.
var imageAttr = regexp.MustCompile(`\{\s*width=[^}]*\}`)

type rgb struct{ r, g, b int }

var severityFill = map[models.Severity]rgb{
	models.SeverityOK:   {198, 239, 206},
	models.SeverityWarn: {255, 235, 156},
	models.SeverityFail: {255, 199, 206},
	models.SeverityNA:   {235, 235, 235},
}

// Service renders report Markdown to PDF
type Service struct {
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.PDFService = (*Service)(nil)

// NewService creates a new PDF service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
	}
}

// ConvertMarkdownToPDF converts a report to a PDF byte slice. The title
// argument is used when the report carries no metadata block.
func (s *Service) ConvertMarkdownToPDF(markdown, title string) ([]byte, error) {
	fm, body, err := report.SplitFrontmatter(markdown)
	if err != nil {
		return nil, err
	}
	if fm.Title != "" {
		title = fm.Title
	}

	s.logger.Debug().
		Int("markdown_len", len(body)).
		Str("title", title).
		Msg("Converting report to PDF")

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.SetCreator("begehung", true)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "I", 7)
		footer := fmt.Sprintf("%s · Seite %d/{nb}", title, pdf.PageNo())
		if fm.Date != "" {
			footer = fmt.Sprintf("%s · %s · Seite %d/{nb}", title, fm.Date, pdf.PageNo())
		}
		pdf.CellFormat(0, 5, tr(footer), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	pdf.SetFont(fontFamily, "", bodySize)

	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
	)

	source := []byte(body)
	doc := md.Parser().Parse(text.NewReader(source))

	renderer := &pdfRenderer{
		pdf:    pdf,
		tr:     tr,
		source: source,
		size:   bodySize,
	}

	if err := ast.Walk(doc, renderer.walk); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate PDF")
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate PDF output")
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}

	s.logger.Debug().Int("pdf_size", buf.Len()).Int("pages", pdf.PageCount()).Msg("PDF generated successfully")
	return buf.Bytes(), nil
}

type pdfRenderer struct {
	pdf       *fpdf.Fpdf
	tr        func(string) string
	source    []byte
	size      float64
	bold      bool
	italic    bool
	listLevel int
}

func (r *pdfRenderer) updateFont() {
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic {
		style += "I"
	}
	r.pdf.SetFont(fontFamily, style, r.size)
}

// write prints running text with markers and image attributes removed.
func (r *pdfRenderer) write(s string) {
	s = imageAttr.ReplaceAllString(report.PlainText(s), "")
	if s == "" {
		return
	}
	r.pdf.Write(lineHeight, r.tr(s))
}

func (r *pdfRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n.Kind() {
	case ast.KindHeading:
		return r.handleHeading(n.(*ast.Heading), entering)
	case ast.KindParagraph:
		if !entering {
			r.pdf.Ln(lineHeight + 2)
		}
	case ast.KindText:
		return r.handleText(n.(*ast.Text), entering)
	case ast.KindString:
		if entering {
			r.write(string(n.(*ast.String).Value))
		}
	case ast.KindEmphasis:
		return r.handleEmphasis(n.(*ast.Emphasis), entering)
	case ast.KindCodeSpan:
		if entering {
			r.write(string(n.Text(r.source)))
		}
		return ast.WalkSkipChildren, nil
	case ast.KindImage:
		return r.handleImage(n.(*ast.Image), entering)
	case ast.KindAutoLink:
		if entering {
			url := string(n.(*ast.AutoLink).URL(r.source))
			r.pdf.WriteLinkString(lineHeight, r.tr(url), url)
		}
		return ast.WalkSkipChildren, nil
	case ast.KindList:
		if entering {
			r.listLevel++
		} else {
			r.listLevel--
			if r.listLevel == 0 {
				r.pdf.Ln(2)
			}
		}
	case ast.KindListItem:
		if entering {
			r.pdf.Ln(lineHeight)
			r.pdf.SetX(15 + float64(r.listLevel)*5)
			r.pdf.Write(lineHeight, "- ")
		}
	case ast.KindThematicBreak:
		if entering {
			r.pdf.Ln(2)
			r.pdf.Line(15, r.pdf.GetY(), 195, r.pdf.GetY())
			r.pdf.Ln(2)
		}
	case extast.KindTable:
		return r.handleTable(n.(*extast.Table), entering)
	}
	return ast.WalkContinue, nil
}

func (r *pdfRenderer) handleHeading(n *ast.Heading, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.pdf.Ln(4)
		size := 10.0
		switch n.Level {
		case 1:
			size = 14
		case 2:
			size = 12
		case 3:
			size = 10
		}
		r.pdf.SetFont(fontFamily, "B", size)
	} else {
		r.pdf.Ln(7)
		r.updateFont()
	}
	return ast.WalkContinue, nil
}

func (r *pdfRenderer) handleText(n *ast.Text, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	r.write(string(n.Segment.Value(r.source)))
	switch {
	case n.HardLineBreak():
		r.pdf.Ln(lineHeight)
	case n.SoftLineBreak():
		r.pdf.Write(lineHeight, " ")
	}
	return ast.WalkContinue, nil
}

func (r *pdfRenderer) handleEmphasis(n *ast.Emphasis, entering bool) (ast.WalkStatus, error) {
	if n.Level == 2 {
		r.bold = entering
	} else {
		r.italic = entering
	}
	r.updateFont()
	return ast.WalkContinue, nil
}

// handleImage writes remote photos as links; the PDF does not fetch them.
func (r *pdfRenderer) handleImage(n *ast.Image, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	url := string(n.Destination)
	r.pdf.SetTextColor(0, 70, 160)
	r.pdf.WriteLinkString(lineHeight, r.tr("Foto: "+url), url)
	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.Ln(lineHeight)
	return ast.WalkSkipChildren, nil
}

type tableCell struct {
	text string
	fill *rgb
}

func (r *pdfRenderer) handleTable(n *extast.Table, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	var rows [][]tableCell
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *extast.TableHeader, *extast.TableRow:
			rows = append(rows, r.extractRow(child))
		}
	}

	r.renderTable(rows)
	return ast.WalkSkipChildren, nil
}

func (r *pdfRenderer) extractRow(n ast.Node) []tableCell {
	var row []tableCell
	for cell := n.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*extast.TableCell); !ok {
			continue
		}
		content := string(cell.Text(r.source))
		if s, label, ok := report.ParseMarker(content); ok {
			fill := severityFill[s]
			row = append(row, tableCell{text: r.tr(label), fill: &fill})
			continue
		}
		row = append(row, tableCell{text: r.tr(report.PlainText(content))})
	}
	return row
}

func (r *pdfRenderer) renderTable(rows [][]tableCell) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}

	r.pdf.Ln(2)

	pageWidth := 190.0
	numCols := len(rows[0])
	fontSize := 8.0
	cellLine := 4.0

	colWidths := r.columnWidths(rows, numCols, pageWidth, fontSize)

	for i, row := range rows {
		if i == 0 {
			r.pdf.SetFont(fontFamily, "B", fontSize)
		} else {
			r.pdf.SetFont(fontFamily, "", fontSize)
		}

		maxLines := 1
		for j, cell := range row {
			if j < numCols {
				if lines := len(r.wrap(cell.text, colWidths[j]-2)); lines > maxLines {
					maxLines = lines
				}
			}
		}
		if maxLines > 8 {
			maxLines = 8
		}

		rowHeight := float64(maxLines)*cellLine + 2
		startX := r.pdf.GetX()
		startY := r.pdf.GetY()

		_, pageHeight := r.pdf.GetPageSize()
		_, _, _, bottom := r.pdf.GetMargins()
		if startY+rowHeight > pageHeight-bottom {
			r.pdf.AddPage()
			startY = r.pdf.GetY()
		}

		x := startX
		for j, cell := range row {
			if j >= numCols {
				break
			}
			style := "D"
			switch {
			case i == 0:
				r.pdf.SetFillColor(230, 230, 230)
				style = "FD"
			case cell.fill != nil:
				r.pdf.SetFillColor(cell.fill.r, cell.fill.g, cell.fill.b)
				style = "FD"
			}
			r.pdf.Rect(x, startY, colWidths[j], rowHeight, style)

			r.pdf.SetXY(x+1, startY+1)
			lines := r.wrap(cell.text, colWidths[j]-2)
			for k := 0; k < len(lines) && k < maxLines; k++ {
				line := lines[k]
				if k == maxLines-1 && len(lines) > maxLines {
					line += "..."
				}
				r.pdf.SetX(x + 1)
				r.pdf.CellFormat(colWidths[j]-2, cellLine, line, "", 2, "L", false, 0, "")
			}
			x += colWidths[j]
		}

		r.pdf.SetXY(startX, startY+rowHeight)
	}

	r.pdf.SetFillColor(255, 255, 255)
	r.pdf.Ln(3)
	r.updateFont()
}

// columnWidths sizes columns to their widest cell, clamped to a third of
// the page and scaled to fit the page width.
func (r *pdfRenderer) columnWidths(rows [][]tableCell, numCols int, pageWidth, fontSize float64) []float64 {
	colWidths := make([]float64, numCols)

	for i, row := range rows {
		if i == 0 {
			r.pdf.SetFont(fontFamily, "B", fontSize)
		} else {
			r.pdf.SetFont(fontFamily, "", fontSize)
		}
		for j, cell := range row {
			if j < numCols {
				if w := r.pdf.GetStringWidth(cell.text) + 4; w > colWidths[j] {
					colWidths[j] = w
				}
			}
		}
	}

	minWidth := 12.0
	maxWidth := pageWidth / 3.0
	total := 0.0
	for j := range colWidths {
		if colWidths[j] < minWidth {
			colWidths[j] = minWidth
		}
		if colWidths[j] > maxWidth {
			colWidths[j] = maxWidth
		}
		total += colWidths[j]
	}

	// Fill the page width; narrow tables grow, wide ones shrink
	scale := pageWidth / total
	for j := range colWidths {
		colWidths[j] *= scale
	}

	return colWidths
}

// wrap breaks text into lines no wider than width in the current font.
func (r *pdfRenderer) wrap(s string, width float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := ""
	currentWidth := 0.0
	spaceWidth := r.pdf.GetStringWidth(" ")

	for _, word := range words {
		wordWidth := r.pdf.GetStringWidth(word)
		switch {
		case current == "":
			current = word
			currentWidth = wordWidth
		case currentWidth+spaceWidth+wordWidth <= width:
			current += " " + word
			currentWidth += spaceWidth + wordWidth
		default:
			lines = append(lines, current)
			current = word
			currentWidth = wordWidth
		}
	}
	return append(lines, current)
}
