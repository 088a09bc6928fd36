// Package html renders report Markdown as a standalone, sanitized HTML page.
package html

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/ternarybob/begehung/internal/interfaces"
	"github.com/ternarybob/begehung/internal/services/report"
)

var imageAttr = regexp.MustCompile(`\{\s*width=[^}]*\}`)

var page = htmltemplate.Must(htmltemplate.New("page").Parse(`<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; font-size: 14px; max-width: 960px; margin: 2em auto; color: #222; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
th, td { border: 1px solid #bbb; padding: 4px 8px; text-align: left; vertical-align: top; }
th { background: #e6e6e6; }
td.sev-ok { background: #c6efce; }
td.sev-warn { background: #ffeb9c; }
td.sev-fail { background: #ffc7ce; }
td.sev-na { background: #ebebeb; }
img { max-width: 48%; margin: 0 1% 1em 0; }
footer { color: #777; font-size: 12px; margin-top: 3em; }
</style>
</head>
<body>
{{.Body}}
{{if .Date}}<footer>{{.Date}}</footer>{{end}}
</body>
</html>
`))

// Service renders report Markdown to HTML
type Service struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.HTMLService = (*Service)(nil)

// NewService creates a new HTML service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
				gmhtml.WithXHTML(),
			),
		),
		policy: bluemonday.UGCPolicy(),
		logger: logger,
	}
}

// ConvertMarkdownToHTML returns a complete HTML document for a report
func (s *Service) ConvertMarkdownToHTML(markdown, title string) (string, error) {
	fm, body, err := report.SplitFrontmatter(markdown)
	if err != nil {
		return "", err
	}
	if fm.Title != "" {
		title = fm.Title
	}

	var rendered bytes.Buffer
	if err := s.md.Convert([]byte(imageAttr.ReplaceAllString(body, "")), &rendered); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}

	safe := s.policy.SanitizeBytes(rendered.Bytes())

	fragment, err := decorate(string(safe))
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	err = page.Execute(&out, struct {
		Title string
		Date  string
		Body  htmltemplate.HTML
	}{
		Title: title,
		Date:  fm.Date,
		Body:  htmltemplate.HTML(fragment),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render HTML page: %w", err)
	}

	s.logger.Debug().Int("html_len", out.Len()).Str("title", title).Msg("HTML generated successfully")
	return out.String(), nil
}

// decorate turns severity markers into classed table cells and strips
// markers from running text. Input must already be sanitized.
func decorate(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("td").Each(func(_ int, cell *goquery.Selection) {
		if sev, label, ok := report.ParseMarker(cell.Text()); ok {
			cell.SetText(label)
			cell.AddClass("sev-" + string(sev))
		}
	})

	doc.Find("p, li").Contents().Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "#text" {
			s.Nodes[0].Data = report.PlainText(s.Nodes[0].Data)
		}
	})

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialise HTML: %w", err)
	}
	return strings.TrimSpace(body), nil
}
