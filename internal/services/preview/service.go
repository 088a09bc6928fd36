// Package preview renders a report for display in a terminal.
package preview

import (
	"fmt"
	"regexp"

	"github.com/charmbracelet/glamour"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/begehung/internal/interfaces"
	"github.com/ternarybob/begehung/internal/services/report"
)

var imageAttr = regexp.MustCompile(`\{\s*width=[^}]*\}`)

// Service renders Markdown with glamour
type Service struct {
	style  string
	width  int
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.PreviewService = (*Service)(nil)

// NewService creates a preview renderer. style is a glamour standard style
// name, or "auto" to detect the terminal background. width 0 disables wrapping.
func NewService(style string, width int, logger arbor.ILogger) *Service {
	if style == "" {
		style = "auto"
	}
	return &Service{
		style:  style,
		width:  width,
		logger: logger,
	}
}

// Render returns the report body styled for the terminal, without the
// metadata block and typesetting markers.
func (s *Service) Render(markdown string) (string, error) {
	_, body, err := report.SplitFrontmatter(markdown)
	if err != nil {
		return "", err
	}
	body = imageAttr.ReplaceAllString(report.PlainText(body), "")

	var opts []glamour.TermRendererOption
	if s.style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(s.style))
	}
	if s.width > 0 {
		opts = append(opts, glamour.WithWordWrap(s.width))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create terminal renderer: %w", err)
	}

	out, err := renderer.Render(body)
	if err != nil {
		return "", fmt.Errorf("failed to render preview: %w", err)
	}

	s.logger.Debug().Str("style", s.style).Int("width", s.width).Msg("Preview rendered")
	return out, nil
}
