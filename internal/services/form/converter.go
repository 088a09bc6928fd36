package form

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/begehung/internal/models"
)

// Converter turns HTML exports of the inspection form into a FormDocument.
// <h3> elements become the "###" section headings the extractor expects.
type Converter struct {
	logger arbor.ILogger
}

// NewConverter creates a new HTML form converter
func NewConverter(logger arbor.ILogger) *Converter {
	return &Converter{
		logger: logger,
	}
}

// FromHTML converts an HTML form export to a FormDocument
func (c *Converter) FromHTML(source, html string) (models.FormDocument, error) {
	if strings.TrimSpace(html) == "" {
		return models.NewFormDocument(source, ""), nil
	}

	c.logger.Debug().
		Int("html_length", len(html)).
		Str("source", source).
		Msg("Converting HTML form to markdown")

	converter := md.NewConverter("", true, &md.Options{
		HeadingStyle: "atx",
	})
	converted, err := converter.ConvertString(html)
	if err != nil {
		return models.FormDocument{}, fmt.Errorf("failed to convert HTML form %s: %w", source, err)
	}

	c.logger.Debug().
		Int("markdown_length", len(converted)).
		Msg("HTML form converted")

	return models.NewFormDocument(source, converted), nil
}

// LooksLikeHTML reports whether text appears to be an HTML document rather
// than Markdown. Only the start of the text is inspected.
func LooksLikeHTML(text string) bool {
	head := strings.ToLower(strings.TrimSpace(text))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") ||
		strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body") ||
		strings.HasPrefix(head, "<h3")
}
