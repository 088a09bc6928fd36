package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/begehung/internal/interfaces"
	"github.com/ternarybob/begehung/internal/models"
	"github.com/ternarybob/begehung/internal/services/form"
)

// Input formats
const (
	FormatAuto     = "auto"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// FileSource reads the form from a local file
type FileSource struct {
	path      string
	format    string
	converter *form.Converter
	logger    arbor.ILogger
}

// Compile-time assertion
var _ interfaces.FormSource = (*FileSource)(nil)

// NewFileSource creates a file source. format is auto, markdown or html.
func NewFileSource(path, format string, logger arbor.ILogger) *FileSource {
	if format == "" {
		format = FormatAuto
	}
	return &FileSource{
		path:      path,
		format:    format,
		converter: form.NewConverter(logger),
		logger:    logger,
	}
}

// Describe returns the file path
func (s *FileSource) Describe() string {
	return s.path
}

// Load reads the file. HTML exports are converted to Markdown sections.
func (s *FileSource) Load(ctx context.Context) (models.FormDocument, error) {
	if err := ctx.Err(); err != nil {
		return models.FormDocument{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.FormDocument{}, fmt.Errorf("%w: %s", ErrInputNotFound, s.path)
		}
		return models.FormDocument{}, fmt.Errorf("failed to read input %s: %w", s.path, err)
	}

	text := string(data)
	if s.format == FormatHTML || (s.format == FormatAuto && form.LooksLikeHTML(text)) {
		return s.converter.FromHTML(s.path, text)
	}

	s.logger.Debug().Str("path", s.path).Int("bytes", len(data)).Msg("Form loaded")
	return models.NewFormDocument(s.path, text), nil
}
