package interfaces

import (
	"io"

	"github.com/ternarybob/begehung/internal/models"
)

// ReportRenderer composes the Markdown inspection report
type ReportRenderer interface {
	// Render returns the complete report document, metadata block included
	Render(insp *models.Inspection) (string, error)
}

// DefectExporter writes the follow-up list of deficiencies
type DefectExporter interface {
	// Write emits the header row and one row per deficiency
	Write(w io.Writer, insp *models.Inspection) error
}
