package interfaces

import "github.com/ternarybob/begehung/internal/models"

// InspectionParser extracts and classifies the fields of a form
type InspectionParser interface {
	// Parse builds the inspection; runDate fills in a missing form date
	Parse(doc models.FormDocument, runDate string) *models.Inspection
}
