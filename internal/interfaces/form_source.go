package interfaces

import (
	"context"

	"github.com/ternarybob/begehung/internal/models"
)

// FormSource loads the raw inspection form for one run
type FormSource interface {
	// Load returns the form document. A missing form is a fatal error.
	Load(ctx context.Context) (models.FormDocument, error)

	// Describe returns a human-readable location of the form (path or URL)
	Describe() string
}
