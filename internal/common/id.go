package common

import (
	"github.com/google/uuid"
)

// NewRunID generates a correlation ID for one pipeline run
// Format: run_<uuid>
func NewRunID() string {
	return "run_" + uuid.New().String()
}
