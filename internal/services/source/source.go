// Package source loads the submitted inspection form from a file or a
// GitHub issue.
package source

import "errors"

// ErrInputNotFound is returned when the form document does not exist.
var ErrInputNotFound = errors.New("input not found")
