package models

import "strings"

// NoResponse is what GitHub issue forms write into an unanswered field.
const NoResponse = "_No response_"

// FormDocument is the raw text of one submitted inspection form.
// It is immutable for the duration of a run.
type FormDocument struct {
	// Source describes where the text came from (file path, issue URL)
	Source string
	text   string
}

// NewFormDocument wraps raw form text. Line endings are normalised to \n.
func NewFormDocument(source, text string) FormDocument {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return FormDocument{Source: source, text: text}
}

// Text returns the normalised document text
func (d FormDocument) Text() string {
	return d.text
}

// IsEmpty reports whether the document has no non-whitespace content
func (d FormDocument) IsEmpty() bool {
	return strings.TrimSpace(d.text) == ""
}
