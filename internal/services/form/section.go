// Package form locates and normalises the fields of a submitted inspection form.
//
// A form is a sequence of sections, each introduced by a level-3 heading
// line ("### <name>") and running to the next level-3 heading or the end of
// the document. Deeper headings ("####") are body text.
package form

import (
	"strings"

	"github.com/ternarybob/begehung/internal/models"
)

const headingMarker = "###"

// headingText returns the text of a level-3 heading line.
func headingText(line string) (string, bool) {
	if !strings.HasPrefix(line, headingMarker) {
		return "", false
	}
	rest := line[len(headingMarker):]
	if strings.HasPrefix(rest, "#") {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// Section returns the trimmed body of the first section whose heading text
// equals heading exactly (case-sensitive). It returns "" when the heading is
// absent or the field was left unanswered.
func Section(doc models.FormDocument, heading string) string {
	lines := strings.Split(doc.Text(), "\n")
	for i, line := range lines {
		text, ok := headingText(line)
		if !ok || text != heading {
			continue
		}

		end := len(lines)
		for j := i + 1; j < len(lines); j++ {
			if _, next := headingText(lines[j]); next {
				end = j
				break
			}
		}

		body := strings.TrimSpace(strings.Join(lines[i+1:end], "\n"))
		if body == models.NoResponse {
			return ""
		}
		return body
	}
	return ""
}

// Field returns the section body collapsed to a single display line.
// The value is not escaped; see Escape.
func Field(doc models.FormDocument, heading string) string {
	return Collapse(Section(doc, heading))
}

// Headings lists the level-3 heading texts of doc in document order
func Headings(doc models.FormDocument) []string {
	var headings []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if text, ok := headingText(line); ok {
			headings = append(headings, text)
		}
	}
	return headings
}
