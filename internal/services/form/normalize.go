package form

import (
	"regexp"
	"strings"
)

var lineBreakRun = regexp.MustCompile(`\s*\n\s*`)

// Collapse replaces every whitespace run containing a line break with a
// single space and trims the result.
func Collapse(text string) string {
	return strings.TrimSpace(lineBreakRun.ReplaceAllString(strings.TrimSpace(text), " "))
}

// Escape makes text safe inside a pipe-table cell by escaping vertical bars.
// Bars that are already escaped are left alone.
func Escape(text string) string {
	if !strings.Contains(text, "|") {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text) + 4)
	prev := rune(0)
	for _, r := range text {
		if r == '|' && prev != '\\' {
			sb.WriteString(`\|`)
		} else {
			sb.WriteRune(r)
		}
		prev = r
	}
	return sb.String()
}

// OneLine collapses and escapes text for use in a table cell
func OneLine(text string) string {
	return Escape(Collapse(text))
}
