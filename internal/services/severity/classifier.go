// Package severity classifies free-text status tokens into the four-value
// severity taxonomy and reduces lists of severities to an overall result.
package severity

import (
	"sort"
	"strings"

	"github.com/ternarybob/begehung/internal/models"
)

// synonyms maps normalised tokens to their severity. Tokens are lower case
// with inner whitespace collapsed to single spaces.
var synonyms = map[string]models.Severity{
	"ok":         models.SeverityOK,
	"i.o.":       models.SeverityOK,
	"i. o.":      models.SeverityOK,
	"io":         models.SeverityOK,
	"in ordnung": models.SeverityOK,
	"in order":   models.SeverityOK,

	"hinweis":   models.SeverityWarn,
	"note":      models.SeverityWarn,
	"auflage":   models.SeverityWarn,
	"condition": models.SeverityWarn,
	"mittel":    models.SeverityWarn,
	"medium":    models.SeverityWarn,
	"warnung":   models.SeverityWarn,
	"warn":      models.SeverityWarn,

	"mangel":      models.SeverityFail,
	"deficiency":  models.SeverityFail,
	"nicht i.o.":  models.SeverityFail,
	"nicht i. o.": models.SeverityFail,
	"hoch":        models.SeverityFail,
	"high":        models.SeverityFail,
	"kritisch":    models.SeverityFail,
	"critical":    models.SeverityFail,

	"n.a.":             models.SeverityNA,
	"n. a.":            models.SeverityNA,
	"na":               models.SeverityNA,
	"nicht zutreffend": models.SeverityNA,
	"not applicable":   models.SeverityNA,
	"-":                models.SeverityNA,
	"–":                models.SeverityNA,
	"k.a.":             models.SeverityNA,
	"ka":               models.SeverityNA,
	"keine angabe":     models.SeverityNA,
	"":                 models.SeverityNA,
}

var display = map[models.Severity]string{
	models.SeverityOK:   "OK",
	models.SeverityWarn: "Hinweis",
	models.SeverityFail: "Mangel",
	models.SeverityNA:   "n. a.",
}

func normalise(token string) string {
	return strings.Join(strings.Fields(strings.ToLower(token)), " ")
}

// Classify maps a raw status token to a severity. Unknown tokens are na so
// that an unrecognised value is never reported as passing.
func Classify(token string) models.Severity {
	if s, ok := synonyms[normalise(token)]; ok {
		return s
	}
	return models.SeverityNA
}

// IsKnown reports whether token is in the synonym table
func IsKnown(token string) bool {
	_, ok := synonyms[normalise(token)]
	return ok
}

// Display returns the cell text for a severity
func Display(s models.Severity) string {
	if text, ok := display[s]; ok {
		return text
	}
	return display[models.SeverityNA]
}

// FromDisplay maps a display text back to its severity
func FromDisplay(text string) (models.Severity, bool) {
	text = strings.TrimSpace(text)
	for s, d := range display {
		if d == text {
			return s, true
		}
	}
	return "", false
}

// Synonyms returns the known tokens of a severity, sorted
func Synonyms(s models.Severity) []string {
	var tokens []string
	for token, sev := range synonyms {
		if sev == s {
			tokens = append(tokens, token)
		}
	}
	sort.Strings(tokens)
	return tokens
}
