package severity

import "github.com/ternarybob/begehung/internal/models"

// Escalation returns the severity a reported deficiency contributes to the
// overall result: fail for high/critical tokens, warn for medium tokens and
// na for everything else.
func Escalation(token string) models.Severity {
	switch s := Classify(token); s {
	case models.SeverityFail, models.SeverityWarn:
		return s
	default:
		return models.SeverityNA
	}
}

// Aggregate reduces checklist severities and deficiency severity tokens to
// one overall severity under fail > warn > ok > na. The result is na only
// when no input ranks above na.
func Aggregate(checklist []models.Severity, deficiencyTokens []string) models.Severity {
	overall := models.SeverityNA
	for _, s := range checklist {
		overall = overall.Worse(s)
	}
	for _, token := range deficiencyTokens {
		overall = overall.Worse(Escalation(token))
	}
	return overall
}
