package models

// Severity is the four-value taxonomy shared by checklist items and deficiencies.
type Severity string

const (
	SeverityOK   Severity = "ok"
	SeverityWarn Severity = "warn"
	SeverityFail Severity = "fail"
	SeverityNA   Severity = "na"
)

// AllSeverities lists the taxonomy from best to worst, na first.
var AllSeverities = []Severity{SeverityNA, SeverityOK, SeverityWarn, SeverityFail}

// Rank orders severities as fail > warn > ok > na.
// Unknown values rank with na.
func (s Severity) Rank() int {
	switch s {
	case SeverityOK:
		return 1
	case SeverityWarn:
		return 2
	case SeverityFail:
		return 3
	default:
		return 0
	}
}

// Worse returns the more severe of s and other
func (s Severity) Worse(other Severity) Severity {
	if other.Rank() > s.Rank() {
		return other
	}
	if s.Rank() == 0 {
		return SeverityNA
	}
	return s
}

// IsValid reports whether s is one of the four known values
func (s Severity) IsValid() bool {
	switch s {
	case SeverityOK, SeverityWarn, SeverityFail, SeverityNA:
		return true
	}
	return false
}
