package inspection

import "fmt"

// Form headings of the header and closing fields.
const (
	HeadingSite         = "Ort / Baustelle"
	HeadingProject      = "Projekt"
	HeadingSubArea      = "Bauabschnitt / Bereich"
	HeadingCoordinates  = "Koordinaten"
	HeadingKind         = "Art der Begehung"
	HeadingDate         = "Datum"
	HeadingTime         = "Uhrzeit"
	HeadingParticipants = "Teilnehmende"
	HeadingWeather      = "Wetterbedingungen"
	HeadingAuthor       = "Sifa / Ersteller"
	HeadingAssessment   = "Gesamtbewertung"
	HeadingSigner       = "Name Unterzeichner"
)

// Deficiency slot headings are "Mangel <n> – <field>".
const (
	deficiencySeverity    = "Schweregrad"
	deficiencyLocation    = "Ort/Bereich"
	deficiencyDescription = "Beschreibung & Maßnahme"
	deficiencyOwner       = "Verantwortlich"
	deficiencyDueDate     = "Frist (YYYY-MM-DD)"
)

func deficiencyHeading(slot int, field string) string {
	return fmt.Sprintf("Mangel %d – %s", slot, field)
}
