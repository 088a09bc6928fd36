package models

// Category is one fixed checklist category of the inspection form.
type Category struct {
	// Key is a stable ASCII identifier
	Key string
	// Label is the exact heading text used in the form
	Label string
}

// Field heading suffixes used by the form template for each category.
const (
	NotesSuffix  = " – Bemerkungen"
	PhotosSuffix = " – Fotos/Nachweise"
)

// NotesHeading returns the heading of the category's remarks field
func (c Category) NotesHeading() string {
	return c.Label + NotesSuffix
}

// PhotosHeading returns the heading of the category's photo/evidence field
func (c Category) PhotosHeading() string {
	return c.Label + PhotosSuffix
}

// Categories is the closed, ordered enumeration of checklist categories.
// It is never derived from the input document.
var Categories = []Category{
	{Key: "ppe_access", Label: "PSA & Zutritt"},
	{Key: "housekeeping", Label: "Ordnung & Sauberkeit"},
	{Key: "traffic_routes", Label: "Verkehrswege & Absperrungen"},
	{Key: "earthworks", Label: "Erdarbeiten / Gräben / Wasserbau"},
	{Key: "scaffolding", Label: "Gerüste & Leitern"},
	{Key: "lifting", Label: "Krane & Hebezeuge / Anschlagmittel"},
	{Key: "machinery", Label: "Maschinen & Geräte (inkl. Teleskopstapler)"},
	{Key: "electrical", Label: "Elektrik & Beleuchtung"},
	{Key: "hazardous", Label: "Gefahrstoffe / Umweltschutz"},
}

// ChecklistEntry is the assessment of one category.
type ChecklistEntry struct {
	Category  Category
	RawStatus string   // collapsed status text as entered
	Severity  Severity // classified status
	Notes     string   // collapsed remarks, unescaped
	Images    []string // image URLs in source order
}

// DeficiencyEntry is one reported defect with its follow-up action.
type DeficiencyEntry struct {
	Slot        int    // form slot number (Mangel <n>)
	Severity    string // raw severity token
	Location    string
	Description string
	Owner       string
	DueDate     string
}

// IsEmpty reports whether every field of the entry is blank
func (d DeficiencyEntry) IsEmpty() bool {
	return d.Severity == "" && d.Location == "" && d.Description == "" && d.Owner == "" && d.DueDate == ""
}

// ReportMetadata holds the header fields of the report. All are optional.
type ReportMetadata struct {
	Site         string
	Project      string
	SubArea      string
	Coordinates  string
	Kind         string
	Date         string
	Time         string
	Participants string
	Weather      string
	Author       string
}

// Closing is the final section of the report.
type Closing struct {
	Assessment string
	Signer     string
}

// Inspection is the fully extracted and classified content of one form.
type Inspection struct {
	Source       string
	RunDate      string // YYYY-MM-DD, used when the form carries no date
	Metadata     ReportMetadata
	Checklist    []ChecklistEntry
	Deficiencies []DeficiencyEntry
	Closing      Closing
	Overall      Severity
}

// ImageCount returns the number of image references across all categories
func (i *Inspection) ImageCount() int {
	n := 0
	for _, e := range i.Checklist {
		n += len(e.Images)
	}
	return n
}
