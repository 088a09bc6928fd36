// Package export writes the deficiency list as a delimiter-separated table
// for import into task trackers and spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/begehung/internal/interfaces"
	"github.com/ternarybob/begehung/internal/models"
	"github.com/ternarybob/begehung/internal/services/form"
)

// Prefix selects the optional leading column of the export.
type Prefix string

const (
	PrefixNumber Prefix = "number" // slot number, header "Nr"
	PrefixSite   Prefix = "site"   // site name, header "Baustelle"
	PrefixNone   Prefix = "none"
)

// Columns is the fixed header after the optional prefix column.
var Columns = []string{"Schweregrad", "Ort/Bereich", "Beschreibung/Maßnahme", "Verantwortlich", "Frist"}

// Exporter writes one row per deficiency.
type Exporter struct {
	delimiter rune
	prefix    Prefix
	logger    arbor.ILogger
}

// Compile-time assertion
var _ interfaces.DefectExporter = (*Exporter)(nil)

// NewExporter creates an exporter. delimiter must be a single character.
func NewExporter(delimiter string, prefix Prefix, logger arbor.ILogger) (*Exporter, error) {
	if delimiter == "" {
		delimiter = ";"
	}
	r, size := utf8.DecodeRuneInString(delimiter)
	if size != len(delimiter) || r == '"' || r == '\n' || r == '\r' || r == utf8.RuneError {
		return nil, fmt.Errorf("invalid export delimiter %q", delimiter)
	}
	switch prefix {
	case "":
		prefix = PrefixNumber
	case PrefixNumber, PrefixSite, PrefixNone:
	default:
		return nil, fmt.Errorf("invalid export prefix %q", prefix)
	}
	return &Exporter{
		delimiter: r,
		prefix:    prefix,
		logger:    logger,
	}, nil
}

// Header returns the column names in output order
func (e *Exporter) Header() []string {
	header := make([]string, 0, len(Columns)+1)
	switch e.prefix {
	case PrefixNumber:
		header = append(header, "Nr")
	case PrefixSite:
		header = append(header, "Baustelle")
	}
	return append(header, Columns...)
}

// Write emits the header and the deficiencies of insp in document order.
// Values are collapsed to one line; table escaping is not applied.
func (e *Exporter) Write(w io.Writer, insp *models.Inspection) error {
	if insp == nil {
		return fmt.Errorf("inspection is nil")
	}

	cw := csv.NewWriter(w)
	cw.Comma = e.delimiter

	if err := cw.Write(e.Header()); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, d := range insp.Deficiencies {
		record := make([]string, 0, len(Columns)+1)
		switch e.prefix {
		case PrefixNumber:
			record = append(record, strconv.Itoa(d.Slot))
		case PrefixSite:
			record = append(record, form.Collapse(insp.Metadata.Site))
		}
		record = append(record,
			form.Collapse(d.Severity),
			form.Collapse(d.Location),
			form.Collapse(d.Description),
			form.Collapse(d.Owner),
			form.Collapse(d.DueDate),
		)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write deficiency %d: %w", d.Slot, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}

	e.logger.Debug().
		Int("rows", len(insp.Deficiencies)).
		Str("prefix", string(e.prefix)).
		Msg("Deficiencies exported")

	return nil
}
