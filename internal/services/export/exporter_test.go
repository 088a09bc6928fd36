package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/begehung/internal/models"
)

func sample() *models.Inspection {
	return &models.Inspection{
		Metadata: models.ReportMetadata{Site: "Neubau Nord"},
		Deficiencies: []models.DeficiencyEntry{
			{Slot: 1, Severity: "hoch", Location: "Tor 1", Description: "Helmpflicht | durchsetzen", Owner: "A. Maier", DueDate: "2025-03-03"},
			{Slot: 3, Location: "Lager Süd"},
		},
	}
}

func newExporter(t *testing.T, delimiter string, prefix Prefix) *Exporter {
	t.Helper()
	e, err := NewExporter(delimiter, prefix, arbor.NewLogger())
	require.NoError(t, err)
	return e
}

func TestWrite_NumberPrefix(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newExporter(t, ";", PrefixNumber).Write(&buf, sample()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Nr;Schweregrad;Ort/Bereich;Beschreibung/Maßnahme;Verantwortlich;Frist", lines[0])
	assert.Equal(t, "1;hoch;Tor 1;Helmpflicht | durchsetzen;A. Maier;2025-03-03", lines[1])
	assert.Equal(t, "3;;Lager Süd;;;", lines[2])
}

func TestWrite_SitePrefix(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newExporter(t, ";", PrefixSite).Write(&buf, sample()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, "Baustelle;Schweregrad;Ort/Bereich;Beschreibung/Maßnahme;Verantwortlich;Frist", lines[0])
	assert.Equal(t, "Neubau Nord;;Lager Süd;;;", lines[2])
}

func TestWrite_NoPrefix(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newExporter(t, ";", PrefixNone).Write(&buf, sample()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, "Schweregrad;Ort/Bereich;Beschreibung/Maßnahme;Verantwortlich;Frist", lines[0])
	assert.Equal(t, ";Lager Süd;;;", lines[2])
}

func TestWrite_HeaderOnlyWithoutDeficiencies(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newExporter(t, ";", PrefixNumber).Write(&buf, &models.Inspection{}))

	assert.Equal(t, "Nr;Schweregrad;Ort/Bereich;Beschreibung/Maßnahme;Verantwortlich;Frist\n", buf.String())
}

func TestWrite_DelimiterInValueRoundTrips(t *testing.T) {
	insp := &models.Inspection{Deficiencies: []models.DeficiencyEntry{
		{Slot: 1, Description: "Geländer fehlt; Netz spannen"},
	}}
	var buf bytes.Buffer
	require.NoError(t, newExporter(t, ";", PrefixNumber).Write(&buf, insp))

	r := csv.NewReader(&buf)
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Geländer fehlt; Netz spannen", records[1][3])
}

func TestWrite_CollapsesMultilineValues(t *testing.T) {
	insp := &models.Inspection{Deficiencies: []models.DeficiencyEntry{
		{Slot: 2, Description: "Zeile eins\n  Zeile zwei"},
	}}
	var buf bytes.Buffer
	require.NoError(t, newExporter(t, ",", PrefixNumber).Write(&buf, insp))

	assert.Contains(t, buf.String(), "2,,,Zeile eins Zeile zwei,,\n")
}

func TestNewExporter_Invalid(t *testing.T) {
	_, err := NewExporter(";;", PrefixNumber, arbor.NewLogger())
	assert.Error(t, err)

	_, err = NewExporter(`"`, PrefixNumber, arbor.NewLogger())
	assert.Error(t, err)

	_, err = NewExporter(";", Prefix("row"), arbor.NewLogger())
	assert.Error(t, err)
}

func TestNewExporter_Defaults(t *testing.T) {
	e, err := NewExporter("", "", arbor.NewLogger())
	require.NoError(t, err)
	assert.Equal(t, ';', e.delimiter)
	assert.Equal(t, PrefixNumber, e.prefix)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite_PropagatesWriterError(t *testing.T) {
	err := newExporter(t, ";", PrefixNumber).Write(failingWriter{}, sample())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
