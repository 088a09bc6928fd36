package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/begehung/internal/common"
	"github.com/ternarybob/begehung/internal/models"
	"github.com/ternarybob/begehung/internal/services/source"
)

const form = `### Ort / Baustelle

Neubau Nord

### PSA & Zutritt

Mangel

### PSA & Zutritt – Bemerkungen

Helm fehlt

### PSA & Zutritt – Fotos/Nachweise

![a](https://example.com/1.jpg)

### Mangel 1 – Schweregrad

hoch

### Mangel 1 – Ort/Bereich

Tor 1
`

func testConfig(t *testing.T, input string) *common.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := common.NewDefaultConfig()
	cfg.Input.Path = filepath.Join(dir, "issue_body.md")
	cfg.Output.Report = filepath.Join(dir, "out", "report.md")
	cfg.Output.Todos = filepath.Join(dir, "out", "reports", "todos.csv")
	cfg.Render.Date = "2025-03-05"
	if input != "" {
		require.NoError(t, os.WriteFile(cfg.Input.Path, []byte(input), 0644))
	}
	return cfg
}

func newApp(t *testing.T, cfg *common.Config) *App {
	t.Helper()
	a, err := New(cfg, arbor.NewLogger())
	require.NoError(t, err)
	return a
}

func TestRun_WritesReportAndTodos(t *testing.T) {
	cfg := testConfig(t, form)

	result, err := newApp(t, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SeverityFail, result.Overall)
	assert.Equal(t, 1, result.Deficiencies)
	assert.Equal(t, 1, result.Images)
	assert.Equal(t, "2025-03-05", result.RunDate)
	assert.True(t, strings.HasPrefix(result.RunID, "run_"))
	assert.Equal(t, []string{cfg.Output.Report, cfg.Output.Todos}, result.Written)

	reportMD, err := os.ReadFile(cfg.Output.Report)
	require.NoError(t, err)
	assert.Contains(t, string(reportMD), `| PSA & Zutritt | \cellcolor{fail}\textbf{Mangel} | Helm fehlt |`)

	todos, err := os.ReadFile(cfg.Output.Todos)
	require.NoError(t, err)
	assert.Equal(t, "Nr;Schweregrad;Ort/Bereich;Beschreibung/Maßnahme;Verantwortlich;Frist\n1;hoch;Tor 1;;;\n", string(todos))
}

func TestRun_Idempotent(t *testing.T) {
	cfg := testConfig(t, form)
	a := newApp(t, cfg)

	_, err := a.Run(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(cfg.Output.Report)
	require.NoError(t, err)
	firstTodos, err := os.ReadFile(cfg.Output.Todos)
	require.NoError(t, err)

	_, err = a.Run(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(cfg.Output.Report)
	require.NoError(t, err)
	secondTodos, err := os.ReadFile(cfg.Output.Todos)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstTodos, secondTodos)
}

func TestRun_MissingInputWritesNothing(t *testing.T) {
	cfg := testConfig(t, "")

	_, err := newApp(t, cfg).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrInputNotFound))

	_, statErr := os.Stat(cfg.Output.Report)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(cfg.Output.Todos)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_UsesClockWithoutPinnedDate(t *testing.T) {
	cfg := testConfig(t, "### PSA & Zutritt\n\nOK\n")
	cfg.Render.Date = ""
	a := newApp(t, cfg)
	a.now = func() time.Time { return time.Date(2024, 11, 2, 9, 0, 0, 0, time.Local) }

	result, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-11-02", result.RunDate)
	assert.Equal(t, 0, result.Deficiencies)

	reportMD, err := os.ReadFile(cfg.Output.Report)
	require.NoError(t, err)
	assert.Contains(t, string(reportMD), "**Datum:** 2024-11-02  \n")
	assert.Contains(t, string(reportMD), "Keine Mängel festgestellt.")
}

func TestRun_OptionalOutputs(t *testing.T) {
	cfg := testConfig(t, form)
	dir := filepath.Dir(cfg.Output.Report)
	cfg.Output.PDF = filepath.Join(dir, "report.pdf")
	cfg.Output.HTML = filepath.Join(dir, "report.html")
	cfg.Output.Preview = true

	a := newApp(t, cfg)
	var stdout bytes.Buffer
	a.Stdout = &stdout

	result, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Written, 4)

	pdfData, err := os.ReadFile(cfg.Output.PDF)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdfData[:4]))

	page, err := os.ReadFile(cfg.Output.HTML)
	require.NoError(t, err)
	assert.Contains(t, string(page), "sev-fail")

	assert.Contains(t, stdout.String(), "Helm fehlt")
}

func TestRun_CanceledContext(t *testing.T) {
	cfg := testConfig(t, form)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newApp(t, cfg).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(cfg.Output.Report)
	assert.True(t, os.IsNotExist(statErr))
}

func TestNew_InvalidExportConfig(t *testing.T) {
	cfg := testConfig(t, form)
	cfg.Export.Delimiter = ";;"

	_, err := New(cfg, arbor.NewLogger())
	assert.Error(t, err)
}
