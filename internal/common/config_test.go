package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "issue_body.md", cfg.Input.Path)
	assert.Equal(t, "report.md", cfg.Output.Report)
	assert.Equal(t, "reports/todos.csv", cfg.Output.Todos)
	assert.Equal(t, "latex", cfg.Render.Profile)
	assert.Equal(t, 2, cfg.Render.ImagesPerRow)
	assert.Equal(t, 10, cfg.Deficiencies.MaxSlots)
	assert.Equal(t, ";", cfg.Export.Delimiter)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFiles_LaterFilesOverride(t *testing.T) {
	base := writeConfig(t, "base.toml", `
[render]
profile = "glyph"
title = "Begehung Nord"

[deficiencies]
max_slots = 5
`)
	override := writeConfig(t, "override.toml", `
[deficiencies]
max_slots = 2

[export]
prefix = "site"
`)

	cfg, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, "glyph", cfg.Render.Profile)
	assert.Equal(t, "Begehung Nord", cfg.Render.Title)
	assert.Equal(t, 2, cfg.Deficiencies.MaxSlots)
	assert.Equal(t, "site", cfg.Export.Prefix)
	// Untouched defaults survive
	assert.Equal(t, "48%", cfg.Render.ImageWidth)
}

func TestLoadFromFiles_Errors(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	bad := writeConfig(t, "bad.toml", "[render\nprofile=")
	_, err = LoadFromFiles(bad)
	assert.Error(t, err)
}

func TestLoadFromFiles_UnknownKeys(t *testing.T) {
	path := writeConfig(t, "typo.toml", `
[render]
profil = "glyph"
`)
	_, err := LoadFromFiles(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys")
	assert.Contains(t, err.Error(), "profil")
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("BEGEHUNG_INPUT", "form.md")
	t.Setenv("BEGEHUNG_MAX_DEFICIENCIES", "6")
	t.Setenv("BEGEHUNG_LOG_OUTPUT", "stdout, file")
	t.Setenv("BEGEHUNG_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "ghs_actions")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "form.md", cfg.Input.Path)
	assert.Equal(t, 6, cfg.Deficiencies.MaxSlots)
	assert.Equal(t, []string{"stdout", "file"}, cfg.Logging.Output)
	assert.Equal(t, "ghs_actions", cfg.GitHub.Token)
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	err := ApplyFlagOverrides(cfg, FlagOverrides{
		Input:  "body.md",
		Report: "out/report.md",
		PDF:    "out/report.pdf",
		Issue:  "acme/baustellen#42",
		Date:   "2025-03-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "body.md", cfg.Input.Path)
	assert.Equal(t, "out/report.md", cfg.Output.Report)
	assert.Equal(t, "reports/todos.csv", cfg.Output.Todos)
	assert.Equal(t, "out/report.pdf", cfg.Output.PDF)
	assert.Equal(t, "2025-03-01", cfg.Render.Date)
	assert.True(t, cfg.GitHub.Enabled())
	assert.Equal(t, 42, cfg.GitHub.Issue)

	assert.Error(t, ApplyFlagOverrides(cfg, FlagOverrides{Issue: "not-a-ref"}))
}

func TestParseIssueRef(t *testing.T) {
	owner, repo, number, err := ParseIssueRef("acme/site-reports#7")
	require.NoError(t, err)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "site-reports", repo)
	assert.Equal(t, 7, number)

	for _, ref := range []string{"acme#7", "acme/site#", "acme/site#x", "/site#1", "a/b/c#1", "acme/site#0"} {
		_, _, _, err := ParseIssueRef(ref)
		assert.Error(t, err, "ParseIssueRef(%q)", ref)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown profile", func(c *Config) { c.Render.Profile = "html" }},
		{"zero slots", func(c *Config) { c.Deficiencies.MaxSlots = 0 }},
		{"multi-char delimiter", func(c *Config) { c.Export.Delimiter = ";;" }},
		{"unknown prefix", func(c *Config) { c.Export.Prefix = "row" }},
		{"bad date", func(c *Config) { c.Render.Date = "01.03.2025" }},
		{"no report path", func(c *Config) { c.Output.Report = "" }},
		{"unknown log output", func(c *Config) { c.Logging.Output = []string{"syslog"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRunDate(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }

	cfg := NewDefaultConfig()
	assert.Equal(t, "2025-03-01", cfg.RunDate(now))

	cfg.Render.Date = "2024-12-24"
	assert.Equal(t, "2024-12-24", cfg.RunDate(now))
}
