package common

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Input        InputConfig      `toml:"input"`
	GitHub       GitHubConfig     `toml:"github"`
	Output       OutputConfig     `toml:"output"`
	Render       RenderConfig     `toml:"render"`
	Deficiencies DeficiencyConfig `toml:"deficiencies"`
	Export       ExportConfig     `toml:"export"`
	Logging      LoggingConfig    `toml:"logging"`
}

type InputConfig struct {
	Path   string `toml:"path"`                                       // Form document path (issue body)
	Format string `toml:"format" validate:"oneof=auto markdown html"` // "auto" detects HTML exports
}

// GitHubConfig selects a GitHub issue as the form source instead of a file
type GitHubConfig struct {
	Owner   string `toml:"owner"`
	Repo    string `toml:"repo"`
	Issue   int    `toml:"issue" validate:"min=0"`
	Token   string `toml:"token"`    // Prefer BEGEHUNG_GITHUB_TOKEN / GITHUB_TOKEN
	BaseURL string `toml:"base_url"` // GitHub Enterprise API URL (default: api.github.com)
}

// Enabled reports whether an issue is configured as the form source
func (g GitHubConfig) Enabled() bool {
	return g.Owner != "" && g.Repo != "" && g.Issue > 0
}

type OutputConfig struct {
	Report  string `toml:"report" validate:"required"` // Markdown report path
	Todos   string `toml:"todos" validate:"required"`  // Defect export path
	PDF     string `toml:"pdf"`                        // Optional PDF rendering of the report
	HTML    string `toml:"html"`                       // Optional HTML rendering of the report
	Preview bool   `toml:"preview"`                    // Print a terminal preview of the report
}

// RenderConfig is the deployment profile of the report renderer
type RenderConfig struct {
	Profile      string `toml:"profile" validate:"oneof=latex glyph"` // "latex" cell colours or "glyph" Unicode markers
	Title        string `toml:"title" validate:"required"`
	Placeholder  string `toml:"placeholder" validate:"required"`       // Shown for empty fields
	ImageWidth   string `toml:"image_width" validate:"required"`       // Width attribute of photo embeds
	ImagesPerRow int    `toml:"images_per_row" validate:"min=1,max=6"` // Photos per visual row
	Date         string `toml:"date" validate:"omitempty,datetime=2006-01-02"`
}

type DeficiencyConfig struct {
	MaxSlots int `toml:"max_slots" validate:"min=1,max=99"` // Number of "Mangel <n>" slots scanned
}

type ExportConfig struct {
	Delimiter string `toml:"delimiter" validate:"len=1"`
	Prefix    string `toml:"prefix" validate:"oneof=number site none"` // Leading column of the export
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"`
	Output []string `toml:"output" validate:"dive,oneof=stdout console file"`
	Dir    string   `toml:"dir"` // Log file directory when "file" output is enabled
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Path:   "issue_body.md",
			Format: "auto",
		},
		Output: OutputConfig{
			Report: "report.md",
			Todos:  "reports/todos.csv",
		},
		Render: RenderConfig{
			Profile:      "latex",
			Title:        "Baustellenbegehung",
			Placeholder:  "–",
			ImageWidth:   "48%",
			ImagesPerRow: 2,
		},
		Deficiencies: DeficiencyConfig{
			MaxSlots: 10,
		},
		Export: ExportConfig{
			Delimiter: ";",
			Prefix:    "number",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
			Dir:    "./logs",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env
// Later files override earlier files. CLI flags are applied afterwards with ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Decode into config (merges with existing values, later values override)
		decoder := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
		if err := decoder.Decode(config); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, fmt.Errorf("unknown keys in config file %s: %s", path, strict.String())
			}
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if path := os.Getenv("BEGEHUNG_INPUT"); path != "" {
		config.Input.Path = path
	}
	if report := os.Getenv("BEGEHUNG_REPORT"); report != "" {
		config.Output.Report = report
	}
	if todos := os.Getenv("BEGEHUNG_TODOS"); todos != "" {
		config.Output.Todos = todos
	}
	if profile := os.Getenv("BEGEHUNG_RENDER_PROFILE"); profile != "" {
		config.Render.Profile = profile
	}
	if date := os.Getenv("BEGEHUNG_DATE"); date != "" {
		config.Render.Date = date
	}
	if slots := os.Getenv("BEGEHUNG_MAX_DEFICIENCIES"); slots != "" {
		if n, err := strconv.Atoi(slots); err == nil {
			config.Deficiencies.MaxSlots = n
		}
	}

	// GitHub token (BEGEHUNG_GITHUB_TOKEN takes precedence over the Actions default)
	if token := os.Getenv("BEGEHUNG_GITHUB_TOKEN"); token != "" {
		config.GitHub.Token = token
	} else if token := os.Getenv("GITHUB_TOKEN"); token != "" && config.GitHub.Token == "" {
		config.GitHub.Token = token
	}

	if level := os.Getenv("BEGEHUNG_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("BEGEHUNG_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// FlagOverrides carries command-line values; empty fields leave config untouched
type FlagOverrides struct {
	Input   string
	Report  string
	Todos   string
	PDF     string
	HTML    string
	Issue   string // owner/repo#number
	Date    string
	Preview bool
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, flags FlagOverrides) error {
	if flags.Input != "" {
		config.Input.Path = flags.Input
	}
	if flags.Report != "" {
		config.Output.Report = flags.Report
	}
	if flags.Todos != "" {
		config.Output.Todos = flags.Todos
	}
	if flags.PDF != "" {
		config.Output.PDF = flags.PDF
	}
	if flags.HTML != "" {
		config.Output.HTML = flags.HTML
	}
	if flags.Date != "" {
		config.Render.Date = flags.Date
	}
	if flags.Preview {
		config.Output.Preview = true
	}
	if flags.Issue != "" {
		owner, repo, number, err := ParseIssueRef(flags.Issue)
		if err != nil {
			return err
		}
		config.GitHub.Owner = owner
		config.GitHub.Repo = repo
		config.GitHub.Issue = number
	}
	return nil
}

// ParseIssueRef parses "owner/repo#123"
func ParseIssueRef(ref string) (owner, repo string, number int, err error) {
	slug, num, found := strings.Cut(strings.TrimSpace(ref), "#")
	if !found {
		return "", "", 0, fmt.Errorf("invalid issue reference %q: expected owner/repo#number", ref)
	}
	owner, repo, found = strings.Cut(slug, "/")
	if !found || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", 0, fmt.Errorf("invalid issue reference %q: expected owner/repo#number", ref)
	}
	number, err = strconv.Atoi(num)
	if err != nil || number <= 0 {
		return "", "", 0, fmt.Errorf("invalid issue number in %q", ref)
	}
	return owner, repo, number, nil
}

// Validate checks the configuration using go-playground/validator tags
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// RunDate returns the pinned render date, or today's date in local time
func (c *Config) RunDate(now func() time.Time) string {
	if c.Render.Date != "" {
		return c.Render.Date
	}
	return now().Format("2006-01-02")
}
