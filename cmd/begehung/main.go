package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/begehung/internal/app"
	"github.com/ternarybob/begehung/internal/common"
	"github.com/ternarybob/begehung/internal/services/source"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	inputPath    = flag.String("input", "", "Form document path (overrides config)")
	inputPathI   = flag.String("i", "", "Form document path (shorthand)")
	reportPath   = flag.String("report", "", "Markdown report output path")
	todosPath    = flag.String("todos", "", "Defect export output path")
	pdfPath      = flag.String("pdf", "", "Also render the report as PDF to this path")
	htmlPath     = flag.String("html", "", "Also render the report as HTML to this path")
	issueRef     = flag.String("issue", "", "Read the form from a GitHub issue (owner/repo#number)")
	runDate      = flag.String("date", "", "Pin the report date (YYYY-MM-DD)")
	showPreview  = flag.Bool("preview", false, "Print a terminal preview of the report")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	defer common.RecoverWithCrashFile()

	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Begehung version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("begehung.toml"); err == nil {
			configFiles = append(configFiles, "begehung.toml")
		} else if _, err := os.Stat("deployments/local/begehung.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/begehung.toml")
		}
	}

	// 1. Load configuration (default -> file1 -> file2 -> ... -> env)
	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Error().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration files")
		os.Exit(1)
	}

	// 2. Apply command-line flag overrides (highest priority)
	input := *inputPath
	if *inputPathI != "" {
		input = *inputPathI
	}
	if err := common.ApplyFlagOverrides(config, common.FlagOverrides{
		Input:   input,
		Report:  *reportPath,
		Todos:   *todosPath,
		PDF:     *pdfPath,
		HTML:    *htmlPath,
		Issue:   *issueRef,
		Date:    *runDate,
		Preview: *showPreview,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// 3. Initialize logger with final configuration
	logger := common.InitLogger(config)
	common.InstallCrashHandler(config.Logging.Dir)

	// 4. Print banner
	if !config.Output.Preview {
		common.PrintBanner(common.GetVersion())
	}

	logger.Debug().
		Strs("config_files", configFiles).
		Str("input", config.Input.Path).
		Bool("github", config.GitHub.Enabled()).
		Str("report", config.Output.Report).
		Str("todos", config.Output.Todos).
		Str("profile", config.Render.Profile).
		Int("max_deficiencies", config.Deficiencies.MaxSlots).
		Msg("Resolved configuration")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		stop()
		if errors.Is(err, source.ErrInputNotFound) {
			logger.Error().Err(err).Msg("Input not found, nothing written")
		} else {
			logger.Error().Err(err).Msg("Report generation failed")
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, config *common.Config, logger arbor.ILogger) error {
	application, err := app.New(config, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	result, err := application.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d file(s): overall %s, %d deficiencies\n", len(result.Written), result.Overall, result.Deficiencies)
	return nil
}
