package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/begehung/internal/common"
	"github.com/ternarybob/begehung/internal/interfaces"
	"github.com/ternarybob/begehung/internal/models"
	"github.com/ternarybob/begehung/internal/services/export"
	"github.com/ternarybob/begehung/internal/services/html"
	"github.com/ternarybob/begehung/internal/services/inspection"
	"github.com/ternarybob/begehung/internal/services/pdf"
	"github.com/ternarybob/begehung/internal/services/preview"
	"github.com/ternarybob/begehung/internal/services/report"
	"github.com/ternarybob/begehung/internal/services/source"
)

// App holds all pipeline components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	Source   interfaces.FormSource
	Parser   interfaces.InspectionParser
	Renderer interfaces.ReportRenderer
	Exporter interfaces.DefectExporter

	// Optional outputs
	PDFService     interfaces.PDFService
	HTMLService    interfaces.HTMLService
	PreviewService interfaces.PreviewService

	// Stdout receives the terminal preview
	Stdout io.Writer

	now func() time.Time
}

// Result summarises a completed run
type Result struct {
	RunID        string
	Source       string
	RunDate      string
	Overall      models.Severity
	Deficiencies int
	Images       int
	Written      []string
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		Stdout: os.Stdout,
		now:    time.Now,
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Debug().
		Str("source", app.Source.Describe()).
		Str("profile", cfg.Render.Profile).
		Bool("pdf", cfg.Output.PDF != "").
		Bool("html", cfg.Output.HTML != "").
		Msg("Application initialization complete")

	return app, nil
}

func (a *App) initServices() error {
	if a.Config.GitHub.Enabled() {
		src, err := source.NewGitHubIssueSource(a.Config.GitHub, a.Logger)
		if err != nil {
			return err
		}
		a.Source = src
	} else {
		a.Source = source.NewFileSource(a.Config.Input.Path, a.Config.Input.Format, a.Logger)
	}

	a.Parser = inspection.NewService(a.Config.Deficiencies.MaxSlots, a.Logger)

	a.Renderer = report.NewRenderer(report.Options{
		Profile:      report.Profile(a.Config.Render.Profile),
		Title:        a.Config.Render.Title,
		Placeholder:  a.Config.Render.Placeholder,
		ImageWidth:   a.Config.Render.ImageWidth,
		ImagesPerRow: a.Config.Render.ImagesPerRow,
	}, a.Logger)

	exporter, err := export.NewExporter(a.Config.Export.Delimiter, export.Prefix(a.Config.Export.Prefix), a.Logger)
	if err != nil {
		return err
	}
	a.Exporter = exporter

	if a.Config.Output.PDF != "" {
		a.PDFService = pdf.NewService(a.Logger)
	}
	if a.Config.Output.HTML != "" {
		a.HTMLService = html.NewService(a.Logger)
	}
	if a.Config.Output.Preview {
		a.PreviewService = preview.NewService("auto", 100, a.Logger)
	}

	return nil
}

type artifact struct {
	path string
	data []byte
}

// Run executes one pipeline pass: load the form, build every artifact in
// memory, then write them. Nothing is written when loading or rendering fails.
func (a *App) Run(ctx context.Context) (*Result, error) {
	runID := common.NewRunID()
	logger := a.Logger.WithCorrelationId(runID)

	doc, err := a.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load form from %s: %w", a.Source.Describe(), err)
	}
	if doc.IsEmpty() {
		logger.Warn().Str("source", doc.Source).Msg("Form is empty, report will contain placeholders only")
	}

	runDate := a.Config.RunDate(a.now)
	insp := a.Parser.Parse(doc, runDate)

	markdown, err := a.Renderer.Render(insp)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	var todos bytes.Buffer
	if err := a.Exporter.Write(&todos, insp); err != nil {
		return nil, fmt.Errorf("failed to export deficiencies: %w", err)
	}

	artifacts := []artifact{
		{path: a.Config.Output.Report, data: []byte(markdown)},
		{path: a.Config.Output.Todos, data: todos.Bytes()},
	}

	if a.PDFService != nil {
		data, err := a.PDFService.ConvertMarkdownToPDF(markdown, a.Config.Render.Title)
		if err != nil {
			return nil, fmt.Errorf("failed to render PDF: %w", err)
		}
		pages, err := pdf.Inspect(data)
		if err != nil {
			return nil, err
		}
		logger.Debug().Int("pages", pages).Msg("PDF validated")
		artifacts = append(artifacts, artifact{path: a.Config.Output.PDF, data: data})
	}

	if a.HTMLService != nil {
		page, err := a.HTMLService.ConvertMarkdownToHTML(markdown, a.Config.Render.Title)
		if err != nil {
			return nil, fmt.Errorf("failed to render HTML: %w", err)
		}
		artifacts = append(artifacts, artifact{path: a.Config.Output.HTML, data: []byte(page)})
	}

	var rendered string
	if a.PreviewService != nil {
		rendered, err = a.PreviewService.Render(markdown)
		if err != nil {
			return nil, fmt.Errorf("failed to render preview: %w", err)
		}
	}

	result := &Result{
		RunID:        runID,
		Source:       doc.Source,
		RunDate:      runDate,
		Overall:      insp.Overall,
		Deficiencies: len(insp.Deficiencies),
		Images:       insp.ImageCount(),
	}

	for _, art := range artifacts {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := writeArtifact(art); err != nil {
			return result, err
		}
		result.Written = append(result.Written, art.path)
		logger.Debug().Str("path", art.path).Int("bytes", len(art.data)).Msg("Artifact written")
	}

	if rendered != "" {
		fmt.Fprint(a.Stdout, rendered)
	}

	logger.Info().
		Str("source", result.Source).
		Str("overall", string(result.Overall)).
		Int("deficiencies", result.Deficiencies).
		Int("images", result.Images).
		Strs("written", result.Written).
		Msg("Inspection report generated")

	return result, nil
}

func writeArtifact(art artifact) error {
	if dir := filepath.Dir(art.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", art.path, err)
		}
	}
	if err := os.WriteFile(art.path, art.data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", art.path, err)
	}
	return nil
}
