// Package app wires configuration, the file walker, the detection engine, and
// the history store into the top-level scan operation the CLI invokes.
package app

import (
	"context"
	"log/slog"

	"tsreap/internal/core/config"
	"tsreap/internal/data/history"
	"tsreap/internal/engine/detect"
	"tsreap/internal/engine/extract"
	"tsreap/internal/engine/scan"
	"tsreap/internal/shared/observability"
)

type App struct {
	Config  *config.Config
	History *history.Store

	detector *detect.Detector
	logger   *slog.Logger
}

func New(cfg *config.Config) (*App, error) {
	logger := slog.Default()

	var scanner scan.Scanner
	switch cfg.Engine.Scanner {
	case config.ScannerAST:
		scanner = scan.NewASTScanner(cfg.Engine.TypeAnnotationRefsCount())
	default:
		scanner = scan.NewTokenScanner()
	}

	a := &App{
		Config: cfg,
		detector: detect.New(detect.Config{
			Scanner:     scanner,
			Extract:     extractOptions(cfg.Detect),
			Jobs:        cfg.Engine.Jobs,
			EntryPoints: cfg.EntryPoints,
			Logger:      logger,
		}),
		logger: logger,
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.History = store
	}

	return a, nil
}

func extractOptions(d config.Detect) extract.Options {
	return extract.Options{
		Components: d.ComponentsEnabled(),
		Types:      d.TypesEnabled(),
		Interfaces: d.InterfacesEnabled(),
		Functions:  d.FunctionsEnabled(),
		Variables:  d.VariablesEnabled(),
		Enums:      d.EnumsEnabled(),
	}
}

// RunScan walks the configured search directories and runs the full
// detection pipeline over every supported file found.
func (a *App) RunScan(ctx context.Context) (*detect.Report, error) {
	files, err := a.CollectFiles()
	if err != nil {
		return nil, err
	}

	report, err := a.detector.Run(ctx, files)
	if err != nil {
		return nil, err
	}

	if a.History != nil {
		if runID, err := a.History.SaveRun("", report); err != nil {
			observability.HistoryWriteErrorsTotal.Inc()
			a.logger.Warn("failed to persist run history", "error", err)
		} else {
			observability.HistoryWritesTotal.Inc()
			a.logger.Debug("run history saved", "run_id", runID)
		}
	}

	return report, nil
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.History.Close()
}
