// Package detect runs the full detection pipeline: read and process files in
// parallel, merge the per-file results into a usage graph, classify every
// declaration, and aggregate the verdicts into a report.
package detect

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tsreap/internal/core/errors"
	"tsreap/internal/engine/extract"
	"tsreap/internal/engine/graph"
	"tsreap/internal/engine/lex"
	"tsreap/internal/engine/scan"
	"tsreap/internal/engine/source"
	"tsreap/internal/shared/observability"
)

// Config assembles a Detector. Zero values fall back to sensible defaults.
type Config struct {
	// Scanner produces identifier occurrences. Defaults to the token scanner.
	Scanner scan.Scanner
	// Extract gates which declaration categories are detected.
	Extract extract.Options
	// Jobs bounds the worker pool. Defaults to GOMAXPROCS-equivalent.
	Jobs int
	// EntryPoints are root files whose declarations are always used.
	EntryPoints []string
	Logger      *slog.Logger
}

type Detector struct {
	scanner     scan.Scanner
	opts        extract.Options
	jobs        int
	entryPoints []string
	logger      *slog.Logger
}

func New(cfg Config) *Detector {
	d := &Detector{
		scanner:     cfg.Scanner,
		opts:        cfg.Extract,
		jobs:        cfg.Jobs,
		entryPoints: cfg.EntryPoints,
		logger:      cfg.Logger,
	}
	if d.scanner == nil {
		d.scanner = scan.NewTokenScanner()
	}
	if d.jobs <= 0 {
		d.jobs = runtime.NumCPU()
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// fileResult is what one worker hands to the collector: either a partial or
// the read error that caused the file to be skipped.
type fileResult struct {
	partial source.Partial
	path    string
	err     error
}

// Run processes all paths and returns the aggregated report. A file that
// cannot be read is logged and skipped; it never fails the run. The returned
// report is identical for any worker count and scheduling order.
func (d *Detector) Run(ctx context.Context, paths []string) (*Report, error) {
	runStart := time.Now()
	ctx, span := observability.Tracer.Start(ctx, "detect.Run",
		trace.WithAttributes(attribute.Int("files", len(paths)), attribute.Int("jobs", d.jobs)))
	defer span.End()

	partials, skipped, err := d.processAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	occurrences := 0
	for _, p := range partials {
		occurrences += len(p.Occurrences)
	}
	observability.OccurrencesFound.Set(float64(occurrences))

	start := time.Now()
	_, graphSpan := observability.Tracer.Start(ctx, "detect.BuildGraph")
	g := graph.Build(partials)
	graphSpan.End()
	observability.RunDuration.WithLabelValues("graph").Observe(time.Since(start).Seconds())

	start = time.Now()
	_, classifySpan := observability.Tracer.Start(ctx, "detect.Classify")
	results := graph.Classify(g, d.entryPoints)
	classifySpan.End()
	observability.RunDuration.WithLabelValues("classify").Observe(time.Since(start).Seconds())

	report := Aggregate(results, len(partials), skipped)
	report.Duration = time.Since(runStart)
	publishMetrics(report)
	return report, nil
}

// processAll fans the paths out to d.jobs workers and collects every partial.
// The collector is the only goroutine touching the result slices; workers
// share nothing. All workers are joined before the function returns, so the
// slices are complete and safe to read.
func (d *Detector) processAll(ctx context.Context, paths []string) ([]source.Partial, []SkippedFile, error) {
	ctx, span := observability.Tracer.Start(ctx, "detect.ProcessFiles")
	defer span.End()
	start := time.Now()
	defer func() {
		observability.RunDuration.WithLabelValues("process").Observe(time.Since(start).Seconds())
	}()

	pathCh := make(chan string)
	resultCh := make(chan fileResult)

	var wg sync.WaitGroup
	for i := 0; i < d.jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range pathCh {
				partial, err := d.processFile(path)
				select {
				case resultCh <- fileResult{partial: partial, path: path, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	go func() {
		defer close(pathCh)
		for _, p := range paths {
			select {
			case pathCh <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	var partials []source.Partial
	var skipped []SkippedFile
	for r := range resultCh {
		if r.err != nil {
			d.logger.Warn("skipping unreadable file", "path", r.path, "error", r.err)
			skipped = append(skipped, SkippedFile{Path: r.path, Reason: r.err.Error()})
			continue
		}
		partials = append(partials, r.partial)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// Collection order depends on scheduling; restore path order so skip
	// warnings and downstream processing are stable.
	sort.Slice(partials, func(i, j int) bool { return partials[i].Path < partials[j].Path })
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].Path < skipped[j].Path })
	return partials, skipped, nil
}

// processFile runs the per-file pipeline: read, extract declarations, scan
// occurrences, parse import bindings.
func (d *Detector) processFile(path string) (source.Partial, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		wrapped := errors.Wrap(err, errors.CodeFileRead, "read source file")
		return source.Partial{}, errors.AddContext(wrapped, errors.CtxPath, path)
	}

	f := source.NewFile(path, content)
	start := time.Now()
	occs, err := d.scanner.Scan(f)
	if err != nil {
		return source.Partial{}, errors.AddContext(err, errors.CtxPath, path)
	}
	observability.ScanDuration.WithLabelValues(f.Language).Observe(time.Since(start).Seconds())

	return source.Partial{
		Path:         f.Path,
		Declarations: extract.File(f, d.opts),
		Occurrences:  occs,
		Imports:      lex.ParseImports(string(lex.StripComments(f.Content))),
	}, nil
}

func publishMetrics(r *Report) {
	observability.FilesScanned.Set(float64(r.Files))
	observability.FilesSkipped.Set(float64(len(r.Skipped)))
	for _, kind := range source.Kinds() {
		s := r.Stats[kind]
		observability.DeclarationsFound.WithLabelValues(kind.String()).Set(float64(s.Total))
		observability.UnusedDeclarations.WithLabelValues(kind.String()).Set(float64(s.Unused))
	}
}
