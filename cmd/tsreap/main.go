package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tsreap/internal/core/app"
	"tsreap/internal/core/config"
	"tsreap/internal/core/watcher"
	"tsreap/internal/engine/detect"
	"tsreap/internal/shared/observability"
	"tsreap/internal/ui/report"
)

var (
	configPath  = flag.String("config", config.DefaultFile, "Path to config file")
	strict      = flag.Bool("strict", false, "Exit non-zero when any unused declaration is found")
	quiet       = flag.Bool("quiet", false, "Only print the unused list")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging and report detail")
	jobs        = flag.Int("jobs", 0, "Number of scan workers (0 = number of CPUs)")
	watch       = flag.Bool("watch", false, "Keep running and rescan on file changes")
	historyFlag = flag.Bool("history", false, "Print recent run history and exit")
	versionFlag = flag.Bool("version", false, "Print version and exit")
	noColor     = flag.Bool("no-color", false, "Disable colored output")
	jsonOut     = flag.Bool("json", false, "Emit the report as JSON instead of text")

	components = flag.Bool("components", false, "Detect unused components")
	types      = flag.Bool("types", false, "Detect unused type aliases")
	interfaces = flag.Bool("interfaces", false, "Detect unused interfaces")
	functions  = flag.Bool("functions", false, "Detect unused functions")
	variables  = flag.Bool("variables", false, "Detect unused variables")
	enums      = flag.Bool("enums", false, "Detect unused enums")
	all        = flag.Bool("all", false, "Detect every category (default when no category flag is given)")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("tsreap v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	if *quiet {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	applyFlags(cfg)
	if cwd, err := os.Getwd(); err == nil {
		config.ExpandWorkspaces(cfg, cwd)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer shutdownTracing(context.Background())
	}

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(2)
	}
	defer a.Close()

	if *historyFlag {
		os.Exit(printHistory(a))
	}

	renderOpts := report.Options{
		Color:   cfg.Report.ColorEnabled() && !*noColor,
		Verbose: cfg.Report.Verbose || *verbose,
		Quiet:   *quiet,
	}

	rep, err := a.RunScan(ctx)
	if err != nil {
		slog.Error("scan failed", "error", err)
		os.Exit(2)
	}
	printReport(rep, renderOpts)

	if !*watch && !cfg.Watch.Enabled {
		os.Exit(report.ExitCode(rep, *strict, cfg.CI))
	}

	if err := runWatch(ctx, a, cfg, renderOpts); err != nil {
		slog.Error("watch mode failed", "error", err)
		os.Exit(2)
	}
}

// applyFlags overlays command-line switches on the loaded config. Category
// flags are opt-in: naming any one of them disables the categories not named,
// except components, which stay on whenever any toggle is given.
func applyFlags(cfg *config.Config) {
	if *jobs > 0 {
		cfg.Engine.Jobs = *jobs
	}

	anyCategory := *components || *types || *interfaces || *functions || *variables || *enums
	if anyCategory && !*all {
		on := true
		cfg.Detect.Components = &on
		cfg.Detect.Types = types
		cfg.Detect.Interfaces = interfaces
		cfg.Detect.Functions = functions
		cfg.Detect.Variables = variables
		cfg.Detect.Enums = enums
	}

	if *historyFlag {
		cfg.History.Enabled = true
	}
}

func runWatch(ctx context.Context, a *app.App, cfg *config.Config, renderOpts report.Options) error {
	rescan := func(changed []string) {
		slog.Info("rescanning", "changed", len(changed))
		rep, err := a.RunScan(ctx)
		if err != nil {
			slog.Error("rescan failed", "error", err)
			return
		}
		printReport(rep, renderOpts)
	}

	w, err := watcher.NewWatcher(watcher.Config{
		Debounce:         cfg.Watch.Debounce,
		MaxRescansPerMin: cfg.Watch.MaxRescansPerMin,
		ExcludeDirs:      cfg.Exclude.Dirs,
		ExcludeFiles:     cfg.Exclude.Files,
		IncludeTests:     cfg.Engine.IncludeTests,
	}, rescan)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch(cfg.SearchDirs); err != nil {
		return err
	}

	var obs *observability.Server
	if cfg.Metrics.Listen != "" {
		obs = observability.NewServer(cfg.Metrics.Listen)
		if err := obs.Start(ctx); err != nil {
			return err
		}
	}

	slog.Info("watching for changes", "dirs", cfg.SearchDirs)
	<-ctx.Done()

	if obs != nil {
		return obs.Stop(context.Background())
	}
	return nil
}

func printReport(rep *detect.Report, opts report.Options) {
	if *jsonOut {
		if err := report.WriteJSON(os.Stdout, rep); err != nil {
			slog.Error("failed to write JSON report", "error", err)
		}
		return
	}
	fmt.Print(report.Render(rep, opts))
}

func printHistory(a *app.App) int {
	records, err := a.History.Recent("", 10)
	if err != nil {
		slog.Error("failed to read history", "error", err)
		return 2
	}
	if len(records) == 0 {
		fmt.Println("no recorded runs")
		return 0
	}
	for _, rec := range records {
		fmt.Printf("%s  %s  files %d  total %d  used %d  unused %d\n",
			rec.Timestamp.Format("2006-01-02 15:04:05"), rec.RunID[:8],
			rec.FileCount, rec.Total, rec.Used, rec.Unused)
	}
	return 0
}
