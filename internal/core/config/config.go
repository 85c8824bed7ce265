package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	cerrors "tsreap/internal/core/errors"
)

type Config struct {
	Version     int      `toml:"version"`
	SearchDirs  []string `toml:"search_dirs"`
	EntryPoints []string `toml:"entry_points"`
	Exclude     Exclude  `toml:"exclude"`
	Detect      Detect   `toml:"detect"`
	Engine      Engine   `toml:"engine"`
	CI          CI       `toml:"ci"`
	History     History  `toml:"history"`
	Watch       Watch    `toml:"watch"`
	Metrics     Metrics  `toml:"metrics"`
	Report      Report   `toml:"report"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

// Detect gates which extractor categories run. Unset means enabled.
type Detect struct {
	Components *bool `toml:"components"`
	Types      *bool `toml:"types"`
	Interfaces *bool `toml:"interfaces"`
	Functions  *bool `toml:"functions"`
	Variables  *bool `toml:"variables"`
	Enums      *bool `toml:"enums"`
}

type Engine struct {
	Jobs         int    `toml:"jobs"`
	Scanner      string `toml:"scanner"`
	IncludeTests bool   `toml:"include_tests"`
	// Whether identifiers appearing only in type annotations count as usage.
	// Applies to the AST scanner; the token scanner cannot distinguish them.
	CountTypeAnnotationRefs *bool `toml:"count_type_annotation_refs"`
}

type CI struct {
	MaxUnused    int  `toml:"max_unused"`
	FailOnExceed bool `toml:"fail_on_exceed"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Watch struct {
	Enabled          bool          `toml:"enabled"`
	Debounce         time.Duration `toml:"debounce"`
	MaxRescansPerMin int           `toml:"max_rescans_per_min"`
}

type Metrics struct {
	Listen string `toml:"listen"`
}

type Report struct {
	Color   *bool `toml:"color"`
	Verbose bool  `toml:"verbose"`
}

const (
	ScannerTokens = "tokens"
	ScannerAST    = "ast"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, cerrors.Wrap(err, cerrors.CodeConfig, "parse "+path)
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, cerrors.Wrap(err, cerrors.CodeValidation, "invalid config")
	}
	if err := validateEngine(&cfg); err != nil {
		return nil, cerrors.Wrap(err, cerrors.CodeValidation, "invalid config")
	}
	if err := validateCI(&cfg); err != nil {
		return nil, cerrors.Wrap(err, cerrors.CodeValidation, "invalid config")
	}
	if err := validatePaths(&cfg); err != nil {
		return nil, cerrors.Wrap(err, cerrors.CodeValidation, "invalid config")
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file exists on disk.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func DefaultExcludeDirs() []string {
	return []string{
		"node_modules", ".next", "dist", ".turbo", "build", "out",
		"__tests__", "coverage", ".nyc_output", ".git", ".vscode", ".idea",
	}
}

func DefaultExcludeFiles() []string {
	return []string{
		"*.test.ts", "*.test.tsx", "*.test.js", "*.test.jsx",
		"*.spec.ts", "*.spec.tsx", "*.spec.js", "*.spec.jsx",
		"*.stories.ts", "*.stories.tsx", "*.stories.js", "*.stories.jsx",
		"*.d.ts", "*.min.js", "*.min.css",
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.SearchDirs) == 0 {
		cfg.SearchDirs = []string{"src"}
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = DefaultExcludeDirs()
	}
	if len(cfg.Exclude.Files) == 0 {
		cfg.Exclude.Files = DefaultExcludeFiles()
	}
	if cfg.Engine.Jobs <= 0 {
		cfg.Engine.Jobs = runtime.NumCPU()
	}
	if strings.TrimSpace(cfg.Engine.Scanner) == "" {
		cfg.Engine.Scanner = ScannerTokens
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = "tsreap-history.db"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxRescansPerMin <= 0 {
		cfg.Watch.MaxRescansPerMin = 30
	}
}

func (d Detect) ComponentsEnabled() bool { return d.Components == nil || *d.Components }
func (d Detect) TypesEnabled() bool      { return d.Types == nil || *d.Types }
func (d Detect) InterfacesEnabled() bool { return d.Interfaces == nil || *d.Interfaces }
func (d Detect) FunctionsEnabled() bool  { return d.Functions == nil || *d.Functions }
func (d Detect) VariablesEnabled() bool  { return d.Variables == nil || *d.Variables }
func (d Detect) EnumsEnabled() bool      { return d.Enums == nil || *d.Enums }

func (e Engine) TypeAnnotationRefsCount() bool {
	if e.CountTypeAnnotationRefs == nil {
		return true
	}
	return *e.CountTypeAnnotationRefs
}

func (r Report) ColorEnabled() bool {
	if r.Color == nil {
		return true
	}
	return *r.Color
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateEngine(cfg *Config) error {
	scanner := strings.ToLower(strings.TrimSpace(cfg.Engine.Scanner))
	switch scanner {
	case ScannerTokens, ScannerAST:
	default:
		return fmt.Errorf("engine.scanner must be one of: tokens, ast")
	}
	cfg.Engine.Scanner = scanner
	return nil
}

func validateCI(cfg *Config) error {
	if cfg.CI.MaxUnused < 0 {
		return fmt.Errorf("ci.max_unused must be >= 0, got %d", cfg.CI.MaxUnused)
	}
	return nil
}

func validatePaths(cfg *Config) error {
	for i, dir := range cfg.SearchDirs {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("search_dirs[%d] must not be empty", i)
		}
	}
	for i, entry := range cfg.EntryPoints {
		if strings.TrimSpace(entry) == "" {
			return fmt.Errorf("entry_points[%d] must not be empty", i)
		}
	}
	return nil
}
