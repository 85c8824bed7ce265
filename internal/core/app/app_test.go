package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tsreap/internal/core/config"
	"tsreap/internal/engine/source"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestCollectFilesAppliesExcludes(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/app.tsx":                     "export const App = () => <div />;\n",
		"src/util.test.ts":                "export const t = 1;\n",
		"src/types.d.ts":                  "export type X = string;\n",
		"src/node_modules/pkg/index.js":   "module.exports = {};\n",
		"src/readme.md":                   "# notes\n",
		"src/sub/feature.ts":              "export const f = 1;\n",
	})

	cfg := config.Default()
	cfg.SearchDirs = []string{filepath.Join(root, "src")}
	a := newTestApp(t, cfg)

	files, err := a.CollectFiles()
	if err != nil {
		t.Fatalf("CollectFiles failed: %v", err)
	}

	got := make(map[string]bool, len(files))
	for _, f := range files {
		rel, _ := filepath.Rel(root, f)
		got[filepath.ToSlash(rel)] = true
	}

	for _, want := range []string{"src/app.tsx", "src/sub/feature.ts"} {
		if !got[want] {
			t.Errorf("missing %s in %v", want, files)
		}
	}
	for _, banned := range []string{"src/util.test.ts", "src/types.d.ts", "src/node_modules/pkg/index.js", "src/readme.md"} {
		if got[banned] {
			t.Errorf("%s should have been excluded", banned)
		}
	}
}

func TestCollectFilesIncludeTests(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/util.ts":      "export const u = 1;\n",
		"src/util.test.ts": "import { u } from './util';\nu;\n",
	})

	cfg := config.Default()
	cfg.SearchDirs = []string{filepath.Join(root, "src")}
	cfg.Engine.IncludeTests = true
	a := newTestApp(t, cfg)

	files, err := a.CollectFiles()
	if err != nil {
		t.Fatalf("CollectFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("expected both files with include_tests, got %v", files)
	}
}

func TestCollectFilesMissingDir(t *testing.T) {
	cfg := config.Default()
	cfg.SearchDirs = []string{filepath.Join(t.TempDir(), "absent")}
	a := newTestApp(t, cfg)

	files, err := a.CollectFiles()
	if err != nil {
		t.Fatalf("CollectFiles failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
}

func TestRunScanEndToEnd(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/components.tsx": "export const Button = () => <button />;\nexport const Spinner = () => <div />;\n",
		"src/page.tsx":       "import { Button } from './components';\nexport const Page = () => <Button />;\n",
	})

	cfg := config.Default()
	cfg.SearchDirs = []string{filepath.Join(root, "src")}
	cfg.EntryPoints = []string{"src/page.tsx"}
	a := newTestApp(t, cfg)

	report, err := a.RunScan(context.Background())
	if err != nil {
		t.Fatalf("RunScan failed: %v", err)
	}

	if report.Files != 2 {
		t.Errorf("Files = %d, want 2", report.Files)
	}
	if len(report.Unused) != 1 || report.Unused[0].Name != "Spinner" {
		t.Errorf("Unused = %+v, want only Spinner", report.Unused)
	}
	if s := report.Stats[source.KindComponent]; s.Total != 3 || s.Used != 2 {
		t.Errorf("component stats = %+v", s)
	}
}

func TestRunScanRecordsHistory(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/a.ts": "export const one = 1;\n",
	})

	cfg := config.Default()
	cfg.SearchDirs = []string{filepath.Join(root, "src")}
	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(root, "history.db")
	a := newTestApp(t, cfg)

	if _, err := a.RunScan(context.Background()); err != nil {
		t.Fatalf("RunScan failed: %v", err)
	}

	records, err := a.History.Recent("", 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(records))
	}
	if records[0].FileCount != 1 || records[0].Unused != 1 {
		t.Errorf("history record = %+v", records[0])
	}
}

func TestScanDirectoriesRejectsBadPattern(t *testing.T) {
	cfg := config.Default()
	a := newTestApp(t, cfg)

	if _, err := a.ScanDirectories(nil, []string{"[unclosed"}, nil); err == nil {
		t.Error("expected error for invalid glob pattern")
	}
}
