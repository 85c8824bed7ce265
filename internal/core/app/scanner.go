package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"tsreap/internal/engine/source"
)

// CollectFiles walks the configured search directories and returns every
// supported source file, sorted. A search directory that does not exist is
// skipped rather than failing the run.
func (a *App) CollectFiles() ([]string, error) {
	roots := make([]string, 0, len(a.Config.SearchDirs))
	seen := make(map[string]bool, len(a.Config.SearchDirs))
	for _, dir := range a.Config.SearchDirs {
		clean := filepath.Clean(dir)
		if seen[clean] {
			continue
		}
		seen[clean] = true
		roots = append(roots, clean)
	}
	sort.Strings(roots)

	return a.ScanDirectories(roots, a.Config.Exclude.Dirs, a.Config.Exclude.Files)
}

// ScanDirectories walks each root and applies the exclude globs. Dir patterns
// match directory basenames and prune the whole subtree; file patterns match
// file basenames.
func (a *App) ScanDirectories(roots, excludeDirs, excludeFiles []string) ([]string, error) {
	dirGlobs, err := compileGlobs(excludeDirs, "exclude dir")
	if err != nil {
		return nil, err
	}
	fileGlobs, err := compileGlobs(a.effectiveFileExcludes(excludeFiles), "exclude file")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, root := range roots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			a.logger.Debug("search dir missing, skipping", "dir", root)
			continue
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if d.IsDir() {
				for _, g := range dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !source.IsSupportedPath(path) {
				return nil
			}
			if !a.Config.Engine.IncludeTests && isTestFile(base) {
				return nil
			}
			for _, g := range fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// effectiveFileExcludes drops the test-file patterns when tests are included,
// so include_tests wins over the default exclude list.
func (a *App) effectiveFileExcludes(patterns []string) []string {
	if !a.Config.Engine.IncludeTests {
		return patterns
	}
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if strings.Contains(p, ".test.") || strings.Contains(p, ".spec.") {
			continue
		}
		out = append(out, p)
	}
	return out
}

func isTestFile(base string) bool {
	for _, marker := range []string{".test.", ".spec."} {
		if strings.Contains(base, marker) {
			return true
		}
	}
	return strings.HasPrefix(base, "__tests__")
}

func compileGlobs(patterns []string, label string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", label, p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}
