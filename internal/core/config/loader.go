package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	DefaultFile = "tsreap.toml"
	ExampleFile = "tsreap.example.toml"
)

// LoadOrDefault loads the config at path, falling back to the example file
// when the default path is missing, and to built-in defaults when neither
// exists. A file that exists but fails to parse is still an error.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if path == DefaultFile {
			if _, exErr := os.Stat(ExampleFile); exErr == nil {
				return Load(ExampleFile)
			}
		}
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return Load(path)
}

// ExpandWorkspaces widens search_dirs across apps/* when the working tree is a
// JS monorepo (package.json "workspaces" key or a pnpm-workspace.yaml file).
func ExpandWorkspaces(cfg *Config, root string) {
	if !isWorkspaceRoot(root) {
		return
	}

	appsDir := filepath.Join(root, "apps")
	entries, err := os.ReadDir(appsDir)
	if err != nil {
		return
	}

	var expanded []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		for _, dir := range cfg.SearchDirs {
			expanded = append(expanded, filepath.Join("apps", entry.Name(), dir))
		}
	}
	if len(expanded) > 0 {
		slog.Debug("workspace layout detected, expanding search dirs", "dirs", expanded)
		cfg.SearchDirs = expanded
	}
}

func isWorkspaceRoot(root string) bool {
	if _, err := os.Stat(filepath.Join(root, "pnpm-workspace.yaml")); err == nil {
		return true
	}

	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return false
	}
	var manifest map[string]json.RawMessage
	if err := json.Unmarshal(data, &manifest); err != nil {
		return false
	}
	_, ok := manifest["workspaces"]
	return ok
}
