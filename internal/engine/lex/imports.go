package lex

import (
	"regexp"
	"strings"

	"tsreap/internal/engine/source"
)

// ImportedDefault is the Imported name recorded for default-import bindings.
const ImportedDefault = "default"

// ImportedNamespace is the Imported name recorded for namespace bindings.
const ImportedNamespace = "*"

var (
	importRe     = regexp.MustCompile(`(?m)^\s*import\s+(?:type\s+)?(.+?)\s+from\s+['"]([^'"]+)['"]`)
	exportFromRe = regexp.MustCompile(`(?m)^\s*export\s+(?:type\s+)?\{([^}]*)\}\s*from\s+['"]([^'"]+)['"]`)
	namespaceRe  = regexp.MustCompile(`\*\s+as\s+([A-Za-z_$][\w$]*)`)
	identRe      = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
)

// ParseImports extracts import bindings from comment-stripped file text. Each
// binding maps the local name to the exported name it was imported under and
// the module specifier it came from. Side-effect imports produce no bindings.
func ParseImports(text string) []source.ImportBinding {
	var bindings []source.ImportBinding

	for _, m := range importRe.FindAllStringSubmatch(text, -1) {
		clause, spec := strings.TrimSpace(m[1]), m[2]
		bindings = append(bindings, parseClause(clause, spec)...)
	}

	for _, m := range exportFromRe.FindAllStringSubmatch(text, -1) {
		for _, item := range splitNames(m[1]) {
			// export { A as B } from './x' re-exports A; the local alias binds
			// nothing in this file.
			bindings = append(bindings, source.ImportBinding{
				Local:     item.local,
				Imported:  item.imported,
				Specifier: m[2],
			})
		}
	}

	return bindings
}

type namedItem struct {
	imported string
	local    string
}

func parseClause(clause, spec string) []source.ImportBinding {
	var bindings []source.ImportBinding

	if open := strings.Index(clause, "{"); open >= 0 {
		closing := strings.Index(clause, "}")
		if closing > open {
			for _, item := range splitNames(clause[open+1 : closing]) {
				bindings = append(bindings, source.ImportBinding{
					Local:     item.local,
					Imported:  item.imported,
					Specifier: spec,
				})
			}
		}
		clause = strings.TrimSpace(strings.TrimSuffix(clause[:open], ","))
	}

	if m := namespaceRe.FindStringSubmatch(clause); m != nil {
		bindings = append(bindings, source.ImportBinding{
			Local:     m[1],
			Imported:  ImportedNamespace,
			Specifier: spec,
		})
		clause = strings.TrimSpace(strings.TrimSuffix(strings.Replace(clause, m[0], "", 1), ","))
	}

	clause = strings.TrimSpace(strings.Trim(clause, ","))
	if identRe.MatchString(clause) {
		bindings = append(bindings, source.ImportBinding{
			Local:     clause,
			Imported:  ImportedDefault,
			Specifier: spec,
		})
	}

	return bindings
}

func splitNames(list string) []namedItem {
	var items []namedItem
	for _, raw := range strings.Split(list, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		name = strings.TrimSpace(strings.TrimPrefix(name, "type "))
		imported, local := name, name
		if parts := strings.SplitN(name, " as ", 2); len(parts) == 2 {
			imported = strings.TrimSpace(parts[0])
			local = strings.TrimSpace(parts[1])
		}
		if !identRe.MatchString(imported) || !identRe.MatchString(local) {
			continue
		}
		items = append(items, namedItem{imported: imported, local: local})
	}
	return items
}
