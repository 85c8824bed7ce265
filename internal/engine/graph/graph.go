package graph

import (
	"path"
	"sort"
	"strings"

	"tsreap/internal/engine/lex"
	"tsreap/internal/engine/source"
)

// Graph indexes every declaration in the scanned set by name and records which
// declarations each identifier occurrence could refer to. Resolution is
// name-based and conservative: when an occurrence cannot be pinned to a single
// declaring file, every declaration sharing the name is credited.
type Graph struct {
	// decls holds every declaration keyed by ID.
	decls map[string]*source.Declaration
	// byName maps a declaration name to the IDs of all declarations with that
	// name, across every file.
	byName map[string][]string
	// byFile maps a file path to the IDs declared in it, in extraction order.
	byFile map[string][]string
	// referenced marks IDs credited with at least one occurrence.
	referenced map[string]bool
	// files is the set of scanned file paths, used to resolve import
	// specifiers against the corpus.
	files map[string]bool
}

// Build constructs the usage graph from per-file partial results. Input order
// does not matter; partials are re-sorted by path so the graph is identical
// for any worker interleaving.
func Build(partials []source.Partial) *Graph {
	sorted := make([]source.Partial, len(partials))
	copy(sorted, partials)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	g := &Graph{
		decls:      make(map[string]*source.Declaration),
		byName:     make(map[string][]string),
		byFile:     make(map[string][]string),
		referenced: make(map[string]bool),
		files:      make(map[string]bool),
	}

	for i := range sorted {
		p := &sorted[i]
		g.files[p.Path] = true
		for j := range p.Declarations {
			d := &p.Declarations[j]
			if _, ok := g.decls[d.ID]; ok {
				continue
			}
			g.decls[d.ID] = d
			g.byName[d.Name] = append(g.byName[d.Name], d.ID)
			g.byFile[d.File] = append(g.byFile[d.File], d.ID)
		}
	}

	for i := range sorted {
		p := &sorted[i]
		imports := indexImports(p.Imports)
		for _, occ := range p.Occurrences {
			g.resolve(p.Path, occ, imports)
		}
	}

	return g
}

// indexImports maps a local binding name to its bindings. Duplicate locals are
// kept; each one contributes candidates.
func indexImports(bindings []source.ImportBinding) map[string][]source.ImportBinding {
	if len(bindings) == 0 {
		return nil
	}
	idx := make(map[string][]source.ImportBinding, len(bindings))
	for _, b := range bindings {
		idx[b.Local] = append(idx[b.Local], b)
	}
	return idx
}

// resolve credits declarations for one identifier occurrence. The rules, in
// priority order:
//
//  1. A declaration of the same name in the occurrence's own file wins, and
//     nothing outside the file is credited. The occurrence on the declaring
//     line itself is the definition site and credits nothing.
//  2. When the name is bound by an import whose specifier resolves to a
//     scanned file, declarations of the imported name in that file are
//     credited.
//  3. Otherwise every declaration sharing the name is credited.
func (g *Graph) resolve(file string, occ source.Occurrence, imports map[string][]source.ImportBinding) {
	name := occ.Text
	ids, known := g.byName[name]
	if !known {
		return
	}

	// Rule 1: same-file declarations shadow everything else.
	if local := g.localDecls(file, name); len(local) > 0 {
		for _, d := range local {
			if occ.Line == d.Line {
				// Definition site, not a use.
				return
			}
		}
		for _, d := range local {
			g.referenced[d.ID] = true
		}
		return
	}

	// Rule 2: import bindings narrow the candidate set to one file.
	if bindings, ok := imports[name]; ok {
		credited := false
		for _, b := range bindings {
			target, ok := g.resolveSpecifier(file, b.Specifier)
			if !ok {
				continue
			}
			for _, id := range g.byFile[target] {
				d := g.decls[id]
				if matchesImported(d.Name, b.Imported, name) {
					g.referenced[id] = true
					credited = true
				}
			}
		}
		if credited {
			return
		}
		// Binding points outside the scanned set (package import, missing
		// file); fall through to the conservative rule.
	}

	// Rule 3: conservative multi-credit.
	for _, id := range ids {
		g.referenced[id] = true
	}
}

// matchesImported reports whether a declaration named declName in the target
// file satisfies a binding with the given imported name. Default and namespace
// imports cannot name a specific declaration, so the local name decides.
func matchesImported(declName, imported, local string) bool {
	switch imported {
	case lex.ImportedDefault, lex.ImportedNamespace:
		return declName == local
	default:
		return declName == imported
	}
}

func (g *Graph) localDecls(file, name string) []*source.Declaration {
	var out []*source.Declaration
	for _, id := range g.byFile[file] {
		if d := g.decls[id]; d.Name == name {
			out = append(out, d)
		}
	}
	return out
}

// resolveSpecifier maps a relative import specifier to a scanned file path.
// Bare specifiers (packages) and unresolvable paths return false.
func (g *Graph) resolveSpecifier(fromFile, spec string) (string, bool) {
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") {
		return "", false
	}
	base := path.Join(path.Dir(fromFile), spec)
	candidates := []string{base}
	for _, ext := range []string{".ts", ".tsx", ".js", ".jsx"} {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range []string{".ts", ".tsx", ".js", ".jsx"} {
		candidates = append(candidates, path.Join(base, "index"+ext))
	}
	for _, c := range candidates {
		if g.files[c] {
			return c, true
		}
	}
	return "", false
}

// Declarations returns every declaration sorted by file, then line, then name.
func (g *Graph) Declarations() []*source.Declaration {
	out := make([]*source.Declaration, 0, len(g.decls))
	for _, d := range g.decls {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Name < b.Name
	})
	return out
}

// Referenced reports whether the declaration with the given ID was credited
// with at least one occurrence.
func (g *Graph) Referenced(id string) bool {
	return g.referenced[id]
}
