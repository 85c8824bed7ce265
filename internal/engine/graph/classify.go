package graph

import (
	"strings"

	"tsreap/internal/engine/source"
)

// Classification states.
const (
	StateUsed   = "used"
	StateUnused = "unused"
)

// Reasons attached to used classifications.
const (
	ReasonReferenced   = "referenced"
	ReasonEntryPoint   = "entry_point"
	ReasonIgnored      = "ignored"
	ReasonUnreferenced = "unreferenced"
)

// Result is the final verdict for one declaration.
type Result struct {
	Decl   *source.Declaration
	State  string
	Reason string
}

// Classify assigns every declaration in the graph a final state. Entry points
// are roots: every declaration in an entry-point file is used regardless of
// references. Declarations carrying the ignore directive are counted as used
// and never reported. Order follows Graph.Declarations, so output is stable.
func Classify(g *Graph, entryPoints []string) []Result {
	entries := make([]string, 0, len(entryPoints))
	for _, e := range entryPoints {
		entries = append(entries, cleanEntry(e))
	}

	decls := g.Declarations()
	results := make([]Result, 0, len(decls))
	for _, d := range decls {
		results = append(results, Result{Decl: d, State: StateUsed, Reason: classifyOne(g, d, entries)})
	}
	for i := range results {
		if results[i].Reason == ReasonUnreferenced {
			results[i].State = StateUnused
		}
	}
	return results
}

func classifyOne(g *Graph, d *source.Declaration, entries []string) string {
	if d.Ignored {
		return ReasonIgnored
	}
	if isEntryPoint(d.File, entries) {
		return ReasonEntryPoint
	}
	if g.Referenced(d.ID) {
		return ReasonReferenced
	}
	return ReasonUnreferenced
}

func cleanEntry(e string) string {
	e = strings.ReplaceAll(e, "\\", "/")
	return strings.TrimPrefix(e, "./")
}

// isEntryPoint matches a file against the configured entry points, either by
// exact path or by path suffix so "src/index.tsx" matches a file walked as
// "frontend/src/index.tsx".
func isEntryPoint(file string, entries []string) bool {
	for _, e := range entries {
		if e == "" {
			continue
		}
		if file == e || strings.HasSuffix(file, "/"+e) {
			return true
		}
	}
	return false
}
