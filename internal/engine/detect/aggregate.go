package detect

import (
	"sort"
	"time"

	"tsreap/internal/engine/graph"
	"tsreap/internal/engine/source"
)

// KindStats is the per-category tally.
type KindStats struct {
	Total  int
	Used   int
	Unused int
}

// UnusedEntry locates one unused declaration for the report.
type UnusedEntry struct {
	File string
	Line int
	Name string
	Kind source.DeclKind
}

// SkippedFile records a file dropped from the run with the reason.
type SkippedFile struct {
	Path   string
	Reason string
}

// Report is the aggregated outcome of one detection run. Stats always carries
// every category; a category that was disabled or simply absent reports zeros.
type Report struct {
	Files    int
	Skipped  []SkippedFile
	Stats    map[source.DeclKind]KindStats
	Unused   []UnusedEntry
	Duration time.Duration
}

func (r *Report) TotalDeclarations() int {
	n := 0
	for _, s := range r.Stats {
		n += s.Total
	}
	return n
}

func (r *Report) TotalUnused() int {
	n := 0
	for _, s := range r.Stats {
		n += s.Unused
	}
	return n
}

func (r *Report) TotalUsed() int {
	return r.TotalDeclarations() - r.TotalUnused()
}

// UsageRate is the fraction of declarations classified used, in [0,1].
// A run with no declarations reports 1.
func (r *Report) UsageRate() float64 {
	total := r.TotalDeclarations()
	if total == 0 {
		return 1
	}
	return float64(r.TotalUsed()) / float64(total)
}

// Aggregate folds classification results into a report. The unused list is
// sorted by file, then line, then name, so output is reproducible.
func Aggregate(results []graph.Result, files int, skipped []SkippedFile) *Report {
	report := &Report{
		Files:   files,
		Skipped: skipped,
		Stats:   make(map[source.DeclKind]KindStats, len(source.Kinds())),
	}
	for _, kind := range source.Kinds() {
		report.Stats[kind] = KindStats{}
	}

	for _, r := range results {
		s := report.Stats[r.Decl.Kind]
		s.Total++
		if r.State == graph.StateUnused {
			s.Unused++
			report.Unused = append(report.Unused, UnusedEntry{
				File: r.Decl.File,
				Line: r.Decl.Line,
				Name: r.Decl.Name,
				Kind: r.Decl.Kind,
			})
		} else {
			s.Used++
		}
		report.Stats[r.Decl.Kind] = s
	}

	sort.Slice(report.Unused, func(i, j int) bool {
		a, b := report.Unused[i], report.Unused[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Name < b.Name
	})

	return report
}
