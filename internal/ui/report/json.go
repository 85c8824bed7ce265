package report

import (
	"encoding/json"
	"io"

	"tsreap/internal/engine/detect"
	"tsreap/internal/engine/source"
)

type jsonKindStats struct {
	Total  int `json:"total"`
	Used   int `json:"used"`
	Unused int `json:"unused"`
}

type jsonUnused struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type jsonSkipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

type jsonReport struct {
	Files     int                      `json:"files"`
	Skipped   []jsonSkipped            `json:"skipped,omitempty"`
	Stats     map[string]jsonKindStats `json:"stats"`
	Unused    []jsonUnused             `json:"unused"`
	Total     int                      `json:"total"`
	Used      int                      `json:"used"`
	UnusedN   int                      `json:"unused_count"`
	UsageRate float64                  `json:"usage_rate"`
	Duration  int64                    `json:"duration_ms,omitempty"`
}

// WriteJSON emits the report as a single JSON document for CI tooling.
func WriteJSON(w io.Writer, r *detect.Report) error {
	out := jsonReport{
		Files:     r.Files,
		Stats:     make(map[string]jsonKindStats, len(source.Kinds())),
		Unused:    make([]jsonUnused, 0, len(r.Unused)),
		Total:     r.TotalDeclarations(),
		Used:      r.TotalUsed(),
		UnusedN:   r.TotalUnused(),
		UsageRate: r.UsageRate(),
		Duration:  r.Duration.Milliseconds(),
	}
	for _, s := range r.Skipped {
		out.Skipped = append(out.Skipped, jsonSkipped{Path: s.Path, Reason: s.Reason})
	}
	for _, kind := range source.Kinds() {
		s := r.Stats[kind]
		out.Stats[kind.String()] = jsonKindStats{Total: s.Total, Used: s.Used, Unused: s.Unused}
	}
	for _, u := range r.Unused {
		out.Unused = append(out.Unused, jsonUnused{File: u.File, Line: u.Line, Name: u.Name, Kind: u.Kind.String()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
