// Package report renders detection results for the terminal and decides the
// process exit code.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tsreap/internal/core/config"
	"tsreap/internal/engine/detect"
	"tsreap/internal/engine/source"
)

type Options struct {
	Color   bool
	Verbose bool
	Quiet   bool
}

type styles struct {
	title   func(...string) string
	unused  func(...string) string
	success func(...string) string
	warn    func(...string) string
	muted   func(...string) string
}

func newStyles(color bool) styles {
	if !color {
		identity := func(s ...string) string { return strings.Join(s, " ") }
		return styles{title: identity, unused: identity, success: identity, warn: identity, muted: identity}
	}
	return styles{
		title:   lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true).Render,
		unused:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true).Render,
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true).Render,
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24")).Render,
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B")).Render,
	}
}

// Render formats the report. Outside of the verbose timing line the output
// carries no machine-specific detail, so identical runs produce identical text.
func Render(r *detect.Report, opts Options) string {
	st := newStyles(opts.Color)
	var b strings.Builder

	if !opts.Quiet {
		fmt.Fprintf(&b, "%s %d files scanned\n", st.title("tsreap:"), r.Files)
		for _, s := range r.Skipped {
			fmt.Fprintf(&b, "%s\n", st.warn(fmt.Sprintf("  skipped %s: %s", s.Path, s.Reason)))
		}
		b.WriteString("\n")

		for _, kind := range source.Kinds() {
			s := r.Stats[kind]
			line := fmt.Sprintf("  %-10s total %4d   used %4d   unused %4d", kind.String(), s.Total, s.Used, s.Unused)
			if s.Unused > 0 {
				line = st.unused(line)
			} else {
				line = st.muted(line)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(r.Unused) == 0 {
		if !opts.Quiet {
			fmt.Fprintf(&b, "%s\n", st.success("no unused declarations"))
		}
	} else {
		fmt.Fprintf(&b, "%s\n", st.unused(fmt.Sprintf("%d unused declarations:", len(r.Unused))))
		for _, u := range r.Unused {
			fmt.Fprintf(&b, "  %s:%d  %s (%s)\n", u.File, u.Line, u.Name, u.Kind)
		}
	}

	if opts.Verbose && !opts.Quiet {
		fmt.Fprintf(&b, "\n%s\n", st.muted(fmt.Sprintf("usage rate: %.1f%% (%d of %d declarations used)",
			r.UsageRate()*100, r.TotalUsed(), r.TotalDeclarations())))
		if r.Duration > 0 {
			fmt.Fprintf(&b, "%s\n", st.muted(fmt.Sprintf("completed in %s", r.Duration.Round(time.Millisecond))))
		}
	}

	return b.String()
}

// ExitCode maps the report onto the process exit status. Strict mode fails on
// any unused declaration; the CI gate fails when unused count exceeds its
// budget.
func ExitCode(r *detect.Report, strict bool, ci config.CI) int {
	unused := r.TotalUnused()
	if strict && unused > 0 {
		return 1
	}
	if ci.FailOnExceed && unused > ci.MaxUnused {
		return 1
	}
	return 0
}
