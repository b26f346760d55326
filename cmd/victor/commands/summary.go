package commands

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"

	"git.home.luguber.info/inful/victor/internal/build"
)

type summaryStyles struct {
	header  lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	dim     lipgloss.Style
	label   lipgloss.Style
	counter lipgloss.Style
}

func newSummaryStyles() summaryStyles {
	return summaryStyles{
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		label:   lipgloss.NewStyle().Width(12),
		counter: lipgloss.NewStyle().Bold(true),
	}
}

func (s summaryStyles) outcome(o build.BuildOutcome) string {
	switch o {
	case build.OutcomeSuccess:
		return s.ok.Render(string(o))
	case build.OutcomeWarning:
		return s.warn.Render(string(o))
	default:
		return s.fail.Render(string(o))
	}
}

// printSummary writes a short, styled account of a build.
func printSummary(w io.Writer, r *build.BuildReport) {
	st := newSummaryStyles()
	row := func(label string, value any) {
		_, _ = fmt.Fprintf(w, "  %s %s\n", st.label.Render(label), st.counter.Render(fmt.Sprint(value)))
	}

	_, _ = fmt.Fprintln(w, st.header.Render("Build "+r.BuildID))
	row("outcome", st.outcome(r.Outcome))
	row("documents", r.DocumentsDiscovered)
	row("rendered", r.DocumentsRendered)
	if r.DocumentsSkipped > 0 {
		row("skipped", st.warn.Render(fmt.Sprint(r.DocumentsSkipped)))
	}
	collections := make([]string, 0, len(r.ListingPages))
	for c := range r.ListingPages {
		collections = append(collections, c)
	}
	slices.Sort(collections)
	for _, c := range collections {
		row(c+" pages", r.ListingPages[c])
	}
	row("duration", r.Duration().Round(time.Millisecond))

	for _, is := range r.Issues {
		style := st.warn
		if is.Severity == build.SeverityError {
			style = st.fail
		}
		loc := ""
		if is.Path != "" {
			loc = " " + st.dim.Render(is.Path)
		}
		_, _ = fmt.Fprintf(w, "  %s%s %s\n", style.Render(string(is.Code)), loc, is.Message)
	}
}
