package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/productscience/monorange/runconfig"
)

type reportStyles struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	failed  lipgloss.Style
	warning lipgloss.Style
	key     lipgloss.Style
	dim     lipgloss.Style
}

func newReportStyles(w io.Writer) reportStyles {
	r := lipgloss.NewRenderer(w)
	return reportStyles{
		title:   r.NewStyle().Bold(true),
		ok:      r.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
		failed:  r.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		key:     r.NewStyle().Foreground(lipgloss.Color("#60A5FA")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Italic(true),
	}
}

// renderReport writes the consolidated result of a validation pass.
func renderReport(w io.Writer, o *outcome) {
	s := newReportStyles(w)
	var b strings.Builder

	b.WriteString(s.title.Render(o.source))
	b.WriteString("\n")

	var pathErr *runconfig.PathError
	var parseErr *runconfig.ParseError
	switch {
	case errors.As(o.err, &pathErr):
		fmt.Fprintf(&b, "  %s %v\n", s.failed.Render("cannot read:"), pathErr.Err)
	case errors.As(o.err, &parseErr):
		where := ""
		if parseErr.Line > 0 {
			where = fmt.Sprintf(" (line %d)", parseErr.Line)
		}
		fmt.Fprintf(&b, "  %s%s %v\n", s.failed.Render("not valid YAML"), where, parseErr.Err)
	}

	for _, v := range o.violations {
		fmt.Fprintf(&b, "  %s %s: %s", s.failed.Render("error"), s.key.Render(v.Path), v.Reason)
		if v.Expected != "" {
			fmt.Fprintf(&b, " %s", s.dim.Render("expected "+v.Expected))
		}
		if pos, ok := o.doc.Position(strings.Split(v.Path, "/")[0]); ok {
			fmt.Fprintf(&b, " %s", s.dim.Render("at line "+fmt.Sprint(pos.Line)))
		}
		b.WriteString("\n")
	}
	for _, m := range o.mismatches {
		fmt.Fprintf(&b, "  %s %s\n", s.failed.Render("alias"), m.String())
	}
	for _, warn := range o.warnings {
		fmt.Fprintf(&b, "  %s %s: %s\n", s.warning.Render("warning"), s.key.Render(warn.Path), warn.Message)
	}

	if o.failed() {
		problems := len(o.violations) + len(o.mismatches)
		if problems == 0 {
			problems = 1
		}
		fmt.Fprintf(&b, "%s %d problem(s)\n", s.failed.Render("INVALID"), problems)
	} else {
		fmt.Fprintf(&b, "%s %d warning(s)\n", s.ok.Render("OK"), len(o.warnings))
	}
	fmt.Fprint(w, b.String())
}
