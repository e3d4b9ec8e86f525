package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/archlint/pkg/core"
)

// Palette styles narrative output. The CLI supplies a lipgloss backed
// palette; Plain leaves text untouched.
type Palette interface {
	Error(s string) string
	Warning(s string) string
	Success(s string) string
	Muted(s string) string
	Bold(s string) string
}

type plain struct{}

func (plain) Error(s string) string   { return s }
func (plain) Warning(s string) string { return s }
func (plain) Success(s string) string { return s }
func (plain) Muted(s string) string   { return s }
func (plain) Bold(s string) string    { return s }

// Plain is the unstyled palette.
var Plain Palette = plain{}

// WriteJSON writes the structured rendering.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes the narrative rendering over the same ordered entries.
func (r *Report) WriteText(w io.Writer, p Palette) error {
	if p == nil {
		p = Plain
	}

	if r.Fatal != nil {
		_, _ = fmt.Fprintf(w, "%s %s error", p.Error("FATAL"), r.Fatal.Kind)
		if r.Fatal.Source != "" {
			_, _ = fmt.Fprintf(w, " in %s", r.Fatal.Source)
		}
		_, _ = fmt.Fprintf(w, ": %s\n", r.Fatal.Message)
		r.writeWarnings(w, p)
		return nil
	}

	if len(r.Violations) > 0 {
		_, _ = fmt.Fprintln(w, p.Bold("Violations"))
		t := newTable(w)
		t.AppendHeader(table.Row{"Severity", "Rule", "Module", "Class / Namespace", "Location", "Message"})
		for _, v := range r.Violations {
			sev := severityText(p, v.Severity)
			if v.Suppressed {
				sev = p.Muted("suppressed")
			}
			msg := v.Message
			if len(v.Edges) > 0 {
				msg += "\n" + p.Muted(strings.Join(v.Edges, "\n"))
			}
			t.AppendRow(table.Row{sev, v.RuleID, v.Module, v.Subject, v.Location, msg})
		}
		t.Render()
		_, _ = fmt.Fprintln(w)
	}

	if len(r.Escalations) > 0 {
		_, _ = fmt.Fprintln(w, p.Bold("Escalation signals"))
		t := newTable(w)
		t.AppendHeader(table.Row{"Severity", "Module", "Metric", "Value", "Threshold", "Suggestion", "Blocking"})
		for _, s := range r.Escalations {
			blocking := "no"
			if s.Blocking {
				blocking = p.Error("yes")
			}
			t.AppendRow(table.Row{severityText(p, s.Severity), s.Module, string(s.Metric), s.Value, s.Threshold, s.Suggestion, blocking})
		}
		t.Render()
		_, _ = fmt.Fprintln(w)
	}

	r.writeWarnings(w, p)

	errs, warns := r.Counts()
	summary := fmt.Sprintf("%d classes in %d modules, %d errors, %d warnings, %d suppressed, %d signals",
		r.Stats.Classes, r.Stats.Modules, errs, warns, r.SuppressedCount, len(r.Escalations))
	if r.Passed {
		_, _ = fmt.Fprintf(w, "%s %s\n", p.Success("PASSED"), summary)
	} else {
		_, _ = fmt.Fprintf(w, "%s %s\n", p.Error("FAILED"), summary)
	}
	return nil
}

func (r *Report) writeWarnings(w io.Writer, p Palette) {
	if len(r.Warnings) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, p.Bold(fmt.Sprintf("Warnings (%d)", len(r.Warnings))))
	for _, warn := range r.Warnings {
		_, _ = fmt.Fprintf(w, "  %s %s\n", p.Warning("!"), warn.Error())
	}
	_, _ = fmt.Fprintln(w)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func severityText(p Palette, sev core.Severity) string {
	if sev == core.SeverityError {
		return p.Error(sev.String())
	}
	return p.Warning(sev.String())
}
