// Package output renders command results for terminals, pipes and tools.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/leapstack-labs/archlint/internal/report"
)

// OutputMode selects how results are rendered.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Mode converts a flag value to an OutputMode. Unknown values map to auto.
func Mode(s string) OutputMode {
	m, err := ParseMode(s)
	if err != nil {
		return ModeAuto
	}
	return m
}

// ParseMode parses a --format value.
func ParseMode(s string) (OutputMode, error) {
	switch OutputMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeText:
		return ModeText, nil
	case ModeMarkdown, "md":
		return ModeMarkdown, nil
	case ModeJSON:
		return ModeJSON, nil
	}
	return "", fmt.Errorf("unknown format %q (want auto, text, markdown or json)", s)
}

// Renderer writes command output. Styling is only applied when stdout is a terminal.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
	mode   OutputMode
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	lr := lipgloss.NewRenderer(out)
	if !isTTY {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		isTTY:  isTTY,
		mode:   mode,
		styles: newStyles(lr),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves auto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto && r.mode != "" {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether stdout is a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the renderer's styles.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns stdout.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns stderr.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Println writes a line to stdout.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to stdout.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Palette adapts the styles for report narratives.
func (r *Renderer) Palette() report.Palette {
	if !r.isTTY {
		return report.Plain
	}
	return palette{r.styles}
}

type palette struct{ s *Styles }

func (p palette) Error(s string) string   { return p.s.Error.Render(s) }
func (p palette) Warning(s string) string { return p.s.Warning.Render(s) }
func (p palette) Success(s string) string { return p.s.Success.Render(s) }
func (p palette) Muted(s string) string   { return p.s.Muted.Render(s) }
func (p palette) Bold(s string) string    { return p.s.Bold.Render(s) }
