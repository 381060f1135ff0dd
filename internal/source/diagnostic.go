package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/lbc-lang/lbc/internal/token"
)

// Severity classifies a Diagnostic, matching spec.md §7's four-category
// taxonomy (lex/parse/sema are Error; unreachable-invariant bugs are Fatal).
type Severity int

const (
	Note Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Fatal:
		return "fatal error"
	default:
		return "error"
	}
}

// Diagnostic is one accumulated compiler message, captured with its format
// arguments so rendering can be deferred to Render (spec.md §6: "Diagnostics
// are collected; the engine's destructor or an explicit flush renders them").
type Diagnostic struct {
	Severity Severity
	Pos      token.Position
	format   string
	args     []any
}

// Message renders the diagnostic's text (without position/severity prefix).
func (d Diagnostic) Message() string {
	if len(d.args) == 0 {
		return d.format
	}
	return fmt.Sprintf(d.format, d.args...)
}

// Engine accumulates diagnostics for one compilation unit and renders them
// against a Manager's buffers on demand. Mirrors internal/errors.CompilerError
// generalized to an accumulating, multi-diagnostic engine per spec.md §1/§7.
type Engine struct {
	mgr   *Manager
	diags []Diagnostic
	color bool
}

// NewEngine creates a diagnostic engine backed by mgr (for source-line
// lookups when rendering).
func NewEngine(mgr *Manager) *Engine {
	return &Engine{mgr: mgr}
}

// SetColor toggles ANSI coloring of the caret/message in Render.
func (e *Engine) SetColor(on bool) { e.color = on }

// Report appends a new diagnostic without rendering it.
func (e *Engine) Report(sev Severity, pos token.Position, format string, args ...any) {
	e.diags = append(e.diags, Diagnostic{Severity: sev, Pos: pos, format: format, args: args})
}

// HasErrors reports whether any Error- or Fatal-severity diagnostic was
// recorded; sema and the driver use this to decide whether to abort.
func (e *Engine) HasErrors() bool {
	for _, d := range e.diags {
		if d.Severity >= Error {
			return true
		}
	}
	return false
}

// Diagnostics returns the accumulated diagnostics in report order.
func (e *Engine) Diagnostics() []Diagnostic { return append([]Diagnostic(nil), e.diags...) }

// Reset clears all accumulated diagnostics, so one Engine can be reused
// across runs.
func (e *Engine) Reset() { e.diags = nil }

// Render writes every accumulated diagnostic to w in
// "<file>:<line>:<column>: <severity>: <message>" form, with an optional
// source-line-plus-caret underline, per spec.md §6.
func (e *Engine) Render(w io.Writer) {
	for _, d := range e.diags {
		e.renderOne(w, d)
	}
}

func (e *Engine) renderOne(w io.Writer, d Diagnostic) {
	file := d.Pos.File
	if file == "" {
		file = "<unknown>"
	}
	fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", file, d.Pos.Line, d.Pos.Column, d.Severity, d.Message())

	if e.mgr == nil {
		return
	}
	buf := e.mgr.Get(d.Pos.File)
	if buf == nil {
		return
	}
	line := buf.Line(d.Pos.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "    %s\n", line)
	col := d.Pos.Column
	if col < 1 {
		col = 1
	}
	caret := strings.Repeat(" ", 4+col-1) + "^"
	if e.color {
		caret = "\033[1;31m" + caret + "\033[0m"
	}
	fmt.Fprintln(w, caret)
}
