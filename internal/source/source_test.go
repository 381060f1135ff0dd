package source

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lbc-lang/lbc/internal/token"
)

func TestBufferLine(t *testing.T) {
	b := NewBuffer("t.bas", "DIM x = 1\nPRINT x\n")
	if got := b.Line(1); got != "DIM x = 1" {
		t.Errorf("Line(1) = %q", got)
	}
	if got := b.Line(2); got != "PRINT x" {
		t.Errorf("Line(2) = %q", got)
	}
	if got := b.Line(99); got != "" {
		t.Errorf("Line(99) = %q, want empty", got)
	}
}

func TestManagerIntern(t *testing.T) {
	m := NewManager()
	a := m.Intern("hello")
	b := m.Intern("hello")
	if a != b {
		t.Error("Intern should return the same string content for equal inputs")
	}
}

func TestEngineRenderFormat(t *testing.T) {
	m := NewManager()
	m.Add("t.bas", "DIM x AS Integer\n")
	e := NewEngine(m)
	e.Report(Error, token.Position{File: "t.bas", Line: 1, Column: 5}, "undefined identifier %q", "x")

	var buf bytes.Buffer
	e.Render(&buf)
	out := buf.String()
	if !strings.Contains(out, "t.bas:1:5: error: undefined identifier \"x\"") {
		t.Errorf("unexpected render output: %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Error("expected a caret underline")
	}
	if !e.HasErrors() {
		t.Error("expected HasErrors to be true")
	}
}

func TestEngineReset(t *testing.T) {
	e := NewEngine(nil)
	e.Report(Warning, token.Position{Line: 1, Column: 1}, "x")
	if len(e.Diagnostics()) != 1 {
		t.Fatal("expected one diagnostic")
	}
	e.Reset()
	if len(e.Diagnostics()) != 0 {
		t.Error("expected diagnostics cleared after Reset")
	}
}
