package printer_test

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/lexer"
	"github.com/lbc-lang/lbc/internal/parser"
	"github.com/lbc-lang/lbc/internal/printer"
	"github.com/lbc-lang/lbc/internal/semantic"
	"github.com/lbc-lang/lbc/internal/source"
	"github.com/lbc-lang/lbc/internal/types"
)

const sample = `
DIM x AS INTEGER = 1 + 2

FUNCTION add(a AS INTEGER, b AS INTEGER) AS INTEGER
    RETURN a + b
END FUNCTION

FOR i = 1 TO 10 STEP 2
    IF i > 5 THEN
        EXIT FOR
    END IF
NEXT i
`

func parseSample(t *testing.T) *ast.Module {
	t.Helper()
	mgr := source.NewManager()
	eng := source.NewEngine(mgr)
	ctx := ast.NewContext()
	tf := types.NewFactory()
	lx := lexer.New("sample.bas", sample, mgr, eng)
	p := parser.New(ctx, tf, lx, eng)
	mod, err := p.ParseModule("sample.bas")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	sema := semantic.New(ctx, tf, eng)
	sema.AnalyzeModule(mod)
	if eng.HasErrors() {
		for _, d := range eng.Diagnostics() {
			t.Logf("diagnostic: %+v", d)
		}
	}
	return mod
}

func TestPrintCodeRoundTrip(t *testing.T) {
	mod := parseSample(t)
	var buf bytes.Buffer
	if err := printer.PrintCode(&buf, mod); err != nil {
		t.Fatalf("PrintCode: %v", err)
	}
	snaps.MatchSnapshot(t, buf.String())
}

func TestDumpJSON(t *testing.T) {
	mod := parseSample(t)
	var buf bytes.Buffer
	if err := printer.DumpJSON(&buf, mod); err != nil {
		t.Fatalf("DumpJSON: %v", err)
	}
	snaps.MatchSnapshot(t, buf.String())
}
