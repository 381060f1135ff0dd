package constfold_test

import (
	"testing"

	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/lexer"
	"github.com/lbc-lang/lbc/internal/parser"
	"github.com/lbc-lang/lbc/internal/semantic"
	"github.com/lbc-lang/lbc/internal/source"
	"github.com/lbc-lang/lbc/internal/token"
	"github.com/lbc-lang/lbc/internal/types"
)

// analyze runs the full lex/parse/sema pipeline — internal/semantic calls
// constfold.Fold once per expression it types, so these tests exercise the
// folder the way it is actually driven rather than calling it in isolation.
func analyze(t *testing.T, src string) (*ast.Module, *source.Engine) {
	t.Helper()
	mgr := source.NewManager()
	eng := source.NewEngine(mgr)
	ctx := ast.NewContext()
	tf := types.NewFactory()
	lx := lexer.New("t.bas", src, mgr, eng)
	p := parser.New(ctx, tf, lx, eng)
	mod, err := p.ParseModule("t.bas")
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	sema := semantic.New(ctx, tf, eng)
	sema.AnalyzeModule(mod)
	if eng.HasErrors() {
		t.Fatalf("unexpected diagnostics for %q: %+v", src, eng.Diagnostics())
	}
	return mod, eng
}

func firstVarDecl(t *testing.T, mod *ast.Module) *ast.VarDecl {
	t.Helper()
	for _, d := range mod.Body.Decls {
		if v, ok := d.(*ast.VarDecl); ok {
			return v
		}
	}
	t.Fatalf("no VarDecl in module body")
	return nil
}

func TestFoldArithmeticPrecedence(t *testing.T) {
	mod, _ := analyze(t, "DIM x = 1 + 2 * 3\n")
	v := firstVarDecl(t, mod)
	lit, ok := v.Init.ConstantValue()
	if !ok {
		t.Fatalf("expected 1 + 2 * 3 to fold")
	}
	if lit.Kind != token.IntValue || int64(lit.Int) != 7 {
		t.Errorf("got %+v, want IntValue(7)", lit)
	}
}

func TestFoldLogicalNot(t *testing.T) {
	mod, _ := analyze(t, "DIM x = NOT TRUE\n")
	v := firstVarDecl(t, mod)
	lit, ok := v.Init.ConstantValue()
	if !ok {
		t.Fatalf("expected NOT TRUE to fold")
	}
	if lit.Kind != token.BoolValue || lit.Bool != false {
		t.Errorf("got %+v, want BoolValue(false)", lit)
	}
}

func TestFoldDoubleNegation(t *testing.T) {
	mod, _ := analyze(t, "DIM x = -(-5)\n")
	v := firstVarDecl(t, mod)
	lit, ok := v.Init.ConstantValue()
	if !ok {
		t.Fatalf("expected -(-5) to fold")
	}
	if lit.Kind != token.IntValue || int64(lit.Int) != 5 {
		t.Errorf("got %+v, want IntValue(5)", lit)
	}
}

func TestFoldStringConcat(t *testing.T) {
	mod, _ := analyze(t, `DIM x = "a" + "b"` + "\n")
	v := firstVarDecl(t, mod)
	lit, ok := v.Init.ConstantValue()
	if !ok {
		t.Fatalf(`expected "a" + "b" to fold`)
	}
	if lit.Kind != token.StringValue || lit.Str != "ab" {
		t.Errorf("got %+v, want StringValue(ab)", lit)
	}
}

func TestFoldIfExprTakesConstantBranch(t *testing.T) {
	mod, _ := analyze(t, "DIM x = IF TRUE THEN 1 ELSE 2\n")
	v := firstVarDecl(t, mod)
	lit, ok := v.Init.ConstantValue()
	if !ok {
		t.Fatalf("expected IF TRUE THEN 1 ELSE 2 to fold")
	}
	if lit.Kind != token.IntValue || int64(lit.Int) != 1 {
		t.Errorf("got %+v, want IntValue(1)", lit)
	}
}

func TestFoldDoesNotTouchNonConstant(t *testing.T) {
	mod, _ := analyze(t, "DIM y AS INTEGER\nDIM x = y + 1\n")
	var x *ast.VarDecl
	for _, d := range mod.Body.Decls {
		if v, ok := d.(*ast.VarDecl); ok && v.Name == "X" {
			x = v
		}
	}
	if x == nil {
		t.Fatalf("expected a VarDecl named X")
	}
	if _, ok := x.Init.ConstantValue(); ok {
		t.Errorf("y + 1 should not fold since y is not constant")
	}
}
