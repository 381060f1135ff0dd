package parser_test

import (
	"bytes"
	"testing"

	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/lexer"
	"github.com/lbc-lang/lbc/internal/parser"
	"github.com/lbc-lang/lbc/internal/printer"
	"github.com/lbc-lang/lbc/internal/source"
	"github.com/lbc-lang/lbc/internal/token"
	"github.com/lbc-lang/lbc/internal/types"
)

// parseModule parses src with no semantic pass and returns the raw Module —
// these tests probe the parser's own grammar/precedence decisions, not
// sema's annotations.
func parseModule(t *testing.T, src string) *ast.Module {
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
	return mod
}

// firstExprString renders the first top-level ExprStmt's expression via the
// code printer, giving the fully-parenthesized form spec.md §8 describes
// ("(1 + (2 * 3))", "((-X) + Y)", ...).
func firstExprString(t *testing.T, mod *ast.Module) string {
	t.Helper()
	var buf bytes.Buffer
	if err := printer.PrintCode(&buf, mod); err != nil {
		t.Fatalf("PrintCode: %v", err)
	}
	lines := buf.String()
	// PrintCode emits one line per top-level statement; the first
	// non-empty line is the ExprStmt under test.
	for _, line := range splitLines(lines) {
		if line != "" {
			return line
		}
	}
	t.Fatalf("no printed output for module")
	return ""
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func TestPrecedenceMultiplyBindsTighterThanPlus(t *testing.T) {
	mod := parseModule(t, "1 + 2 * 3\n")
	got := firstExprString(t, mod)
	want := "(1 + (2 * 3))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMinusIsLeftAssociative(t *testing.T) {
	mod := parseModule(t, "1 - 2 - 3\n")
	got := firstExprString(t, mod)
	want := "((1 - 2) - 3)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFunctionCallArgs(t *testing.T) {
	mod := parseModule(t, "foo(a + b, c)\n")
	got := firstExprString(t, mod)
	want := "FOO((A + B), C)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIdentifiersAreUppercased(t *testing.T) {
	mod := parseModule(t, "foo\n")
	stmt, ok := mod.Body.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", mod.Body.Stmts[0])
	}
	ident, ok := stmt.X.(*ast.IdentExpr)
	if !ok {
		t.Fatalf("expected IdentExpr, got %T", stmt.X)
	}
	if ident.Name != "FOO" {
		t.Errorf("Name = %q, want FOO", ident.Name)
	}
}

func TestUnaryNegateBindsTighterThanPlus(t *testing.T) {
	mod := parseModule(t, "-x + y\n")
	got := firstExprString(t, mod)
	want := "((-X) + Y)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParenFreeSubCall(t *testing.T) {
	mod := parseModule(t, `PRINT "Hello"` + "\n")
	stmt, ok := mod.Body.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", mod.Body.Stmts[0])
	}
	call, ok := stmt.X.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected paren-free call to synthesize a CallExpr, got %T", stmt.X)
	}
	callee, ok := call.Callee.(*ast.IdentExpr)
	if !ok || callee.Name != "PRINT" {
		t.Fatalf("expected callee PRINT, got %#v", call.Callee)
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(call.Args))
	}
}

func TestAssignmentIsAStatementNotAnExpression(t *testing.T) {
	// climb halts before consuming `=` when stopAtAssign is set at
	// statement level, so `x = 1` parses as one AssignExpr statement
	// rather than failing or being swallowed into a binary expression.
	mod := parseModule(t, "x = 1\n")
	stmt, ok := mod.Body.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", mod.Body.Stmts[0])
	}
	if _, ok := stmt.X.(*ast.AssignExpr); !ok {
		t.Fatalf("expected AssignExpr, got %T", stmt.X)
	}
}

func TestConditionAndCommaRewritesToLogicalAnd(t *testing.T) {
	// the low-precedence comma form is admitted only inside an IF header
	// and is rewritten to AND at AST-construction time (spec.md §4.3.1)
	mod := parseModule(t, "IF a, b THEN\nEND IF\n")
	ifStmt, ok := mod.Body.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", mod.Body.Stmts[0])
	}
	bin, ok := ifStmt.Blocks[0].Cond.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr condition, got %T", ifStmt.Blocks[0].Cond)
	}
	if bin.Op != token.AndKw {
		t.Errorf("Op = %v, want AND", bin.Op)
	}
}

func TestAttributesAttachToDeclaration(t *testing.T) {
	mod := parseModule(t, "[ALIAS = \"puts\", WEIRD = \"kept\"]\nDECLARE SUB PUTS(s AS ZSTRING PTR)\n")
	if len(mod.Body.Decls) != 1 {
		t.Fatalf("expected one decl, got %d", len(mod.Body.Decls))
	}
	fd, ok := mod.Body.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", mod.Body.Decls[0])
	}
	if fd.Attributes["ALIAS"] != "puts" {
		t.Errorf("ALIAS = %q, want puts", fd.Attributes["ALIAS"])
	}
	// unknown attributes are accepted silently and carried through
	if _, ok := fd.Attributes["WEIRD"]; !ok {
		t.Error("unknown attribute WEIRD should be kept, not rejected")
	}
}

func TestPackedAttributeMarksUdt(t *testing.T) {
	mod := parseModule(t, "[PACKED]\nTYPE P\nX AS BYTE\nEND TYPE\n")
	udt, ok := mod.Body.Decls[0].(*ast.UdtDecl)
	if !ok {
		t.Fatalf("expected UdtDecl, got %T", mod.Body.Decls[0])
	}
	if !udt.Packed {
		t.Error("expected [PACKED] to set UdtDecl.Packed")
	}
}

func TestUnexpectedTokenAbortsParse(t *testing.T) {
	mgr := source.NewManager()
	eng := source.NewEngine(mgr)
	ctx := ast.NewContext()
	tf := types.NewFactory()
	lx := lexer.New("bad.bas", "DIM AS INTEGER\n", mgr, eng)
	p := parser.New(ctx, tf, lx, eng)
	if _, err := p.ParseModule("bad.bas"); err == nil {
		t.Fatal("expected a parse error for a malformed DIM")
	}
}
