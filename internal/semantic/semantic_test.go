package semantic_test

import (
	"testing"

	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/lexer"
	"github.com/lbc-lang/lbc/internal/parser"
	"github.com/lbc-lang/lbc/internal/semantic"
	"github.com/lbc-lang/lbc/internal/source"
	"github.com/lbc-lang/lbc/internal/types"
)

type unit struct {
	mod *ast.Module
	tf  *types.Factory
	eng *source.Engine
}

func analyze(t *testing.T, src string) unit {
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
	return unit{mod: mod, tf: tf, eng: eng}
}

func firstVarDecl(t *testing.T, mod *ast.Module) *ast.VarDecl {
	t.Helper()
	for _, d := range mod.Body.Decls {
		if v, ok := d.(*ast.VarDecl); ok {
			return v
		}
	}
	t.Fatalf("no VarDecl found in module body")
	return nil
}

func TestLiteralAdoptsImplicitByteType(t *testing.T) {
	u := analyze(t, "DIM x AS BYTE = 2\n")
	if u.eng.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", u.eng.Diagnostics())
	}
	v := firstVarDecl(t, u.mod)
	if v.Init.Type() != u.tf.GetByte() {
		t.Fatalf("x's init type = %v, want Byte", v.Init.Type())
	}
	if _, ok := v.Init.(*ast.CastExpr); ok {
		t.Fatalf("literal 2 should be directly typed Byte, not wrapped in a cast")
	}
}

func TestMixedArithmeticInfersDoubleAndCastsIntLiteral(t *testing.T) {
	u := analyze(t, "DIM x = 1 + 2.5\n")
	if u.eng.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", u.eng.Diagnostics())
	}
	v := firstVarDecl(t, u.mod)
	if v.Init.Type() != u.tf.GetDouble() {
		t.Fatalf("x.Type = %v, want Double", v.Init.Type())
	}
	bin, ok := v.Init.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", v.Init)
	}
	cast, ok := bin.LHS.(*ast.CastExpr)
	if !ok || !cast.Implicit {
		t.Fatalf("expected an implicit cast wrapping the integer literal, got %#v", bin.LHS)
	}
}

func TestUseBeforeDefinitionIsDiagnosed(t *testing.T) {
	u := analyze(t, "DIM x AS INTEGER = y\n")
	if !u.eng.HasErrors() {
		t.Fatal("expected an undefined-identifier diagnostic")
	}
}

func TestArithmeticResultCoercedToDeclaredType(t *testing.T) {
	u := analyze(t, "DIM x AS LONG\nx = 1 + 2\n")
	if u.eng.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", u.eng.Diagnostics())
	}
	stmt, ok := u.mod.Body.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", u.mod.Body.Stmts[0])
	}
	assign, ok := stmt.X.(*ast.AssignExpr)
	if !ok {
		t.Fatalf("expected AssignExpr, got %T", stmt.X)
	}
	if assign.RHS.Type() != u.tf.GetLong() {
		t.Fatalf("assignment RHS type = %v, want Long", assign.RHS.Type())
	}
}

func TestForStepNegativeIsDegenerateSkip(t *testing.T) {
	u := analyze(t, "FOR i = 1 TO 10 STEP -1\nNEXT\n")
	if u.eng.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", u.eng.Diagnostics())
	}
	forStmt, ok := u.mod.Body.Stmts[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("expected ForStmt, got %T", u.mod.Body.Stmts[0])
	}
	if forStmt.Direction != ast.DirSkip {
		t.Fatalf("Direction = %v, want Skip", forStmt.Direction)
	}
}

func TestForIncrementsWhenBoundsRise(t *testing.T) {
	u := analyze(t, "FOR i = 0 TO 9\nNEXT\n")
	if u.eng.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", u.eng.Diagnostics())
	}
	forStmt := u.mod.Body.Stmts[0].(*ast.ForStmt)
	if forStmt.Direction != ast.DirIncrement {
		t.Fatalf("Direction = %v, want Increment", forStmt.Direction)
	}
}

func TestExitForOutsideLoopIsDiagnosed(t *testing.T) {
	u := analyze(t, "EXIT FOR\n")
	if !u.eng.HasErrors() {
		t.Fatal("expected EXIT FOR outside any FOR to be diagnosed")
	}
}

func TestIfBranchesGetIndependentScopes(t *testing.T) {
	// Mutually exclusive branches may each declare a local of the same name
	// without colliding; each block carries its own nested scope.
	src := "DIM c = TRUE\n" +
		"IF c THEN\n" +
		"DIM x AS INTEGER = 1\n" +
		"ELSE\n" +
		"DIM x AS INTEGER = 2\n" +
		"END IF\n"
	u := analyze(t, src)
	if u.eng.HasErrors() {
		t.Fatalf("sibling branches declaring the same local must not collide: %+v", u.eng.Diagnostics())
	}
}

func TestIfBlockDeclVisibleToLaterBlocks(t *testing.T) {
	// A block's decls stay visible to the ELSE IF/ELSE blocks after it —
	// the scopes chain head-to-tail.
	src := "DIM c = TRUE\n" +
		"IF c THEN\n" +
		"DIM x AS INTEGER = 1\n" +
		"ELSE\n" +
		"x = 2\n" +
		"END IF\n"
	u := analyze(t, src)
	if u.eng.HasErrors() {
		t.Fatalf("an earlier block's decl should resolve in a later block: %+v", u.eng.Diagnostics())
	}
}

func TestUdtMemberAccess(t *testing.T) {
	u := analyze(t, "TYPE POINT\nX AS INTEGER\nY AS INTEGER\nEND TYPE\nDIM p AS POINT\np.X = 5\n")
	if u.eng.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", u.eng.Diagnostics())
	}
}

func TestUnknownUdtMemberIsDiagnosed(t *testing.T) {
	u := analyze(t, "TYPE POINT\nX AS INTEGER\nEND TYPE\nDIM p AS POINT\np.Z = 5\n")
	if !u.eng.HasErrors() {
		t.Fatal("expected an unknown-member diagnostic for p.Z")
	}
}

func TestNullAdoptsPointerTypeThroughComparison(t *testing.T) {
	u := analyze(t, "DIM p AS INTEGER PTR = NULL\nIF p = NULL THEN RETURN\n")
	if u.eng.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", u.eng.Diagnostics())
	}
	v := firstVarDecl(t, u.mod)
	if !v.Init.Type().IsPointer() {
		t.Fatalf("p.Type = %v, want a pointer type", v.Init.Type())
	}
}

func TestFunctionCallArgumentWidenedOnReturn(t *testing.T) {
	src := "FUNCTION ADD(a AS INTEGER, b AS INTEGER) AS INTEGER\nRETURN a + b\nEND FUNCTION\nDIM r AS LONG = ADD(1, 2)\n"
	u := analyze(t, src)
	if u.eng.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", u.eng.Diagnostics())
	}
	var varDecl *ast.VarDecl
	for _, d := range u.mod.Body.Decls {
		if v, ok := d.(*ast.VarDecl); ok && v.Name == "R" {
			varDecl = v
		}
	}
	if varDecl == nil {
		t.Fatalf("expected a VarDecl named R")
	}
	if varDecl.Init.Type() != u.tf.GetLong() {
		t.Fatalf("r's init type = %v, want Long", varDecl.Init.Type())
	}
}

func TestRedefinitionIsDiagnosed(t *testing.T) {
	u := analyze(t, "DECLARE SUB FOO()\nSUB FOO()\nEND SUB\nSUB FOO()\nEND SUB\n")
	if !u.eng.HasErrors() {
		t.Fatal("expected redefining FOO a second time to be diagnosed")
	}
}

func TestForwardDeclarationResolvesToSameSymbolAsDefinition(t *testing.T) {
	u := analyze(t, "DECLARE SUB FOO()\nSUB FOO()\nEND SUB\n")
	if u.eng.HasErrors() {
		t.Fatalf("a DECLARE followed by its matching body should not be a redefinition: %+v", u.eng.Diagnostics())
	}
}

func TestParenFreePrintCallTypeChecks(t *testing.T) {
	u := analyze(t, "PRINT \"Hello\"\n")
	if u.eng.HasErrors() {
		t.Fatalf("PRINT is a builtin variadic SUB; expected no diagnostics, got %+v", u.eng.Diagnostics())
	}
	stmt := u.mod.Body.Stmts[0].(*ast.ExprStmt)
	call, ok := stmt.X.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected a synthesized CallExpr, got %T", stmt.X)
	}
	if call.Type() == nil || call.Type() != u.tf.GetVoid() {
		t.Errorf("PRINT call type = %v, want VOID", call.Type())
	}
}

func TestAliasAttributeSetsSymbolAlias(t *testing.T) {
	u := analyze(t, "[ALIAS = \"c_puts\"]\nDECLARE SUB PUTS(s AS ZSTRING PTR)\n")
	if u.eng.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", u.eng.Diagnostics())
	}
	fd := u.mod.Body.Decls[0].(*ast.FuncDecl)
	if fd.Symbol == nil || fd.Symbol.Alias != "c_puts" {
		t.Fatalf("expected symbol alias c_puts, got %+v", fd.Symbol)
	}
}

func TestCircularUdtIsDiagnosed(t *testing.T) {
	u := analyze(t, "TYPE A\nX AS A\nEND TYPE\nDIM v AS A\n")
	if !u.eng.HasErrors() {
		t.Fatal("expected a circular-dependency diagnostic for a UDT containing itself by value")
	}
}

func TestSelfReferentialUdtThroughPointerIsAllowed(t *testing.T) {
	u := analyze(t, "TYPE NODE\nVALUE AS INTEGER\nREST AS NODE PTR\nEND TYPE\nDIM head AS NODE\n")
	if u.eng.HasErrors() {
		t.Fatalf("a UDT holding a pointer to itself is a legal linked list: %+v", u.eng.Diagnostics())
	}
}

func TestNextNameMismatchIsDiagnosed(t *testing.T) {
	u := analyze(t, "FOR i = 0 TO 9\nNEXT j\n")
	if !u.eng.HasErrors() {
		t.Fatal("expected NEXT j against FOR i to be diagnosed")
	}
}

func TestNegativeConstantStepIsMaterializedAbsolute(t *testing.T) {
	u := analyze(t, "FOR i = 10 TO 1 STEP -2\nNEXT\n")
	if u.eng.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", u.eng.Diagnostics())
	}
	forStmt := u.mod.Body.Stmts[0].(*ast.ForStmt)
	if forStmt.Direction != ast.DirDecrement {
		t.Fatalf("Direction = %v, want Decrement", forStmt.Direction)
	}
	lit, ok := forStmt.Step.ConstantValue()
	if !ok || int64(lit.Int) != 2 {
		t.Fatalf("step constant = %+v, want the absolute value 2", lit)
	}
}

func TestCallResolvesAgainstEarlierForwardDeclaration(t *testing.T) {
	src := "DECLARE FUNCTION ADD(a AS INTEGER, b AS INTEGER) AS INTEGER\n" +
		"DIM r AS INTEGER = ADD(1, 2)\n" +
		"FUNCTION ADD(a AS INTEGER, b AS INTEGER) AS INTEGER\n" +
		"RETURN a + b\n" +
		"END FUNCTION\n"
	u := analyze(t, src)
	if u.eng.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", u.eng.Diagnostics())
	}
	v := firstVarDecl(t, u.mod)
	if v.Init.Type() != u.tf.GetInteger() {
		t.Fatalf("r's init type = %v, want Integer", v.Init.Type())
	}
}
