package ast

import (
	"testing"

	"github.com/lbc-lang/lbc/internal/token"
)

func TestKindGroupRanges(t *testing.T) {
	if !KindVarDecl.IsDecl() || KindVarDecl.IsStmt() || KindVarDecl.IsExpr() {
		t.Error("VarDecl should classify as a Decl only")
	}
	if !KindIfStmt.IsStmt() || KindIfStmt.IsDecl() {
		t.Error("IfStmt should classify as a Stmt only")
	}
	if !KindBinaryExpr.IsExpr() || KindBinaryExpr.IsStmt() {
		t.Error("BinaryExpr should classify as an Expr only")
	}
	if !KindTypeExpr.IsType() {
		t.Error("TypeExpr should classify as a type node")
	}
}

func TestArenaStableAddresses(t *testing.T) {
	a := NewArena[VarDecl](2)
	var ptrs []*VarDecl
	for i := 0; i < 10; i++ {
		ptrs = append(ptrs, a.New())
	}
	for i, p := range ptrs {
		p.Name = "x"
		for j, q := range ptrs {
			if i != j && p == q {
				t.Fatalf("arena returned aliased pointers at %d and %d", i, j)
			}
		}
	}
	if a.Len() != 10 {
		t.Errorf("Len() = %d, want 10", a.Len())
	}
}

func TestExprBaseAnnotations(t *testing.T) {
	c := NewContext()
	lit := c.NewLiteralExpr(token.Literal{Kind: token.IntValue, Int: 7}, token.Range{})
	if _, ok := lit.ConstantValue(); ok {
		t.Fatal("fresh literal should have no constant value yet")
	}
	lit.SetConstantValue(token.Literal{Kind: token.IntValue, Int: 7})
	v, ok := lit.ConstantValue()
	if !ok || v.Int != 7 {
		t.Errorf("ConstantValue = %v, %v", v, ok)
	}
	lit.SetFlags(FlagIsVariable)
	if lit.Flags() != FlagIsVariable {
		t.Errorf("Flags() = %v", lit.Flags())
	}
}

func TestModuleAndStmtListConstruction(t *testing.T) {
	c := NewContext()
	mod := c.NewModule("t.bas", token.Range{})
	body := c.NewStmtList(token.Range{})
	mod.Body = body
	if mod.Kind() != KindModule || mod.Symbols == nil {
		t.Fatal("NewModule should attach a root symbol table")
	}
	decl := c.NewVarDecl("X", token.Range{})
	body.Decls = append(body.Decls, decl)
	if len(mod.Body.Decls) != 1 {
		t.Fatal("expected one decl in the module body")
	}
}
