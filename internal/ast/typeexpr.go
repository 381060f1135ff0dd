package ast

import (
	"github.com/lbc-lang/lbc/internal/token"
	"github.com/lbc-lang/lbc/internal/types"
)

// TypeExprForm selects which alternative a TypeExpr holds.
type TypeExprForm int

const (
	TypeFormBuiltin TypeExprForm = iota // a built-in type-keyword token
	TypeFormIdent                       // a name to resolve against the scope chain (UDT or alias)
	TypeFormFuncSig                     // a function/sub signature, e.g. for a callback parameter
	TypeFormTypeOf                      // TYPEOF(expr) — parses, sema rejects (spec.md §9 Open Question)
)

// TypeExpr is a syntactic type reference: one of the forms above, trailing
// PTR levels, and an optional leading REF. After semantic analysis Resolved
// points at the canonical types.Type it denotes.
type TypeExpr struct {
	base

	Form TypeExprForm

	Builtin token.Kind // valid when Form == TypeFormBuiltin

	Ident string // valid when Form == TypeFormIdent

	FuncParams   []*TypeExpr // valid when Form == TypeFormFuncSig
	FuncReturn   *TypeExpr   // valid when Form == TypeFormFuncSig; nil means SUB
	FuncVariadic bool

	TypeOfExpr Expr // valid when Form == TypeFormTypeOf

	PtrCount int  // number of trailing PTR suffixes
	IsRef    bool // one leading REF; PTR REF and REF REF are both rejected by the parser

	Resolved *types.Type
}

// NewTypeExpr allocates a TypeExpr in ctx.
func (c *Context) NewTypeExpr(rng token.Range) *TypeExpr {
	t := c.typeExprs.New()
	t.base = base{kind: KindTypeExpr, rng: rng}
	return t
}
