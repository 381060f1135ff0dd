package ast

import (
	"github.com/lbc-lang/lbc/internal/token"
)

// LiteralExpr is an integer/float/string/boolean/null literal carried
// straight from the lexer's token.Literal.
type LiteralExpr struct {
	exprBase
	Value token.Literal
}

// NewLiteralExpr allocates a LiteralExpr in ctx.
func (c *Context) NewLiteralExpr(v token.Literal, rng token.Range) *LiteralExpr {
	e := c.literals.New()
	e.exprBase = exprBase{base: base{kind: KindLiteralExpr, rng: rng}}
	e.Value = v
	return e
}

// IdentExpr is a name reference; Symbol is nil until the analyser resolves
// it.
type IdentExpr struct {
	exprBase
	Name   string
	Symbol SymbolRef
}

// NewIdentExpr allocates an IdentExpr in ctx.
func (c *Context) NewIdentExpr(name string, rng token.Range) *IdentExpr {
	e := c.idents.New()
	e.exprBase = exprBase{base: base{kind: KindIdentExpr, rng: rng}}
	e.Name = name
	return e
}

// CallExpr is Callee(Args...), whether written with parens or synthesised
// from a paren-free SUB call.
type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
}

// NewCallExpr allocates a CallExpr in ctx.
func (c *Context) NewCallExpr(callee Expr, args []Expr, rng token.Range) *CallExpr {
	e := c.calls.New()
	e.exprBase = exprBase{base: base{kind: KindCallExpr, rng: rng}}
	e.Callee = callee
	e.Args = args
	return e
}

// MemberExpr is X.Name — a UDT field access, produced by the `.` operator
// instead of a generic BinaryExpr (spec.md §4.3.1).
type MemberExpr struct {
	exprBase
	X      Expr
	Name   string
	Symbol SymbolRef // the resolved member, set by sema
}

// NewMemberExpr allocates a MemberExpr in ctx.
func (c *Context) NewMemberExpr(x Expr, name string, rng token.Range) *MemberExpr {
	e := c.members.New()
	e.exprBase = exprBase{base: base{kind: KindMemberExpr, rng: rng}}
	e.X = x
	e.Name = name
	return e
}

// AssignExpr is LHS = RHS, always appearing as the sole expression of an
// ExprStmt (assignment is a statement, not a general sub-expression).
type AssignExpr struct {
	exprBase
	LHS Expr
	RHS Expr
}

// NewAssignExpr allocates an AssignExpr in ctx.
func (c *Context) NewAssignExpr(lhs, rhs Expr, rng token.Range) *AssignExpr {
	e := c.assigns.New()
	e.exprBase = exprBase{base: base{kind: KindAssignExpr, rng: rng}}
	e.LHS = lhs
	e.RHS = rhs
	return e
}

// UnaryExpr is a prefix operator (Negate, NotKw, ...) applied to X.
type UnaryExpr struct {
	exprBase
	Op token.Kind
	X  Expr
}

// NewUnaryExpr allocates a UnaryExpr in ctx.
func (c *Context) NewUnaryExpr(op token.Kind, x Expr, rng token.Range) *UnaryExpr {
	e := c.unaries.New()
	e.exprBase = exprBase{base: base{kind: KindUnaryExpr, rng: rng}}
	e.Op = op
	e.X = x
	return e
}

// BinaryExpr is LHS Op RHS for every infix operator except `.` (MemberExpr)
// and `=` in statement position (AssignExpr).
type BinaryExpr struct {
	exprBase
	Op  token.Kind
	LHS Expr
	RHS Expr
}

// NewBinaryExpr allocates a BinaryExpr in ctx.
func (c *Context) NewBinaryExpr(op token.Kind, lhs, rhs Expr, rng token.Range) *BinaryExpr {
	e := c.binaries.New()
	e.exprBase = exprBase{base: base{kind: KindBinaryExpr, rng: rng}}
	e.Op = op
	e.LHS = lhs
	e.RHS = rhs
	return e
}

// CastExpr is `X AS Type`, or a cast synthesised by sema to reconcile an
// implicit-type mismatch (Implicit == true). IsTest marks the `X IS Type`
// form: a boolean type test rather than a value conversion (spec.md §4.3.1:
// "AS begins a cast; IS a type test").
type CastExpr struct {
	exprBase
	X        Expr
	Target   *TypeExpr // nil for an implicit cast whose target is exprBase.typ
	Implicit bool
	IsTest   bool
}

// NewCastExpr allocates a CastExpr in ctx.
func (c *Context) NewCastExpr(x Expr, typeExpr *TypeExpr, implicit bool, rng token.Range) *CastExpr {
	e := c.casts.New()
	e.exprBase = exprBase{base: base{kind: KindCastExpr, rng: rng}}
	e.X = x
	e.Target = typeExpr
	e.Implicit = implicit
	return e
}

// DereferenceExpr is unary `*X` (retagged from Star at parse time).
type DereferenceExpr struct {
	exprBase
	X Expr
}

// NewDereferenceExpr allocates a DereferenceExpr in ctx.
func (c *Context) NewDereferenceExpr(x Expr, rng token.Range) *DereferenceExpr {
	e := c.derefs.New()
	e.exprBase = exprBase{base: base{kind: KindDereferenceExpr, rng: rng}}
	e.X = x
	return e
}

// AddressOfExpr is `@X`; X must be addressable (a variable reference or a
// dereference).
type AddressOfExpr struct {
	exprBase
	X Expr
}

// NewAddressOfExpr allocates an AddressOfExpr in ctx.
func (c *Context) NewAddressOfExpr(x Expr, rng token.Range) *AddressOfExpr {
	e := c.addrOfs.New()
	e.exprBase = exprBase{base: base{kind: KindAddressOfExpr, rng: rng}}
	e.X = x
	return e
}

// IfExpr is the ternary `IF cond THEN a ELSE b` expression form.
type IfExpr struct {
	exprBase
	Cond Expr
	Then Expr
	Else Expr
}

// NewIfExpr allocates an IfExpr in ctx.
func (c *Context) NewIfExpr(cond, then, els Expr, rng token.Range) *IfExpr {
	e := c.ifExprs.New()
	e.exprBase = exprBase{base: base{kind: KindIfExpr, rng: rng}}
	e.Cond = cond
	e.Then = then
	e.Else = els
	return e
}

// SizeofExpr is `SIZEOF(typeExpr)`. Not one of spec.md §3's enumerated
// expression kinds, but SIZEOF is a lexed keyword with no other home in the
// grammar (spec.md §6); sema resolves the target type and types the
// expression INTEGER. It is not folded to a constant, and no diagnostic is
// reported for it.
type SizeofExpr struct {
	exprBase
	Target *TypeExpr
}

// NewSizeofExpr allocates a SizeofExpr in ctx.
func (c *Context) NewSizeofExpr(t *TypeExpr, rng token.Range) *SizeofExpr {
	e := c.sizeofs.New()
	e.exprBase = exprBase{base: base{kind: KindSizeofExpr, rng: rng}}
	e.Target = t
	return e
}
