package ast

import (
	"github.com/lbc-lang/lbc/internal/symbols"
	"github.com/lbc-lang/lbc/internal/token"
)

// Module is the parser's entry-point node: one source file's worth of
// imports and top-level statements, plus the file-level symbol table.
type Module struct {
	base
	File         string
	ImplicitMain bool // no SUB/FUNCTION wraps the top level; it is PRINT "hi"-style script
	Imports      []*Import
	Body         *StmtList
	Symbols      *symbols.Table
}

// NewModule allocates a Module in ctx.
func (c *Context) NewModule(file string, rng token.Range) *Module {
	m := c.modules.New()
	m.base = base{kind: KindModule, rng: rng}
	m.File = file
	m.Symbols = symbols.NewTable(nil)
	return m
}

// StmtList separates declarations, function bodies, and plain statements so
// Pass A can forward-declare the first group before Pass B visits function
// bodies that may reference later siblings (spec.md §3).
type StmtList struct {
	base
	Decls     []Decl
	FuncStmts []Decl // FuncDecl entries with a body, visited after Decls
	Stmts     []Stmt
}

// NewStmtList allocates an empty StmtList in ctx.
func (c *Context) NewStmtList(rng token.Range) *StmtList {
	s := c.stmtLists.New()
	s.base = base{kind: KindStmtList, rng: rng}
	return s
}

// VarDecl is a DIM or CONST binding.
type VarDecl struct {
	base
	Name       string
	Type       *TypeExpr // nil if inferred from Init
	Init       Expr      // nil if none
	IsConst    bool
	Attributes map[string]string
	CallConv   string // calling-convention string of the enclosing EXTERN block, if any
	IsLocal    bool
	IsExtern   bool
	Symbol     SymbolRef
}

func (*VarDecl) declNode() {}

// NewVarDecl allocates a VarDecl in ctx.
func (c *Context) NewVarDecl(name string, rng token.Range) *VarDecl {
	v := c.varDecls.New()
	v.base = base{kind: KindVarDecl, rng: rng}
	v.Name = name
	return v
}

// FuncParamDecl is one SUB/FUNCTION parameter.
type FuncParamDecl struct {
	base
	Name   string
	Type   *TypeExpr
	Symbol SymbolRef
}

func (*FuncParamDecl) declNode() {}

// NewFuncParamDecl allocates a FuncParamDecl in ctx.
func (c *Context) NewFuncParamDecl(name string, rng token.Range) *FuncParamDecl {
	p := c.funcParams.New()
	p.base = base{kind: KindFuncParamDecl, rng: rng}
	p.Name = name
	return p
}

// FuncDecl is a SUB or FUNCTION, declared (DECLARE) or defined.
type FuncDecl struct {
	base
	Name           string
	Params         []*FuncParamDecl
	Variadic       bool
	ReturnType     *TypeExpr // nil for SUB
	HasImplementation bool
	Body           *StmtList
	Symbols        *symbols.Table
	Attributes     map[string]string
	CallConv       string
	Symbol         SymbolRef
}

func (*FuncDecl) declNode() {}

// NewFuncDecl allocates a FuncDecl in ctx, with a fresh child symbol table
// for its parameters and locals.
func (c *Context) NewFuncDecl(name string, parent *symbols.Table, rng token.Range) *FuncDecl {
	f := c.funcDecls.New()
	f.base = base{kind: KindFuncDecl, rng: rng}
	f.Name = name
	f.Symbols = symbols.NewTable(parent)
	return f
}

// UdtDecl is a TYPE ... END TYPE record declaration.
type UdtDecl struct {
	base
	Name    string
	Members []Decl // VarDecls, in declaration order
	Symbols *symbols.Table
	Packed  bool
	Symbol  SymbolRef
}

func (*UdtDecl) declNode() {}

// NewUdtDecl allocates a UdtDecl in ctx.
func (c *Context) NewUdtDecl(name string, parent *symbols.Table, rng token.Range) *UdtDecl {
	u := c.udtDecls.New()
	u.base = base{kind: KindUdtDecl, rng: rng}
	u.Name = name
	u.Symbols = symbols.NewTable(parent)
	return u
}

// TypeAlias is a named alias for another type expression.
type TypeAlias struct {
	base
	Name   string
	Type   *TypeExpr
	Symbol SymbolRef
}

func (*TypeAlias) declNode() {}

// NewTypeAlias allocates a TypeAlias in ctx.
func (c *Context) NewTypeAlias(name string, rng token.Range) *TypeAlias {
	a := c.typeAliases.New()
	a.base = base{kind: KindTypeAlias, rng: rng}
	a.Name = name
	return a
}
