// Package ast defines the node graph produced by the parser: modules,
// statements, declarations, type expressions, and expressions. Every node
// carries a single discriminant (Kind) and a source Range; the kind enum is
// ordered so each family — declarations, statements, type expressions,
// expressions — occupies a contiguous range, making classof-style queries
// (IsDecl, IsStmt, ...) plain comparisons instead of a type switch.
//
// Nodes are never individually freed. A Context owns a slab Arena per node
// type; tearing down the Context drops everything at once. Child references
// are plain Go pointers into that arena — non-owning in the sense that no
// node's destructor (there are none) ever walks into a child to free it.
package ast

import (
	"github.com/lbc-lang/lbc/internal/symbols"
	"github.com/lbc-lang/lbc/internal/token"
	"github.com/lbc-lang/lbc/internal/types"
)

// Kind is the single AST discriminant. Group boundaries (declEnd, stmtEnd,
// ...) are sentinels, not real kinds, so IsDecl/IsStmt/IsType/IsExpr can be
// implemented as range checks (spec: "closed node hierarchies with range
// RTTI").
type Kind int

const (
	invalidKind Kind = iota

	KindModule
	KindStmtList

	miscEnd

	// declarations
	KindVarDecl
	KindFuncDecl
	KindFuncParamDecl
	KindUdtDecl
	KindTypeAlias

	declEnd

	// statements
	KindExprStmt
	KindReturnStmt
	KindIfStmt
	KindForStmt
	KindDoLoopStmt
	KindContinuationStmt
	KindImport
	KindExtern

	stmtEnd

	// type expressions
	KindTypeExpr

	typeEnd

	// expressions
	KindLiteralExpr
	KindIdentExpr
	KindCallExpr
	KindMemberExpr
	KindAssignExpr
	KindUnaryExpr
	KindBinaryExpr
	KindCastExpr
	KindDereferenceExpr
	KindAddressOfExpr
	KindIfExpr
	KindSizeofExpr

	exprEnd
)

// IsDecl reports whether k is one of the Declarations node kinds.
func (k Kind) IsDecl() bool { return k > miscEnd && k < declEnd }

// IsStmt reports whether k is one of the Statements node kinds.
func (k Kind) IsStmt() bool { return k > declEnd && k < stmtEnd }

// IsType reports whether k is a type-expression node kind.
func (k Kind) IsType() bool { return k > stmtEnd && k < typeEnd }

// IsExpr reports whether k is one of the Expressions node kinds.
func (k Kind) IsExpr() bool { return k > typeEnd && k < exprEnd }

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

var kindNames = map[Kind]string{
	KindModule:           "Module",
	KindStmtList:         "StmtList",
	KindVarDecl:          "VarDecl",
	KindFuncDecl:         "FuncDecl",
	KindFuncParamDecl:    "FuncParamDecl",
	KindUdtDecl:          "UdtDecl",
	KindTypeAlias:        "TypeAlias",
	KindExprStmt:         "ExprStmt",
	KindReturnStmt:       "ReturnStmt",
	KindIfStmt:           "IfStmt",
	KindForStmt:          "ForStmt",
	KindDoLoopStmt:       "DoLoopStmt",
	KindContinuationStmt: "ContinuationStmt",
	KindImport:           "Import",
	KindExtern:           "Extern",
	KindTypeExpr:         "TypeExpr",
	KindLiteralExpr:      "LiteralExpr",
	KindIdentExpr:        "IdentExpr",
	KindCallExpr:         "CallExpr",
	KindMemberExpr:       "MemberExpr",
	KindAssignExpr:       "AssignExpr",
	KindUnaryExpr:        "UnaryExpr",
	KindBinaryExpr:       "BinaryExpr",
	KindCastExpr:         "CastExpr",
	KindDereferenceExpr:  "DereferenceExpr",
	KindAddressOfExpr:    "AddressOfExpr",
	KindIfExpr:           "IfExpr",
	KindSizeofExpr:       "SizeofExpr",
}

// Node is implemented by every AST node.
type Node interface {
	Kind() Kind
	Range() token.Range
}

// Decl is implemented by declaration nodes (VarDecl, FuncDecl, ...).
type Decl interface {
	Node
	declNode()
}

// Stmt is implemented by statement nodes, including Import/Extern.
type Stmt interface {
	Node
	stmtNode()
}

// ExprFlags is a bitfield describing what an expression denotes, set by the
// semantic analyser (spec.md §3: "flags: kind ∈ {type, variable, function},
// assignable, external").
type ExprFlags int

const (
	FlagIsType ExprFlags = 1 << iota
	FlagIsVariable
	FlagIsFunction
	FlagAssignable
	FlagExternal
)

// Expr is implemented by every expression node. Past semantic analysis every
// expression carries a canonical Type, a flag set, and an optional folded
// constant value.
type Expr interface {
	Node
	exprNode()

	Type() *types.Type
	SetType(*types.Type)

	Flags() ExprFlags
	SetFlags(ExprFlags)

	ConstantValue() (token.Literal, bool)
	SetConstantValue(token.Literal)
}

// base is embedded by every concrete node to supply Kind/Range.
type base struct {
	kind Kind
	rng  token.Range
}

func (b *base) Kind() Kind        { return b.kind }
func (b *base) Range() token.Range { return b.rng }

// SetRange updates a node's source range. Parsers build a node before its
// extent is known (the end position falls out of however much gets parsed
// into it), so construction takes a provisional range and callers patch it
// once the node is complete.
func (b *base) SetRange(r token.Range) { b.rng = r }

func (b *base) declNode() {}
func (b *base) stmtNode() {}

// exprBase is embedded by expression nodes; it adds the post-sema
// annotations every Expr carries.
type exprBase struct {
	base
	typ       *types.Type
	flags     ExprFlags
	constant  token.Literal
	hasConst  bool
}

func (e *exprBase) exprNode() {}

func (e *exprBase) Type() *types.Type   { return e.typ }
func (e *exprBase) SetType(t *types.Type) { e.typ = t }

func (e *exprBase) Flags() ExprFlags     { return e.flags }
func (e *exprBase) SetFlags(f ExprFlags) { e.flags = f }

func (e *exprBase) ConstantValue() (token.Literal, bool) { return e.constant, e.hasConst }
func (e *exprBase) SetConstantValue(v token.Literal) {
	e.constant = v
	e.hasConst = true
}

// SymbolRef is the minimal back-pointer surface an IdentExpr/VarDecl/FuncDecl
// needs into internal/symbols once the analyser has resolved a name.
type SymbolRef = *symbols.Symbol
