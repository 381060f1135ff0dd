// Package symbols implements the lexically nested name→symbol tables shared
// by the parser (which creates scopes) and the semantic analyser (which
// populates and resolves them).
//
// Type is declared locally, as a minimal interface, rather than importing
// internal/types directly: internal/types needs a symbols.Table to back a
// UDT's member scope, so the dependency can only run one way. A
// *types.Type satisfies this interface structurally without symbols ever
// importing types.
package symbols

import "strings"

// Type is the surface a Symbol's type value must expose. internal/types.Type
// implements it via its String method.
type Type interface {
	String() string
}

// Flags records a Symbol's lifecycle stage and role, per spec.md §3.
type Flags int

const (
	// Lifecycle (a symbol occupies exactly one of these at a time, advancing
	// Declared -> BeingDefined -> Defined; it may reach Defined only once).
	Declared Flags = 1 << iota
	BeingDefined
	Defined

	// Role (set once, independent of lifecycle).
	Function
	Variable
	Constant
	TypeName
)

// Visibility controls external linkage.
type Visibility int

const (
	Private Visibility = iota
	External
)

// Symbol is a named program entity: variable, function, constant, or type.
type Symbol struct {
	Name       string
	Alias      string // overrides external linkage name, from an ALIAS attribute
	Type       Type
	Visibility Visibility
	Flags      Flags

	ConstantValue any // a token.Literal, set once folding determines one

	// Related holds auxiliary symbols attached to this one: a FuncDecl's
	// parameters, or a UdtDecl's members, in declaration order.
	Related []*Symbol

	// Decl holds the declaring AST node, set by the parser/analyser layer.
	// Declared here as `any` (not *ast.Node) to avoid an import cycle: ast
	// already imports symbols for Table/Symbol back-pointers, so symbols
	// cannot import ast in turn. Callers type-assert to their own ast.Decl.
	Decl any
}

// Is reports whether all bits in want are set on s's Flags.
func (s *Symbol) Is(want Flags) bool { return s.Flags&want == want }

// SetDefined transitions a Declared/BeingDefined symbol to Defined. It
// panics if called twice — per spec.md §3, "a symbol may only transition to
// Defined once" is an invariant the analyser must never violate.
func (s *Symbol) SetDefined() {
	if s.Flags&Defined != 0 {
		panic("symbols: " + s.Name + " defined twice")
	}
	s.Flags = s.Flags&^(Declared|BeingDefined) | Defined
}

// Table is one lexical scope: a parent pointer plus a case-insensitive
// name→symbol map, grounded on the teacher's SymbolTable.Resolve walking
// `outer` via strings.ToLower keys.
type Table struct {
	parent  *Table
	symbols map[string]*Symbol
	order   []*Symbol // declaration order, for deterministic iteration/printing
}

// NewTable creates a scope nested inside parent (nil for the module/root
// scope).
func NewTable(parent *Table) *Table {
	return &Table{parent: parent, symbols: make(map[string]*Symbol)}
}

// Parent returns the enclosing scope, or nil at the root.
func (t *Table) Parent() *Table { return t.parent }

// Insert adds sym under its declared name (not its alias). Insertion does
// not check for prior existence — redefinition is a sema-level concern, not
// a symbols-level one (spec.md §4.5).
func (t *Table) Insert(sym *Symbol) {
	t.symbols[foldKey(sym.Name)] = sym
	t.order = append(t.order, sym)
}

// Find looks up name, walking parent scopes when recursive is true and the
// name is absent locally.
func (t *Table) Find(name string, recursive bool) (*Symbol, bool) {
	key := foldKey(name)
	for scope := t; scope != nil; scope = scope.parent {
		if sym, ok := scope.symbols[key]; ok {
			return sym, true
		}
		if !recursive {
			return nil, false
		}
	}
	return nil, false
}

// Local looks up name in this scope only, equivalent to Find(name, false).
func (t *Table) Local(name string) (*Symbol, bool) { return t.Find(name, false) }

// All returns every symbol declared directly in this scope, in declaration
// order.
func (t *Table) All() []*Symbol { return append([]*Symbol(nil), t.order...) }

func foldKey(name string) string { return strings.ToLower(name) }
