// Package types implements the canonical, interned type lattice described in
// spec.md §4.4: one Factory owns every Type that exists in a compilation,
// structural equality always collapses to pointer equality, and the
// relations sema needs (Compare, Common, Castable, RemoveReference) are
// plain functions over that lattice.
//
// Styled on the teacher's internal/interp/types/type_system.go (case-
// insensitive registry maps, constructors returning pointer identity), but
// the shape — one interned lattice with a structural `compare` relation — is
// new: it has no direct DWScript analogue and comes straight from spec.md
// §4.4.
package types

import (
	"fmt"
	"strings"

	"github.com/lbc-lang/lbc/internal/symbols"
)

// Kind discriminates the type categories from spec.md §3.
type Kind int

const (
	KindSentinel Kind = iota
	KindBool
	KindZString
	KindIntegral
	KindFloat
	KindPointer
	KindReference
	KindFunction
	KindUDT
)

// Type is canonical and immutable once constructed: equal structural shape
// always yields the same *Type (Factory guarantees this), so identity
// comparison (==) is the type-equality relation everywhere else in the
// compiler.
type Type struct {
	Kind Kind
	Name string // sentinel name ("VOID", "ANY", "NULL") or UDT name

	// Integral
	Bytes  int
	Signed bool

	// Pointer / Reference
	Base *Type

	// Function
	Params   []*Type
	Return   *Type
	Variadic bool

	// UDT
	Symbol *symbols.Symbol
	Scope  *symbols.Table
	Packed bool
}

// String renders the type the way LightBASIC source spells it, e.g.
// "INTEGER", "INTEGER PTR", "BYTE PTR PTR". It is also what satisfies
// symbols.Type, letting a Symbol carry a *Type without symbols importing
// this package.
func (t *Type) String() string {
	switch t.Kind {
	case KindPointer:
		return t.Base.String() + " PTR"
	case KindReference:
		return t.Base.String() + " REF"
	case KindFunction:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		ret := "VOID"
		if t.Return != nil {
			ret = t.Return.String()
		}
		variadic := ""
		if t.Variadic {
			variadic = ", ..."
		}
		return fmt.Sprintf("FUNCTION(%s%s) AS %s", strings.Join(parts, ", "), variadic, ret)
	default:
		return t.Name
	}
}

// IsIntegral, IsFloat, IsNumeric, IsPointer, IsReference are the classof-
// style predicates sema and the folder consult.
func (t *Type) IsIntegral() bool  { return t.Kind == KindIntegral }
func (t *Type) IsFloat() bool     { return t.Kind == KindFloat }
func (t *Type) IsNumeric() bool   { return t.IsIntegral() || t.IsFloat() }
func (t *Type) IsPointer() bool   { return t.Kind == KindPointer }
func (t *Type) IsReference() bool { return t.Kind == KindReference }
func (t *Type) IsUDT() bool       { return t.Kind == KindUDT }
