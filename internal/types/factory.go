package types

import (
	"strings"

	"github.com/lbc-lang/lbc/internal/symbols"
)

// Factory owns every canonical Type in one compilation. All allocation
// conceptually comes from the compilation context's arena (spec.md §4.4);
// in Go that just means the Factory itself is owned by the context and its
// Types are ordinary heap values the garbage collector reclaims once the
// context is unreachable.
type Factory struct {
	void, null, any *Type
	boolType        *Type
	zstring         *Type
	integrals       map[string]*Type
	floats          map[string]*Type
	anyPtr          *Type

	pointers   map[*Type]*Type
	references map[*Type]*Type
	functions  map[string]*Type
	udts       map[*symbols.Symbol]*Type
}

// NewFactory creates a Factory with every sentinel/primitive/integral/float
// singleton pre-built, plus a pre-cached ANY PTR.
func NewFactory() *Factory {
	f := &Factory{
		integrals:  make(map[string]*Type),
		floats:     make(map[string]*Type),
		pointers:   make(map[*Type]*Type),
		references: make(map[*Type]*Type),
		functions:  make(map[string]*Type),
		udts:       make(map[*symbols.Symbol]*Type),
	}

	f.void = &Type{Kind: KindSentinel, Name: "VOID"}
	f.null = &Type{Kind: KindSentinel, Name: "NULL"}
	f.any = &Type{Kind: KindSentinel, Name: "ANY"}
	f.boolType = &Type{Kind: KindBool, Name: "BOOLEAN", Bytes: 1}
	f.zstring = &Type{Kind: KindZString, Name: "ZSTRING"}

	for _, it := range []struct {
		name   string
		bytes  int
		signed bool
	}{
		{"BYTE", 1, true}, {"UBYTE", 1, false},
		{"SHORT", 2, true}, {"USHORT", 2, false},
		{"INTEGER", 4, true}, {"UINTEGER", 4, false},
		{"LONG", 8, true}, {"ULONG", 8, false},
	} {
		f.integrals[it.name] = &Type{Kind: KindIntegral, Name: it.name, Bytes: it.bytes, Signed: it.signed}
	}
	for _, ft := range []struct {
		name  string
		bytes int
	}{
		{"SINGLE", 4}, {"DOUBLE", 8},
	} {
		f.floats[ft.name] = &Type{Kind: KindFloat, Name: ft.name, Bytes: ft.bytes}
	}

	f.anyPtr, _ = f.GetPointer(f.any)
	return f
}

func (f *Factory) GetVoid() *Type  { return f.void }
func (f *Factory) GetNull() *Type  { return f.null }
func (f *Factory) GetAny() *Type   { return f.any }
func (f *Factory) GetBool() *Type  { return f.boolType }
func (f *Factory) GetZString() *Type { return f.zstring }
func (f *Factory) GetAnyPtr() *Type { return f.anyPtr }

func (f *Factory) GetByte() *Type     { return f.integrals["BYTE"] }
func (f *Factory) GetUByte() *Type    { return f.integrals["UBYTE"] }
func (f *Factory) GetShort() *Type    { return f.integrals["SHORT"] }
func (f *Factory) GetUShort() *Type   { return f.integrals["USHORT"] }
func (f *Factory) GetInteger() *Type  { return f.integrals["INTEGER"] }
func (f *Factory) GetUInteger() *Type { return f.integrals["UINTEGER"] }
func (f *Factory) GetLong() *Type     { return f.integrals["LONG"] }
func (f *Factory) GetULong() *Type    { return f.integrals["ULONG"] }

func (f *Factory) GetSingle() *Type { return f.floats["SINGLE"] }
func (f *Factory) GetDouble() *Type { return f.floats["DOUBLE"] }

// GetIntegral looks up a built-in integral type by its upper-cased keyword
// name, for callers translating a TypeExpr's builtin token kind.
func (f *Factory) GetIntegral(name string) (*Type, bool) {
	t, ok := f.integrals[strings.ToUpper(name)]
	return t, ok
}

// GetFloat looks up a built-in floating-point type by name.
func (f *Factory) GetFloat(name string) (*Type, bool) {
	t, ok := f.floats[strings.ToUpper(name)]
	return t, ok
}

// GetPointer returns the canonical pointer-to-t type, rejecting a reference
// base (PTR REF is forbidden) and deduplicating by pointee identity.
func (f *Factory) GetPointer(t *Type) (*Type, error) {
	if t.Kind == KindReference {
		return nil, errPtrRef
	}
	if existing, ok := f.pointers[t]; ok {
		return existing, nil
	}
	p := &Type{Kind: KindPointer, Base: t}
	f.pointers[t] = p
	return p, nil
}

// GetReference returns the canonical reference-to-t type, rejecting a
// reference base (REF REF is forbidden) and deduplicating by referent
// identity.
func (f *Factory) GetReference(t *Type) (*Type, error) {
	if t.Kind == KindReference {
		return nil, errRefRef
	}
	if existing, ok := f.references[t]; ok {
		return existing, nil
	}
	r := &Type{Kind: KindReference, Base: t}
	f.references[t] = r
	return r, nil
}

// GetFunction returns the canonical function type for the given signature,
// deduplicated by (return, ordered params, variadic) — a different return
// type or a different parameter permutation is always a distinct Type.
func (f *Factory) GetFunction(params []*Type, ret *Type, variadic bool) *Type {
	key := functionKey(params, ret, variadic)
	if existing, ok := f.functions[key]; ok {
		return existing
	}
	fn := &Type{Kind: KindFunction, Params: append([]*Type(nil), params...), Return: ret, Variadic: variadic}
	f.functions[key] = fn
	return fn
}

func functionKey(params []*Type, ret *Type, variadic bool) string {
	var b strings.Builder
	if ret != nil {
		b.WriteString(ret.String())
	}
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	if variadic {
		b.WriteString("...")
	}
	return b.String()
}

// GetUDT returns the canonical UDT type for sym, creating exactly one per
// defining symbol.
func (f *Factory) GetUDT(sym *symbols.Symbol, scope *symbols.Table, packed bool) *Type {
	if existing, ok := f.udts[sym]; ok {
		return existing
	}
	t := &Type{Kind: KindUDT, Name: sym.Name, Symbol: sym, Scope: scope, Packed: packed}
	f.udts[sym] = t
	return t
}
