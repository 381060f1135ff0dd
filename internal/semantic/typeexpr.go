package semantic

import (
	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/symbols"
	"github.com/lbc-lang/lbc/internal/token"
	"github.com/lbc-lang/lbc/internal/types"
)

// builtinTypeGetters maps a TypeFormBuiltin token to the Factory accessor
// that produces its canonical Type.
var builtinTypeGetters = map[token.Kind]func(*types.Factory) *types.Type{
	token.KwVoid:     (*types.Factory).GetVoid,
	token.KwAny:      (*types.Factory).GetAny,
	token.KwBool:     (*types.Factory).GetBool,
	token.KwZString:  (*types.Factory).GetZString,
	token.KwByte:     (*types.Factory).GetByte,
	token.KwUByte:    (*types.Factory).GetUByte,
	token.KwShort:    (*types.Factory).GetShort,
	token.KwUShort:   (*types.Factory).GetUShort,
	token.KwInteger:  (*types.Factory).GetInteger,
	token.KwUInteger: (*types.Factory).GetUInteger,
	token.KwLong:     (*types.Factory).GetLong,
	token.KwULong:    (*types.Factory).GetULong,
	token.KwSingle:   (*types.Factory).GetSingle,
	token.KwDouble:   (*types.Factory).GetDouble,
}

// resolveTypeExpr turns a syntactic TypeExpr into its canonical types.Type,
// consulting scope for identifier forms and triggering define(symbol) on a
// forward-declared-but-undefined UDT/alias (spec.md §4.6).
func (a *Analyzer) resolveTypeExpr(te *ast.TypeExpr, scope *symbols.Table) *types.Type {
	if te.Resolved != nil {
		return te.Resolved
	}
	base := a.resolveTypeExprBase(te, scope, te.PtrCount == 0)
	for i := 0; i < te.PtrCount; i++ {
		p, err := a.tf.GetPointer(base)
		if err != nil {
			a.report(te.Range().Start, "%s", err)
			break
		}
		base = p
	}
	if te.IsRef {
		r, err := a.tf.GetReference(base)
		if err != nil {
			a.report(te.Range().Start, "%s", err)
		} else {
			base = r
		}
	}
	te.Resolved = base
	return base
}

// resolveTypeExprBase resolves te's leaf. needComplete is false when the
// reference sits behind at least one PTR level: a pointer only needs the
// pointee's identity, not its full member layout, which is what lets a UDT
// contain a pointer to itself without tripping cycle detection.
func (a *Analyzer) resolveTypeExprBase(te *ast.TypeExpr, scope *symbols.Table, needComplete bool) *types.Type {
	switch te.Form {
	case ast.TypeFormBuiltin:
		if get, ok := builtinTypeGetters[te.Builtin]; ok {
			return get(a.tf)
		}
		a.report(te.Range().Start, "unknown built-in type")
		return a.tf.GetVoid()

	case ast.TypeFormIdent:
		sym, ok := scope.Find(te.Ident, true)
		if !ok {
			a.report(te.Range().Start, "undefined type %q", te.Ident)
			return a.tf.GetVoid()
		}
		if !sym.Is(symbols.TypeName) {
			a.report(te.Range().Start, "%q is not a type", te.Ident)
			return a.tf.GetVoid()
		}
		if sym.Flags&symbols.BeingDefined != 0 {
			// Mid-definition: fine behind a pointer (the UDT's identity
			// already exists), a circular type dependency otherwise.
			if t, ok := sym.Type.(*types.Type); ok && !needComplete {
				return t
			}
			a.report(te.Range().Start, "circular dependency in the definition of %q", te.Ident)
			return a.tf.GetVoid()
		}
		a.defineIfNeeded(sym)
		if t, ok := sym.Type.(*types.Type); ok {
			return t
		}
		return a.tf.GetVoid()

	case ast.TypeFormFuncSig:
		params := make([]*types.Type, len(te.FuncParams))
		for i, p := range te.FuncParams {
			params[i] = a.resolveTypeExpr(p, scope)
		}
		ret := a.tf.GetVoid()
		if te.FuncReturn != nil {
			ret = a.resolveTypeExpr(te.FuncReturn, scope)
		}
		return a.tf.GetFunction(params, ret, te.FuncVariadic)

	case ast.TypeFormTypeOf:
		// spec.md §9 Open Question: TYPEOF parses but sema does not support
		// it yet (no target-dependent type-of-expression model exists).
		a.report(te.Range().Start, "TYPEOF is not supported")
		return a.tf.GetVoid()

	default:
		return a.tf.GetVoid()
	}
}
