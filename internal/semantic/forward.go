package semantic

import (
	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/symbols"
	"github.com/lbc-lang/lbc/internal/types"
)

// declareTopLevel is Pass A (spec.md §4.6), run by analyzeStmtList against
// every StmtList it visits (not only the module's own): it inserts a symbol
// for every FuncDecl, UdtDecl, and TypeAlias in list, flagged Declared but
// not yet Defined, so later siblings in that same list can reference one
// another regardless of textual order. VarDecls are left for Pass B, which
// declares and defines them together (a DIM's type depends on its
// initializer, so there is nothing useful to forward-declare).
func (a *Analyzer) declareTopLevel(list *ast.StmtList, scope *symbols.Table) {
	for _, d := range list.Decls {
		a.forwardDeclare(d, scope)
	}
	for _, d := range list.FuncStmts {
		a.forwardDeclare(d, scope)
	}
}

func (a *Analyzer) forwardDeclare(d ast.Decl, scope *symbols.Table) {
	switch decl := d.(type) {
	case *ast.FuncDecl:
		if existing, exists := scope.Local(decl.Name); exists {
			// A DECLARE prototype and its matching implementation resolve to
			// the same symbol (spec.md §8 end-to-end scenario 3); only a
			// second prototype or a second implementation is a redefinition.
			if prev, ok := existing.Decl.(*ast.FuncDecl); ok && existing.Is(symbols.Function) &&
				!prev.HasImplementation && decl.HasImplementation {
				existing.Decl = decl
				decl.Symbol = existing
				return
			}
			a.report(decl.Range().Start, "redefinition of %q", decl.Name)
			return
		}
		sym := &symbols.Symbol{Name: decl.Name, Flags: symbols.Declared | symbols.Function, Alias: decl.Attributes["ALIAS"], Decl: decl}
		scope.Insert(sym)
		decl.Symbol = sym
	case *ast.UdtDecl:
		if _, exists := scope.Local(decl.Name); exists {
			a.report(decl.Range().Start, "redefinition of %q", decl.Name)
			return
		}
		sym := &symbols.Symbol{Name: decl.Name, Flags: symbols.Declared | symbols.TypeName, Decl: decl}
		scope.Insert(sym)
		decl.Symbol = sym
		sym.Type = a.tf.GetUDT(sym, decl.Symbols, decl.Packed)
	case *ast.TypeAlias:
		if _, exists := scope.Local(decl.Name); exists {
			a.report(decl.Range().Start, "redefinition of %q", decl.Name)
			return
		}
		sym := &symbols.Symbol{Name: decl.Name, Flags: symbols.Declared | symbols.TypeName, Decl: decl}
		scope.Insert(sym)
		decl.Symbol = sym
	}
}

// defineIfNeeded resolves a forward-declared UDT/TypeAlias/FuncDecl the
// first time something references it ahead of its textual definition
// (spec.md §4.6: resolving a TypeExpr identifier "triggers define(symbol) if
// Declared but not Defined"). It is a no-op once the symbol is Defined.
func (a *Analyzer) defineIfNeeded(sym *symbols.Symbol) {
	if sym.Is(symbols.Defined) || sym.Flags&symbols.BeingDefined != 0 {
		return
	}
	sym.Flags = sym.Flags&^symbols.Declared | symbols.BeingDefined
	switch decl := sym.Decl.(type) {
	case *ast.UdtDecl:
		a.defineUdt(decl, sym)
	case *ast.TypeAlias:
		a.defineTypeAlias(decl, sym)
	case *ast.FuncDecl:
		a.defineFuncSignature(decl, sym)
	}
	sym.SetDefined()
}

func (a *Analyzer) defineUdt(decl *ast.UdtDecl, sym *symbols.Symbol) {
	for _, m := range decl.Members {
		member := m.(*ast.VarDecl)
		member.Type.Resolved = a.resolveTypeExpr(member.Type, a.moduleScope)
		msym := &symbols.Symbol{Name: member.Name, Type: member.Type.Resolved, Flags: symbols.Defined | symbols.Variable, Decl: member}
		decl.Symbols.Insert(msym)
		member.Symbol = msym
		sym.Related = append(sym.Related, msym)
	}
}

func (a *Analyzer) defineTypeAlias(decl *ast.TypeAlias, sym *symbols.Symbol) {
	decl.Type.Resolved = a.resolveTypeExpr(decl.Type, a.moduleScope)
	sym.Type = decl.Type.Resolved
}

// defineFuncSignature resolves a FuncDecl's parameter and return types so
// its Function type is available to callers that reference it ahead of its
// own body being visited — the body itself is still analysed in source
// order during Pass B.
func (a *Analyzer) defineFuncSignature(decl *ast.FuncDecl, sym *symbols.Symbol) {
	params := make([]*types.Type, len(decl.Params))
	for i, p := range decl.Params {
		p.Type.Resolved = a.resolveTypeExpr(p.Type, a.moduleScope)
		params[i] = p.Type.Resolved
		psym := &symbols.Symbol{Name: p.Name, Type: p.Type.Resolved, Flags: symbols.Defined | symbols.Variable, Decl: p}
		decl.Symbols.Insert(psym)
		p.Symbol = psym
		sym.Related = append(sym.Related, psym)
	}
	ret := a.tf.GetVoid()
	if decl.ReturnType != nil {
		decl.ReturnType.Resolved = a.resolveTypeExpr(decl.ReturnType, a.moduleScope)
		ret = decl.ReturnType.Resolved
	}
	sym.Type = a.tf.GetFunction(params, ret, decl.Variadic)
}
