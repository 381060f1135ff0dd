// Expression analysis: the bidirectional typing pass described in spec.md
// §4.6.1. analyzeExpr is the single entry point every caller (VarDecl
// initializers, call arguments, return values, operands) goes through; it
// types the node, folds it (internal/constfold), and — if the caller
// supplied an implicit_type — inserts an implicit CastExpr when the result
// is merely Convertible, or reports a diagnostic when it is Incompatible.
// The per-kind logic in analyzeExprNoCoerce only needs to worry about
// propagating implicit_type into children that actually consult it
// (literals, binary siblings, call arguments, return/assign operands); the
// wrapper handles reconciling the node's own result uniformly.
package semantic

import (
	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/constfold"
	"github.com/lbc-lang/lbc/internal/symbols"
	"github.com/lbc-lang/lbc/internal/token"
	"github.com/lbc-lang/lbc/internal/types"
)

func (a *Analyzer) analyzeExpr(e ast.Expr, scope *symbols.Table, implicitType *types.Type) ast.Expr {
	result := a.analyzeExprNoCoerce(e, scope, implicitType)
	return a.coerce(result, implicitType)
}

// coerce reconciles e's computed type against target: a no-op if they
// already match, an implicit CastExpr if Convertible, or a diagnostic if
// Incompatible.
func (a *Analyzer) coerce(e ast.Expr, target *types.Type) ast.Expr {
	if target == nil || e.Type() == nil {
		return e
	}
	et := e.Type()
	if et == target {
		return e
	}
	cmp := a.tf.Compare(target, et)
	switch cmp.Result {
	case types.Identical:
		return e
	case types.Convertible:
		c := a.ctx.NewCastExpr(e, nil, true, e.Range())
		c.SetType(target)
		constfold.Fold(c)
		return c
	default:
		a.report(e.Range().Start, "cannot convert %s to %s", et.String(), target.String())
		return e
	}
}

func (a *Analyzer) analyzeExprNoCoerce(e ast.Expr, scope *symbols.Table, implicitType *types.Type) ast.Expr {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		a.analyzeLiteral(n, implicitType)
	case *ast.IdentExpr:
		a.analyzeIdent(n, scope)
	case *ast.CallExpr:
		a.analyzeCall(n, scope)
	case *ast.MemberExpr:
		a.analyzeMember(n, scope)
	case *ast.AssignExpr:
		a.analyzeAssign(n, scope)
	case *ast.UnaryExpr:
		a.analyzeUnary(n, scope)
	case *ast.BinaryExpr:
		a.analyzeBinary(n, scope)
	case *ast.CastExpr:
		a.analyzeCast(n, scope)
	case *ast.DereferenceExpr:
		a.analyzeDereference(n, scope)
	case *ast.AddressOfExpr:
		a.analyzeAddressOf(n, scope)
	case *ast.IfExpr:
		a.analyzeIfExpr(n, scope, implicitType)
	case *ast.SizeofExpr:
		a.analyzeSizeof(n, scope)
	}
	constfold.Fold(e)
	return e
}

func (a *Analyzer) analyzeLiteral(n *ast.LiteralExpr, implicitType *types.Type) {
	switch n.Value.Kind {
	case token.IntValue:
		if implicitType != nil && implicitType.IsIntegral() {
			n.SetType(implicitType)
		} else {
			n.SetType(a.tf.GetInteger())
		}
	case token.FloatValue:
		if implicitType != nil && implicitType.IsFloat() {
			n.SetType(implicitType)
		} else {
			n.SetType(a.tf.GetDouble())
		}
	case token.BoolValue:
		n.SetType(a.tf.GetBool())
	case token.StringValue:
		n.SetType(a.tf.GetZString())
	default: // NoValue: the NULL literal
		if implicitType != nil && implicitType.IsPointer() {
			n.SetType(implicitType)
		} else {
			n.SetType(a.tf.GetNull())
		}
	}
}

func (a *Analyzer) analyzeIdent(n *ast.IdentExpr, scope *symbols.Table) {
	sym, ok := scope.Find(n.Name, true)
	if !ok {
		a.report(n.Range().Start, "undefined identifier %q", n.Name)
		n.SetType(a.tf.GetVoid())
		return
	}
	a.defineIfNeeded(sym)
	if !sym.Is(symbols.Defined) {
		a.report(n.Range().Start, "%q used before being defined", n.Name)
	}
	n.Symbol = sym
	switch {
	case sym.Is(symbols.Function):
		n.SetFlags(ast.FlagIsFunction)
	case sym.Is(symbols.TypeName):
		n.SetFlags(ast.FlagIsType)
	default:
		flags := ast.FlagIsVariable
		if !sym.Is(symbols.Constant) {
			flags |= ast.FlagAssignable
		}
		n.SetFlags(flags)
	}
	if t, ok := sym.Type.(*types.Type); ok {
		n.SetType(t)
	} else {
		n.SetType(a.tf.GetVoid())
	}
}

func (a *Analyzer) analyzeCall(n *ast.CallExpr, scope *symbols.Table) {
	n.Callee = a.analyzeExpr(n.Callee, scope, nil)
	calleeType := n.Callee.Type()
	if calleeType == nil || calleeType.Kind != types.KindFunction {
		a.report(n.Range().Start, "callee is not callable")
		n.SetType(a.tf.GetVoid())
		for i, arg := range n.Args {
			n.Args[i] = a.analyzeExpr(arg, scope, nil)
		}
		return
	}
	params := calleeType.Params
	minArgs := len(params)
	if len(n.Args) < minArgs || (!calleeType.Variadic && len(n.Args) > minArgs) {
		a.report(n.Range().Start, "wrong number of arguments: got %d, want %d", len(n.Args), minArgs)
	}
	for i, arg := range n.Args {
		var want *types.Type
		if i < len(params) {
			want = params[i]
		}
		n.Args[i] = a.analyzeExpr(arg, scope, want)
	}
	n.SetType(calleeType.Return)
}

func (a *Analyzer) analyzeMember(n *ast.MemberExpr, scope *symbols.Table) {
	n.X = a.analyzeExpr(n.X, scope, nil)
	baseType := n.X.Type()
	if baseType != nil && baseType.IsPointer() {
		baseType = baseType.Base
	}
	if baseType == nil || !baseType.IsUDT() {
		a.report(n.Range().Start, "member access on a non-record value")
		n.SetType(a.tf.GetVoid())
		return
	}
	sym, ok := baseType.Scope.Local(n.Name)
	if !ok {
		a.report(n.Range().Start, "%s has no member %q", baseType.Name, n.Name)
		n.SetType(a.tf.GetVoid())
		return
	}
	n.Symbol = sym
	n.SetFlags(ast.FlagIsVariable | ast.FlagAssignable)
	if t, ok := sym.Type.(*types.Type); ok {
		n.SetType(t)
	}
}

func (a *Analyzer) analyzeAssign(n *ast.AssignExpr, scope *symbols.Table) {
	n.LHS = a.analyzeExpr(n.LHS, scope, nil)
	if n.LHS.Flags()&ast.FlagAssignable == 0 {
		a.report(n.LHS.Range().Start, "left-hand side is not assignable")
	}
	n.RHS = a.analyzeExpr(n.RHS, scope, n.LHS.Type())
	n.SetType(n.LHS.Type())
}

func (a *Analyzer) analyzeUnary(n *ast.UnaryExpr, scope *symbols.Table) {
	n.X = a.analyzeExpr(n.X, scope, nil)
	t := n.X.Type()
	switch n.Op {
	case token.Negate:
		if t == nil || !(t.IsFloat() || (t.IsIntegral() && t.Signed)) {
			a.report(n.Range().Start, "unary - requires a signed numeric operand")
			n.SetType(a.tf.GetInteger())
			return
		}
		n.SetType(t)
	case token.NotKw:
		if t == nil || t.Kind != types.KindBool {
			a.report(n.Range().Start, "NOT requires a BOOLEAN operand")
			n.SetType(a.tf.GetBool())
			return
		}
		n.SetType(t)
	default:
		n.SetType(t)
	}
}

func (a *Analyzer) analyzeBinary(n *ast.BinaryExpr, scope *symbols.Table) {
	_, lhsLit := n.LHS.(*ast.LiteralExpr)
	_, rhsLit := n.RHS.(*ast.LiteralExpr)

	switch {
	case lhsLit && !rhsLit:
		n.RHS = a.analyzeExpr(n.RHS, scope, nil)
		n.LHS = a.analyzeExpr(n.LHS, scope, n.RHS.Type())
	case rhsLit && !lhsLit:
		n.LHS = a.analyzeExpr(n.LHS, scope, nil)
		n.RHS = a.analyzeExpr(n.RHS, scope, n.LHS.Type())
	default:
		n.LHS = a.analyzeExpr(n.LHS, scope, nil)
		n.RHS = a.analyzeExpr(n.RHS, scope, nil)
	}

	common := a.tf.Common(n.LHS.Type(), n.RHS.Type())
	if common == nil {
		a.report(n.Range().Start, "incompatible operand types %s and %s", n.LHS.Type().String(), n.RHS.Type().String())
		n.SetType(a.tf.GetVoid())
		return
	}

	switch n.Op.Category() {
	case token.CategoryLogical:
		if common.Kind != types.KindBool {
			a.report(n.Range().Start, "logical operator requires BOOLEAN operands")
		}
	case token.CategoryArithmetic:
		if n.Op == token.ModKw && !common.IsIntegral() {
			a.report(n.Range().Start, "MOD requires integral operands")
		} else if n.Op == token.Plus && common.Kind == types.KindZString {
			// string concatenation
		} else if !common.IsNumeric() {
			a.report(n.Range().Start, "arithmetic operator requires numeric operands")
		}
	case token.CategoryComparison:
		if !common.IsNumeric() && common.Kind != types.KindBool && !common.IsPointer() {
			a.report(n.Range().Start, "comparison requires numeric, BOOLEAN, or pointer operands")
		}
	}

	n.LHS = a.coerce(n.LHS, common)
	n.RHS = a.coerce(n.RHS, common)

	switch n.Op.Category() {
	case token.CategoryComparison, token.CategoryLogical:
		n.SetType(a.tf.GetBool())
	default:
		n.SetType(common)
	}
}

func (a *Analyzer) analyzeCast(n *ast.CastExpr, scope *symbols.Table) {
	if n.Implicit && n.Target == nil {
		// synthesized by coerce, which already typed it against implicit_type
		return
	}
	n.X = a.analyzeExpr(n.X, scope, nil)
	target := a.resolveTypeExpr(n.Target, scope)
	if n.IsTest {
		n.SetType(a.tf.GetBool())
		return
	}
	if src := n.X.Type(); src != nil && !a.tf.Castable(target, src) {
		a.report(n.Range().Start, "cannot cast %s to %s", src.String(), target.String())
	}
	n.SetType(target)
}

func (a *Analyzer) analyzeDereference(n *ast.DereferenceExpr, scope *symbols.Table) {
	n.X = a.analyzeExpr(n.X, scope, nil)
	t := n.X.Type()
	if t == nil || !t.IsPointer() {
		a.report(n.Range().Start, "dereference requires a pointer operand")
		n.SetType(a.tf.GetVoid())
		return
	}
	n.SetType(t.Base)
	n.SetFlags(ast.FlagIsVariable | ast.FlagAssignable)
}

func (a *Analyzer) analyzeAddressOf(n *ast.AddressOfExpr, scope *symbols.Table) {
	n.X = a.analyzeExpr(n.X, scope, nil)
	if n.X.Flags()&ast.FlagAssignable == 0 {
		a.report(n.Range().Start, "@ requires an addressable operand")
	}
	t := n.X.Type()
	if t == nil {
		t = a.tf.GetVoid()
	}
	p, err := a.tf.GetPointer(t)
	if err != nil {
		a.report(n.Range().Start, "%s", err)
		n.SetType(a.tf.GetAnyPtr())
		return
	}
	n.SetType(p)
}

func (a *Analyzer) analyzeIfExpr(n *ast.IfExpr, scope *symbols.Table, implicitType *types.Type) {
	n.Cond = a.analyzeExpr(n.Cond, scope, a.tf.GetBool())
	n.Then = a.analyzeExpr(n.Then, scope, implicitType)
	n.Else = a.analyzeExpr(n.Else, scope, implicitType)
	common := a.tf.Common(n.Then.Type(), n.Else.Type())
	if common == nil {
		a.report(n.Range().Start, "IF expression branches have incompatible types")
		n.SetType(n.Then.Type())
		return
	}
	n.Then = a.coerce(n.Then, common)
	n.Else = a.coerce(n.Else, common)
	n.SetType(common)
}

func (a *Analyzer) analyzeSizeof(n *ast.SizeofExpr, scope *symbols.Table) {
	a.resolveTypeExpr(n.Target, scope)
	n.SetType(a.tf.GetInteger())
}
