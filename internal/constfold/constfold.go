// Package constfold implements the depth-first constant evaluator described
// in spec.md §4.6.2: after sema assigns a canonical type to an expression,
// the folder tries to compute its constantValue over the literal lattice in
// internal/token. Folding never rewrites the tree — it only populates each
// node's ConstantValue annotation — so the same Expr keeps flowing through
// sema, the printer, and (eventually) code-gen regardless of whether it
// folded.
//
// Grounded on the teacher's internal/interp/evaluator visitor family (one
// dispatch function per node kind, scalar Go arithmetic on unwrapped values)
// but over the closed expression enum in internal/ast rather than a type
// switch, per spec.md's "enum match dispatch inside a single visit function"
// guidance, since sema calls the folder once per node, already knowing the
// concrete Kind it just typed.
package constfold

import (
	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/token"
	"github.com/lbc-lang/lbc/internal/types"
)

// Fold attempts to compute e's constant value, given that e.Type() has
// already been assigned by sema. On success it calls e.SetConstantValue and
// returns (value, true); on failure it leaves e untouched and returns
// (zero, false) — a non-constant sub-expression, not an error.
func Fold(e ast.Expr) (token.Literal, bool) {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return foldLiteral(n)
	case *ast.IdentExpr:
		return foldIdent(n)
	case *ast.UnaryExpr:
		return foldUnary(n)
	case *ast.DereferenceExpr, *ast.AddressOfExpr, *ast.CallExpr, *ast.MemberExpr, *ast.SizeofExpr, *ast.AssignExpr:
		return token.Literal{}, false
	case *ast.BinaryExpr:
		return foldBinary(n)
	case *ast.CastExpr:
		return foldCast(n)
	case *ast.IfExpr:
		return foldIf(n)
	default:
		return token.Literal{}, false
	}
}

func foldLiteral(n *ast.LiteralExpr) (token.Literal, bool) {
	n.SetConstantValue(n.Value)
	return n.Value, true
}

// foldIdent propagates a symbol's own folded constant (a CONST's
// initializer) through every reference to that symbol.
func foldIdent(n *ast.IdentExpr) (token.Literal, bool) {
	if n.Symbol == nil {
		return token.Literal{}, false
	}
	lit, ok := n.Symbol.ConstantValue.(token.Literal)
	if !ok {
		return token.Literal{}, false
	}
	n.SetConstantValue(lit)
	return lit, true
}

func foldUnary(n *ast.UnaryExpr) (token.Literal, bool) {
	x, ok := Fold(n.X)
	if !ok {
		return token.Literal{}, false
	}
	var result token.Literal
	switch n.Op {
	case token.Negate:
		switch x.Kind {
		case token.IntValue:
			result = token.Literal{Kind: token.IntValue, Int: wrapInt(-int64(x.Int), n.Type())}
		case token.FloatValue:
			result = token.Literal{Kind: token.FloatValue, Flt: -x.Flt}
		default:
			return token.Literal{}, false
		}
	case token.NotKw:
		if x.Kind != token.BoolValue {
			return token.Literal{}, false
		}
		result = token.Literal{Kind: token.BoolValue, Bool: !x.Bool}
	default:
		return token.Literal{}, false
	}
	n.SetConstantValue(result)
	return result, true
}

func foldBinary(n *ast.BinaryExpr) (token.Literal, bool) {
	lhs, ok := Fold(n.LHS)
	if !ok {
		return token.Literal{}, false
	}
	rhs, ok := Fold(n.RHS)
	if !ok {
		return token.Literal{}, false
	}

	var result token.Literal
	var computed bool
	switch {
	case n.Op == token.AndKw || n.Op == token.OrKw:
		result, computed = foldLogical(n.Op, lhs, rhs)
	case lhs.Kind == token.StringValue && rhs.Kind == token.StringValue:
		result, computed = foldString(n.Op, lhs, rhs)
	case lhs.Kind == token.IntValue && rhs.Kind == token.IntValue:
		result, computed = foldIntegral(n.Op, lhs, rhs, n.Type())
	case lhs.Kind == token.FloatValue || rhs.Kind == token.FloatValue:
		result, computed = foldFloat(n.Op, asFloat(lhs), asFloat(rhs))
	default:
		return token.Literal{}, false
	}
	if !computed {
		return token.Literal{}, false
	}
	n.SetConstantValue(result)
	return result, true
}

func asFloat(l token.Literal) float64 {
	if l.Kind == token.FloatValue {
		return l.Flt
	}
	return float64(int64(l.Int))
}

func foldLogical(op token.Kind, lhs, rhs token.Literal) (token.Literal, bool) {
	if lhs.Kind != token.BoolValue || rhs.Kind != token.BoolValue {
		return token.Literal{}, false
	}
	var v bool
	if op == token.AndKw {
		v = lhs.Bool && rhs.Bool
	} else {
		v = lhs.Bool || rhs.Bool
	}
	return token.Literal{Kind: token.BoolValue, Bool: v}, true
}

func foldString(op token.Kind, lhs, rhs token.Literal) (token.Literal, bool) {
	switch op {
	case token.Plus:
		return token.Literal{Kind: token.StringValue, Str: lhs.Str + rhs.Str}, true
	case token.Equal:
		return token.Literal{Kind: token.BoolValue, Bool: lhs.Str == rhs.Str}, true
	case token.NotEqual:
		return token.Literal{Kind: token.BoolValue, Bool: lhs.Str != rhs.Str}, true
	default:
		return token.Literal{}, false
	}
}

// foldIntegral computes an integral binary op width-preserving: arithmetic
// wraps modulo the result type's bit width, matching runtime semantics
// exactly (spec.md §4.6.2).
func foldIntegral(op token.Kind, lhs, rhs token.Literal, resultType *types.Type) (token.Literal, bool) {
	a, b := int64(lhs.Int), int64(rhs.Int)
	switch op {
	case token.Plus:
		return token.Literal{Kind: token.IntValue, Int: wrapInt(a+b, resultType)}, true
	case token.Minus:
		return token.Literal{Kind: token.IntValue, Int: wrapInt(a-b, resultType)}, true
	case token.Star:
		return token.Literal{Kind: token.IntValue, Int: wrapInt(a*b, resultType)}, true
	case token.Slash:
		if b == 0 {
			return token.Literal{}, false
		}
		return token.Literal{Kind: token.IntValue, Int: wrapInt(a/b, resultType)}, true
	case token.ModKw:
		if b == 0 {
			return token.Literal{}, false
		}
		return token.Literal{Kind: token.IntValue, Int: wrapInt(a%b, resultType)}, true
	case token.Equal:
		return token.Literal{Kind: token.BoolValue, Bool: a == b}, true
	case token.NotEqual:
		return token.Literal{Kind: token.BoolValue, Bool: a != b}, true
	case token.Less:
		return token.Literal{Kind: token.BoolValue, Bool: a < b}, true
	case token.Greater:
		return token.Literal{Kind: token.BoolValue, Bool: a > b}, true
	case token.LessEqual:
		return token.Literal{Kind: token.BoolValue, Bool: a <= b}, true
	case token.GreaterEqual:
		return token.Literal{Kind: token.BoolValue, Bool: a >= b}, true
	default:
		return token.Literal{}, false
	}
}

func foldFloat(op token.Kind, a, b float64) (token.Literal, bool) {
	switch op {
	case token.Plus:
		return token.Literal{Kind: token.FloatValue, Flt: a + b}, true
	case token.Minus:
		return token.Literal{Kind: token.FloatValue, Flt: a - b}, true
	case token.Star:
		return token.Literal{Kind: token.FloatValue, Flt: a * b}, true
	case token.Slash:
		if b == 0 {
			return token.Literal{}, false
		}
		return token.Literal{Kind: token.FloatValue, Flt: a / b}, true
	case token.Equal:
		return token.Literal{Kind: token.BoolValue, Bool: a == b}, true
	case token.NotEqual:
		return token.Literal{Kind: token.BoolValue, Bool: a != b}, true
	case token.Less:
		return token.Literal{Kind: token.BoolValue, Bool: a < b}, true
	case token.Greater:
		return token.Literal{Kind: token.BoolValue, Bool: a > b}, true
	case token.LessEqual:
		return token.Literal{Kind: token.BoolValue, Bool: a <= b}, true
	case token.GreaterEqual:
		return token.Literal{Kind: token.BoolValue, Bool: a >= b}, true
	default:
		return token.Literal{}, false
	}
}

// wrapInt masks v to t's declared width, re-sign-extending for signed
// types, so a folded constant matches what the same arithmetic produces at
// runtime. A nil or non-integral t (the folder running ahead of a type
// that's still unresolved) leaves the canonical 64-bit value untouched.
func wrapInt(v int64, t *types.Type) uint64 {
	if t == nil || !t.IsIntegral() || t.Bytes <= 0 || t.Bytes >= 8 {
		return uint64(v)
	}
	bits := uint(t.Bytes * 8)
	mask := uint64(1)<<bits - 1
	u := uint64(v) & mask
	if t.Signed && u&(uint64(1)<<(bits-1)) != 0 {
		u |= ^mask
	}
	return u
}

// foldCast folds `X AS Type` per spec.md §4.6.2's static conversion grid.
// Strings are never folded through a cast; IS type tests are never constant
// (they depend on a runtime tag the folder has no model of).
func foldCast(n *ast.CastExpr) (token.Literal, bool) {
	if n.IsTest {
		return token.Literal{}, false
	}
	x, ok := Fold(n.X)
	if !ok {
		return token.Literal{}, false
	}
	target := n.Type()
	if target == nil {
		return token.Literal{}, false
	}

	var result token.Literal
	switch {
	case target.IsIntegral() && x.Kind == token.IntValue:
		result = token.Literal{Kind: token.IntValue, Int: wrapInt(int64(x.Int), target)}
	case target.IsIntegral() && x.Kind == token.FloatValue:
		result = token.Literal{Kind: token.IntValue, Int: wrapInt(int64(x.Flt), target)}
	case target.IsIntegral() && x.Kind == token.BoolValue:
		v := uint64(0)
		if x.Bool {
			v = 1
		}
		result = token.Literal{Kind: token.IntValue, Int: wrapInt(int64(v), target)}
	case target.IsFloat() && x.Kind == token.FloatValue:
		result = token.Literal{Kind: token.FloatValue, Flt: roundFloat(x.Flt, target)}
	case target.IsFloat() && x.Kind == token.IntValue:
		result = token.Literal{Kind: token.FloatValue, Flt: roundFloat(float64(int64(x.Int)), target)}
	case target.Kind == types.KindBool && x.Kind == token.IntValue:
		result = token.Literal{Kind: token.BoolValue, Bool: x.Int != 0}
	default:
		return token.Literal{}, false
	}
	n.SetConstantValue(result)
	return result, true
}

// roundFloat narrows to float32 precision and back when the target is the
// single-precision type, so a folded SINGLE matches the runtime rounding.
func roundFloat(v float64, t *types.Type) float64 {
	if t.Bytes == 4 {
		return float64(float32(v))
	}
	return v
}

// foldIf folds the ternary `IF cond THEN a ELSE b` by propagating whichever
// branch the condition selects, once the condition itself folds to a Bool
// (spec.md §4.6.2).
func foldIf(n *ast.IfExpr) (token.Literal, bool) {
	cond, ok := Fold(n.Cond)
	if !ok || cond.Kind != token.BoolValue {
		return token.Literal{}, false
	}
	branch := n.Else
	if cond.Bool {
		branch = n.Then
	}
	v, ok := Fold(branch)
	if !ok {
		return token.Literal{}, false
	}
	n.SetConstantValue(v)
	return v, true
}
