// Expression parsing: the precedence-climbing loop described in spec.md
// §4.3.1. A single climb(lhs, min_prec) absorbs binary and suffix operators
// whose precedence is at least min_prec; prefix operators parse their
// operand by climbing at their own precedence first, so tighter-binding
// postfix forms (member access, call) attach to the operand rather than to
// the prefix expression as a whole.
package parser

import (
	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/token"
)

// argMinPrec is the minimum precedence used when parsing one call argument
// (direct or paren-free): it excludes Comma (rank 1, a bare separator here,
// not the ConditionAnd form) from being absorbed as a binary operator. An `=`
// (Assign, rank 2) is still admitted and climb retags it to Equal, except at
// statement level where stopAtAssign stops before it.
const argMinPrec = 2

// parseExpression parses one expression, absorbing operators of precedence
// >= minPrec, honoring the Parser's current stopAtAssign/callWithoutParens
// context.
func (p *Parser) parseExpression(minPrec int) ast.Expr {
	lhs := p.parsePrefix()
	return p.climb(lhs, minPrec)
}

// parseNested parses a sub-expression that is never itself the top-level
// statement expression: parenthesized groups, call arguments, unary
// operands, cast operands, ternary branches. stopAtAssign/callWithoutParens
// never apply below the first primary of a statement, so both are cleared
// and restored around the descent (spec.md §9's with-scope save/restore
// pattern, the same one used for implicit_type/suggested_type in sema).
func (p *Parser) parseNested(minPrec int) ast.Expr {
	savedAssign, savedCall := p.stopAtAssign, p.callWithoutParens
	p.stopAtAssign, p.callWithoutParens = false, false
	defer func() { p.stopAtAssign, p.callWithoutParens = savedAssign, savedCall }()
	return p.parseExpression(minPrec)
}

// parsePrefix handles the unary/prefix forms, retagging `-` to Negate and
// `*` to Dereference in place before building the node (spec.md §4.3.1).
// Everything else falls through to parsePrimary.
func (p *Parser) parsePrefix() ast.Expr {
	start := p.tok.Pos
	switch p.tok.Kind {
	case token.Minus:
		p.tok.Kind = token.Negate
		return p.finishUnary(token.Negate, start)
	case token.Star:
		p.tok.Kind = token.Dereference
		return p.finishUnary(token.Dereference, start)
	case token.NotKw:
		return p.finishUnary(token.NotKw, start)
	case token.AddressOf:
		return p.finishUnary(token.AddressOf, start)
	default:
		return p.parsePrimary()
	}
}

// finishUnary consumes the (already-retagged) prefix operator token and
// parses its operand by climbing at the operator's own precedence, so
// higher-precedence postfix forms (member access, call, the other unary
// ops) bind to the operand rather than to the unary expression as a whole.
func (p *Parser) finishUnary(op token.Kind, start token.Position) ast.Expr {
	p.advance()
	operand := p.parseNested(op.Precedence())
	rng := p.rangeFrom(start)
	switch op {
	case token.Dereference:
		return p.ctx.NewDereferenceExpr(operand, rng)
	case token.AddressOf:
		return p.ctx.NewAddressOfExpr(operand, rng)
	default:
		return p.ctx.NewUnaryExpr(op, operand, rng)
	}
}

// parsePrimary parses a literal, identifier (with possible paren-free call
// synthesis), parenthesized group, ternary IF expression, or SIZEOF.
func (p *Parser) parsePrimary() ast.Expr {
	start := p.tok.Pos
	switch p.tok.Kind {
	case token.IntegerLiteral, token.FloatLiteral, token.StringLiteral, token.BooleanLiteral, token.NullLiteral:
		v := p.tok.Value
		p.advance()
		return p.ctx.NewLiteralExpr(v, p.rangeFrom(start))
	case token.Identifier:
		name := p.tok.Literal
		p.advance()
		ident := p.ctx.NewIdentExpr(name, p.rangeFrom(start))
		return p.maybeParenFreeCall(ident, start)
	case token.LParen:
		p.advance()
		x := p.parseNested(argMinPrec)
		p.expect(token.RParen)
		return x
	case token.If:
		return p.parseIfExpr(start)
	case token.Sizeof:
		return p.parseSizeofExpr(start)
	default:
		p.unexpectedHere()
		return nil
	}
}

// startsBareCallArg reports whether the current token can begin a
// paren-free call's first argument (spec.md §4.3.1: "the current token is
// not a left-associative binary operator" — in practice, anything that
// would otherwise start a fresh primary rather than extend `ident` as an
// operand).
func (p *Parser) startsBareCallArg() bool {
	switch p.tok.Kind {
	case token.Identifier, token.IntegerLiteral, token.FloatLiteral, token.StringLiteral,
		token.BooleanLiteral, token.NullLiteral, token.Minus, token.NotKw, token.AddressOf,
		token.If, token.Sizeof:
		return true
	default:
		return false
	}
}

// maybeParenFreeCall synthesizes a CallExpr for a bare `SUB name arg, arg`
// invocation: only the outermost identifier of a statement is eligible
// (callWithoutParens is consumed here regardless of whether it fires), a
// literal `(` is left to the ordinary call-suffix handling in climb, and
// anything that doesn't start a fresh operand leaves ident as a plain
// reference.
func (p *Parser) maybeParenFreeCall(ident *ast.IdentExpr, start token.Position) ast.Expr {
	eligible := p.callWithoutParens
	p.callWithoutParens = false
	if !eligible || p.at(token.LParen) || !p.startsBareCallArg() {
		return ident
	}
	var args []ast.Expr
	for {
		args = append(args, p.parseNested(argMinPrec))
		if !p.accept(token.Comma) {
			break
		}
	}
	return p.ctx.NewCallExpr(ident, args, p.rangeFrom(start))
}

// parseIfExpr parses the ternary `IF cond THEN a ELSE b` expression form
// (spec.md §3 IfExpr), distinct from the IfStmt parsed at statement level.
func (p *Parser) parseIfExpr(start token.Position) ast.Expr {
	p.advance() // IF
	cond := p.parseNested(argMinPrec)
	p.expect(token.Then)
	thenExpr := p.parseNested(argMinPrec)
	p.expect(token.Else)
	elseExpr := p.parseNested(argMinPrec)
	return p.ctx.NewIfExpr(cond, thenExpr, elseExpr, p.rangeFrom(start))
}

// parseSizeofExpr parses `SIZEOF(typeExpr)`.
func (p *Parser) parseSizeofExpr(start token.Position) ast.Expr {
	p.advance()
	p.expect(token.LParen)
	te := p.parseTypeExpr()
	p.expect(token.RParen)
	return p.ctx.NewSizeofExpr(te, p.rangeFrom(start))
}

// climb absorbs binary and suffix operators of precedence >= minPrec onto
// lhs, left to right, recursing for each operand at the precedence the
// operator's associativity demands (spec.md §4.3.1: right-associative
// operators recurse with `> min_prec`, i.e. the same rank; left-associative
// ones recurse with `min_prec + 1`).
func (p *Parser) climb(lhs ast.Expr, minPrec int) ast.Expr {
	for {
		switch p.tok.Kind {
		case token.LParen:
			if token.LParen.Precedence() < minPrec {
				return lhs
			}
			lhs = p.finishCall(lhs)
			continue
		case token.Dot, token.MemberAccess, token.PointerAccess:
			if token.Dot.Precedence() < minPrec {
				return lhs
			}
			lhs = p.finishMember(lhs)
			continue
		case token.AsKw, token.IsKw:
			if token.AsKw.Precedence() < minPrec {
				return lhs
			}
			lhs = p.finishCast(lhs, p.tok.Kind == token.IsKw)
			continue
		}

		k := p.tok.Kind
		if k == token.Assign {
			if k.Precedence() < minPrec {
				return lhs
			}
			if p.stopAtAssign {
				return lhs
			}
			// Retag in place: `=` in expression (non-statement) position
			// always means equality (spec.md §4.3.1).
			p.tok.Kind = token.Equal
			k = token.Equal
		}

		if !k.IsBinary() {
			return lhs
		}
		prec := k.Precedence()
		if prec < minPrec {
			return lhs
		}
		start := lhs.Range().Start
		p.advance()
		nextMin := prec + 1
		if k.Associativity() == token.RightAssoc {
			nextMin = prec
		}
		rhs := p.parseNested(nextMin)
		lhs = p.buildBinary(k, lhs, rhs, start)
	}
}

// buildBinary constructs the BinaryExpr for op, rewriting the low-precedence
// ConditionAnd form (a bare Comma inside an IF header) to LogicalAnd at
// construction time (spec.md §4.3.1).
func (p *Parser) buildBinary(op token.Kind, lhs, rhs ast.Expr, start token.Position) ast.Expr {
	if op == token.Comma {
		op = token.AndKw
	}
	return p.ctx.NewBinaryExpr(op, lhs, rhs, p.rangeFrom(start))
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	start := callee.Range().Start
	p.advance() // (
	var args []ast.Expr
	for !p.at(token.RParen) {
		args = append(args, p.parseNested(argMinPrec))
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RParen)
	return p.ctx.NewCallExpr(callee, args, p.rangeFrom(start))
}

func (p *Parser) finishMember(x ast.Expr) ast.Expr {
	start := x.Range().Start
	p.advance() // ./->.
	name := p.expect(token.Identifier).Literal
	return p.ctx.NewMemberExpr(x, name, p.rangeFrom(start))
}

func (p *Parser) finishCast(x ast.Expr, isTest bool) ast.Expr {
	start := x.Range().Start
	p.advance() // AS/IS
	te := p.parseTypeExpr()
	c := p.ctx.NewCastExpr(x, te, false, p.rangeFrom(start))
	c.IsTest = isTest
	return c
}
