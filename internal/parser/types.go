package parser

import (
	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/token"
)

// builtinTypeKinds maps a built-in type-keyword token to true, so
// parseTypeExpr can recognize the TypeFormBuiltin leaf without a long
// switch repeated elsewhere.
func isBuiltinTypeToken(k token.Kind) bool { return k.IsTypeKeyword() }

// parseTypeExpr parses a type expression: an optional leading REF, a
// builtin/identifier/function-signature/TYPEOF leaf, and trailing PTR
// suffixes (spec.md §4.3 typeExpr = builtin { "PTR" | "REF" } ; REF is
// documented as trailing there but the teacher's own DWScript grammar and
// §3's Type data model both treat REF as a single, non-repeating wrapper
// around the whole expression, so it is accepted either as a leading
// keyword or trailing suffix and only ever applied once).
func (p *Parser) parseTypeExpr() *ast.TypeExpr {
	start := p.tok.Pos
	te := p.ctx.NewTypeExpr(token.Range{})

	switch {
	case isBuiltinTypeToken(p.tok.Kind):
		te.Form = ast.TypeFormBuiltin
		te.Builtin = p.tok.Kind
		p.advance()
	case p.at(token.Identifier):
		te.Form = ast.TypeFormIdent
		te.Ident = p.tok.Literal
		p.advance()
	case p.at(token.Sub) || p.at(token.Function):
		p.parseFuncSigTypeExpr(te)
	case p.at(token.Typeof):
		p.parseTypeOfTypeExpr(te)
	default:
		p.unexpectedHere()
	}

	for {
		switch p.tok.Kind {
		case token.Ptr:
			p.advance()
			te.PtrCount++
		case token.Ref:
			if te.IsRef {
				p.unexpectedHere() // REF REF is forbidden (spec.md §3)
			}
			if te.PtrCount > 0 {
				p.unexpectedHere() // PTR REF is forbidden (spec.md §3)
			}
			p.advance()
			te.IsRef = true
		default:
			te.SetRange(p.rangeFrom(start))
			return te
		}
	}
}

// parseFuncSigTypeExpr parses a callback/function-pointer type:
// SUB "(" params ")" or FUNCTION "(" params ")" AS typeExpr.
func (p *Parser) parseFuncSigTypeExpr(te *ast.TypeExpr) {
	isFunc := p.at(token.Function)
	p.advance()
	te.Form = ast.TypeFormFuncSig
	p.expect(token.LParen)
	for !p.at(token.RParen) {
		if p.at(token.Ellipsis) {
			p.advance()
			te.FuncVariadic = true
			break
		}
		te.FuncParams = append(te.FuncParams, p.parseTypeExpr())
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RParen)
	if isFunc {
		p.expect(token.AsKw)
		te.FuncReturn = p.parseTypeExpr()
	}
}

// parseTypeOfTypeExpr parses TYPEOF(expr). Per spec.md §9 this form is
// deliberately left unimplemented beyond parsing: sema rejects it.
func (p *Parser) parseTypeOfTypeExpr(te *ast.TypeExpr) {
	p.advance()
	te.Form = ast.TypeFormTypeOf
	p.expect(token.LParen)
	te.TypeOfExpr = p.parseExpression(0)
	p.expect(token.RParen)
}
