package parser

import (
	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/symbols"
	"github.com/lbc-lang/lbc/internal/token"
)

// curScope returns the innermost lexical scope the parser is presently
// inside. Scope tables are allocated eagerly as the parser descends into a
// FUNCTION/SUB body, UDT member list, or FOR/DO loop body, so that the AST
// already carries the correct parent chain by the time the analyser walks
// it (spec.md §4.5: symbol tables mirror lexical nesting).
func (p *Parser) curScope() *symbols.Table { return p.scopes[len(p.scopes)-1] }

func (p *Parser) pushScope(t *symbols.Table) { p.scopes = append(p.scopes, t) }

func (p *Parser) popScope() { p.scopes = p.scopes[:len(p.scopes)-1] }

// inNestedScope reports whether the parser is presently below module scope,
// used to set VarDecl.IsLocal.
func (p *Parser) inNestedScope() bool { return len(p.scopes) > 1 }

// parseAttributes parses a `[key = "value", key2, ...]` annotation list
// (spec.md §6). Keys are identifiers (already case-folded by the lexer);
// values are string literals. A bare key (no `=`) records an empty value,
// which is how PACKED is written. Unknown keys are accepted silently — the
// analyser only acts on the ones it recognizes.
func (p *Parser) parseAttributes() map[string]string {
	attrs := make(map[string]string)
	p.expect(token.LBracket)
	for !p.at(token.RBracket) {
		key := p.expect(token.Identifier).Literal
		value := ""
		if p.accept(token.Assign) {
			value = p.expect(token.StringLiteral).Value.Str
		}
		attrs[key] = value
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RBracket)
	return attrs
}

// parseVarDecl parses `DIM id (AS typeExpr [= expr] | = expr)` or the CONST
// equivalent (spec.md §4.3 varDecl).
func (p *Parser) parseVarDecl() *ast.VarDecl {
	start := p.tok.Pos
	isConst := p.at(token.Const)
	p.advance() // DIM or CONST
	nameTok := p.expect(token.Identifier)
	decl := p.ctx.NewVarDecl(nameTok.Literal, token.Range{})
	decl.IsConst = isConst
	decl.IsLocal = p.inNestedScope()

	if p.accept(token.AsKw) {
		decl.Type = p.parseTypeExpr()
		if p.accept(token.Assign) {
			decl.Init = p.parseNested(argMinPrec)
		}
	} else {
		p.expect(token.Assign)
		decl.Init = p.parseNested(argMinPrec)
	}
	decl.SetRange(p.rangeFrom(start))
	return decl
}

// parseUdtOrAlias parses `TYPE id AS typeExpr` (a TypeAlias) or `TYPE id EOS
// { member EOS } END TYPE` (a UdtDecl), per spec.md §4.3 declaration forms.
func (p *Parser) parseUdtOrAlias() ast.Decl {
	start := p.tok.Pos
	p.advance() // TYPE
	nameTok := p.expect(token.Identifier)

	if p.accept(token.AsKw) {
		alias := p.ctx.NewTypeAlias(nameTok.Literal, token.Range{})
		alias.Type = p.parseTypeExpr()
		alias.SetRange(p.rangeFrom(start))
		return alias
	}

	udt := p.ctx.NewUdtDecl(nameTok.Literal, p.curScope(), token.Range{})
	p.pushScope(udt.Symbols)
	p.skipStmtEnds()
	for !p.at(token.EndKw) {
		udt.Members = append(udt.Members, p.parseUdtMember())
		p.skipStmtEnds()
	}
	p.popScope()
	p.expect(token.EndKw)
	p.expect(token.Type)
	udt.SetRange(p.rangeFrom(start))
	return udt
}

// parseUdtMember parses one `name AS typeExpr` field of a UDT body — unlike
// a top-level VarDecl, members carry no DIM keyword and no initializer.
func (p *Parser) parseUdtMember() *ast.VarDecl {
	start := p.tok.Pos
	nameTok := p.expect(token.Identifier)
	v := p.ctx.NewVarDecl(nameTok.Literal, token.Range{})
	p.expect(token.AsKw)
	v.Type = p.parseTypeExpr()
	v.SetRange(p.rangeFrom(start))
	return v
}

// parseFuncDecl parses `[DECLARE] (SUB|FUNCTION) id "(" [params] ")" [AS
// typeExpr]`, either as a prototype (DECLARE form, no body) or a full
// definition (body + END SUB/FUNCTION), per spec.md §4.3 funcDecl.
func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	start := p.tok.Pos
	declareKw := p.accept(token.Declare)
	isFunc := p.at(token.Function)
	if !isFunc {
		p.expect(token.Sub)
	} else {
		p.advance()
	}
	nameTok := p.expect(token.Identifier)
	fd := p.ctx.NewFuncDecl(nameTok.Literal, p.curScope(), token.Range{})

	p.expect(token.LParen)
	for !p.at(token.RParen) {
		if p.at(token.Ellipsis) {
			p.advance()
			fd.Variadic = true
			break
		}
		fd.Params = append(fd.Params, p.parseFuncParam())
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RParen)

	if isFunc {
		p.expect(token.AsKw)
		fd.ReturnType = p.parseTypeExpr()
	}

	if declareKw {
		fd.HasImplementation = false
		fd.SetRange(p.rangeFrom(start))
		return fd
	}

	fd.HasImplementation = true
	p.pushScope(fd.Symbols)
	fd.Body = p.parseBlockStmtList(func() bool { return p.at(token.EndKw) })
	p.popScope()
	p.expect(token.EndKw)
	if isFunc {
		p.expect(token.Function)
	} else {
		p.expect(token.Sub)
	}
	fd.SetRange(p.rangeFrom(start))
	return fd
}

func (p *Parser) parseFuncParam() *ast.FuncParamDecl {
	start := p.tok.Pos
	nameTok := p.expect(token.Identifier)
	param := p.ctx.NewFuncParamDecl(nameTok.Literal, token.Range{})
	p.expect(token.AsKw)
	param.Type = p.parseTypeExpr()
	param.SetRange(p.rangeFrom(start))
	return param
}

// parseImport parses `IMPORT path`, where path is a bare identifier or a
// quoted module name.
func (p *Parser) parseImport() *ast.Import {
	start := p.tok.Pos
	p.advance() // IMPORT
	var path string
	if p.at(token.StringLiteral) {
		path = p.tok.Value.Str
		p.advance()
	} else {
		path = p.expect(token.Identifier).Literal
	}
	return p.ctx.NewImport(path, p.rangeFrom(start))
}

// parseExtern parses `EXTERN ["callconv"] EOS { DIM id AS typeExpr | funcDecl
// } END EXTERN` (spec.md §6): a block of foreign declarations sharing one
// calling convention.
func (p *Parser) parseExtern() *ast.Extern {
	start := p.tok.Pos
	p.advance() // EXTERN
	callConv := ""
	if p.at(token.StringLiteral) {
		callConv = p.tok.Value.Str
		p.advance()
	}
	ext := p.ctx.NewExtern(callConv, token.Range{})
	p.skipStmtEnds()
	for !p.at(token.EndKw) {
		var attrs map[string]string
		if p.at(token.LBracket) {
			attrs = p.parseAttributes()
			p.skipStmtEnds()
		}
		switch p.tok.Kind {
		case token.Dim:
			v := p.parseExternVarDecl()
			v.Attributes = attrs
			v.CallConv = callConv
			ext.Decls = append(ext.Decls, v)
		case token.Declare, token.Sub, token.Function:
			d := p.parseFuncDecl()
			d.Attributes = attrs
			d.CallConv = callConv
			ext.Decls = append(ext.Decls, d)
		default:
			p.unexpectedHere()
		}
		p.skipStmtEnds()
	}
	p.expect(token.EndKw)
	p.expect(token.Extern)
	ext.SetRange(p.rangeFrom(start))
	return ext
}

func (p *Parser) parseExternVarDecl() *ast.VarDecl {
	start := p.tok.Pos
	p.advance() // DIM
	nameTok := p.expect(token.Identifier)
	v := p.ctx.NewVarDecl(nameTok.Literal, token.Range{})
	v.IsExtern = true
	p.expect(token.AsKw)
	v.Type = p.parseTypeExpr()
	v.SetRange(p.rangeFrom(start))
	return v
}
