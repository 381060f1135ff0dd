package parser

import (
	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/symbols"
	"github.com/lbc-lang/lbc/internal/token"
)

// atStmtEnd reports whether the current token terminates a statement
// without starting a new expression (used to detect a bare RETURN).
func (p *Parser) atStmtEnd() bool {
	return p.at(token.EndOfStmt) || p.at(token.Colon) || p.at(token.EndOfFile)
}

// parseExprStmt parses a statement-position expression: assignment (LHS =
// RHS) or a bare expression, most commonly a paren-free SUB call (spec.md
// §4.3.1: "Assignment is a statement", "Paren-free SUB call").
func (p *Parser) parseExprStmt() *ast.ExprStmt {
	start := p.tok.Pos
	p.stopAtAssign = true
	p.callWithoutParens = true
	lhs := p.parseExpression(argMinPrec)
	p.stopAtAssign = false
	p.callWithoutParens = false

	if p.at(token.Assign) {
		p.advance()
		rhs := p.parseNested(argMinPrec)
		assign := p.ctx.NewAssignExpr(lhs, rhs, p.rangeFrom(start))
		return p.ctx.NewExprStmt(assign, p.rangeFrom(start))
	}
	return p.ctx.NewExprStmt(lhs, p.rangeFrom(start))
}

// parseReturnStmt parses `RETURN [expr]`.
func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.tok.Pos
	p.advance() // RETURN
	var x ast.Expr
	if !p.atStmtEnd() {
		x = p.parseNested(argMinPrec)
	}
	return p.ctx.NewReturnStmt(x, p.rangeFrom(start))
}

// parseContinuationStmt parses `EXIT [FOR|DO]` / `CONTINUE [FOR|DO]`. The
// exact Distance up the control-flow stack is not yet known to the parser —
// it depends on how many loops enclose this statement at the point the
// semantic analyser visits it — so the parser only records the requested
// TargetKind; the analyser resolves Distance via internal/cflow.Stack.Find.
func (p *Parser) parseContinuationStmt(kind ast.ContinuationKind) *ast.ContinuationStmt {
	start := p.tok.Pos
	p.advance() // EXIT or CONTINUE
	stmt := p.ctx.NewContinuationStmt(kind, token.Range{})
	switch p.tok.Kind {
	case token.For:
		stmt.TargetKind = ast.KindForStmt
		p.advance()
	case token.Do:
		stmt.TargetKind = ast.KindDoLoopStmt
		p.advance()
	}
	stmt.SetRange(p.rangeFrom(start))
	return stmt
}

// parseIfStmt parses both the single-line form (`IF cond THEN stmt [ELSE
// stmt]`) and the block form (`IF cond THEN EOS stmts {ELSE IF cond THEN EOS
// stmts} [ELSE EOS stmts] END IF`), per spec.md §4.3/§6. The first block's
// shape (whether anything but a statement separator follows THEN) decides
// which form the rest of the chain must use.
func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.tok.Pos
	p.advance() // IF
	stmt := p.ctx.NewIfStmt(token.Range{})

	first, blockForm := p.parseIfHeaderAndBody(p.curScope())
	stmt.Blocks = append(stmt.Blocks, first)

	// Each subsequent block's scope is parented on the previous block's,
	// which is what makes a block's decls visible to the ELSE IF/ELSE
	// blocks after it (spec.md §4.6) without siblings colliding.
	lastScope := func() *symbols.Table { return stmt.Blocks[len(stmt.Blocks)-1].Symbols }

	if !blockForm {
		if p.at(token.Else) {
			p.advance()
			scope := symbols.NewTable(lastScope())
			elseStart := p.tok.Pos
			list := p.ctx.NewStmtList(token.Range{})
			p.pushScope(scope)
			p.parseOneInto(list)
			p.popScope()
			list.SetRange(p.rangeFrom(elseStart))
			stmt.Blocks = append(stmt.Blocks, ast.IfBlock{Body: list, Symbols: scope})
		}
		stmt.SetRange(p.rangeFrom(start))
		return stmt
	}

	for p.at(token.Else) {
		p.advance() // ELSE
		if p.at(token.If) {
			p.advance() // IF
			blk, _ := p.parseIfHeaderAndBody(lastScope())
			stmt.Blocks = append(stmt.Blocks, blk)
			continue
		}
		p.skipStmtEnds()
		scope := symbols.NewTable(lastScope())
		p.pushScope(scope)
		body := p.parseBlockStmtList(func() bool { return p.at(token.EndKw) })
		p.popScope()
		stmt.Blocks = append(stmt.Blocks, ast.IfBlock{Body: body, Symbols: scope})
		break
	}

	p.expect(token.EndKw)
	p.expect(token.If)
	stmt.SetRange(p.rangeFrom(start))
	return stmt
}

// parseIfHeaderAndBody parses one `cond THEN body` header, returning
// whether the body uses the block form (a statement separator immediately
// follows THEN) or the single-line form (exactly one inline statement).
// The block's own scope is parented on `parent`: the enclosing scope for
// the first block, the previous block's scope for ELSE IF blocks.
func (p *Parser) parseIfHeaderAndBody(parent *symbols.Table) (ast.IfBlock, bool) {
	cond := p.parseNested(0) // precedence 0 admits the ConditionAnd (comma) form
	p.expect(token.Then)
	scope := symbols.NewTable(parent)
	if p.at(token.EndOfStmt) || p.at(token.Colon) {
		p.skipStmtEnds()
		p.pushScope(scope)
		body := p.parseBlockStmtList(func() bool { return p.at(token.EndKw) || p.at(token.Else) })
		p.popScope()
		return ast.IfBlock{Cond: cond, Body: body, Symbols: scope}, true
	}
	list := p.ctx.NewStmtList(token.Range{})
	p.pushScope(scope)
	p.parseOneInto(list)
	p.popScope()
	return ast.IfBlock{Cond: cond, Body: list, Symbols: scope}, false
}

// parseForStmt parses `FOR iterator = from TO to [STEP step] EOS body NEXT
// [name]`, declaring the iterator in the loop's own nested scope.
func (p *Parser) parseForStmt() *ast.ForStmt {
	start := p.tok.Pos
	p.advance() // FOR
	stmt := p.ctx.NewForStmt(p.curScope(), token.Range{})

	nameTok := p.expect(token.Identifier)
	stmt.Iterator = p.ctx.NewIdentExpr(nameTok.Literal, token.Range{Start: nameTok.Pos, End: p.prevEnd})
	iterDecl := p.ctx.NewVarDecl(nameTok.Literal, stmt.Iterator.Range())
	iterDecl.IsLocal = true
	stmt.Decls = append(stmt.Decls, iterDecl)

	p.expect(token.Assign)
	p.pushScope(stmt.Symbols)
	stmt.From = p.parseNested(argMinPrec)
	p.expect(token.To)
	stmt.To = p.parseNested(argMinPrec)
	if p.accept(token.Step) {
		stmt.Step = p.parseNested(argMinPrec)
	}
	p.skipStmtEnds()
	stmt.Body = p.parseBlockStmtList(func() bool { return p.at(token.Next) })
	p.popScope()

	p.expect(token.Next)
	if p.at(token.Identifier) {
		stmt.NextName = p.tok.Literal
		p.advance()
	}
	stmt.SetRange(p.rangeFrom(start))
	return stmt
}

// parseDoLoopStmt parses `DO [WHILE|UNTIL cond] EOS body LOOP [WHILE|UNTIL
// cond]` (spec.md §6). A pre-condition and a post-condition are mutually
// exclusive; if both are written, the post-condition is reported as an
// unexpected repetition.
func (p *Parser) parseDoLoopStmt() *ast.DoLoopStmt {
	start := p.tok.Pos
	p.advance() // DO
	stmt := p.ctx.NewDoLoopStmt(p.curScope(), token.Range{})

	if p.at(token.While) || p.at(token.Until) {
		until := p.at(token.Until)
		p.advance()
		stmt.Cond = p.parseNested(argMinPrec)
		if until {
			stmt.CondKind = ast.LoopPreUntil
		} else {
			stmt.CondKind = ast.LoopPreWhile
		}
	}

	p.skipStmtEnds()
	p.pushScope(stmt.Symbols)
	stmt.Body = p.parseBlockStmtList(func() bool { return p.at(token.Loop) })
	p.popScope()
	p.expect(token.Loop)

	if p.at(token.While) || p.at(token.Until) {
		if stmt.CondKind != ast.LoopNone {
			p.unexpectedHere()
		}
		until := p.at(token.Until)
		p.advance()
		stmt.Cond = p.parseNested(argMinPrec)
		if until {
			stmt.CondKind = ast.LoopPostUntil
		} else {
			stmt.CondKind = ast.LoopPostWhile
		}
	}
	stmt.SetRange(p.rangeFrom(start))
	return stmt
}
