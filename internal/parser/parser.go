// Package parser implements the hand-written recursive-descent parser
// described in spec.md §4.3: a single token of lookahead refreshed from the
// lexer, declarations/statements/types parsed by straight recursive
// descent, and a precedence-climbing loop (see expr.go) for expressions.
//
// Grounded on the teacher's internal/parser/expressions.go (the
// parseExpression(precedence)/prefixParseFns/infixParseFns loop and
// getPrecedence dispatch) and internal/parser/operators.go (the
// cursor-advance-on-match idiom), adapted to LightBASIC's own grammar —
// assignment-as-statement, paren-free SUB calls, and token retagging have no
// DWScript analogue.
//
// Per spec.md §4.3/§7, this parser does not recover: the first unexpected
// token aborts the whole module parse. That is implemented with an internal
// panic/recover bailout (the same "abort the function, catch at the top"
// shape encoding/json and go/parser use for the identical reason), not with
// exceptions-as-control-flow in the steady-state path — every other parse
// function returns its result by value.
package parser

import (
	"fmt"

	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/lexer"
	"github.com/lbc-lang/lbc/internal/source"
	"github.com/lbc-lang/lbc/internal/symbols"
	"github.com/lbc-lang/lbc/internal/token"
	"github.com/lbc-lang/lbc/internal/types"
)

// Parser holds one module's worth of parse state.
type Parser struct {
	ctx   *ast.Context
	types *types.Factory
	lx    *lexer.Lexer
	eng   *source.Engine

	tok     token.Token
	prevEnd token.Position

	// scopes tracks the lexical scope chain the parser is presently
	// descending through, so declarations are linked to the right parent
	// symbols.Table at construction time (see decl.go's curScope/pushScope).
	scopes []*symbols.Table

	// stopAtAssign and callWithoutParens are saved/restored around the
	// recursive descents that need a different reading of `=`/bare
	// identifiers, the same with-scope pattern spec.md §9 calls for with
	// implicit_type/suggested_type in sema.
	stopAtAssign      bool
	callWithoutParens bool
}

// bailout unwinds the recursive descent back to ParseModule on the first
// hard parse error.
type bailout struct{ err error }

// New creates a Parser reading from lx, allocating nodes in ctx, and
// reporting through eng.
func New(ctx *ast.Context, tf *types.Factory, lx *lexer.Lexer, eng *source.Engine) *Parser {
	p := &Parser{ctx: ctx, types: tf, lx: lx, eng: eng}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.prevEnd = p.tok.End
	p.tok = p.lx.Next()
}

func (p *Parser) at(k token.Kind) bool { return p.tok.Kind == k }

func (p *Parser) accept(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it has kind k, else raises a bailout
// (spec.md §4.3: "unexpected tokens yield a DiagMessage::Unexpected; the
// parser does not recover").
func (p *Parser) expect(k token.Kind) token.Token {
	if !p.at(k) {
		p.unexpected(k)
	}
	t := p.tok
	p.advance()
	return t
}

func (p *Parser) unexpected(want token.Kind) {
	var msg string
	if want == noExpectedKind {
		msg = fmt.Sprintf("unexpected token %s", p.tok.Kind)
	} else {
		msg = fmt.Sprintf("expected %s, got %s", want, p.tok.Kind)
	}
	p.eng.Report(source.Error, p.tok.Pos, "%s", msg)
	panic(bailout{err: fmt.Errorf("%s at %s", msg, p.tok.Pos)})
}

// unexpectedHere reports the current token as simply unexpected, with no
// single token kind that would have been acceptable instead.
func (p *Parser) unexpectedHere() { p.unexpected(noExpectedKind) }

// noExpectedKind is a sentinel never equal to a real token.Kind, passed to
// unexpected when there is no single expected kind to name.
const noExpectedKind token.Kind = -1

func (p *Parser) rangeFrom(start token.Position) token.Range {
	return token.Range{Start: start, End: p.prevEnd}
}

// skipStmtEnds consumes zero or more statement separators — EndOfStmt
// (newline) or Colon (the same-line `:` form) — which carry no meaning of
// their own.
func (p *Parser) skipStmtEnds() {
	for p.at(token.EndOfStmt) || p.at(token.Colon) {
		p.advance()
	}
}

// ParseModule parses one source file to completion, or returns the first
// parse error encountered. fileName is used only for the Module's File
// field; the lexer was already constructed over that file's text.
func (p *Parser) ParseModule(fileName string) (mod *ast.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			if b, ok := r.(bailout); ok {
				err = b.err
				return
			}
			panic(r)
		}
	}()

	start := p.tok.Pos
	mod = p.ctx.NewModule(fileName, token.Range{})
	p.scopes = []*symbols.Table{mod.Symbols}
	mod.Body = p.parseBlockStmtList(func() bool { return p.at(token.EndOfFile) })
	mod.ImplicitMain = moduleHasImplicitMain(mod.Body)
	mod.SetRange(p.rangeFrom(start))

	for _, s := range mod.Body.Stmts {
		if imp, ok := s.(*ast.Import); ok {
			mod.Imports = append(mod.Imports, imp)
		}
	}

	return mod, nil
}

// moduleHasImplicitMain reports whether the module's top level contains any
// executable statement outside of a SUB/FUNCTION body — such a module is an
// implicit-main script (spec.md §3 Module: "implicit-main flag").
func moduleHasImplicitMain(body *ast.StmtList) bool {
	for _, s := range body.Stmts {
		switch s.(type) {
		case *ast.Import, *ast.Extern:
		default:
			return true
		}
	}
	return false
}

// parseBlockStmtList parses statements into a fresh StmtList until `until`
// reports true, categorizing each into Decls/FuncStmts/Stmts per spec.md §3.
// It serves the module top level and every nested block (IF/FOR/DO bodies,
// function bodies) alike.
func (p *Parser) parseBlockStmtList(until func() bool) *ast.StmtList {
	list := p.ctx.NewStmtList(token.Range{})
	p.skipStmtEnds()
	for !until() {
		p.parseOneInto(list)
		p.skipStmtEnds()
	}
	return list
}

func (p *Parser) parseOneInto(list *ast.StmtList) {
	var attrs map[string]string
	if p.at(token.LBracket) {
		attrs = p.parseAttributes()
		p.skipStmtEnds() // attributes may sit on their own line above the decl
		switch p.tok.Kind {
		case token.Dim, token.Const, token.Type, token.Declare, token.Sub, token.Function:
		default:
			// attributes attach to declarations only
			p.unexpectedHere()
		}
	}

	switch p.tok.Kind {
	case token.Dim, token.Const:
		d := p.parseVarDecl()
		d.Attributes = attrs
		list.Decls = append(list.Decls, d)
	case token.Type:
		d := p.parseUdtOrAlias()
		if udt, ok := d.(*ast.UdtDecl); ok {
			if _, packed := attrs["PACKED"]; packed {
				udt.Packed = true
			}
		}
		list.Decls = append(list.Decls, d)
	case token.Declare, token.Sub, token.Function:
		d := p.parseFuncDecl()
		d.Attributes = attrs
		if d.HasImplementation {
			list.FuncStmts = append(list.FuncStmts, d)
		} else {
			list.Decls = append(list.Decls, d)
		}
	case token.Import:
		list.Stmts = append(list.Stmts, p.parseImport())
	case token.Extern:
		list.Stmts = append(list.Stmts, p.parseExtern())
	case token.If:
		list.Stmts = append(list.Stmts, p.parseIfStmt())
	case token.For:
		list.Stmts = append(list.Stmts, p.parseForStmt())
	case token.Do:
		list.Stmts = append(list.Stmts, p.parseDoLoopStmt())
	case token.Return:
		list.Stmts = append(list.Stmts, p.parseReturnStmt())
	case token.Exit:
		list.Stmts = append(list.Stmts, p.parseContinuationStmt(ast.ContinuationExit))
	case token.Continue:
		list.Stmts = append(list.Stmts, p.parseContinuationStmt(ast.ContinuationContinue))
	default:
		list.Stmts = append(list.Stmts, p.parseExprStmt())
	}
}
