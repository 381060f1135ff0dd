// Package lexer implements the LightBASIC scanner: a byte/rune cursor that
// turns source text into a stream of internal/token.Token values.
//
// # Unicode and column positions
//
// Column positions are rune counts from the start of the line, not byte
// offsets or display widths, matching the teacher lexer's convention:
// multi-byte UTF-8 sequences (Δ, 中, emoji) each count as one column. This
// keeps position tracking simple and reproducible at a small cost in
// terminal-alignment fidelity for wide characters.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lbc-lang/lbc/internal/source"
	"github.com/lbc-lang/lbc/internal/token"
)

// foldCaser performs locale-independent uppercasing for keyword/identifier
// folding (spec.md §4.1: "keyword folding (case-insensitive)"). Using
// x/text/cases instead of strings.ToUpper makes the fold correct for
// identifiers containing non-ASCII letters, which the teacher's own
// dependency graph already reaches for when it needs locale-aware string
// casing (internal/interp/builtins_strings_compare.go).
var foldCaser = cases.Upper(language.Und)

// Lexer is a single-pass scanner with one token of lookahead: Next() advances and
// returns a token; Peek() returns the same token again without consuming it.
type Lexer struct {
	buf  *source.Buffer
	engine *source.Engine

	input        string
	position     int // byte offset of ch
	readPosition int // byte offset of the next rune
	line         int
	column       int
	ch           rune

	hasStatement bool // true once a productive token has been seen since the last EndOfStmt

	peeked    *token.Token
	fileName  string
}

// New creates a Lexer over text, registered under fileName in mgr (for
// later diagnostic source-line lookups), reporting through eng.
func New(fileName, text string, mgr *source.Manager, eng *source.Engine) *Lexer {
	if len(text) >= 3 && text[0] == 0xEF && text[1] == 0xBB && text[2] == 0xBF {
		text = text[3:] // strip UTF-8 BOM
	}
	var buf *source.Buffer
	if mgr != nil {
		buf = mgr.Add(fileName, text)
	}
	l := &Lexer{
		buf:      buf,
		engine:   eng,
		input:    text,
		line:     1,
		fileName: fileName,
	}
	l.readChar()
	return l
}

// readChar advances the cursor by one rune, maintaining line/column as it
// goes. A newline bumps the line counter and resets the column so the next
// rune read is column 1 — '\r\n' counts as a single line break (the '\r'
// defers to the '\n' that follows it), matching the three newline forms
// spec.md §4.1 lists ("\n, \r, \r\n").
func (l *Lexer) readChar() {
	switch l.ch {
	case '\n':
		l.line++
		l.column = 0
	case '\r':
		if l.peekChar() != '\n' {
			l.line++
			l.column = 0
		}
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.column++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{File: l.fileName, Line: l.line, Column: l.column, Offset: l.position}
}

func (l *Lexer) errorf(pos token.Position, format string, args ...any) {
	if l.engine != nil {
		l.engine.Report(source.Error, pos, format, args...)
	}
}

// Peek returns the next token without consuming it; a subsequent Next()
// returns the identical token (spec.md §8: "peek() followed by next() returns
// the same token kind (and value)").
func (l *Lexer) Peek() token.Token {
	if l.peeked == nil {
		t := l.scan()
		l.peeked = &t
	}
	return *l.peeked
}

// Next returns and consumes the next token.
func (l *Lexer) Next() token.Token {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t
	}
	return l.scan()
}

func (l *Lexer) newToken(kind token.Kind, start token.Position, literal string) token.Token {
	return token.Token{Kind: kind, Literal: literal, Pos: start, End: l.currentPos()}
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }

// scan performs the actual scan; Next/Peek wrap it with one-token lookahead.
func (l *Lexer) scan() token.Token {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t':
			l.readChar()
			continue
		case l.ch == '\r':
			l.readChar()
			if l.ch == '\n' {
				l.readChar()
			}
			return l.emitEndOfStmt()
		case l.ch == '\n':
			l.readChar()
			return l.emitEndOfStmt()
		case l.ch == '\'':
			l.skipLineComment()
			continue
		case l.ch == '/' && l.peekChar() == '\'':
			if !l.skipBlockComment() {
				return l.newToken(token.EndOfFile, l.currentPos(), "")
			}
			continue
		case l.ch == '_' && !isIdentPart(l.peekChar()):
			// line continuation: consume the newline that follows silently
			l.readChar()
			l.skipLineContinuationNewline()
			continue
		}
		break
	}

	start := l.currentPos()

	if l.ch == 0 {
		return l.emitEndOfStmtOrEOF(start)
	}

	switch {
	case isIdentStart(l.ch):
		return l.scanIdentifier(start)
	case unicode.IsDigit(l.ch), l.ch == '.' && unicode.IsDigit(l.peekChar()):
		return l.scanNumber(start)
	case l.ch == '"':
		return l.scanString(start)
	}

	return l.scanOperator(start)
}

// emitEndOfStmt applies the has_statement gate from spec.md §4.1: a newline
// emits EndOfStmt only if a productive token has been seen since the last
// one, and clears the flag either way.
func (l *Lexer) emitEndOfStmt() token.Token {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
	if l.ch == '\n' || l.ch == '\r' || (l.ch == '\'' ) {
		// collapse consecutive blank/comment lines into one EndOfStmt
		return l.scan()
	}
	if !l.hasStatement {
		return l.scan()
	}
	l.hasStatement = false
	pos := l.currentPos()
	return l.newToken(token.EndOfStmt, pos, "")
}

func (l *Lexer) emitEndOfStmtOrEOF(start token.Position) token.Token {
	if l.hasStatement {
		l.hasStatement = false
		return l.newToken(token.EndOfStmt, start, "")
	}
	return l.newToken(token.EndOfFile, start, "")
}

func (l *Lexer) skipLineContinuationNewline() {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
	if l.ch == '\r' {
		l.readChar()
	}
	if l.ch == '\n' {
		l.readChar()
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// skipBlockComment consumes a nested /' ... '/ comment. Returns false if EOF
// was hit before the comment closed (spec.md §4.1: "unclosed comment is
// silently terminated by EOF").
func (l *Lexer) skipBlockComment() bool {
	depth := 0
	for {
		if l.ch == 0 {
			return false
		}
		if l.ch == '/' && l.peekChar() == '\'' {
			depth++
			l.readChar()
			l.readChar()
			continue
		}
		if l.ch == '\'' && l.peekChar() == '/' {
			depth--
			l.readChar()
			l.readChar()
			if depth == 0 {
				return true
			}
			continue
		}
		l.readChar()
	}
}

func (l *Lexer) scanIdentifier(start token.Position) token.Token {
	startOffset := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	raw := l.input[startOffset:l.position]
	upper := foldCaser.String(raw)

	l.hasStatement = true

	if kind, ok := token.LookupKeyword(upper); ok {
		// TRUE/FALSE/NULL are keywords in the table but resolve to literal
		// tokens with an attached payload (spec.md §4.1).
		switch kind {
		case token.True, token.False:
			tok := l.newToken(token.BooleanLiteral, start, upper)
			tok.Value = token.Literal{Kind: token.BoolValue, Bool: kind == token.True}
			return tok
		case token.Null:
			tok := l.newToken(token.NullLiteral, start, upper)
			tok.Value = token.Literal{Kind: token.NoValue}
			return tok
		}
		return l.newToken(kind, start, upper)
	}
	return l.newToken(token.Identifier, start, upper)
}

func (l *Lexer) scanNumber(start token.Position) token.Token {
	startOffset := l.position
	isFloat := false
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}
	lit := l.input[startOffset:l.position]

	l.hasStatement = true

	if isIdentStart(l.ch) {
		// trailing alpha after digits: consume it so we don't loop forever,
		// but flag it as invalid per spec.md §4.1.
		badStart := l.position
		for isIdentPart(l.ch) {
			l.readChar()
		}
		l.errorf(start, "invalid number literal %q", l.input[startOffset:l.position])
		_ = badStart
		return l.newToken(token.Invalid, start, l.input[startOffset:l.position])
	}

	if isFloat {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			l.errorf(start, "invalid float literal %q", lit)
			return l.newToken(token.Invalid, start, lit)
		}
		tok := l.newToken(token.FloatLiteral, start, lit)
		tok.Value = token.Literal{Kind: token.FloatValue, Flt: f}
		return tok
	}

	v, err := strconv.ParseUint(lit, 10, 64)
	if err != nil {
		l.errorf(start, "invalid integer literal %q", lit)
		return l.newToken(token.Invalid, start, lit)
	}
	tok := l.newToken(token.IntegerLiteral, start, lit)
	tok.Value = token.Literal{Kind: token.IntValue, Int: v}
	return tok
}

func (l *Lexer) scanString(start token.Position) token.Token {
	l.readChar() // consume opening quote
	var sb strings.Builder
	closed := false
	for {
		if l.ch == 0 || l.ch == '\n' {
			break
		}
		if l.ch == '"' {
			l.readChar()
			closed = true
			break
		}
		if l.ch == '\\' {
			l.readChar()
			esc, ok := unescape(l.ch)
			if !ok {
				l.errorf(l.currentPos(), "invalid escape sequence '\\%c'", l.ch)
			} else {
				sb.WriteRune(esc)
			}
			l.readChar()
			continue
		}
		if l.ch < 0x20 {
			l.errorf(l.currentPos(), "unescaped control character in string literal")
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}

	l.hasStatement = true

	if !closed {
		l.errorf(start, "unterminated string literal")
		return l.newToken(token.Invalid, start, sb.String())
	}
	tok := l.newToken(token.StringLiteral, start, sb.String())
	tok.Value = token.Literal{Kind: token.StringValue, Str: sb.String()}
	return tok
}

func unescape(r rune) (rune, bool) {
	switch r {
	case 'a':
		return '\a', true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case 'v':
		return '\v', true
	case '\\':
		return '\\', true
	case '\'':
		return '\'', true
	case '"':
		return '"', true
	case '0':
		return 0, true
	default:
		return r, false
	}
}

func (l *Lexer) scanOperator(start token.Position) token.Token {
	ch := l.ch
	l.readChar()
	l.hasStatement = true

	two := func(expect rune, yes, no token.Kind) token.Token {
		if l.ch == expect {
			l.readChar()
			return l.newToken(yes, start, l.input[start.Offset:l.position])
		}
		return l.newToken(no, start, string(ch))
	}

	switch ch {
	case '(':
		return l.newToken(token.LParen, start, "(")
	case ')':
		return l.newToken(token.RParen, start, ")")
	case ',':
		return l.newToken(token.Comma, start, ",")
	case ':':
		return l.newToken(token.Colon, start, ":")
	case '[':
		return l.newToken(token.LBracket, start, "[")
	case ']':
		return l.newToken(token.RBracket, start, "]")
	case '@':
		return l.newToken(token.AddressOf, start, "@")
	case '+':
		return l.newToken(token.Plus, start, "+")
	case '-':
		if l.ch == '>' {
			l.readChar()
			return l.newToken(token.PointerAccess, start, "->")
		}
		return l.newToken(token.Minus, start, "-")
	case '*':
		return l.newToken(token.Star, start, "*")
	case '/':
		return l.newToken(token.Slash, start, "/")
	case '=':
		return l.newToken(token.Assign, start, "=")
	case '<':
		if l.ch == '>' {
			l.readChar()
			return l.newToken(token.NotEqual, start, "<>")
		}
		return two('=', token.LessEqual, token.Less)
	case '>':
		return two('=', token.GreaterEqual, token.Greater)
	case '.':
		if l.ch == '.' {
			l.readChar()
			if l.ch == '.' {
				l.readChar()
				return l.newToken(token.Ellipsis, start, "...")
			}
			return l.newToken(token.Invalid, start, "..")
		}
		return l.newToken(token.Dot, start, ".")
	}

	l.errorf(start, "unexpected character %q", ch)
	return l.newToken(token.Invalid, start, string(ch))
}
