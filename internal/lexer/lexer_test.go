package lexer

import (
	"testing"

	"github.com/lbc-lang/lbc/internal/source"
	"github.com/lbc-lang/lbc/internal/token"
)

func newLexer(t *testing.T, text string) *Lexer {
	t.Helper()
	mgr := source.NewManager()
	eng := source.NewEngine(mgr)
	return New("t.bas", text, mgr, eng)
}

func kinds(t *testing.T, l *Lexer) []token.Kind {
	t.Helper()
	var out []token.Kind
	for {
		tok := l.Next()
		out = append(out, tok.Kind)
		if tok.Kind == token.EndOfFile {
			return out
		}
	}
}

func TestKeywordCaseInsensitive(t *testing.T) {
	for _, spelling := range []string{"dim", "DIM", "Dim", "dIm"} {
		l := newLexer(t, spelling)
		tok := l.Next()
		if tok.Kind != token.Dim {
			t.Errorf("lex(%q) = %v, want Dim", spelling, tok.Kind)
		}
	}
}

func TestLineCommentIsInert(t *testing.T) {
	l := newLexer(t, "' a comment with stuff\n42")
	tok := l.Next()
	if tok.Kind != token.IntegerLiteral || tok.Value.Int != 42 {
		t.Errorf("got %v, want IntegerLiteral(42)", tok)
	}
}

func TestNestedBlockComment(t *testing.T) {
	l := newLexer(t, "/' a /' b '/ c '/ 42")
	tok := l.Next()
	if tok.Kind != token.IntegerLiteral || tok.Value.Int != 42 {
		t.Errorf("got %v, want IntegerLiteral(42)", tok)
	}
}

func TestPeekThenNextAgree(t *testing.T) {
	l := newLexer(t, "foo")
	peeked := l.Peek()
	next := l.Next()
	if peeked.Kind != next.Kind || peeked.Literal != next.Literal {
		t.Errorf("peek/next mismatch: %v vs %v", peeked, next)
	}
}

func TestLineContinuation(t *testing.T) {
	l := newLexer(t, "42 _\n+ 43")
	// No EndOfStmt should appear between the two integers, even though the
	// trailing EOF still emits one for the statement as a whole.
	want := []token.Kind{token.IntegerLiteral, token.Plus, token.IntegerLiteral}
	for i, k := range want {
		tok := l.Next()
		if tok.Kind != k {
			t.Fatalf("token %d: got %v, want %v", i, tok.Kind, k)
		}
	}
}

func TestUnterminatedStringIsInvalid(t *testing.T) {
	mgr := source.NewManager()
	eng := source.NewEngine(mgr)
	l := New("t.bas", `"abc`, mgr, eng)
	tok := l.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("got %v, want Invalid", tok.Kind)
	}
	if !eng.HasErrors() {
		t.Error("expected a diagnostic for the unterminated string")
	}
}

func TestEndOfStmtGating(t *testing.T) {
	// A leading blank line produces no EndOfStmt; one between two
	// statements does, and EOF after a statement emits a final one too
	// (spec.md §4.1: "end-of-file emit EndOfStmt iff has_statement is set").
	l := newLexer(t, "\nDIM x = 1\nDIM y = 2")
	got := kinds(t, l)
	var eosCount int
	for _, k := range got {
		if k == token.EndOfStmt {
			eosCount++
		}
	}
	if eosCount != 2 {
		t.Errorf("expected exactly 2 EndOfStmt, got %d in %v", eosCount, got)
	}
}

func TestOperatorGreedyMatch(t *testing.T) {
	l := newLexer(t, "<> <= >= -> ..")
	got := kinds(t, l)
	want := []token.Kind{
		token.NotEqual, token.LessEqual, token.GreaterEqual, token.PointerAccess,
		token.Invalid, token.EndOfStmt, token.EndOfFile,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestStringEscapes(t *testing.T) {
	l := newLexer(t, `"a\nb"`)
	tok := l.Next()
	if tok.Kind != token.StringLiteral {
		t.Fatalf("got %v, want StringLiteral", tok.Kind)
	}
	if tok.Value.Str != "a\nb" {
		t.Errorf("got %q, want %q", tok.Value.Str, "a\nb")
	}
}

func TestFloatLiteral(t *testing.T) {
	l := newLexer(t, "123.45")
	tok := l.Next()
	if tok.Kind != token.FloatLiteral || tok.Value.Flt != 123.45 {
		t.Errorf("got %v, want FloatLiteral(123.45)", tok)
	}
}

func TestLineAndColumnAdvanceAcrossLines(t *testing.T) {
	l := newLexer(t, "DIM x = 1\nDIM y = 2")
	var last token.Token
	for {
		tok := l.Next()
		if tok.Kind == token.Identifier && tok.Literal == "Y" {
			last = tok
			break
		}
		if tok.Kind == token.EndOfFile {
			t.Fatal("did not find identifier Y before EOF")
		}
	}
	if last.Pos.Line != 2 {
		t.Errorf("got line %d, want 2", last.Pos.Line)
	}
	if last.Pos.Column != 5 {
		t.Errorf("got column %d, want 5", last.Pos.Column)
	}
}

func TestCRLFAdvancesLineOnce(t *testing.T) {
	l := newLexer(t, "42\r\n43")
	l.Next() // 42
	if eos := l.Next(); eos.Kind != token.EndOfStmt {
		t.Fatalf("got %v, want EndOfStmt after the CRLF", eos)
	}
	tok := l.Next()
	if tok.Kind != token.IntegerLiteral || tok.Value.Int != 43 {
		t.Fatalf("got %v, want IntegerLiteral(43)", tok)
	}
	if tok.Pos.Line != 2 || tok.Pos.Column != 1 {
		t.Errorf("got %d:%d, want 2:1", tok.Pos.Line, tok.Pos.Column)
	}
}

func TestBooleanAndNullKeywordsResolveToLiterals(t *testing.T) {
	l := newLexer(t, "TRUE false NULL")
	tok := l.Next()
	if tok.Kind != token.BooleanLiteral || !tok.Value.Bool {
		t.Errorf("TRUE: got %v, want BooleanLiteral(true)", tok)
	}
	tok = l.Next()
	if tok.Kind != token.BooleanLiteral || tok.Value.Bool {
		t.Errorf("false: got %v, want BooleanLiteral(false)", tok)
	}
	tok = l.Next()
	if tok.Kind != token.NullLiteral {
		t.Errorf("NULL: got %v, want NullLiteral", tok)
	}
}

func TestBracketsLexAsSymbols(t *testing.T) {
	l := newLexer(t, `[ALIAS = "puts"]`)
	got := kinds(t, l)
	want := []token.Kind{
		token.LBracket, token.Identifier, token.Assign, token.StringLiteral,
		token.RBracket, token.EndOfStmt, token.EndOfFile,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestIdentifiersAreUppercased(t *testing.T) {
	l := newLexer(t, "foo")
	tok := l.Next()
	if tok.Literal != "FOO" {
		t.Errorf("got %q, want %q", tok.Literal, "FOO")
	}
}
