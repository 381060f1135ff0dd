// Package printer implements the two read-only AST consumers spec.md §4.7
// describes: a code printer that re-indents a module back into source text
// (used by tests for round-trip verification) and a JSON AST dump (used by
// developer tooling).
//
// The teacher's retrieval pack carries no source for the printer it
// presumably had (pkg/printer's own test suite describes the shape —
// Print-style entry points over ast.Node — but the implementation itself is
// generator output, out of scope per spec.md §1). This package is
// hand-written to that shape, in the surrounding packages' doc-comment
// register, rather than copied from anywhere.
package printer

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/token"
)

// PrintCode walks mod emitting a re-indented, canonically-spaced source
// listing.
func PrintCode(w io.Writer, mod *ast.Module) error {
	bw := bufio.NewWriter(w)
	p := &printer{w: bw}
	for _, imp := range mod.Imports {
		p.line("IMPORT %q", imp.Path)
	}
	p.stmtList(mod.Body)
	return bw.Flush()
}

type printer struct {
	w      *bufio.Writer
	indent int
}

func (p *printer) line(format string, args ...any) {
	p.w.WriteString(strings.Repeat("    ", p.indent))
	fmt.Fprintf(p.w, format, args...)
	p.w.WriteByte('\n')
}

func (p *printer) block(f func()) {
	p.indent++
	f()
	p.indent--
}

// stmtList prints Decls, then Stmts, then FuncStmts — the fixed order
// internal/semantic also visits in, a consequence of internal/ast.StmtList
// splitting one block's contents into those three slices at parse time
// (DESIGN.md: "Known simplifications").
func (p *printer) stmtList(list *ast.StmtList) {
	for _, d := range list.Decls {
		p.decl(d)
	}
	for _, s := range list.Stmts {
		p.stmt(s)
	}
	for _, d := range list.FuncStmts {
		p.decl(d)
	}
}

func (p *printer) decl(d ast.Decl) {
	switch v := d.(type) {
	case *ast.VarDecl:
		p.varDecl(v)
	case *ast.FuncDecl:
		p.funcDecl(v)
	case *ast.UdtDecl:
		p.udtDecl(v)
	case *ast.TypeAlias:
		suffix := ""
		if v.Type != nil {
			suffix = " AS " + typeExprString(v.Type)
		}
		p.line("TYPE %s%s", v.Name, suffix)
	}
}

// attributes emits a declaration's `[key = "value", ...]` annotation line,
// keys sorted so output is deterministic.
func (p *printer) attributes(attrs map[string]string) {
	if len(attrs) == 0 {
		return
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		if attrs[k] == "" {
			parts[i] = k
		} else {
			parts[i] = fmt.Sprintf("%s = %q", k, attrs[k])
		}
	}
	p.line("[%s]", strings.Join(parts, ", "))
}

func (p *printer) varDecl(v *ast.VarDecl) {
	p.attributes(v.Attributes)
	kw := "DIM"
	if v.IsConst {
		kw = "CONST"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", kw, v.Name)
	if v.IsExtern {
		b.WriteString(" EXTERN")
	}
	if v.Type != nil {
		fmt.Fprintf(&b, " AS %s", typeExprString(v.Type))
	}
	if v.Init != nil {
		fmt.Fprintf(&b, " = %s", exprString(v.Init))
	}
	p.line("%s", b.String())
}

func (p *printer) funcDecl(f *ast.FuncDecl) {
	p.attributes(f.Attributes)
	kw := "SUB"
	if f.ReturnType != nil {
		kw = "FUNCTION"
	}

	params := make([]string, len(f.Params))
	for i, prm := range f.Params {
		params[i] = prm.Name + " AS " + typeExprString(prm.Type)
	}
	if f.Variadic {
		params = append(params, "...")
	}

	var sig strings.Builder
	fmt.Fprintf(&sig, "%s %s(%s)", kw, f.Name, strings.Join(params, ", "))
	if f.ReturnType != nil {
		fmt.Fprintf(&sig, " AS %s", typeExprString(f.ReturnType))
	}

	if !f.HasImplementation {
		p.line("DECLARE %s", sig.String())
		return
	}

	p.line("%s", sig.String())
	p.block(func() { p.stmtList(f.Body) })
	p.line("END %s", kw)
}

func (p *printer) udtDecl(u *ast.UdtDecl) {
	if u.Packed {
		p.line("[PACKED]")
	}
	p.line("TYPE %s", u.Name)
	p.block(func() {
		for _, m := range u.Members {
			p.decl(m)
		}
	})
	p.line("END TYPE")
}

func (p *printer) stmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.ExprStmt:
		p.line("%s", exprString(st.X))
	case *ast.ReturnStmt:
		if st.X == nil {
			p.line("RETURN")
		} else {
			p.line("RETURN %s", exprString(st.X))
		}
	case *ast.IfStmt:
		p.ifStmt(st)
	case *ast.ForStmt:
		p.forStmt(st)
	case *ast.DoLoopStmt:
		p.doLoopStmt(st)
	case *ast.ContinuationStmt:
		p.continuationStmt(st)
	case *ast.Import:
		p.line("IMPORT %q", st.Path)
	case *ast.Extern:
		p.line("EXTERN %q", st.CallConv)
		p.block(func() {
			for _, d := range st.Decls {
				p.decl(d)
			}
		})
		p.line("END EXTERN")
	}
}

func (p *printer) ifStmt(st *ast.IfStmt) {
	for i, blk := range st.Blocks {
		switch {
		case i == 0:
			p.line("IF %s THEN", exprString(blk.Cond))
		case blk.Cond != nil:
			p.line("ELSE IF %s THEN", exprString(blk.Cond))
		default:
			p.line("ELSE")
		}
		p.block(func() { p.stmtList(blk.Body) })
	}
	p.line("END IF")
}

func (p *printer) forStmt(st *ast.ForStmt) {
	var b strings.Builder
	fmt.Fprintf(&b, "FOR %s = %s TO %s", st.Iterator.Name, exprString(st.From), exprString(st.To))
	if st.Step != nil {
		fmt.Fprintf(&b, " STEP %s", exprString(st.Step))
	}
	p.line("%s", b.String())
	p.block(func() { p.stmtList(st.Body) })
	if st.NextName != "" {
		p.line("NEXT %s", st.NextName)
	} else {
		p.line("NEXT")
	}
}

func (p *printer) doLoopStmt(st *ast.DoLoopStmt) {
	head := "DO"
	if st.CondKind == ast.LoopPreWhile {
		head = fmt.Sprintf("DO WHILE %s", exprString(st.Cond))
	} else if st.CondKind == ast.LoopPreUntil {
		head = fmt.Sprintf("DO UNTIL %s", exprString(st.Cond))
	}
	p.line("%s", head)
	p.block(func() { p.stmtList(st.Body) })
	switch st.CondKind {
	case ast.LoopPostWhile:
		p.line("LOOP WHILE %s", exprString(st.Cond))
	case ast.LoopPostUntil:
		p.line("LOOP UNTIL %s", exprString(st.Cond))
	default:
		p.line("LOOP")
	}
}

func (p *printer) continuationStmt(st *ast.ContinuationStmt) {
	word := "EXIT"
	if st.Op == ast.ContinuationContinue {
		word = "CONTINUE"
	}
	switch st.TargetKind {
	case ast.KindForStmt:
		p.line("%s FOR", word)
	case ast.KindDoLoopStmt:
		p.line("%s DO", word)
	default:
		p.line("%s", word)
	}
}

// opSymbols maps an operator Kind to its source spelling — the printer's
// own table, distinct from token.Kind.String()'s debug names ("PLUS",
// "LESSEQUAL"), which exist for diagnostics, not round-trippable source.
var opSymbols = map[token.Kind]string{
	token.Plus: "+", token.Minus: "-", token.Star: "*", token.Slash: "/",
	token.ModKw: "MOD", token.AndKw: "AND", token.OrKw: "OR", token.NotKw: "NOT",
	token.Equal: "=", token.NotEqual: "<>", token.Less: "<", token.Greater: ">",
	token.LessEqual: "<=", token.GreaterEqual: ">=", token.Negate: "-",
}

func exprString(e ast.Expr) string {
	if e == nil {
		return ""
	}
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return literalString(n)
	case *ast.IdentExpr:
		return n.Name
	case *ast.CallExpr:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = exprString(a)
		}
		return fmt.Sprintf("%s(%s)", exprString(n.Callee), strings.Join(args, ", "))
	case *ast.MemberExpr:
		return exprString(n.X) + "." + n.Name
	case *ast.AssignExpr:
		return fmt.Sprintf("%s = %s", exprString(n.LHS), exprString(n.RHS))
	case *ast.UnaryExpr:
		sym := opSymbols[n.Op]
		if n.Op == token.NotKw {
			return "(NOT " + exprString(n.X) + ")"
		}
		return "(" + sym + exprString(n.X) + ")"
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", exprString(n.LHS), opSymbols[n.Op], exprString(n.RHS))
	case *ast.CastExpr:
		kw := "AS"
		if n.IsTest {
			kw = "IS"
		}
		if n.Implicit {
			return exprString(n.X)
		}
		target := ""
		if n.Target != nil {
			target = typeExprString(n.Target)
		}
		return fmt.Sprintf("(%s %s %s)", exprString(n.X), kw, target)
	case *ast.DereferenceExpr:
		return "*" + exprString(n.X)
	case *ast.AddressOfExpr:
		return "@" + exprString(n.X)
	case *ast.IfExpr:
		return fmt.Sprintf("(IF %s THEN %s ELSE %s)", exprString(n.Cond), exprString(n.Then), exprString(n.Else))
	case *ast.SizeofExpr:
		return "SIZEOF(" + typeExprString(n.Target) + ")"
	default:
		return "?"
	}
}

func literalString(n *ast.LiteralExpr) string {
	switch n.Value.Kind {
	case token.IntValue:
		return fmt.Sprintf("%d", int64(n.Value.Int))
	case token.FloatValue:
		return fmt.Sprintf("%g", n.Value.Flt)
	case token.BoolValue:
		if n.Value.Bool {
			return "TRUE"
		}
		return "FALSE"
	case token.StringValue:
		return fmt.Sprintf("%q", n.Value.Str)
	default:
		return "NULL"
	}
}

// builtinSpelling overrides the handful of builtin-type keywords whose
// token.Kind.String() debug name isn't the source spelling (KwBool prints
// as "BOOL_T" for diagnostics but spells "BOOLEAN" in source).
var builtinSpelling = map[token.Kind]string{
	token.KwBool: "BOOLEAN",
}

func typeExprString(te *ast.TypeExpr) string {
	if te == nil {
		return "VOID"
	}
	var b strings.Builder
	if te.IsRef {
		b.WriteString("REF ")
	}
	switch te.Form {
	case ast.TypeFormBuiltin:
		if s, ok := builtinSpelling[te.Builtin]; ok {
			b.WriteString(s)
		} else {
			b.WriteString(te.Builtin.String())
		}
	case ast.TypeFormIdent:
		b.WriteString(te.Ident)
	case ast.TypeFormFuncSig:
		kw := "SUB"
		if te.FuncReturn != nil {
			kw = "FUNCTION"
		}
		params := make([]string, len(te.FuncParams))
		for i, p := range te.FuncParams {
			params[i] = typeExprString(p)
		}
		if te.FuncVariadic {
			params = append(params, "...")
		}
		fmt.Fprintf(&b, "%s(%s)", kw, strings.Join(params, ", "))
		if te.FuncReturn != nil {
			fmt.Fprintf(&b, " AS %s", typeExprString(te.FuncReturn))
		}
	case ast.TypeFormTypeOf:
		fmt.Fprintf(&b, "TYPEOF(%s)", exprString(te.TypeOfExpr))
	}
	for i := 0; i < te.PtrCount; i++ {
		b.WriteString(" PTR")
	}
	return b.String()
}
