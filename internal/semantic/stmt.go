// Pass B (spec.md §4.6): visits every StmtList in source order, defining
// VarDecls as they're reached, triggering defineIfNeeded for any forward
// declaration Pass A left untouched (an unreferenced UDT/alias/signature
// still needs its own errors reported), and threading bidirectional typing
// through every statement kind via analyzeExpr.
package semantic

import (
	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/cflow"
	"github.com/lbc-lang/lbc/internal/constfold"
	"github.com/lbc-lang/lbc/internal/symbols"
	"github.com/lbc-lang/lbc/internal/token"
	"github.com/lbc-lang/lbc/internal/types"
)

// analyzeStmtList forward-declares list's own Decls (a nested TYPE/DECLARE
// inside a loop or IF body gets the same Pass A treatment the module top
// level does) and then visits everything in Decls, Stmts, FuncStmts order —
// a known simplification against true source-order interleaving, since
// internal/ast.StmtList already splits those into separate slices by the
// time the parser hands them to sema.
func (a *Analyzer) analyzeStmtList(list *ast.StmtList, scope *symbols.Table) {
	a.declareTopLevel(list, scope)
	for _, d := range list.Decls {
		a.analyzeDeclPassB(d, scope)
	}
	for _, s := range list.Stmts {
		a.analyzeStmt(s, scope)
	}
	for _, d := range list.FuncStmts {
		a.analyzeFuncBody(d.(*ast.FuncDecl))
	}
}

func (a *Analyzer) analyzeDeclPassB(d ast.Decl, scope *symbols.Table) {
	switch decl := d.(type) {
	case *ast.VarDecl:
		a.analyzeVarDecl(decl, scope)
	case *ast.FuncDecl:
		a.defineIfNeeded(decl.Symbol)
	case *ast.UdtDecl:
		a.defineIfNeeded(decl.Symbol)
	case *ast.TypeAlias:
		a.defineIfNeeded(decl.Symbol)
	}
}

func (a *Analyzer) analyzeVarDecl(decl *ast.VarDecl, scope *symbols.Table) {
	if _, exists := scope.Local(decl.Name); exists {
		a.report(decl.Range().Start, "redefinition of %q", decl.Name)
		return
	}

	var declaredType *types.Type
	if decl.Type != nil {
		declaredType = a.resolveTypeExpr(decl.Type, scope)
	}

	if decl.IsConst {
		if decl.Init == nil {
			a.report(decl.Range().Start, "CONST %q requires an initializer", decl.Name)
			return
		}
		decl.Init = a.analyzeExpr(decl.Init, scope, declaredType)
		lit, ok := constfold.Fold(decl.Init)
		if !ok {
			a.report(decl.Init.Range().Start, "CONST initializer must be a constant expression")
		}
		sym := &symbols.Symbol{Name: decl.Name, Type: decl.Init.Type(), Flags: symbols.Defined | symbols.Constant, ConstantValue: lit, Decl: decl}
		scope.Insert(sym)
		decl.Symbol = sym
		return
	}

	if decl.Init != nil {
		decl.Init = a.analyzeExpr(decl.Init, scope, declaredType)
		if declaredType == nil {
			declaredType = decl.Init.Type()
		}
	} else if decl.IsExtern {
		if declaredType == nil {
			a.report(decl.Range().Start, "EXTERN %q requires an explicit type", decl.Name)
			declaredType = a.tf.GetVoid()
		}
	} else if declaredType == nil {
		a.report(decl.Range().Start, "DIM %q needs either AS type or an initializer", decl.Name)
		declaredType = a.tf.GetVoid()
	}

	flags := symbols.Defined | symbols.Variable
	sym := &symbols.Symbol{Name: decl.Name, Type: declaredType, Flags: flags, Alias: decl.Attributes["ALIAS"], Decl: decl}
	scope.Insert(sym)
	decl.Symbol = sym
}

func (a *Analyzer) analyzeFuncBody(fd *ast.FuncDecl) {
	if fd.Symbol == nil {
		return // redefinition already reported by forwardDeclare
	}
	a.defineIfNeeded(fd.Symbol)
	if !fd.HasImplementation {
		return
	}

	savedFunc, savedLoops := a.currentFunc, a.loops
	a.currentFunc, a.loops = fd, cflow.Stack{}
	a.analyzeStmtList(fd.Body, fd.Symbols)
	a.currentFunc, a.loops = savedFunc, savedLoops
}

func (a *Analyzer) analyzeStmt(s ast.Stmt, scope *symbols.Table) {
	switch st := s.(type) {
	case *ast.ExprStmt:
		st.X = a.analyzeExpr(st.X, scope, nil)
	case *ast.ReturnStmt:
		a.analyzeReturn(st, scope)
	case *ast.IfStmt:
		a.analyzeIf(st, scope)
	case *ast.ForStmt:
		a.analyzeFor(st)
	case *ast.DoLoopStmt:
		a.analyzeDoLoop(st, scope)
	case *ast.ContinuationStmt:
		a.analyzeContinuation(st)
	case *ast.Extern:
		a.analyzeExtern(st, scope)
	case *ast.Import:
		// Cross-module resolution is out of scope: the driver shim loads one
		// module at a time (spec.md Non-goals).
	}
}

func (a *Analyzer) analyzeReturn(st *ast.ReturnStmt, scope *symbols.Table) {
	if a.currentFunc == nil {
		if st.X != nil {
			a.report(st.Range().Start, "RETURN with a value is not allowed at module scope")
			st.X = a.analyzeExpr(st.X, scope, nil)
		}
		return
	}

	sig, _ := a.currentFunc.Symbol.Type.(*types.Type)
	retType := a.tf.GetVoid()
	if sig != nil {
		retType = sig.Return
	}

	if st.X == nil {
		if retType != a.tf.GetVoid() {
			a.report(st.Range().Start, "missing return value for FUNCTION %s", a.currentFunc.Name)
		}
		return
	}
	if retType == a.tf.GetVoid() {
		a.report(st.X.Range().Start, "SUB %s cannot return a value", a.currentFunc.Name)
		st.X = a.analyzeExpr(st.X, scope, nil)
		return
	}
	st.X = a.analyzeExpr(st.X, scope, retType)
}

// analyzeIf visits each block in its own nested scope (spec.md §4.6). The
// parser chained block scopes head-to-tail, so a guard or body here can see
// decls made in earlier blocks while sibling branches never collide.
func (a *Analyzer) analyzeIf(st *ast.IfStmt, scope *symbols.Table) {
	for i := range st.Blocks {
		blk := &st.Blocks[i]
		blockScope := blk.Symbols
		if blockScope == nil {
			blockScope = scope
		}
		if blk.Cond != nil {
			blk.Cond = a.analyzeExpr(blk.Cond, blockScope, a.tf.GetBool())
		}
		a.analyzeStmtList(blk.Body, blockScope)
	}
}

// analyzeFor types the From/To/Step triple, declares the iterator in the
// loop's own nested scope (matching how the parser already confined them
// while parsing, per internal/parser's pushScope(stmt.Symbols) preceding
// From), and — when every bound folds to a constant — infers Direction so
// code-gen can skip the runtime comparison (spec.md §4.6).
func (a *Analyzer) analyzeFor(st *ast.ForStmt) {
	st.From = a.analyzeExpr(st.From, st.Symbols, nil)
	iterType := st.From.Type()
	if iterType == nil || !iterType.IsNumeric() {
		a.report(st.From.Range().Start, "FOR iterator must be numeric")
		iterType = a.tf.GetInteger()
	}
	st.To = a.analyzeExpr(st.To, st.Symbols, iterType)
	if st.Step != nil {
		st.Step = a.analyzeExpr(st.Step, st.Symbols, iterType)
	}

	isym := &symbols.Symbol{Name: st.Iterator.Name, Type: iterType, Flags: symbols.Defined | symbols.Variable}
	st.Symbols.Insert(isym)
	st.Iterator.Symbol = isym
	st.Iterator.SetType(iterType)
	st.Iterator.SetFlags(ast.FlagIsVariable | ast.FlagAssignable)
	if len(st.Decls) > 0 {
		if iterDecl, ok := st.Decls[0].(*ast.VarDecl); ok {
			iterDecl.Symbol = isym
		}
	}

	if st.NextName != "" && st.NextName != st.Iterator.Name {
		a.report(st.Range().Start, "NEXT %s does not close FOR %s", st.NextName, st.Iterator.Name)
	}

	st.Direction = inferForDirection(st)
	materializeAbsStep(st)

	a.loops.Push(cflow.Frame{Kind: ast.KindForStmt, Name: st.NextName})
	a.analyzeStmtList(st.Body, st.Symbols)
	a.loops.Pop()
}

func inferForDirection(st *ast.ForStmt) ast.Direction {
	fromLit, ok := constfold.Fold(st.From)
	if !ok {
		return ast.DirUnknown
	}
	toLit, ok := constfold.Fold(st.To)
	if !ok {
		return ast.DirUnknown
	}
	stepLit := token.Literal{Kind: token.IntValue, Int: 1}
	if st.Step != nil {
		var ok bool
		stepLit, ok = constfold.Fold(st.Step)
		if !ok {
			return ast.DirUnknown
		}
	}

	from, to, step := litToFloat(fromLit), litToFloat(toLit), litToFloat(stepLit)
	switch {
	case step == 0:
		return ast.DirSkip
	case step > 0:
		if from > to {
			return ast.DirSkip
		}
		return ast.DirIncrement
	default:
		if from < to {
			return ast.DirSkip
		}
		return ast.DirDecrement
	}
}

// materializeAbsStep rewrites a constant negative STEP's folded value to its
// absolute value once Direction has captured the sign (spec.md §4.6: "the
// step is materialised as absolute value, direction inferred from sign").
// A non-constant step is left alone; the runtime check owns it.
func materializeAbsStep(st *ast.ForStmt) {
	if st.Step == nil || st.Direction == ast.DirUnknown {
		return
	}
	lit, ok := st.Step.ConstantValue()
	if !ok {
		return
	}
	switch {
	case lit.Kind == token.IntValue && int64(lit.Int) < 0:
		lit.Int = uint64(-int64(lit.Int))
		st.Step.SetConstantValue(lit)
	case lit.Kind == token.FloatValue && lit.Flt < 0:
		lit.Flt = -lit.Flt
		st.Step.SetConstantValue(lit)
	}
}

func litToFloat(l token.Literal) float64 {
	switch l.Kind {
	case token.FloatValue:
		return l.Flt
	case token.IntValue:
		return float64(int64(l.Int))
	default:
		return 0
	}
}

func (a *Analyzer) analyzeDoLoop(st *ast.DoLoopStmt, scope *symbols.Table) {
	if st.CondKind == ast.LoopPreWhile || st.CondKind == ast.LoopPreUntil {
		st.Cond = a.analyzeExpr(st.Cond, scope, a.tf.GetBool())
	}

	a.loops.Push(cflow.Frame{Kind: ast.KindDoLoopStmt})
	a.analyzeStmtList(st.Body, st.Symbols)
	a.loops.Pop()

	if st.CondKind == ast.LoopPostWhile || st.CondKind == ast.LoopPostUntil {
		st.Cond = a.analyzeExpr(st.Cond, scope, a.tf.GetBool())
	}
}

// analyzeContinuation resolves an EXIT/CONTINUE's target distance against
// the active cflow.Stack, honoring a TargetKind restriction ("EXIT FOR" may
// not match an enclosing DO).
func (a *Analyzer) analyzeContinuation(st *ast.ContinuationStmt) {
	dist, ok := a.loops.Find(0, st.TargetKind)
	if !ok {
		word := "EXIT"
		if st.Op == ast.ContinuationContinue {
			word = "CONTINUE"
		}
		a.report(st.Range().Start, "%s used outside of a matching FOR/DO loop", word)
		return
	}
	st.Distance = dist
}

// analyzeExtern resolves the signature/type of every declaration in an
// EXTERN block immediately, marking each symbol External — there is no body
// to defer against, so Pass A's lazy define-on-first-use doesn't apply.
func (a *Analyzer) analyzeExtern(ext *ast.Extern, scope *symbols.Table) {
	for _, d := range ext.Decls {
		switch decl := d.(type) {
		case *ast.FuncDecl:
			a.forwardDeclare(decl, scope)
			if decl.Symbol == nil {
				continue
			}
			a.defineIfNeeded(decl.Symbol)
			decl.Symbol.Visibility = symbols.External
		case *ast.VarDecl:
			if decl.Type == nil {
				a.report(decl.Range().Start, "EXTERN %q requires an explicit type", decl.Name)
				continue
			}
			t := a.resolveTypeExpr(decl.Type, scope)
			sym := &symbols.Symbol{Name: decl.Name, Type: t, Flags: symbols.Defined | symbols.Variable, Visibility: symbols.External, Alias: decl.Attributes["ALIAS"], Decl: decl}
			scope.Insert(sym)
			decl.Symbol = sym
		}
	}
}
