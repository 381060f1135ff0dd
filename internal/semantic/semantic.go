// Package semantic implements the analyser described in spec.md §4.6: a
// two-pass traversal (forward-declare, then analyse) driving bidirectional
// type inference, implicit-cast insertion, operator validation, and name
// resolution against the scope chain built by internal/parser.
//
// Grounded on the shape of the teacher's internal/semantic.Analyzer — one
// struct accumulating diagnostics while it walks the tree, entered through
// a single top-level Analyze/Check call — generalized from DWScript's
// class/interface/record machinery down to LightBASIC's much smaller type
// lattice (internal/types), and from the teacher's ad-hoc loopDepth/inLoop
// booleans to the addressable internal/cflow.Stack that EXIT/CONTINUE
// distance validation needs.
package semantic

import (
	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/cflow"
	"github.com/lbc-lang/lbc/internal/source"
	"github.com/lbc-lang/lbc/internal/symbols"
	"github.com/lbc-lang/lbc/internal/token"
	"github.com/lbc-lang/lbc/internal/types"
)

// Analyzer holds one module's worth of analysis state.
type Analyzer struct {
	ctx *ast.Context
	tf  *types.Factory
	eng *source.Engine

	loops cflow.Stack

	// currentFunc is the FuncDecl whose body is presently being visited, or
	// nil at module scope (an implicit-main module's top level).
	currentFunc *ast.FuncDecl

	// moduleScope is the root scope Pass A forward-declared into. UDT
	// members and TypeAlias targets always resolve against it, regardless
	// of which nested scope first referenced the forward-declared symbol.
	moduleScope *symbols.Table
}

// New creates an Analyzer that allocates synthesized nodes (implicit casts)
// in ctx, resolves types through tf, and reports through eng.
func New(ctx *ast.Context, tf *types.Factory, eng *source.Engine) *Analyzer {
	return &Analyzer{ctx: ctx, tf: tf, eng: eng}
}

// report funnels every diagnostic the analyser raises through one place, the
// way the teacher's Analyzer.addError does.
func (a *Analyzer) report(pos token.Position, format string, args ...any) {
	a.eng.Report(source.Error, pos, format, args...)
}

// AnalyzeModule runs both passes over mod, returning true iff no errors were
// reported (the engine may still hold warnings already present before the
// call).
func (a *Analyzer) AnalyzeModule(mod *ast.Module) bool {
	before := len(a.eng.Diagnostics())
	a.moduleScope = mod.Symbols
	a.declareBuiltins(mod.Symbols)
	a.analyzeStmtList(mod.Body, mod.Symbols)
	return len(a.eng.Diagnostics()) == before
}

// declareBuiltins seeds the module scope with the runtime surface every
// LightBASIC program can call without a DECLARE. PRINT is the one the
// language itself leans on (a variadic SUB, so `PRINT "x", y` type-checks
// with any argument list); everything else comes in through EXTERN blocks.
func (a *Analyzer) declareBuiltins(scope *symbols.Table) {
	scope.Insert(&symbols.Symbol{
		Name:  "PRINT",
		Type:  a.tf.GetFunction(nil, a.tf.GetVoid(), true),
		Flags: symbols.Defined | symbols.Function,
	})
}
