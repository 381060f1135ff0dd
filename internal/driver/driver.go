package driver

import (
	"bytes"
	"fmt"
	"os"

	"github.com/lbc-lang/lbc/internal/ast"
	"github.com/lbc-lang/lbc/internal/lexer"
	"github.com/lbc-lang/lbc/internal/parser"
	"github.com/lbc-lang/lbc/internal/printer"
	"github.com/lbc-lang/lbc/internal/semantic"
	"github.com/lbc-lang/lbc/internal/source"
	"github.com/lbc-lang/lbc/internal/types"
)

func readSource(fileName string) (string, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", fileName, err)
	}
	return string(data), nil
}

// Unit is one compiled translation unit: the annotated AST plus the
// context/factory it was built in, per spec.md §5's "one compilation
// context owns the arena, intern set, source manager, type factory, and
// diagnostic accumulator."
type Unit struct {
	Context *ast.Context
	Types   *types.Factory
	Module  *ast.Module
}

// Front runs lex -> parse -> sema over one named source buffer, exactly
// the data flow spec.md §2 describes. It returns the annotated AST even
// when sema recorded errors (so -ast-dump still has something to show);
// callers must check eng.HasErrors() before treating the result as
// emission-ready.
func Front(fileName, text string, mgr *source.Manager, eng *source.Engine) (*Unit, error) {
	ctx := ast.NewContext()
	tf := types.NewFactory()

	lx := lexer.New(fileName, text, mgr, eng)
	p := parser.New(ctx, tf, lx, eng)
	mod, err := p.ParseModule(fileName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}

	sema := semantic.New(ctx, tf, eng)
	sema.AnalyzeModule(mod)

	return &Unit{Context: ctx, Types: tf, Module: mod}, nil
}

// Compile validates opts, runs the front end over opts.Inputs[0] (spec.md
// §5: "one compilation unit at a time") and returns the annotated unit.
// LLVM emission, assembling, and linking all live outside this core:
// Compile performs none of them and does not itself report the requested
// emission mode (cmd/lbc's compile command prints that note).
func Compile(opts CompileOptions, mgr *source.Manager, eng *source.Engine) (*Unit, error) {
	if err := opts.Validate(false); err != nil {
		return nil, err
	}
	fileName := opts.Inputs[0]
	text, err := readSource(fileName)
	if err != nil {
		return nil, err
	}
	unit, err := Front(fileName, text, mgr, eng)
	if err != nil {
		return nil, err
	}
	if eng.HasErrors() {
		return unit, fmt.Errorf("compilation failed: errors were reported for %s", fileName)
	}
	return unit, nil
}

// DumpAST renders unit.Module as JSON (spec.md §4.7 C10: "JSON dump").
func DumpAST(unit *Unit) (string, error) {
	var buf bytes.Buffer
	if err := printer.DumpJSON(&buf, unit.Module); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DumpCode re-prints unit.Module as reformatted source (spec.md §4.7
// C10: "code printer ... used by tests for round-trip verification").
func DumpCode(unit *Unit) (string, error) {
	var buf bytes.Buffer
	if err := printer.PrintCode(&buf, unit.Module); err != nil {
		return "", err
	}
	return buf.String(), nil
}
