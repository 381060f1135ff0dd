// Package driver implements the minimal pipeline shim described in
// spec.md §2 (C12): lex -> parse -> sema -> emit, wired behind a
// CompileOptions struct that cmd/lbc populates from CLI flags or an
// optional YAML config file.
//
// Everything past semantic analysis -- LLVM IR emission, the assembler
// and linker invocation, bitcode writing, JIT execution -- is out of
// scope per spec.md §1 ("external collaborators via narrow interfaces");
// Compile stops at the annotated AST and leaves acting on the requested
// emission mode to its caller.
package driver

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// OptLevel mirrors the driver's -O0..-O3/-OS flags (spec.md §6).
type OptLevel string

const (
	OptNone  OptLevel = "O0"
	Opt1     OptLevel = "O1"
	Opt2     OptLevel = "O2"
	Opt3     OptLevel = "O3"
	OptSize  OptLevel = "Os"
)

// EmitMode selects what Compile produces beyond the annotated AST.
type EmitMode string

const (
	EmitNone     EmitMode = ""
	EmitAssembly EmitMode = "asm"
	EmitObject   EmitMode = "object"
	EmitLLVM     EmitMode = "llvm"
)

// CompileOptions is the compile-options component from spec.md §6,
// populated either from cobra/pflag flags or decoded from a
// `--config <file>` YAML document of the same shape.
type CompileOptions struct {
	Inputs       []string `yaml:"inputs,omitempty"`
	Output       string   `yaml:"output,omitempty"`
	Verbose      bool     `yaml:"verbose,omitempty"`
	WordWidth    int      `yaml:"wordWidth,omitempty"` // 32 or 64
	OptLevel     OptLevel `yaml:"optLevel,omitempty"`
	Emit         EmitMode `yaml:"emit,omitempty"`
	ToolchainDir string   `yaml:"toolchainDir,omitempty"`
}

// DefaultOptions returns the options a bare `lbc compile file.bas`
// invocation runs with: 64-bit target, no optimization, no emission
// beyond the annotated AST (the external backend is not part of this
// front-end core).
func DefaultOptions() CompileOptions {
	return CompileOptions{WordWidth: 64, OptLevel: OptNone}
}

// LoadConfig reads a YAML CompileOptions document, overlaying it onto
// DefaultOptions. Mirrors the teacher's goccy/go-yaml dependency (pulled
// in transitively via go-snaps) being given a direct job here instead of
// staying unused dead weight.
func LoadConfig(path string) (CompileOptions, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse config %s: %w", path, err)
	}
	return opts, nil
}

// Validate reports the first structural problem with opts, mirroring
// spec.md §6's CLI surface constraints (ast-dump/code-dump require
// exactly one source input; word width must be 32 or 64).
func (o CompileOptions) Validate(astOrCodeDump bool) error {
	if o.WordWidth != 32 && o.WordWidth != 64 {
		return fmt.Errorf("invalid word width %d (must be 32 or 64)", o.WordWidth)
	}
	if astOrCodeDump && len(o.Inputs) != 1 {
		return fmt.Errorf("-ast-dump/-code-dump require exactly one source input, got %d", len(o.Inputs))
	}
	if len(o.Inputs) == 0 {
		return fmt.Errorf("no input files")
	}
	return nil
}
