package cmd

import (
	"fmt"
	"os"

	"github.com/lbc-lang/lbc/internal/driver"
	"github.com/lbc-lang/lbc/internal/source"
	"github.com/spf13/cobra"
)

var (
	outputFile   string
	m32          bool
	m64          bool
	optO0        bool
	optO1        bool
	optO2        bool
	optO3        bool
	optOS        bool
	emitAsm      bool
	emitObject   bool
	emitLLVM     bool
	configPath   string
)

var compileCmd = &cobra.Command{
	Use:   "compile [files...]",
	Short: "Compile LightBASIC source through the front end",
	Long: `Run one or more LightBASIC source files through the front end (lex,
parse, semantic analysis) and report whether each would be ready for code
generation.

lbc's core does not itself emit LLVM IR, invoke the assembler, or link --
those are external collaborators (spec.md §1). This command validates the
front-end pipeline and reports the requested emission mode; wiring a real
backend is a driver-level concern outside this package.`,
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file")
	compileCmd.Flags().BoolVar(&m32, "m32", false, "target 32-bit word width")
	compileCmd.Flags().BoolVar(&m64, "m64", false, "target 64-bit word width")
	compileCmd.Flags().BoolVar(&optO0, "O0", false, "optimization level 0 (default)")
	compileCmd.Flags().BoolVar(&optO1, "O1", false, "optimization level 1")
	compileCmd.Flags().BoolVar(&optO2, "O2", false, "optimization level 2")
	compileCmd.Flags().BoolVar(&optO3, "O3", false, "optimization level 3")
	compileCmd.Flags().BoolVar(&optOS, "OS", false, "optimize for size")
	compileCmd.Flags().BoolVarP(&emitAsm, "emit-assembly", "S", false, "emit assembly")
	compileCmd.Flags().BoolVarP(&emitObject, "emit-object", "c", false, "emit object file")
	compileCmd.Flags().BoolVar(&emitLLVM, "emit-llvm", false, "emit LLVM IR instead of native code (requires -S or -c)")
	compileCmd.Flags().StringVar(&configPath, "config", "", "load CompileOptions from a YAML file")
}

func optionsFromFlags(args []string) (driver.CompileOptions, error) {
	var opts driver.CompileOptions
	var err error
	if configPath != "" {
		opts, err = driver.LoadConfig(configPath)
		if err != nil {
			return opts, err
		}
	} else {
		opts = driver.DefaultOptions()
	}

	if len(args) > 0 {
		opts.Inputs = args
	}
	if outputFile != "" {
		opts.Output = outputFile
	}
	opts.Verbose = opts.Verbose || verbose
	if toolchainDir != "" {
		opts.ToolchainDir = toolchainDir
	}

	switch {
	case m32:
		opts.WordWidth = 32
	case m64:
		opts.WordWidth = 64
	}

	switch {
	case optO1:
		opts.OptLevel = driver.Opt1
	case optO2:
		opts.OptLevel = driver.Opt2
	case optO3:
		opts.OptLevel = driver.Opt3
	case optOS:
		opts.OptLevel = driver.OptSize
	case optO0:
		opts.OptLevel = driver.OptNone
	}

	switch {
	case emitLLVM:
		opts.Emit = driver.EmitLLVM
	case emitObject:
		opts.Emit = driver.EmitObject
	case emitAsm:
		opts.Emit = driver.EmitAssembly
	}

	if emitLLVM && !emitAsm && !emitObject {
		return opts, fmt.Errorf("-emit-llvm requires -S or -c")
	}

	return opts, nil
}

func runCompile(_ *cobra.Command, args []string) error {
	opts, err := optionsFromFlags(args)
	if err != nil {
		return err
	}

	hadError := false
	for _, input := range opts.Inputs {
		unitOpts := opts
		unitOpts.Inputs = []string{input}

		mgr := source.NewManager()
		eng := source.NewEngine(mgr)

		if opts.Verbose {
			fmt.Fprintf(os.Stderr, "compiling %s (m%d, -%s)\n", input, opts.WordWidth, opts.OptLevel)
		}

		_, compileErr := driver.Compile(unitOpts, mgr, eng)
		eng.Render(os.Stderr)
		if compileErr != nil {
			fmt.Fprintf(os.Stderr, "lbc: error: %v\n", compileErr)
			hadError = true
			continue
		}

		if opts.Emit != driver.EmitNone {
			fmt.Fprintf(os.Stderr, "lbc: note: front end succeeded for %s; %s emission is handled by an external backend, not this core\n", input, opts.Emit)
		}
	}

	if hadError {
		return fmt.Errorf("compilation failed")
	}
	return nil
}
