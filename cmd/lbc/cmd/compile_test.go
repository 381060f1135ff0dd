package cmd

import (
	"testing"

	"github.com/lbc-lang/lbc/internal/driver"
)

func resetCompileFlags() {
	outputFile, m32, m64 = "", false, false
	optO0, optO1, optO2, optO3, optOS = false, false, false, false, false
	emitAsm, emitObject, emitLLVM = false, false, false
	configPath = ""
}

func TestOptionsFromFlagsDefaults(t *testing.T) {
	resetCompileFlags()
	opts, err := optionsFromFlags([]string{"hello.bas"})
	if err != nil {
		t.Fatalf("optionsFromFlags: %v", err)
	}
	if opts.WordWidth != 64 {
		t.Errorf("expected default word width 64, got %d", opts.WordWidth)
	}
	if len(opts.Inputs) != 1 || opts.Inputs[0] != "hello.bas" {
		t.Errorf("expected Inputs=[hello.bas], got %v", opts.Inputs)
	}
}

func TestOptionsFromFlagsWordWidth(t *testing.T) {
	resetCompileFlags()
	m32 = true
	opts, err := optionsFromFlags([]string{"a.bas"})
	if err != nil {
		t.Fatalf("optionsFromFlags: %v", err)
	}
	if opts.WordWidth != 32 {
		t.Errorf("expected word width 32, got %d", opts.WordWidth)
	}
}

func TestOptionsFromFlagsEmitLLVMRequiresSorC(t *testing.T) {
	resetCompileFlags()
	emitLLVM = true
	if _, err := optionsFromFlags([]string{"a.bas"}); err == nil {
		t.Fatal("expected an error when -emit-llvm is set without -S or -c")
	}
}

func TestOptionsFromFlagsEmitLLVMWithAssembly(t *testing.T) {
	resetCompileFlags()
	emitLLVM, emitAsm = true, true
	opts, err := optionsFromFlags([]string{"a.bas"})
	if err != nil {
		t.Fatalf("optionsFromFlags: %v", err)
	}
	if opts.Emit != driver.EmitLLVM {
		t.Errorf("expected Emit=%q, got %q", driver.EmitLLVM, opts.Emit)
	}
}
