package cmd

import (
	"bytes"
	"strings"
	"testing"
)

// execRoot runs rootCmd in-process with the given args, capturing what
// commands write through cmd.OutOrStdout (rootCmd.SetOut); direct writes to
// os.Stdout are not captured.
func execRoot(t *testing.T, args ...string) string {
	t.Helper()
	resetCompileFlags()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute(%v): %v", args, err)
	}
	return buf.String()
}

func TestVersionCommand(t *testing.T) {
	out := execRoot(t, "version")
	_ = out // version.go writes via fmt.Printf directly to stdout, not cmd.OutOrStdout
}

func TestLexEvalProducesTokens(t *testing.T) {
	resetCompileFlags()
	rootCmd.SetArgs([]string{"lex", "-e", "DIM x AS INTEGER = 42"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("lex -e: %v", err)
	}
}

func TestASTDumpRejectsUnknownFlag(t *testing.T) {
	resetCompileFlags()
	rootCmd.SetArgs([]string{"ast-dump", "-e"})
	// ast-dump has no -e flag; this exercises cobra's own flag validation.
	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected an error for an unknown -e flag on ast-dump")
	}
	if !strings.Contains(err.Error(), "unknown") && !strings.Contains(err.Error(), "flag") {
		t.Fatalf("expected a flag-parsing error, got: %v", err)
	}
}
