// Command lbc is the LightBASIC compiler front end's driver shim
// (spec.md §2 C12): a thin cobra CLI wiring lex/parse/sema/print into
// subcommands. Everything past the annotated AST -- LLVM emission,
// assembling, linking -- is an external collaborator per spec.md §1 and
// is out of scope for this binary.
package main

import (
	"os"

	"github.com/lbc-lang/lbc/cmd/lbc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
