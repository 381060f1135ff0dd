package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/lbc-lang/lbc/internal/lexer"
	"github.com/lbc-lang/lbc/internal/source"
	"github.com/lbc-lang/lbc/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexEval       string
	lexShowPos    bool
	lexOnlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a LightBASIC file and print the resulting tokens",
	Long: `Tokenize (lex) a LightBASIC program and print the resulting tokens.

Examples:
  lbc lex hello.bas
  lbc lex -e "DIM x AS INTEGER = 42"
  lbc lex --show-pos hello.bas
  lbc lex --only-errors hello.bas`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline code instead of reading from a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexOnlyErrors, "only-errors", false, "show only Invalid tokens")
}

func runLex(_ *cobra.Command, args []string) error {
	var input, fileName string
	switch {
	case lexEval != "":
		input, fileName = lexEval, "<eval>"
	case len(args) == 1:
		fileName = args[0]
		data, err := os.ReadFile(fileName)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", fileName, err)
		}
		input = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		input, fileName = string(data), "<stdin>"
	}

	mgr := source.NewManager()
	eng := source.NewEngine(mgr)
	lx := lexer.New(fileName, input, mgr, eng)

	errCount := 0
	for {
		tok := lx.Next()
		isErr := tok.Kind == token.Invalid
		if isErr {
			errCount++
		}
		if !lexOnlyErrors || isErr {
			printToken(tok)
		}
		if tok.Kind == token.EndOfFile {
			break
		}
	}

	if eng.HasErrors() {
		eng.Render(os.Stderr)
	}
	if lexOnlyErrors && errCount > 0 {
		return fmt.Errorf("found %d invalid token(s)", errCount)
	}
	return nil
}

func printToken(tok token.Token) {
	out := fmt.Sprintf("%-14s", tok.Kind)
	if tok.Literal != "" {
		out += fmt.Sprintf(" %q", tok.Literal)
	}
	if lexShowPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(out)
}
