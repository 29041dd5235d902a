package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shapescript-lang/shapescript/internal/lexer"
	"github.com/shapescript-lang/shapescript/internal/parser"
)

var parseExpression bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse ShapeScript source and print the AST",
	Long: `Parse ShapeScript source and print the reconstructed source text
of the Abstract Syntax Tree (a round-trip check: well-formed input
should print back out equivalent to what went in, modulo whitespace).

If no file is provided, reads from stdin.
Use -e to parse a single expression from the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVarP(&parseExpression, "expression", "e", false, "parse an expression from the command line")
}

func runParse(cmd *cobra.Command, args []string) error {
	var input string

	switch {
	case parseExpression:
		if len(args) == 0 {
			return fmt.Errorf("no expression provided")
		}
		input = args[0]
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input = string(data)
	}

	l := lexer.New(input)
	program, errs := parser.ParseProgram(l, "<parse>")
	if len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "Parser errors:\n")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e.Error())
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	fmt.Println(program.String())
	return nil
}
