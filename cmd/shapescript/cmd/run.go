package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/shapescript-lang/shapescript/internal/errors"
	"github.com/shapescript-lang/shapescript/internal/geometry"
	"github.com/shapescript-lang/shapescript/internal/parser"
	"github.com/shapescript-lang/shapescript/internal/source"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/shapescript"
)

var (
	evalExpr    string
	dumpAST     bool
	jsonAsObjF  bool
	summaryOnly bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a ShapeScript file or expression",
	Long: `Execute a ShapeScript program from a file or inline source,
printing any debug_log output followed by a one-line summary of the
geometry it emitted.

Examples:
  # Run a script file
  shapescript run model.shape

  # Evaluate inline source
  shapescript run -e "cube { size 2 }"

  # Dump the parsed AST instead of running it
  shapescript run --dump-ast model.shape`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST instead of running it")
	runCmd.Flags().BoolVar(&jsonAsObjF, "json-as-object", false, "set the engine's WithJSONAsObject option (it does not change how .json imports evaluate)")
	runCmd.Flags().BoolVar(&summaryOnly, "summary", true, "print a one-line geometry summary after running")
}

func runScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	opts := []shapescript.Option{
		shapescript.WithOutput(os.Stdout),
		shapescript.WithImportRoot(filepath.Dir(filename)),
	}
	if jsonAsObjF {
		opts = append(opts, shapescript.WithJSONAsObject())
	}
	engine, err := shapescript.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to construct engine: %w", err)
	}

	program, err := engine.CompileFile(input, filename)
	if err != nil {
		printDiagnostic(err, input, filename)
		return fmt.Errorf("compilation failed")
	}

	if dumpAST {
		fmt.Println(program.AST().String())
		return nil
	}

	result, err := engine.Run(program)
	if err != nil {
		printDiagnostic(err, input, filename)
		return fmt.Errorf("execution failed")
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Fprintf(os.Stderr, "run %s\n", result.RunID)
	}

	if summaryOnly {
		printSummary(result)
	}
	return nil
}

func readSource(eval string, args []string) (input, filename string, err error) {
	if eval != "" {
		return eval, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline source")
}

// printDiagnostic renders err with source context when it carries a
// *errors.Error (evaluator) or *parser.Error (compile); other errors
// print plainly.
func printDiagnostic(err error, input, filename string) {
	file := source.NewFile(filename, input)
	switch e := err.(type) {
	case *errors.Error:
		fmt.Fprint(os.Stderr, errors.Format(e, file, true))
		fmt.Fprintln(os.Stderr)
	case *parser.Error:
		fmt.Fprint(os.Stderr, errors.Format(parseErrorToDiagnostic(e), file, true))
		fmt.Fprintln(os.Stderr)
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func parseErrorToDiagnostic(e *parser.Error) *errors.Error {
	d := errors.New("unexpectedToken", e.Rng, e.Error())
	if e.Suggestion != "" {
		return d.WithHint(e.Suggestion)
	}
	return d
}

// printSummary reports the mesh/polygon/vertex counts emitted at the
// top level, the way a CAD CLI confirms a build succeeded.
func printSummary(result shapescript.Result) {
	meshes, polygons, vertices := 0, 0, 0
	for _, child := range result.Children {
		mesh, ok := child.(*values.MeshValue)
		if !ok {
			continue
		}
		meshes++
		countMesh(mesh.Mesh, &polygons, &vertices)
	}
	fmt.Printf("%s mesh(es), %s polygon(s), %s vertex/vertices\n",
		humanize.Comma(int64(meshes)), humanize.Comma(int64(polygons)), humanize.Comma(int64(vertices)))
}

func countMesh(m geometry.Mesh, polygons, vertices *int) {
	*polygons += len(m.Polygons)
	for _, p := range m.Polygons {
		*vertices += len(p.Points)
	}
}
