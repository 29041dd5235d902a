package evaluator

import (
	"path"
	"strings"

	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/errors"
	"github.com/shapescript-lang/shapescript/internal/jsonvalue"
	"github.com/shapescript-lang/shapescript/internal/lexer"
	"github.com/shapescript-lang/shapescript/internal/parser"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/ast"
)

// evalImport resolves and loads an `import` statement (spec.md §4.6),
// dispatching on the resolved URL's extension. The loaded value is
// appended to ctx's children like any other expression statement's
// result, which is how a `.shape` sub-program's emitted geometry (or a
// `.txt`/`.json` resource's value) reaches the importing program's
// output tree.
func evalImport(ctx *context.Context, s *ast.ImportStatement) error {
	pathVal, err := evalExpr(ctx, s.Path)
	if err != nil {
		return err
	}
	pathStr, err := values.Convert(pathVal, values.String())
	if err != nil {
		return errors.TypeMismatch(s.Rng, "import", "string", pathVal.Type().String())
	}
	name := pathStr.(*values.StringValue).Value

	for _, inProgress := range ctx.ImportStack {
		if inProgress == name {
			return errors.CyclicImport(s.Rng, name)
		}
	}

	if ctx.Delegate == nil {
		return errors.FileNotFound(s.Rng, name, "")
	}
	data, resolvedURL, err := ctx.Delegate.ResolveImport(ctx.SourceURL, name)
	if err != nil {
		return errors.FileNotFound(s.Rng, name, ctx.SourceURL)
	}

	val, err := loadImport(ctx, resolvedURL, data, s)
	if err != nil {
		return err
	}
	if _, isVoid := val.(*values.VoidValue); !isVoid {
		ctx.EmitChild(val)
	}
	return nil
}

func loadImport(ctx *context.Context, resolvedURL string, data []byte, s *ast.ImportStatement) (values.Value, error) {
	switch strings.ToLower(path.Ext(resolvedURL)) {
	case ".shape":
		return loadShapeImport(ctx, resolvedURL, data, s)
	case ".txt":
		return &values.StringValue{Value: string(data)}, nil
	case ".json":
		parsed, ok := jsonvalue.Parse(string(data))
		if !ok {
			return nil, errors.AssertionFailure(s.Rng, "invalid JSON in "+resolvedURL)
		}
		return values.FromJSON(parsed), nil
	case ".obj", ".stl", ".ply":
		// No mesh-file parser is wired (no pool library covers these
		// formats); importing one succeeds with an empty mesh rather
		// than failing the whole program.
		return &values.MeshValue{}, nil
	default:
		return nil, errors.FileNotFound(s.Rng, resolvedURL, "unsupported import extension")
	}
}

func loadShapeImport(ctx *context.Context, resolvedURL string, data []byte, s *ast.ImportStatement) (values.Value, error) {
	l := lexer.New(string(data), lexer.WithFileName(resolvedURL))
	prog, perrs := parser.ParseProgram(l, resolvedURL)
	if len(perrs) > 0 {
		return nil, errors.AssertionFailure(s.Rng, "syntax error in "+resolvedURL+": "+perrs[0].Error())
	}

	sub := ctx.PushChildScope()
	sub.SourceURL = resolvedURL
	sub.ImportStack = append(sub.ImportStack, resolvedURL)

	if err := EvalProgram(sub, prog); err != nil {
		return nil, err
	}
	return tupleOrSingle(sub.Children()), nil
}
