package stdlib

import (
	"strings"

	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/errors"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/token"
)

// RegisterStrings wires split, join, and trim. The member forms
// (.words, .characters, .lines) are handled directly by the
// evaluator's member-access table, not here.
func RegisterStrings(r *Registry) {
	r.Function("split", splitFn, CategoryString, "Splits a string on a separator into a tuple of strings.")
	r.Function("join", joinFn, CategoryString, "Joins a tuple of strings with a separator.")
	r.Function("trim", trimFn, CategoryString, "Trims leading and trailing whitespace from a string.")
}

func splitFn(ctx *context.Context, args []values.Value, rng token.Range) (values.Value, error) {
	if len(args) != 2 {
		return nil, errors.MissingArgument(rng, "split", "string, separator")
	}
	s, err := stringOf(args[0])
	if err != nil {
		return nil, errors.TypeMismatch(rng, "split", "string", args[0].Type().String())
	}
	sep, err := stringOf(args[1])
	if err != nil {
		return nil, errors.TypeMismatch(rng, "split", "string", args[1].Type().String())
	}
	parts := strings.Split(s, sep)
	out := make([]values.Value, len(parts))
	for i, p := range parts {
		out[i] = &values.StringValue{Value: p}
	}
	return &values.TupleValue{Elements: out}, nil
}

func joinFn(ctx *context.Context, args []values.Value, rng token.Range) (values.Value, error) {
	if len(args) != 2 {
		return nil, errors.MissingArgument(rng, "join", "tuple of strings, separator")
	}
	sep, err := stringOf(args[1])
	if err != nil {
		return nil, errors.TypeMismatch(rng, "join", "string", args[1].Type().String())
	}
	tup, ok := args[0].(*values.TupleValue)
	if !ok {
		return nil, errors.TypeMismatch(rng, "join", "tuple of strings", args[0].Type().String())
	}
	parts := make([]string, len(tup.Elements))
	for i, e := range tup.Elements {
		s, err := stringOf(e)
		if err != nil {
			return nil, errors.TypeMismatch(rng, "join", "string", e.Type().String())
		}
		parts[i] = s
	}
	return &values.StringValue{Value: strings.Join(parts, sep)}, nil
}

func trimFn(ctx *context.Context, args []values.Value, rng token.Range) (values.Value, error) {
	if len(args) != 1 {
		return nil, errors.MissingArgument(rng, "trim", "string")
	}
	s, err := stringOf(args[0])
	if err != nil {
		return nil, errors.TypeMismatch(rng, "trim", "string", args[0].Type().String())
	}
	return &values.StringValue{Value: strings.TrimSpace(s)}, nil
}

func stringOf(v values.Value) (string, error) {
	s, err := values.Convert(v, values.String())
	if err != nil {
		return "", err
	}
	return s.(*values.StringValue).Value, nil
}
