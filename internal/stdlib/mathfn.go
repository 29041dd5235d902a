package stdlib

import (
	"math"
	"math/rand"

	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/errors"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/token"
)

// RegisterMath wires the numeric and vector built-ins spec.md §4.7
// lists: sum, length, normalize, dot, cross, rounding, trig, min/max,
// pi, and rnd.
func RegisterMath(r *Registry) {
	r.Function("pi", constFn(math.Pi), CategoryMath, "The constant pi.")

	unary := map[string]func(float64) float64{
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"round": math.Round,
		"abs":   math.Abs,
		"sqrt":  math.Sqrt,
		"cos":   func(h float64) float64 { return math.Cos(h * math.Pi) },
		"sin":   func(h float64) float64 { return math.Sin(h * math.Pi) },
		"tan":   func(h float64) float64 { return math.Tan(h * math.Pi) },
		"acos":  func(x float64) float64 { return math.Acos(x) / math.Pi },
		"asin":  func(x float64) float64 { return math.Asin(x) / math.Pi },
	}
	for name, fn := range unary {
		fn := fn
		r.Function(name, unaryNumberFn(name, fn), CategoryMath, "Numeric function "+name+".")
	}

	r.Function("atan", naryNumberFn("atan", func(a []float64) float64 {
		if len(a) >= 2 {
			return math.Atan2(a[0], a[1]) / math.Pi
		}
		return math.Atan(a[0]) / math.Pi
	}), CategoryMath, "Arctangent, or atan2 when given two arguments.")
	r.Function("atan2", naryNumberFn("atan2", func(a []float64) float64 {
		if len(a) < 2 {
			return 0
		}
		return math.Atan2(a[0], a[1]) / math.Pi
	}), CategoryMath, "Two-argument arctangent in half-turns.")

	r.Function("min", naryNumberFn("min", func(a []float64) float64 { return fold(a, math.Min) }), CategoryMath, "Smallest of its arguments.")
	r.Function("max", naryNumberFn("max", func(a []float64) float64 { return fold(a, math.Max) }), CategoryMath, "Largest of its arguments.")

	r.Function("rnd", rndFn, CategoryMath, "A pseudo-random number in [0, 1) from a process-wide source seeded with a fixed value; `seed` reseeds it.")
	r.Function("seed", seedFn, CategoryMath, "Reseeds the deterministic random source used by rnd.")

	r.Function("sum", sumFn, CategoryMath, "Element-wise sum, broadcasting shorter tuples with zero.")
	r.Function("length", lengthFn, CategoryMath, "The Euclidean length of a vector.")
	r.Function("normalize", normalizeFn, CategoryMath, "A unit-length copy of a vector.")
	r.Function("dot", dotFn, CategoryMath, "The dot product of two vectors.")
	r.Function("cross", crossFn, CategoryMath, "The cross product of two vectors.")
}

func constFn(v float64) context.NativeFunc {
	return func(ctx *context.Context, args []values.Value, rng token.Range) (values.Value, error) {
		return &values.NumberValue{Value: v}, nil
	}
}

func unaryNumberFn(name string, fn func(float64) float64) context.NativeFunc {
	return func(ctx *context.Context, args []values.Value, rng token.Range) (values.Value, error) {
		if len(args) != 1 {
			return nil, errors.MissingArgument(rng, name, "number")
		}
		n, err := numberOf(args[0])
		if err != nil {
			return nil, errors.TypeMismatch(rng, name, "number", args[0].Type().String())
		}
		return &values.NumberValue{Value: fn(n)}, nil
	}
}

func naryNumberFn(name string, fn func([]float64) float64) context.NativeFunc {
	return func(ctx *context.Context, args []values.Value, rng token.Range) (values.Value, error) {
		if len(args) == 0 {
			return nil, errors.MissingArgument(rng, name, "one or more numbers")
		}
		nums := make([]float64, len(args))
		for i, a := range args {
			n, err := numberOf(a)
			if err != nil {
				return nil, errors.TypeMismatch(rng, name, "number", a.Type().String())
			}
			nums[i] = n
		}
		return &values.NumberValue{Value: fn(nums)}, nil
	}
}

func fold(nums []float64, combine func(a, b float64) float64) float64 {
	out := nums[0]
	for _, n := range nums[1:] {
		out = combine(out, n)
	}
	return out
}

// randSource is process-wide so `rnd` produces a reproducible
// sequence within one program run without needing to thread state
// through every context (spec.md does not require cryptographic
// randomness, only per-run determinism given an explicit `seed`).
var randSource = rand.New(rand.NewSource(1))

func rndFn(ctx *context.Context, args []values.Value, rng token.Range) (values.Value, error) {
	return &values.NumberValue{Value: randSource.Float64()}, nil
}

func seedFn(ctx *context.Context, args []values.Value, rng token.Range) (values.Value, error) {
	if len(args) != 1 {
		return nil, errors.MissingArgument(rng, "seed", "number")
	}
	n, err := numberOf(args[0])
	if err != nil {
		return nil, errors.TypeMismatch(rng, "seed", "number", args[0].Type().String())
	}
	randSource = rand.New(rand.NewSource(int64(n)))
	return values.Void_, nil
}

// sumFn adds tuples element-wise, zero-filling the shorter operand
// (spec.md §4.7's broadcasting rule for `sum (1 2) (3 4 5 6)`).
func sumFn(ctx *context.Context, args []values.Value, rng token.Range) (values.Value, error) {
	if len(args) == 0 {
		return nil, errors.MissingArgument(rng, "sum", "one or more numbers or tuples")
	}
	var acc []float64
	for _, a := range args {
		nums, err := numbersOfArg(a)
		if err != nil {
			return nil, errors.TypeMismatch(rng, "sum", "number or tuple of numbers", a.Type().String())
		}
		if len(nums) > len(acc) {
			grown := make([]float64, len(nums))
			copy(grown, acc)
			acc = grown
		}
		for i, n := range nums {
			acc[i] += n
		}
	}
	if len(acc) == 1 {
		return &values.NumberValue{Value: acc[0]}, nil
	}
	out := make([]values.Value, len(acc))
	for i, n := range acc {
		out[i] = &values.NumberValue{Value: n}
	}
	return &values.TupleValue{Elements: out}, nil
}

func numbersOfArg(v values.Value) ([]float64, error) {
	if tup, ok := v.(*values.TupleValue); ok {
		out := make([]float64, len(tup.Elements))
		for i, e := range tup.Elements {
			n, err := numberOf(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}
	n, err := numberOf(v)
	if err != nil {
		return nil, err
	}
	return []float64{n}, nil
}

func lengthFn(ctx *context.Context, args []values.Value, rng token.Range) (values.Value, error) {
	v, err := vectorFromArgs(args)
	if err != nil {
		return nil, errors.TypeMismatch(rng, "length", "vector", "non-numeric argument")
	}
	return &values.NumberValue{Value: v.Length()}, nil
}

func normalizeFn(ctx *context.Context, args []values.Value, rng token.Range) (values.Value, error) {
	v, err := vectorFromArgs(args)
	if err != nil {
		return nil, errors.TypeMismatch(rng, "normalize", "vector", "non-numeric argument")
	}
	n := v.Normalized()
	return &values.VectorValue{X: n.X, Y: n.Y, Z: n.Z}, nil
}

func dotFn(ctx *context.Context, args []values.Value, rng token.Range) (values.Value, error) {
	if len(args) != 2 {
		return nil, errors.MissingArgument(rng, "dot", "two vectors")
	}
	a := vectorOf(args[0])
	b := vectorOf(args[1])
	return &values.NumberValue{Value: a.Dot(b)}, nil
}

func crossFn(ctx *context.Context, args []values.Value, rng token.Range) (values.Value, error) {
	if len(args) != 2 {
		return nil, errors.MissingArgument(rng, "cross", "two vectors")
	}
	a := vectorOf(args[0])
	b := vectorOf(args[1])
	c := a.Cross(b)
	return &values.VectorValue{X: c.X, Y: c.Y, Z: c.Z}, nil
}
