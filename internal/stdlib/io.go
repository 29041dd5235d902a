package stdlib

import (
	"github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/values"
	"github.com/shapescript-lang/shapescript/pkg/token"
)

// RegisterIO wires print, which forwards its arguments to the host
// delegate's log sink (spec.md §4.7, §7's "log" output).
func RegisterIO(r *Registry) {
	r.Function("print", printFn, CategoryIO, "Logs its arguments via the host delegate.")
}

func printFn(ctx *context.Context, args []values.Value, rng token.Range) (values.Value, error) {
	if ctx.Delegate != nil {
		ctx.Delegate.Log(args...)
	}
	return values.Void_, nil
}
