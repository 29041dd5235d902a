package shapescript

import (
	"strings"

	ctxpkg "github.com/shapescript-lang/shapescript/internal/context"
	"github.com/shapescript-lang/shapescript/internal/values"
)

// logCollector wraps a Delegate so every Log call is both forwarded
// to the underlying delegate (so a CLI still sees output as it
// happens) and recorded for Result.Log.
type logCollector struct {
	ctxpkg.Delegate
	lines []string
}

func (c *logCollector) Log(args ...values.Value) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	c.lines = append(c.lines, strings.Join(parts, " "))
	c.Delegate.Log(args...)
}
