package shapescript

import "github.com/shapescript-lang/shapescript/internal/values"

// Result is a single Eval/Run outcome (spec.md §6's "program
// outputs"): the root context's emitted children, anything logged via
// print/debug_log, and whether evaluation completed successfully. On
// failure the returned error from Eval/Run carries the fatal cause;
// Children and Log still reflect whatever was emitted before the
// failure.
type Result struct {
	RunID    string
	Success  bool
	Children []values.Value
	Log      []string
}

// Output joins every logged line, mirroring a CLI's captured stdout.
func (r Result) Output() string {
	out := ""
	for i, line := range r.Log {
		if i > 0 {
			out += "\n"
		}
		out += line
	}
	return out
}
