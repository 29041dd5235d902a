// Command shapescript is the ShapeScript CLI: run, parse, and lex
// ShapeScript programs.
package main

import (
	"fmt"
	"os"

	"github.com/shapescript-lang/shapescript/cmd/shapescript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
