// Package ast defines the ShapeScript abstract syntax tree (spec.md
// §3.2). Every node carries its source Range so later components
// (evaluator, static inferencer, error formatter) can always point
// back at the exact text that produced it.
package ast

import "github.com/shapescript-lang/shapescript/pkg/token"

// Node is implemented by every AST node.
type Node interface {
	Range() token.Range
	String() string
}

// Statement is implemented by every statement-level node (spec.md
// §3.2's statement variants).
type Statement interface {
	Node
	statementNode()
}

// Expression is implemented by every expression-level node.
type Expression interface {
	Node
	expressionNode()
}

// Body is an ordered sequence of statements with its own source range.
type Body struct {
	Statements []Statement
	Rng        token.Range
}

func (b *Body) Range() token.Range { return b.Rng }

func (b *Body) String() string {
	s := ""
	for i, st := range b.Statements {
		if i > 0 {
			s += "\n"
		}
		s += st.String()
	}
	return s
}

// Program is the root of a parsed ShapeScript source file.
type Program struct {
	Body   *Body
	Source string
	URL    string
}

func (p *Program) String() string {
	if p.Body == nil {
		return ""
	}
	return p.Body.String()
}
