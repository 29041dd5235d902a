package ast

import (
	"strconv"
	"strings"

	"github.com/shapescript-lang/shapescript/pkg/token"
)

// NumberLiteral is a numeric literal.
type NumberLiteral struct {
	Value float64
	Rng   token.Range
}

func (e *NumberLiteral) expressionNode()    {}
func (e *NumberLiteral) Range() token.Range { return e.Rng }
func (e *NumberLiteral) String() string     { return strconv.FormatFloat(e.Value, 'g', -1, 64) }

// StringLiteral is a decoded double-quoted string literal.
type StringLiteral struct {
	Value string
	Rng   token.Range
}

func (e *StringLiteral) expressionNode()    {}
func (e *StringLiteral) Range() token.Range { return e.Rng }
func (e *StringLiteral) String() string     { return strconv.Quote(e.Value) }

// HexColorLiteral is a `#rgb`/`#rgba`/`#rrggbb`/`#rrggbbaa` literal.
type HexColorLiteral struct {
	Digits string
	Rng    token.Range
}

func (e *HexColorLiteral) expressionNode()    {}
func (e *HexColorLiteral) Range() token.Range { return e.Rng }
func (e *HexColorLiteral) String() string     { return "#" + e.Digits }

// Identifier is a bare name reference.
type Identifier struct {
	Name string
	Rng  token.Range
}

func (e *Identifier) expressionNode()    {}
func (e *Identifier) Range() token.Range { return e.Rng }
func (e *Identifier) String() string     { return e.Name }

// MemberExpr is `LHS.name`.
type MemberExpr struct {
	Target Expression
	Name   string
	Rng    token.Range
}

func (e *MemberExpr) expressionNode()    {}
func (e *MemberExpr) Range() token.Range { return e.Rng }
func (e *MemberExpr) String() string     { return e.Target.String() + "." + e.Name }

// SubscriptExpr is `LHS[INDEX]`.
type SubscriptExpr struct {
	Target Expression
	Index  Expression
	Rng    token.Range
}

func (e *SubscriptExpr) expressionNode()    {}
func (e *SubscriptExpr) Range() token.Range { return e.Rng }
func (e *SubscriptExpr) String() string     { return e.Target.String() + "[" + e.Index.String() + "]" }

// TupleExpr is a parenthesised, space-separated list of expressions.
type TupleExpr struct {
	Elements []Expression
	Rng      token.Range
}

func (e *TupleExpr) expressionNode()    {}
func (e *TupleExpr) Range() token.Range { return e.Rng }
func (e *TupleExpr) String() string {
	if len(e.Elements) == 1 {
		switch e.Elements[0].(type) {
		case *InfixExpr, *PrefixExpr:
			// Already parenthesised by its own String.
			return e.Elements[0].String()
		}
	}
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = el.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// BlockExpr is `NAME { ... }` used in expression position (e.g. as a
// builder's child or a command's argument).
type BlockExpr struct {
	Name string
	Body *Body
	Rng  token.Range
}

func (e *BlockExpr) expressionNode()    {}
func (e *BlockExpr) Range() token.Range { return e.Rng }
func (e *BlockExpr) String() string     { return e.Name + " {" + e.Body.String() + "}" }

// InfixExpr is a binary operator expression.
type InfixExpr struct {
	Left  Expression
	Op    token.Op
	Right Expression
	Rng   token.Range
}

func (e *InfixExpr) expressionNode()    {}
func (e *InfixExpr) Range() token.Range { return e.Rng }
func (e *InfixExpr) String() string {
	return "(" + e.Left.String() + " " + string(e.Op) + " " + e.Right.String() + ")"
}

// PrefixExpr is a unary operator expression.
type PrefixExpr struct {
	Op    token.Op
	Right Expression
	Rng   token.Range
}

func (e *PrefixExpr) expressionNode()    {}
func (e *PrefixExpr) Range() token.Range { return e.Rng }
func (e *PrefixExpr) String() string {
	if e.Op == token.OpNot {
		return "(not " + e.Right.String() + ")"
	}
	return "(" + string(e.Op) + e.Right.String() + ")"
}

// CallExpr applies an identifier to one or more juxtaposed
// parenthesised tuple groups, e.g. `sum (1 2) (3 4 5 6)`. spec.md §3.2
// does not list a dedicated "call" expression variant because at
// statement level this shape is parsed as a CommandStatement; CallExpr
// is the expression-position rendering of the same juxtaposition rule
// for when it appears nested inside another expression (see
// DESIGN.md's Open Question decisions).
type CallExpr struct {
	Callee *Identifier
	Args   []*TupleExpr
	Rng    token.Range
}

func (e *CallExpr) expressionNode()    {}
func (e *CallExpr) Range() token.Range { return e.Rng }
func (e *CallExpr) String() string {
	s := e.Callee.String()
	for _, a := range e.Args {
		s += a.String()
	}
	return s
}
