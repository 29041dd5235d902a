// Package parser builds a ShapeScript pkg/ast.Program from the tokens
// produced by internal/lexer, using a Pratt (operator-precedence)
// recursive-descent design: parsePrefix switches on the current
// token's type, a precedences map ranks the infix operators, and a
// two-token (cur/peek) lookahead buffer drives both.
package parser

import (
	"strconv"

	"github.com/shapescript-lang/shapescript/internal/lexer"
	"github.com/shapescript-lang/shapescript/pkg/ast"
	"github.com/shapescript-lang/shapescript/pkg/token"
)

// Precedence tiers, lowest to highest binding power (spec.md §4.2).
const (
	LOWEST int = iota
	OR
	AND
	IN
	EQUALITY   // = <>
	COMPARISON // < <= > >=
	STEP
	TO
	SUM     // + -
	PRODUCT // * /
	PREFIX  // unary not / - / +
)

var precedences = map[token.Op]int{
	token.OpOr:    OR,
	token.OpAnd:   AND,
	token.OpIn:    IN,
	token.OpEq:    EQUALITY,
	token.OpNotEq: EQUALITY,
	token.OpLt:    COMPARISON,
	token.OpLtEq:  COMPARISON,
	token.OpGt:    COMPARISON,
	token.OpGtEq:  COMPARISON,
	token.OpStep:  STEP,
	token.OpTo:    TO,
	token.OpAdd:   SUM,
	token.OpSub:   SUM,
	token.OpMul:   PRODUCT,
	token.OpDiv:   PRODUCT,
}

// nonAssociative marks the tiers that spec.md §4.2/§8 scenario 3
// forbid chaining (`1 < 2 < 3` is a parse error, not left-to-right).
// STEP is included so a range accepts at most one `step` clause
// (`1 to 10 step 2 step 3` is rejected rather than silently applying
// the second step).
var nonAssociative = map[int]bool{
	COMPARISON: true,
	EQUALITY:   true,
	STEP:       true,
}

// Parser turns a token stream into an *ast.Program.
type Parser struct {
	lex  *lexer.Lexer
	cur  token.Token
	peek token.Token

	errors  []*Error
	fatal   bool // set once a non-associative chain or other hard error aborts parsing
	noBlock bool // set while parsing an if/for/switch head, whose `{` opens the statement's own body
}

// New constructs a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{lex: l}
	p.cur = p.lex.Next()
	p.peek = p.lex.Next()
	return p
}

// Errors returns the parse errors accumulated so far, in source order.
func (p *Parser) Errors() []*Error { return p.errors }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) addError(err *Error) {
	p.errors = append(p.errors, err)
}

func (p *Parser) errorExpected(expected string) {
	p.addError(&Error{Got: p.cur, Expected: expected, Rng: p.cur.Range})
}

func (p *Parser) errorUnexpected() {
	suggestion := ""
	if p.cur.Type == token.IDENT {
		suggestion = suggestionFor(p.cur.Literal)
	}
	p.addError(&Error{Got: p.cur, Suggestion: suggestion, Rng: p.cur.Range})
}

// ParseProgram parses the whole token stream as a program body.
func ParseProgram(l *lexer.Lexer, name string) (*ast.Program, []*Error) {
	p := New(l)
	body := p.parseBody()
	return &ast.Program{Body: body, URL: name}, p.errors
}

func (p *Parser) atClose() bool {
	return p.cur.Type == token.EOF || p.cur.Type == token.RBRACE
}

// parseBody parses statements, separated by one-or-more LINEBREAKs,
// until EOF or a closing brace (the brace itself is left unconsumed
// for the caller to expect()).
func (p *Parser) parseBody() *ast.Body {
	start := p.cur.Range
	p.skipBreaks()

	var stmts []ast.Statement
	for !p.atClose() && !p.fatal {
		before := p.cur
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.endStatement()
		if p.cur == before && !p.atClose() {
			// Guard against an error path that consumed nothing.
			p.next()
		}
	}

	end := p.cur.Range
	return &ast.Body{Statements: stmts, Rng: token.Range{Start: start.Start, End: end.Start}}
}

func (p *Parser) skipBreaks() {
	for p.cur.Type == token.LINEBREAK {
		p.next()
	}
}

// endStatement consumes the statement terminator: one or more
// LINEBREAKs, or does nothing at EOF/RBRACE (the enclosing parseBody
// loop stops there).
func (p *Parser) endStatement() {
	if p.atClose() || p.fatal {
		return
	}
	if p.cur.Type != token.LINEBREAK {
		p.errorUnexpected()
		p.fatal = true
		return
	}
	p.skipBreaks()
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.KEYWORD:
		switch p.cur.Keyword {
		case token.KwDefine:
			return p.parseDefine()
		case token.KwOption:
			return p.parseOption()
		case token.KwFor:
			return p.parseFor()
		case token.KwIf:
			return p.parseIf()
		case token.KwSwitch:
			return p.parseSwitch()
		case token.KwImport:
			return p.parseImport()
		default:
			p.errorUnexpected()
			p.next()
			return nil
		}
	case token.IDENT:
		return p.parseIdentStatement()
	case token.EOF, token.RBRACE:
		return nil
	default:
		expr := p.parseJuxtaposition()
		return &ast.ExpressionStatement{Value: expr}
	}
}

// parseIdentStatement handles the statement-head ambiguity between a
// command (`color red`, `cube { ... }`), a bare value-returning
// command with no argument (`center`), and an expression statement
// that happens to start with a call (`sum (1 2) (3 4)` used for its
// side effect / unusedValue warning).
func (p *Parser) parseIdentStatement() ast.Statement {
	nameTok := p.cur
	name := nameTok.Literal
	p.next()

	// At statement head, `NAME (...)` is a command whose tuple-of-groups
	// argument is built by the ordinary juxtaposition path below — it is
	// only a CallExpr in nested expression position (spec.md §4.2's
	// command/call disambiguation: compare scenario 6's top-level
	// `print sum (1 2) (3 4 5 6) (7 8 9)`, where `sum(...)` is a call
	// only because it sits inside `print`'s argument). `NAME { ... }`
	// has no such ambiguity: a block is unconditionally a single
	// expression wherever it appears.
	primary, isBlock := p.parseIdentTail(nameTok, false)
	if isBlock {
		expr := p.parsePostfix(primary)
		expr = p.parseInfixChain(expr, LOWEST)
		return &ast.ExpressionStatement{Value: expr}
	}

	// primary is a bare identifier. `.`/`[` or a following infix
	// operator continue it as a single expression; anything else
	// starting a new operand (spec.md §4.2's juxtaposition rule) makes
	// this a command with NAME as the command identifier.
	if p.cur.Type == token.DOT || p.cur.Type == token.LBRACK {
		expr := p.parsePostfix(primary)
		expr = p.parseInfixChain(expr, LOWEST)
		return &ast.ExpressionStatement{Value: expr}
	}
	if _, _, ok := p.currentOpInfo(); ok {
		expr := p.parseInfixChain(primary, LOWEST)
		return &ast.ExpressionStatement{Value: expr}
	}

	if p.statementEnded() {
		return &ast.CommandStatement{Name: name, Rng: nameTok.Range}
	}

	arg := p.parseJuxtaposition()
	return &ast.CommandStatement{
		Name:     name,
		Argument: arg,
		Rng:      token.Range{Start: nameTok.Range.Start, End: arg.Range().End},
	}
}

// parseIdentTail builds the primary expression headed by an already
// consumed identifier token: a `(...)` call (only when allowCall, i.e.
// in nested expression position), a `{ ... }` block (except in an
// if/for/switch head), or (reporting false) the bare identifier itself.
func (p *Parser) parseIdentTail(nameTok token.Token, allowCall bool) (ast.Expression, bool) {
	ident := &ast.Identifier{Name: nameTok.Literal, Rng: nameTok.Range}
	switch {
	case allowCall && p.cur.Type == token.LPAREN:
		return p.parseCallTail(ident), true
	case p.cur.Type == token.LBRACE && !p.noBlock:
		body := p.parseBraceBody()
		return &ast.BlockExpr{Name: nameTok.Literal, Body: body, Rng: token.Range{Start: nameTok.Range.Start, End: body.Rng.End}}, true
	default:
		return ident, false
	}
}

func (p *Parser) statementEnded() bool {
	return p.cur.Type == token.LINEBREAK || p.cur.Type == token.EOF || p.cur.Type == token.RBRACE
}

// parseJuxtaposition parses one or more space-separated operands as
// the argument of a command, collapsing into a TupleExpr when there
// is more than one (spec.md §4.2's implicit tuple rule), or returning
// the single operand unwrapped.
func (p *Parser) parseJuxtaposition() ast.Expression {
	first := p.parseExpression(LOWEST)
	elems := []ast.Expression{first}
	for p.canStartOperand() && !p.fatal {
		elems = append(elems, p.parseExpression(LOWEST))
	}
	if len(elems) == 1 {
		return elems[0]
	}
	return &ast.TupleExpr{
		Elements: elems,
		Rng:      token.Range{Start: elems[0].Range().Start, End: elems[len(elems)-1].Range().End},
	}
}

func (p *Parser) canStartOperand() bool {
	switch p.cur.Type {
	case token.NUMBER, token.STRING, token.HEXCOLOR, token.IDENT, token.LPAREN, token.PREFIX:
		return true
	}
	return false
}

func (p *Parser) parseDefine() ast.Statement {
	start := p.cur.Range
	p.next() // consume 'define'
	if p.cur.Type != token.IDENT {
		p.errorExpected("Expected a name after 'define'.")
		return nil
	}
	name := p.cur.Literal
	p.next()

	var def ast.Definition
	switch {
	case p.cur.Type == token.LPAREN:
		def = p.parseFunctionDef()
	case p.cur.Type == token.LBRACE:
		def = &ast.BlockDef{Body: p.parseBraceBody()}
	case p.statementEnded():
		p.errorExpected("Expected a value, block, or function after 'define " + name + "'.")
		return nil
	default:
		def = &ast.ExpressionDef{Value: p.parseJuxtaposition()}
	}
	if def == nil {
		return nil
	}
	return &ast.DefineStatement{Name: name, Definition: def, Rng: token.Range{Start: start.Start, End: def.Range().End}}
}

func (p *Parser) parseFunctionDef() *ast.FunctionDef {
	p.expect(token.LPAREN, "Expected '(' to start a parameter list.")
	var params []string
	for p.cur.Type != token.RPAREN && p.cur.Type != token.EOF {
		if p.cur.Type != token.IDENT {
			p.errorExpected("Expected a parameter name.")
			break
		}
		params = append(params, p.cur.Literal)
		p.next()
	}
	p.expect(token.RPAREN, "Expected ')' to close the parameter list.")
	body := p.parseBraceBody()
	return &ast.FunctionDef{Params: params, Body: body}
}

func (p *Parser) parseOption() ast.Statement {
	start := p.cur.Range
	p.next() // consume 'option'
	if p.cur.Type != token.IDENT {
		p.errorExpected("Expected a name after 'option'.")
		return nil
	}
	name := p.cur.Literal
	nameRng := p.cur.Range
	p.next()

	var def ast.Expression
	if !p.statementEnded() {
		def = p.parseJuxtaposition()
	}
	end := nameRng.End
	if def != nil {
		end = def.Range().End
	}
	return &ast.OptionStatement{Name: name, Default: def, Rng: token.Range{Start: start.Start, End: end}}
}

// parseHeadExpression parses the iterable, condition, or subject of a
// for/if/switch, where a trailing `NAME {` is NAME followed by the
// statement's body rather than a block invocation.
func (p *Parser) parseHeadExpression() ast.Expression {
	saved := p.noBlock
	p.noBlock = true
	defer func() { p.noBlock = saved }()
	return p.parseExpression(LOWEST)
}

func (p *Parser) parseFor() ast.Statement {
	start := p.cur.Range
	p.next() // consume 'for'

	stmt := &ast.ForStatement{Rng: start}
	if p.cur.Type == token.IDENT && p.peek.Type == token.INFIX && p.peek.Op == token.OpIn {
		stmt.Index = p.cur.Literal
		stmt.HasIndex = true
		p.next() // ident
		p.next() // 'in'
	}

	if p.cur.Type == token.LBRACE || p.statementEnded() {
		p.errorExpected("Expected a range to loop over.")
		return nil
	}
	stmt.Iterable = p.parseHeadExpression()
	if p.cur.Type != token.LBRACE {
		p.errorExpected("Expected a loop body.")
		return nil
	}
	stmt.Body = p.parseBraceBody()
	stmt.Rng.End = stmt.Body.Rng.End
	return stmt
}

func (p *Parser) parseIf() ast.Statement {
	start := p.cur.Range
	p.next() // consume 'if'

	if p.cur.Type == token.LBRACE || p.statementEnded() {
		p.errorExpected("Expected a condition.")
		return nil
	}
	cond := p.parseHeadExpression()
	if p.cur.Type != token.LBRACE {
		p.errorExpected("Expected a body.")
		return nil
	}
	then := p.parseBraceBody()
	stmt := &ast.IfStatement{Condition: cond, Then: then, Rng: token.Range{Start: start.Start, End: then.Rng.End}}

	p.skipBreaksBeforeElse()
	if p.cur.Type == token.KEYWORD && p.cur.Keyword == token.KwElse {
		p.next() // consume 'else'
		if p.cur.Type == token.KEYWORD && p.cur.Keyword == token.KwIf {
			nested := p.parseIf()
			if nested == nil {
				return stmt
			}
			nestedIf := nested.(*ast.IfStatement)
			stmt.Else = &ast.Body{
				Statements: []ast.Statement{nestedIf},
				Rng:        nestedIf.Rng,
			}
		} else if p.cur.Type == token.LBRACE {
			stmt.Else = p.parseBraceBody()
		} else {
			p.errorExpected("Expected a body after 'else'.")
			return stmt
		}
		stmt.Rng.End = stmt.Else.Rng.End
	}
	return stmt
}

// skipBreaksBeforeElse allows `}` LINEBREAK* `else` so an else clause
// may start on its own line, without letting parseBody's caller treat
// the linebreaks as ending the if-statement before the else is seen.
func (p *Parser) skipBreaksBeforeElse() {
	save := p.lex.Save()
	cur, peek := p.cur, p.peek
	p.skipBreaks()
	if !(p.cur.Type == token.KEYWORD && p.cur.Keyword == token.KwElse) {
		p.lex.Restore(save)
		p.cur, p.peek = cur, peek
	}
}

func (p *Parser) parseSwitch() ast.Statement {
	start := p.cur.Range
	p.next() // consume 'switch'

	if p.cur.Type == token.LBRACE || p.statementEnded() {
		p.errorExpected("Expected a value to switch on.")
		return nil
	}
	subject := p.parseHeadExpression()
	if !p.expect(token.LBRACE, "Expected '{' to start the switch body.") {
		return nil
	}
	p.skipBreaks()

	stmt := &ast.SwitchStatement{Subject: subject}
	sawElse := false
	for p.cur.Type != token.RBRACE && p.cur.Type != token.EOF && !p.fatal {
		switch {
		case p.cur.Type == token.KEYWORD && p.cur.Keyword == token.KwCase:
			if sawElse {
				p.errorExpected("'case' cannot follow 'else' in a switch.")
				p.fatal = true
				break
			}
			p.next()
			if p.statementEnded() {
				p.errorExpected("Expected a case pattern.")
				p.fatal = true
				break
			}
			pattern := p.parseJuxtaposition()
			p.endStatement()
			body := p.parseCaseBody()
			stmt.Cases = append(stmt.Cases, ast.Case{Pattern: pattern, Body: body})
		case p.cur.Type == token.KEYWORD && p.cur.Keyword == token.KwElse:
			sawElse = true
			p.next()
			p.endStatement()
			stmt.Default = p.parseCaseBody()
		default:
			p.errorExpected("Expected 'case' or 'else'.")
			p.fatal = true
		}
	}
	end := p.cur.Range
	p.expect(token.RBRACE, "Expected '}' to close the switch body.")
	stmt.Rng = token.Range{Start: start.Start, End: end.End}
	return stmt
}

// parseCaseBody reads statements until the next `case`, `else`, or the
// switch's closing brace.
func (p *Parser) parseCaseBody() *ast.Body {
	start := p.cur.Range
	var stmts []ast.Statement
	for !p.atCaseBoundary() && !p.fatal {
		before := p.cur
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.endStatement()
		if p.cur == before && !p.atCaseBoundary() {
			p.next()
		}
	}
	return &ast.Body{Statements: stmts, Rng: token.Range{Start: start.Start, End: p.cur.Range.Start}}
}

func (p *Parser) atCaseBoundary() bool {
	if p.atClose() {
		return true
	}
	return p.cur.Type == token.KEYWORD && (p.cur.Keyword == token.KwCase || p.cur.Keyword == token.KwElse)
}

func (p *Parser) parseImport() ast.Statement {
	start := p.cur.Range
	p.next() // consume 'import'
	if p.statementEnded() {
		p.errorExpected("Expected a path after 'import'.")
		return nil
	}
	path := p.parseJuxtaposition()
	return &ast.ImportStatement{Path: path, Rng: token.Range{Start: start.Start, End: path.Range().End}}
}

// parseBraceBody expects and consumes a `{ ... }` block.
func (p *Parser) parseBraceBody() *ast.Body {
	start := p.cur.Range
	if !p.expect(token.LBRACE, "Expected '{'.") {
		return &ast.Body{Rng: start}
	}
	body := p.parseBody()
	body.Rng.Start = start.Start
	end := p.cur.Range
	p.expect(token.RBRACE, "Expected '}'.")
	body.Rng.End = end.End
	return body
}

func (p *Parser) expect(typ token.Type, msg string) bool {
	if p.cur.Type == typ {
		p.next()
		return true
	}
	p.errorExpected(msg)
	return false
}

// --- expression parsing (Pratt / precedence climbing) ---

func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parsePrefix()
	for !p.fatal {
		op, prec, ok := p.currentOpInfo()
		if !ok || prec <= minPrec {
			break
		}
		opTok := p.cur
		p.next()
		right := p.parseExpression(prec)
		left = &ast.InfixExpr{Left: left, Op: op, Right: right, Rng: token.Range{Start: left.Range().Start, End: right.Range().End}}

		if nonAssociative[prec] {
			if _, nextPrec, ok := p.currentOpInfo(); ok && nextPrec == prec {
				p.addError(&Error{Got: p.cur, Expected: "'" + string(opTok.Op) + "' does not chain; parenthesise to disambiguate.", Rng: p.cur.Range})
				p.fatal = true
			}
			break
		}
	}
	return left
}

// currentOpInfo reports the operator and precedence of p.cur if it is
// usable as an infix operator in the current position.
func (p *Parser) currentOpInfo() (token.Op, int, bool) {
	if p.cur.Type != token.INFIX {
		return "", 0, false
	}
	prec, ok := precedences[p.cur.Op]
	return p.cur.Op, prec, ok
}

// parseInfixChain continues parsing infix operators starting from an
// already-parsed left operand (used after a glued function call at
// statement head, e.g. `sum(1 2) + 1`).
func (p *Parser) parseInfixChain(left ast.Expression, minPrec int) ast.Expression {
	for !p.fatal {
		op, prec, ok := p.currentOpInfo()
		if !ok || prec <= minPrec {
			break
		}
		p.next()
		right := p.parseExpression(prec)
		left = &ast.InfixExpr{Left: left, Op: op, Right: right, Rng: token.Range{Start: left.Range().Start, End: right.Range().End}}
		if nonAssociative[prec] {
			if _, nextPrec, ok := p.currentOpInfo(); ok && nextPrec == prec {
				p.addError(&Error{Got: p.cur, Rng: p.cur.Range})
				p.fatal = true
			}
			break
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.cur.Type {
	case token.NUMBER:
		tok := p.cur
		p.next()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			v = 0
		}
		return p.parsePostfix(&ast.NumberLiteral{Value: v, Rng: tok.Range})
	case token.STRING:
		tok := p.cur
		p.next()
		return p.parsePostfix(&ast.StringLiteral{Value: tok.Literal, Rng: tok.Range})
	case token.HEXCOLOR:
		tok := p.cur
		p.next()
		return p.parsePostfix(&ast.HexColorLiteral{Digits: tok.Literal, Rng: tok.Range})
	case token.LPAREN:
		return p.parsePostfix(p.parseParenGroup())
	case token.PREFIX:
		tok := p.cur
		p.next()
		right := p.parseExpression(PREFIX)
		return &ast.PrefixExpr{Op: tok.Op, Right: right, Rng: token.Range{Start: tok.Range.Start, End: right.Range().End}}
	case token.IDENT:
		tok := p.cur
		p.next()
		expr, _ := p.parseIdentTail(tok, true)
		return p.parsePostfix(expr)
	default:
		p.errorExpected("Expected an expression.")
		p.fatal = true
		return &ast.Identifier{Name: "", Rng: p.cur.Range}
	}
}

// parseCallTail consumes one or more juxtaposed parenthesised tuple
// groups applied to callee, e.g. `sum (1 2) (3 4 5 6)`.
func (p *Parser) parseCallTail(callee *ast.Identifier) ast.Expression {
	var args []*ast.TupleExpr
	for p.cur.Type == token.LPAREN {
		args = append(args, p.parseParenGroup())
	}
	last := args[len(args)-1]
	return &ast.CallExpr{Callee: callee, Args: args, Rng: token.Range{Start: callee.Rng.Start, End: last.Rng.End}}
}

// parseParenGroup parses a parenthesised, space-separated list of
// expressions. A single element is ordinary grouping; more than one
// is a tuple literal (spec.md §3.4's tuple conversions apply either
// way once the value system sees it).
func (p *Parser) parseParenGroup() *ast.TupleExpr {
	start := p.cur.Range
	p.next() // consume '('
	var elems []ast.Expression
	for p.cur.Type != token.RPAREN && p.cur.Type != token.EOF && !p.fatal {
		elems = append(elems, p.parseExpression(LOWEST))
	}
	end := p.cur.Range
	p.expect(token.RPAREN, "Expected ')'.")
	return &ast.TupleExpr{Elements: elems, Rng: token.Range{Start: start.Start, End: end.End}}
}

func (p *Parser) parsePostfix(expr ast.Expression) ast.Expression {
	for {
		switch p.cur.Type {
		case token.DOT:
			p.next()
			if p.cur.Type != token.IDENT {
				p.errorExpected("Expected a member name after '.'.")
				return expr
			}
			nameTok := p.cur
			p.next()
			expr = &ast.MemberExpr{Target: expr, Name: nameTok.Literal, Rng: token.Range{Start: expr.Range().Start, End: nameTok.Range.End}}
		case token.LBRACK:
			p.next()
			index := p.parseExpression(LOWEST)
			end := p.cur.Range
			p.expect(token.RBRACK, "Expected ']'.")
			expr = &ast.SubscriptExpr{Target: expr, Index: index, Rng: token.Range{Start: expr.Range().Start, End: end.End}}
		default:
			return expr
		}
	}
}
