package parser

import (
	"testing"

	"github.com/shapescript-lang/shapescript/internal/lexer"
	"github.com/shapescript-lang/shapescript/pkg/ast"
)

func testParse(t *testing.T, input string) (*ast.Program, *Parser) {
	t.Helper()
	l := lexer.New(input, lexer.WithFileName(t.Name()))
	p := New(l)
	body := p.parseBody()
	return &ast.Program{Body: body}, p
}

func requireNoErrors(t *testing.T, p *Parser) {
	t.Helper()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
}

func TestCommandStatement(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bare", "center"},
		{"single argument", "color red"},
		{"tuple argument", "size 1 2 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, p := testParse(t, tt.input)
			requireNoErrors(t, p)
			if len(program.Body.Statements) != 1 {
				t.Fatalf("got %d statements, want 1", len(program.Body.Statements))
			}
			if _, ok := program.Body.Statements[0].(*ast.CommandStatement); !ok {
				t.Fatalf("statement is %T, want *ast.CommandStatement", program.Body.Statements[0])
			}
		})
	}
}

func TestCommandTupleArgument(t *testing.T) {
	program, p := testParse(t, "size 1 2 3")
	requireNoErrors(t, p)
	cmd := program.Body.Statements[0].(*ast.CommandStatement)
	tuple, ok := cmd.Argument.(*ast.TupleExpr)
	if !ok {
		t.Fatalf("argument is %T, want *ast.TupleExpr", cmd.Argument)
	}
	if len(tuple.Elements) != 3 {
		t.Fatalf("got %d elements, want 3", len(tuple.Elements))
	}
}

func TestBlockExpressionStatement(t *testing.T) {
	program, p := testParse(t, "cube {\n  size 1 2 3\n}")
	requireNoErrors(t, p)
	if len(program.Body.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(program.Body.Statements))
	}
	stmt, ok := program.Body.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ExpressionStatement", program.Body.Statements[0])
	}
	blk, ok := stmt.Value.(*ast.BlockExpr)
	if !ok {
		t.Fatalf("expression is %T, want *ast.BlockExpr", stmt.Value)
	}
	if blk.Name != "cube" {
		t.Errorf("block name = %q, want %q", blk.Name, "cube")
	}
	if len(blk.Body.Statements) != 1 {
		t.Fatalf("block body has %d statements, want 1", len(blk.Body.Statements))
	}
}

func TestFunctionCallExpression(t *testing.T) {
	program, p := testParse(t, "print sum (1 2) (3 4 5 6)")
	requireNoErrors(t, p)
	cmd := program.Body.Statements[0].(*ast.CommandStatement)
	call, ok := cmd.Argument.(*ast.CallExpr)
	if !ok {
		t.Fatalf("argument is %T, want *ast.CallExpr", cmd.Argument)
	}
	if call.Callee.Name != "sum" {
		t.Errorf("callee = %q, want %q", call.Callee.Name, "sum")
	}
	if len(call.Args) != 2 {
		t.Fatalf("got %d argument groups, want 2", len(call.Args))
	}
}

func TestMemberAndSubscript(t *testing.T) {
	program, p := testParse(t, "print foo.bar[1]")
	requireNoErrors(t, p)
	cmd := program.Body.Statements[0].(*ast.CommandStatement)
	sub, ok := cmd.Argument.(*ast.SubscriptExpr)
	if !ok {
		t.Fatalf("argument is %T, want *ast.SubscriptExpr", cmd.Argument)
	}
	member, ok := sub.Target.(*ast.MemberExpr)
	if !ok {
		t.Fatalf("subscript target is %T, want *ast.MemberExpr", sub.Target)
	}
	if member.Name != "bar" {
		t.Errorf("member name = %q, want %q", member.Name, "bar")
	}
}

func TestNonAssociativeComparisonChainIsAnError(t *testing.T) {
	_, p := testParse(t, "print 1 < 2 < 3")
	if len(p.Errors()) == 0 {
		t.Fatalf("expected a parse error for a chained comparison, got none")
	}
}

func TestDefineExpression(t *testing.T) {
	program, p := testParse(t, "define foo 10")
	requireNoErrors(t, p)
	def, ok := program.Body.Statements[0].(*ast.DefineStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.DefineStatement", program.Body.Statements[0])
	}
	if def.Name != "foo" {
		t.Errorf("name = %q, want %q", def.Name, "foo")
	}
	if _, ok := def.Definition.(*ast.ExpressionDef); !ok {
		t.Fatalf("definition is %T, want *ast.ExpressionDef", def.Definition)
	}
}

func TestDefineFunction(t *testing.T) {
	program, p := testParse(t, "define square(x) {\n  x * x\n}")
	requireNoErrors(t, p)
	def := program.Body.Statements[0].(*ast.DefineStatement)
	fn, ok := def.Definition.(*ast.FunctionDef)
	if !ok {
		t.Fatalf("definition is %T, want *ast.FunctionDef", def.Definition)
	}
	if len(fn.Params) != 1 || fn.Params[0] != "x" {
		t.Errorf("params = %v, want [x]", fn.Params)
	}
}

func TestOptionStatement(t *testing.T) {
	program, p := testParse(t, "option radius 1")
	requireNoErrors(t, p)
	opt, ok := program.Body.Statements[0].(*ast.OptionStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.OptionStatement", program.Body.Statements[0])
	}
	if opt.Name != "radius" {
		t.Errorf("name = %q, want %q", opt.Name, "radius")
	}
	if opt.Default == nil {
		t.Fatalf("expected a default expression")
	}
}

func TestForLoopWithIndex(t *testing.T) {
	program, p := testParse(t, "for i in 1 to 10 {\n  print i\n}")
	requireNoErrors(t, p)
	f, ok := program.Body.Statements[0].(*ast.ForStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ForStatement", program.Body.Statements[0])
	}
	if !f.HasIndex || f.Index != "i" {
		t.Errorf("index = (%q,%v), want (\"i\",true)", f.Index, f.HasIndex)
	}
	if _, ok := f.Iterable.(*ast.InfixExpr); !ok {
		t.Fatalf("iterable is %T, want *ast.InfixExpr (to)", f.Iterable)
	}
}

func TestIfElseIf(t *testing.T) {
	program, p := testParse(t, "if a = 1 {\n  print 1\n} else if a = 2 {\n  print 2\n} else {\n  print 3\n}")
	requireNoErrors(t, p)
	ifStmt, ok := program.Body.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.IfStatement", program.Body.Statements[0])
	}
	if ifStmt.Else == nil {
		t.Fatalf("expected an else clause")
	}
	if len(ifStmt.Else.Statements) != 1 {
		t.Fatalf("expected the else clause to hold the nested if, got %d statements", len(ifStmt.Else.Statements))
	}
	if _, ok := ifStmt.Else.Statements[0].(*ast.IfStatement); !ok {
		t.Fatalf("nested else-if is %T, want *ast.IfStatement", ifStmt.Else.Statements[0])
	}
}

func TestSwitchCase(t *testing.T) {
	program, p := testParse(t, "switch x {\ncase 1\n  print \"one\"\ncase 2\n  print \"two\"\nelse\n  print \"other\"\n}")
	requireNoErrors(t, p)
	sw, ok := program.Body.Statements[0].(*ast.SwitchStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.SwitchStatement", program.Body.Statements[0])
	}
	if len(sw.Cases) != 2 {
		t.Fatalf("got %d cases, want 2", len(sw.Cases))
	}
	if sw.Default == nil {
		t.Fatalf("expected a default clause")
	}
}

func TestSwitchCaseAfterElseIsAnError(t *testing.T) {
	_, p := testParse(t, "switch x {\nelse\n  print 1\ncase 2\n  print 2\n}")
	if len(p.Errors()) == 0 {
		t.Fatalf("expected a parse error for 'case' following 'else'")
	}
}

func TestImportStatement(t *testing.T) {
	program, p := testParse(t, `import "shapes.shape"`)
	requireNoErrors(t, p)
	imp, ok := program.Body.Statements[0].(*ast.ImportStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ImportStatement", program.Body.Statements[0])
	}
	if _, ok := imp.Path.(*ast.StringLiteral); !ok {
		t.Fatalf("path is %T, want *ast.StringLiteral", imp.Path)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"print 1 + 2 * 3", "(1 + (2 * 3))"},
		{"print (1 + 2) * 3", "((1 + 2) * 3)"},
		{"print not a and b", "((not a) and b)"},
		{"print 1 to 10 step 2", "((1 to 10) step 2)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program, p := testParse(t, tt.input)
			requireNoErrors(t, p)
			cmd := program.Body.Statements[0].(*ast.CommandStatement)
			if got := cmd.Argument.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChainedStepIsAnError(t *testing.T) {
	_, p := testParse(t, "print 1 to 10 step 2 step 3")
	if len(p.Errors()) == 0 {
		t.Fatalf("expected a parse error for a chained 'step' clause")
	}
}

func TestChainedComparisonIsAnError(t *testing.T) {
	_, p := testParse(t, "print 1 < 2 < 3")
	if len(p.Errors()) == 0 {
		t.Fatalf("expected a parse error for a chained comparison")
	}
}

func TestSuggestionForMisspelledKeywords(t *testing.T) {
	tests := []struct{ word, want string }{
		{"default", "Did you mean 'else'?"},
		{"elseif", "Did you mean 'else if'?"},
		{"fi", "Did you mean 'if'?"},
		{"cube", ""},
	}
	for _, tt := range tests {
		if got := suggestionFor(tt.word); got != tt.want {
			t.Errorf("suggestionFor(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}
