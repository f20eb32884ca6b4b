package parser_test

import (
	"errors"
	"testing"

	"github.com/FedeBP/ecmago/internal/parser"
	"github.com/FedeBP/ecmago/pkg/ast"
)

func TestParseProgram(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(*testing.T, *ast.Program)
	}{
		{
			name:  "Variable declaration",
			input: "var x = 5, y;",
			check: func(t *testing.T, program *ast.Program) {
				vd, ok := program.Body[0].(*ast.VariableDeclaration)
				if !ok {
					t.Fatalf("Expected VariableDeclaration, got %T", program.Body[0])
				}
				if vd.Kind != "var" || len(vd.Declarations) != 2 {
					t.Fatalf("Expected 2 var declarations, got %s with %d", vd.Kind, len(vd.Declarations))
				}
				if id := vd.Declarations[0].ID.(*ast.Identifier); id.Name != "x" {
					t.Errorf("Expected x, got %s", id.Name)
				}
				if lit := vd.Declarations[0].Init.(*ast.Literal); lit.Value != 5.0 || lit.Raw != "5" {
					t.Errorf("Expected 5, got %v (%s)", lit.Value, lit.Raw)
				}
				if vd.Declarations[1].Init != nil {
					t.Errorf("Expected y to have no initializer, got %v", vd.Declarations[1].Init)
				}
			},
		},
		{
			name:  "Function declaration",
			input: "function add(a, b) { return a + b; }",
			check: func(t *testing.T, program *ast.Program) {
				fd, ok := program.Body[0].(*ast.FunctionDeclaration)
				if !ok {
					t.Fatalf("Expected FunctionDeclaration, got %T", program.Body[0])
				}
				if fd.ID.Name != "add" || len(fd.Params) != 2 || fd.Params[1].Name != "b" {
					t.Errorf("Expected add(a, b), got %s with %d params", fd.ID.Name, len(fd.Params))
				}
				ret := fd.Body.Body[0].(*ast.ReturnStatement)
				if bin := ret.Argument.(*ast.BinaryExpression); bin.Operator != "+" {
					t.Errorf("Expected +, got %s", bin.Operator)
				}
			},
		},
		{
			name:  "Named function expression",
			input: "var f = function g() {};",
			check: func(t *testing.T, program *ast.Program) {
				fe := program.Body[0].(*ast.VariableDeclaration).Declarations[0].Init.(*ast.FunctionExpression)
				if fe.ID == nil || fe.ID.Name != "g" {
					t.Errorf("Expected the name g, got %v", fe.ID)
				}
			},
		},
		{
			name:  "For with var initializer",
			input: "for (var i = 0, j = 1; i < j; i++) {}",
			check: func(t *testing.T, program *ast.Program) {
				fs := program.Body[0].(*ast.ForStatement)
				vd, ok := fs.Init.(*ast.VariableDeclaration)
				if !ok || len(vd.Declarations) != 2 {
					t.Fatalf("Expected a declaration of 2 variables, got %T", fs.Init)
				}
				up, ok := fs.Update.(*ast.UpdateExpression)
				if !ok || up.Prefix || up.Operator != "++" {
					t.Errorf("Expected postfix ++, got %#v", fs.Update)
				}
			},
		},
		{
			name:  "For with empty clauses",
			input: "for (;;) { break; }",
			check: func(t *testing.T, program *ast.Program) {
				fs := program.Body[0].(*ast.ForStatement)
				if fs.Init != nil || fs.Test != nil || fs.Update != nil {
					t.Errorf("Expected empty clauses, got %v %v %v", fs.Init, fs.Test, fs.Update)
				}
				if _, ok := fs.Body.(*ast.BlockStatement).Body[0].(*ast.BreakStatement); !ok {
					t.Errorf("Expected a break in the body")
				}
			},
		},
		{
			name:  "For-in with var",
			input: "for (var k in o) {}",
			check: func(t *testing.T, program *ast.Program) {
				fi := program.Body[0].(*ast.ForInStatement)
				if _, ok := fi.Left.(*ast.VariableDeclaration); !ok {
					t.Errorf("Expected a declaration on the left, got %T", fi.Left)
				}
				if id := fi.Right.(*ast.Identifier); id.Name != "o" {
					t.Errorf("Expected o, got %s", id.Name)
				}
			},
		},
		{
			name:  "Compound assignment",
			input: "x >>>= 2;",
			check: func(t *testing.T, program *ast.Program) {
				a := program.Body[0].(*ast.ExpressionStatement).Expression.(*ast.AssignmentExpression)
				if a.Operator != ">>>=" {
					t.Errorf("Expected >>>=, got %s", a.Operator)
				}
			},
		},
		{
			name:  "Logical and prefix update",
			input: "a && --b;",
			check: func(t *testing.T, program *ast.Program) {
				l := program.Body[0].(*ast.ExpressionStatement).Expression.(*ast.LogicalExpression)
				if l.Operator != "&&" {
					t.Errorf("Expected &&, got %s", l.Operator)
				}
				if up := l.Right.(*ast.UpdateExpression); !up.Prefix || up.Operator != "--" {
					t.Errorf("Expected prefix --, got %+v", up)
				}
			},
		},
		{
			name:  "Members",
			input: "a.b[c];",
			check: func(t *testing.T, program *ast.Program) {
				outer := program.Body[0].(*ast.ExpressionStatement).Expression.(*ast.MemberExpression)
				if !outer.Computed {
					t.Errorf("Expected a computed member")
				}
				inner := outer.Object.(*ast.MemberExpression)
				if inner.Computed || inner.Property.(*ast.Identifier).Name != "b" {
					t.Errorf("Expected .b, got %+v", inner)
				}
			},
		},
		{
			name:  "Object keys",
			input: `({a: 1, "b c": 2, 3: 4});`,
			check: func(t *testing.T, program *ast.Program) {
				obj := program.Body[0].(*ast.ExpressionStatement).Expression.(*ast.ObjectExpression)
				if len(obj.Properties) != 3 {
					t.Fatalf("Expected 3 properties, got %d", len(obj.Properties))
				}
				if id, ok := obj.Properties[0].Key.(*ast.Identifier); !ok || id.Name != "a" {
					t.Errorf("Expected identifier key a, got %#v", obj.Properties[0].Key)
				}
				if lit, ok := obj.Properties[1].Key.(*ast.Literal); !ok || lit.Value != "b c" {
					t.Errorf("Expected string key, got %#v", obj.Properties[1].Key)
				}
				if lit, ok := obj.Properties[2].Key.(*ast.Literal); !ok || lit.Value != "3" {
					t.Errorf("Expected key 3, got %#v", obj.Properties[2].Key)
				}
				if obj.Properties[0].Kind != "init" {
					t.Errorf("Expected init, got %s", obj.Properties[0].Kind)
				}
			},
		},
		{
			name:  "Array holes",
			input: "[1, , 2];",
			check: func(t *testing.T, program *ast.Program) {
				arr := program.Body[0].(*ast.ExpressionStatement).Expression.(*ast.ArrayExpression)
				if len(arr.Elements) != 3 || arr.Elements[1] != nil {
					t.Errorf("Expected a hole in the middle, got %#v", arr.Elements)
				}
			},
		},
		{
			name:  "Try with catch and finally",
			input: "try { f(); } catch (e) { g(e); } finally { h(); }",
			check: func(t *testing.T, program *ast.Program) {
				ts := program.Body[0].(*ast.TryStatement)
				if ts.Handler == nil || ts.Handler.Param.Name != "e" {
					t.Fatalf("Expected a handler binding e, got %+v", ts.Handler)
				}
				if ts.Finalizer == nil || len(ts.Finalizer.Body) != 1 {
					t.Errorf("Expected a finalizer, got %+v", ts.Finalizer)
				}
			},
		},
		{
			name:  "Labeled continue",
			input: "outer: while (a) { while (b) { continue outer; } }",
			check: func(t *testing.T, program *ast.Program) {
				ls := program.Body[0].(*ast.LabeledStatement)
				if ls.Label.Name != "outer" {
					t.Errorf("Expected label outer, got %s", ls.Label.Name)
				}
				inner := ls.Body.(*ast.WhileStatement).Body.(*ast.BlockStatement).Body[0].(*ast.WhileStatement)
				cs := inner.Body.(*ast.BlockStatement).Body[0].(*ast.ContinueStatement)
				if cs.Label == nil || cs.Label.Name != "outer" {
					t.Errorf("Expected continue outer, got %+v", cs.Label)
				}
			},
		},
		{
			name:  "Literals",
			input: `null; true; "s"; 1.5; 0x10;`,
			check: func(t *testing.T, program *ast.Program) {
				expected := []any{nil, true, "s", 1.5, 16.0}
				for i, want := range expected {
					lit := program.Body[i].(*ast.ExpressionStatement).Expression.(*ast.Literal)
					if lit.Value != want {
						t.Errorf("Expected %v, got %v", want, lit.Value)
					}
				}
			},
		},
		{
			name:  "Switch is kept as unknown",
			input: "switch (x) { case 1: break; }",
			check: func(t *testing.T, program *ast.Program) {
				u, ok := program.Body[0].(*ast.Unknown)
				if !ok || u.Kind != "SwitchStatement" {
					t.Errorf("Expected Unknown SwitchStatement, got %#v", program.Body[0])
				}
			},
		},
		{
			name:  "Regular expression is kept as unknown",
			input: "var r = /ab+c/g;",
			check: func(t *testing.T, program *ast.Program) {
				init := program.Body[0].(*ast.VariableDeclaration).Declarations[0].Init
				if u, ok := init.(*ast.Unknown); !ok || u.Kind != "RegExpLiteral" {
					t.Errorf("Expected Unknown RegExpLiteral, got %#v", init)
				}
			},
		},
		{
			name:  "Accessor property is kept as unknown",
			input: "({get a() { return 1; }});",
			check: func(t *testing.T, program *ast.Program) {
				e := program.Body[0].(*ast.ExpressionStatement).Expression
				if u, ok := e.(*ast.Unknown); !ok || u.Kind != "Property(get)" {
					t.Errorf("Expected Unknown Property(get), got %#v", e)
				}
			},
		},
		{
			name:  "Spans",
			input: "var a;\n  a = 1;",
			check: func(t *testing.T, program *ast.Program) {
				span := program.Body[1].Span()
				if span.Start.Line != 2 || span.Start.Column != 3 {
					t.Errorf("Expected 2:3, got %s", span)
				}
				if span.String() != "2:3" {
					t.Errorf("Expected 2:3, got %s", span.String())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := parser.Parse("test.js", tt.input)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			tt.check(t, program)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "Unclosed block", input: "function f() {"},
		{name: "Missing operand", input: "var x = ;"},
		{name: "Return outside function", input: "return 1;"},
		{name: "Undefined label", input: "while (a) { break nowhere; }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.New("bad.js", tt.input).ParseProgram()
			if !errors.Is(err, parser.ErrSyntax) {
				t.Fatalf("Expected ErrSyntax, got %v", err)
			}
		})
	}
}

func TestParseEmptyProgram(t *testing.T) {
	program, err := parser.Parse("empty.js", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(program.Body) != 0 {
		t.Errorf("Expected no statements, got %d", len(program.Body))
	}
}
