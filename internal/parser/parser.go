// Package parser reads JavaScript source into the pkg/ast syntax tree. The
// grammar itself is handled by otto's ES5 parser; this package converts its
// tree and records source spans.
package parser

import (
	"errors"
	"fmt"
	"regexp"

	ottoast "github.com/robertkrimen/otto/ast"
	"github.com/robertkrimen/otto/file"
	ottoparser "github.com/robertkrimen/otto/parser"
	"github.com/robertkrimen/otto/token"

	"github.com/FedeBP/ecmago/pkg/ast"
)

// ErrSyntax matches every error caused by invalid source text.
var ErrSyntax = errors.New("syntax error")

type Parser struct {
	filename string
	src      string

	file *file.File
}

func New(filename, src string) *Parser {
	return &Parser{filename: filename, src: src}
}

// Parse is shorthand for New(filename, src).ParseProgram().
func Parse(filename, src string) (*ast.Program, error) {
	return New(filename, src).ParseProgram()
}

func (p *Parser) ParseProgram() (*ast.Program, error) {
	program, err := ottoparser.ParseFile(nil, p.filename, p.src, 0)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", p.filename, ErrSyntax, err)
	}
	p.file = program.File

	body, err := p.statements(program.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.filename, err)
	}
	return &ast.Program{Meta: p.meta(program), Body: body}, nil
}

func (p *Parser) position(idx file.Idx) ast.Position {
	if p.file == nil {
		return ast.Position{}
	}
	pos := p.file.Position(idx)
	if pos == nil {
		return ast.Position{}
	}
	return ast.Position{Line: pos.Line, Column: pos.Column}
}

func (p *Parser) meta(n ottoast.Node) ast.Meta {
	return ast.Meta{Range: ast.Span{Start: p.position(n.Idx0()), End: p.position(n.Idx1())}}
}

func (p *Parser) unknown(n ottoast.Node, kind string) *ast.Unknown {
	return &ast.Unknown{Meta: p.meta(n), Kind: kind}
}

func (p *Parser) statements(list []ottoast.Statement) ([]ast.Statement, error) {
	out := make([]ast.Statement, 0, len(list))
	for _, s := range list {
		stmt, err := p.statement(s)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func (p *Parser) statement(s ottoast.Statement) (ast.Statement, error) {
	switch s := s.(type) {
	case nil:
		return nil, nil
	case *ottoast.ExpressionStatement:
		e, err := p.expression(s.Expression)
		if err != nil {
			return nil, err
		}
		return &ast.ExpressionStatement{Meta: p.meta(s), Expression: e}, nil
	case *ottoast.BlockStatement:
		return p.block(s)
	case *ottoast.EmptyStatement:
		return &ast.EmptyStatement{Meta: p.meta(s)}, nil
	case *ottoast.ReturnStatement:
		arg, err := p.expression(s.Argument)
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStatement{Meta: p.meta(s), Argument: arg}, nil
	case *ottoast.IfStatement:
		return p.ifStatement(s)
	case *ottoast.ThrowStatement:
		arg, err := p.expression(s.Argument)
		if err != nil {
			return nil, err
		}
		return &ast.ThrowStatement{Meta: p.meta(s), Argument: arg}, nil
	case *ottoast.TryStatement:
		return p.tryStatement(s)
	case *ottoast.WhileStatement:
		test, body, err := p.loopParts(s.Test, s.Body)
		if err != nil {
			return nil, err
		}
		return &ast.WhileStatement{Meta: p.meta(s), Test: test, Body: body}, nil
	case *ottoast.DoWhileStatement:
		test, body, err := p.loopParts(s.Test, s.Body)
		if err != nil {
			return nil, err
		}
		return &ast.DoWhileStatement{Meta: p.meta(s), Test: test, Body: body}, nil
	case *ottoast.ForStatement:
		return p.forStatement(s)
	case *ottoast.ForInStatement:
		return p.forInStatement(s)
	case *ottoast.BranchStatement:
		return p.branchStatement(s)
	case *ottoast.LabelledStatement:
		body, err := p.statement(s.Statement)
		if err != nil {
			return nil, err
		}
		return &ast.LabeledStatement{Meta: p.meta(s), Label: p.identifier(s.Label), Body: body}, nil
	case *ottoast.FunctionStatement:
		fn, err := p.function(s.Function)
		if err != nil {
			return nil, err
		}
		return &ast.FunctionDeclaration{Meta: p.meta(s), ID: fn.ID, Params: fn.Params, Body: fn.Body}, nil
	case *ottoast.VariableStatement:
		return p.variableDeclaration(s, s.List)
	case *ottoast.SwitchStatement:
		return p.unknown(s, "SwitchStatement"), nil
	case *ottoast.WithStatement:
		return p.unknown(s, "WithStatement"), nil
	case *ottoast.DebuggerStatement:
		return p.unknown(s, "DebuggerStatement"), nil
	case *ottoast.BadStatement:
		return nil, fmt.Errorf("%w at %s", ErrSyntax, p.meta(s).Range)
	}
	return nil, fmt.Errorf("unsupported statement %T", s)
}

func (p *Parser) block(s ottoast.Statement) (*ast.BlockStatement, error) {
	bs, ok := s.(*ottoast.BlockStatement)
	if !ok {
		return nil, fmt.Errorf("expected a block, got %T", s)
	}
	body, err := p.statements(bs.List)
	if err != nil {
		return nil, err
	}
	return &ast.BlockStatement{Meta: p.meta(bs), Body: body}, nil
}

func (p *Parser) ifStatement(s *ottoast.IfStatement) (ast.Statement, error) {
	test, err := p.expression(s.Test)
	if err != nil {
		return nil, err
	}
	cons, err := p.statement(s.Consequent)
	if err != nil {
		return nil, err
	}
	alt, err := p.statement(s.Alternate)
	if err != nil {
		return nil, err
	}
	return &ast.IfStatement{Meta: p.meta(s), Test: test, Consequent: cons, Alternate: alt}, nil
}

func (p *Parser) tryStatement(s *ottoast.TryStatement) (ast.Statement, error) {
	body, err := p.block(s.Body)
	if err != nil {
		return nil, err
	}
	ts := &ast.TryStatement{Meta: p.meta(s), Block: body}
	if s.Catch != nil {
		catchBody, err := p.block(s.Catch.Body)
		if err != nil {
			return nil, err
		}
		ts.Handler = &ast.CatchClause{
			Meta:  p.meta(s.Catch),
			Param: p.identifier(s.Catch.Parameter),
			Body:  catchBody,
		}
	}
	if s.Finally != nil {
		if ts.Finalizer, err = p.block(s.Finally); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

func (p *Parser) loopParts(test ottoast.Expression, body ottoast.Statement) (ast.Expression, ast.Statement, error) {
	t, err := p.expression(test)
	if err != nil {
		return nil, nil, err
	}
	b, err := p.statement(body)
	if err != nil {
		return nil, nil, err
	}
	return t, b, nil
}

func (p *Parser) forStatement(s *ottoast.ForStatement) (ast.Statement, error) {
	fs := &ast.ForStatement{Meta: p.meta(s)}
	if decls := variables(s.Initializer); decls != nil {
		vd, err := p.variableDeclaration(s.Initializer, decls)
		if err != nil {
			return nil, err
		}
		fs.Init = vd
	} else if !empty(s.Initializer) {
		init, err := p.expression(s.Initializer)
		if err != nil {
			return nil, err
		}
		fs.Init = init
	}

	var err error
	if !empty(s.Test) {
		if fs.Test, err = p.expression(s.Test); err != nil {
			return nil, err
		}
	}
	if !empty(s.Update) {
		if fs.Update, err = p.expression(s.Update); err != nil {
			return nil, err
		}
	}
	if fs.Body, err = p.statement(s.Body); err != nil {
		return nil, err
	}
	return fs, nil
}

func (p *Parser) forInStatement(s *ottoast.ForInStatement) (ast.Statement, error) {
	var left ast.Node
	if decls := variables(s.Into); decls != nil {
		vd, err := p.variableDeclaration(s.Into, decls)
		if err != nil {
			return nil, err
		}
		left = vd
	} else {
		target, err := p.expression(s.Into)
		if err != nil {
			return nil, err
		}
		left = target
	}
	right, body, err := p.loopParts(s.Source, s.Body)
	if err != nil {
		return nil, err
	}
	return &ast.ForInStatement{Meta: p.meta(s), Left: left, Right: right, Body: body}, nil
}

// variables returns the declarations of a `var` list found where otto allows
// an expression, or nil when e is not one.
func variables(e ottoast.Expression) []ottoast.Expression {
	switch e := e.(type) {
	case *ottoast.VariableExpression:
		return []ottoast.Expression{e}
	case *ottoast.SequenceExpression:
		for _, item := range e.Sequence {
			if _, ok := item.(*ottoast.VariableExpression); !ok {
				return nil
			}
		}
		return e.Sequence
	}
	return nil
}

func empty(e ottoast.Expression) bool {
	if e == nil {
		return true
	}
	_, ok := e.(*ottoast.EmptyExpression)
	return ok
}

func (p *Parser) variableDeclaration(n ottoast.Node, list []ottoast.Expression) (*ast.VariableDeclaration, error) {
	vd := &ast.VariableDeclaration{Meta: p.meta(n), Kind: "var"}
	for _, item := range list {
		ve, ok := item.(*ottoast.VariableExpression)
		if !ok {
			return nil, fmt.Errorf("expected a variable declaration, got %T", item)
		}
		init, err := p.expression(ve.Initializer)
		if err != nil {
			return nil, err
		}
		vd.Declarations = append(vd.Declarations, &ast.VariableDeclarator{
			Meta: p.meta(ve),
			ID:   &ast.Identifier{Meta: p.meta(ve), Name: ve.Name},
			Init: init,
		})
	}
	return vd, nil
}

func (p *Parser) branchStatement(s *ottoast.BranchStatement) (ast.Statement, error) {
	var label *ast.Identifier
	if s.Label != nil {
		label = p.identifier(s.Label)
	}
	switch s.Token {
	case token.BREAK:
		return &ast.BreakStatement{Meta: p.meta(s), Label: label}, nil
	case token.CONTINUE:
		return &ast.ContinueStatement{Meta: p.meta(s), Label: label}, nil
	}
	return nil, fmt.Errorf("unsupported branch %s", s.Token)
}

func (p *Parser) identifier(id *ottoast.Identifier) *ast.Identifier {
	if id == nil {
		return nil
	}
	return &ast.Identifier{Meta: p.meta(id), Name: id.Name}
}

func (p *Parser) function(fl *ottoast.FunctionLiteral) (*ast.FunctionExpression, error) {
	body, err := p.block(fl.Body)
	if err != nil {
		return nil, err
	}
	fe := &ast.FunctionExpression{Meta: p.meta(fl), ID: p.identifier(fl.Name), Body: body}
	if fl.ParameterList != nil {
		for _, param := range fl.ParameterList.List {
			fe.Params = append(fe.Params, p.identifier(param))
		}
	}
	return fe, nil
}

func (p *Parser) expressions(list []ottoast.Expression) ([]ast.Expression, error) {
	out := make([]ast.Expression, len(list))
	for i, e := range list {
		x, err := p.expression(e)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

func (p *Parser) expression(e ottoast.Expression) (ast.Expression, error) {
	switch e := e.(type) {
	case nil:
		return nil, nil
	case *ottoast.NumberLiteral:
		return p.number(e)
	case *ottoast.StringLiteral:
		return &ast.Literal{Meta: p.meta(e), Value: e.Value, Raw: e.Literal}, nil
	case *ottoast.BooleanLiteral:
		return &ast.Literal{Meta: p.meta(e), Value: e.Value, Raw: e.Literal}, nil
	case *ottoast.NullLiteral:
		return &ast.Literal{Meta: p.meta(e), Value: nil, Raw: "null"}, nil
	case *ottoast.Identifier:
		return p.identifier(e), nil
	case *ottoast.ThisExpression:
		return &ast.ThisExpression{Meta: p.meta(e)}, nil
	case *ottoast.ArrayLiteral:
		elems, err := p.expressions(e.Value)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayExpression{Meta: p.meta(e), Elements: elems}, nil
	case *ottoast.ObjectLiteral:
		return p.object(e)
	case *ottoast.FunctionLiteral:
		return p.function(e)
	case *ottoast.UnaryExpression:
		return p.unary(e)
	case *ottoast.BinaryExpression:
		return p.binary(e)
	case *ottoast.AssignExpression:
		return p.assign(e)
	case *ottoast.ConditionalExpression:
		parts, err := p.expressions([]ottoast.Expression{e.Test, e.Consequent, e.Alternate})
		if err != nil {
			return nil, err
		}
		return &ast.ConditionalExpression{Meta: p.meta(e), Test: parts[0], Consequent: parts[1], Alternate: parts[2]}, nil
	case *ottoast.CallExpression:
		callee, args, err := p.invocation(e.Callee, e.ArgumentList)
		if err != nil {
			return nil, err
		}
		return &ast.CallExpression{Meta: p.meta(e), Callee: callee, Arguments: args}, nil
	case *ottoast.NewExpression:
		callee, args, err := p.invocation(e.Callee, e.ArgumentList)
		if err != nil {
			return nil, err
		}
		return &ast.NewExpression{Meta: p.meta(e), Callee: callee, Arguments: args}, nil
	case *ottoast.DotExpression:
		obj, err := p.expression(e.Left)
		if err != nil {
			return nil, err
		}
		prop := &ast.Identifier{Meta: p.meta(e), Name: e.Identifier.Name}
		return &ast.MemberExpression{Meta: p.meta(e), Object: obj, Property: prop}, nil
	case *ottoast.BracketExpression:
		parts, err := p.expressions([]ottoast.Expression{e.Left, e.Member})
		if err != nil {
			return nil, err
		}
		return &ast.MemberExpression{Meta: p.meta(e), Object: parts[0], Property: parts[1], Computed: true}, nil
	case *ottoast.SequenceExpression:
		list, err := p.expressions(e.Sequence)
		if err != nil {
			return nil, err
		}
		return &ast.SequenceExpression{Meta: p.meta(e), Expressions: list}, nil
	case *ottoast.RegExpLiteral:
		return p.unknown(e, "RegExpLiteral"), nil
	case *ottoast.VariableExpression:
		return nil, fmt.Errorf("unexpected variable declaration at %s", p.meta(e).Range)
	case *ottoast.EmptyExpression:
		return nil, nil
	case *ottoast.BadExpression:
		return nil, fmt.Errorf("%w at %s", ErrSyntax, p.meta(e).Range)
	}
	return nil, fmt.Errorf("unsupported expression %T", e)
}

func (p *Parser) number(e *ottoast.NumberLiteral) (ast.Expression, error) {
	var v float64
	switch n := e.Value.(type) {
	case float64:
		v = n
	case int64:
		v = float64(n)
	default:
		return nil, fmt.Errorf("%w: invalid number %q", ErrSyntax, e.Literal)
	}
	return &ast.Literal{Meta: p.meta(e), Value: v, Raw: e.Literal}, nil
}

var identifierName = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func (p *Parser) object(e *ottoast.ObjectLiteral) (ast.Expression, error) {
	oe := &ast.ObjectExpression{Meta: p.meta(e)}
	for _, prop := range e.Value {
		if prop.Kind != "value" {
			return p.unknown(e, "Property("+prop.Kind+")"), nil
		}
		value, err := p.expression(prop.Value)
		if err != nil {
			return nil, err
		}
		var key ast.Expression = &ast.Literal{Meta: oe.Meta, Value: prop.Key, Raw: prop.Key}
		if identifierName.MatchString(prop.Key) {
			key = &ast.Identifier{Meta: oe.Meta, Name: prop.Key}
		}
		oe.Properties = append(oe.Properties, &ast.Property{
			Meta:  p.meta(prop.Value),
			Key:   key,
			Value: value,
			Kind:  "init",
		})
	}
	return oe, nil
}

func (p *Parser) unary(e *ottoast.UnaryExpression) (ast.Expression, error) {
	arg, err := p.expression(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case token.INCREMENT, token.DECREMENT:
		return &ast.UpdateExpression{
			Meta:     p.meta(e),
			Operator: e.Operator.String(),
			Prefix:   !e.Postfix,
			Argument: arg,
		}, nil
	}
	return &ast.UnaryExpression{Meta: p.meta(e), Operator: e.Operator.String(), Argument: arg}, nil
}

func (p *Parser) binary(e *ottoast.BinaryExpression) (ast.Expression, error) {
	parts, err := p.expressions([]ottoast.Expression{e.Left, e.Right})
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case token.LOGICAL_AND, token.LOGICAL_OR:
		return &ast.LogicalExpression{Meta: p.meta(e), Operator: e.Operator.String(), Left: parts[0], Right: parts[1]}, nil
	}
	return &ast.BinaryExpression{Meta: p.meta(e), Operator: e.Operator.String(), Left: parts[0], Right: parts[1]}, nil
}

// assign converts an assignment. otto stores a compound assignment under its
// binary operator, so `a += b` arrives as PLUS.
func (p *Parser) assign(e *ottoast.AssignExpression) (ast.Expression, error) {
	parts, err := p.expressions([]ottoast.Expression{e.Left, e.Right})
	if err != nil {
		return nil, err
	}
	op := "="
	if e.Operator != token.ASSIGN {
		op = e.Operator.String() + "="
	}
	return &ast.AssignmentExpression{Meta: p.meta(e), Operator: op, Left: parts[0], Right: parts[1]}, nil
}

func (p *Parser) invocation(callee ottoast.Expression, args []ottoast.Expression) (ast.Expression, []ast.Expression, error) {
	c, err := p.expression(callee)
	if err != nil {
		return nil, nil, err
	}
	a, err := p.expressions(args)
	if err != nil {
		return nil, nil, err
	}
	return c, a, nil
}
