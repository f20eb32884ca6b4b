package transformer

import (
	goast "go/ast"

	"github.com/FedeBP/ecmago/pkg/ast"
)

func (t *translator) VisitExpressionStatement(es *ast.ExpressionStatement) (Result, error) {
	stmts, err := t.effect(es.Expression)
	return Result{Stmts: stmts}, err
}

// effect lowers e where its value is not needed.
func (t *translator) effect(e ast.Expression) ([]goast.Stmt, error) {
	switch e := e.(type) {
	case nil:
		return nil, malformed(&ast.ExpressionStatement{}, "missing expression")
	case *ast.Identifier:
		return nil, nil
	case *ast.AssignmentExpression:
		r, err := t.assignment(e, false)
		return r.Stmts, err
	case *ast.SequenceExpression:
		var stmts []goast.Stmt
		for _, x := range e.Expressions {
			more, err := t.effect(x)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, more...)
		}
		return stmts, nil
	case *ast.LogicalExpression:
		if e.Operator != "&&" && e.Operator != "||" {
			break
		}
		left, err := t.expression(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := t.effect(e.Right)
		if err != nil {
			return nil, err
		}
		if len(right) == 0 {
			return append(left.Stmts, t.discardValue(left.Expr)...), nil
		}
		cond := truthy(left.Expr)
		if e.Operator == "||" {
			cond = not(cond)
		}
		return append(left.Stmts, &goast.IfStmt{Cond: cond, Body: block(right)}), nil
	case *ast.ConditionalExpression:
		test, err := t.expression(e.Test)
		if err != nil {
			return nil, err
		}
		cons, err := t.effect(e.Consequent)
		if err != nil {
			return nil, err
		}
		alt, err := t.effect(e.Alternate)
		if err != nil {
			return nil, err
		}
		return append(test.Stmts, ifElse(truthy(test.Expr), cons, alt)), nil
	}

	r, err := t.expression(e)
	if err != nil {
		return nil, err
	}
	return append(r.Stmts, t.discardValue(r.Expr)...), nil
}

// ifElse builds an if statement, chaining a lone if in alt as else-if.
func ifElse(cond goast.Expr, body, alt []goast.Stmt) goast.Stmt {
	stmt := &goast.IfStmt{Cond: cond, Body: block(body)}
	switch {
	case len(alt) == 1:
		if elif, ok := alt[0].(*goast.IfStmt); ok {
			stmt.Else = elif
			break
		}
		stmt.Else = block(alt)
	case len(alt) > 1:
		stmt.Else = block(alt)
	}
	return stmt
}

func (t *translator) VisitBlockStatement(bs *ast.BlockStatement) (Result, error) {
	stmts, err := t.statements(bs.Body)
	return Result{Stmts: stmts}, err
}

func (t *translator) VisitEmptyStatement(*ast.EmptyStatement) (Result, error) {
	return Result{}, nil
}

func (t *translator) VisitIfStatement(is *ast.IfStatement) (Result, error) {
	test, err := t.expression(is.Test)
	if err != nil {
		return Result{}, err
	}
	cons, err := t.statement(is.Consequent)
	if err != nil {
		return Result{}, err
	}
	alt, err := t.statement(is.Alternate)
	if err != nil {
		return Result{}, err
	}
	return Result{Stmts: append(test.Stmts, ifElse(truthy(test.Expr), cons, alt))}, nil
}

func (t *translator) VisitThrowStatement(ts *ast.ThrowStatement) (Result, error) {
	v, err := t.expression(ts.Argument)
	if err != nil {
		return Result{}, err
	}
	return Result{Stmts: append(v.Stmts, exprStmt(call("panic", call("Throw", v.Expr))))}, nil
}

func (t *translator) VisitReturnStatement(rs *ast.ReturnStatement) (Result, error) {
	var crossed []*closure
	for i := len(t.closures) - 1; i >= 0; i-- {
		c := t.closures[i]
		if c.kind == programClosure {
			return Result{}, malformed(rs, "return outside function")
		}
		if c.kind == functionClosure {
			break
		}
		crossed = append(crossed, c)
	}

	v := Result{Expr: goast.NewIdent("Undefined")}
	if rs.Argument != nil {
		var err error
		if v, err = t.expression(rs.Argument); err != nil {
			return Result{}, err
		}
	}
	if len(crossed) == 0 {
		return Result{Stmts: append(v.Stmts, returnStmt(v.Expr))}, nil
	}
	for _, c := range crossed {
		c.returns = true
	}
	return Result{Stmts: append(v.Stmts, returnStmt(call("Return", v.Expr)))}, nil
}

func (t *translator) VisitVariableDeclaration(vd *ast.VariableDeclaration) (Result, error) {
	if err := functionScoped(vd); err != nil {
		return Result{}, err
	}
	var stmts []goast.Stmt
	for _, d := range vd.Declarations {
		more, err := t.declarator(d)
		if err != nil {
			return Result{}, err
		}
		stmts = append(stmts, more...)
	}
	return Result{Stmts: stmts}, nil
}

// functionScoped rejects let and const. Every declared name lives in the
// Scope of its function.
func functionScoped(vd *ast.VariableDeclaration) error {
	if vd.Kind == "" || vd.Kind == "var" {
		return nil
	}
	return &UnsupportedConstructError{Type: "VariableDeclaration(" + vd.Kind + ")", Span: vd.Span()}
}

func (t *translator) VisitVariableDeclarator(d *ast.VariableDeclarator) (Result, error) {
	stmts, err := t.declarator(d)
	return Result{Stmts: stmts}, err
}

// declarator assigns the initial value of a declared variable. The variable
// itself is declared at the top of its function.
func (t *translator) declarator(d *ast.VariableDeclarator) ([]goast.Stmt, error) {
	id, ok := d.ID.(*ast.Identifier)
	if !ok {
		return nil, malformed(d, "declared name is not an identifier")
	}
	t.resolve(id.Name)
	name := goast.NewIdent(EscapeIdent(id.Name))
	if d.Init == nil {
		return []goast.Stmt{assign(name, call("Declare", goast.NewIdent(name.Name)))}, nil
	}
	v, err := t.value(d.Init, id.Name)
	if err != nil {
		return nil, err
	}
	return append(v.Stmts, assign(name, v.Expr)), nil
}
