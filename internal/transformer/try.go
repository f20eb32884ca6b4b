package transformer

import (
	goast "go/ast"

	"github.com/FedeBP/ecmago/pkg/ast"
)

func (t *translator) VisitTryStatement(ts *ast.TryStatement) (Result, error) {
	if ts.Block == nil {
		return Result{}, malformed(ts, "missing block")
	}
	if ts.Handler == nil && ts.Finalizer == nil {
		return Result{}, malformed(ts, "try without catch or finally")
	}

	body, blocks, err := t.tryBlock(ts.Block.Body, nil)
	if err != nil {
		return Result{}, err
	}
	var handler, finalizer goast.Expr = goast.NewIdent("nil"), goast.NewIdent("nil")
	if ts.Handler != nil {
		h, c, err := t.catchClause(ts.Handler)
		if err != nil {
			return Result{}, err
		}
		handler, blocks = h, append(blocks, c...)
	}
	if ts.Finalizer != nil {
		f, c, err := t.tryBlock(ts.Finalizer.Body, nil)
		if err != nil {
			return Result{}, err
		}
		finalizer, blocks = f, append(blocks, c...)
	}

	try := call("Try", body, handler, finalizer)
	returns, escapes := abrupt(blocks)
	if !returns && len(escapes) == 0 {
		return Result{Stmts: []goast.Stmt{exprStmt(try)}}, nil
	}
	c := t.names.Next("c")
	return Result{Stmts: []goast.Stmt{&goast.SwitchStmt{
		Init: define(c, try),
		Body: block(t.completionCases(goast.NewIdent(c), returns, escapes)),
	}}}, nil
}

// VisitCatchClause rejects a handler on its own; TryStatement lowers its
// handler through catchClause.
func (t *translator) VisitCatchClause(cc *ast.CatchClause) (Result, error) {
	return Result{}, malformed(cc, "catch clause outside a try statement")
}

func (t *translator) catchClause(cc *ast.CatchClause) (goast.Expr, []*closure, error) {
	if cc.Param == nil || cc.Body == nil {
		return nil, nil, malformed(cc, "catch clause needs a parameter and a body")
	}
	t.pushFrame(newFrame(cc.Param.Name))
	defer t.popFrame()
	return t.tryBlock(cc.Body.Body, cc.Param)
}

// tryBlock lowers one of the blocks handed to Try. The handler takes the
// caught value as param.
func (t *translator) tryBlock(list []ast.Statement, param *ast.Identifier) (*goast.FuncLit, []*closure, error) {
	c := t.pushClosure(tryClosure)
	stmts, err := t.statements(list)
	t.popClosure()
	if err != nil {
		return nil, nil, err
	}
	if !terminates(stmts) {
		stmts = append(stmts, returnStmt(call("Normal")))
	}

	var params []*goast.Field
	if param != nil {
		params = []*goast.Field{{Names: []*goast.Ident{goast.NewIdent(EscapeIdent(param.Name))}, Type: valueType()}}
	}
	return &goast.FuncLit{
		Type: funcType(params, goast.NewIdent("Completion")),
		Body: block(stmts),
	}, []*closure{c}, nil
}

// abrupt collects how the blocks of one Try can end other than normally.
func abrupt(blocks []*closure) (returns bool, escapes []jump) {
	for _, b := range blocks {
		returns = returns || b.returns
		for _, j := range b.escapes {
			escapes = appendJump(escapes, j)
		}
	}
	return returns, escapes
}

// completionCases performs the Completion c of a Try. Jumps to loops of the
// enclosing closure happen here; everything else is passed up when the
// enclosing closure is itself a try block.
func (t *translator) completionCases(c goast.Expr, returns bool, escapes []jump) []goast.Stmt {
	outer := t.currentClosure()
	var cases []goast.Stmt
	if returns && outer.kind == functionClosure {
		cases = append(cases, completionCase(c, "Returned", nil,
			returnStmt(&goast.SelectorExpr{X: c, Sel: goast.NewIdent("Value")})))
	}
	for _, j := range escapes {
		if !outer.owns(j.loop) {
			continue
		}
		test := "Breaks"
		if j.cont {
			test = "Continues"
		}
		cases = append(cases, completionCase(c, test, stringLit(j.target()), j.branchTo()))
	}
	if outer.kind == tryClosure {
		cases = append(cases, completionCase(c, "Abrupt", nil, returnStmt(c)))
	}
	return cases
}

func completionCase(c goast.Expr, method string, arg goast.Expr, stmt goast.Stmt) goast.Stmt {
	test := methodCall(c, method)
	if arg != nil {
		test.Args = []goast.Expr{arg}
	}
	return &goast.CaseClause{List: []goast.Expr{test}, Body: []goast.Stmt{stmt}}
}

func appendJump(list []jump, j jump) []jump {
	for _, e := range list {
		if e == j {
			return list
		}
	}
	return append(list, j)
}
