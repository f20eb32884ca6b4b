package transformer

import (
	goast "go/ast"
	"go/token"

	"github.com/FedeBP/ecmago/pkg/ast"
)

func (t *translator) enterLoop(labels []string, withPass bool) *loop {
	l := &loop{labels: labels, label: t.names.Next("loop")}
	if withPass {
		l.pass = t.names.Next("pass")
	}
	c := t.currentClosure()
	c.loops = append(c.loops, l)
	return l
}

func (t *translator) exitLoop() {
	c := t.currentClosure()
	c.loops = c.loops[:len(c.loops)-1]
}

// labeled attaches label to stmt when some jump uses it.
func labeled(label string, used bool, stmt goast.Stmt) goast.Stmt {
	if !used {
		return stmt
	}
	return &goast.LabeledStmt{Label: goast.NewIdent(label), Stmt: stmt}
}

// singlePass wraps body in a loop that runs once, so that continue can leave
// the body with `break pass` and still reach the code after it.
func (l *loop) singlePass(body []goast.Stmt) []goast.Stmt {
	if !l.passUsed {
		return body
	}
	if !terminates(body) {
		body = append(body, branch(token.BREAK, ""))
	}
	return []goast.Stmt{labeled(l.pass, true, &goast.ForStmt{Body: block(body)})}
}

func (t *translator) VisitLabeledStatement(ls *ast.LabeledStatement) (Result, error) {
	var labels []string
	var body ast.Statement = ls
	for {
		inner, ok := body.(*ast.LabeledStatement)
		if !ok {
			break
		}
		if inner.Label == nil {
			return Result{}, malformed(inner, "missing label")
		}
		labels = append(labels, inner.Label.Name)
		body = inner.Body
	}

	var stmts []goast.Stmt
	var err error
	switch s := body.(type) {
	case *ast.WhileStatement:
		stmts, err = t.whileLoop(s, labels)
	case *ast.DoWhileStatement:
		stmts, err = t.doWhileLoop(s, labels)
	case *ast.ForStatement:
		stmts, err = t.forLoop(s, labels)
	case *ast.ForInStatement:
		stmts, err = t.forInLoop(s, labels)
	case *ast.ForOfStatement:
		stmts, err = t.forOfLoop(s, labels)
	default:
		return Result{}, malformed(ls, "label %s does not name a loop", ls.Label.Name)
	}
	return Result{Stmts: stmts}, err
}

func (t *translator) VisitWhileStatement(ws *ast.WhileStatement) (Result, error) {
	stmts, err := t.whileLoop(ws, nil)
	return Result{Stmts: stmts}, err
}

func (t *translator) whileLoop(ws *ast.WhileStatement, labels []string) ([]goast.Stmt, error) {
	l := t.enterLoop(labels, false)
	defer t.exitLoop()

	test, err := t.expression(ws.Test)
	if err != nil {
		return nil, err
	}
	body, err := t.statement(ws.Body)
	if err != nil {
		return nil, err
	}

	stmt := &goast.ForStmt{Body: block(body)}
	if len(test.Stmts) == 0 {
		stmt.Cond = truthy(test.Expr)
	} else {
		head := append(test.Stmts, breakUnless(test.Expr))
		stmt.Body = block(append(head, body...))
	}
	return []goast.Stmt{labeled(l.label, l.labelUsed, stmt)}, nil
}

func (t *translator) VisitDoWhileStatement(dw *ast.DoWhileStatement) (Result, error) {
	stmts, err := t.doWhileLoop(dw, nil)
	return Result{Stmts: stmts}, err
}

func (t *translator) doWhileLoop(dw *ast.DoWhileStatement, labels []string) ([]goast.Stmt, error) {
	l := t.enterLoop(labels, true)
	defer t.exitLoop()

	body, err := t.statement(dw.Body)
	if err != nil {
		return nil, err
	}
	test, err := t.expression(dw.Test)
	if err != nil {
		return nil, err
	}

	stmts := l.singlePass(body)
	if terminates(stmts) {
		return []goast.Stmt{labeled(l.label, l.labelUsed, &goast.ForStmt{Body: block(stmts)})}, nil
	}
	stmts = append(stmts, test.Stmts...)
	stmts = append(stmts, breakUnless(test.Expr))
	return []goast.Stmt{labeled(l.label, l.labelUsed, &goast.ForStmt{Body: block(stmts)})}, nil
}

func (t *translator) VisitForStatement(fs *ast.ForStatement) (Result, error) {
	stmts, err := t.forLoop(fs, nil)
	return Result{Stmts: stmts}, err
}

func (t *translator) forLoop(fs *ast.ForStatement, labels []string) ([]goast.Stmt, error) {
	var init []goast.Stmt
	switch n := fs.Init.(type) {
	case nil:
	case *ast.VariableDeclaration:
		r, err := t.VisitVariableDeclaration(n)
		if err != nil {
			return nil, err
		}
		init = r.Stmts
	case ast.Expression:
		stmts, err := t.effect(n)
		if err != nil {
			return nil, err
		}
		init = stmts
	default:
		return nil, malformed(fs, "invalid initializer %s", n.Type())
	}

	l := t.enterLoop(labels, true)
	defer t.exitLoop()

	stmt := &goast.ForStmt{}
	var head []goast.Stmt
	if fs.Test != nil {
		test, err := t.expression(fs.Test)
		if err != nil {
			return nil, err
		}
		if len(test.Stmts) == 0 {
			stmt.Cond = truthy(test.Expr)
		} else {
			head = append(test.Stmts, breakUnless(test.Expr))
		}
	}
	body, err := t.statement(fs.Body)
	if err != nil {
		return nil, err
	}
	var update []goast.Stmt
	if fs.Update != nil {
		if update, err = t.effect(fs.Update); err != nil {
			return nil, err
		}
	}

	stmts := append(head, l.singlePass(body)...)
	if !terminates(stmts) {
		stmts = append(stmts, update...)
	}
	stmt.Body = block(stmts)
	return append(init, labeled(l.label, l.labelUsed, stmt)), nil
}

func (t *translator) VisitForInStatement(fi *ast.ForInStatement) (Result, error) {
	stmts, err := t.forInLoop(fi, nil)
	return Result{Stmts: stmts}, err
}

func (t *translator) forInLoop(fi *ast.ForInStatement, labels []string) ([]goast.Stmt, error) {
	return t.rangeLoop(fi, fi.Left, fi.Right, fi.Body, labels, "EnumerableProperties")
}

func (t *translator) VisitForOfStatement(fo *ast.ForOfStatement) (Result, error) {
	stmts, err := t.forOfLoop(fo, nil)
	return Result{Stmts: stmts}, err
}

func (t *translator) forOfLoop(fo *ast.ForOfStatement, labels []string) ([]goast.Stmt, error) {
	return t.rangeLoop(fo, fo.Left, fo.Right, fo.Body, labels, "Values")
}

// rangeLoop lowers for-in and for-of. EnumerableProperties returns a slice
// of keys; Values returns an iterator.
func (t *translator) rangeLoop(n ast.Node, left ast.Node, right ast.Expression, body ast.Statement, labels []string, source string) ([]goast.Stmt, error) {
	target, err := loopTarget(n, left)
	if err != nil {
		return nil, err
	}
	obj, err := t.expression(right)
	if err != nil {
		return nil, err
	}

	l := t.enterLoop(labels, false)
	defer t.exitLoop()

	stmt := &goast.RangeStmt{X: call(source, obj.Expr)}
	var head []goast.Stmt
	var item goast.Expr
	if id, ok := target.(*ast.Identifier); ok {
		t.resolve(id.Name)
		item = goast.NewIdent(EscapeIdent(id.Name))
		stmt.Tok = token.ASSIGN
	} else {
		key := t.names.Next("key")
		item = goast.NewIdent(key)
		stmt.Tok = token.DEFINE
		if head, err = t.assignValue(target, goast.NewIdent(key)); err != nil {
			return nil, err
		}
	}
	if source == "Values" {
		stmt.Key = item
	} else {
		stmt.Key, stmt.Value = goast.NewIdent("_"), item
	}

	stmts, err := t.statement(body)
	if err != nil {
		return nil, err
	}
	stmt.Body = block(append(head, stmts...))
	return append(obj.Stmts, labeled(l.label, l.labelUsed, stmt)), nil
}

// loopTarget is the expression each for-in or for-of iteration assigns to.
func loopTarget(n ast.Node, left ast.Node) (ast.Expression, error) {
	switch left := left.(type) {
	case *ast.VariableDeclaration:
		if err := functionScoped(left); err != nil {
			return nil, err
		}
		if len(left.Declarations) != 1 {
			return nil, malformed(n, "loop declares %d variables", len(left.Declarations))
		}
		d := left.Declarations[0]
		if d.Init != nil {
			return nil, malformed(n, "loop variable has an initializer")
		}
		return d.ID, nil
	case *ast.Identifier, *ast.MemberExpression:
		return left.(ast.Expression), nil
	case nil:
		return nil, malformed(n, "missing loop variable")
	}
	return nil, malformed(n, "invalid loop variable %s", left.Type())
}

// assignValue stores an already evaluated value into target.
func (t *translator) assignValue(target ast.Expression, value goast.Expr) ([]goast.Stmt, error) {
	switch target := target.(type) {
	case *ast.Identifier:
		t.resolve(target.Name)
		return []goast.Stmt{assign(goast.NewIdent(EscapeIdent(target.Name)), value)}, nil
	case *ast.MemberExpression:
		stmts, obj, key, err := t.memberParts(target)
		if err != nil {
			return nil, err
		}
		return append(stmts, exprStmt(setter(target.Computed, obj, key, value))), nil
	}
	return nil, malformed(target, "invalid assignment target")
}

func (t *translator) VisitBreakStatement(bs *ast.BreakStatement) (Result, error) {
	return t.jump(bs, bs.Label, false)
}

func (t *translator) VisitContinueStatement(cs *ast.ContinueStatement) (Result, error) {
	return t.jump(cs, cs.Label, true)
}

// jump lowers break and continue. Inside a try block the jump leaves the
// block as a Completion and the code after Try performs it.
func (t *translator) jump(n ast.Node, label *ast.Identifier, cont bool) (Result, error) {
	l, crossed := t.findLoop(label)
	if l == nil {
		if label != nil {
			return Result{}, malformed(n, "unknown label %s", label.Name)
		}
		return Result{}, malformed(n, "%s outside a loop", n.Type())
	}
	j := jump{loop: l, cont: cont}
	if len(crossed) == 0 {
		return Result{Stmts: []goast.Stmt{j.branchTo()}}, nil
	}
	for _, c := range crossed {
		c.addEscape(j)
	}
	completion := "Break"
	if cont {
		completion = "Continue"
	}
	return Result{Stmts: []goast.Stmt{returnStmt(call(completion, stringLit(j.target())))}}, nil
}
