package transformer

import (
	goast "go/ast"

	"go.uber.org/zap"

	"github.com/FedeBP/ecmago/pkg/ast"
)

func (t *translator) VisitFunctionDeclaration(fd *ast.FunctionDeclaration) (Result, error) {
	if t.hoisted[fd] {
		return Result{}, nil
	}
	stmts, err := t.functionDeclaration(fd)
	return Result{Stmts: stmts}, err
}

// functionDeclaration binds the function object to its name.
func (t *translator) functionDeclaration(fd *ast.FunctionDeclaration) ([]goast.Stmt, error) {
	if fd.ID == nil || fd.Body == nil {
		return nil, malformed(fd, "function declaration needs a name and a body")
	}
	t.resolve(fd.ID.Name)
	fn, err := t.function(fd.ID.Name, "", fd.Params, fd.Body, fd)
	if err != nil {
		return nil, err
	}
	return []goast.Stmt{assign(goast.NewIdent(EscapeIdent(fd.ID.Name)), fn)}, nil
}

func (t *translator) VisitFunctionExpression(fe *ast.FunctionExpression) (Result, error) {
	return t.functionExpression(fe, "")
}

// functionExpression lowers fe to a function value. An anonymous function
// takes hint as its name. A named one sees itself under its own name.
func (t *translator) functionExpression(fe *ast.FunctionExpression, hint string) (Result, error) {
	if fe.Body == nil {
		return Result{}, malformed(fe, "function without a body")
	}
	ref := t.names.Next("fn")
	if fe.ID == nil {
		fn, err := t.function(hint, "", fe.Params, fe.Body, fe)
		if err != nil {
			return Result{}, err
		}
		return Result{Stmts: []goast.Stmt{define(ref, fn)}, Expr: goast.NewIdent(ref)}, nil
	}

	fn, err := t.function(fe.ID.Name, ref, fe.Params, fe.Body, fe)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Stmts: []goast.Stmt{declareVars([]string{ref}, nil), assign(goast.NewIdent(ref), fn)},
		Expr:  goast.NewIdent(ref),
	}, nil
}

// function builds NewFunction(name, func(this Value, params...) Value {...}).
// When ref is set, name is bound inside the body to the Go variable ref
// unless a parameter or variable of the same name hides it.
func (t *translator) function(name, ref string, params []*ast.Identifier, body *ast.BlockStatement, node ast.Node) (goast.Expr, error) {
	skip := make(map[string]bool, len(params))
	paramNames := make([]string, len(params))
	for i, p := range params {
		if p == nil {
			return nil, malformed(node, "missing parameter")
		}
		skip[p.Name] = true
		paramNames[i] = p.Name
	}
	info := collectScope(body.Body, skip)

	f := newFrame(paramNames...)
	for _, n := range info.declared {
		f.names[n] = true
	}
	self := ref != "" && !f.names[name]
	if self {
		f.names[name] = true
	}

	t.pushFrame(f)
	t.pushClosure(functionClosure)
	stmts, err := t.functionBody(info, body.Body)
	t.popClosure()
	t.popFrame()
	if err != nil {
		return nil, err
	}

	var head []goast.Stmt
	locals := escapeAll(info.declared)
	if len(locals) > 0 {
		head = append(head, declareUndefined(locals))
	}
	if self {
		head = append(head, declareVars([]string{EscapeIdent(name)}, goast.NewIdent(ref)))
		locals = append(locals, EscapeIdent(name))
	}
	if len(locals) > 0 {
		head = append(head, blankUse(locals))
	}
	stmts = append(head, stmts...)
	if !terminates(stmts) {
		stmts = append(stmts, returnStmt(goast.NewIdent("Undefined")))
	}

	t.log.Debug("lowered function",
		zap.String("name", name),
		zap.Stringer("span", node.Span()),
		zap.Int("params", len(params)))

	lit := &goast.FuncLit{
		Type: funcType([]*goast.Field{{Names: goParams(paramNames), Type: valueType()}}, valueType()),
		Body: block(stmts),
	}
	return call("NewFunction", stringLit(name), lit), nil
}

// goParams names the Go parameters: the receiver first, then the source
// parameters. A repeated parameter name is bound by its last occurrence.
func goParams(names []string) []*goast.Ident {
	last := make(map[string]int, len(names))
	for i, n := range names {
		last[n] = i
	}
	idents := []*goast.Ident{goast.NewIdent("this")}
	for i, n := range names {
		if last[n] != i {
			idents = append(idents, goast.NewIdent("_"))
			continue
		}
		idents = append(idents, goast.NewIdent(EscapeIdent(n)))
	}
	return idents
}

// functionBody lowers the statements of a function or program. Function
// declarations listed in info are assigned before anything else runs.
func (t *translator) functionBody(info scopeInfo, body []ast.Statement) ([]goast.Stmt, error) {
	var stmts []goast.Stmt
	for _, fd := range info.hoisted {
		t.hoisted[fd] = true
		assign, err := t.functionDeclaration(fd)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, assign...)
	}
	rest, err := t.statements(body)
	if err != nil {
		return nil, err
	}
	return append(stmts, rest...), nil
}
