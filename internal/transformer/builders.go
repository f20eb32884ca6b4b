package transformer

import (
	goast "go/ast"
	"go/token"
	"math"
	"strconv"
	"strings"
)

func call(fn string, args ...goast.Expr) *goast.CallExpr {
	return &goast.CallExpr{Fun: goast.NewIdent(fn), Args: args}
}

func methodCall(recv goast.Expr, method string) *goast.CallExpr {
	return &goast.CallExpr{Fun: &goast.SelectorExpr{X: recv, Sel: goast.NewIdent(method)}}
}

func stringLit(s string) *goast.BasicLit {
	return &goast.BasicLit{Kind: token.STRING, Value: strconv.Quote(s)}
}

// numberLit renders f as Number(...). Literals never produce NaN; an
// overflowing literal becomes 1/0.
func numberLit(f float64) goast.Expr {
	if math.IsInf(f, 0) {
		return call("Div", numberLit(math.Copysign(1, f)), numberLit(0))
	}
	kind := token.INT
	value := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(value, ".e") {
		kind = token.FLOAT
	}
	if f < 0 {
		return call("Number", &goast.UnaryExpr{Op: token.SUB, X: &goast.BasicLit{Kind: kind, Value: value[1:]}})
	}
	return call("Number", &goast.BasicLit{Kind: kind, Value: value})
}

func boolIdent(b bool) *goast.Ident {
	if b {
		return goast.NewIdent("true")
	}
	return goast.NewIdent("false")
}

func valueType() *goast.Ident { return goast.NewIdent("Value") }

func exprStmt(e goast.Expr) goast.Stmt { return &goast.ExprStmt{X: e} }

func assign(lhs, rhs goast.Expr) goast.Stmt {
	return &goast.AssignStmt{Lhs: []goast.Expr{lhs}, Tok: token.ASSIGN, Rhs: []goast.Expr{rhs}}
}

func define(name string, rhs goast.Expr) goast.Stmt {
	return &goast.AssignStmt{Lhs: []goast.Expr{goast.NewIdent(name)}, Tok: token.DEFINE, Rhs: []goast.Expr{rhs}}
}

// discard is `_ = e`.
func discard(e goast.Expr) goast.Stmt {
	return assign(goast.NewIdent("_"), e)
}

// declareVars is `var a, b Value`, or `var a Value = init` when init is set.
func declareVars(names []string, init goast.Expr) goast.Stmt {
	spec := &goast.ValueSpec{Type: valueType()}
	for _, n := range names {
		spec.Names = append(spec.Names, goast.NewIdent(n))
	}
	if init != nil {
		spec.Values = []goast.Expr{init}
	}
	return &goast.DeclStmt{Decl: &goast.GenDecl{Tok: token.VAR, Specs: []goast.Spec{spec}}}
}

// declareUndefined is `var a, b Value = Undefined, Undefined`. Hoisted
// names start bound, so only never-assigned globals hold a nil Value.
func declareUndefined(names []string) goast.Stmt {
	decl := declareVars(names, nil)
	spec := decl.(*goast.DeclStmt).Decl.(*goast.GenDecl).Specs[0].(*goast.ValueSpec)
	for range names {
		spec.Values = append(spec.Values, goast.NewIdent("Undefined"))
	}
	return decl
}

// blankUse is `_, _ = a, b` so that variables which are only assigned still
// count as used.
func blankUse(names []string) goast.Stmt {
	stmt := &goast.AssignStmt{Tok: token.ASSIGN}
	for _, n := range names {
		stmt.Lhs = append(stmt.Lhs, goast.NewIdent("_"))
		stmt.Rhs = append(stmt.Rhs, goast.NewIdent(n))
	}
	return stmt
}

func block(stmts []goast.Stmt) *goast.BlockStmt {
	return &goast.BlockStmt{List: stmts}
}

func branch(tok token.Token, label string) goast.Stmt {
	stmt := &goast.BranchStmt{Tok: tok}
	if label != "" {
		stmt.Label = goast.NewIdent(label)
	}
	return stmt
}

func returnStmt(results ...goast.Expr) goast.Stmt {
	return &goast.ReturnStmt{Results: results}
}

// truthy converts e to a Go bool. Boolean(x) already wraps one.
func truthy(e goast.Expr) goast.Expr {
	if c, ok := e.(*goast.CallExpr); ok && len(c.Args) == 1 {
		if id, ok := c.Fun.(*goast.Ident); ok && id.Name == "Boolean" {
			return c.Args[0]
		}
	}
	return call("Truthy", e)
}

func not(e goast.Expr) goast.Expr { return &goast.UnaryExpr{Op: token.NOT, X: e} }

// breakUnless is `if !Truthy(e) { break }`.
func breakUnless(e goast.Expr) goast.Stmt {
	return &goast.IfStmt{Cond: not(truthy(e)), Body: block([]goast.Stmt{branch(token.BREAK, "")})}
}

func funcType(params []*goast.Field, results ...goast.Expr) *goast.FuncType {
	ft := &goast.FuncType{Params: &goast.FieldList{List: params}}
	if len(results) > 0 {
		ft.Results = &goast.FieldList{}
		for _, r := range results {
			ft.Results.List = append(ft.Results.List, &goast.Field{Type: r})
		}
	}
	return ft
}

// thunk is `func() Value { stmts; return e }`.
func thunk(stmts []goast.Stmt, e goast.Expr) *goast.FuncLit {
	body := append(append([]goast.Stmt(nil), stmts...), returnStmt(e))
	return &goast.FuncLit{Type: funcType(nil, valueType()), Body: block(body)}
}

// terminates reports whether the statement list ends in a return or a
// panic, so nothing may follow it.
func terminates(stmts []goast.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	switch s := stmts[len(stmts)-1].(type) {
	case *goast.ReturnStmt:
		return true
	case *goast.ExprStmt:
		c, ok := s.X.(*goast.CallExpr)
		if !ok {
			return false
		}
		id, ok := c.Fun.(*goast.Ident)
		return ok && id.Name == "panic"
	}
	return false
}

// conversions are the runtime types a literal is wrapped in.
var conversions = map[string]bool{"Number": true, "String": true, "Boolean": true}

// isCall reports whether e is a function call that may stand alone as a
// statement.
func isCall(e goast.Expr) bool {
	c, ok := e.(*goast.CallExpr)
	if !ok {
		return false
	}
	if id, ok := c.Fun.(*goast.Ident); ok && conversions[id.Name] {
		return false
	}
	return true
}

// effectful lists the runtime functions that can run user code or write to
// variables and properties.
var effectful = map[string]bool{
	"Call": true, "CallMethod": true, "New": true, "UpdateVar": true,
	"UpdateMember": true, "SetMember": true, "SetIndex": true, "Delete": true,
}

// mayWrite reports whether evaluating e can change a variable.
func mayWrite(e goast.Expr) bool {
	if e == nil {
		return false
	}
	found := false
	goast.Inspect(e, func(n goast.Node) bool {
		switch n := n.(type) {
		case *goast.FuncLit:
			found = true
		case *goast.CallExpr:
			if id, ok := n.Fun.(*goast.Ident); ok && effectful[id.Name] {
				found = true
			}
		}
		return !found
	})
	return found
}
