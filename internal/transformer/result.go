package transformer

import (
	goast "go/ast"
	"go/token"
)

// ordered joins sibling results so they evaluate left to right. When a later
// sibling contributes statements, every earlier value that is not a constant
// is spilled to a temporary first. Go leaves the read of a plain variable
// unordered with respect to calls in the same expression, so variables
// followed by a sibling that may write are spilled too.
func (t *translator) ordered(results []Result) ([]goast.Stmt, []goast.Expr) {
	lastStmts, lastWrite := -1, -1
	for i, r := range results {
		if len(r.Stmts) > 0 {
			lastStmts = i
		}
		if mayWrite(r.Expr) {
			lastWrite = i
		}
	}

	var stmts []goast.Stmt
	exprs := make([]goast.Expr, len(results))
	for i, r := range results {
		stmts = append(stmts, r.Stmts...)
		e := r.Expr
		switch {
		case i < lastStmts && !t.constant(e):
			e = t.spill(&stmts, e)
		case i < lastWrite && t.variable(e):
			e = t.spill(&stmts, e)
		}
		exprs[i] = e
	}
	return stmts, exprs
}

func (t *translator) spill(stmts *[]goast.Stmt, e goast.Expr) goast.Expr {
	name := t.names.Next("tmp")
	*stmts = append(*stmts, define(name, e))
	return goast.NewIdent(name)
}

// pin spills e unless it is a constant, for values used more than once.
func (t *translator) pin(stmts *[]goast.Stmt, e goast.Expr) goast.Expr {
	if t.constant(e) {
		return e
	}
	return t.spill(stmts, e)
}

// constant reports whether e always yields the same value: literals, the
// receiver and names minted by the translation, which are never reassigned
// while an expression uses them.
func (t *translator) constant(e goast.Expr) bool {
	switch e := e.(type) {
	case *goast.BasicLit:
		return true
	case *goast.Ident:
		switch e.Name {
		case "Undefined", "Null", "this", "true", "false":
			return true
		}
		return t.names.Minted(e.Name)
	case *goast.UnaryExpr:
		return e.Op == token.SUB && t.constant(e.X)
	case *goast.CallExpr:
		id, ok := e.Fun.(*goast.Ident)
		return ok && conversions[id.Name] && len(e.Args) == 1 && t.constant(e.Args[0])
	}
	return false
}

// variable reports whether e reads a source variable.
func (t *translator) variable(e goast.Expr) bool {
	_, ok := e.(*goast.Ident)
	return ok && !t.constant(e)
}

// discardValue is the statement evaluating e for its effects only.
func (t *translator) discardValue(e goast.Expr) []goast.Stmt {
	if isCall(e) {
		return []goast.Stmt{exprStmt(e)}
	}
	return []goast.Stmt{discard(e)}
}
