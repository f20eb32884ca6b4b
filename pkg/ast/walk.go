package ast

// Inspect traverses the tree rooted at node in depth-first order, calling f
// for each node before its children. If f returns false the children of that
// node are skipped.
func Inspect(node Node, f func(Node) bool) {
	if isNil(node) || !f(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, f)
	}
}

// Children returns the direct, non-nil children of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *Program:
		for _, s := range n.Body {
			add(s)
		}
	case *ExpressionStatement:
		add(n.Expression)
	case *BlockStatement:
		for _, s := range n.Body {
			add(s)
		}
	case *ReturnStatement:
		add(n.Argument)
	case *IfStatement:
		add(n.Test, n.Consequent, n.Alternate)
	case *ThrowStatement:
		add(n.Argument)
	case *TryStatement:
		add(n.Block, n.Handler, n.Finalizer)
	case *CatchClause:
		add(n.Param, n.Body)
	case *WhileStatement:
		add(n.Test, n.Body)
	case *DoWhileStatement:
		add(n.Body, n.Test)
	case *ForStatement:
		add(n.Init, n.Test, n.Update, n.Body)
	case *ForInStatement:
		add(n.Left, n.Right, n.Body)
	case *ForOfStatement:
		add(n.Left, n.Right, n.Body)
	case *BreakStatement:
		add(n.Label)
	case *ContinueStatement:
		add(n.Label)
	case *LabeledStatement:
		add(n.Label, n.Body)
	case *FunctionDeclaration:
		add(n.ID)
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *VariableDeclaration:
		for _, d := range n.Declarations {
			add(d)
		}
	case *VariableDeclarator:
		add(n.ID, n.Init)
	case *ArrayExpression:
		for _, e := range n.Elements {
			add(e)
		}
	case *ObjectExpression:
		for _, p := range n.Properties {
			add(p)
		}
	case *Property:
		add(n.Key, n.Value)
	case *FunctionExpression:
		add(n.ID)
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *UnaryExpression:
		add(n.Argument)
	case *UpdateExpression:
		add(n.Argument)
	case *BinaryExpression:
		add(n.Left, n.Right)
	case *LogicalExpression:
		add(n.Left, n.Right)
	case *AssignmentExpression:
		add(n.Left, n.Right)
	case *ConditionalExpression:
		add(n.Test, n.Consequent, n.Alternate)
	case *CallExpression:
		add(n.Callee)
		for _, a := range n.Arguments {
			add(a)
		}
	case *NewExpression:
		add(n.Callee)
		for _, a := range n.Arguments {
			add(a)
		}
	case *MemberExpression:
		add(n.Object, n.Property)
	case *SequenceExpression:
		for _, e := range n.Expressions {
			add(e)
		}
	}
	return out
}

// isNil catches typed nil pointers stored in a Node interface.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch n := n.(type) {
	case *BlockStatement:
		return n == nil
	case *CatchClause:
		return n == nil
	case *Identifier:
		return n == nil
	case *VariableDeclarator:
		return n == nil
	case *Property:
		return n == nil
	}
	return false
}
