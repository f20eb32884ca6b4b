package ast

import (
	"fmt"
)

// Visitor has one method per node type. Implementations are checked by the
// compiler, so adding a node type breaks every visitor that does not handle it.
type Visitor[R any] interface {
	VisitProgram(*Program) (R, error)

	VisitExpressionStatement(*ExpressionStatement) (R, error)
	VisitBlockStatement(*BlockStatement) (R, error)
	VisitEmptyStatement(*EmptyStatement) (R, error)
	VisitReturnStatement(*ReturnStatement) (R, error)
	VisitIfStatement(*IfStatement) (R, error)
	VisitThrowStatement(*ThrowStatement) (R, error)
	VisitTryStatement(*TryStatement) (R, error)
	VisitCatchClause(*CatchClause) (R, error)
	VisitWhileStatement(*WhileStatement) (R, error)
	VisitDoWhileStatement(*DoWhileStatement) (R, error)
	VisitForStatement(*ForStatement) (R, error)
	VisitForInStatement(*ForInStatement) (R, error)
	VisitForOfStatement(*ForOfStatement) (R, error)
	VisitBreakStatement(*BreakStatement) (R, error)
	VisitContinueStatement(*ContinueStatement) (R, error)
	VisitLabeledStatement(*LabeledStatement) (R, error)
	VisitFunctionDeclaration(*FunctionDeclaration) (R, error)
	VisitVariableDeclaration(*VariableDeclaration) (R, error)
	VisitVariableDeclarator(*VariableDeclarator) (R, error)

	VisitLiteral(*Literal) (R, error)
	VisitIdentifier(*Identifier) (R, error)
	VisitThisExpression(*ThisExpression) (R, error)
	VisitArrayExpression(*ArrayExpression) (R, error)
	VisitObjectExpression(*ObjectExpression) (R, error)
	VisitProperty(*Property) (R, error)
	VisitFunctionExpression(*FunctionExpression) (R, error)
	VisitUnaryExpression(*UnaryExpression) (R, error)
	VisitUpdateExpression(*UpdateExpression) (R, error)
	VisitBinaryExpression(*BinaryExpression) (R, error)
	VisitLogicalExpression(*LogicalExpression) (R, error)
	VisitAssignmentExpression(*AssignmentExpression) (R, error)
	VisitConditionalExpression(*ConditionalExpression) (R, error)
	VisitCallExpression(*CallExpression) (R, error)
	VisitNewExpression(*NewExpression) (R, error)
	VisitMemberExpression(*MemberExpression) (R, error)
	VisitSequenceExpression(*SequenceExpression) (R, error)

	VisitUnknown(*Unknown) (R, error)
}

// Accept calls the method of v matching the dynamic type of n.
func Accept[R any](n Node, v Visitor[R]) (R, error) {
	switch n := n.(type) {
	case *Program:
		return v.VisitProgram(n)
	case *ExpressionStatement:
		return v.VisitExpressionStatement(n)
	case *BlockStatement:
		return v.VisitBlockStatement(n)
	case *EmptyStatement:
		return v.VisitEmptyStatement(n)
	case *ReturnStatement:
		return v.VisitReturnStatement(n)
	case *IfStatement:
		return v.VisitIfStatement(n)
	case *ThrowStatement:
		return v.VisitThrowStatement(n)
	case *TryStatement:
		return v.VisitTryStatement(n)
	case *CatchClause:
		return v.VisitCatchClause(n)
	case *WhileStatement:
		return v.VisitWhileStatement(n)
	case *DoWhileStatement:
		return v.VisitDoWhileStatement(n)
	case *ForStatement:
		return v.VisitForStatement(n)
	case *ForInStatement:
		return v.VisitForInStatement(n)
	case *ForOfStatement:
		return v.VisitForOfStatement(n)
	case *BreakStatement:
		return v.VisitBreakStatement(n)
	case *ContinueStatement:
		return v.VisitContinueStatement(n)
	case *LabeledStatement:
		return v.VisitLabeledStatement(n)
	case *FunctionDeclaration:
		return v.VisitFunctionDeclaration(n)
	case *VariableDeclaration:
		return v.VisitVariableDeclaration(n)
	case *VariableDeclarator:
		return v.VisitVariableDeclarator(n)
	case *Literal:
		return v.VisitLiteral(n)
	case *Identifier:
		return v.VisitIdentifier(n)
	case *ThisExpression:
		return v.VisitThisExpression(n)
	case *ArrayExpression:
		return v.VisitArrayExpression(n)
	case *ObjectExpression:
		return v.VisitObjectExpression(n)
	case *Property:
		return v.VisitProperty(n)
	case *FunctionExpression:
		return v.VisitFunctionExpression(n)
	case *UnaryExpression:
		return v.VisitUnaryExpression(n)
	case *UpdateExpression:
		return v.VisitUpdateExpression(n)
	case *BinaryExpression:
		return v.VisitBinaryExpression(n)
	case *LogicalExpression:
		return v.VisitLogicalExpression(n)
	case *AssignmentExpression:
		return v.VisitAssignmentExpression(n)
	case *ConditionalExpression:
		return v.VisitConditionalExpression(n)
	case *CallExpression:
		return v.VisitCallExpression(n)
	case *NewExpression:
		return v.VisitNewExpression(n)
	case *MemberExpression:
		return v.VisitMemberExpression(n)
	case *SequenceExpression:
		return v.VisitSequenceExpression(n)
	case *Unknown:
		return v.VisitUnknown(n)
	}
	var zero R
	return zero, fmt.Errorf("ast: unexpected node %T", n)
}
