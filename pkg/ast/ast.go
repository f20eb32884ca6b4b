package ast

import (
	"fmt"
)

// Position is a 1-based line/column location in the source text.
type Position struct {
	Line   int
	Column int
}

// Span is the source range covered by a node.
type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	if s.Start.Line == 0 {
		return "?"
	}
	return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
}

// Node is implemented by every JavaScript syntax node. The set of
// implementations is closed: only the types in this package satisfy it.
type Node interface {
	Type() string
	Span() Span
	node()
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Meta carries the data shared by all nodes.
type Meta struct {
	Range Span
}

func (m Meta) Span() Span { return m.Range }
func (Meta) node()        {}

type Program struct {
	Meta
	Body []Statement
}

func (p *Program) Type() string { return "Program" }

// Statements

type ExpressionStatement struct {
	Meta
	Expression Expression
}

func (es *ExpressionStatement) statementNode() {}
func (es *ExpressionStatement) Type() string   { return "ExpressionStatement" }

type BlockStatement struct {
	Meta
	Body []Statement
}

func (bs *BlockStatement) statementNode() {}
func (bs *BlockStatement) Type() string   { return "BlockStatement" }

type EmptyStatement struct {
	Meta
}

func (es *EmptyStatement) statementNode() {}
func (es *EmptyStatement) Type() string   { return "EmptyStatement" }

type ReturnStatement struct {
	Meta
	Argument Expression // nil for a bare return
}

func (rs *ReturnStatement) statementNode() {}
func (rs *ReturnStatement) Type() string   { return "ReturnStatement" }

type IfStatement struct {
	Meta
	Test       Expression
	Consequent Statement
	Alternate  Statement // Can be nil, a BlockStatement or an IfStatement (else if)
}

func (is *IfStatement) statementNode() {}
func (is *IfStatement) Type() string   { return "IfStatement" }

type ThrowStatement struct {
	Meta
	Argument Expression
}

func (ts *ThrowStatement) statementNode() {}
func (ts *ThrowStatement) Type() string   { return "ThrowStatement" }

type TryStatement struct {
	Meta
	Block     *BlockStatement
	Handler   *CatchClause
	Finalizer *BlockStatement
}

func (ts *TryStatement) statementNode() {}
func (ts *TryStatement) Type() string   { return "TryStatement" }

type CatchClause struct {
	Meta
	Param *Identifier
	Body  *BlockStatement
}

func (cc *CatchClause) Type() string { return "CatchClause" }

type WhileStatement struct {
	Meta
	Test Expression
	Body Statement
}

func (ws *WhileStatement) statementNode() {}
func (ws *WhileStatement) Type() string   { return "WhileStatement" }

type DoWhileStatement struct {
	Meta
	Body Statement
	Test Expression
}

func (dw *DoWhileStatement) statementNode() {}
func (dw *DoWhileStatement) Type() string   { return "DoWhileStatement" }

type ForStatement struct {
	Meta
	Init   Node // Can be nil, a VariableDeclaration or an Expression
	Test   Expression
	Update Expression
	Body   Statement
}

func (fs *ForStatement) statementNode() {}
func (fs *ForStatement) Type() string   { return "ForStatement" }

type ForInStatement struct {
	Meta
	Left  Node // VariableDeclaration or Identifier
	Right Expression
	Body  Statement
}

func (fi *ForInStatement) statementNode() {}
func (fi *ForInStatement) Type() string   { return "ForInStatement" }

type ForOfStatement struct {
	Meta
	Left  Node // VariableDeclaration or Identifier
	Right Expression
	Body  Statement
}

func (fo *ForOfStatement) statementNode() {}
func (fo *ForOfStatement) Type() string   { return "ForOfStatement" }

type BreakStatement struct {
	Meta
	Label *Identifier
}

func (bs *BreakStatement) statementNode() {}
func (bs *BreakStatement) Type() string   { return "BreakStatement" }

type ContinueStatement struct {
	Meta
	Label *Identifier
}

func (cs *ContinueStatement) statementNode() {}
func (cs *ContinueStatement) Type() string   { return "ContinueStatement" }

type LabeledStatement struct {
	Meta
	Label *Identifier
	Body  Statement
}

func (ls *LabeledStatement) statementNode() {}
func (ls *LabeledStatement) Type() string   { return "LabeledStatement" }

type FunctionDeclaration struct {
	Meta
	ID     *Identifier
	Params []*Identifier
	Body   *BlockStatement
}

func (fd *FunctionDeclaration) statementNode() {}
func (fd *FunctionDeclaration) Type() string   { return "FunctionDeclaration" }

type VariableDeclaration struct {
	Meta
	Kind         string // "var"; "let" and "const" are rejected by the translator
	Declarations []*VariableDeclarator
}

func (vd *VariableDeclaration) statementNode() {}
func (vd *VariableDeclaration) Type() string   { return "VariableDeclaration" }

type VariableDeclarator struct {
	Meta
	ID   Expression // must be an *Identifier
	Init Expression
}

func (vd *VariableDeclarator) Type() string { return "VariableDeclarator" }

// Expressions

// Literal holds a float64, string, bool or nil (null) Value.
type Literal struct {
	Meta
	Value any
	Raw   string
}

func (l *Literal) expressionNode() {}
func (l *Literal) Type() string    { return "Literal" }

type Identifier struct {
	Meta
	Name string
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) Type() string    { return "Identifier" }

type ThisExpression struct {
	Meta
}

func (te *ThisExpression) expressionNode() {}
func (te *ThisExpression) Type() string    { return "ThisExpression" }

type ArrayExpression struct {
	Meta
	Elements []Expression // nil entries are holes
}

func (ae *ArrayExpression) expressionNode() {}
func (ae *ArrayExpression) Type() string    { return "ArrayExpression" }

type ObjectExpression struct {
	Meta
	Properties []*Property
}

func (oe *ObjectExpression) expressionNode() {}
func (oe *ObjectExpression) Type() string    { return "ObjectExpression" }

// Property lowers to a single key/value binding of its object literal, so it
// is treated as a value-producing node.
type Property struct {
	Meta
	Key      Expression // Identifier or Literal unless Computed
	Value    Expression
	Kind     string // "init", "get" or "set"
	Computed bool
}

func (p *Property) expressionNode() {}
func (p *Property) Type() string    { return "Property" }

type FunctionExpression struct {
	Meta
	ID     *Identifier // nil for anonymous functions
	Params []*Identifier
	Body   *BlockStatement
}

func (fe *FunctionExpression) expressionNode() {}
func (fe *FunctionExpression) Type() string    { return "FunctionExpression" }

type UnaryExpression struct {
	Meta
	Operator string
	Argument Expression
}

func (ue *UnaryExpression) expressionNode() {}
func (ue *UnaryExpression) Type() string    { return "UnaryExpression" }

type UpdateExpression struct {
	Meta
	Operator string // "++" or "--"
	Prefix   bool
	Argument Expression
}

func (ue *UpdateExpression) expressionNode() {}
func (ue *UpdateExpression) Type() string    { return "UpdateExpression" }

type BinaryExpression struct {
	Meta
	Operator string
	Left     Expression
	Right    Expression
}

func (be *BinaryExpression) expressionNode() {}
func (be *BinaryExpression) Type() string    { return "BinaryExpression" }

type LogicalExpression struct {
	Meta
	Operator string // "&&" or "||"
	Left     Expression
	Right    Expression
}

func (le *LogicalExpression) expressionNode() {}
func (le *LogicalExpression) Type() string    { return "LogicalExpression" }

type AssignmentExpression struct {
	Meta
	Operator string
	Left     Expression
	Right    Expression
}

func (ae *AssignmentExpression) expressionNode() {}
func (ae *AssignmentExpression) Type() string    { return "AssignmentExpression" }

type ConditionalExpression struct {
	Meta
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (ce *ConditionalExpression) expressionNode() {}
func (ce *ConditionalExpression) Type() string    { return "ConditionalExpression" }

type CallExpression struct {
	Meta
	Callee    Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode() {}
func (ce *CallExpression) Type() string    { return "CallExpression" }

type NewExpression struct {
	Meta
	Callee    Expression
	Arguments []Expression
}

func (ne *NewExpression) expressionNode() {}
func (ne *NewExpression) Type() string    { return "NewExpression" }

type MemberExpression struct {
	Meta
	Object   Expression
	Property Expression
	Computed bool
}

func (me *MemberExpression) expressionNode() {}
func (me *MemberExpression) Type() string    { return "MemberExpression" }

type SequenceExpression struct {
	Meta
	Expressions []Expression
}

func (se *SequenceExpression) expressionNode() {}
func (se *SequenceExpression) Type() string    { return "SequenceExpression" }

// Unknown stands for syntax the front-end recognized but that has no
// counterpart in this package (switch, with, regular expressions...).
type Unknown struct {
	Meta
	Kind string
}

func (u *Unknown) statementNode()  {}
func (u *Unknown) expressionNode() {}
func (u *Unknown) Type() string    { return u.Kind }

// IsExpression reports whether n is a value-producing node.
func IsExpression(n Node) bool {
	if _, ok := n.(*Unknown); ok {
		return false
	}
	_, ok := n.(Expression)
	return ok
}
