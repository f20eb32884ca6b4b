// Package transformer lowers a JavaScript syntax tree to a Go syntax tree
// that runs against the pkg/runtime support library.
package transformer

import (
	"fmt"
	goast "go/ast"
	"go/token"

	"go.uber.org/zap"
	"golang.org/x/tools/go/ast/astutil"

	"github.com/FedeBP/ecmago/pkg/ast"
)

// DefaultRuntimePath is the import path of the runtime generated code uses.
const DefaultRuntimePath = "github.com/FedeBP/ecmago/pkg/runtime"

type Transformer struct {
	log         *zap.Logger
	runtimePath string
	pkg         string
}

type Option func(*Transformer)

// WithLogger sets the logger used for debug tracing. The default discards
// everything.
func WithLogger(log *zap.Logger) Option {
	return func(t *Transformer) { t.log = log }
}

// WithRuntimePath overrides the import path of the runtime package.
func WithRuntimePath(path string) Option {
	return func(t *Transformer) { t.runtimePath = path }
}

// WithPackage sets the package name of generated files. Package main gets a
// main function; any other package exports Main() error instead.
func WithPackage(name string) Option {
	return func(t *Transformer) { t.pkg = name }
}

func NewTransformer(opts ...Option) *Transformer {
	t := &Transformer{
		log:         zap.NewNop(),
		runtimePath: DefaultRuntimePath,
		pkg:         "main",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Result is the translation of one node: statements that must run first, in
// order, and the expression producing the node's value. Expr is nil exactly
// for statements.
type Result struct {
	Stmts []goast.Stmt
	Expr  goast.Expr
}

// Transform translates a whole program into a Go file. The Transformer keeps
// no state between calls.
func (t *Transformer) Transform(program *ast.Program) (*goast.File, error) {
	if program == nil {
		return nil, fmt.Errorf("%w: nil program", ErrMalformedNode)
	}
	tr := t.newTranslator()
	r, err := ast.Accept[Result](program, tr)
	if err != nil {
		t.log.Debug("translation failed", zap.Error(err))
		return nil, err
	}
	t.log.Debug("translated program",
		zap.Int("statements", len(program.Body)),
		zap.Int("globals", len(tr.free)))
	return t.file(r.Stmts), nil
}

// Translate lowers a single node outside of any function, as the top level
// of a program would see it.
func (t *Transformer) Translate(node ast.Node) (Result, error) {
	if node == nil {
		return Result{}, fmt.Errorf("%w: nil node", ErrMalformedNode)
	}
	r, err := ast.Accept[Result](node, t.newTranslator())
	if err != nil {
		t.log.Debug("translation failed", zap.String("node", node.Type()), zap.Error(err))
	}
	return r, err
}

func (t *Transformer) file(body []goast.Stmt) *goast.File {
	program := &goast.FuncLit{
		Type: funcType([]*goast.Field{{Names: []*goast.Ident{goast.NewIdent("this")}, Type: valueType()}}),
		Body: block(body),
	}

	entry := &goast.FuncDecl{
		Name: goast.NewIdent("main"),
		Type: funcType(nil),
		Body: block([]goast.Stmt{exprStmt(call("Run", program))}),
	}
	if t.pkg != "main" {
		entry = &goast.FuncDecl{
			Doc:  &goast.CommentGroup{List: []*goast.Comment{{Text: "// Main runs the translated program."}}},
			Name: goast.NewIdent("Main"),
			Type: funcType(nil, goast.NewIdent("error")),
			Body: block([]goast.Stmt{returnStmt(call("Execute", program))}),
		}
	}

	file := &goast.File{
		Name:  goast.NewIdent(t.pkg),
		Decls: []goast.Decl{entry},
	}
	astutil.AddNamedImport(token.NewFileSet(), file, ".", t.runtimePath)
	return file
}

// translator holds the state of one translation.
type translator struct {
	log      *zap.Logger
	names    *NameGenerator
	frames   []*frame
	closures []*closure
	free     []string
	hoisted  map[*ast.FunctionDeclaration]bool
}

var _ ast.Visitor[Result] = (*translator)(nil)

func (t *Transformer) newTranslator() *translator {
	tr := &translator{
		log:     t.log,
		names:   NewNameGenerator(),
		hoisted: make(map[*ast.FunctionDeclaration]bool),
	}
	tr.pushFrame(newFrame())
	tr.pushClosure(programClosure)
	return tr
}

func (t *translator) expression(e ast.Expression) (Result, error) {
	if e == nil {
		return Result{}, fmt.Errorf("%w: missing expression", ErrMalformedNode)
	}
	r, err := ast.Accept[Result](e, t)
	if err != nil {
		return Result{}, err
	}
	if r.Expr == nil {
		return Result{}, malformed(e, "statement used as an expression")
	}
	return r, nil
}

func (t *translator) statement(s ast.Statement) ([]goast.Stmt, error) {
	if s == nil {
		return nil, nil
	}
	r, err := ast.Accept[Result](s, t)
	return r.Stmts, err
}

func (t *translator) statements(list []ast.Statement) ([]goast.Stmt, error) {
	var out []goast.Stmt
	for _, s := range list {
		stmts, err := t.statement(s)
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
	}
	return out, nil
}

func (t *translator) VisitProgram(p *ast.Program) (Result, error) {
	info := collectScope(p.Body, nil)
	for _, name := range info.declared {
		t.frames[0].names[name] = true
	}
	body, err := t.functionBody(info, p.Body)
	if err != nil {
		return Result{}, err
	}

	// Free names are only known once every function has been lowered.
	var head []goast.Stmt
	declared := escapeAll(info.declared)
	if len(declared) > 0 {
		head = append(head, declareUndefined(declared))
	}
	for _, name := range t.free {
		goName := EscapeIdent(name)
		head = append(head, declareVars([]string{goName}, call("Global", stringLit(name))))
		declared = append(declared, goName)
	}
	if len(declared) > 0 {
		head = append(head, blankUse(declared))
	}
	return Result{Stmts: append(head, body...)}, nil
}

func (t *translator) VisitUnknown(u *ast.Unknown) (Result, error) {
	return Result{}, &UnsupportedConstructError{Type: u.Kind, Span: u.Span()}
}

func escapeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = EscapeIdent(n)
	}
	return out
}
