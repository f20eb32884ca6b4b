package transformer

import (
	goast "go/ast"
	"go/token"

	"github.com/FedeBP/ecmago/pkg/ast"
)

// frame is one level of the variable scope chain: a function activation or
// the binding of a catch parameter.
type frame struct {
	names map[string]bool
}

func newFrame(names ...string) *frame {
	f := &frame{names: make(map[string]bool, len(names))}
	for _, n := range names {
		f.names[n] = true
	}
	return f
}

type closureKind uint8

const (
	programClosure closureKind = iota
	functionClosure
	tryClosure
)

// closure is a Go function literal being filled in: the program body, a
// translated function, or one of the blocks handed to Try. break, continue
// and return that leave a try closure travel as Completion values.
type closure struct {
	kind    closureKind
	loops   []*loop
	escapes []jump
	returns bool
}

// loop is a translated loop and the Go labels its jumps use.
type loop struct {
	labels []string // source labels naming the loop
	label  string   // Go label of the loop itself
	pass   string   // Go label of the single-pass body, "" when continue targets label

	labelUsed bool
	passUsed  bool
}

// jump is a break (cont false) or continue aimed at l.
type jump struct {
	loop *loop
	cont bool
}

// branchTo returns the Go statement performing j and marks its label used.
func (j jump) branchTo() goast.Stmt {
	l := j.loop
	switch {
	case !j.cont:
		l.labelUsed = true
		return branch(token.BREAK, l.label)
	case l.pass != "":
		l.passUsed = true
		return branch(token.BREAK, l.pass)
	}
	l.labelUsed = true
	return branch(token.CONTINUE, l.label)
}

// target is the label carried by a Completion for j.
func (j jump) target() string {
	if j.cont && j.loop.pass != "" {
		return j.loop.pass
	}
	return j.loop.label
}

func (c *closure) addEscape(j jump) {
	for _, e := range c.escapes {
		if e == j {
			return
		}
	}
	c.escapes = append(c.escapes, j)
}

func (c *closure) owns(l *loop) bool {
	for _, own := range c.loops {
		if own == l {
			return true
		}
	}
	return false
}

func (t *translator) pushFrame(f *frame) { t.frames = append(t.frames, f) }
func (t *translator) popFrame()          { t.frames = t.frames[:len(t.frames)-1] }

func (t *translator) pushClosure(kind closureKind) *closure {
	c := &closure{kind: kind}
	t.closures = append(t.closures, c)
	return c
}

func (t *translator) popClosure() { t.closures = t.closures[:len(t.closures)-1] }

func (t *translator) currentClosure() *closure { return t.closures[len(t.closures)-1] }

// resolve returns the index of the innermost frame declaring name. Names
// declared nowhere become program globals bound to the builtin of the same
// name.
func (t *translator) resolve(name string) int {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if t.frames[i].names[name] {
			return i
		}
	}
	t.frames[0].names[name] = true
	t.free = append(t.free, name)
	return 0
}

// findLoop locates the loop a break or continue refers to. crossed lists the
// try closures the jump leaves on the way, innermost first.
func (t *translator) findLoop(label *ast.Identifier) (l *loop, crossed []*closure) {
	for i := len(t.closures) - 1; i >= 0; i-- {
		c := t.closures[i]
		for j := len(c.loops) - 1; j >= 0; j-- {
			candidate := c.loops[j]
			if label == nil {
				return candidate, crossed
			}
			for _, name := range candidate.labels {
				if name == label.Name {
					return candidate, crossed
				}
			}
		}
		if c.kind != tryClosure {
			return nil, nil
		}
		crossed = append(crossed, c)
	}
	return nil, nil
}

// scopeInfo is what a function body declares.
type scopeInfo struct {
	declared []string                   // var and function names, first declaration order
	hoisted  []*ast.FunctionDeclaration // declarations placed before the body runs
}

// collectScope finds the names declared by body without entering nested
// functions. Function declarations directly in body are hoisted; nested ones
// stay where they are and only their name is hoisted. Names in skip are
// already bound, as parameters are.
func collectScope(body []ast.Statement, skip map[string]bool) scopeInfo {
	var info scopeInfo
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] && !skip[name] {
			seen[name] = true
			info.declared = append(info.declared, name)
		}
	}
	for _, stmt := range body {
		if fd, ok := stmt.(*ast.FunctionDeclaration); ok {
			info.hoisted = append(info.hoisted, fd)
		}
		ast.Inspect(stmt, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.FunctionDeclaration:
				if n.ID != nil {
					add(n.ID.Name)
				}
				return false
			case *ast.FunctionExpression:
				return false
			case *ast.VariableDeclarator:
				if id, ok := n.ID.(*ast.Identifier); ok {
					add(id.Name)
				}
			}
			return true
		})
	}
	return info
}
