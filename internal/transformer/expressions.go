package transformer

import (
	"fmt"
	goast "go/ast"
	"go/token"
	"strings"

	"github.com/FedeBP/ecmago/pkg/ast"
	"github.com/FedeBP/ecmago/pkg/runtime"
)

func (t *translator) VisitLiteral(l *ast.Literal) (Result, error) {
	switch v := l.Value.(type) {
	case float64:
		return Result{Expr: numberLit(v)}, nil
	case int:
		return Result{Expr: numberLit(float64(v))}, nil
	case int64:
		return Result{Expr: numberLit(float64(v))}, nil
	case string:
		return Result{Expr: call("String", stringLit(v))}, nil
	case bool:
		return Result{Expr: call("Boolean", boolIdent(v))}, nil
	case nil:
		return Result{Expr: goast.NewIdent("Null")}, nil
	}
	return Result{}, malformed(l, "literal of type %T", l.Value)
}

func (t *translator) VisitIdentifier(id *ast.Identifier) (Result, error) {
	return Result{Expr: t.reference(id.Name)}, nil
}

// reference is the Go expression reading the variable name.
func (t *translator) reference(name string) goast.Expr {
	if name == "undefined" && !t.declared(name) {
		return goast.NewIdent("Undefined")
	}
	t.resolve(name)
	return goast.NewIdent(EscapeIdent(name))
}

func (t *translator) declared(name string) bool {
	for _, f := range t.frames {
		if f.names[name] {
			return true
		}
	}
	return false
}

func (t *translator) VisitThisExpression(*ast.ThisExpression) (Result, error) {
	return Result{Expr: goast.NewIdent("this")}, nil
}

func (t *translator) VisitArrayExpression(a *ast.ArrayExpression) (Result, error) {
	results := make([]Result, len(a.Elements))
	for i, e := range a.Elements {
		if e == nil {
			results[i] = Result{Expr: goast.NewIdent("Undefined")}
			continue
		}
		r, err := t.expression(e)
		if err != nil {
			return Result{}, err
		}
		results[i] = r
	}
	stmts, exprs := t.ordered(results)
	return Result{Stmts: stmts, Expr: call("NewArray", exprs...)}, nil
}

func (t *translator) VisitObjectExpression(o *ast.ObjectExpression) (Result, error) {
	var results []Result
	for _, p := range o.Properties {
		rs, err := t.propertyParts(p)
		if err != nil {
			return Result{}, err
		}
		results = append(results, rs...)
	}
	stmts, exprs := t.ordered(results)

	props := make([]goast.Expr, 0, len(o.Properties))
	for _, p := range o.Properties {
		var keyExpr goast.Expr
		if p.Computed {
			keyExpr = call("Key", exprs[0])
			exprs = exprs[1:]
		} else {
			name, _ := propertyKey(p.Key)
			keyExpr = stringLit(name)
		}
		props = append(props, call("Prop", keyExpr, exprs[0]))
		exprs = exprs[1:]
	}
	return Result{Stmts: stmts, Expr: call("NewObject", props...)}, nil
}

func (t *translator) VisitProperty(p *ast.Property) (Result, error) {
	results, err := t.propertyParts(p)
	if err != nil {
		return Result{}, err
	}
	stmts, exprs := t.ordered(results)
	if p.Computed {
		return Result{Stmts: stmts, Expr: call("Prop", call("Key", exprs[0]), exprs[1])}, nil
	}
	name, _ := propertyKey(p.Key)
	return Result{Stmts: stmts, Expr: call("Prop", stringLit(name), exprs[0])}, nil
}

// propertyParts translates the computed key, when there is one, and the
// value of p.
func (t *translator) propertyParts(p *ast.Property) ([]Result, error) {
	if p.Kind != "" && p.Kind != "init" {
		return nil, &UnsupportedConstructError{Type: "Property(" + p.Kind + ")", Span: p.Span()}
	}
	var results []Result
	if p.Computed {
		k, err := t.expression(p.Key)
		if err != nil {
			return nil, err
		}
		results = append(results, k)
	} else if _, err := propertyKey(p.Key); err != nil {
		return nil, malformed(p, "%v", err)
	}

	var v Result
	var err error
	if fe, ok := p.Value.(*ast.FunctionExpression); ok && !p.Computed {
		name, _ := propertyKey(p.Key)
		v, err = t.functionExpression(fe, name)
	} else {
		v, err = t.expression(p.Value)
	}
	if err != nil {
		return nil, err
	}
	return append(results, v), nil
}

// propertyKey is the property name a non-computed key stands for.
func propertyKey(key ast.Expression) (string, error) {
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name, nil
	case *ast.Literal:
		switch v := k.Value.(type) {
		case string:
			return v, nil
		case float64:
			return runtime.ToString(runtime.Number(v)), nil
		}
	}
	return "", fmt.Errorf("invalid property key %T", key)
}

func (t *translator) VisitUnaryExpression(u *ast.UnaryExpression) (Result, error) {
	if u.Operator == "delete" {
		return t.deleteExpression(u)
	}
	if lit, ok := u.Argument.(*ast.Literal); ok && u.Operator == "-" {
		if f, ok := lit.Value.(float64); ok && f != 0 {
			return Result{Expr: numberLit(-f)}, nil
		}
	}

	fn, err := convertUnaryOperator(u.Operator)
	if err != nil {
		return Result{}, malformed(u, "%v", err)
	}
	arg, err := t.expression(u.Argument)
	if err != nil {
		return Result{}, err
	}
	return Result{Stmts: arg.Stmts, Expr: call(fn, arg.Expr)}, nil
}

func convertUnaryOperator(op string) (string, error) {
	switch op {
	case "typeof":
		return "Typeof", nil
	case "!":
		return "Not", nil
	case "-":
		return "Negate", nil
	case "+":
		return "Plus", nil
	case "~":
		return "BitNot", nil
	case "void":
		return "Void", nil
	}
	return "", fmt.Errorf("unsupported unary operator %q", op)
}

func (t *translator) deleteExpression(u *ast.UnaryExpression) (Result, error) {
	switch arg := u.Argument.(type) {
	case *ast.MemberExpression:
		stmts, obj, key, err := t.memberParts(arg)
		if err != nil {
			return Result{}, err
		}
		return Result{Stmts: stmts, Expr: call("Delete", obj, key)}, nil
	case *ast.Identifier:
		// Declared variables cannot be deleted.
		return Result{Expr: call("Boolean", boolIdent(false))}, nil
	}
	arg, err := t.expression(u.Argument)
	if err != nil {
		return Result{}, err
	}
	return Result{Stmts: arg.Stmts, Expr: call("Last", arg.Expr, call("Boolean", boolIdent(true)))}, nil
}

// memberParts translates the object and key of m. The key is a String
// literal for dotted access and the computed value otherwise.
func (t *translator) memberParts(m *ast.MemberExpression) (stmts []goast.Stmt, obj, key goast.Expr, err error) {
	o, err := t.expression(m.Object)
	if err != nil {
		return nil, nil, nil, err
	}
	if !m.Computed {
		id, ok := m.Property.(*ast.Identifier)
		if !ok {
			return nil, nil, nil, malformed(m, "property is %s, not an identifier", typeOf(m.Property))
		}
		return o.Stmts, o.Expr, call("String", stringLit(id.Name)), nil
	}
	k, err := t.expression(m.Property)
	if err != nil {
		return nil, nil, nil, err
	}
	stmts, exprs := t.ordered([]Result{o, k})
	return stmts, exprs[0], exprs[1], nil
}

// memberKey turns the key from memberParts into the string argument of the
// runtime accessors.
func memberKey(key goast.Expr) goast.Expr {
	if c, ok := key.(*goast.CallExpr); ok && len(c.Args) == 1 {
		if id, ok := c.Fun.(*goast.Ident); ok && id.Name == "String" {
			if lit, ok := c.Args[0].(*goast.BasicLit); ok && lit.Kind == token.STRING {
				return lit
			}
		}
	}
	return call("Key", key)
}

func (t *translator) VisitMemberExpression(m *ast.MemberExpression) (Result, error) {
	stmts, obj, key, err := t.memberParts(m)
	if err != nil {
		return Result{}, err
	}
	if m.Computed {
		return Result{Stmts: stmts, Expr: call("Index", obj, key)}, nil
	}
	return Result{Stmts: stmts, Expr: call("Member", obj, memberKey(key))}, nil
}

func (t *translator) VisitUpdateExpression(u *ast.UpdateExpression) (Result, error) {
	if u.Operator != "++" && u.Operator != "--" {
		return Result{}, malformed(u, "unsupported update operator %q", u.Operator)
	}
	switch arg := u.Argument.(type) {
	case *ast.Identifier:
		return Result{Expr: call("UpdateVar",
			stringLit(arg.Name), stringLit(u.Operator), boolIdent(u.Prefix), t.scopeOf(arg.Name))}, nil
	case *ast.MemberExpression:
		stmts, obj, key, err := t.memberParts(arg)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Stmts: stmts,
			Expr:  call("UpdateMember", obj, key, stringLit(u.Operator), boolIdent(u.Prefix)),
		}, nil
	}
	return Result{}, malformed(u, "invalid update target %s", typeOf(u.Argument))
}

// scopeOf is the Scope of the frame declaring name, mapping it to the
// variable's address. Names resolve statically, so no other frame on the
// chain can hold it.
func (t *translator) scopeOf(name string) goast.Expr {
	t.resolve(name)
	return &goast.CompositeLit{
		Type: goast.NewIdent("Scope"),
		Elts: []goast.Expr{&goast.KeyValueExpr{
			Key:   stringLit(name),
			Value: &goast.UnaryExpr{Op: token.AND, X: goast.NewIdent(EscapeIdent(name))},
		}},
	}
}

func (t *translator) VisitBinaryExpression(b *ast.BinaryExpression) (Result, error) {
	left, err := t.expression(b.Left)
	if err != nil {
		return Result{}, err
	}
	right, err := t.expression(b.Right)
	if err != nil {
		return Result{}, err
	}
	stmts, exprs := t.ordered([]Result{left, right})

	switch b.Operator {
	case "===":
		return Result{Stmts: stmts, Expr: call("Boolean", call("StrictlyEqual", exprs...))}, nil
	case "!==":
		return Result{Stmts: stmts, Expr: call("Boolean", not(call("StrictlyEqual", exprs...)))}, nil
	}
	fn, err := convertBinaryOperator(b.Operator)
	if err != nil {
		return Result{}, malformed(b, "%v", err)
	}
	return Result{Stmts: stmts, Expr: call(fn, exprs...)}, nil
}

func convertBinaryOperator(op string) (string, error) {
	if fn, ok := arithmeticOperators[op]; ok {
		return fn, nil
	}
	switch op {
	case "==":
		return "Equal", nil
	case "!=":
		return "NotEqual", nil
	case "<":
		return "Less", nil
	case ">":
		return "Greater", nil
	case "<=":
		return "LessEqual", nil
	case ">=":
		return "GreaterEqual", nil
	case "in":
		return "In", nil
	case "instanceof":
		return "InstanceOf", nil
	}
	return "", fmt.Errorf("unsupported binary operator %q", op)
}

// arithmeticOperators are the binary operators that also have a compound
// assignment form.
var arithmeticOperators = map[string]string{
	"+":   "Add",
	"-":   "Sub",
	"*":   "Mul",
	"/":   "Div",
	"%":   "Mod",
	"&":   "BitAnd",
	"|":   "BitOr",
	"^":   "BitXor",
	"<<":  "ShiftLeft",
	">>":  "ShiftRight",
	">>>": "UnsignedShiftRight",
}

func (t *translator) VisitLogicalExpression(l *ast.LogicalExpression) (Result, error) {
	var fn string
	switch l.Operator {
	case "&&":
		fn = "And"
	case "||":
		fn = "Or"
	default:
		return Result{}, malformed(l, "unsupported logical operator %q", l.Operator)
	}
	left, err := t.expression(l.Left)
	if err != nil {
		return Result{}, err
	}
	right, err := t.expression(l.Right)
	if err != nil {
		return Result{}, err
	}
	return Result{Stmts: left.Stmts, Expr: call(fn, left.Expr, thunk(right.Stmts, right.Expr))}, nil
}

func (t *translator) VisitConditionalExpression(c *ast.ConditionalExpression) (Result, error) {
	test, err := t.expression(c.Test)
	if err != nil {
		return Result{}, err
	}
	cons, err := t.expression(c.Consequent)
	if err != nil {
		return Result{}, err
	}
	alt, err := t.expression(c.Alternate)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Stmts: test.Stmts,
		Expr:  call("Ternary", truthy(test.Expr), thunk(cons.Stmts, cons.Expr), thunk(alt.Stmts, alt.Expr)),
	}, nil
}

func (t *translator) VisitCallExpression(c *ast.CallExpression) (Result, error) {
	if m, ok := c.Callee.(*ast.MemberExpression); ok {
		return t.methodCall(m, c.Arguments)
	}
	return t.invocation("Call", c.Callee, c.Arguments)
}

func (t *translator) VisitNewExpression(n *ast.NewExpression) (Result, error) {
	return t.invocation("New", n.Callee, n.Arguments)
}

func (t *translator) invocation(fn string, callee ast.Expression, args []ast.Expression) (Result, error) {
	results := make([]Result, 0, len(args)+1)
	f, err := t.expression(callee)
	if err != nil {
		return Result{}, err
	}
	results = append(results, f)
	for _, a := range args {
		r, err := t.expression(a)
		if err != nil {
			return Result{}, err
		}
		results = append(results, r)
	}
	stmts, exprs := t.ordered(results)
	return Result{Stmts: stmts, Expr: call(fn, exprs...)}, nil
}

// methodCall calls o.key(args...) with o as the receiver.
func (t *translator) methodCall(m *ast.MemberExpression, args []ast.Expression) (Result, error) {
	o, err := t.expression(m.Object)
	if err != nil {
		return Result{}, err
	}
	results := []Result{o}
	var key goast.Expr
	if m.Computed {
		k, err := t.expression(m.Property)
		if err != nil {
			return Result{}, err
		}
		results = append(results, k)
	} else {
		id, ok := m.Property.(*ast.Identifier)
		if !ok {
			return Result{}, malformed(m, "property is %s, not an identifier", typeOf(m.Property))
		}
		key = stringLit(id.Name)
	}
	for _, a := range args {
		r, err := t.expression(a)
		if err != nil {
			return Result{}, err
		}
		results = append(results, r)
	}

	stmts, exprs := t.ordered(results)
	obj, rest := exprs[0], exprs[1:]
	if m.Computed {
		key, rest = call("Key", rest[0]), rest[1:]
	}
	return Result{Stmts: stmts, Expr: call("CallMethod", append([]goast.Expr{obj, key}, rest...)...)}, nil
}

func (t *translator) VisitSequenceExpression(s *ast.SequenceExpression) (Result, error) {
	if len(s.Expressions) == 0 {
		return Result{}, malformed(s, "empty sequence")
	}
	results := make([]Result, len(s.Expressions))
	for i, e := range s.Expressions {
		r, err := t.expression(e)
		if err != nil {
			return Result{}, err
		}
		results[i] = r
	}
	stmts, exprs := t.ordered(results)
	if len(exprs) == 1 {
		return Result{Stmts: stmts, Expr: exprs[0]}, nil
	}
	return Result{Stmts: stmts, Expr: call("Last", exprs...)}, nil
}

func (t *translator) VisitAssignmentExpression(a *ast.AssignmentExpression) (Result, error) {
	return t.assignment(a, true)
}

// assignment lowers a = b and its compound forms. With wantValue unset the
// result carries statements only.
func (t *translator) assignment(a *ast.AssignmentExpression, wantValue bool) (Result, error) {
	var binop string
	if a.Operator != "=" {
		fn, ok := arithmeticOperators[strings.TrimSuffix(a.Operator, "=")]
		if !ok || !strings.HasSuffix(a.Operator, "=") {
			return Result{}, malformed(a, "unsupported assignment operator %q", a.Operator)
		}
		binop = fn
	}

	switch target := a.Left.(type) {
	case *ast.Identifier:
		t.resolve(target.Name)
		name := EscapeIdent(target.Name)
		rhs, err := t.value(a.Right, target.Name)
		if err != nil {
			return Result{}, err
		}
		stmts, value := rhs.Stmts, rhs.Expr
		if binop != "" {
			var exprs []goast.Expr
			stmts, exprs = t.ordered([]Result{{Expr: goast.NewIdent(name)}, rhs})
			value = call(binop, exprs...)
		}
		stmts = append(stmts, assign(goast.NewIdent(name), value))
		r := Result{Stmts: stmts}
		if wantValue {
			r.Expr = goast.NewIdent(name)
		}
		return r, nil

	case *ast.MemberExpression:
		stmts, obj, key, err := t.memberParts(target)
		if err != nil {
			return Result{}, err
		}
		var set goast.Expr
		if binop == "" {
			rhs, err := t.expression(a.Right)
			if err != nil {
				return Result{}, err
			}
			var exprs []goast.Expr
			stmts, exprs = t.ordered([]Result{{Stmts: stmts, Expr: obj}, {Expr: key}, rhs})
			set = setter(target.Computed, exprs[0], exprs[1], exprs[2])
		} else {
			obj, key = t.pin(&stmts, obj), t.pin(&stmts, key)
			current := call("Member", obj, memberKey(key))
			if target.Computed {
				current = call("Index", obj, key)
			}
			rhs, err := t.expression(a.Right)
			if err != nil {
				return Result{}, err
			}
			more, exprs := t.ordered([]Result{{Expr: current}, rhs})
			stmts = append(stmts, more...)
			set = setter(target.Computed, obj, key, call(binop, exprs...))
		}
		if wantValue {
			return Result{Stmts: stmts, Expr: set}, nil
		}
		return Result{Stmts: append(stmts, exprStmt(set))}, nil
	}
	return Result{}, malformed(a, "invalid assignment target %s", typeOf(a.Left))
}

func setter(computed bool, obj, key, value goast.Expr) goast.Expr {
	if computed {
		return call("SetIndex", obj, key, value)
	}
	return call("SetMember", obj, memberKey(key), value)
}

// value translates e, naming an anonymous function after the variable it is
// assigned to.
func (t *translator) value(e ast.Expression, name string) (Result, error) {
	if fe, ok := e.(*ast.FunctionExpression); ok {
		return t.functionExpression(fe, name)
	}
	return t.expression(e)
}
