package transformer

import (
	"errors"
	"fmt"

	"github.com/FedeBP/ecmago/pkg/ast"
)

var (
	// ErrUnsupportedConstruct matches every *UnsupportedConstructError.
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	// ErrMalformedNode matches every *MalformedNodeError.
	ErrMalformedNode = errors.New("malformed node")
)

// UnsupportedConstructError reports syntax that has no lowering, such as
// switch statements or regular expression literals.
type UnsupportedConstructError struct {
	Type string
	Span ast.Span
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("%s: unsupported construct %s", e.Span, e.Type)
}

func (e *UnsupportedConstructError) Unwrap() error { return ErrUnsupportedConstruct }

// MalformedNodeError reports a node that is well typed but cannot appear
// where it was found, such as a return outside a function.
type MalformedNodeError struct {
	Type   string
	Span   ast.Span
	Reason string
}

func (e *MalformedNodeError) Error() string {
	return fmt.Sprintf("%s: malformed %s: %s", e.Span, e.Type, e.Reason)
}

func (e *MalformedNodeError) Unwrap() error { return ErrMalformedNode }

func malformed(n ast.Node, format string, args ...any) error {
	return &MalformedNodeError{Type: n.Type(), Span: n.Span(), Reason: fmt.Sprintf(format, args...)}
}

// typeOf names a child node in a diagnostic; the child may be missing.
func typeOf(n ast.Node) string {
	if n == nil {
		return "missing"
	}
	return n.Type()
}
