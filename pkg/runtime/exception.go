package runtime

import (
	"fmt"
)

// Exception carries a thrown JavaScript value through Go's panic/recover.
type Exception struct {
	Value Value
	cause error
}

// Throw wraps v so that panic(Throw(v)) raises it.
func Throw(v Value) *Exception {
	return &Exception{Value: normalize(v)}
}

func (e *Exception) Error() string {
	return "Uncaught " + inspect(e.Value, 0)
}

func (e *Exception) Unwrap() error { return e.cause }

func throwable(kind, msg string, cause error) *Exception {
	return &Exception{Value: NewError(kind, msg), cause: cause}
}

func typeError(format string, args ...any) *Exception {
	return throwable("TypeError", fmt.Sprintf(format, args...), nil)
}

func rangeError(msg string) *Exception {
	return throwable("RangeError", msg, nil)
}

// recovered converts anything passed to panic into an Exception. Go runtime
// errors become Error objects so a catch clause can still observe them.
func recovered(r any) *Exception {
	switch r := r.(type) {
	case *Exception:
		return r
	case error:
		return throwable("Error", r.Error(), r)
	default:
		return Throw(String(fmt.Sprint(r)))
	}
}

type CompletionKind uint8

const (
	CompletionNormal CompletionKind = iota
	CompletionReturn
	CompletionBreak
	CompletionContinue
)

// Completion reports how a try, catch or finally block ended. Target is the
// label of the loop a break or continue jumps to.
type Completion struct {
	Kind   CompletionKind
	Value  Value
	Target string
}

func Normal() Completion               { return Completion{} }
func Return(v Value) Completion        { return Completion{Kind: CompletionReturn, Value: normalize(v)} }
func Break(label string) Completion    { return Completion{Kind: CompletionBreak, Target: label} }
func Continue(label string) Completion { return Completion{Kind: CompletionContinue, Target: label} }

func (c Completion) Returned() bool { return c.Kind == CompletionReturn }

func (c Completion) Breaks(label string) bool {
	return c.Kind == CompletionBreak && c.Target == label
}

func (c Completion) Continues(label string) bool {
	return c.Kind == CompletionContinue && c.Target == label
}

// Abrupt reports whether the block ended with return, break or continue.
func (c Completion) Abrupt() bool { return c.Kind != CompletionNormal }

// Try runs body. If it throws and handler is not nil, handler receives the
// thrown value; every thrown value is caught, whatever its kind. finalizer,
// when not nil, always runs last; an abrupt finalizer completion overrides
// both the result and any pending exception.
func Try(body func() Completion, handler func(Value) Completion, finalizer func() Completion) Completion {
	c, thrown := protect(body)
	if thrown != nil && handler != nil {
		exc := thrown
		if finalizer == nil {
			return handler(exc.Value)
		}
		c, thrown = protect(func() Completion { return handler(exc.Value) })
	}
	if finalizer != nil {
		if fc := finalizer(); fc.Abrupt() {
			return fc
		}
	}
	if thrown != nil {
		panic(thrown)
	}
	return c
}

func protect(block func() Completion) (c Completion, thrown *Exception) {
	defer func() {
		if r := recover(); r != nil {
			thrown = recovered(r)
		}
	}()
	return block(), nil
}
