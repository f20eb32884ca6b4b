package runtime

import (
	"errors"
	"fmt"
)

// ErrUnresolvedName is wrapped by the ReferenceError thrown when a name is
// found in none of the scopes searched.
var ErrUnresolvedName = errors.New("unresolved name")

// Scope maps variable names to their storage in one activation. A scope
// chain is an ordered list of Scopes, innermost first.
type Scope map[string]*Value

// UpdateVar implements ++ and -- on a variable. The first scope holding a
// bound name receives old±1; the new value is returned when prefix is set, the old
// (numeric) value otherwise.
func UpdateVar(name, op string, prefix bool, scopes ...Scope) Value {
	v, err := updateVar(name, op, prefix, scopes)
	if err != nil {
		if errors.Is(err, ErrUnresolvedName) {
			panic(throwable("ReferenceError", name+" is not defined", err))
		}
		panic(throwable("TypeError", err.Error(), err))
	}
	return v
}

func updateVar(name, op string, prefix bool, scopes []Scope) (Value, error) {
	for _, scope := range scopes {
		cell, ok := scope[name]
		if !ok || cell == nil || *cell == nil {
			continue
		}
		old := Number(ToNumber(*cell))
		updated, err := step(old, op)
		if err != nil {
			return nil, err
		}
		*cell = updated
		if prefix {
			return updated, nil
		}
		return old, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnresolvedName, name)
}

// UpdateMember implements ++ and -- on obj[key].
func UpdateMember(obj, key Value, op string, prefix bool) Value {
	k := Key(key)
	old := Number(ToNumber(Member(obj, k)))
	updated, err := step(old, op)
	if err != nil {
		panic(throwable("TypeError", err.Error(), err))
	}
	SetMember(obj, k, updated)
	if prefix {
		return updated
	}
	return old
}

func step(n Number, op string) (Number, error) {
	switch op {
	case "++":
		return n.Add(1), nil
	case "--":
		return n.Add(-1), nil
	}
	return 0, fmt.Errorf("invalid update operator %q", op)
}

// Declare is the value of a declared variable: a cell that was never bound
// reads as undefined.
func Declare(v Value) Value {
	return normalize(v)
}
