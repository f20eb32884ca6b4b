package runtime

// Ternary evaluates only the branch selected by condition.
func Ternary(condition bool, consequent, alternate func() Value) Value {
	if condition {
		return normalize(consequent())
	}
	return normalize(alternate())
}

// And implements &&: right runs only when left is truthy.
func And(left Value, right func() Value) Value {
	if !Truthy(left) {
		return normalize(left)
	}
	return normalize(right())
}

// Or implements ||: right runs only when left is falsy.
func Or(left Value, right func() Value) Value {
	if Truthy(left) {
		return normalize(left)
	}
	return normalize(right())
}

// Last implements the comma operator. Go evaluates the arguments left to
// right, the last one is the result.
func Last(values ...Value) Value {
	if len(values) == 0 {
		return Undefined
	}
	return normalize(values[len(values)-1])
}

// SpreadToArray returns the elements of an iterable value.
func SpreadToArray(v Value) []Value {
	var out []Value
	for e := range Values(v) {
		out = append(out, e)
	}
	return out
}
