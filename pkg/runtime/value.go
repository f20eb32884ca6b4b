// Package runtime is the support library imported by translated programs.
// It models JavaScript values and implements the operators, coercions and
// builtins the generated Go code calls.
package runtime

// Value is any JavaScript value. A nil Value is treated as undefined.
type Value interface {
	Kind() Kind
}

type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	}
	return "unknown"
}

type undefinedValue struct{}

func (undefinedValue) Kind() Kind { return KindUndefined }

type nullValue struct{}

func (nullValue) Kind() Kind { return KindNull }

var (
	Undefined Value = undefinedValue{}
	Null      Value = nullValue{}
)

type Boolean bool

func (Boolean) Kind() Kind { return KindBoolean }

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Number wraps a JavaScript number. Integral values print without a
// fractional part.
type Number float64

func (Number) Kind() Kind { return KindNumber }

func (n Number) String() string { return formatNumber(float64(n)) }

// Add returns n + m as a Number so arithmetic chains stay wrapped.
func (n Number) Add(m Number) Number { return n + m }

type String string

func (String) Kind() Kind { return KindString }

func (s String) String() string { return string(s) }

func normalize(v Value) Value {
	if v == nil {
		return Undefined
	}
	return v
}

func kindOf(v Value) Kind {
	return normalize(v).Kind()
}

func isNullish(v Value) bool {
	k := kindOf(v)
	return k == KindUndefined || k == KindNull
}
