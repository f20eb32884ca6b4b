package runtime

import (
	"math"
)

// Typeof implements the typeof operator.
func Typeof(v Value) Value {
	switch v := normalize(v).(type) {
	case *Object:
		if v.call != nil {
			return String("function")
		}
		return String("object")
	case nullValue:
		return String("object")
	default:
		return String(v.Kind().String())
	}
}

// StrictlyEqual is true iff a and b have the same type and are equal by
// value; objects compare by identity and NaN is never equal to itself.
func StrictlyEqual(a, b Value) bool {
	a, b = normalize(a), normalize(b)
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case Number:
		return a == b.(Number)
	case String:
		return a == b.(String)
	case Boolean:
		return a == b.(Boolean)
	case *Object:
		return a == b.(*Object)
	}
	return true
}

func looseEqual(a, b Value) bool {
	a, b = normalize(a), normalize(b)
	ka, kb := a.Kind(), b.Kind()
	switch {
	case ka == kb:
		return StrictlyEqual(a, b)
	case isNullish(a) || isNullish(b):
		return isNullish(a) && isNullish(b)
	case ka == KindNumber && kb == KindString, ka == KindString && kb == KindNumber:
		return ToNumber(a) == ToNumber(b)
	case ka == KindBoolean:
		return looseEqual(Number(ToNumber(a)), b)
	case kb == KindBoolean:
		return looseEqual(a, Number(ToNumber(b)))
	case ka == KindObject:
		return looseEqual(ToPrimitive(a, "default"), b)
	case kb == KindObject:
		return looseEqual(a, ToPrimitive(b, "default"))
	}
	return false
}

// Equal implements ==.
func Equal(a, b Value) Value { return Boolean(looseEqual(a, b)) }

// NotEqual implements !=.
func NotEqual(a, b Value) Value { return Boolean(!looseEqual(a, b)) }

// lessThan is the abstract relational comparison a < b; defined is false
// when either side converts to NaN.
func lessThan(a, b Value) (result, defined bool) {
	pa, pb := ToPrimitive(a, "number"), ToPrimitive(b, "number")
	sa, aIsString := pa.(String)
	sb, bIsString := pb.(String)
	if aIsString && bIsString {
		return sa < sb, true
	}
	na, nb := ToNumber(pa), ToNumber(pb)
	if math.IsNaN(na) || math.IsNaN(nb) {
		return false, false
	}
	return na < nb, true
}

func Less(a, b Value) Value {
	r, _ := lessThan(a, b)
	return Boolean(r)
}

func Greater(a, b Value) Value {
	r, _ := lessThan(b, a)
	return Boolean(r)
}

func LessEqual(a, b Value) Value {
	r, defined := lessThan(b, a)
	return Boolean(defined && !r)
}

func GreaterEqual(a, b Value) Value {
	r, defined := lessThan(a, b)
	return Boolean(defined && !r)
}

// Add implements +: string concatenation when either primitive operand is a
// string, numeric addition otherwise.
func Add(a, b Value) Value {
	pa, pb := ToPrimitive(a, "default"), ToPrimitive(b, "default")
	_, aIsString := pa.(String)
	_, bIsString := pb.(String)
	if aIsString || bIsString {
		return String(ToString(pa) + ToString(pb))
	}
	return Number(ToNumber(pa)).Add(Number(ToNumber(pb)))
}

func Sub(a, b Value) Value { return Number(ToNumber(a) - ToNumber(b)) }
func Mul(a, b Value) Value { return Number(ToNumber(a) * ToNumber(b)) }
func Div(a, b Value) Value { return Number(ToNumber(a) / ToNumber(b)) }
func Mod(a, b Value) Value { return Number(math.Mod(ToNumber(a), ToNumber(b))) }

func BitAnd(a, b Value) Value { return Number(toInt32(a) & toInt32(b)) }
func BitOr(a, b Value) Value  { return Number(toInt32(a) | toInt32(b)) }
func BitXor(a, b Value) Value { return Number(toInt32(a) ^ toInt32(b)) }

func ShiftLeft(a, b Value) Value {
	return Number(toInt32(a) << (toUint32(b) & 31))
}

func ShiftRight(a, b Value) Value {
	return Number(toInt32(a) >> (toUint32(b) & 31))
}

func UnsignedShiftRight(a, b Value) Value {
	return Number(toUint32(a) >> (toUint32(b) & 31))
}

// In implements key in obj.
func In(key, obj Value) Value {
	o, ok := obj.(*Object)
	if !ok {
		panic(typeError("Cannot use 'in' operator to search for '%s' in %s", Key(key), ToString(obj)))
	}
	return Boolean(o.Has(Key(key)))
}

// InstanceOf implements v instanceof ctor.
func InstanceOf(v, ctor Value) Value {
	c, ok := ctor.(*Object)
	if !ok || c.call == nil {
		panic(typeError("Right-hand side of 'instanceof' is not callable"))
	}
	o, ok := v.(*Object)
	if !ok || c.prototype == nil {
		return Boolean(false)
	}
	for p := o.proto; p != nil; p = p.proto {
		if p == c.prototype {
			return Boolean(true)
		}
	}
	return Boolean(false)
}

func Not(v Value) Value    { return Boolean(!Truthy(v)) }
func Negate(v Value) Value { return Number(-ToNumber(v)) }
func Plus(v Value) Value   { return Number(ToNumber(v)) }
func BitNot(v Value) Value { return Number(^toInt32(v)) }

// Void evaluates nothing further and yields undefined.
func Void(Value) Value { return Undefined }
