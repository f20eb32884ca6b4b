package runtime

import (
	"math"
	"math/big"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

type native func(this Value, args []Value) Value

// The prototypes are built in init: they refer to one another through the
// functions installed on them.
var (
	objectPrototype   *Object
	functionPrototype *Object
	arrayPrototype    *Object
	stringPrototype   *Object
	numberPrototype   *Object
	errorPrototypes   map[string]*Object
	globals           map[string]Value
)

func init() {
	objectPrototype = newObject(classObject, nil)
	functionPrototype = newObject(classObject, objectPrototype)
	arrayPrototype = newObject(classObject, objectPrototype)
	stringPrototype = newObject(classObject, objectPrototype)
	numberPrototype = newObject(classObject, objectPrototype)

	installObjectPrototype()
	installFunctionPrototype()
	installArrayPrototype()
	installStringPrototype()
	installNumberPrototype()
	installGlobals()
}

func method(o *Object, name string, arity int, fn native) {
	o.setHidden(name, newNative(name, arity, fn, nil))
}

// Global returns the builtin bound to name. Unknown names yield a nil Value:
// it reads as undefined but UpdateVar treats the name as unresolved until
// something is assigned to it.
func Global(name string) Value {
	return globals[name]
}

// NewError builds an error object of the given kind ("Error", "TypeError",
// ...) carrying msg.
func NewError(kind, msg string) *Object {
	proto, ok := errorPrototypes[kind]
	if !ok {
		proto = errorPrototypes["Error"]
	}
	e := newObject(classError, proto)
	e.setHidden("message", String(msg))
	return e
}

func installObjectPrototype() {
	method(objectPrototype, "valueOf", 0, func(this Value, _ []Value) Value {
		return normalize(this)
	})
	method(objectPrototype, "toString", 0, func(this Value, _ []Value) Value {
		switch v := normalize(this).(type) {
		case *Object:
			return String("[object " + v.class + "]")
		case undefinedValue:
			return String("[object Undefined]")
		case nullValue:
			return String("[object Null]")
		}
		return String("[object Object]")
	})
	method(objectPrototype, "hasOwnProperty", 1, func(this Value, args []Value) Value {
		o, ok := this.(*Object)
		if !ok {
			return Boolean(false)
		}
		_, own := o.getOwn(Key(arg(args, 0)))
		return Boolean(own)
	})
}

func installFunctionPrototype() {
	method(functionPrototype, "call", 1, func(this Value, args []Value) Value {
		fn := thisFunction(this, "call")
		var rest []Value
		if len(args) > 1 {
			rest = args[1:]
		}
		return normalize(fn.call(arg(args, 0), rest))
	})
	method(functionPrototype, "apply", 2, func(this Value, args []Value) Value {
		fn := thisFunction(this, "apply")
		var list []Value
		switch a := arg(args, 1).(type) {
		case *Object:
			if a.class != classArray {
				panic(typeError("CreateListFromArrayLike called on non-array"))
			}
			list = SpreadToArray(a)
		case undefinedValue, nullValue:
		default:
			panic(typeError("CreateListFromArrayLike called on non-object"))
		}
		return normalize(fn.call(arg(args, 0), list))
	})
	method(functionPrototype, "toString", 0, func(this Value, _ []Value) Value {
		fn := thisFunction(this, "toString")
		return String("function " + fn.name + "() { [native code] }")
	})
}

func thisFunction(this Value, name string) *Object {
	if fn, ok := this.(*Object); ok && fn.call != nil {
		return fn
	}
	panic(typeError("Function.prototype.%s called on non-function", name))
}

func thisArray(this Value, name string) *Object {
	if a, ok := this.(*Object); ok && a.class == classArray {
		return a
	}
	panic(typeError("Array.prototype.%s called on non-array", name))
}

func callback(v Value) *Object {
	if fn, ok := v.(*Object); ok && fn.call != nil {
		return fn
	}
	panic(typeError("%s is not a function", describe(v)))
}

// arrayOf wraps elems without copying; nil entries stay holes.
func arrayOf(elems []Value) *Object {
	a := newObject(classArray, arrayPrototype)
	a.elems = elems
	return a
}

// relativeIndex resolves a possibly negative position argument against
// length, clamping it into [0, length].
func relativeIndex(v Value, length, def int) int {
	if kindOf(v) == KindUndefined {
		return def
	}
	f := math.Trunc(ToNumber(v))
	if math.IsNaN(f) {
		f = 0
	}
	if f < 0 {
		f += float64(length)
	}
	return int(math.Max(0, math.Min(f, float64(length))))
}

func joinElems(a *Object, sep string) string {
	parts := make([]string, len(a.elems))
	for i, e := range a.elems {
		if !isNullish(e) {
			parts[i] = ToString(e)
		}
	}
	return strings.Join(parts, sep)
}

func installArrayPrototype() {
	p := arrayPrototype
	method(p, "push", 1, func(this Value, args []Value) Value {
		a := thisArray(this, "push")
		for _, v := range args {
			a.elems = append(a.elems, normalize(v))
		}
		return Number(len(a.elems))
	})
	method(p, "pop", 0, func(this Value, _ []Value) Value {
		a := thisArray(this, "pop")
		if len(a.elems) == 0 {
			return Undefined
		}
		last := a.elems[len(a.elems)-1]
		a.elems = a.elems[:len(a.elems)-1]
		return normalize(last)
	})
	method(p, "shift", 0, func(this Value, _ []Value) Value {
		a := thisArray(this, "shift")
		if len(a.elems) == 0 {
			return Undefined
		}
		first := a.elems[0]
		a.elems = append([]Value(nil), a.elems[1:]...)
		return normalize(first)
	})
	method(p, "unshift", 1, func(this Value, args []Value) Value {
		a := thisArray(this, "unshift")
		elems := make([]Value, 0, len(args)+len(a.elems))
		for _, v := range args {
			elems = append(elems, normalize(v))
		}
		a.elems = append(elems, a.elems...)
		return Number(len(a.elems))
	})
	method(p, "join", 1, func(this Value, args []Value) Value {
		a := thisArray(this, "join")
		sep := ","
		if s := arg(args, 0); kindOf(s) != KindUndefined {
			sep = ToString(s)
		}
		return String(joinElems(a, sep))
	})
	method(p, "toString", 0, func(this Value, _ []Value) Value {
		return String(joinElems(thisArray(this, "toString"), ","))
	})
	method(p, "indexOf", 1, func(this Value, args []Value) Value {
		a := thisArray(this, "indexOf")
		target := arg(args, 0)
		for i := relativeIndex(arg(args, 1), len(a.elems), 0); i < len(a.elems); i++ {
			if a.elems[i] != nil && StrictlyEqual(a.elems[i], target) {
				return Number(i)
			}
		}
		return Number(-1)
	})
	method(p, "includes", 1, func(this Value, args []Value) Value {
		a := thisArray(this, "includes")
		target := arg(args, 0)
		for _, e := range a.elems {
			if StrictlyEqual(e, target) || (isNaNValue(e) && isNaNValue(target)) {
				return Boolean(true)
			}
		}
		return Boolean(false)
	})
	method(p, "slice", 2, func(this Value, args []Value) Value {
		a := thisArray(this, "slice")
		start := relativeIndex(arg(args, 0), len(a.elems), 0)
		end := relativeIndex(arg(args, 1), len(a.elems), len(a.elems))
		if end < start {
			end = start
		}
		return arrayOf(append([]Value(nil), a.elems[start:end]...))
	})
	method(p, "concat", 1, func(this Value, args []Value) Value {
		a := thisArray(this, "concat")
		elems := append([]Value(nil), a.elems...)
		for _, v := range args {
			if o, ok := v.(*Object); ok && o.class == classArray {
				elems = append(elems, o.elems...)
				continue
			}
			elems = append(elems, normalize(v))
		}
		return arrayOf(elems)
	})
	method(p, "reverse", 0, func(this Value, _ []Value) Value {
		a := thisArray(this, "reverse")
		for i, j := 0, len(a.elems)-1; i < j; i, j = i+1, j-1 {
			a.elems[i], a.elems[j] = a.elems[j], a.elems[i]
		}
		return a
	})
	method(p, "forEach", 1, func(this Value, args []Value) Value {
		a := thisArray(this, "forEach")
		fn := callback(arg(args, 0))
		for i, n := 0, len(a.elems); i < n && i < len(a.elems); i++ {
			if a.elems[i] != nil {
				fn.call(arg(args, 1), []Value{a.elems[i], Number(i), a})
			}
		}
		return Undefined
	})
	method(p, "map", 1, func(this Value, args []Value) Value {
		a := thisArray(this, "map")
		fn := callback(arg(args, 0))
		out := make([]Value, len(a.elems))
		for i := 0; i < len(out) && i < len(a.elems); i++ {
			if a.elems[i] != nil {
				out[i] = normalize(fn.call(arg(args, 1), []Value{a.elems[i], Number(i), a}))
			}
		}
		return arrayOf(out)
	})
	method(p, "filter", 1, func(this Value, args []Value) Value {
		a := thisArray(this, "filter")
		fn := callback(arg(args, 0))
		var out []Value
		for i, n := 0, len(a.elems); i < n && i < len(a.elems); i++ {
			e := a.elems[i]
			if e != nil && Truthy(fn.call(arg(args, 1), []Value{e, Number(i), a})) {
				out = append(out, e)
			}
		}
		return arrayOf(out)
	})
	method(p, "reduce", 1, func(this Value, args []Value) Value {
		a := thisArray(this, "reduce")
		fn := callback(arg(args, 0))
		i, n := 0, len(a.elems)
		var acc Value
		if len(args) > 1 {
			acc = normalize(args[1])
		} else {
			for i < n && a.elems[i] == nil {
				i++
			}
			if i == n {
				panic(typeError("Reduce of empty array with no initial value"))
			}
			acc = a.elems[i]
			i++
		}
		for ; i < n && i < len(a.elems); i++ {
			if a.elems[i] != nil {
				acc = normalize(fn.call(Undefined, []Value{acc, a.elems[i], Number(i), a}))
			}
		}
		return acc
	})
	method(p, "sort", 1, func(this Value, args []Value) Value {
		a := thisArray(this, "sort")
		compare := arg(args, 0)
		if kindOf(compare) != KindUndefined {
			callback(compare)
		}
		var values []Value
		undefineds := 0
		for _, e := range a.elems {
			switch {
			case e == nil:
			case kindOf(e) == KindUndefined:
				undefineds++
			default:
				values = append(values, e)
			}
		}
		sort.SliceStable(values, func(i, j int) bool {
			if kindOf(compare) == KindUndefined {
				return ToString(values[i]) < ToString(values[j])
			}
			return ToNumber(Call(compare, values[i], values[j])) < 0
		})
		holes := len(a.elems) - len(values) - undefineds
		a.elems = a.elems[:0]
		a.elems = append(a.elems, values...)
		for ; undefineds > 0; undefineds-- {
			a.elems = append(a.elems, Undefined)
		}
		for ; holes > 0; holes-- {
			a.elems = append(a.elems, nil)
		}
		return a
	})
}

func isNaNValue(v Value) bool {
	n, ok := v.(Number)
	return ok && math.IsNaN(float64(n))
}

func thisString(this Value, name string) string {
	if isNullish(this) {
		panic(typeError("String.prototype.%s called on null or undefined", name))
	}
	return ToString(this)
}

func utf16Units(s string) []uint16 { return utf16.Encode([]rune(s)) }

func fromUnits(u []uint16) string { return string(utf16.Decode(u)) }

func indexUnits(s, sub []uint16, from int) int {
	for i := from; i+len(sub) <= len(s); i++ {
		match := true
		for j := range sub {
			if s[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func installStringPrototype() {
	p := stringPrototype
	method(p, "charAt", 1, func(this Value, args []Value) Value {
		u := utf16Units(thisString(this, "charAt"))
		i := ToNumber(arg(args, 0))
		if math.IsNaN(i) {
			i = 0
		}
		if i < 0 || i >= float64(len(u)) {
			return String("")
		}
		return String(fromUnits(u[int(i) : int(i)+1]))
	})
	method(p, "charCodeAt", 1, func(this Value, args []Value) Value {
		u := utf16Units(thisString(this, "charCodeAt"))
		i := ToNumber(arg(args, 0))
		if math.IsNaN(i) {
			i = 0
		}
		if i < 0 || i >= float64(len(u)) {
			return Number(math.NaN())
		}
		return Number(u[int(i)])
	})
	method(p, "indexOf", 1, func(this Value, args []Value) Value {
		u := utf16Units(thisString(this, "indexOf"))
		sub := utf16Units(ToString(arg(args, 0)))
		from := relativeIndex(arg(args, 1), len(u), 0)
		if n := ToNumber(arg(args, 1)); n < 0 {
			from = 0
		}
		return Number(indexUnits(u, sub, from))
	})
	method(p, "includes", 1, func(this Value, args []Value) Value {
		s := thisString(this, "includes")
		return Boolean(strings.Contains(s, ToString(arg(args, 0))))
	})
	method(p, "toUpperCase", 0, func(this Value, _ []Value) Value {
		return String(strings.ToUpper(thisString(this, "toUpperCase")))
	})
	method(p, "toLowerCase", 0, func(this Value, _ []Value) Value {
		return String(strings.ToLower(thisString(this, "toLowerCase")))
	})
	method(p, "slice", 2, func(this Value, args []Value) Value {
		u := utf16Units(thisString(this, "slice"))
		start := relativeIndex(arg(args, 0), len(u), 0)
		end := relativeIndex(arg(args, 1), len(u), len(u))
		if end < start {
			return String("")
		}
		return String(fromUnits(u[start:end]))
	})
	method(p, "substring", 2, func(this Value, args []Value) Value {
		u := utf16Units(thisString(this, "substring"))
		clamp := func(v Value, def int) int {
			if kindOf(v) == KindUndefined {
				return def
			}
			f := ToNumber(v)
			if math.IsNaN(f) || f < 0 {
				return 0
			}
			return int(math.Min(math.Trunc(f), float64(len(u))))
		}
		start, end := clamp(arg(args, 0), 0), clamp(arg(args, 1), len(u))
		if start > end {
			start, end = end, start
		}
		return String(fromUnits(u[start:end]))
	})
	method(p, "split", 2, func(this Value, args []Value) Value {
		s := thisString(this, "split")
		sep := arg(args, 0)
		var parts []string
		switch {
		case kindOf(sep) == KindUndefined:
			parts = []string{s}
		case ToString(sep) == "":
			for _, unit := range utf16Units(s) {
				parts = append(parts, fromUnits([]uint16{unit}))
			}
		default:
			parts = strings.Split(s, ToString(sep))
		}
		if limit := arg(args, 1); kindOf(limit) != KindUndefined {
			if n := int(toUint32(limit)); n < len(parts) {
				parts = parts[:n]
			}
		}
		elems := make([]Value, len(parts))
		for i, part := range parts {
			elems[i] = String(part)
		}
		return arrayOf(elems)
	})
	method(p, "trim", 0, func(this Value, _ []Value) Value {
		return String(strings.TrimSpace(thisString(this, "trim")))
	})
	method(p, "replace", 2, func(this Value, args []Value) Value {
		s := thisString(this, "replace")
		pattern := ToString(arg(args, 0))
		i := strings.Index(s, pattern)
		if i < 0 {
			return String(s)
		}
		var replacement string
		if fn, ok := arg(args, 1).(*Object); ok && fn.call != nil {
			replacement = ToString(fn.call(Undefined, []Value{String(pattern)}))
		} else {
			replacement = ToString(arg(args, 1))
		}
		return String(s[:i] + replacement + s[i+len(pattern):])
	})
	method(p, "toString", 0, func(this Value, _ []Value) Value {
		return String(thisString(this, "toString"))
	})
	method(p, "valueOf", 0, func(this Value, _ []Value) Value {
		return String(thisString(this, "valueOf"))
	})
}

func thisNumber(this Value, name string) float64 {
	if n, ok := this.(Number); ok {
		return float64(n)
	}
	panic(typeError("Number.prototype.%s requires that 'this' be a Number", name))
}

func installNumberPrototype() {
	p := numberPrototype
	method(p, "toFixed", 1, func(this Value, args []Value) Value {
		x := thisNumber(this, "toFixed")
		d := ToNumber(arg(args, 0))
		if math.IsNaN(d) {
			d = 0
		}
		if d < 0 || d > 100 {
			panic(rangeError("toFixed() digits argument must be between 0 and 100"))
		}
		if math.IsNaN(x) || math.Abs(x) >= 1e21 {
			return String(formatNumber(x))
		}
		return String(toFixed(x, int(d)))
	})
	method(p, "toString", 1, func(this Value, args []Value) Value {
		x := thisNumber(this, "toString")
		radix := 10.0
		if r := arg(args, 0); kindOf(r) != KindUndefined {
			radix = math.Trunc(ToNumber(r))
		}
		if radix < 2 || radix > 36 || math.IsNaN(radix) {
			panic(rangeError("toString() radix must be between 2 and 36"))
		}
		if radix != 10 && x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return String(strconv.FormatInt(int64(x), int(radix)))
		}
		return String(formatNumber(x))
	})
	method(p, "valueOf", 0, func(this Value, _ []Value) Value {
		return Number(thisNumber(this, "valueOf"))
	})
}

// toFixed formats x with digits decimals. Exact halves round away from zero.
func toFixed(x float64, digits int) string {
	neg := x < 0
	if neg {
		x = -x
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	scaled := new(big.Float).SetPrec(2048).SetFloat64(x)
	scaled.Mul(scaled, new(big.Float).SetPrec(2048).SetInt(scale))
	n, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(2048).Sub(scaled, new(big.Float).SetPrec(2048).SetInt(n))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	s := n.String()
	if digits > 0 {
		if len(s) <= digits {
			s = strings.Repeat("0", digits-len(s)+1) + s
		}
		s = s[:len(s)-digits] + "." + s[len(s)-digits:]
	}
	if neg {
		s = "-" + s
	}
	return s
}

func newErrorConstructor(kind string, proto *Object) *Object {
	build := func(args []Value) Value {
		e := newObject(classError, proto)
		if m := arg(args, 0); kindOf(m) != KindUndefined {
			e.setHidden("message", String(ToString(m)))
		}
		return e
	}
	ctor := newNative(kind, 1, func(_ Value, args []Value) Value { return build(args) }, build)
	ctor.prototype = proto
	proto.setHidden("constructor", ctor)
	return ctor
}

func installErrors() {
	base := newObject(classObject, objectPrototype)
	base.setHidden("name", String("Error"))
	base.setHidden("message", String(""))
	method(base, "toString", 0, func(this Value, _ []Value) Value {
		return String(errorText(this))
	})
	errorPrototypes = map[string]*Object{"Error": base}
	globals["Error"] = newErrorConstructor("Error", base)

	for _, kind := range []string{"TypeError", "ReferenceError", "RangeError", "SyntaxError"} {
		proto := newObject(classObject, base)
		proto.setHidden("name", String(kind))
		errorPrototypes[kind] = proto
		globals[kind] = newErrorConstructor(kind, proto)
	}
}

func errorText(v Value) string {
	name := ToString(Member(v, "name"))
	msg := ToString(Member(v, "message"))
	if msg == "" {
		return name
	}
	if name == "" {
		return msg
	}
	return name + ": " + msg
}

func mathFunc(fn func(float64) float64) native {
	return func(_ Value, args []Value) Value {
		return Number(fn(ToNumber(arg(args, 0))))
	}
}

func extremum(init float64, better func(x, best float64) bool) native {
	return func(_ Value, args []Value) Value {
		best := init
		for _, a := range args {
			x := ToNumber(a)
			if math.IsNaN(x) {
				return Number(math.NaN())
			}
			if better(x, best) {
				best = x
			}
		}
		return Number(best)
	}
}

func newMath() *Object {
	m := NewObject()
	m.setHidden("PI", Number(math.Pi))
	m.setHidden("E", Number(math.E))
	method(m, "abs", 1, mathFunc(math.Abs))
	method(m, "floor", 1, mathFunc(math.Floor))
	method(m, "ceil", 1, mathFunc(math.Ceil))
	method(m, "trunc", 1, mathFunc(math.Trunc))
	method(m, "sqrt", 1, mathFunc(math.Sqrt))
	method(m, "log", 1, mathFunc(math.Log))
	method(m, "exp", 1, mathFunc(math.Exp))
	method(m, "sin", 1, mathFunc(math.Sin))
	method(m, "cos", 1, mathFunc(math.Cos))
	method(m, "round", 1, mathFunc(func(x float64) float64 {
		if math.IsNaN(x) || math.IsInf(x, 0) || x == math.Trunc(x) {
			return x
		}
		return math.Floor(x + 0.5)
	}))
	method(m, "sign", 1, mathFunc(func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return x
	}))
	method(m, "pow", 2, func(_ Value, args []Value) Value {
		x, y := ToNumber(arg(args, 0)), ToNumber(arg(args, 1))
		if math.IsInf(y, 0) && math.Abs(x) == 1 {
			return Number(math.NaN())
		}
		return Number(math.Pow(x, y))
	})
	method(m, "max", 2, extremum(math.Inf(-1), func(x, best float64) bool { return x > best }))
	method(m, "min", 2, extremum(math.Inf(1), func(x, best float64) bool { return x < best }))
	method(m, "random", 0, func(Value, []Value) Value {
		return Number(rand.Float64())
	})
	return m
}

func newConsole() *Object {
	c := NewObject()
	log := func(stream *streamWriter) native {
		return func(_ Value, args []Value) Value {
			stream.writeLine(args)
			return Undefined
		}
	}
	method(c, "log", 0, log(stdout))
	method(c, "info", 0, log(stdout))
	method(c, "debug", 0, log(stdout))
	method(c, "error", 0, log(stderr))
	method(c, "warn", 0, log(stderr))
	return c
}

func newJSON() *Object {
	j := NewObject()
	method(j, "stringify", 3, func(_ Value, args []Value) Value {
		s, ok := jsonStringify(arg(args, 0), jsonIndent(arg(args, 2)))
		if !ok {
			return Undefined
		}
		return String(s)
	})
	method(j, "parse", 1, func(_ Value, args []Value) Value {
		return jsonParse(ToString(arg(args, 0)))
	})
	return j
}

func newObjectConstructor() *Object {
	ctor := newNative("Object", 1, func(_ Value, args []Value) Value {
		if o, ok := arg(args, 0).(*Object); ok {
			return o
		}
		return NewObject()
	}, nil)
	ctor.prototype = objectPrototype
	objectPrototype.setHidden("constructor", ctor)

	ownKeys := func(v Value) []string {
		o, ok := v.(*Object)
		if !ok {
			if isNullish(v) {
				panic(typeError("Cannot convert undefined or null to object"))
			}
			return nil
		}
		return o.OwnKeys()
	}
	method(ctor, "keys", 1, func(_ Value, args []Value) Value {
		keys := ownKeys(arg(args, 0))
		out := make([]Value, len(keys))
		for i, k := range keys {
			out[i] = String(k)
		}
		return arrayOf(out)
	})
	method(ctor, "values", 1, func(_ Value, args []Value) Value {
		o := arg(args, 0)
		keys := ownKeys(o)
		out := make([]Value, len(keys))
		for i, k := range keys {
			out[i] = Member(o, k)
		}
		return arrayOf(out)
	})
	method(ctor, "entries", 1, func(_ Value, args []Value) Value {
		o := arg(args, 0)
		keys := ownKeys(o)
		out := make([]Value, len(keys))
		for i, k := range keys {
			out[i] = NewArray(String(k), Member(o, k))
		}
		return arrayOf(out)
	})
	method(ctor, "assign", 2, func(_ Value, args []Value) Value {
		target, ok := arg(args, 0).(*Object)
		if !ok {
			panic(typeError("Cannot convert undefined or null to object"))
		}
		for _, src := range args[1:] {
			if o, ok := src.(*Object); ok {
				for _, k := range o.OwnKeys() {
					target.Set(k, o.Get(k))
				}
			}
		}
		return target
	})
	return ctor
}

func newArrayConstructor() *Object {
	build := func(args []Value) Value {
		if len(args) == 1 {
			if n, ok := args[0].(Number); ok {
				a := arrayOf(nil)
				a.setLength(float64(n))
				return a
			}
		}
		return NewArray(args...)
	}
	ctor := newNative("Array", 1, func(_ Value, args []Value) Value { return build(args) }, build)
	ctor.prototype = arrayPrototype
	arrayPrototype.setHidden("constructor", ctor)
	method(ctor, "isArray", 1, func(_ Value, args []Value) Value {
		a, ok := arg(args, 0).(*Object)
		return Boolean(ok && a.class == classArray)
	})
	return ctor
}

// newConverter builds String, Number and Boolean: calling or constructing
// them converts the first argument, or returns zero without one.
func newConverter(name string, zero Value, convert func(Value) Value, proto *Object) *Object {
	build := func(args []Value) Value {
		if len(args) == 0 {
			return zero
		}
		return convert(args[0])
	}
	ctor := newNative(name, 1, func(_ Value, args []Value) Value { return build(args) }, build)
	if proto != nil {
		ctor.prototype = proto
		proto.setHidden("constructor", ctor)
	}
	return ctor
}

func installGlobals() {
	console := newConsole()
	globals = map[string]Value{
		"undefined": Undefined,
		"NaN":       Number(math.NaN()),
		"Infinity":  Number(math.Inf(1)),
		"console":   console,
		"print":     console.Get("log"),
		"JSON":      newJSON(),
		"Math":      newMath(),
		"Object":    newObjectConstructor(),
		"Array":     newArrayConstructor(),
		"String": newConverter("String", String(""), func(v Value) Value {
			return String(ToString(v))
		}, stringPrototype),
		"Number": newConverter("Number", Number(0), func(v Value) Value {
			return Number(ToNumber(v))
		}, numberPrototype),
		"Boolean": newConverter("Boolean", Boolean(false), func(v Value) Value {
			return Boolean(Truthy(v))
		}, nil),
		"isNaN": newNative("isNaN", 1, func(_ Value, args []Value) Value {
			return Boolean(math.IsNaN(ToNumber(arg(args, 0))))
		}, nil),
		"isFinite": newNative("isFinite", 1, func(_ Value, args []Value) Value {
			f := ToNumber(arg(args, 0))
			return Boolean(!math.IsNaN(f) && !math.IsInf(f, 0))
		}, nil),
		"parseInt": newNative("parseInt", 2, func(_ Value, args []Value) Value {
			return Number(parseInt(ToString(arg(args, 0)), int(toInt32(arg(args, 1)))))
		}, nil),
		"parseFloat": newNative("parseFloat", 1, func(_ Value, args []Value) Value {
			return Number(parseFloat(ToString(arg(args, 0))))
		}, nil),
	}
	installErrors()
}

func digitValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

func parseInt(s string, radix int) float64 {
	s = strings.TrimSpace(s)
	sign := 1.0
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	if radix == 0 || radix == 16 {
		if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
			s = s[2:]
			radix = 16
		}
	}
	if radix == 0 {
		radix = 10
	}
	if radix < 2 || radix > 36 {
		return math.NaN()
	}
	n, digits := 0.0, 0
	for _, c := range s {
		d := digitValue(c)
		if d < 0 || d >= radix {
			break
		}
		n = n*float64(radix) + float64(d)
		digits++
	}
	if digits == 0 {
		return math.NaN()
	}
	return sign * n
}

// parseFloat parses the longest prefix of s that is a decimal literal.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	for _, inf := range []string{"Infinity", "+Infinity"} {
		if strings.HasPrefix(s, inf) {
			return math.Inf(1)
		}
	}
	if strings.HasPrefix(s, "-Infinity") {
		return math.Inf(-1)
	}

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
			digits++
		}
	}
	if digits == 0 {
		return math.NaN()
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && s[j] >= '0' && s[j] <= '9' {
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			i = j
		}
	}
	f, _ := strconv.ParseFloat(strings.TrimSuffix(s[:i], "."), 64)
	return f
}
