package runtime

import (
	"iter"
	"sort"
	"strconv"
	"unicode/utf16"
)

const (
	classObject   = "Object"
	classArray    = "Array"
	classFunction = "Function"
	classError    = "Error"
)

// maxArrayGrowth bounds how far a single index store may extend an array.
const maxArrayGrowth = 1 << 20

// Object is a JavaScript object: plain objects, arrays, functions and errors.
// Property iteration follows insertion order, except that integer-like keys
// come first in ascending order.
type Object struct {
	class  string
	proto  *Object
	keys   []string
	props  map[string]Value
	hidden map[string]bool

	// arrays
	elems []Value

	// functions
	name      string
	arity     int
	call      func(this Value, args []Value) Value
	construct func(args []Value) Value
	prototype *Object
}

func (o *Object) Kind() Kind { return KindObject }

// Property is one key/value binding of an object literal.
type Property struct {
	Key   string
	Value Value
}

func Prop(key string, value Value) Property {
	return Property{Key: key, Value: value}
}

func newObject(class string, proto *Object) *Object {
	return &Object{class: class, proto: proto, props: make(map[string]Value)}
}

// NewObject builds a plain object. Later bindings of a repeated key win,
// the key keeps the position of its first occurrence.
func NewObject(props ...Property) *Object {
	o := newObject(classObject, objectPrototype)
	for _, p := range props {
		o.Set(p.Key, p.Value)
	}
	return o
}

// NewArray builds an array holding elems.
func NewArray(elems ...Value) *Object {
	o := newObject(classArray, arrayPrototype)
	o.elems = make([]Value, len(elems))
	for i, e := range elems {
		o.elems[i] = normalize(e)
	}
	return o
}

// Class returns "Object", "Array", "Function" or "Error".
func (o *Object) Class() string { return o.class }

// Get looks key up on o and its prototype chain.
func (o *Object) Get(key string) Value {
	for obj := o; obj != nil; obj = obj.proto {
		if v, ok := obj.getOwn(key); ok {
			return normalize(v)
		}
	}
	return Undefined
}

// Has reports whether key is found on o or its prototype chain.
func (o *Object) Has(key string) bool {
	for obj := o; obj != nil; obj = obj.proto {
		if _, ok := obj.getOwn(key); ok {
			return true
		}
	}
	return false
}

func (o *Object) getOwn(key string) (Value, bool) {
	if o.class == classArray {
		if key == "length" {
			return Number(len(o.elems)), true
		}
		if i, ok := arrayIndex(key); ok {
			if i < len(o.elems) && o.elems[i] != nil {
				return o.elems[i], true
			}
			return nil, false
		}
	}
	if o.call != nil {
		switch key {
		case "prototype":
			if o.prototype != nil {
				return o.prototype, true
			}
		case "name":
			return String(o.name), true
		case "length":
			return Number(o.arity), true
		}
	}
	v, ok := o.props[key]
	return v, ok
}

// Set stores v under key as an own property of o.
func (o *Object) Set(key string, v Value) {
	v = normalize(v)
	if o.class == classArray {
		if key == "length" {
			o.setLength(ToNumber(v))
			return
		}
		if i, ok := arrayIndex(key); ok && i < len(o.elems)+maxArrayGrowth {
			for len(o.elems) <= i {
				o.elems = append(o.elems, nil)
			}
			o.elems[i] = v
			return
		}
	}
	if o.call != nil && key == "prototype" {
		if p, ok := v.(*Object); ok {
			o.prototype = p
			return
		}
	}
	if _, exists := o.props[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.props[key] = v
}

func (o *Object) setLength(n float64) {
	size := int(n)
	if float64(size) != n || size < 0 {
		panic(rangeError("Invalid array length"))
	}
	if size <= len(o.elems) {
		o.elems = o.elems[:size]
		return
	}
	for len(o.elems) < size {
		o.elems = append(o.elems, nil)
	}
}

// setHidden defines a non-enumerable own property.
func (o *Object) setHidden(key string, v Value) {
	o.Set(key, v)
	if o.hidden == nil {
		o.hidden = make(map[string]bool)
	}
	o.hidden[key] = true
}

// Delete removes an own property and reports whether it is gone.
func (o *Object) Delete(key string) bool {
	if o.class == classArray {
		if i, ok := arrayIndex(key); ok {
			if i < len(o.elems) {
				o.elems[i] = nil
			}
			return true
		}
		if key == "length" {
			return false
		}
	}
	if _, ok := o.props[key]; !ok {
		return true
	}
	delete(o.props, key)
	delete(o.hidden, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// OwnKeys returns the enumerable own property keys of o in iteration order.
func (o *Object) OwnKeys() []string {
	var keys []string
	for i, e := range o.elems {
		if e != nil {
			keys = append(keys, strconv.Itoa(i))
		}
	}

	var indices []int
	var named []string
	for _, k := range o.keys {
		if o.hidden[k] {
			continue
		}
		if i, ok := arrayIndex(k); ok {
			indices = append(indices, i)
			continue
		}
		named = append(named, k)
	}
	sort.Ints(indices)
	for _, i := range indices {
		keys = append(keys, strconv.Itoa(i))
	}
	return append(keys, named...)
}

// Member implements obj.key for any value.
func Member(obj Value, key string) Value {
	switch v := normalize(obj).(type) {
	case *Object:
		return v.Get(key)
	case String:
		return stringMember(v, key)
	case Number:
		return numberPrototype.Get(key)
	case Boolean:
		return objectPrototype.Get(key)
	}
	panic(typeError("Cannot read properties of %s (reading '%s')", ToString(obj), key))
}

// Index implements obj[key].
func Index(obj, key Value) Value {
	return Member(obj, Key(key))
}

// SetMember implements obj.key = v and returns v.
func SetMember(obj Value, key string, v Value) Value {
	v = normalize(v)
	switch o := normalize(obj).(type) {
	case *Object:
		o.Set(key, v)
	case undefinedValue, nullValue:
		panic(typeError("Cannot set properties of %s (setting '%s')", ToString(obj), key))
	}
	return v
}

// SetIndex implements obj[key] = v and returns v.
func SetIndex(obj, key, v Value) Value {
	return SetMember(obj, Key(key), v)
}

// Delete implements the delete operator on obj[key].
func Delete(obj, key Value) Value {
	switch o := normalize(obj).(type) {
	case *Object:
		return Boolean(o.Delete(Key(key)))
	case undefinedValue, nullValue:
		panic(typeError("Cannot convert undefined or null to object"))
	}
	return Boolean(true)
}

// EnumerableProperties returns the own enumerable property names of v, as
// iterated by for-in.
func EnumerableProperties(v Value) []Value {
	var keys []string
	switch v := normalize(v).(type) {
	case *Object:
		keys = v.OwnKeys()
	case String:
		for i := range utf16.Encode([]rune(string(v))) {
			keys = append(keys, strconv.Itoa(i))
		}
	}
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = String(k)
	}
	return out
}

// Values iterates the elements of an iterable value, as for-of does.
func Values(v Value) iter.Seq[Value] {
	switch v := normalize(v).(type) {
	case *Object:
		if v.class == classArray {
			return func(yield func(Value) bool) {
				for i := 0; i < len(v.elems); i++ {
					if !yield(normalize(v.elems[i])) {
						return
					}
				}
			}
		}
	case String:
		return func(yield func(Value) bool) {
			for _, r := range string(v) {
				if !yield(String(string(r))) {
					return
				}
			}
		}
	}
	panic(typeError("%s is not iterable", inspect(v, 0)))
}

func stringMember(s String, key string) Value {
	units := utf16.Encode([]rune(string(s)))
	if key == "length" {
		return Number(len(units))
	}
	if i, ok := arrayIndex(key); ok {
		if i < len(units) {
			return String(string(utf16.Decode(units[i : i+1])))
		}
		return Undefined
	}
	return stringPrototype.Get(key)
}
