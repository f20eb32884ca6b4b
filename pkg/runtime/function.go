package runtime

import (
	"fmt"
	"reflect"
)

var valueType = reflect.TypeOf((*Value)(nil)).Elem()

// NewFunction wraps a translated function. fn must have the shape
// func(this Value, p1, ..., pn Value) Value; calls pass Undefined for
// missing arguments and drop extra ones.
func NewFunction(name string, fn any) *Object {
	rv := reflect.ValueOf(fn)
	rt := rv.Type()
	if rt.Kind() != reflect.Func || rt.IsVariadic() || rt.NumIn() == 0 || rt.NumOut() != 1 || rt.Out(0) != valueType {
		panic(fmt.Sprintf("runtime: NewFunction(%q): unsupported signature %s", name, rt))
	}
	for i := 0; i < rt.NumIn(); i++ {
		if rt.In(i) != valueType {
			panic(fmt.Sprintf("runtime: NewFunction(%q): parameter %d is %s", name, i, rt.In(i)))
		}
	}

	arity := rt.NumIn() - 1
	call := func(this Value, args []Value) Value {
		in := make([]reflect.Value, arity+1)
		in[0] = reflectValue(this)
		for i := 0; i < arity; i++ {
			arg := Undefined
			if i < len(args) {
				arg = normalize(args[i])
			}
			in[i+1] = reflectValue(arg)
		}
		out, _ := rv.Call(in)[0].Interface().(Value)
		return normalize(out)
	}

	f := newFunction(name, arity, call)
	f.prototype = newObject(classObject, objectPrototype)
	f.prototype.setHidden("constructor", f)
	return f
}

// reflectValue keeps the static type Value, so nil stays callable.
func reflectValue(v Value) reflect.Value {
	return reflect.ValueOf(&v).Elem()
}

func newFunction(name string, arity int, call func(this Value, args []Value) Value) *Object {
	f := newObject(classFunction, functionPrototype)
	f.name = name
	f.arity = arity
	f.call = call
	return f
}

// newNative builds a builtin function. construct may be nil.
func newNative(name string, arity int, call func(this Value, args []Value) Value, construct func(args []Value) Value) *Object {
	f := newFunction(name, arity, call)
	f.construct = construct
	return f
}

// IsCallable reports whether v is a function.
func IsCallable(v Value) bool {
	o, ok := v.(*Object)
	return ok && o.call != nil
}

// Call calls f with an undefined receiver.
func Call(f Value, args ...Value) Value {
	return invoke(f, Undefined, args, nil, "")
}

// CallMethod calls obj.key(args...) with obj as the receiver.
func CallMethod(obj Value, key string, args ...Value) Value {
	f := Member(obj, key)
	return invoke(f, normalize(obj), args, obj, key)
}

// invoke calls f; recv and key only feed the error message.
func invoke(f, this Value, args []Value, recv Value, key string) Value {
	fn, ok := f.(*Object)
	if !ok || fn.call == nil {
		what := describe(f)
		if key != "" {
			what = describe(recv) + "." + key
		}
		panic(typeError("%s is not a function", what))
	}
	return normalize(fn.call(this, args))
}

// New implements the new operator: builtins use their construction entry
// point, translated functions run with a fresh receiver whose prototype is
// f.prototype.
func New(f Value, args ...Value) Value {
	fn, ok := f.(*Object)
	if !ok || fn.call == nil {
		panic(typeError("%s is not a constructor", describe(f)))
	}
	if fn.construct != nil {
		return normalize(fn.construct(args))
	}
	proto := fn.prototype
	if proto == nil {
		proto = objectPrototype
	}
	obj := newObject(classObject, proto)
	if r, ok := fn.call(obj, args).(*Object); ok {
		return r
	}
	return obj
}

func describe(v Value) string {
	if o, ok := v.(*Object); ok && o.call != nil && o.name != "" {
		return o.name
	}
	return inspect(v, 0)
}

func arg(args []Value, i int) Value {
	if i < len(args) {
		return normalize(args[i])
	}
	return Undefined
}
