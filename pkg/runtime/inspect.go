package runtime

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// inspectDepth is how deeply nested objects are expanded before they are
// abbreviated to [Object] or [Array].
const inspectDepth = 2

// inspect renders v the way console.log does. Strings are raw at depth 0 and
// quoted inside containers.
func inspect(v Value, depth int) string {
	var b strings.Builder
	writeInspect(&b, normalize(v), depth, nil)
	return b.String()
}

func writeInspect(b *strings.Builder, v Value, depth int, seen []*Object) {
	switch v := normalize(v).(type) {
	case String:
		if depth == 0 {
			b.WriteString(string(v))
			return
		}
		b.WriteString(quoteInspect(string(v)))
	case Number:
		if v == 0 && math.Signbit(float64(v)) {
			b.WriteString("-0")
			return
		}
		b.WriteString(v.String())
	case *Object:
		writeObject(b, v, depth, seen)
	default:
		b.WriteString(ToString(v))
	}
}

func writeObject(b *strings.Builder, o *Object, depth int, seen []*Object) {
	for _, s := range seen {
		if s == o {
			b.WriteString("[Circular]")
			return
		}
	}
	switch {
	case o.call != nil:
		if o.name == "" {
			b.WriteString("[Function (anonymous)]")
		} else {
			b.WriteString("[Function: " + o.name + "]")
		}
		return
	case o.class == classError:
		if depth > 0 {
			b.WriteString("[" + errorText(o) + "]")
		} else {
			b.WriteString(errorText(o))
		}
		return
	case depth > inspectDepth:
		if o.class == classArray {
			b.WriteString("[Array]")
		} else {
			b.WriteString("[Object]")
		}
		return
	}

	seen = append(seen, o)
	var entries []string
	child := func(v Value) string {
		var cb strings.Builder
		writeInspect(&cb, v, depth+1, seen)
		return cb.String()
	}

	opening, closing := "{", "}"
	named := o.OwnKeys()
	if o.class == classArray {
		opening, closing = "[", "]"
		holes := 0
		flush := func() {
			if holes == 1 {
				entries = append(entries, "<1 empty item>")
			} else if holes > 1 {
				entries = append(entries, fmt.Sprintf("<%d empty items>", holes))
			}
			holes = 0
		}
		for _, e := range o.elems {
			if e == nil {
				holes++
				continue
			}
			flush()
			entries = append(entries, child(e))
		}
		flush()
		named = named[:0]
		for _, k := range o.keys {
			if !o.hidden[k] {
				named = append(named, k)
			}
		}
	}
	for _, k := range named {
		entries = append(entries, inspectKey(k)+": "+child(o.Get(k)))
	}

	if len(entries) == 0 {
		b.WriteString(opening + closing)
		return
	}
	b.WriteString(opening + " " + strings.Join(entries, ", ") + " " + closing)
}

func inspectKey(k string) string {
	if isIdentifierName(k) {
		return k
	}
	return quoteInspect(k)
}

func isIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || c == '$':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

var inspectEscaper = strings.NewReplacer(
	`\`, `\\`, "\n", `\n`, "\t", `\t`, "\r", `\r`, "\b", `\b`, "\f", `\f`, "\v", `\v`,
)

// quoteInspect picks the first quote character that does not occur in s.
func quoteInspect(s string) string {
	s = inspectEscaper.Replace(s)
	switch {
	case !strings.Contains(s, "'"):
		return "'" + s + "'"
	case !strings.Contains(s, `"`):
		return `"` + s + `"`
	case !strings.Contains(s, "`"):
		return "`" + s + "`"
	}
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// jsonIndent interprets the space argument of JSON.stringify.
func jsonIndent(space Value) string {
	switch s := normalize(space).(type) {
	case Number:
		n := int(math.Min(10, math.Max(0, math.Trunc(float64(s)))))
		return strings.Repeat(" ", n)
	case String:
		if len(s) > 10 {
			return string(s[:10])
		}
		return string(s)
	}
	return ""
}

type jsonEncoder struct {
	buf    bytes.Buffer
	indent string
	stack  []*Object
}

// jsonStringify serializes v. ok is false when v has no JSON form.
func jsonStringify(v Value, indent string) (s string, ok bool) {
	e := &jsonEncoder{indent: indent}
	if !e.value(v, "", "") {
		return "", false
	}
	return e.buf.String(), true
}

func (e *jsonEncoder) newline(prefix string) {
	if e.indent != "" {
		e.buf.WriteString("\n" + prefix)
	}
}

func (e *jsonEncoder) value(v Value, key, prefix string) bool {
	v = normalize(v)
	if o, ok := v.(*Object); ok {
		if fn, ok := o.Get("toJSON").(*Object); ok && fn.call != nil {
			v = normalize(fn.call(o, []Value{String(key)}))
		}
	}

	switch v := v.(type) {
	case undefinedValue:
		return false
	case nullValue:
		e.buf.WriteString("null")
	case Boolean:
		e.buf.WriteString(v.String())
	case Number:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			e.buf.WriteString("null")
		} else {
			e.buf.WriteString(v.String())
		}
	case String:
		e.buf.WriteString(quoteJSON(string(v)))
	case *Object:
		if v.call != nil {
			return false
		}
		for _, s := range e.stack {
			if s == v {
				panic(typeError("Converting circular structure to JSON"))
			}
		}
		e.stack = append(e.stack, v)
		if v.class == classArray {
			e.array(v, prefix)
		} else {
			e.object(v, prefix)
		}
		e.stack = e.stack[:len(e.stack)-1]
	}
	return true
}

func (e *jsonEncoder) array(a *Object, prefix string) {
	if len(a.elems) == 0 {
		e.buf.WriteString("[]")
		return
	}
	inner := prefix + e.indent
	e.buf.WriteByte('[')
	for i, elem := range a.elems {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(inner)
		if !e.value(elem, strconv.Itoa(i), inner) {
			e.buf.WriteString("null")
		}
	}
	e.newline(prefix)
	e.buf.WriteByte(']')
}

func (e *jsonEncoder) object(o *Object, prefix string) {
	inner := prefix + e.indent
	sep := ":"
	if e.indent != "" {
		sep = ": "
	}
	e.buf.WriteByte('{')
	written := 0
	for _, k := range o.OwnKeys() {
		mark := e.buf.Len()
		if written > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(inner)
		e.buf.WriteString(quoteJSON(k) + sep)
		if !e.value(o.Get(k), k, inner) {
			e.buf.Truncate(mark)
			continue
		}
		written++
	}
	if written > 0 {
		e.newline(prefix)
	}
	e.buf.WriteByte('}')
}

func quoteJSON(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// jsonParse decodes text token by token so object keys keep their order.
func jsonParse(text string) Value {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	v, err := decodeJSON(dec)
	if err == nil {
		if _, trailing := dec.Token(); !errors.Is(trailing, io.EOF) {
			err = errors.New("unexpected data after JSON value")
		}
	}
	if err != nil {
		panic(throwable("SyntaxError", err.Error(), err))
	}
	return v
}

func decodeJSON(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected %v in object", kt)
				}
				v, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			var elems []Value
			for dec.More() {
				v, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				elems = append(elems, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arrayOf(elems), nil
		}
		return nil, fmt.Errorf("unexpected %v", t)
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, err
		}
		return Number(f), nil
	case string:
		return String(t), nil
	case bool:
		return Boolean(t), nil
	case nil:
		return Null, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}
