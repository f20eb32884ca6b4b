package ast

import (
	"fmt"
	"io"
	"reflect"
)

// Fprint writes an indented dump of the tree rooted at node to w. Spans are
// printed next to the node type.
func Fprint(w io.Writer, node Node) error {
	p := &printer{w: w}
	p.print("Program", reflect.ValueOf(node), "")
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) print(name string, value reflect.Value, indent string) {
	if !value.IsValid() || (value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface) && value.IsNil() {
		p.printf("%s%s: nil\n", indent, name)
		return
	}
	if value.Kind() == reflect.Interface {
		value = value.Elem()
	}

	if n, ok := value.Interface().(Node); ok {
		p.printf("%s%s: %s @%s {\n", indent, name, n.Type(), n.Span())
	} else {
		p.printf("%s%s: %s {\n", indent, name, value.Type())
	}
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}

	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		fieldType := value.Type().Field(i)
		if fieldType.Name == "Meta" {
			continue
		}

		switch {
		case field.Kind() == reflect.Slice:
			p.printf("%s  %s: [\n", indent, fieldType.Name)
			for j := 0; j < field.Len(); j++ {
				p.print(fmt.Sprintf("[%d]", j), field.Index(j), indent+"    ")
			}
			p.printf("%s  ]\n", indent)
		case field.Kind() == reflect.Interface || field.Kind() == reflect.Ptr:
			if field.Kind() == reflect.Interface && !field.IsNil() && field.Elem().Kind() != reflect.Ptr {
				p.printf("%s  %s: %#v\n", indent, fieldType.Name, field.Interface())
				continue
			}
			p.print(fieldType.Name, field, indent+"  ")
		default:
			p.printf("%s  %s: %v\n", indent, fieldType.Name, field.Interface())
		}
	}

	p.printf("%s}\n", indent)
}
