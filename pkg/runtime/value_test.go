package runtime_test

import (
	"errors"
	"math"
	"testing"

	. "github.com/FedeBP/ecmago/pkg/runtime"
)

func TestNumberString(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "Integer", input: 3, expected: "3"},
		{name: "Fraction", input: 3.5, expected: "3.5"},
		{name: "Negative", input: -42, expected: "-42"},
		{name: "Negative zero", input: math.Copysign(0, -1), expected: "0"},
		{name: "Float noise", input: 0.1 + 0.2, expected: "0.30000000000000004"},
		{name: "Large", input: 1e21, expected: "1e+21"},
		{name: "Below large threshold", input: 1e20, expected: "100000000000000000000"},
		{name: "Small", input: 1e-7, expected: "1e-7"},
		{name: "NaN", input: math.NaN(), expected: "NaN"},
		{name: "Infinity", input: math.Inf(-1), expected: "-Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Number(tt.input).String(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
			if got := ToString(Number(tt.input)); got != tt.expected {
				t.Errorf("Expected ToString %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestStrictlyEqual(t *testing.T) {
	obj := NewObject()
	tests := []struct {
		name     string
		a, b     Value
		expected bool
	}{
		{name: "Number and string", a: Number(1), b: String("1"), expected: false},
		{name: "Same numbers", a: Number(1), b: Number(1), expected: true},
		{name: "NaN", a: Number(math.NaN()), b: Number(math.NaN()), expected: false},
		{name: "Zeros", a: Number(0), b: Number(math.Copysign(0, -1)), expected: true},
		{name: "Null and undefined", a: Null, b: Undefined, expected: false},
		{name: "Same object", a: obj, b: obj, expected: true},
		{name: "Different objects", a: NewObject(), b: NewObject(), expected: false},
		{name: "Strings", a: String("ab"), b: String("ab"), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StrictlyEqual(tt.a, tt.b); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestLooseEquality(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Value
		expected bool
	}{
		{name: "Number and string", a: Number(1), b: String("1"), expected: true},
		{name: "Null and undefined", a: Null, b: Undefined, expected: true},
		{name: "Null and zero", a: Null, b: Number(0), expected: false},
		{name: "Boolean and number", a: Boolean(true), b: Number(1), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != Boolean(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
			if got := NotEqual(tt.a, tt.b); got != Boolean(!tt.expected) {
				t.Errorf("Expected != to be %v, got %v", !tt.expected, got)
			}
		})
	}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		name     string
		got      Value
		expected Value
	}{
		{name: "Add numbers", got: Add(Number(1), Number(2)), expected: Number(3)},
		{name: "Add string", got: Add(String("a"), Number(1)), expected: String("a1")},
		{name: "Add number to string", got: Add(Number(1), String("2")), expected: String("12")},
		{name: "Sub coerces", got: Sub(String("5"), Number(2)), expected: Number(3)},
		{name: "Mod", got: Mod(Number(-7), Number(3)), expected: Number(-1)},
		{name: "BitOr truncates", got: BitOr(Number(3.7), Number(0)), expected: Number(3)},
		{name: "Unsigned shift", got: UnsignedShiftRight(Number(-1), Number(28)), expected: Number(15)},
		{name: "Less on strings", got: Less(String("a"), String("b")), expected: Boolean(true)},
		{name: "Typeof undefined", got: Typeof(Undefined), expected: String("undefined")},
		{name: "Typeof null", got: Typeof(Null), expected: String("object")},
		{name: "Typeof function", got: Typeof(Global("parseInt")), expected: String("function")},
		{name: "Not", got: Not(String("")), expected: Boolean(true)},
		{name: "Void", got: Void(Number(1)), expected: Undefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !StrictlyEqual(tt.got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected bool
	}{
		{name: "Undefined", input: Undefined, expected: false},
		{name: "Nil", input: nil, expected: false},
		{name: "Zero", input: Number(0), expected: false},
		{name: "NaN", input: Number(math.NaN()), expected: false},
		{name: "Empty string", input: String(""), expected: false},
		{name: "String", input: String("0"), expected: true},
		{name: "Empty object", input: NewObject(), expected: true},
		{name: "Empty array", input: NewArray(), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truthy(tt.input); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestUpdateVar(t *testing.T) {
	t.Run("Postfix returns the old value", func(t *testing.T) {
		var x Value = Number(5)
		got := UpdateVar("x", "++", false, Scope{"x": &x}, Scope{})
		if got != Number(5) {
			t.Errorf("Expected 5, got %v", got)
		}
		if x != Number(6) {
			t.Errorf("Expected x to be 6, got %v", x)
		}
	})

	t.Run("Prefix returns the new value", func(t *testing.T) {
		var x Value = Number(5)
		got := UpdateVar("x", "--", true, Scope{"x": &x})
		if got != Number(4) || x != Number(4) {
			t.Errorf("Expected 4 and 4, got %v and %v", got, x)
		}
	})

	t.Run("Innermost scope wins", func(t *testing.T) {
		var inner, outer Value = Number(1), Number(10)
		UpdateVar("x", "++", false, Scope{}, Scope{"x": &inner}, Scope{"x": &outer})
		if inner != Number(2) || outer != Number(10) {
			t.Errorf("Expected inner 2 and outer 10, got %v and %v", inner, outer)
		}
	})

	t.Run("Old value is numeric", func(t *testing.T) {
		var x Value = String("7")
		got := UpdateVar("x", "++", false, Scope{"x": &x})
		if got != Number(7) || x != Number(8) {
			t.Errorf("Expected 7 and 8, got %v and %v", got, x)
		}
	})

	t.Run("Unresolved name throws", func(t *testing.T) {
		err := Execute(func(Value) {
			UpdateVar("y", "++", false, Scope{}, Scope{})
		})
		if !errors.Is(err, ErrUnresolvedName) {
			t.Fatalf("Expected ErrUnresolvedName, got %v", err)
		}
		var exc *Exception
		if !errors.As(err, &exc) {
			t.Fatalf("Expected *Exception, got %T", err)
		}
		if got := ToString(Member(exc.Value, "name")); got != "ReferenceError" {
			t.Errorf("Expected ReferenceError, got %s", got)
		}
	})

	t.Run("Unbound global throws", func(t *testing.T) {
		y := Global("y")
		err := Execute(func(Value) {
			UpdateVar("y", "++", false, Scope{"y": &y})
		})
		if !errors.Is(err, ErrUnresolvedName) {
			t.Fatalf("Expected ErrUnresolvedName, got %v", err)
		}
		if y != nil {
			t.Errorf("Expected y to stay unbound, got %v", y)
		}
	})

	t.Run("Assigned global updates", func(t *testing.T) {
		y := Global("y")
		y = Number(1)
		if got := UpdateVar("y", "++", true, Scope{"y": &y}); got != Number(2) {
			t.Errorf("Expected 2, got %v", got)
		}
	})
}

func TestUpdateMember(t *testing.T) {
	obj := NewObject(Prop("n", Number(1)))
	if got := UpdateMember(obj, String("n"), "++", false); got != Number(1) {
		t.Errorf("Expected 1, got %v", got)
	}
	if got := UpdateMember(obj, String("n"), "++", true); got != Number(3) {
		t.Errorf("Expected 3, got %v", got)
	}
	if got := Member(obj, "n"); got != Number(3) {
		t.Errorf("Expected property 3, got %v", got)
	}
}

func TestDeclare(t *testing.T) {
	var unset Value
	if got := Declare(unset); got != Undefined {
		t.Errorf("Expected undefined, got %v", got)
	}
	if got := Declare(Number(1)); got != Number(1) {
		t.Errorf("Expected 1, got %v", got)
	}
}
