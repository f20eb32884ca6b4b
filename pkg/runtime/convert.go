package runtime

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Truthy implements ToBoolean.
func Truthy(v Value) bool {
	switch v := normalize(v).(type) {
	case Boolean:
		return bool(v)
	case Number:
		return v != 0 && !math.IsNaN(float64(v))
	case String:
		return v != ""
	case *Object:
		return true
	}
	return false
}

// ToNumber implements the ToNumber abstract operation.
func ToNumber(v Value) float64 {
	switch v := normalize(v).(type) {
	case Number:
		return float64(v)
	case Boolean:
		if v {
			return 1
		}
		return 0
	case String:
		return stringToNumber(string(v))
	case *Object:
		return ToNumber(ToPrimitive(v, "number"))
	}
	if kindOf(v) == KindNull {
		return 0
	}
	return math.NaN()
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	// ParseFloat also accepts "inf", "nan" and hex floats.
	if strings.ContainsAny(s, "iInNxXpP_") {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

// ToString implements the ToString abstract operation.
func ToString(v Value) string {
	switch v := normalize(v).(type) {
	case String:
		return string(v)
	case Number:
		return formatNumber(float64(v))
	case Boolean:
		return v.String()
	case *Object:
		return ToString(ToPrimitive(v, "string"))
	}
	if kindOf(v) == KindNull {
		return "null"
	}
	return "undefined"
}

// Key converts a property key value to the string used to store it.
func Key(v Value) string {
	return ToString(v)
}

// ToPrimitive converts objects through their valueOf/toString methods.
// hint is "number", "string" or "default".
func ToPrimitive(v Value, hint string) Value {
	o, ok := v.(*Object)
	if !ok {
		return normalize(v)
	}
	order := [2]string{"valueOf", "toString"}
	if hint == "string" {
		order = [2]string{"toString", "valueOf"}
	}
	for _, name := range order {
		fn, ok := o.Get(name).(*Object)
		if !ok || fn.call == nil {
			continue
		}
		if r := normalize(fn.call(o, nil)); r.Kind() != KindObject {
			return r
		}
	}
	panic(typeError("Cannot convert object to primitive value"))
}

func toUint32(v Value) uint32 {
	f := ToNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Mod(math.Trunc(f), 1<<32)
	if f < 0 {
		f += 1 << 32
	}
	return uint32(f)
}

func toInt32(v Value) int32 {
	return int32(toUint32(v))
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + exp[:1] + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// arrayIndex reports whether key is a canonical array index.
func arrayIndex(key string) (int, bool) {
	if key == "" || len(key) > 10 || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n := 0
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n >= math.MaxUint32 {
		return 0, false
	}
	return n, true
}
