package transformer_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/FedeBP/ecmago/internal/transformer"
)

// programs exercise every construct the translator lowers. Each one must
// produce Go that type-checks against the runtime.
var programs = []struct {
	name   string
	source string
	output string
}{
	{
		name:   "Console log",
		source: `console.log(1 + 2, "a" + 1, 3.5);`,
		output: "3 a1 3.5\n",
	},
	{
		name:   "For loop with continue",
		source: `for (var i = 0; i < 3; i++) { if (i === 1) continue; console.log(i); }`,
		output: "0\n2\n",
	},
	{
		name:   "Do-while runs once",
		source: `var n = 0; do { n++; } while (false); console.log(n);`,
		output: "1\n",
	},
	{
		name: "Evaluation order",
		source: `
			var log = "";
			function a() { log += "a"; return 1; }
			function b() { log += "b"; return 2; }
			function f(x, y) { return x + y; }
			var r = f(a(), b());
			console.log(r, log);`,
		output: "3 ab\n",
	},
	{
		name: "Closure counter",
		source: `
			function counter() {
				var c = 0;
				return function () { return ++c; };
			}
			var next = counter();
			next();
			console.log(next());`,
		output: "2\n",
	},
	{
		name: "Return through finally",
		source: `
			function f() {
				try { return 1; } finally { console.log("fin"); }
			}
			console.log(f());`,
		output: "fin\n1\n",
	},
	{
		name: "Labeled continue",
		source: `
			outer: for (var i = 0; i < 2; i++) {
				for (var j = 0; j < 2; j++) {
					if (j === 1) continue outer;
					console.log(i, j);
				}
			}`,
		output: "0 0\n1 0\n",
	},
	{
		name: "Break through finally",
		source: `
			var i = 0;
			while (true) {
				try {
					if (i === 2) break;
				} finally {
					console.log("f" + i);
				}
				i++;
			}
			console.log(i);`,
		output: "f0\nf1\nf2\n2\n",
	},
	{
		name: "Caught TypeError",
		source: `
			try { null.x; } catch (e) { console.log(e instanceof TypeError); }`,
		output: "true\n",
	},
	{
		name:   "For-in order",
		source: `var o = {b: 1, a: 2}; for (var k in o) { console.log(k, o[k]); }`,
		output: "b 1\na 2\n",
	},
	{
		name:   "Equality",
		source: `console.log(1 !== "1", 1 == "1");`,
		output: "true true\n",
	},
	{
		name:   "Inspect",
		source: `console.log([1], {a: 2}, 3);`,
		output: "[ 1 ] { a: 2 } 3\n",
	},
	{
		name: "Named function expression",
		source: `
			var fact = function f(n) { return n <= 1 ? 1 : n * f(n - 1); };
			console.log(fact(5));`,
		output: "120\n",
	},
	{
		name: "Hoisted declaration",
		source: `
			greet("hoisted");
			function greet(s) { console.log(s); }`,
		output: "hoisted\n",
	},
	{
		name: "Nested try",
		source: `
			function f() {
				for (var i = 0; i < 5; i++) {
					try {
						try {
							if (i === 1) continue;
							if (i === 3) return "r" + i;
						} finally {
							console.log("inner", i);
						}
					} catch (e) {
						console.log("never");
					}
				}
			}
			console.log(f());`,
		output: "inner 0\ninner 1\ninner 2\ninner 3\nr3\n",
	},
	{
		name: "Escaped names",
		source: `
			var $ = 1, len_ = 2, tmp_1 = 3, String = "s", range = 4;
			console.log($, len_, tmp_1, String, range);`,
		output: "1 2 3 s 4\n",
	},
	{
		name: "Operators",
		source: `
			var o = {n: 1, s: "x"};
			o.n += 2; o.n *= 3; o.s += o.n;
			var a = 7; a %= 4; a <<= 2; a >>>= 1; a |= 1; a ^= 2; a &= 7; a -= 1; a /= 2;
			console.log(o.n, o.s, a, typeof o, "n" in o, delete o.n, "n" in o, void 0);`,
		output: "9 x9 2 object true true false undefined\n",
	},
	{
		name: "Logical and conditional statements",
		source: `
			var x = 0, y;
			x || console.log("zero");
			x && console.log("never");
			x ? console.log("never") : console.log("else");
			y = x || "fallback";
			console.log(y, x ? 1 : 2, (x = 5, x + 1));`,
		output: "zero\nelse\nfallback 2 6\n",
	},
	{
		name: "Member loop targets and updates",
		source: `
			var src = {a: 1, b: 2}, dst = {};
			for (dst.last in src) {}
			var arr = [1, , 3];
			arr[1]++;
			console.log(dst.last, arr.length, arr[1]);`,
		output: "b 3 NaN\n",
	},
	{
		name: "Constructors and methods",
		source: `
			function Point(x, y) { this.x = x; this.y = y; }
			var p = new Point(1, 2);
			p.sum = function () { return this.x + this.y; };
			console.log(p.sum(), p instanceof Point, [3, 1, 2].sort().join("-"));`,
		output: "3 true 1-2-3\n",
	},
	{
		name: "Throw from a handler",
		source: `
			try {
				try { throw new Error("first"); } catch (e) { throw new Error("second: " + e.message); }
			} catch (e) {
				console.log(e.message);
			}`,
		output: "second: first\n",
	},
	{
		name: "Updates from nested closures",
		source: `
			var total = 0;
			function add() { return function () { total++; return total; }; }
			var inc = add();
			inc(); inc();
			console.log(total);`,
		output: "2\n",
	},
	{
		name: "Updating an unbound global",
		source: `
			try { y++; } catch (e) { console.log(e.name); }
			var z;
			z++;
			y = 1;
			y++;
			console.log(z, y);`,
		output: "ReferenceError\nNaN 2\n",
	},
}

func TestGeneratedProgramsTypeCheck(t *testing.T) {
	for _, tt := range programs {
		t.Run(tt.name, func(t *testing.T) {
			typeCheck(t, generate(t, tt.source))
		})
	}
}

func TestTransformProgramShape(t *testing.T) {
	tests := []struct {
		name   string
		source string
		opts   []transformer.Option
		check  func(t *testing.T, code string)
	}{
		{
			name:   "Main package",
			source: `console.log(1);`,
			check: func(t *testing.T, code string) {
				for _, want := range []string{
					"package main",
					`. "github.com/FedeBP/ecmago/pkg/runtime"`,
					"func main() {",
					"Run(func(this Value) {",
					`var console Value = Global("console")`,
					"_ = console",
					`CallMethod(console, "log", Number(1))`,
				} {
					if !strings.Contains(code, want) {
						t.Errorf("Expected %q in:\n%s", want, code)
					}
				}
			},
		},
		{
			name:   "Library package",
			source: `var a = 1;`,
			opts:   []transformer.Option{transformer.WithPackage("demo")},
			check: func(t *testing.T, code string) {
				for _, want := range []string{"package demo", "func Main() error {", "return Execute(func(this Value) {", "var a Value"} {
					if !strings.Contains(code, want) {
						t.Errorf("Expected %q in:\n%s", want, code)
					}
				}
			},
		},
		{
			name:   "Runtime path",
			source: `1;`,
			opts:   []transformer.Option{transformer.WithRuntimePath("example.com/rt")},
			check: func(t *testing.T, code string) {
				if !strings.Contains(code, `. "example.com/rt"`) {
					t.Errorf("Expected the custom runtime import, got:\n%s", code)
				}
			},
		},
		{
			name:   "Declared names come before globals",
			source: `var b; x = b;`,
			check: func(t *testing.T, code string) {
				decl := strings.Index(code, "var b Value")
				global := strings.Index(code, `var x Value = Global("x")`)
				use := strings.Index(code, "_, _ = b, x")
				if decl < 0 || global < decl || use < global {
					t.Errorf("Expected declarations, then globals, then the blank use, got:\n%s", code)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, generate(t, tt.source, tt.opts...))
		})
	}
}

func TestTransformIsDeterministic(t *testing.T) {
	for _, tt := range programs {
		t.Run(tt.name, func(t *testing.T) {
			first, second := generate(t, tt.source), generate(t, tt.source)
			if first != second {
				t.Errorf("Expected identical output, got:\n%s\n\n%s", first, second)
			}
		})
	}
}

func TestTransformLogsFunctions(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	generate(t, `function f(a, b) {} (function () {});`, transformer.WithLogger(zap.New(core)))

	lowered := logs.FilterMessage("lowered function").All()
	if len(lowered) != 2 {
		t.Fatalf("Expected 2 lowered functions, got %d", len(lowered))
	}
	fields := lowered[0].ContextMap()
	if fields["name"] != "f" || fields["params"] != int64(2) {
		t.Errorf("Expected f with 2 params, got %v", fields)
	}
	if logs.FilterMessage("translated program").Len() != 1 {
		t.Error("Expected one translated program entry")
	}
}
