package transformer

import (
	"regexp"
	"strconv"
	"strings"
)

// NameGenerator mints the identifiers the translation introduces:
// temporaries, loop labels and function values. Every name has the form
// base_N, with N counting from 1 for each translation.
type NameGenerator struct {
	next   int
	minted map[string]bool
}

func NewNameGenerator() *NameGenerator {
	return &NameGenerator{next: 1, minted: make(map[string]bool)}
}

// Next returns a fresh name built on base.
func (g *NameGenerator) Next(base string) string {
	name := base + "_" + strconv.Itoa(g.next)
	g.next++
	g.minted[name] = true
	return name
}

// Minted reports whether name was returned by Next.
func (g *NameGenerator) Minted(name string) bool {
	return g.minted[name]
}

// generatedShape matches every name Next can return for the bases in use.
var generatedShape = regexp.MustCompile(`^[a-z]+_[0-9]+$`)

var reserved = map[string]bool{
	// Go keywords
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,

	// predeclared names the generated code relies on
	"_": true, "panic": true, "nil": true, "true": true, "false": true,

	// runtime exports, visible through the dot import
	"Value": true, "Kind": true, "KindUndefined": true, "KindNull": true,
	"KindBoolean": true, "KindNumber": true, "KindString": true, "KindObject": true,
	"Undefined": true, "Null": true, "Boolean": true, "Number": true, "String": true,
	"Truthy": true, "ToNumber": true, "ToString": true, "Key": true, "ToPrimitive": true,
	"Object": true, "Property": true, "Prop": true, "NewObject": true, "NewArray": true,
	"Member": true, "Index": true, "SetMember": true, "SetIndex": true, "Delete": true,
	"EnumerableProperties": true, "Values": true,
	"NewFunction": true, "IsCallable": true, "Call": true, "CallMethod": true, "New": true,
	"Typeof": true, "StrictlyEqual": true, "Equal": true, "NotEqual": true,
	"Less": true, "Greater": true, "LessEqual": true, "GreaterEqual": true,
	"Add": true, "Sub": true, "Mul": true, "Div": true, "Mod": true,
	"BitAnd": true, "BitOr": true, "BitXor": true, "ShiftLeft": true, "ShiftRight": true,
	"UnsignedShiftRight": true, "In": true, "InstanceOf": true,
	"Not": true, "Negate": true, "Plus": true, "BitNot": true, "Void": true,
	"Exception": true, "Throw": true, "CompletionKind": true, "CompletionNormal": true,
	"CompletionReturn": true, "CompletionBreak": true, "CompletionContinue": true,
	"Completion": true, "Normal": true, "Return": true, "Break": true, "Continue": true,
	"Try": true,
	"ErrUnresolvedName": true, "Scope": true, "UpdateVar": true, "UpdateMember": true,
	"Declare": true,
	"Ternary": true, "And": true, "Or": true, "Last": true, "SpreadToArray": true,
	"Global": true, "NewError": true,
	"SetOutput": true, "SetErrorOutput": true, "Execute": true, "Run": true,
}

// EscapeIdent maps a JavaScript identifier to the Go identifier that holds
// it. "$" becomes "_dollar_"; names that would collide with Go keywords, the
// runtime or minted names get a trailing underscore, as do names already
// ending in one.
func EscapeIdent(name string) string {
	name = strings.ReplaceAll(name, "$", "_dollar_")
	if reserved[name] || generatedShape.MatchString(name) || strings.HasSuffix(name, "_") {
		return name + "_"
	}
	return name
}
