package c4

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind is the tag of the runtime Value variant.
type ValueKind int

const (
	// VoidValue is the absence of a value (e.g. a print call's result).
	VoidValue ValueKind = iota
	// IntValue is a signed integer.
	IntValue
	// CharValue is a character, stored as its integer code.
	CharValue
	// BoolValue is a true/false value, stored as 1/0.
	BoolValue
	// StrValue is an owned string.
	StrValue
	// ArrayValue is a fixed-length sequence of values.
	ArrayValue
	// PointerValue is a simulated address: slot index times 1000.
	PointerValue
)

var valueKindNames = [...]string{
	VoidValue:    "void",
	IntValue:     "int",
	CharValue:    "char",
	BoolValue:    "bool",
	StrValue:     "str",
	ArrayValue:   "array",
	PointerValue: "pointer",
}

// String returns a human-readable name for the kind.
func (k ValueKind) String() string {
	if k >= 0 && k < ValueKind(len(valueKindNames)) {
		return valueKindNames[k]
	}
	return ""
}

// Value is the tagged variant produced by evaluating expressions. N holds
// the numeric payload for Int, Char, Bool and Pointer values.
type Value struct {
	Kind  ValueKind
	N     int64
	Str   string
	Elems []Value
}

// IntVal returns an int value.
func IntVal(n int64) Value { return Value{Kind: IntValue, N: n} }

// CharVal returns a char value.
func CharVal(n int64) Value { return Value{Kind: CharValue, N: n} }

// BoolVal returns a bool value.
func BoolVal(b bool) Value {
	if b {
		return Value{Kind: BoolValue, N: 1}
	}
	return Value{Kind: BoolValue}
}

// StrVal returns a string value.
func StrVal(s string) Value { return Value{Kind: StrValue, Str: s} }

// PtrVal returns a pointer value holding a simulated address.
func PtrVal(addr int64) Value { return Value{Kind: PointerValue, N: addr} }

// ArrayVal returns an array value owning the given elements.
func ArrayVal(elems []Value) Value { return Value{Kind: ArrayValue, Elems: elems} }

// VoidVal returns the void value.
func VoidVal() Value { return Value{Kind: VoidValue} }

// IsNumeric reports whether the value participates in integer arithmetic.
func (v Value) IsNumeric() bool {
	switch v.Kind {
	case IntValue, CharValue, BoolValue, PointerValue:
		return true
	}
	return false
}

// Truthy reports whether the value counts as true in a condition:
// numeric values when non-zero, strings and arrays always.
func (v Value) Truthy() bool {
	switch v.Kind {
	case StrValue, ArrayValue:
		return true
	case VoidValue:
		return false
	}
	return v.N != 0
}

// Clone returns a copy of the value. Array elements are copied so that
// assignment never aliases storage between two bindings.
func (v Value) Clone() Value {
	if v.Kind != ArrayValue {
		return v
	}
	elems := make([]Value, len(v.Elems))
	for i, e := range v.Elems {
		elems[i] = e.Clone()
	}
	return ArrayVal(elems)
}

// String formats the value the way print and the driver report it:
// integers (and chars, by code) in decimal, strings plain, arrays
// bracketed and comma-separated with nested strings quoted.
func (v Value) String() string {
	switch v.Kind {
	case StrValue:
		return v.Str
	case BoolValue:
		if v.N != 0 {
			return "true"
		}
		return "false"
	case ArrayValue:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			if e.Kind == StrValue {
				parts[i] = fmt.Sprintf("%q", e.Str)
			} else {
				parts[i] = e.String()
			}
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VoidValue:
		return "void"
	}
	return strconv.FormatInt(v.N, 10)
}
