package c4

import (
	"fmt"
	"strings"
)

// LexError represents a lexical error: an unrecognized character or an
// unterminated comment/literal. It is fatal; no parsing output is produced.
type LexError struct {
	Char    rune
	Message string
	Pos     Position
}

// Error returns the string representation of the error.
func (e *LexError) Error() string {
	return fmt.Sprintf("%s %q at line %d, char %d", e.Message, e.Char, e.Pos.Line+1, e.Pos.Column+1)
}

// ParseError represents a syntax error. Parsing stops at the first error.
type ParseError struct {
	Message  string
	Found    string
	Expected []string
	Pos      Position
}

// Error returns the string representation of the error.
func (e *ParseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s at line %d, char %d", e.Message, e.Pos.Line+1, e.Pos.Column+1)
	}
	return fmt.Sprintf("found %s, expected %s at line %d, char %d", e.Found,
		strings.Join(e.Expected, ", "), e.Pos.Line+1, e.Pos.Column+1)
}

// newParseError returns a new instance of ParseError.
func newParseError(found string, expected []string, pos Position) *ParseError {
	return &ParseError{
		Found:    found,
		Expected: expected,
		Pos:      pos,
	}
}

// RuntimeErrorKind classifies the failure modes of the evaluator.
type RuntimeErrorKind int

// Runtime failure modes
const (
	DivisionByZero RuntimeErrorKind = iota
	UndefinedVariable
	UndefinedFunction
	ArityMismatch
	IndexOutOfBounds
	InvalidPointer
	TypeMismatch
)

var runtimeErrorNames = [...]string{
	DivisionByZero:    "division by zero",
	UndefinedVariable: "undefined variable",
	UndefinedFunction: "undefined function",
	ArityMismatch:     "arity mismatch",
	IndexOutOfBounds:  "index out of bounds",
	InvalidPointer:    "invalid pointer",
	TypeMismatch:      "type mismatch",
}

// String returns a human-readable name for the kind.
func (k RuntimeErrorKind) String() string {
	if k >= 0 && k < RuntimeErrorKind(len(runtimeErrorNames)) {
		return runtimeErrorNames[k]
	}
	return ""
}

// RuntimeError represents an error raised while evaluating the program.
// It is fatal to the run; the interpreted program cannot recover from it.
type RuntimeError struct {
	Kind    RuntimeErrorKind
	Message string
	Pos     Position
}

// Error returns the string representation of the error.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s at line %d, char %d", e.Kind, e.Message, e.Pos.Line+1, e.Pos.Column+1)
}

// newRuntimeError returns a new instance of RuntimeError.
func newRuntimeError(kind RuntimeErrorKind, pos Position, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}
