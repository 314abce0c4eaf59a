package object

import (
	"bytes"
	"fmt"
)

// ErrorKind classifies an evaluation failure.
type ErrorKind string

const (
	UNBOUND_IDENTIFIER ErrorKind = "UNBOUND_IDENTIFIER"
	DIVISION_BY_ZERO   ErrorKind = "DIVISION_BY_ZERO"
	NOT_CALLABLE       ErrorKind = "NOT_CALLABLE"
	ARITY_MISMATCH     ErrorKind = "ARITY_MISMATCH"
	TYPE_MISMATCH      ErrorKind = "TYPE_MISMATCH"
	UNKNOWN_OPERATOR   ErrorKind = "UNKNOWN_OPERATOR"
	MALFORMED_NODE     ErrorKind = "MALFORMED_NODE"
	STACK_OVERFLOW     ErrorKind = "STACK_OVERFLOW"
	CANCELED           ErrorKind = "CANCELED"
)

// Sentinels for errors.Is. Only the kind is compared.
var (
	ErrUnboundIdentifier = &Error{Kind: UNBOUND_IDENTIFIER}
	ErrDivisionByZero    = &Error{Kind: DIVISION_BY_ZERO}
	ErrNotCallable       = &Error{Kind: NOT_CALLABLE}
	ErrArityMismatch     = &Error{Kind: ARITY_MISMATCH}
	ErrTypeMismatch      = &Error{Kind: TYPE_MISMATCH}
	ErrUnknownOperator   = &Error{Kind: UNKNOWN_OPERATOR}
	ErrMalformedNode     = &Error{Kind: MALFORMED_NODE}
	ErrStackOverflow     = &Error{Kind: STACK_OVERFLOW}
	ErrCanceled          = &Error{Kind: CANCELED}
)

// Error is a terminal evaluation failure. It is both an Object, so it can
// flow through Eval like any other result, and a Go error.
type Error struct {
	Kind    ErrorKind
	Message string

	Name     string // offending identifier, for UNBOUND_IDENTIFIER
	Operator string // offending operator, for TYPE_MISMATCH and UNKNOWN_OPERATOR
	Value    Object // offending value, for NOT_CALLABLE and TYPE_MISMATCH
	Expected int    // parameter count, for ARITY_MISMATCH
	Actual   int    // argument count, for ARITY_MISMATCH

	CallStack []*CallFrame
	Cause     error
}

// Type returns the type of the Error object.
func (e *Error) Type() ObjectType { return ERROR_OBJ }

// Inspect returns a formatted string representation of the error, including the call stack.
func (e *Error) Inspect() string {
	var out bytes.Buffer

	out.WriteString("runtime error: ")
	out.WriteString(e.Message)
	out.WriteString("\n")

	// Print the call stack in reverse order (most recent call first)
	for i := len(e.CallStack) - 1; i >= 0; i-- {
		out.WriteString(e.CallStack[i].Format())
		out.WriteString("\n")
	}
	return out.String()
}

// Error makes it a valid Go error.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewUnboundIdentifier builds the failure for a name that no enclosing scope defines.
func NewUnboundIdentifier(name string) *Error {
	return &Error{
		Kind:    UNBOUND_IDENTIFIER,
		Message: fmt.Sprintf("identifier not found: %s", name),
		Name:    name,
	}
}
