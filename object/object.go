package object

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/podhmo/scopeval/ast"
)

// ObjectType is a string representation of an object's type.
type ObjectType string

const (
	NUMBER_OBJ       ObjectType = "NUMBER"
	CLOSURE_OBJ      ObjectType = "CLOSURE"
	RETURN_VALUE_OBJ ObjectType = "RETURN_VALUE"
	ERROR_OBJ        ObjectType = "ERROR"
)

// CallFrame represents a single frame in the call stack.
type CallFrame struct {
	Function string // Name of the function for stack traces
	Fn       *Closure
}

// Format formats the call frame into a readable string.
func (cf *CallFrame) Format() string {
	funcName := cf.Function
	if funcName == "" {
		funcName = "<anonymous>"
	}
	if cf.Fn != nil {
		return fmt.Sprintf("\tin %s\t%s", funcName, cf.Fn.signature())
	}
	return fmt.Sprintf("\tin %s", funcName)
}

// Object is the interface that all value types in our interpreter will implement.
type Object interface {
	// Type returns the type of the object.
	Type() ObjectType
	// Inspect returns a string representation of the object's value.
	Inspect() string
}

// --- Number Object ---

// Number is a signed 64-bit integer value.
type Number struct {
	Value int64
}

// Type returns the type of the Number object.
func (n *Number) Type() ObjectType { return NUMBER_OBJ }

// Inspect returns a string representation of the Number's value.
func (n *Number) Inspect() string { return fmt.Sprintf("%d", n.Value) }

// --- Closure Object ---

// Closure is a function value. Env is the environment that was active when
// the function literal was evaluated; calls extend Env, never the caller's
// environment.
type Closure struct {
	Name   string // the let-bound name, empty for anonymous literals
	Params []string
	Body   *ast.Block
	Env    *Environment
}

// Type returns the type of the Closure object.
func (c *Closure) Type() ObjectType { return CLOSURE_OBJ }

// Inspect returns a string representation of the closure.
func (c *Closure) Inspect() string {
	body := "{ }"
	if c.Body != nil {
		body = c.Body.String()
	}
	return c.signature() + " " + body
}

// signature is the closure without its body, e.g. "fn complex(x)".
func (c *Closure) signature() string {
	var out bytes.Buffer
	out.WriteString("fn")
	if c.Name != "" {
		out.WriteString(" ")
		out.WriteString(c.Name)
	}
	out.WriteString("(")
	out.WriteString(strings.Join(c.Params, ", "))
	out.WriteString(")")
	return out.String()
}

// --- Return Value Object ---

// ReturnValue represents the value being returned from a function.
// It wraps another object to signal the "return" state.
type ReturnValue struct {
	Value Object
}

// Type returns the type of the ReturnValue object.
func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }

// Inspect returns a string representation of the wrapped value.
func (rv *ReturnValue) Inspect() string { return rv.Value.Inspect() }
