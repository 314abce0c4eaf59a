package evaluator

import (
	"context"
	"log/slog"

	"github.com/podhmo/scopeval/ast"
	"github.com/podhmo/scopeval/object"
)

func (e *Evaluator) evalCall(ctx context.Context, n *ast.Call, env *object.Environment) object.Object {
	if n == nil {
		return e.newError(ctx, object.MALFORMED_NODE, "nil call")
	}
	fn := e.evalExpr(ctx, n.Callee, env)
	if isError(fn) {
		return fn
	}
	// the callee is checked before any argument is evaluated
	if _, ok := fn.(*object.Closure); !ok {
		return e.notCallable(ctx, fn)
	}
	args := e.evalExpressions(ctx, n.Args, env)
	if len(args) == 1 && isError(args[0]) {
		return args[0]
	}
	return e.applyFunction(ctx, fn, args)
}

// evalExpressions evaluates exps left to right. On failure it returns a
// single-element slice holding the error.
func (e *Evaluator) evalExpressions(ctx context.Context, exps []ast.Node, env *object.Environment) []object.Object {
	result := make([]object.Object, 0, len(exps))
	for _, exp := range exps {
		evaluated := e.evalExpr(ctx, exp, env)
		if isError(evaluated) {
			return []object.Object{evaluated}
		}
		result = append(result, evaluated)
	}
	return result
}

func (e *Evaluator) applyFunction(ctx context.Context, fn object.Object, args []object.Object) object.Object {
	function, ok := fn.(*object.Closure)
	if !ok {
		return e.notCallable(ctx, fn)
	}
	if len(args) != len(function.Params) {
		err := e.newError(ctx, object.ARITY_MISMATCH, "wrong number of arguments. got=%d, want=%d", len(args), len(function.Params))
		err.Expected = len(function.Params)
		err.Actual = len(args)
		return err
	}
	if len(e.callStack) >= e.maxCallDepth {
		return e.newError(ctx, object.STACK_OVERFLOW, "maximum call depth exceeded: %d", e.maxCallDepth)
	}
	if cause := ctx.Err(); cause != nil {
		err := e.newError(ctx, object.CANCELED, "evaluation canceled: %v", cause)
		err.Cause = cause
		return err
	}

	e.callStack = append(e.callStack, &object.CallFrame{Function: function.Name, Fn: function})
	defer func() {
		e.callStack = e.callStack[:len(e.callStack)-1]
	}()

	extendedEnv := e.extendFunctionEnv(function, args)
	e.logc(ctx, slog.LevelDebug, "applyFunction", "function", inspectValuer{function}, "args", len(args))
	evaluated := e.Eval(ctx, function.Body, extendedEnv)
	return unwrapReturnValue(evaluated)
}

func (e *Evaluator) notCallable(ctx context.Context, fn object.Object) *object.Error {
	if fn == nil {
		return e.newError(ctx, object.NOT_CALLABLE, "not a function: <nil>")
	}
	err := e.newError(ctx, object.NOT_CALLABLE, "not a function: %s %s", fn.Type(), fn.Inspect())
	err.Value = fn
	return err
}

// extendFunctionEnv creates the scope of one call. Its outer scope is the
// closure's captured environment, not the caller's.
func (e *Evaluator) extendFunctionEnv(fn *object.Closure, args []object.Object) *object.Environment {
	env := fn.Env.ChildScope()
	for i, name := range fn.Params {
		env.Define(name, args[i])
	}
	return env
}

// ApplyFunction calls fn with already evaluated arguments.
func (e *Evaluator) ApplyFunction(ctx context.Context, fn object.Object, args ...object.Object) object.Object {
	return e.applyFunction(ctx, fn, args)
}
