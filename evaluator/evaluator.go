package evaluator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/podhmo/scopeval/ast"
	"github.com/podhmo/scopeval/object"
)

// DefaultMaxCallDepth is used when Config.MaxCallDepth is zero.
const DefaultMaxCallDepth = 10000

// Evaluator walks an AST and produces objects.
// An Evaluator keeps a call stack, so it must not be used from more than one
// goroutine at a time. The AST it evaluates may be shared freely.
type Evaluator struct {
	logger       *slog.Logger
	maxCallDepth int
	callStack    []*object.CallFrame
}

// Config holds the settings of an Evaluator.
type Config struct {
	// Logger receives debug traces and error reports. A nil Logger discards everything.
	Logger *slog.Logger
	// MaxCallDepth bounds the number of nested calls. Zero means DefaultMaxCallDepth.
	MaxCallDepth int
}

// New creates a new Evaluator.
func New(cfg Config) *Evaluator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	depth := cfg.MaxCallDepth
	if depth <= 0 {
		depth = DefaultMaxCallDepth
	}
	return &Evaluator{
		logger:       logger,
		maxCallDepth: depth,
		callStack:    make([]*object.CallFrame, 0, 8),
	}
}

// EvalToplevel evaluates a program root and unwraps a top-level return.
// The result is a *object.Number, a *object.Closure or a *object.Error.
func (e *Evaluator) EvalToplevel(ctx context.Context, node ast.Node, env *object.Environment) object.Object {
	e.callStack = e.callStack[:0]
	return unwrapReturnValue(e.Eval(ctx, node, env))
}

// Eval is the main dispatch loop for the evaluator.
func (e *Evaluator) Eval(ctx context.Context, node ast.Node, env *object.Environment) object.Object {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		if n == nil {
			return e.newError(ctx, object.MALFORMED_NODE, "nil number literal")
		}
		return &object.Number{Value: n.Value}
	case *ast.Identifier:
		return e.evalIdent(ctx, n, env)
	case *ast.PrefixOp:
		return e.evalPrefixOp(ctx, n, env)
	case *ast.BinaryOp:
		return e.evalBinaryOp(ctx, n, env)
	case *ast.FunctionLiteral:
		return e.evalFunctionLiteral(ctx, n, env, "")
	case *ast.Call:
		return e.evalCall(ctx, n, env)
	case *ast.Let:
		return e.evalLet(ctx, n, env)
	case *ast.Return:
		return e.evalReturn(ctx, n, env)
	case *ast.ExprStmt:
		if n == nil {
			return e.newError(ctx, object.MALFORMED_NODE, "nil expression statement")
		}
		return e.evalExpr(ctx, n.Expr, env)
	case *ast.Block:
		return e.evalBlock(ctx, n, env)
	case nil:
		return e.newError(ctx, object.MALFORMED_NODE, "missing node")
	}
	return e.newError(ctx, object.MALFORMED_NODE, "evaluation not implemented for %T", node)
}

// evalExpr evaluates a node in expression position, where a statement is malformed.
func (e *Evaluator) evalExpr(ctx context.Context, node ast.Node, env *object.Environment) object.Object {
	switch node.(type) {
	case *ast.Let, *ast.Return, *ast.ExprStmt, *ast.Block:
		return e.newError(ctx, object.MALFORMED_NODE, "statement %T used as an expression", node)
	}
	return e.Eval(ctx, node, env)
}

func (e *Evaluator) evalBlock(ctx context.Context, block *ast.Block, env *object.Environment) object.Object {
	if block == nil || len(block.Stmts) == 0 {
		return e.newError(ctx, object.MALFORMED_NODE, "empty block")
	}
	var result object.Object
	for _, stmt := range block.Stmts {
		result = e.Eval(ctx, stmt, env)
		switch result.(type) {
		case *object.ReturnValue, *object.Error:
			return result
		}
	}
	return result
}

func (e *Evaluator) evalLet(ctx context.Context, n *ast.Let, env *object.Environment) object.Object {
	if n == nil || n.Name == "" {
		return e.newError(ctx, object.MALFORMED_NODE, "let without a name")
	}
	var val object.Object
	if lit, ok := n.Value.(*ast.FunctionLiteral); ok {
		val = e.evalFunctionLiteral(ctx, lit, env, n.Name)
	} else {
		val = e.evalExpr(ctx, n.Value, env)
	}
	if isError(val) {
		return val
	}
	e.logc(ctx, slog.LevelDebug, "define", "name", n.Name, "value", inspectValuer{val})
	return env.Define(n.Name, val)
}

func (e *Evaluator) evalReturn(ctx context.Context, n *ast.Return, env *object.Environment) object.Object {
	if n == nil {
		return e.newError(ctx, object.MALFORMED_NODE, "nil return statement")
	}
	val := e.evalExpr(ctx, n.Value, env)
	if isError(val) {
		return val
	}
	return &object.ReturnValue{Value: val}
}

func (e *Evaluator) evalIdent(ctx context.Context, n *ast.Identifier, env *object.Environment) object.Object {
	if n == nil {
		return e.newError(ctx, object.MALFORMED_NODE, "nil identifier")
	}
	val, err := env.Resolve(n.Name)
	if err != nil {
		var unbound *object.Error
		if errors.As(err, &unbound) {
			return e.withStack(ctx, unbound)
		}
		return e.newError(ctx, object.UNBOUND_IDENTIFIER, "%v", err)
	}
	e.logc(ctx, slog.LevelDebug, "evalIdent: found in env", "name", n.Name, "value", inspectValuer{val})
	return val
}

// evalFunctionLiteral captures env, the scope in which the literal is reached.
// name is the let name the literal is bound to, if any.
func (e *Evaluator) evalFunctionLiteral(ctx context.Context, n *ast.FunctionLiteral, env *object.Environment, name string) object.Object {
	if n == nil || n.Body == nil {
		return e.newError(ctx, object.MALFORMED_NODE, "function literal without a body")
	}
	return &object.Closure{
		Name:   name,
		Params: n.Params,
		Body:   n.Body,
		Env:    env,
	}
}

func isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}

func unwrapReturnValue(obj object.Object) object.Object {
	if returnValue, ok := obj.(*object.ReturnValue); ok {
		return returnValue.Value
	}
	return obj
}
