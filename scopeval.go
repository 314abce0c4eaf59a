// Package scopeval evaluates programs of a small expression language with
// first-class functions and lexically scoped closures.
//
// The package consumes an already-built syntax tree (see package ast);
// it does not lex or parse source text.
package scopeval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/podhmo/scopeval/ast"
	"github.com/podhmo/scopeval/evaluator"
	"github.com/podhmo/scopeval/object"
)

// Interpreter is the main entry point for evaluation.
// It holds the global environment, so top-level let bindings persist
// between calls to Eval.
type Interpreter struct {
	eval      *evaluator.Evaluator
	globalEnv *object.Environment

	logger       *slog.Logger
	maxCallDepth int
}

// Option is a functional option for configuring the Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used for evaluation traces.
// Without it, nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// WithMaxCallDepth bounds the nesting of function calls.
func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) {
		i.maxCallDepth = depth
	}
}

// WithGlobals pre-seeds the global environment.
func WithGlobals(globals map[string]object.Object) Option {
	return func(i *Interpreter) {
		for name, value := range globals {
			i.globalEnv.Define(name, value)
		}
	}
}

// NewInterpreter creates a new interpreter instance, configured with options.
func NewInterpreter(options ...Option) (*Interpreter, error) {
	i := &Interpreter{
		globalEnv: object.NewEnvironment(),
	}
	for _, opt := range options {
		opt(i)
	}
	if i.maxCallDepth < 0 {
		return nil, fmt.Errorf("invalid max call depth: %d", i.maxCallDepth)
	}

	i.eval = evaluator.New(evaluator.Config{
		Logger:       i.logger,
		MaxCallDepth: i.maxCallDepth,
	})
	return i, nil
}

// Eval evaluates node in the global environment.
// On failure the returned error is an *object.Error.
func (i *Interpreter) Eval(ctx context.Context, node ast.Node) (object.Object, error) {
	return run(ctx, i.eval, node, i.globalEnv)
}

// Call applies the global function name to args.
func (i *Interpreter) Call(ctx context.Context, name string, args ...object.Object) (object.Object, error) {
	fn, err := i.globalEnv.Resolve(name)
	if err != nil {
		return nil, err
	}
	return toResult(i.eval.ApplyFunction(orBackground(ctx), fn, args...))
}

// Env returns the global environment.
func (i *Interpreter) Env() *object.Environment {
	return i.globalEnv
}

// Globals returns a snapshot of the global bindings.
func (i *Interpreter) Globals() map[string]object.Object {
	return i.globalEnv.GetAll()
}

// Eval is a one-shot evaluation of node in env, with default settings.
// A nil env means a fresh, empty one.
func Eval(ctx context.Context, node ast.Node, env *object.Environment) (object.Object, error) {
	if env == nil {
		env = object.NewEnvironment()
	}
	return run(ctx, evaluator.New(evaluator.Config{}), node, env)
}

func run(ctx context.Context, e *evaluator.Evaluator, node ast.Node, env *object.Environment) (object.Object, error) {
	return toResult(e.EvalToplevel(orBackground(ctx), node, env))
}

// orBackground treats a nil ctx as context.Background.
func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func toResult(result object.Object) (object.Object, error) {
	if err, ok := result.(*object.Error); ok {
		return nil, err
	}
	return result, nil
}
