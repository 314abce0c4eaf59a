package evaluator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/podhmo/scopeval/object"
)

func (e *Evaluator) newError(ctx context.Context, kind object.ErrorKind, format string, args ...interface{}) *object.Error {
	err := &object.Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
	return e.attachStack(ctx, err)
}

// withStack completes an error built outside the evaluator, such as the one
// returned by Environment.Resolve.
func (e *Evaluator) withStack(ctx context.Context, err *object.Error) *object.Error {
	return e.attachStack(ctx, err)
}

func (e *Evaluator) attachStack(ctx context.Context, err *object.Error) *object.Error {
	frames := make([]*object.CallFrame, len(e.callStack))
	copy(frames, e.callStack)
	err.CallStack = frames
	// depth 3: logcWithCallerDepth <- attachStack <- newError/withStack <- caller
	e.logcWithCallerDepth(ctx, slog.LevelError, 3, err.Message, "kind", string(err.Kind), "stack", inspectValuer{err})
	return err
}
