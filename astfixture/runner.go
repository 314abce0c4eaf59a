package astfixture

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/podhmo/scopeval"
	"github.com/podhmo/scopeval/object"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of running one Case.
type Outcome struct {
	Case   *Case
	Result object.Object
	Err    error
}

// Run evaluates the case with a fresh interpreter seeded with the case's globals.
// Evaluation failures are reported in Outcome.Err, not as a panic or a separate error.
func (c *Case) Run(ctx context.Context, options ...scopeval.Option) Outcome {
	globals := make(map[string]object.Object, len(c.Globals))
	for name, v := range c.Globals {
		globals[name] = &object.Number{Value: v}
	}
	options = append(options[:len(options):len(options)], scopeval.WithGlobals(globals))

	i, err := scopeval.NewInterpreter(options...)
	if err != nil {
		return Outcome{Case: c, Err: err}
	}
	result, err := i.Eval(ctx, c.Program)
	return Outcome{Case: c, Result: result, Err: err}
}

// Check compares the outcome against the case's expectation.
func (o Outcome) Check() error {
	want := o.Case.Expect
	switch {
	case want.Error != nil:
		if o.Err == nil {
			return fmt.Errorf("%s: want %s error, got %s", o.Case.Name, want.Error.Kind, inspect(o.Result))
		}
		var evalErr *object.Error
		if !errors.As(o.Err, &evalErr) {
			return fmt.Errorf("%s: want %s error, got %w", o.Case.Name, want.Error.Kind, o.Err)
		}
		if evalErr.Kind != want.Error.Kind {
			return fmt.Errorf("%s: want %s error, got %s (%s)", o.Case.Name, want.Error.Kind, evalErr.Kind, evalErr.Message)
		}
		if want.Error.Message != "" && !strings.Contains(evalErr.Message, want.Error.Message) {
			return fmt.Errorf("%s: error message %q does not contain %q", o.Case.Name, evalErr.Message, want.Error.Message)
		}
		return nil
	case o.Err != nil:
		return fmt.Errorf("%s: unexpected error: %w", o.Case.Name, o.Err)
	case want.Number != nil:
		num, ok := o.Result.(*object.Number)
		if !ok {
			return fmt.Errorf("%s: want number %d, got %s", o.Case.Name, *want.Number, inspect(o.Result))
		}
		if num.Value != *want.Number {
			return fmt.Errorf("%s: want number %d, got %d", o.Case.Name, *want.Number, num.Value)
		}
		return nil
	case want.Closure:
		if _, ok := o.Result.(*object.Closure); !ok {
			return fmt.Errorf("%s: want a closure, got %s", o.Case.Name, inspect(o.Result))
		}
		return nil
	default:
		return fmt.Errorf("%s: no expectation", o.Case.Name)
	}
}

// RunAll runs cases concurrently, at most limit at a time (no bound when
// limit <= 0). Each case gets its own interpreter. The outcomes are in the
// order of cases. The returned error is non-nil only when ctx ends before
// every case has started.
func RunAll(ctx context.Context, cases []*Case, limit int, options ...scopeval.Option) ([]Outcome, error) {
	outcomes := make([]Outcome, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, c := range cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = Outcome{Case: c, Err: err}
				return err
			}
			outcomes[i] = c.Run(gctx, options...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, fmt.Errorf("fixture: run: %w", err)
	}
	return outcomes, nil
}

func inspect(obj object.Object) string {
	if obj == nil {
		return "<nil>"
	}
	return string(obj.Type()) + " " + obj.Inspect()
}
