package scopevaltest

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/podhmo/scopeval/object"
)

// AssertNumber fails the test if the object is not a Number with the expected value.
func AssertNumber(t *testing.T, obj object.Object, expected int64) {
	t.Helper()
	num, ok := obj.(*object.Number)
	if !ok {
		t.Fatalf("object is not Number. got=%T (%+v)", obj, obj)
	}
	if num.Value != expected {
		t.Errorf("number has wrong value. want=%d, got=%d", expected, num.Value)
	}
}

// AssertClosure fails the test if the object is not a Closure with the given parameters.
func AssertClosure(t *testing.T, obj object.Object, params ...string) *object.Closure {
	t.Helper()
	fn, ok := obj.(*object.Closure)
	if !ok {
		t.Fatalf("object is not Closure. got=%T (%+v)", obj, obj)
	}
	if params == nil {
		params = []string{}
	}
	got := fn.Params
	if got == nil {
		got = []string{}
	}
	if diff := cmp.Diff(params, got); diff != "" {
		t.Errorf("closure parameters mismatch (-want +got):\n%s", diff)
	}
	return fn
}

// AssertErrorKind fails the test if err is not an *object.Error of the given kind.
// If `contains` has one or more elements, it also checks if the error message contains each of them.
func AssertErrorKind(t *testing.T, err error, kind object.ErrorKind, contains ...string) *object.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected a %s error, but got nil", kind)
	}
	var evalErr *object.Error
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected *object.Error, but got %T (%v)", err, err)
	}
	if evalErr.Kind != kind {
		t.Fatalf("error has wrong kind. want=%s, got=%s (%s)", kind, evalErr.Kind, evalErr.Message)
	}
	for _, c := range contains {
		if !strings.Contains(evalErr.Message, c) {
			t.Errorf("error message %q does not contain %q", evalErr.Message, c)
		}
	}
	return evalErr
}

// AssertEqual uses go-cmp to compare two values and fails the test if they are not equal.
func AssertEqual(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("values are not equal (-want +got):\n%s", diff)
	}
}
