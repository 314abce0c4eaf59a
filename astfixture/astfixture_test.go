package astfixture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/podhmo/scopeval"
	"github.com/podhmo/scopeval/ast"
	"github.com/podhmo/scopeval/object"
	"github.com/podhmo/scopeval/scopevaltest"
	"gopkg.in/yaml.v3"
)

func TestFixtures(t *testing.T) {
	cases, err := LoadDir("testdata")
	if err != nil {
		t.Fatalf("LoadDir() failed: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("no fixtures found in testdata")
	}

	logger := scopevaltest.NewLogger(&testWriter{t: t})
	outcomes, err := RunAll(context.Background(), cases, 4, scopeval.WithLogger(logger))
	if err != nil {
		t.Fatalf("RunAll() failed: %v", err)
	}
	for i, out := range outcomes {
		if out.Case != cases[i] {
			t.Fatalf("outcome %d belongs to %s, want %s", i, out.Case.Name, cases[i].Name)
		}
		t.Run(out.Case.Name, func(t *testing.T) {
			if err := out.Check(); err != nil {
				t.Errorf("%s\n%s", err, out.Case.Program)
			}
		})
	}
}

func TestRunAllCanceled(t *testing.T) {
	cases, err := LoadDir("testdata")
	if err != nil {
		t.Fatalf("LoadDir() failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = RunAll(ctx, cases, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunAll() = %v, want context.Canceled", err)
	}
}

func TestLoadNamesCaseAfterFile(t *testing.T) {
	c, err := Load("testdata/division_by_zero.yaml")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if c.Name != "division_by_zero" {
		t.Errorf("Name = %q, want %q", c.Name, "division_by_zero")
	}
	if diff := cmp.Diff(map[string]int64{"a": 10, "b": 4}, c.Globals); diff != "" {
		t.Errorf("Globals mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeProgram(t *testing.T) {
	src := `
version: v1.2.3
name: sample
program:
  - let: {name: f, value: {fn: {params: [x], body: [{return: {ident: x}}]}}}
  - expr: {call: {callee: {ident: f}, args: [{number: 1}]}}
  - expr: {neg: {binary: {op: "/", left: {number: 7}, right: {number: 2}}}}
  - block: [{expr: {number: 0}}]
expect:
  number: 1
`
	c, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	want := "{ let f = fn(x) { return x; }; f(1); (-(7 / 2)); { 0; } }"
	if diff := cmp.Diff(want, c.Program.String()); diff != "" {
		t.Errorf("program mismatch (-want +got):\n%s", diff)
	}
	if c.Expect.Number == nil || *c.Expect.Number != 1 {
		t.Errorf("Expect.Number = %v, want 1", c.Expect.Number)
	}
}

func TestDecodeAlias(t *testing.T) {
	src := `
version: v1.0.0
program:
  - let: {name: id, value: &id {fn: {params: [v], body: [{return: {ident: v}}]}}}
  - expr: {call: {callee: *id, args: [{number: 5}]}}
expect:
  number: 5
`
	c, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	out := c.Run(context.Background())
	if err := out.Check(); err != nil {
		t.Error(err)
	}
}

func TestDecodeSharesAliasedNodes(t *testing.T) {
	// each level adds the previous level to itself; expanded naively the
	// last statement alone would hold 2^30 leaves
	const depth = 30
	var b strings.Builder
	b.WriteString("version: v1.0.0\nprogram:\n  - expr: &a0 {number: 1}\n")
	for i := 1; i <= depth; i++ {
		fmt.Fprintf(&b, "  - expr: &a%d {binary: {op: '+', left: *a%d, right: *a%d}}\n", i, i-1, i-1)
	}
	b.WriteString("expect:\n  number: 1\n")

	c, err := Decode(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if got := len(c.Program.Stmts); got != depth+1 {
		t.Fatalf("len(Stmts) = %d, want %d", got, depth+1)
	}
	last := c.Program.Stmts[depth].(*ast.ExprStmt).Expr.(*ast.BinaryOp)
	if last.Left != last.Right {
		t.Errorf("aliased operands must share one decoded node")
	}
	if last.Left != c.Program.Stmts[depth-1].(*ast.ExprStmt).Expr {
		t.Errorf("alias must resolve to the node decoded for its anchor")
	}
}

func TestNodeDecoderLimit(t *testing.T) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte("- expr: {neg: {number: 1}}\n"), &doc); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	seq := doc.Content[0]

	if _, err := newNodeDecoder(3).block(seq); err != nil {
		t.Errorf("block() with limit 3 failed: %v", err)
	}
	_, err := newNodeDecoder(2).block(seq)
	if err == nil || !strings.Contains(err.Error(), "too many nodes (limit 2)") {
		t.Errorf("block() with limit 2 = %v, want a limit error", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	body := "program:\n  - expr: {number: 1}\nexpect:\n  number: 1\n"
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", "empty document"},
		{"missing version", body, "version must be provided"},
		{"invalid version", "version: \"1.0\"\n" + body, "invalid version"},
		{"unsupported major", "version: v2.0.0\n" + body, "unsupported version v2.0.0"},
		{"unknown envelope field", "version: v1.0.0\nauthor: me\n" + body, "field author not found"},
		{"missing program", "version: v1.0.0\nexpect:\n  number: 1\n", "program must be provided"},
		{"no expectation", "version: v1.0.0\nprogram:\n  - expr: {number: 1}\n", "exactly one of"},
		{"two expectations", "version: v1.0.0\nprogram:\n  - expr: {number: 1}\nexpect:\n  number: 1\n  closure: true\n", "exactly one of"},
		{"error without kind", "version: v1.0.0\nprogram:\n  - expr: {number: 1}\nexpect:\n  error: {message: x}\n", "kind must be provided"},
		{"unknown node", "version: v1.0.0\nprogram:\n  - stmt: {number: 1}\nexpect:\n  number: 1\n", `unknown node "stmt"`},
		{"node with two keys", "version: v1.0.0\nprogram:\n  - {number: 1, ident: a}\nexpect:\n  number: 1\n", "exactly one key"},
		{"bad number", "version: v1.0.0\nprogram:\n  - expr: {number: one}\nexpect:\n  number: 1\n", "number:"},
		{"unknown binary field", "version: v1.0.0\nprogram:\n  - expr: {binary: {op: '+', left: {number: 1}, rigth: {number: 2}}}\nexpect:\n  number: 1\n", `unknown field "rigth"`},
		{"missing operand", "version: v1.0.0\nprogram:\n  - expr: {binary: {op: '+', left: {number: 1}}}\nexpect:\n  number: 1\n", "right must be provided"},
		{"fn without body", "version: v1.0.0\nprogram:\n  - expr: {fn: {params: [x]}}\nexpect:\n  closure: true\n", "fn.body must be provided"},
		{"let without name", "version: v1.0.0\nprogram:\n  - let: {value: {number: 1}}\nexpect:\n  number: 1\n", "let.name must be provided"},
		{"program not a sequence", "version: v1.0.0\nprogram: {expr: {number: 1}}\nexpect:\n  number: 1\n", "expected a sequence"},
		{"self-referencing block", "version: v1.0.0\nprogram: &p\n  - block: *p\nexpect:\n  number: 1\n", "alias *p refers to itself"},
		{"self-referencing let", "version: v1.0.0\nprogram:\n  - let: &l {name: a, value: {let: *l}}\nexpect:\n  number: 1\n", "alias *l refers to itself"},
		{"self-referencing node", "version: v1.0.0\nprogram:\n  - &n {neg: *n}\nexpect:\n  number: 1\n", "alias *n refers to itself"},
		{"too many nodes", "version: v1.0.0\nprogram:\n" + strings.Repeat("  - expr: {number: 1}\n", MaxNodes/2+1) + "expect:\n  number: 1\n", "too many nodes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			if err == nil {
				t.Fatalf("Decode() succeeded, want error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	num := func(v int64) *int64 { return &v }
	closure := &object.Closure{Params: []string{"x"}}
	divErr := &object.Error{Kind: object.DIVISION_BY_ZERO, Message: "division by zero"}

	tests := []struct {
		name    string
		expect  Expect
		result  object.Object
		err     error
		wantErr string
	}{
		{"number ok", Expect{Number: num(3)}, &object.Number{Value: 3}, nil, ""},
		{"number differs", Expect{Number: num(3)}, &object.Number{Value: 4}, nil, "want number 3, got 4"},
		{"number got closure", Expect{Number: num(3)}, closure, nil, "want number 3, got CLOSURE"},
		{"closure ok", Expect{Closure: true}, closure, nil, ""},
		{"error ok", Expect{Error: &ExpectError{Kind: object.DIVISION_BY_ZERO}}, nil, divErr, ""},
		{"error message ok", Expect{Error: &ExpectError{Kind: object.DIVISION_BY_ZERO, Message: "zero"}}, nil, divErr, ""},
		{"error message differs", Expect{Error: &ExpectError{Kind: object.DIVISION_BY_ZERO, Message: "nope"}}, nil, divErr, `does not contain "nope"`},
		{"error kind differs", Expect{Error: &ExpectError{Kind: object.NOT_CALLABLE}}, nil, divErr, "want NOT_CALLABLE error, got DIVISION_BY_ZERO"},
		{"error but got value", Expect{Error: &ExpectError{Kind: object.NOT_CALLABLE}}, &object.Number{Value: 1}, nil, "got NUMBER 1"},
		{"unexpected error", Expect{Number: num(1)}, nil, divErr, "unexpected error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Outcome{Case: &Case{Name: "c", Expect: tt.expect}, Result: tt.result, Err: tt.err}
			err := out.Check()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Check() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Check() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunRejectsBadOptions(t *testing.T) {
	c, err := Load("testdata/complex.yaml")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	out := c.Run(context.Background(), scopeval.WithMaxCallDepth(-1))
	if out.Err == nil {
		t.Errorf("Run() with a negative depth must fail")
	}
}

type testWriter struct{ t *testing.T }

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
