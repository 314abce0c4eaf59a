// Package astfixture loads evaluation scenarios from YAML files and runs them.
//
// A fixture spells out a program as a tree of single-key mappings, one per
// node, together with the result the program must produce. Fixtures are a
// test-harness format; they are not a source language.
package astfixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/podhmo/scopeval/ast"
	"github.com/podhmo/scopeval/object"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FormatMajor is the only fixture format major version this package reads.
const FormatMajor = "v1"

// MaxNodes bounds the number of AST nodes decoded from one fixture.
const MaxNodes = 100000

// Case is one decoded fixture.
type Case struct {
	Path        string
	Version     string
	Name        string
	Description string
	Globals     map[string]int64
	Program     *ast.Block
	Expect      Expect
}

// Expect is the result a fixture program must produce. Exactly one field is set.
type Expect struct {
	Number  *int64       `yaml:"number"`
	Error   *ExpectError `yaml:"error"`
	Closure bool         `yaml:"closure"`
}

// ExpectError describes an expected failure.
type ExpectError struct {
	Kind    object.ErrorKind `yaml:"kind"`
	Message string           `yaml:"message"`
}

type caseFile struct {
	Version     string           `yaml:"version"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Globals     map[string]int64 `yaml:"globals"`
	Program     yaml.Node        `yaml:"program"`
	Expect      Expect           `yaml:"expect"`
}

// Load reads the fixture at path.
func Load(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: open %s: %w", path, err)
	}
	c, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return c, nil
}

// LoadDir loads every *.yaml and *.yml file in dir, in file name order.
func LoadDir(dir string) ([]*Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("fixture: read dir %s: %w", dir, err)
	}
	var cases []*Case
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml":
		default:
			continue
		}
		c, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// Decode reads one fixture document from r.
func Decode(r io.Reader) (*Case, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw caseFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("fixture: empty document")
		}
		return nil, fmt.Errorf("fixture: parse: %w", err)
	}

	if err := checkVersion(raw.Version); err != nil {
		return nil, err
	}
	if err := raw.Expect.validate(); err != nil {
		return nil, err
	}
	if raw.Program.Kind == 0 {
		return nil, fmt.Errorf("fixture: program must be provided")
	}
	program, err := newNodeDecoder(MaxNodes).block(&raw.Program)
	if err != nil {
		return nil, fmt.Errorf("fixture: program: %w", err)
	}

	return &Case{
		Version:     raw.Version,
		Name:        raw.Name,
		Description: raw.Description,
		Globals:     raw.Globals,
		Program:     program,
		Expect:      raw.Expect,
	}, nil
}

func checkVersion(v string) error {
	if v == "" {
		return fmt.Errorf("fixture: version must be provided")
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("fixture: invalid version %q", v)
	}
	if major := semver.Major(v); major != FormatMajor {
		return fmt.Errorf("fixture: unsupported version %s (want %s.x.y)", v, FormatMajor)
	}
	return nil
}

func (e Expect) validate() error {
	n := 0
	if e.Number != nil {
		n++
	}
	if e.Error != nil {
		n++
		if e.Error.Kind == "" {
			return fmt.Errorf("fixture: expect.error.kind must be provided")
		}
	}
	if e.Closure {
		n++
	}
	if n != 1 {
		return fmt.Errorf("fixture: expect must hold exactly one of number, error, closure (got %d)", n)
	}
	return nil
}

// nodeDecoder turns fixture node mappings into AST nodes.
// An anchored subtree is decoded once and shared by every alias to it.
type nodeDecoder struct {
	limit  int
	count  int
	active map[*yaml.Node]bool
	nodes  map[*yaml.Node]ast.Node
	seqs   map[*yaml.Node][]ast.Node
}

func newNodeDecoder(limit int) *nodeDecoder {
	return &nodeDecoder{
		limit:  limit,
		active: map[*yaml.Node]bool{},
		nodes:  map[*yaml.Node]ast.Node{},
		seqs:   map[*yaml.Node][]ast.Node{},
	}
}

// enter follows an alias and marks its target as being decoded until leave
// is called. Reaching a target that is already being decoded is a cycle.
func (d *nodeDecoder) enter(n *yaml.Node) (target *yaml.Node, leave func(), err error) {
	if n.Kind != yaml.AliasNode {
		return n, func() {}, nil
	}
	target = n.Alias
	if target == nil {
		return nil, nil, nodeErrorf(n, "unknown anchor %q", n.Value)
	}
	if d.active[target] {
		return nil, nil, nodeErrorf(n, "alias *%s refers to itself", n.Value)
	}
	d.active[target] = true
	return target, func() { delete(d.active, target) }, nil
}

func (d *nodeDecoder) node(n *yaml.Node) (ast.Node, error) {
	target, leave, err := d.enter(n)
	if err != nil {
		return nil, err
	}
	defer leave()
	if cached, ok := d.nodes[target]; ok {
		return cached, nil
	}

	node, err := d.decodeNode(target)
	if err != nil {
		return nil, err
	}
	if target.Anchor != "" {
		d.nodes[target] = node
	}
	return node, nil
}

func (d *nodeDecoder) decodeNode(n *yaml.Node) (ast.Node, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, nodeErrorf(n, "a node is a mapping with exactly one key")
	}
	d.count++
	if d.count > d.limit {
		return nil, nodeErrorf(n, "too many nodes (limit %d)", d.limit)
	}
	key, val := n.Content[0].Value, n.Content[1]

	switch key {
	case "number":
		var v int64
		if err := val.Decode(&v); err != nil {
			return nil, nodeErrorf(val, "number: %v", err)
		}
		return &ast.NumberLiteral{Value: v}, nil
	case "ident":
		name, err := decodeName(val, "ident")
		if err != nil {
			return nil, err
		}
		return &ast.Identifier{Name: name}, nil
	case "neg":
		right, err := d.node(val)
		if err != nil {
			return nil, err
		}
		return &ast.PrefixOp{Op: ast.OpSub, Right: right}, nil
	case "return":
		value, err := d.node(val)
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: value}, nil
	case "expr":
		expr, err := d.node(val)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: expr}, nil
	case "block":
		return d.block(val)
	case "binary", "fn", "call", "let":
		// the field mapping itself may be an alias
		fieldsNode, leave, err := d.enter(val)
		if err != nil {
			return nil, err
		}
		defer leave()
		return d.decodeCompound(key, fieldsNode)
	default:
		return nil, nodeErrorf(n.Content[0], "unknown node %q", key)
	}
}

func (d *nodeDecoder) decodeCompound(key string, val *yaml.Node) (ast.Node, error) {
	switch key {
	case "binary":
		fields, err := mappingFields(val, "op", "left", "right")
		if err != nil {
			return nil, err
		}
		op, err := decodeName(fields["op"], "binary.op")
		if err != nil {
			return nil, err
		}
		left, err := d.required(val, fields, "left")
		if err != nil {
			return nil, err
		}
		right, err := d.required(val, fields, "right")
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOp{Op: op, Left: left, Right: right}, nil
	case "fn":
		fields, err := mappingFields(val, "params", "body")
		if err != nil {
			return nil, err
		}
		var params []string
		if p := fields["params"]; p != nil {
			if err := p.Decode(&params); err != nil {
				return nil, nodeErrorf(p, "fn.params: %v", err)
			}
		}
		body := fields["body"]
		if body == nil {
			return nil, nodeErrorf(val, "fn.body must be provided")
		}
		block, err := d.block(body)
		if err != nil {
			return nil, err
		}
		return &ast.FunctionLiteral{Params: params, Body: block}, nil
	case "call":
		fields, err := mappingFields(val, "callee", "args")
		if err != nil {
			return nil, err
		}
		callee, err := d.required(val, fields, "callee")
		if err != nil {
			return nil, err
		}
		var args []ast.Node
		if a := fields["args"]; a != nil {
			args, err = d.sequence(a)
			if err != nil {
				return nil, err
			}
		}
		return &ast.Call{Callee: callee, Args: args}, nil
	default: // let
		fields, err := mappingFields(val, "name", "value")
		if err != nil {
			return nil, err
		}
		name, err := decodeName(fields["name"], "let.name")
		if err != nil {
			return nil, err
		}
		value, err := d.required(val, fields, "value")
		if err != nil {
			return nil, err
		}
		return &ast.Let{Name: name, Value: value}, nil
	}
}

func (d *nodeDecoder) block(n *yaml.Node) (*ast.Block, error) {
	stmts, err := d.sequence(n)
	if err != nil {
		return nil, err
	}
	return &ast.Block{Stmts: stmts}, nil
}

func (d *nodeDecoder) sequence(n *yaml.Node) ([]ast.Node, error) {
	target, leave, err := d.enter(n)
	if err != nil {
		return nil, err
	}
	defer leave()
	if cached, ok := d.seqs[target]; ok {
		return cached, nil
	}

	if target.Kind != yaml.SequenceNode {
		return nil, nodeErrorf(target, "expected a sequence of nodes")
	}
	nodes := make([]ast.Node, 0, len(target.Content))
	for _, item := range target.Content {
		node, err := d.node(item)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	if target.Anchor != "" {
		d.seqs[target] = nodes
	}
	return nodes, nil
}

func (d *nodeDecoder) required(parent *yaml.Node, fields map[string]*yaml.Node, key string) (ast.Node, error) {
	n := fields[key]
	if n == nil {
		return nil, nodeErrorf(parent, "%s must be provided", key)
	}
	return d.node(n)
}

// mappingFields indexes the values of mapping n by key, rejecting keys not in allowed.
func mappingFields(n *yaml.Node, allowed ...string) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nodeErrorf(n, "expected a mapping with keys %s", strings.Join(allowed, ", "))
	}
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if !slices.Contains(allowed, key.Value) {
			return nil, nodeErrorf(key, "unknown field %q", key.Value)
		}
		if _, dup := fields[key.Value]; dup {
			return nil, nodeErrorf(key, "duplicate field %q", key.Value)
		}
		fields[key.Value] = n.Content[i+1]
	}
	return fields, nil
}

func decodeName(n *yaml.Node, field string) (string, error) {
	if n == nil {
		return "", fmt.Errorf("%s must be provided", field)
	}
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode || n.Value == "" {
		return "", nodeErrorf(n, "%s must be a non-empty string", field)
	}
	return n.Value, nil
}

func nodeErrorf(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d, column %d: %s", n.Line, n.Column, fmt.Sprintf(format, args...))
}
