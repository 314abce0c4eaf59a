// Package ast defines the syntax tree consumed by the evaluator.
//
// The set of node kinds is closed: Node can only be implemented inside this
// package, so a type switch over the kinds below is exhaustive.
package ast

// Node is a syntax tree node. Nodes are immutable once built and may be
// shared between evaluations.
type Node interface {
	// String renders the node as source-like text.
	String() string
	node()
}

// NumberLiteral is an integer literal such as `3`.
type NumberLiteral struct {
	Value int64
}

// Identifier is a reference to a bound name.
type Identifier struct {
	Name string
}

// PrefixOp is a unary operator application, e.g. `-x`.
type PrefixOp struct {
	Op    string
	Right Node
}

// BinaryOp is an infix arithmetic operation, e.g. `x + y`.
type BinaryOp struct {
	Op    string
	Left  Node
	Right Node
}

// FunctionLiteral is `fn(params) { body }`.
type FunctionLiteral struct {
	Params []string
	Body   *Block
}

// Call applies Callee to Args.
type Call struct {
	Callee Node
	Args   []Node
}

// Let is `let Name = Value;`. It binds in the scope it is evaluated in.
type Let struct {
	Name  string
	Value Node
}

// Return is `return Value;`.
type Return struct {
	Value Node
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Expr Node
}

// Block is a sequence of statements. A program is a Block, and so is the
// body of every function literal.
type Block struct {
	Stmts []Node
}

func (*NumberLiteral) node()   {}
func (*Identifier) node()      {}
func (*PrefixOp) node()        {}
func (*BinaryOp) node()        {}
func (*FunctionLiteral) node() {}
func (*Call) node()            {}
func (*Let) node()             {}
func (*Return) node()          {}
func (*ExprStmt) node()        {}
func (*Block) node()           {}

// Operators understood by the evaluator.
const (
	OpAdd = "+"
	OpSub = "-"
	OpMul = "*"
	OpDiv = "/"
)
