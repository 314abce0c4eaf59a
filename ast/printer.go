package ast

import (
	"bytes"
	"strconv"
	"strings"
)

func (n *NumberLiteral) String() string { return strconv.FormatInt(n.Value, 10) }

func (n *Identifier) String() string { return n.Name }

func (n *PrefixOp) String() string {
	return "(" + n.Op + nodeString(n.Right) + ")"
}

func (n *BinaryOp) String() string {
	return "(" + nodeString(n.Left) + " " + n.Op + " " + nodeString(n.Right) + ")"
}

func (n *FunctionLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("fn(")
	out.WriteString(strings.Join(n.Params, ", "))
	out.WriteString(") ")
	if n.Body == nil {
		out.WriteString("{ }")
	} else {
		out.WriteString(n.Body.String())
	}
	return out.String()
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = nodeString(a)
	}
	callee := nodeString(n.Callee)
	// an immediately-invoked literal reads better parenthesized
	if _, ok := n.Callee.(*FunctionLiteral); ok {
		callee = "(" + callee + ")"
	}
	return callee + "(" + strings.Join(args, ", ") + ")"
}

func (n *Let) String() string {
	return "let " + n.Name + " = " + nodeString(n.Value) + ";"
}

func (n *Return) String() string {
	return "return " + nodeString(n.Value) + ";"
}

func (n *ExprStmt) String() string {
	return nodeString(n.Expr) + ";"
}

func (n *Block) String() string {
	if len(n.Stmts) == 0 {
		return "{ }"
	}
	stmts := make([]string, len(n.Stmts))
	for i, s := range n.Stmts {
		stmts[i] = nodeString(s)
	}
	return "{ " + strings.Join(stmts, " ") + " }"
}

// nodeString guards against nil children in hand-built trees.
func nodeString(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}
