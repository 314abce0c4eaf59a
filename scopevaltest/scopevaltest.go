// Package scopevaltest provides helpers for testing code built on scopeval:
// assertions on evaluation results, small AST constructors and a test logger.
package scopevaltest

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/podhmo/scopeval/ast"
)

// LogLevelEnv names the environment variable read by NewLogger.
const LogLevelEnv = "SCOPEVAL_LOG_LEVEL"

// NewLogger returns a text logger writing to w at the level named by
// SCOPEVAL_LOG_LEVEL (debug, info, warn, error). When the variable is unset
// the logger discards everything.
func NewLogger(w io.Writer) *slog.Logger {
	level, ok := parseLevel(os.Getenv(LogLevelEnv))
	if !ok {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

// Num builds a number literal.
func Num(v int64) *ast.NumberLiteral { return &ast.NumberLiteral{Value: v} }

// Ident builds an identifier.
func Ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

// Bin builds a binary operation.
func Bin(op string, left, right ast.Node) *ast.BinaryOp {
	return &ast.BinaryOp{Op: op, Left: left, Right: right}
}

// Neg builds a unary minus.
func Neg(right ast.Node) *ast.PrefixOp { return &ast.PrefixOp{Op: ast.OpSub, Right: right} }

// Fn builds a function literal.
func Fn(params []string, body ...ast.Node) *ast.FunctionLiteral {
	return &ast.FunctionLiteral{Params: params, Body: &ast.Block{Stmts: body}}
}

// Call builds a call.
func Call(callee ast.Node, args ...ast.Node) *ast.Call {
	return &ast.Call{Callee: callee, Args: args}
}

// Let builds a let statement.
func Let(name string, value ast.Node) *ast.Let { return &ast.Let{Name: name, Value: value} }

// Return builds a return statement.
func Return(value ast.Node) *ast.Return { return &ast.Return{Value: value} }

// Expr builds an expression statement.
func Expr(expr ast.Node) *ast.ExprStmt { return &ast.ExprStmt{Expr: expr} }

// Program builds a block from statements.
func Program(stmts ...ast.Node) *ast.Block { return &ast.Block{Stmts: stmts} }
