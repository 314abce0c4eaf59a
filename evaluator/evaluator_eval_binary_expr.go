package evaluator

import (
	"context"

	"github.com/podhmo/scopeval/ast"
	"github.com/podhmo/scopeval/object"
)

func (e *Evaluator) evalBinaryOp(ctx context.Context, node *ast.BinaryOp, env *object.Environment) object.Object {
	if node == nil {
		return e.newError(ctx, object.MALFORMED_NODE, "nil binary operation")
	}
	// both operands are always evaluated, left first
	left := e.evalExpr(ctx, node.Left, env)
	if isError(left) {
		return left
	}
	right := e.evalExpr(ctx, node.Right, env)
	if isError(right) {
		return right
	}

	switch node.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
	default:
		err := e.newError(ctx, object.UNKNOWN_OPERATOR, "unknown operator: %s %s %s", left.Type(), node.Op, right.Type())
		err.Operator = node.Op
		return err
	}

	l, ok := left.(*object.Number)
	if !ok {
		return e.typeMismatch(ctx, node.Op, left)
	}
	r, ok := right.(*object.Number)
	if !ok {
		return e.typeMismatch(ctx, node.Op, right)
	}
	return e.evalNumberInfixExpression(ctx, node.Op, l.Value, r.Value)
}

func (e *Evaluator) evalNumberInfixExpression(ctx context.Context, operator string, leftVal, rightVal int64) object.Object {
	switch operator {
	case ast.OpAdd:
		return &object.Number{Value: leftVal + rightVal}
	case ast.OpSub:
		return &object.Number{Value: leftVal - rightVal}
	case ast.OpMul:
		return &object.Number{Value: leftVal * rightVal}
	case ast.OpDiv:
		if rightVal == 0 {
			return e.newError(ctx, object.DIVISION_BY_ZERO, "division by zero")
		}
		return &object.Number{Value: leftVal / rightVal}
	default:
		err := e.newError(ctx, object.UNKNOWN_OPERATOR, "unknown integer operator: %s", operator)
		err.Operator = operator
		return err
	}
}

func (e *Evaluator) evalPrefixOp(ctx context.Context, node *ast.PrefixOp, env *object.Environment) object.Object {
	if node == nil {
		return e.newError(ctx, object.MALFORMED_NODE, "nil prefix operation")
	}
	right := e.evalExpr(ctx, node.Right, env)
	if isError(right) {
		return right
	}
	if node.Op != ast.OpSub {
		err := e.newError(ctx, object.UNKNOWN_OPERATOR, "unknown operator: %s%s", node.Op, right.Type())
		err.Operator = node.Op
		return err
	}
	num, ok := right.(*object.Number)
	if !ok {
		return e.typeMismatch(ctx, node.Op, right)
	}
	return &object.Number{Value: -num.Value}
}

func (e *Evaluator) typeMismatch(ctx context.Context, operator string, operand object.Object) *object.Error {
	err := e.newError(ctx, object.TYPE_MISMATCH, "type mismatch: operand of %s is %s, want %s", operator, operand.Type(), object.NUMBER_OBJ)
	err.Operator = operator
	err.Value = operand
	return err
}
