package scopevaltest

import "github.com/podhmo/scopeval/ast"

// ComplexInner is the body shared by the complex programs:
//
//	fn(y) {
//	    let z = fn(w) { return x + y + w; }(fn(v) { return v * x; }(y));
//	    return z / (x - y);
//	}
func ComplexInner() *ast.FunctionLiteral {
	return Fn([]string{"y"},
		Let("z", Call(
			Fn([]string{"w"}, Return(Bin(ast.OpAdd, Bin(ast.OpAdd, Ident("x"), Ident("y")), Ident("w")))),
			Call(Fn([]string{"v"}, Return(Bin(ast.OpMul, Ident("v"), Ident("x")))), Ident("y")),
		)),
		Return(Bin(ast.OpDiv, Ident("z"), Bin(ast.OpSub, Ident("x"), Ident("y")))),
	)
}

// LetComplex binds complex, which invokes the inner function immediately
// with x * 2:
//
//	let complex = fn(x) { return fn(y) { ... }(x * 2); };
func LetComplex() *ast.Let {
	return Let("complex", Fn([]string{"x"},
		Return(Call(ComplexInner(), Bin(ast.OpMul, Ident("x"), Num(2)))),
	))
}

// LetComplexCurried binds complex, which returns the inner function uncalled:
//
//	let complex = fn(x) { return fn(y) { ... }; };
func LetComplexCurried() *ast.Let {
	return Let("complex", Fn([]string{"x"}, Return(ComplexInner())))
}

// ApplyComplex is `complex(args[0])(args[1])...`.
func ApplyComplex(args ...int64) ast.Node {
	var callee ast.Node = Ident("complex")
	for _, a := range args {
		callee = Call(callee, Num(a))
	}
	return callee
}
