// Package optimizer performs pure AST-to-AST rewrites: constant folding,
// dead-branch elimination, and dead-function elimination.
package optimizer

import "gos/pkg/ast"

// Optimize returns a rewritten copy of prog with constant folding,
// dead-branch elimination, and dead-function elimination applied.
func Optimize(prog *ast.Program) *ast.Program {
	body := make([]ast.Node, len(prog.Body))
	for i, n := range prog.Body {
		body[i] = foldNode(n)
	}
	body = eliminateDeadFunctions(body)
	return &ast.Program{Body: body}
}

// foldNode dispatches constant folding and dead-branch elimination over
// any Node, recursing into children first so folding is bottom-up.
func foldNode(n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.Val:
		return v
	case *ast.Var:
		return v
	case *ast.VarDecl:
		v.Value = foldExpr(v.Value)
		return v
	case *ast.VarMod:
		v.Value = foldExpr(v.Value)
		return v
	case *ast.BinOp:
		return foldBinOp(v)
	case *ast.UnaryOp:
		return foldUnaryOp(v)
	case *ast.Out:
		v.Value = foldExpr(v.Value)
		return v
	case *ast.In:
		return v
	case *ast.If:
		return foldIf(v)
	case *ast.While:
		return foldWhile(v)
	case *ast.Stmt:
		for i, e := range v.Body {
			v.Body[i] = foldExpr(e)
		}
		return v
	case *ast.FuncDecl:
		v.Body = foldExpr(v.Body)
		return v
	case *ast.FuncCall:
		for i, a := range v.Args {
			v.Args[i] = foldExpr(a)
		}
		return v
	case *ast.Return:
		if v.Value != nil {
			v.Value = foldExpr(v.Value)
		}
		return v
	case *ast.Exit:
		v.Status = foldExpr(v.Status)
		return v
	case *ast.Eval:
		v.Code = foldExpr(v.Code)
		return v
	case *ast.Label, *ast.Goto, *ast.Del:
		return v
	default:
		return v
	}
}

func foldExpr(e ast.Expr) ast.Expr {
	return foldNode(e).(ast.Expr)
}

func foldBinOp(b *ast.BinOp) ast.Expr {
	b.Left = foldExpr(b.Left)
	b.Right = foldExpr(b.Right)

	lv, lok := b.Left.(*ast.Val)
	rv, rok := b.Right.(*ast.Val)
	if !lok || !rok {
		return b
	}
	folded, ok := evalBinOp(b.Op, lv.Value, rv.Value)
	if !ok {
		return b
	}
	return &ast.Val{Value: folded, Line: b.Line}
}

func foldUnaryOp(u *ast.UnaryOp) ast.Expr {
	// INC/DEC operate on a live variable slot; they are never foldable.
	if u.Op == ast.UnaryInc || u.Op == ast.UnaryDec {
		return u
	}
	u.Operand = foldExpr(u.Operand)
	val, ok := u.Operand.(*ast.Val)
	if !ok {
		return u
	}
	folded, ok := evalUnaryOp(u.Op, val.Value)
	if !ok {
		return u
	}
	return &ast.Val{Value: folded, Line: u.Line}
}

func foldIf(n *ast.If) ast.Expr {
	n.Cond = foldExpr(n.Cond)
	n.Body = foldExpr(n.Body)
	if n.Else != nil {
		n.Else = foldExpr(n.Else)
	}
	val, ok := n.Cond.(*ast.Val)
	if !ok {
		return n
	}
	if val.Value.Truthy() {
		return n.Body
	}
	if n.Else != nil {
		return n.Else
	}
	return &ast.Stmt{Line: n.Line}
}

func foldWhile(n *ast.While) ast.Node {
	n.Cond = foldExpr(n.Cond)
	val, ok := n.Cond.(*ast.Val)
	if ok && !val.Value.Truthy() {
		return &ast.Stmt{Line: n.Line}
	}
	n.Body = foldExpr(n.Body)
	return n
}
