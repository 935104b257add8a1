package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gos/pkg/ast"
)

func cmdAST(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s ast <file>", appName)
	}
	path := args[0]

	opts, err := loadOptions(path)
	if err != nil {
		return err
	}

	prog, err := frontEnd(path, opts)
	if err != nil {
		return err
	}

	for _, n := range prog.Body {
		printNode(os.Stdout, n, 0)
	}
	return nil
}

func printNode(w io.Writer, n ast.Node, depth int) {
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), describeNode(n))

	switch v := n.(type) {
	case *ast.VarDecl:
		printNode(w, v.Value, depth+1)
	case *ast.VarMod:
		printNode(w, v.Value, depth+1)
	case *ast.BinOp:
		printNode(w, v.Left, depth+1)
		printNode(w, v.Right, depth+1)
	case *ast.UnaryOp:
		printNode(w, v.Operand, depth+1)
	case *ast.Out:
		printNode(w, v.Value, depth+1)
	case *ast.If:
		printNode(w, v.Cond, depth+1)
		printNode(w, v.Body, depth+1)
		if v.Else != nil {
			printNode(w, v.Else, depth+1)
		}
	case *ast.While:
		printNode(w, v.Cond, depth+1)
		printNode(w, v.Body, depth+1)
	case *ast.Stmt:
		for _, e := range v.Body {
			printNode(w, e, depth+1)
		}
	case *ast.FuncDecl:
		printNode(w, v.Body, depth+1)
	case *ast.FuncCall:
		for _, a := range v.Args {
			printNode(w, a, depth+1)
		}
	case *ast.Return:
		if v.Value != nil {
			printNode(w, v.Value, depth+1)
		}
	case *ast.Exit:
		printNode(w, v.Status, depth+1)
	case *ast.Eval:
		printNode(w, v.Code, depth+1)
	}
}

func describeNode(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Val:
		return fmt.Sprintf("Val(%s)", v.Value.Text())
	case *ast.Var:
		return fmt.Sprintf("Var(%s)", v.Name)
	case *ast.VarDecl:
		return fmt.Sprintf("VarDecl(%s)", v.Name)
	case *ast.VarMod:
		return fmt.Sprintf("VarMod(%s)", v.Name)
	case *ast.BinOp:
		return fmt.Sprintf("BinOp(%s)", v.Op)
	case *ast.UnaryOp:
		return "UnaryOp"
	case *ast.Out:
		return "Out"
	case *ast.In:
		return fmt.Sprintf("In(%s)", v.Name)
	case *ast.If:
		return "If"
	case *ast.While:
		return "While"
	case *ast.Stmt:
		return "Stmt"
	case *ast.FuncDecl:
		return fmt.Sprintf("FuncDecl(%s, %v)", v.Name, v.Params)
	case *ast.FuncCall:
		return fmt.Sprintf("FuncCall(%s)", v.Name)
	case *ast.Return:
		return "Return"
	case *ast.Exit:
		return "Exit"
	case *ast.Eval:
		return "Eval"
	case *ast.Label:
		return fmt.Sprintf("Label(%s)", v.Name)
	case *ast.Goto:
		return fmt.Sprintf("Goto(%s)", v.Name)
	case *ast.Del:
		return fmt.Sprintf("Del(%s)", v.Name)
	default:
		return fmt.Sprintf("%T", n)
	}
}
