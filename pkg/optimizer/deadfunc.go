package optimizer

import "gos/pkg/ast"

// eliminateDeadFunctions drops top-level FuncDecl nodes never reachable
// from a live FuncCall, grounded on smasonuk-sicpu's eliminateDeadFunctions
// worklist pattern. gos has no "main" convention, so every non-FuncDecl
// top-level node is treated as an implicit root.
func eliminateDeadFunctions(body []ast.Node) []ast.Node {
	funcs := make(map[string]*ast.FuncDecl)
	for _, n := range body {
		if f, ok := n.(*ast.FuncDecl); ok {
			funcs[f.Name] = f
		}
	}

	reachable := make(map[string]bool)
	var worklist []string
	addReachable := func(name string) {
		if !reachable[name] {
			reachable[name] = true
			worklist = append(worklist, name)
		}
	}

	for _, n := range body {
		if _, ok := n.(*ast.FuncDecl); ok {
			continue
		}
		calls := make(map[string]bool)
		findCallsNode(n, calls)
		for name := range calls {
			addReachable(name)
		}
	}

	for len(worklist) > 0 {
		name := worklist[0]
		worklist = worklist[1:]
		f, ok := funcs[name]
		if !ok {
			continue
		}
		calls := make(map[string]bool)
		findCallsNode(f.Body, calls)
		for callee := range calls {
			addReachable(callee)
		}
	}

	var out []ast.Node
	for _, n := range body {
		if f, ok := n.(*ast.FuncDecl); ok && !reachable[f.Name] {
			continue
		}
		out = append(out, n)
	}
	return out
}

// findCallsNode collects every function name invoked anywhere within n.
func findCallsNode(n ast.Node, calls map[string]bool) {
	if n == nil {
		return
	}
	switch v := n.(type) {
	case *ast.FuncCall:
		calls[v.Name] = true
		for _, arg := range v.Args {
			findCallsNode(arg, calls)
		}
	case *ast.BinOp:
		findCallsNode(v.Left, calls)
		findCallsNode(v.Right, calls)
	case *ast.UnaryOp:
		findCallsNode(v.Operand, calls)
	case *ast.VarDecl:
		findCallsNode(v.Value, calls)
	case *ast.VarMod:
		findCallsNode(v.Value, calls)
	case *ast.Out:
		findCallsNode(v.Value, calls)
	case *ast.If:
		findCallsNode(v.Cond, calls)
		findCallsNode(v.Body, calls)
		findCallsNode(v.Else, calls)
	case *ast.While:
		findCallsNode(v.Cond, calls)
		findCallsNode(v.Body, calls)
	case *ast.Stmt:
		for _, e := range v.Body {
			findCallsNode(e, calls)
		}
	case *ast.Return:
		findCallsNode(v.Value, calls)
	case *ast.Exit:
		findCallsNode(v.Status, calls)
	case *ast.Eval:
		findCallsNode(v.Code, calls)
	case *ast.FuncDecl:
		findCallsNode(v.Body, calls)
	case *ast.Val, *ast.Var, *ast.In, *ast.Label, *ast.Goto, *ast.Del:
		// no calls
	}
}
