package parser

import (
	"testing"

	"gos/pkg/ast"
	"gos/pkg/lexer"
)

func parseSrc(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q) error: %v", src, err)
	}
	prog, err := Parse(toks)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return prog
}

func TestParseVarDecl(t *testing.T) {
	prog := parseSrc(t, "let x = 1 + 2")
	if len(prog.Body) != 1 {
		t.Fatalf("Body has %d nodes; want 1", len(prog.Body))
	}
	decl, ok := prog.Body[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("Body[0] = %T; want *ast.VarDecl", prog.Body[0])
	}
	if decl.Name != "x" {
		t.Errorf("decl.Name = %q; want %q", decl.Name, "x")
	}
	bin, ok := decl.Value.(*ast.BinOp)
	if !ok || bin.Op != ast.BinAdd {
		t.Fatalf("decl.Value = %#v; want BinAdd BinOp", decl.Value)
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	prog := parseSrc(t, "let x = 1 + 2 * 3")
	decl := prog.Body[0].(*ast.VarDecl)
	top, ok := decl.Value.(*ast.BinOp)
	if !ok || top.Op != ast.BinAdd {
		t.Fatalf("top-level op = %#v; want BinAdd at the top (lowest precedence binds last)", decl.Value)
	}
	right, ok := top.Right.(*ast.BinOp)
	if !ok || right.Op != ast.BinMul {
		t.Fatalf("right operand = %#v; want BinMul", top.Right)
	}
}

func TestParseIfElse(t *testing.T) {
	prog := parseSrc(t, `if (1 == 1) { out "yes" } else { out "no" }`)
	ifn, ok := prog.Body[0].(*ast.If)
	if !ok {
		t.Fatalf("Body[0] = %T; want *ast.If", prog.Body[0])
	}
	if ifn.Else == nil {
		t.Error("Else = nil; want non-nil else branch")
	}
}

func TestParseWhileLoop(t *testing.T) {
	prog := parseSrc(t, `let i = 0 while (i < 3) { i = i + 1 }`)
	if _, ok := prog.Body[1].(*ast.While); !ok {
		t.Fatalf("Body[1] = %T; want *ast.While", prog.Body[1])
	}
}

func TestParseFuncDeclAndCall(t *testing.T) {
	prog := parseSrc(t, `fun add(a b) { return a + b } let r = add(1 2)`)
	fn, ok := prog.Body[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("Body[0] = %T; want *ast.FuncDecl", prog.Body[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Errorf("fn = %+v; want name add with 2 params", fn)
	}

	decl := prog.Body[1].(*ast.VarDecl)
	call, ok := decl.Value.(*ast.FuncCall)
	if !ok || call.Name != "add" || len(call.Args) != 2 {
		t.Fatalf("call = %#v; want FuncCall(add, 2 args)", decl.Value)
	}
}

func TestParseGotoAndLabel(t *testing.T) {
	prog := parseSrc(t, `loop: goto loop`)
	if _, ok := prog.Body[0].(*ast.Label); !ok {
		t.Fatalf("Body[0] = %T; want *ast.Label", prog.Body[0])
	}
	if _, ok := prog.Body[1].(*ast.Goto); !ok {
		t.Fatalf("Body[1] = %T; want *ast.Goto", prog.Body[1])
	}
}

func TestParseIncDecRequiresVar(t *testing.T) {
	prog := parseSrc(t, "let x = 0 x++")
	un, ok := prog.Body[1].(*ast.UnaryOp)
	if !ok || un.Op != ast.UnaryInc {
		t.Fatalf("Body[1] = %#v; want UnaryInc UnaryOp", prog.Body[1])
	}
	if _, ok := un.Operand.(*ast.Var); !ok {
		t.Errorf("Operand = %T; want *ast.Var", un.Operand)
	}
}
