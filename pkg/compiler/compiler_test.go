package compiler

import (
	"testing"

	"gos/internal/config"
	"gos/pkg/ast"
	"gos/pkg/bytecode"
	"gos/pkg/lexer"
	"gos/pkg/parser"
)

func compileSrc(t *testing.T, src string, opts config.Options) *bytecode.Chunk {
	t.Helper()
	toks, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("Lex error: %v", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	chunk, err := Compile(prog, opts)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	return chunk
}

func TestVarDeclEmitsStoreThenPop(t *testing.T) {
	chunk := compileSrc(t, `let x = 1`, config.Default())
	ops := opsOf(chunk)
	want := []bytecode.Op{bytecode.OpLoadConst, bytecode.OpStoreVar, bytecode.OpPop, bytecode.OpHalt}
	assertOps(t, ops, want)
}

func TestDuplicateDeclarationInSameScopeIsAnError(t *testing.T) {
	prog := progOf(t, `let x = 1 let x = 2`)
	if _, err := Compile(prog, config.Default()); err == nil {
		t.Fatal("expected a compile error for redeclaring x in the same scope")
	}
}

func TestUndefinedVariableIsAnError(t *testing.T) {
	prog := progOf(t, `out y`)
	if _, err := Compile(prog, config.Default()); err == nil {
		t.Fatal("expected a compile error for referencing an undefined variable")
	}
}

func TestSlotReuseAcrossSiblingScopes(t *testing.T) {
	// Two disjoint blocks each declaring one variable should reuse slot 0,
	// since exitScope() returns the slot cursor to where it was.
	chunk := compileSrc(t, `{ let a = 1 } { let b = 2 }`, config.Default())
	if chunk.MaxSlot != 1 {
		t.Errorf("MaxSlot = %d; want 1 (sibling scopes reuse slots)", chunk.MaxSlot)
	}
}

func TestUnresolvedGotoIsAnError(t *testing.T) {
	prog := progOf(t, `goto nowhere`)
	if _, err := Compile(prog, config.Default()); err == nil {
		t.Fatal("expected a compile error for a goto with no matching label")
	}
}

func TestForwardGotoBackpatchesJumpTarget(t *testing.T) {
	chunk := compileSrc(t, `goto skip out 1 skip: out 2`, config.Default())
	// The JUMP emitted for the forward goto must have been patched to a
	// real address, not left at the placeholder 0 (which would jump to
	// the very first byte of the program).
	if chunk.Code[0] != byte(bytecode.OpJump) {
		t.Fatalf("first opcode = %v; want OpJump", bytecode.Op(chunk.Code[0]))
	}
	target := chunk.ReadU16(1)
	if target == 0 {
		t.Error("forward goto target was never backpatched")
	}
}

func TestEvalRejectedWhenDisabled(t *testing.T) {
	prog := progOf(t, `eval "1"`)
	opts := config.Default()
	opts.EnableEval = false
	if _, err := Compile(prog, opts); err == nil {
		t.Fatal("expected eval to be rejected when EnableEval is false")
	}
}

func TestFunctionCallArgCountMismatch(t *testing.T) {
	prog := progOf(t, `fun add(a b) { return a + b } out add(1)`)
	if _, err := Compile(prog, config.Default()); err == nil {
		t.Fatal("expected an argument-count-mismatch error")
	}
}

func TestCompileLinePersistsVariablesAcrossCalls(t *testing.T) {
	c := New(config.Default())

	if _, err := c.CompileLine(progOf(t, `let x = 1`)); err != nil {
		t.Fatalf("first CompileLine error: %v", err)
	}
	start, err := c.CompileLine(progOf(t, `out x`))
	if err != nil {
		t.Fatalf("second CompileLine error: %v", err)
	}

	chunk := c.Chunk()
	if start == 0 {
		t.Error("second line's start offset should be past the first line's code")
	}
	if bytecode.Op(chunk.Code[start]) != bytecode.OpLoadVar {
		t.Errorf("second line's first opcode = %v; want OpLoadVar (x resolved from the first line's scope)", bytecode.Op(chunk.Code[start]))
	}
}

func TestCompileLineEachCallAppendsItsOwnHalt(t *testing.T) {
	c := New(config.Default())

	if _, err := c.CompileLine(progOf(t, `let x = 1`)); err != nil {
		t.Fatalf("CompileLine error: %v", err)
	}
	chunk := c.Chunk()
	if bytecode.Op(chunk.Code[len(chunk.Code)-1]) != bytecode.OpHalt {
		t.Fatalf("last opcode after one line = %v; want OpHalt", bytecode.Op(chunk.Code[len(chunk.Code)-1]))
	}
}

func progOf(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("Lex error: %v", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return prog
}

func opsOf(chunk *bytecode.Chunk) []bytecode.Op {
	var ops []bytecode.Op
	i := 0
	for i < len(chunk.Code) {
		op := bytecode.Op(chunk.Code[i])
		ops = append(ops, op)
		i++
		switch op {
		case bytecode.OpLoadConst, bytecode.OpLoadVar, bytecode.OpStoreVar, bytecode.OpIn:
			i++
		case bytecode.OpJump, bytecode.OpJumpIfFalse:
			i += 2
		case bytecode.OpCall:
			i += 3
		}
	}
	return ops
}

func assertOps(t *testing.T, got, want []bytecode.Op) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("ops = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ops[%d] = %v; want %v", i, got[i], want[i])
		}
	}
}
