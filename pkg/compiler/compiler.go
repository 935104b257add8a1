// Package compiler lowers an optimized AST into a bytecode Chunk.
package compiler

import (
	"gos/internal/config"
	"gos/internal/goserr"
	"gos/pkg/ast"
	"gos/pkg/bytecode"
	"gos/pkg/token"
)

// Compiler holds all state for a single lowering pass: a stack of lexical
// scopes with a monotonically increasing slot cursor, a parallel stack of
// per-scope function tables, and a single flat label table shared by the
// whole program (labels are absolute code addresses, not scoped).
type Compiler struct {
	chunk *bytecode.Chunk

	scopes    []*scope
	funcs     []map[string]funcInfo
	nextSlot  int
	maxSlot   int
	labels    map[string]int
	pending   []pendingGoto

	opts config.Options
}

// New returns a Compiler ready to compile a single Program.
func New(opts config.Options) *Compiler {
	return &Compiler{
		chunk:  &bytecode.Chunk{},
		labels: make(map[string]int),
		opts:   opts,
	}
}

// Compile lowers prog into a Chunk, or returns the first Compiler-phase
// diagnostic encountered.
func Compile(prog *ast.Program, opts config.Options) (*bytecode.Chunk, error) {
	c := New(opts)
	return c.CompileProgram(prog)
}

// CompileProgram lowers prog top to bottom. Top-level statements are never
// followed by a cleanup POP, matching the language's convention that any
// leftover values on the stack are harmless until HALT.
func (c *Compiler) CompileProgram(prog *ast.Program) (*bytecode.Chunk, error) {
	c.enterScope()
	for _, n := range prog.Body {
		if _, err := c.compileNode(n); err != nil {
			return nil, err
		}
	}
	c.exitScope()
	c.chunk.Emit(bytecode.OpHalt)

	for _, g := range c.pending {
		addr, ok := c.labels[g.Name]
		if !ok {
			return nil, goserr.New(goserr.PhaseCompiler, g.Line, "unresolved label %q", g.Name)
		}
		c.chunk.PatchU16(g.Pos, uint16(addr))
	}

	c.chunk.MaxSlot = c.maxSlot
	return c.chunk, nil
}

// Chunk returns the Compiler's in-progress Chunk, letting a caller run
// freshly appended code (via CompileLine) on a VM built around the very
// same instance the Compiler keeps writing to.
func (c *Compiler) Chunk() *bytecode.Chunk {
	return c.chunk
}

// CompileLine lowers a single REPL-supplied Program onto the Compiler's
// already-open top-level scope and returns the code offset the caller
// should resume execution from. Unlike CompileProgram, the top-level scope
// is opened once (on the first call) and never closed, so slots declared
// by one line's VarDecl remain resolvable by name in every later call, and
// a HALT is appended after each line rather than only once at the very end.
func (c *Compiler) CompileLine(prog *ast.Program) (start int, err error) {
	if len(c.scopes) == 0 {
		c.enterScope()
	}

	start = len(c.chunk.Code)
	for _, n := range prog.Body {
		if _, err := c.compileNode(n); err != nil {
			return 0, err
		}
	}
	c.chunk.Emit(bytecode.OpHalt)

	remaining := c.pending[:0]
	for _, g := range c.pending {
		if addr, ok := c.labels[g.Name]; ok {
			c.chunk.PatchU16(g.Pos, uint16(addr))
		} else {
			remaining = append(remaining, g)
		}
	}
	c.pending = remaining

	c.chunk.MaxSlot = c.maxSlot
	return start, nil
}

func (c *Compiler) enterScope() {
	c.scopes = append(c.scopes, newScope())
	c.funcs = append(c.funcs, make(map[string]funcInfo))
}

func (c *Compiler) exitScope() {
	n := len(c.scopes)
	top := c.scopes[n-1]
	c.nextSlot -= top.slotCount
	c.scopes = c.scopes[:n-1]
	c.funcs = c.funcs[:n-1]
}

func (c *Compiler) declareVar(name string, line int) (int, error) {
	top := c.scopes[len(c.scopes)-1]
	if _, exists := top.vars[name]; exists {
		return 0, goserr.New(goserr.PhaseCompiler, line, "variable %q already declared in this scope", name)
	}
	slot := c.nextSlot
	c.nextSlot++
	if c.nextSlot > c.maxSlot {
		c.maxSlot = c.nextSlot
	}
	top.vars[name] = slot
	top.slotCount++
	return slot, nil
}

func (c *Compiler) resolveVar(name string) (int, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if slot, ok := c.scopes[i].vars[name]; ok {
			return slot, true
		}
	}
	return 0, false
}

func (c *Compiler) resolveFunc(name string) (funcInfo, bool) {
	for i := len(c.funcs) - 1; i >= 0; i-- {
		if f, ok := c.funcs[i][name]; ok {
			return f, true
		}
	}
	return funcInfo{}, false
}

// pushUnit emits a constant load for the unit value, used to normalize a
// statement-valued construct into a slot that requires exactly one value.
func (c *Compiler) pushUnit() {
	idx := c.chunk.AddConstant(token.Unit())
	c.chunk.Emit(bytecode.OpLoadConst)
	c.chunk.EmitByte(byte(idx))
}

// compileValue compiles e and guarantees exactly one value is left on the
// stack afterward, pushing a synthesized unit when e is statement-valued.
// This is used for every grammar position that requires a value: operands,
// call arguments, conditions, declaration right-hand sides.
func (c *Compiler) compileValue(e ast.Expr) error {
	produced, err := c.compileNode(e)
	if err != nil {
		return err
	}
	if !produced {
		c.pushUnit()
	}
	return nil
}

// compileNode lowers a single Node and reports whether it left a value on
// the operand stack (true) or was purely declarative/effectful (false).
func (c *Compiler) compileNode(n ast.Node) (bool, error) {
	switch v := n.(type) {
	case *ast.Val:
		idx := c.chunk.AddConstant(v.Value)
		c.chunk.Emit(bytecode.OpLoadConst)
		c.chunk.EmitByte(byte(idx))
		return true, nil

	case *ast.Var:
		slot, ok := c.resolveVar(v.Name)
		if !ok {
			return false, goserr.New(goserr.PhaseCompiler, v.Line, "undefined variable %q", v.Name)
		}
		c.chunk.Emit(bytecode.OpLoadVar)
		c.chunk.EmitByte(byte(slot))
		return true, nil

	case *ast.VarDecl:
		if err := c.compileValue(v.Value); err != nil {
			return false, err
		}
		slot, err := c.declareVar(v.Name, v.Line)
		if err != nil {
			return false, err
		}
		c.chunk.Emit(bytecode.OpStoreVar)
		c.chunk.EmitByte(byte(slot))
		c.chunk.Emit(bytecode.OpPop)
		return false, nil

	case *ast.VarMod:
		if err := c.compileValue(v.Value); err != nil {
			return false, err
		}
		slot, ok := c.resolveVar(v.Name)
		if !ok {
			return false, goserr.New(goserr.PhaseCompiler, v.Line, "undefined variable %q", v.Name)
		}
		c.chunk.Emit(bytecode.OpStoreVar)
		c.chunk.EmitByte(byte(slot))
		c.chunk.Emit(bytecode.OpPop)
		return false, nil

	case *ast.BinOp:
		return c.compileBinOp(v)

	case *ast.UnaryOp:
		return c.compileUnaryOp(v)

	case *ast.Out:
		if err := c.compileValue(v.Value); err != nil {
			return false, err
		}
		c.chunk.Emit(bytecode.OpOut)
		return false, nil

	case *ast.In:
		slot, err := c.declareVar(v.Name, v.Line)
		if err != nil {
			return false, err
		}
		c.chunk.Emit(bytecode.OpIn)
		c.chunk.EmitByte(byte(slot))
		return false, nil

	case *ast.If:
		return c.compileIf(v)

	case *ast.While:
		return c.compileWhile(v)

	case *ast.Stmt:
		return c.compileBlock(v)

	case *ast.FuncDecl:
		return false, c.compileFuncDecl(v)

	case *ast.FuncCall:
		return c.compileFuncCall(v)

	case *ast.Return:
		if v.Value != nil {
			if err := c.compileValue(v.Value); err != nil {
				return false, err
			}
		} else {
			c.pushUnit()
		}
		c.chunk.Emit(bytecode.OpRet)
		return false, nil

	case *ast.Exit:
		if err := c.compileValue(v.Status); err != nil {
			return false, err
		}
		c.chunk.Emit(bytecode.OpExit)
		return false, nil

	case *ast.Eval:
		if !c.opts.EnableEval {
			return false, goserr.New(goserr.PhaseCompiler, v.Line, "eval is disabled (enable_eval = false in gos.toml)")
		}
		if err := c.compileValue(v.Code); err != nil {
			return false, err
		}
		c.chunk.Emit(bytecode.OpEval)
		return true, nil

	case *ast.Label:
		c.labels[v.Name] = len(c.chunk.Code)
		return false, nil

	case *ast.Goto:
		if addr, ok := c.labels[v.Name]; ok {
			c.chunk.Emit(bytecode.OpJump)
			c.chunk.EmitU16(uint16(addr))
			return false, nil
		}
		c.chunk.Emit(bytecode.OpJump)
		pos := len(c.chunk.Code)
		c.chunk.EmitU16(0)
		c.pending = append(c.pending, pendingGoto{Pos: pos, Name: v.Name, Line: v.Line})
		return false, nil

	case *ast.Del:
		top := c.scopes[len(c.scopes)-1]
		delete(top.vars, v.Name)
		return false, nil

	default:
		return false, goserr.New(goserr.PhaseCompiler, 0, "unsupported AST node %T", n)
	}
}
