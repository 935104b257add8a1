package compiler

import (
	"gos/internal/goserr"
	"gos/pkg/ast"
	"gos/pkg/bytecode"
)

func binOpcode(k ast.BinOpKind) (bytecode.Op, bool) {
	switch k {
	case ast.BinAdd:
		return bytecode.OpAdd, true
	case ast.BinSub:
		return bytecode.OpSub, true
	case ast.BinMul:
		return bytecode.OpMul, true
	case ast.BinDiv:
		return bytecode.OpDiv, true
	case ast.BinEq:
		return bytecode.OpEq, true
	case ast.BinNe:
		return bytecode.OpNe, true
	case ast.BinGt:
		return bytecode.OpGt, true
	case ast.BinGe:
		return bytecode.OpGe, true
	case ast.BinLt:
		return bytecode.OpLt, true
	case ast.BinLe:
		return bytecode.OpLe, true
	// && and & share LOG_AND; the VM dispatches on operand type the same
	// way the optimizer's constant folder does (see optimizer/eval.go's
	// evalBitwise). Likewise ||/| share LOG_OR. ^ has no logical form.
	case ast.BinAndLogical, ast.BinAnd:
		return bytecode.OpLogAnd, true
	case ast.BinOrLogical, ast.BinOr:
		return bytecode.OpLogOr, true
	case ast.BinXor:
		return bytecode.OpLogXor, true
	default:
		return 0, false
	}
}

func (c *Compiler) compileBinOp(n *ast.BinOp) (bool, error) {
	if err := c.compileValue(n.Left); err != nil {
		return false, err
	}
	if err := c.compileValue(n.Right); err != nil {
		return false, err
	}
	op, ok := binOpcode(n.Op)
	if !ok {
		return false, goserr.New(goserr.PhaseCompiler, n.Line, "unsupported binary operator %s", n.Op)
	}
	c.chunk.Emit(op)
	return true, nil
}

func (c *Compiler) compileUnaryOp(n *ast.UnaryOp) (bool, error) {
	switch n.Op {
	case ast.UnaryNeg:
		if err := c.compileValue(n.Operand); err != nil {
			return false, err
		}
		c.chunk.Emit(bytecode.OpNeg)
		return true, nil
	case ast.UnaryPos:
		if err := c.compileValue(n.Operand); err != nil {
			return false, err
		}
		c.chunk.Emit(bytecode.OpPos)
		return true, nil
	case ast.UnaryLogNot:
		if err := c.compileValue(n.Operand); err != nil {
			return false, err
		}
		c.chunk.Emit(bytecode.OpLogNot)
		return true, nil
	case ast.UnaryInc, ast.UnaryDec:
		return c.compileIncDec(n)
	default:
		return false, goserr.New(goserr.PhaseCompiler, n.Line, "unsupported unary operator")
	}
}

// compileIncDec handles ++x/--x. The operand must be a bare variable
// reference; the new value is stored back and also left on the stack, so
// `let y = x++` and a bare `x++` statement both work from the same code.
func (c *Compiler) compileIncDec(n *ast.UnaryOp) (bool, error) {
	v, ok := n.Operand.(*ast.Var)
	if !ok {
		return false, goserr.New(goserr.PhaseCompiler, n.Line, "++/-- requires a variable operand")
	}
	slot, ok := c.resolveVar(v.Name)
	if !ok {
		return false, goserr.New(goserr.PhaseCompiler, n.Line, "undefined variable %q", v.Name)
	}
	c.chunk.Emit(bytecode.OpLoadVar)
	c.chunk.EmitByte(byte(slot))
	if n.Op == ast.UnaryInc {
		c.chunk.Emit(bytecode.OpInc)
	} else {
		c.chunk.Emit(bytecode.OpDec)
	}
	c.chunk.Emit(bytecode.OpStoreVar)
	c.chunk.EmitByte(byte(slot))
	return true, nil
}

// compileIf always leaves exactly one value on the stack: the taken
// branch's value, or unit when the condition is false and there is no
// else clause.
func (c *Compiler) compileIf(n *ast.If) (bool, error) {
	if err := c.compileValue(n.Cond); err != nil {
		return false, err
	}

	c.chunk.Emit(bytecode.OpJumpIfFalse)
	elsePos := len(c.chunk.Code)
	c.chunk.EmitU16(0)

	if err := c.compileValue(n.Body); err != nil {
		return false, err
	}

	hasElse := n.Else != nil
	var endPos int
	if hasElse {
		c.chunk.Emit(bytecode.OpJump)
		endPos = len(c.chunk.Code)
		c.chunk.EmitU16(0)
	}

	c.chunk.PatchU16(elsePos, uint16(len(c.chunk.Code)))

	if hasElse {
		if err := c.compileValue(n.Else); err != nil {
			return false, err
		}
		c.chunk.PatchU16(endPos, uint16(len(c.chunk.Code)))
	} else {
		c.pushUnit()
	}

	return true, nil
}

// compileWhile never leaves a value on the stack; a body that produces one
// is popped after each iteration so the stack depth is unchanged across
// iterations, per the loop's stack-invariance requirement.
func (c *Compiler) compileWhile(n *ast.While) (bool, error) {
	condAddr := len(c.chunk.Code)
	if err := c.compileValue(n.Cond); err != nil {
		return false, err
	}

	c.chunk.Emit(bytecode.OpJumpIfFalse)
	exitPos := len(c.chunk.Code)
	c.chunk.EmitU16(0)

	produced, err := c.compileNode(n.Body)
	if err != nil {
		return false, err
	}
	if produced {
		c.chunk.Emit(bytecode.OpPop)
	}

	c.chunk.Emit(bytecode.OpJump)
	c.chunk.EmitU16(uint16(condAddr))

	c.chunk.PatchU16(exitPos, uint16(len(c.chunk.Code)))
	return false, nil
}

// compileBlock compiles a brace-delimited body in its own scope. Every
// non-final element that produced a value is popped, since only the block's
// last element determines whether the block itself produced one — this is
// what keeps stack depth balanced across an arbitrary sequence of
// declarations and expression-statements.
func (c *Compiler) compileBlock(n *ast.Stmt) (bool, error) {
	c.enterScope()
	defer c.exitScope()

	if len(n.Body) == 0 {
		return false, nil
	}

	last := len(n.Body) - 1
	for i, e := range n.Body {
		produced, err := c.compileNode(e)
		if err != nil {
			return false, err
		}
		if i == last {
			return produced, nil
		}
		if produced {
			c.chunk.Emit(bytecode.OpPop)
		}
	}
	return false, nil
}

// compileFuncDecl emits a JUMP over the function body (so top-to-bottom
// execution skips it), registers the function in the enclosing scope's
// table before compiling its body so recursive calls resolve, and compiles
// the body in a fresh slot numbering starting at 0 — each call gets its own
// frame, so a function's slots never share numbering with its caller's.
func (c *Compiler) compileFuncDecl(n *ast.FuncDecl) error {
	top := c.funcs[len(c.funcs)-1]
	if _, exists := top[n.Name]; exists {
		return goserr.New(goserr.PhaseCompiler, n.Line, "function %q already declared in this scope", n.Name)
	}

	c.chunk.Emit(bytecode.OpJump)
	jumpPos := len(c.chunk.Code)
	c.chunk.EmitU16(0)

	top[n.Name] = funcInfo{Addr: len(c.chunk.Code), ParamCount: len(n.Params)}

	savedNextSlot := c.nextSlot
	c.nextSlot = 0
	c.enterScope()
	for _, p := range n.Params {
		if _, err := c.declareVar(p, n.Line); err != nil {
			return err
		}
	}

	produced, err := c.compileNode(n.Body)
	if err != nil {
		return err
	}
	if !produced {
		c.pushUnit()
	}
	c.chunk.Emit(bytecode.OpRet)

	c.exitScope()
	c.nextSlot = savedNextSlot

	c.chunk.PatchU16(jumpPos, uint16(len(c.chunk.Code)))
	return nil
}

func (c *Compiler) compileFuncCall(n *ast.FuncCall) (bool, error) {
	info, ok := c.resolveFunc(n.Name)
	if !ok {
		return false, goserr.New(goserr.PhaseCompiler, n.Line, "undefined function %q", n.Name)
	}
	if len(n.Args) != info.ParamCount {
		return false, goserr.New(goserr.PhaseCompiler, n.Line, "function %q expects %d argument(s), got %d", n.Name, info.ParamCount, len(n.Args))
	}
	for _, a := range n.Args {
		if err := c.compileValue(a); err != nil {
			return false, err
		}
	}
	c.chunk.Emit(bytecode.OpCall)
	c.chunk.EmitU16(uint16(info.Addr))
	c.chunk.EmitByte(byte(len(n.Args)))
	return true, nil
}
