package vm

import (
	"gos/pkg/compiler"
	"gos/pkg/lexer"
	"gos/pkg/optimizer"
	"gos/pkg/parser"
	"gos/pkg/token"
)

// evalString implements the EVAL opcode's host-level escape hatch: the
// popped string is run through the full front end and a fresh, isolated
// VM sharing this VM's I/O streams and Options. The result is whatever the
// nested program left on top of its stack when it halted, or unit if it
// left nothing. EVAL is only reachable when Options.EnableEval was set at
// compile time (see compiler.compileNode's *ast.Eval case).
func (v *VM) evalString(src string) (token.PrimValue, error) {
	toks, err := lexer.Lex(src)
	if err != nil {
		return token.Unit(), err
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		return token.Unit(), err
	}
	prog = optimizer.Optimize(prog)
	chunk, err := compiler.Compile(prog, v.opts)
	if err != nil {
		return token.Unit(), err
	}

	nested := New(chunk, v.opts, v.out, v.in)
	if err := nested.Run(); err != nil {
		return token.Unit(), err
	}
	if len(nested.stack) == 0 {
		return token.Unit(), nil
	}
	return nested.stack[len(nested.stack)-1], nil
}
