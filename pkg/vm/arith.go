package vm

import (
	"gos/internal/goserr"
	"gos/pkg/bytecode"
	"gos/pkg/token"
)

// binOp implements every two-operand opcode's runtime semantics. It mirrors
// optimizer/eval.go's constant-folding rules exactly, since folding a
// BinOp at compile time must be observably identical to executing its
// unfolded bytecode (see the constant-folding-equivalence property).
func binOp(op bytecode.Op, l, r token.PrimValue) (token.PrimValue, error) {
	switch op {
	case bytecode.OpAdd:
		if l.IsString() || r.IsString() {
			return token.Str(l.Text() + r.Text()), nil
		}
		if l.IsNumber() && r.IsNumber() {
			return token.Number(l.Number() + r.Number()), nil
		}
		return token.Unit(), typeErr("ADD", l, r)

	case bytecode.OpSub:
		if l.IsNumber() && r.IsNumber() {
			return token.Number(l.Number() - r.Number()), nil
		}
		return token.Unit(), typeErr("SUB", l, r)

	case bytecode.OpMul:
		if l.IsNumber() && r.IsNumber() {
			return token.Number(l.Number() * r.Number()), nil
		}
		return token.Unit(), typeErr("MUL", l, r)

	case bytecode.OpDiv:
		if !l.IsNumber() || !r.IsNumber() {
			return token.Unit(), typeErr("DIV", l, r)
		}
		if r.Number() == 0 {
			return token.Unit(), goserr.New(goserr.PhaseVM, 0, "division by zero")
		}
		return token.Number(l.Number() / r.Number()), nil

	case bytecode.OpEq:
		return token.Bool(l.Equal(r)), nil
	case bytecode.OpNe:
		return token.Bool(!l.Equal(r)), nil

	case bytecode.OpGt, bytecode.OpGe, bytecode.OpLt, bytecode.OpLe:
		return compareOp(op, l, r)

	case bytecode.OpLogAnd, bytecode.OpLogOr, bytecode.OpLogXor:
		return bitwiseOp(op, l, r)

	default:
		return token.Unit(), goserr.New(goserr.PhaseVM, 0, "not a binary opcode: %s", op)
	}
}

func compareOp(op bytecode.Op, l, r token.PrimValue) (token.PrimValue, error) {
	var cmp int
	switch {
	case l.IsNumber() && r.IsNumber():
		switch {
		case l.Number() < r.Number():
			cmp = -1
		case l.Number() > r.Number():
			cmp = 1
		}
	case l.IsString() && r.IsString():
		switch {
		case l.String() < r.String():
			cmp = -1
		case l.String() > r.String():
			cmp = 1
		}
	default:
		return token.Unit(), typeErr(op.String(), l, r)
	}

	switch op {
	case bytecode.OpGt:
		return token.Bool(cmp > 0), nil
	case bytecode.OpGe:
		return token.Bool(cmp >= 0), nil
	case bytecode.OpLt:
		return token.Bool(cmp < 0), nil
	default: // OpLe
		return token.Bool(cmp <= 0), nil
	}
}

// bitwiseOp dispatches on operand type: boolean operands get logical
// semantics (both operands have already been evaluated, so nothing is
// short-circuited), numeric operands get integer bitwise semantics. This
// single-opcode dual role is why the grammar's &&/& and ||/| pairs compile
// to the same LOG_AND/LOG_OR instruction (see compiler/emit.go's binOpcode).
func bitwiseOp(op bytecode.Op, l, r token.PrimValue) (token.PrimValue, error) {
	if l.IsBool() && r.IsBool() {
		switch op {
		case bytecode.OpLogAnd:
			return token.Bool(l.Bool() && r.Bool()), nil
		case bytecode.OpLogOr:
			return token.Bool(l.Bool() || r.Bool()), nil
		default:
			return token.Bool(l.Bool() != r.Bool()), nil
		}
	}
	if l.IsNumber() && r.IsNumber() {
		li, ri := int64(l.Number()), int64(r.Number())
		switch op {
		case bytecode.OpLogAnd:
			return token.Number(float64(li & ri)), nil
		case bytecode.OpLogOr:
			return token.Number(float64(li | ri)), nil
		default:
			return token.Number(float64(li ^ ri)), nil
		}
	}
	return token.Unit(), typeErr(op.String(), l, r)
}

func typeErr(op string, l, r token.PrimValue) error {
	return goserr.New(goserr.PhaseVM, 0, "%s: incompatible operand types %s and %s", op, l.TypeName(), r.TypeName())
}
