package optimizer

import "gos/pkg/ast"
import "gos/pkg/token"

// evalBinOp evaluates a binary operator over two constant operands using
// the same semantics the VM applies at runtime, so that folding is
// observably equivalent to executing the unfolded bytecode. It returns
// ok=false when folding must be skipped (e.g. division by zero, or a type
// combination the runtime itself would reject).
func evalBinOp(op ast.BinOpKind, l, r token.PrimValue) (token.PrimValue, bool) {
	switch op {
	case ast.BinAdd:
		if l.IsString() || r.IsString() {
			return token.Str(l.Text() + r.Text()), true
		}
		if l.IsNumber() && r.IsNumber() {
			return token.Number(l.Number() + r.Number()), true
		}
		return token.PrimValue{}, false
	case ast.BinSub:
		if l.IsNumber() && r.IsNumber() {
			return token.Number(l.Number() - r.Number()), true
		}
		return token.PrimValue{}, false
	case ast.BinMul:
		if l.IsNumber() && r.IsNumber() {
			return token.Number(l.Number() * r.Number()), true
		}
		return token.PrimValue{}, false
	case ast.BinDiv:
		if l.IsNumber() && r.IsNumber() {
			if r.Number() == 0 {
				return token.PrimValue{}, false
			}
			return token.Number(l.Number() / r.Number()), true
		}
		return token.PrimValue{}, false
	case ast.BinEq:
		return token.Bool(l.Equal(r)), true
	case ast.BinNe:
		return token.Bool(!l.Equal(r)), true
	case ast.BinGt, ast.BinGe, ast.BinLt, ast.BinLe:
		return evalOrdering(op, l, r)
	case ast.BinAndLogical:
		if l.IsBool() && r.IsBool() {
			return token.Bool(l.Bool() && r.Bool()), true
		}
		return token.PrimValue{}, false
	case ast.BinOrLogical:
		if l.IsBool() && r.IsBool() {
			return token.Bool(l.Bool() || r.Bool()), true
		}
		return token.PrimValue{}, false
	case ast.BinAnd:
		return evalBitwise(op, l, r)
	case ast.BinOr:
		return evalBitwise(op, l, r)
	case ast.BinXor:
		return evalBitwise(op, l, r)
	default:
		return token.PrimValue{}, false
	}
}

func evalOrdering(op ast.BinOpKind, l, r token.PrimValue) (token.PrimValue, bool) {
	var cmp int
	switch {
	case l.IsNumber() && r.IsNumber():
		switch {
		case l.Number() < r.Number():
			cmp = -1
		case l.Number() > r.Number():
			cmp = 1
		default:
			cmp = 0
		}
	case l.IsString() && r.IsString():
		switch {
		case l.String() < r.String():
			cmp = -1
		case l.String() > r.String():
			cmp = 1
		default:
			cmp = 0
		}
	default:
		return token.PrimValue{}, false
	}
	switch op {
	case ast.BinGt:
		return token.Bool(cmp > 0), true
	case ast.BinGe:
		return token.Bool(cmp >= 0), true
	case ast.BinLt:
		return token.Bool(cmp < 0), true
	case ast.BinLe:
		return token.Bool(cmp <= 0), true
	default:
		return token.PrimValue{}, false
	}
}

// evalBitwise applies LOG_AND/LOG_OR/LOG_XOR: bitwise over integer-valued
// numbers, matching the VM's dual-typed treatment of & | ^.
func evalBitwise(op ast.BinOpKind, l, r token.PrimValue) (token.PrimValue, bool) {
	if l.IsBool() && r.IsBool() {
		switch op {
		case ast.BinAnd:
			return token.Bool(l.Bool() && r.Bool()), true
		case ast.BinOr:
			return token.Bool(l.Bool() || r.Bool()), true
		case ast.BinXor:
			return token.Bool(l.Bool() != r.Bool()), true
		}
	}
	if l.IsNumber() && r.IsNumber() {
		li, ri := int64(l.Number()), int64(r.Number())
		switch op {
		case ast.BinAnd:
			return token.Number(float64(li & ri)), true
		case ast.BinOr:
			return token.Number(float64(li | ri)), true
		case ast.BinXor:
			return token.Number(float64(li ^ ri)), true
		}
	}
	return token.PrimValue{}, false
}

// evalUnaryOp evaluates NEG/LOG_NOT over a constant operand. Every other
// unary operator, POS included, is left unfolded.
func evalUnaryOp(op ast.UnaryOpKind, v token.PrimValue) (token.PrimValue, bool) {
	switch op {
	case ast.UnaryNeg:
		if v.IsNumber() {
			return token.Number(-v.Number()), true
		}
		return token.PrimValue{}, false
	case ast.UnaryLogNot:
		return token.Bool(!v.Truthy()), true
	default:
		return token.PrimValue{}, false
	}
}
