package ast

import "testing"

func TestBinOpKindString(t *testing.T) {
	tests := []struct {
		k    BinOpKind
		want string
	}{
		{BinAdd, "+"},
		{BinAndLogical, "&&"},
		{BinXor, "^"},
	}
	for _, tc := range tests {
		if got := tc.k.String(); got != tc.want {
			t.Errorf("%v.String() = %q; want %q", tc.k, got, tc.want)
		}
	}
}

func TestNodeAndExprInterfaces(t *testing.T) {
	var _ Node = (*Val)(nil)
	var _ Expr = (*Val)(nil)
	var _ Node = (*FuncDecl)(nil)
	var _ Node = (*Label)(nil)
	// FuncDecl and Label are declarative: they must not satisfy Expr.
	if _, ok := any((*FuncDecl)(nil)).(Expr); ok {
		t.Error("*FuncDecl unexpectedly satisfies Expr")
	}
	if _, ok := any((*Label)(nil)).(Expr); ok {
		t.Error("*Label unexpectedly satisfies Expr")
	}
}
