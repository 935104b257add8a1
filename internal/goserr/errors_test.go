package goserr

import "testing"

func TestErrorIncludesLineWhenPositive(t *testing.T) {
	err := New(PhaseLexer, 5, "unexpected character %q", '$')
	want := `Lexer: unexpected character '$' (line 5)`
	if err.Error() != want {
		t.Errorf("Error() = %q; want %q", err.Error(), want)
	}
}

func TestErrorOmitsLineWhenZero(t *testing.T) {
	err := New(PhaseCompiler, 0, "unresolved label %q", "loop")
	want := `Compiler: unresolved label "loop"`
	if err.Error() != want {
		t.Errorf("Error() = %q; want %q", err.Error(), want)
	}
}
