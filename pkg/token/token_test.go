package token

import "testing"

func TestPrimValueTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    PrimValue
		want bool
	}{
		{"unit", Unit(), false},
		{"zero", Number(0), false},
		{"nonzero", Number(-1), true},
		{"empty string", Str(""), false},
		{"nonempty string", Str("x"), true},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
	}
	for _, tc := range tests {
		if got := tc.v.Truthy(); got != tc.want {
			t.Errorf("%s: Truthy() = %v; want %v", tc.name, got, tc.want)
		}
	}
}

func TestPrimValueEqual(t *testing.T) {
	if !Number(1).Equal(Number(1)) {
		t.Error("Number(1).Equal(Number(1)) = false; want true")
	}
	if Number(1).Equal(Str("1")) {
		t.Error("Number(1).Equal(Str(\"1\")) = true; want false (different kinds never equal)")
	}
	if !Unit().Equal(Unit()) {
		t.Error("Unit().Equal(Unit()) = false; want true")
	}
}

func TestPrimValueText(t *testing.T) {
	tests := []struct {
		v    PrimValue
		want string
	}{
		{Unit(), "null"},
		{Number(3), "3"},
		{Number(3.5), "3.5"},
		{Str("hi"), "hi"},
		{Bool(true), "true"},
		{Bool(false), "false"},
	}
	for _, tc := range tests {
		if got := tc.v.Text(); got != tc.want {
			t.Errorf("Text() = %q; want %q", got, tc.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := LET.String(); got != "LET" {
		t.Errorf("LET.String() = %q; want %q", got, "LET")
	}
	if got := Kind(9999).String(); got != "Kind(9999)" {
		t.Errorf("out-of-range Kind.String() = %q; want %q", got, "Kind(9999)")
	}
}

func TestKeywordsTable(t *testing.T) {
	for text, kind := range Keywords {
		if kind.String() == "" {
			t.Errorf("keyword %q maps to a Kind with no name", text)
		}
	}
	if Keywords["fun"] != FUN {
		t.Errorf(`Keywords["fun"] = %v; want FUN`, Keywords["fun"])
	}
}
