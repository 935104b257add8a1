package main

import "testing"

func TestIsBytecodeFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"prog.gbc", true},
		{"prog.gos", false},
		{"prog", false},
	}
	for _, tc := range tests {
		if got := isBytecodeFile(tc.path); got != tc.want {
			t.Errorf("isBytecodeFile(%q) = %v; want %v", tc.path, got, tc.want)
		}
	}
}

func TestGbcPathReplacesExtension(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"prog.gos", "prog.gbc"},
		{"prog", "prog.gbc"},
		{"dir/prog.gos", "dir/prog.gbc"},
	}
	for _, tc := range tests {
		if got := gbcPath(tc.in); got != tc.want {
			t.Errorf("gbcPath(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestExitErrorPropagatesCode(t *testing.T) {
	var err error = exitError{code: 3}
	ec, ok := err.(exitCoder)
	if !ok {
		t.Fatal("exitError does not satisfy exitCoder")
	}
	if ec.ExitCode() != 3 {
		t.Errorf("ExitCode() = %d; want 3", ec.ExitCode())
	}
}
