package preprocessor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefineAndExpand(t *testing.T) {
	src := "$define GREETING \"hello\"\nout GREETING"
	out, err := Preprocess(src, ".", Options{})
	if err != nil {
		t.Fatalf("Preprocess error: %v", err)
	}
	if !strings.Contains(out, `out "hello"`) {
		t.Errorf("expanded output = %q; want it to contain %q", out, `out "hello"`)
	}
}

func TestIfdefSkipsUndefinedBlock(t *testing.T) {
	src := "$ifdef DEBUG\nout \"debug\"\n$endif\nout \"always\""
	out, err := Preprocess(src, ".", Options{})
	if err != nil {
		t.Fatalf("Preprocess error: %v", err)
	}
	if strings.Contains(out, "debug") {
		t.Errorf("output = %q; want the undefined $ifdef block dropped", out)
	}
	if !strings.Contains(out, "always") {
		t.Errorf("output = %q; want the block after $endif kept", out)
	}
}

func TestIfndefIncludesUndefinedBlock(t *testing.T) {
	src := "$ifndef DEBUG\nout \"release\"\n$endif"
	out, err := Preprocess(src, ".", Options{})
	if err != nil {
		t.Fatalf("Preprocess error: %v", err)
	}
	if !strings.Contains(out, "release") {
		t.Errorf("output = %q; want the $ifndef block kept when DEBUG is undefined", out)
	}
}

func TestUnmatchedEndifIsAnError(t *testing.T) {
	if _, err := Preprocess("$endif", ".", Options{}); err == nil {
		t.Fatal("expected an error for an unmatched $endif")
	}
}

func TestUnterminatedIfdefIsAnError(t *testing.T) {
	if _, err := Preprocess("$ifdef X\nout 1", ".", Options{}); err == nil {
		t.Fatal("expected an error for a missing $endif")
	}
}

func TestImportSplicesFileContent(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lib.gos"), []byte(`out "from lib"`), 0644); err != nil {
		t.Fatalf("write lib.gos: %v", err)
	}
	src := `$import "lib.gos"` + "\n" + `out "main"`
	out, err := Preprocess(src, dir, Options{})
	if err != nil {
		t.Fatalf("Preprocess error: %v", err)
	}
	if !strings.Contains(out, "from lib") || !strings.Contains(out, "main") {
		t.Errorf("output = %q; want both the imported and main content", out)
	}
}

func TestImportIsIdempotentAcrossReimport(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lib.gos"), []byte(`out "once"`), 0644); err != nil {
		t.Fatalf("write lib.gos: %v", err)
	}
	src := "$import \"lib.gos\"\n$import \"lib.gos\""
	out, err := Preprocess(src, dir, Options{})
	if err != nil {
		t.Fatalf("Preprocess error: %v", err)
	}
	if strings.Count(out, "once") != 1 {
		t.Errorf("output = %q; want the second $import of the same file to be a no-op", out)
	}
}

func TestImportNotFoundIsAnError(t *testing.T) {
	if _, err := Preprocess(`$import "missing.gos"`, ".", Options{}); err == nil {
		t.Fatal("expected an error for a missing import")
	}
}
