package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := Default()
	if opts.EnableEval {
		t.Error("Default().EnableEval = true; want false")
	}
	if opts.SystemImportDir == "" {
		t.Error("Default().SystemImportDir is empty")
	}
}

func TestLoadOverlaysOntoDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gos.toml")
	toml := "enable_eval = true\nmax_stack_depth = 512\n"
	if err := os.WriteFile(path, []byte(toml), 0644); err != nil {
		t.Fatalf("write gos.toml: %v", err)
	}
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !opts.EnableEval {
		t.Error("EnableEval = false; want true from gos.toml")
	}
	if opts.MaxStackDepth != 512 {
		t.Errorf("MaxStackDepth = %d; want 512", opts.MaxStackDepth)
	}
	if opts.SystemImportDir != Default().SystemImportDir {
		t.Errorf("SystemImportDir = %q; want the default carried over", opts.SystemImportDir)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if opts != Default() {
		t.Errorf("Load on a missing file = %+v; want %+v", opts, Default())
	}
}
