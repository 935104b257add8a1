package utils

import (
	"path/filepath"
	"testing"
)

func TestGetPathInfo(t *testing.T) {
	full, parent, err := GetPathInfo("sub/dir/file.gos")
	if err != nil {
		t.Fatalf("GetPathInfo error: %v", err)
	}
	if !filepath.IsAbs(full) {
		t.Errorf("fullPath = %q; want an absolute path", full)
	}
	if parent != filepath.Dir(full) {
		t.Errorf("parentDir = %q; want %q", parent, filepath.Dir(full))
	}
}
