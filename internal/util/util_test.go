package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.json")
	if err := os.WriteFile(file, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing")

	if !DirExists(dir) || DirExists(file) || DirExists(missing) {
		t.Error("DirExists should only accept existing directories")
	}
	if !FileExists(file) || FileExists(dir) || FileExists(missing) {
		t.Error("FileExists should only accept existing regular files")
	}
}
