package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lcpp/lcpp/pkg/cpp"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoaderQuotedSearchesUserPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "defs.h", "#define X 1")

	l, err := New(Options{UserPaths: []string{dir}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	text, resolved, release, err := l.Load("defs.h", cpp.IncludeQuoted)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer release()

	if text != "#define X 1" {
		t.Errorf("text = %q", text)
	}
	if resolved != filepath.Join(dir, "defs.h") {
		t.Errorf("resolved = %q", resolved)
	}
}

func TestLoaderAngledSearchesSystemPaths(t *testing.T) {
	userDir := t.TempDir()
	sysDir := t.TempDir()
	writeFile(t, sysDir, "stdio.h", "// system header")

	l, err := New(Options{UserPaths: []string{userDir}, SystemPaths: []string{sysDir}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, _, _, err := l.Load("stdio.h", cpp.IncludeQuoted); err == nil {
		t.Error("quoted include should not search system paths")
	}

	_, _, release, err := l.Load("stdio.h", cpp.IncludeAngled)
	if err != nil {
		t.Fatalf("Load angled: %v", err)
	}
	release()
}

func TestLoaderNotFound(t *testing.T) {
	l, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, _, _, err := l.Load("missing.h", cpp.IncludeQuoted); err == nil {
		t.Error("expected an error for an unresolvable include")
	}
}

func TestLoaderCircularIncludeRejected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.h", `#include "a.h"`)

	l, err := New(Options{UserPaths: []string{dir}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, _, release, err := l.Load("a.h", cpp.IncludeQuoted)
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	defer release()

	if _, _, _, err := l.Load("a.h", cpp.IncludeQuoted); err == nil {
		t.Error("expected circular-include rejection while a.h is still active")
	}
}

func TestLoaderGlobExpansion(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"vendorA", "vendorB"} {
		sub := filepath.Join(root, name, "include")
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
	}
	writeFile(t, filepath.Join(root, "vendorB", "include"), "lib.h", "int lib_version(void);")

	l, err := New(Options{UserPaths: []string{filepath.Join(root, "*", "include")}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, resolved, release, err := l.Load("lib.h", cpp.IncludeQuoted)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer release()
	if resolved != filepath.Join(root, "vendorB", "include", "lib.h") {
		t.Errorf("resolved = %q", resolved)
	}
}
