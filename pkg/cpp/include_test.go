package cpp

import "testing"

func TestProcessIncludeSharesMacroTableByReference(t *testing.T) {
	loader := mapLoader{"child.h": "#define FROM_CHILD 1"}
	s := Init("", Options{Loader: loader})
	if _, err := s.processInclude("child.h", IncludeQuoted); err != nil {
		t.Fatalf("processInclude: %v", err)
	}
	if !s.Defines.IsDefined("FROM_CHILD") {
		t.Error("defines installed by an included file must be visible in the parent's table afterward")
	}
}

func TestProcessIncludeSetsChildFileName(t *testing.T) {
	loader := mapLoader{"child.h": "__FILE__"}
	s := Init("", Options{Loader: loader, FileName: "main.c"})
	out, err := s.processInclude("child.h", IncludeQuoted)
	if err != nil {
		t.Fatalf("processInclude: %v", err)
	}
	if out != "child.h" {
		t.Errorf("got %q, want __FILE__ inside the included file to resolve to child.h", out)
	}
	// The parent's own __FILE__ is untouched by processing the child.
	v, _ := s.Defines.Lookup("__FILE__")
	if v.Text != "main.c" {
		t.Errorf("parent __FILE__ = %q, want main.c", v.Text)
	}
}

func TestProcessIncludeNoLoaderConfigured(t *testing.T) {
	s := Init("", Options{})
	if _, err := s.processInclude("anything.h", IncludeQuoted); err == nil {
		t.Fatal("expected IncludeNotFound when no loader is configured")
	}
}
