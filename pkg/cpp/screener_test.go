package cpp

import "testing"

func drainScreener(s *Screener) []string {
	var lines []string
	for {
		line, ok := s.Next()
		if !ok {
			return lines
		}
		lines = append(lines, line)
	}
}

func TestScreenerBatchesContentAndIsolatesDirectives(t *testing.T) {
	text := "a\nb\n#define X 1\nc\nd\n"
	got := drainScreener(NewScreener(text))
	want := []string{"a\nb", "#define X 1", "c\nd"}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScreenerStripsComments(t *testing.T) {
	text := "/* prelude */\n#define K 5 // trailing\nK"
	got := drainScreener(NewScreener(text))
	want := []string{"#define K 5", "K"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScreenerBlockCommentSpansLines(t *testing.T) {
	text := "a /* spans\nseveral\nlines */ b"
	got := drainScreener(NewScreener(text))
	if len(got) != 1 || got[0] != "a  b" {
		t.Errorf("got %q, want single batched line %q", got, "a  b")
	}
}

func TestScreenerSplicesContinuations(t *testing.T) {
	text := "#define F(x) \\\n  (x+1)\nint v = F(7);"
	got := drainScreener(NewScreener(text))
	want := []string{"#define F(x)" + "    " + "(x+1)", "int v = F(7);"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScreenerStackedContinuations(t *testing.T) {
	text := "a \\\nb \\\nc"
	got := drainScreener(NewScreener(text))
	if len(got) != 1 || got[0] != "a  b  c" {
		t.Errorf("got %q, want a single spliced line", got)
	}
}

func TestScreenerCollapsesHashWhitespace(t *testing.T) {
	text := "#   define X 1"
	got := drainScreener(NewScreener(text))
	if len(got) != 1 || got[0] != "#define X 1" {
		t.Errorf("got %q, want collapsed directive lead", got)
	}
}

func TestScreenerDiscardsEmptyLines(t *testing.T) {
	text := "\n\na\n\n\nb\n\n"
	got := drainScreener(NewScreener(text))
	if len(got) != 1 || got[0] != "a\nb" {
		t.Errorf("got %q, want batched [a b]", got)
	}
}

func TestScreenerNoDirectivesRoundTrips(t *testing.T) {
	text := "alpha\nbeta\ngamma"
	got := drainScreener(NewScreener(text))
	if len(got) != 1 || got[0] != text {
		t.Errorf("got %q, want %q (no directives, no comments, no continuations)", got, text)
	}
}
