package cpp

import "testing"

func TestTokenizerBasic(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"empty", "", nil},
		{"identifier", "foo", []string{"identifier(\"foo\")"}},
		{"number", "1337", []string{"number(\"1337\")"}},
		{"hex number", "0x1337", []string{"number(\"0x1337\")"}},
		{"string", `"hello"`, []string{`string("hello")`}},
		{"mixed", "int x = 7;", []string{
			`identifier("int")`, `identifier("x")`, `unknown("=")`, `number("7")`, `unknown(";")`,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := NewTokenizer(tt.line).AllTokens()
			if len(toks) != len(tt.want) {
				t.Fatalf("got %d tokens, want %d: %v", len(toks), len(tt.want), toks)
			}
			for i, tok := range toks {
				if tok.String() != tt.want[i] {
					t.Errorf("token %d = %s, want %s", i, tok.String(), tt.want[i])
				}
			}
		})
	}
}

func TestTokenizerEOFIsSticky(t *testing.T) {
	tk := NewTokenizer("x")
	tk.Next()
	for i := 0; i < 3; i++ {
		if tok := tk.Next(); tok.Kind != TokenEOF {
			t.Fatalf("Next() after exhaustion = %v, want TokenEOF", tok)
		}
	}
}

func TestTokenizerPreservesSpans(t *testing.T) {
	line := "  foo   bar"
	toks := NewTokenizer(line).AllTokens()
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2", len(toks))
	}
	if line[toks[0].Start:toks[0].End] != "foo" {
		t.Errorf("first token span = %q, want foo", line[toks[0].Start:toks[0].End])
	}
	if line[toks[1].Start:toks[1].End] != "bar" {
		t.Errorf("second token span = %q, want bar", line[toks[1].Start:toks[1].End])
	}
}

func TestExprTokenizerKeywords(t *testing.T) {
	toks := NewExprTokenizer("defined(X) && !defined(Y)").AllTokens()
	want := []string{"defined", "(", "X", ")", "&&", "!", "defined", "(", "Y", ")"}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tok := range toks {
		got := tok.Text
		if tok.Kind == TokenKeyword {
			got = tok.Keyword
		}
		if got != want[i] {
			t.Errorf("token %d = %q, want %q", i, got, want[i])
		}
	}
}

func TestExprTokenizerDefinedIsWordBounded(t *testing.T) {
	toks := NewExprTokenizer("definedFlag").AllTokens()
	if len(toks) != 1 || toks[0].Kind != TokenIdentifier || toks[0].Text != "definedFlag" {
		t.Fatalf("got %v, want a single identifier token definedFlag", toks)
	}
}
