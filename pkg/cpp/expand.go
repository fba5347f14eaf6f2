package cpp

import "strings"

// ExpandLine applies macro expansion to a single content line, per §4.3.
//
// The tokenizer runs once over the line; every identifier bound to a Flag,
// Text, or Number macro is replaced in place. An identifier bound to a
// FunctionMacro is left in place for this pass, and its substitutor is
// queued — noted by name, not yet applied. Once the line has been
// rebuilt, only the queued substitutors are applied, in definition order,
// to the whole line; a function macro whose name never appeared as a
// token in the original line is never applied, even if it would
// coincidentally match text the object-like pass produced.
//
// Expansion is single-pass: text produced by a substitution is never
// rescanned for further macro references, per the Non-goals and the
// "macro-rescanning" open question in §9.
func ExpandLine(line string, table *MacroTable) string {
	tk := NewTokenizer(line)
	var out strings.Builder
	pos := 0
	queued := make(map[string]bool)

	for {
		tok := tk.Next()
		if tok.Kind == TokenEOF {
			out.WriteString(line[pos:])
			break
		}

		out.WriteString(line[pos:tok.Start])

		if tok.Kind == TokenIdentifier {
			if value, ok := table.Lookup(tok.Text); ok {
				if value.Kind == MacroFunction {
					queued[tok.Text] = true
				} else {
					out.WriteString(value.substitution())
					pos = tok.End
					continue
				}
			}
		}

		out.WriteString(line[tok.Start:tok.End])
		pos = tok.End
	}

	result := out.String()
	for _, fn := range table.FunctionMacrosInOrder() {
		if queued[fn.Name()] {
			result = fn.Apply(result)
		}
	}
	return result
}
