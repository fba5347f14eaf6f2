package cpp

import (
	"regexp"
	"strings"
)

// templatePart is one piece of a compiled function-macro replacement: either
// a literal span copied verbatim, or a positional parameter reference.
// This is the "compiled template" pattern named in §9, replacing runtime
// regex backreferences with a single parse-then-render pass.
type templatePart struct {
	literal    string
	paramIndex int // -1 when this part is a literal span
}

// FuncMacro is the compiled substitutor described in §4.4: given any input
// line, it rewrites every call-site NAME(arg, ...) in place.
type FuncMacro struct {
	name     string
	arity    int
	callSite *regexp.Regexp
	template []templatePart
}

// argPattern matches the non-greedy run up to the next comma or
// close-paren that forms one argument, per §4.4 step 3. Surrounding
// whitespace is trimmed after capture rather than excluded from the
// pattern, which keeps the generated regex simple regardless of arity.
const argPattern = `([^,()]*)`

// CompileFuncMacro builds a FuncMacro from a #define NAME(params) body
// directive, per §4.4. Parameter substitution in body is whole-identifier
// (word-boundary matched), never rewriting substrings of other
// identifiers.
func CompileFuncMacro(name string, params []string, body string) *FuncMacro {
	return &FuncMacro{
		name:     name,
		arity:    len(params),
		callSite: buildCallSitePattern(name, len(params)),
		template: compileTemplate(body, params),
	}
}

// Name returns the macro's identifier.
func (f *FuncMacro) Name() string { return f.name }

// Apply rewrites every call site of f in line, leaving everything else
// untouched. A zero-arg macro matches only NAME() per the edge case in
// §4.4; nested or unbalanced parentheses within an argument are not
// supported, matching the source's explicit scope.
func (f *FuncMacro) Apply(line string) string {
	matches := f.callSite.FindAllStringSubmatchIndex(line, -1)
	if matches == nil {
		return line
	}

	var out strings.Builder
	last := 0
	for _, m := range matches {
		out.WriteString(line[last:m[0]])
		args := make([]string, f.arity)
		for i := 0; i < f.arity; i++ {
			g := 2 * (i + 1)
			args[i] = strings.TrimSpace(line[m[g]:m[g+1]])
		}
		out.WriteString(f.render(args))
		last = m[1]
	}
	out.WriteString(line[last:])
	return out.String()
}

// render concatenates the compiled template against captured arguments.
func (f *FuncMacro) render(args []string) string {
	var out strings.Builder
	for _, part := range f.template {
		if part.paramIndex < 0 {
			out.WriteString(part.literal)
		} else {
			out.WriteString(args[part.paramIndex])
		}
	}
	return out.String()
}

// buildCallSitePattern builds the call-site pattern for arity n: arity 0
// matches NAME() only; arity 1 and 2 are no different structurally from
// higher arities here since Go's regexp engine makes a generated pattern
// just as fast as a hand-specialized one, but the shape below still
// special-cases 0 for clarity since it has no capture groups at all.
func buildCallSitePattern(name string, arity int) *regexp.Regexp {
	var sb strings.Builder
	sb.WriteString(`\b`)
	sb.WriteString(regexp.QuoteMeta(name))
	sb.WriteString(`\s*\(`)
	if arity == 0 {
		sb.WriteString(`\s*`)
	} else {
		for i := 0; i < arity; i++ {
			if i > 0 {
				sb.WriteString(`\s*,\s*`)
			} else {
				sb.WriteString(`\s*`)
			}
			sb.WriteString(argPattern)
		}
		sb.WriteString(`\s*`)
	}
	sb.WriteString(`\)`)
	return regexp.MustCompile(sb.String())
}

// compileTemplate parses body once into literal spans and parameter
// indices, per the "compiled template" design note in §9. Matching is
// whole-identifier via \b so that e.g. parameter "x" never matches inside
// "max" or "x2".
func compileTemplate(body string, params []string) []templatePart {
	if len(params) == 0 {
		return []templatePart{{literal: body, paramIndex: -1}}
	}

	names := make([]string, len(params))
	paramIndex := make(map[string]int, len(params))
	for i, p := range params {
		names[i] = regexp.QuoteMeta(p)
		paramIndex[p] = i
	}
	paramPattern := regexp.MustCompile(`\b(?:` + strings.Join(names, "|") + `)\b`)

	var parts []templatePart
	last := 0
	for _, loc := range paramPattern.FindAllStringIndex(body, -1) {
		if loc[0] > last {
			parts = append(parts, templatePart{literal: body[last:loc[0]], paramIndex: -1})
		}
		parts = append(parts, templatePart{paramIndex: paramIndex[body[loc[0]:loc[1]]]})
		last = loc[1]
	}
	if last < len(body) {
		parts = append(parts, templatePart{literal: body[last:], paramIndex: -1})
	}
	return parts
}
