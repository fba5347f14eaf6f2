package cpp

import (
	"regexp"
	"strings"
)

// directiveHeadPattern splits an already-normalized "#keyword rest" line
// (screener guarantees no space between '#' and keyword) into the keyword
// and the remainder of the line.
var directiveHeadPattern = regexp.MustCompile(`^#(\w+)[ \t]*(.*)$`)

// funcMacroDefPattern matches the function-like form of #define: NAME
// immediately followed by '(' (no intervening space distinguishes this
// from the text form, matching C's own rule), a parameter list, and a
// replacement body.
var funcMacroDefPattern = regexp.MustCompile(`^([_A-Za-z][_A-Za-z0-9]*)\(([^)]*)\)[ \t]*(.*)$`)

// objectDefPattern matches the bare-identifier and text forms of #define:
// NAME alone, or NAME followed by whitespace and a replacement body.
var objectDefPattern = regexp.MustCompile(`^([_A-Za-z][_A-Za-z0-9]*)(?:[ \t]+(.*))?$`)

// includePattern matches #include "F" or #include <F>.
var includePattern = regexp.MustCompile(`^"([^"]*)"$|^<([^>]*)>$`)

// drain runs the full driver loop from §2 item 6 over s's screener,
// returning the concatenated surviving output lines.
func (s *State) drain() (string, error) {
	var out []string
	for {
		if err := s.ctx.Err(); err != nil {
			return "", err
		}
		line, ok := s.screener.Next()
		if !ok {
			break
		}
		s.Lineno++
		s.refreshLineMacros()

		produced, err := s.processLine(line)
		if err != nil {
			if ce, ok := err.(*CompileError); ok && ce.Line == 0 {
				ce.Line = s.Lineno
			}
			return "", err
		}
		if produced != "" {
			out = append(out, produced)
		}
	}
	if !s.Conditional.Balanced() {
		return "", newError(s.Lineno, UnbalancedConditional, "unbalanced conditional at end of input")
	}
	return strings.Join(out, "\n"), nil
}

// processLine implements §4.7.
func (s *State) processLine(line string) (string, error) {
	if strings.HasPrefix(line, "#") {
		return s.processDirective(line)
	}
	if s.Conditional.Suppressed() {
		return "", nil
	}

	expanded := ExpandLine(line, s.Defines)
	if strings.HasPrefix(expanded, "#") {
		// A macro expanded to a directive-looking prefix: re-extract and
		// dispatch as a directive, per §4.7 step 3.
		return s.processDirective(expanded)
	}
	return expanded, nil
}

// processDirective handles a line already known to begin with '#'. Per
// §4.7 step 1, the conditional keywords update the state machine before
// the suppression check runs, so a closing #endif inside a skipped block
// still closes correctly.
func (s *State) processDirective(line string) (string, error) {
	m := directiveHeadPattern.FindStringSubmatch(line)
	if m == nil {
		return "", newError(s.Lineno, UnknownDirective, "malformed directive: %q", line)
	}
	keyword, rest := m[1], m[2]

	switch keyword {
	case "if":
		// Suppressed() here reads the pre-BeginIf level, which is exactly
		// BeginIf's own post-increment outerSkip() check: an already-dead
		// enclosing branch must not force this #if's controlling
		// expression to be well-formed, per §4.6.
		cond := false
		if !s.Conditional.Suppressed() {
			var err error
			cond, err = EvalExpr(rest, s.Lineno, s.Defines)
			if err != nil {
				return "", err
			}
		}
		s.Conditional.BeginIf(cond)
		s.refreshLineMacros()
		return "", nil

	case "ifdef":
		s.Conditional.BeginIf(s.Defines.IsDefined(strings.TrimSpace(rest)))
		s.refreshLineMacros()
		return "", nil

	case "ifndef":
		s.Conditional.BeginIf(!s.Defines.IsDefined(strings.TrimSpace(rest)))
		s.refreshLineMacros()
		return "", nil

	case "elif":
		// outerSkip() mirrors Elif's own no-op path: a dead enclosing
		// branch means this whole #if/#elif construct is already
		// suppressed, so its condition is never evaluated.
		cond := false
		if !s.Conditional.outerSkip() {
			var err error
			cond, err = EvalExpr(rest, s.Lineno, s.Defines)
			if err != nil {
				return "", err
			}
		}
		if err := s.Conditional.Elif(cond); err != nil {
			return "", err
		}
		s.refreshLineMacros()
		return "", nil

	case "else":
		if err := s.Conditional.Else(); err != nil {
			return "", err
		}
		s.refreshLineMacros()
		return "", nil

	case "endif":
		if err := s.Conditional.EndIf(); err != nil {
			return "", err
		}
		s.refreshLineMacros()
		return "", nil
	}

	// Non-structural directives have no effect, and no side effects, while
	// suppressed.
	if s.Conditional.Suppressed() {
		return "", nil
	}

	switch keyword {
	case "include":
		return s.dispatchInclude(rest)
	case "define":
		return "", s.dispatchDefine(rest)
	case "undef":
		s.Defines.Undef(strings.TrimSpace(rest))
		return "", nil
	case "error":
		msg := strings.TrimSpace(rest)
		if msg == "" {
			msg = "#error"
		}
		return "", newError(s.Lineno, UserError, "%s", msg)
	case "pragma":
		return "", nil
	default:
		return "", newError(s.Lineno, UnknownDirective, "unknown directive: #%s", keyword)
	}
}

func (s *State) dispatchInclude(rest string) (string, error) {
	rest = strings.TrimSpace(rest)
	m := includePattern.FindStringSubmatch(rest)
	if m == nil {
		return "", newError(s.Lineno, UnknownDirective, "malformed #include: %q", rest)
	}
	if strings.HasPrefix(rest, `"`) {
		return s.processInclude(m[1], IncludeQuoted)
	}
	return s.processInclude(m[2], IncludeAngled)
}

// dispatchDefine implements §4.7 step 4's three #define forms, tried in
// order: function-like (NAME immediately followed by '('), then bare
// identifier or object-like text.
func (s *State) dispatchDefine(rest string) error {
	rest = strings.TrimSpace(rest)

	if m := funcMacroDefPattern.FindStringSubmatch(rest); m != nil {
		name, paramList, body := m[1], m[2], strings.TrimSpace(m[3])
		var params []string
		if strings.TrimSpace(paramList) != "" {
			for _, p := range strings.Split(paramList, ",") {
				params = append(params, strings.TrimSpace(p))
			}
		}
		return s.Defines.Define(name, FunctionValue(CompileFuncMacro(name, params, body)))
	}

	m := objectDefPattern.FindStringSubmatch(rest)
	if m == nil {
		return newError(s.Lineno, UnknownDirective, "malformed #define: %q", rest)
	}
	name, body := m[1], strings.TrimSpace(m[2])
	if body == "" {
		return s.Defines.Define(name, Flag())
	}
	return s.Defines.Define(name, TextValue(body))
}
