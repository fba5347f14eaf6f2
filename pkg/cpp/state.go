package cpp

import (
	"context"
	"time"
)

// State is the per-compile context described in §3: the macro table, line
// counter, conditional-state counters, and the screener feeding it lines.
// It is single-owner — one compile invocation constructs exactly one State
// and drives it to completion or failure.
type State struct {
	Defines     *MacroTable
	Lineno      int
	Conditional *ConditionalState
	FileName    string

	ctx      context.Context
	screener *Screener
	loader   FileLoader
}

// newState builds a State over text, with predefines already installed.
// fileName seeds __FILE__; loader resolves #include targets (may be nil if
// the input is known not to use #include).
func newState(ctx context.Context, text, fileName string, loader FileLoader) *State {
	s := &State{
		Defines:     NewMacroTable(),
		Conditional: NewConditionalState(),
		FileName:    fileName,
		ctx:         ctx,
		screener:    NewScreener(text),
		loader:      loader,
	}
	s.installPredefines()
	return s
}

// installPredefines installs __FILE__, __LINE__, __DATE__, __TIME__, and
// __INDENT__, per §3. __DATE__/__TIME__ are captured once, at state
// construction; __LINE__ and __INDENT__ are refreshed as compilation
// proceeds via refreshLineMacros.
func (s *State) installPredefines() {
	now := time.Now()
	s.Defines.Redefine("__FILE__", TextValue(s.FileName))
	s.Defines.Redefine("__LINE__", NumberValue(s.Lineno))
	s.Defines.Redefine("__DATE__", TextValue(now.Format("Jan 02 2006")))
	s.Defines.Redefine("__TIME__", TextValue(now.Format("15:04:05")))
	s.Defines.Redefine("__INDENT__", NumberValue(s.Conditional.Level()))
}

// refreshLineMacros re-installs __LINE__ and __INDENT__; called once per
// logical line and again whenever conditional nesting changes.
func (s *State) refreshLineMacros() {
	s.Defines.Redefine("__LINE__", NumberValue(s.Lineno))
	s.Defines.Redefine("__INDENT__", NumberValue(s.Conditional.Level()))
}

// applyPredefines installs env, then predefines, before the input proper is
// processed, per §6: "env: a default predefines table applied to every
// compile before the call-site predefines" — so a call-site entry with the
// same name overrides its env counterpart.
func (s *State) applyPredefines(env, predefines map[string]MacroValue) {
	for name, value := range env {
		s.Defines.Redefine(name, value)
	}
	for name, value := range predefines {
		s.Defines.Redefine(name, value)
	}
}
