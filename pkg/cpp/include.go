package cpp

// IncludeKind distinguishes #include "F" from #include <F>, left to the
// loader to interpret (search path selection, circular-include detection),
// per §4.8.
type IncludeKind int

const (
	// IncludeQuoted is #include "F".
	IncludeQuoted IncludeKind = iota
	// IncludeAngled is #include <F>.
	IncludeAngled
)

// FileLoader resolves an #include target to its text. Search paths,
// angle- vs. quote-include semantics, and circular-include detection are
// entirely the loader's responsibility; the core only calls Load and
// propagates whatever it returns.
//
// release, when non-nil, is called exactly once by the core after the
// included file has been fully drained (on every return path: success,
// directive error, or expression-parse failure), per §5's resource model.
// A loader with nothing to release may return a nil func.
type FileLoader interface {
	Load(name string, kind IncludeKind) (text, resolvedPath string, release func(), err error)
}

// NoFileLoader is a FileLoader that rejects every #include, useful for
// compiling strings known not to include anything (e.g. Init/testing use).
type NoFileLoader struct{}

func (NoFileLoader) Load(name string, _ IncludeKind) (string, string, func(), error) {
	return "", "", nil, newError(0, IncludeNotFound, "no file loader configured: cannot resolve %q", name)
}

// processInclude implements §4.8: load the target via s.loader, build a
// child State sharing this State's macro table by reference (single-owner:
// the child mutates the same *MacroTable the parent holds, so nothing needs
// to be copied back), drain the child fully, and return its concatenated
// output as the expansion of the #include line.
func (s *State) processInclude(name string, kind IncludeKind) (string, error) {
	if s.loader == nil {
		return "", newError(s.Lineno, IncludeNotFound, "no file loader configured: cannot resolve %q", name)
	}
	text, resolvedPath, release, err := s.loader.Load(name, kind)
	if err != nil {
		return "", wrapError(s.Lineno, IncludeNotFound, "include not found: "+name, err)
	}
	if release != nil {
		defer release()
	}

	child := &State{
		Defines:     s.Defines,
		Conditional: NewConditionalState(),
		FileName:    resolvedPath,
		ctx:         s.ctx,
		screener:    NewScreener(text),
		loader:      s.loader,
	}
	child.Defines.Redefine("__FILE__", TextValue(resolvedPath))
	child.refreshLineMacros()

	output, err := child.drain()

	// The macro table is shared by reference, so defines installed while
	// draining the child remain visible; __FILE__ must be restored so the
	// parent's own subsequent lines see its own path again.
	s.Defines.Redefine("__FILE__", TextValue(s.FileName))
	s.refreshLineMacros()

	if err != nil {
		return "", err
	}
	return output, nil
}
