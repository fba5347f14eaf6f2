// Package cpp implements a simplified C preprocessor engine: a screener
// that normalizes raw source into logical directive/non-directive lines,
// a tagged macro table, a function-macro compiler, a boolean #if/#elif
// expression evaluator over defined(...), a scalar conditional-state
// machine, and the #include recursion that threads a single macro table
// through nested files.
//
// It is not a full ISO C preprocessor: there is no token-pasting (##),
// stringification (#), arithmetic #if expressions, or variadic macros.
package cpp

import "context"

// Options configures a single compile invocation.
type Options struct {
	// FileName seeds __FILE__. Defaults to "<string>" for Compile;
	// CompileFile always sets it to its path argument.
	FileName string
	// Env is a default predefines table applied to every compile before
	// Predefines, per §6's "env" static configuration; a caller-supplied
	// Predefines entry of the same name overrides its Env counterpart.
	Env map[string]MacroValue
	// Predefines is installed into the macro table before user input is
	// processed, per §6.
	Predefines map[string]MacroValue
	// Loader resolves #include targets. A nil Loader causes any #include
	// encountered to fail with IncludeNotFound.
	Loader FileLoader
}

// Init constructs a State from text without running the driver, for
// stepwise or test use, per §6's init(text, predefines?) -> state. Init
// never runs the driver loop, so there is no cancellation boundary to
// honor and no ctx parameter.
func Init(text string, opts Options) *State {
	fileName := opts.FileName
	if fileName == "" {
		fileName = "<string>"
	}
	s := newState(context.Background(), text, fileName, opts.Loader)
	s.applyPredefines(opts.Env, opts.Predefines)
	return s
}

// Compile runs the full pipeline over text and returns the concatenated
// output alongside the final State, per §6's compile(text, predefines?).
// ctx is checked at each logical-line and #include boundary, per §5's
// cancellation model; a nil ctx is treated as context.Background().
func Compile(ctx context.Context, text string, opts Options) (string, *State, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	fileName := opts.FileName
	if fileName == "" {
		fileName = "<string>"
	}
	s := newState(ctx, text, fileName, opts.Loader)
	s.applyPredefines(opts.Env, opts.Predefines)
	output, err := s.drain()
	if err != nil {
		return "", nil, err
	}
	return output, s, nil
}

// CompileFile loads path via opts.Loader, sets __FILE__ to path, then
// delegates to Compile, per §6's compile_file(path, predefines?).
func CompileFile(ctx context.Context, path string, opts Options) (string, *State, error) {
	if opts.Loader == nil {
		return "", nil, newError(0, IncludeNotFound, "no file loader configured: cannot resolve %q", path)
	}
	text, _, release, err := opts.Loader.Load(path, IncludeQuoted)
	if err != nil {
		return "", nil, wrapError(0, IncludeNotFound, "include not found: "+path, err)
	}
	if release != nil {
		defer release()
	}
	opts.FileName = path
	return Compile(ctx, text, opts)
}
