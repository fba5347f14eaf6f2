// Package loader implements the file-system reader collaborator named in
// §1 of the core specification: a function that maps an #include target
// to a text blob. It is deliberately kept outside pkg/cpp, which only
// depends on the cpp.FileLoader interface.
package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/lcpp/lcpp/pkg/cpp"
)

// Options configures a FileLoader.
type Options struct {
	// UserPaths are searched, in order, for #include "F" targets; if none
	// holds F, F itself is tried as given (relative to the working
	// directory).
	UserPaths []string
	// SystemPaths are searched, in order, for #include <F> targets.
	SystemPaths []string
}

// FileLoader reads included files from disk. Entries in UserPaths and
// SystemPaths may be doublestar glob patterns (e.g. "vendor/*/include");
// they are expanded once, at construction, into a flat ordered list of
// concrete directories.
type FileLoader struct {
	userDirs   []string
	systemDirs []string

	// active is the stack of resolved absolute paths currently being
	// drained, used for circular-include detection: an #include target
	// that resolves to a path already on this stack is rejected.
	active []string
}

// New expands every glob pattern in opts into concrete directories and
// returns a ready-to-use FileLoader.
func New(opts Options) (*FileLoader, error) {
	userDirs, err := expandDirs(opts.UserPaths)
	if err != nil {
		return nil, fmt.Errorf("loader: expanding user include paths: %w", err)
	}
	systemDirs, err := expandDirs(opts.SystemPaths)
	if err != nil {
		return nil, fmt.Errorf("loader: expanding system include paths: %w", err)
	}
	return &FileLoader{userDirs: userDirs, systemDirs: systemDirs}, nil
}

func expandDirs(patterns []string) ([]string, error) {
	var dirs []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include-path pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		if matches == nil {
			// Not a glob pattern, or a glob that matched nothing: fall
			// back to the literal path so a plain directory entry like
			// "/usr/include" still works without being a valid match set.
			matches = []string{pattern}
		}
		dirs = append(dirs, matches...)
	}
	return dirs, nil
}

// Load implements cpp.FileLoader. The search order is: for quoted
// includes, UserPaths then the name as given; for angled includes,
// SystemPaths only. release pops the circular-include guard pushed by a successful
// resolution.
func (l *FileLoader) Load(name string, kind cpp.IncludeKind) (string, string, func(), error) {
	resolved, err := l.resolve(name, kind)
	if err != nil {
		return "", "", nil, err
	}

	for _, open := range l.active {
		if open == resolved {
			return "", "", nil, fmt.Errorf("circular include: %q is already being processed", resolved)
		}
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", "", nil, fmt.Errorf("reading %q: %w", resolved, err)
	}

	l.active = append(l.active, resolved)
	release := func() {
		l.active = l.active[:len(l.active)-1]
	}
	return string(data), resolved, release, nil
}

func (l *FileLoader) resolve(name string, kind cpp.IncludeKind) (string, error) {
	searchDirs := l.userDirs
	if kind == cpp.IncludeAngled {
		searchDirs = l.systemDirs
	}
	for _, dir := range searchDirs {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	if kind == cpp.IncludeQuoted {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("%q not found in any search path", name)
}
