// Package symload provides the default symimport.Loader: resolving
// @import paths against the filesystem, relative to the importing
// document's own path (spec.md §6 "Source loader").
package symload

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Konfuzian/symbolic-language/symimport"
)

// FSLoader loads SYM sources from disk. The zero value loads from
// anywhere on the filesystem; WithRoot restricts resolution to a
// sandboxed directory tree.
type FSLoader struct {
	root string // absolute; empty means unsandboxed
}

// NewFSLoader returns an unsandboxed loader.
func NewFSLoader() *FSLoader { return &FSLoader{} }

// WithRoot returns a new loader sandboxed to root: any import
// that would resolve outside root is rejected (spec.md §7 ImportError
// "path outside any allowed sandbox").
func WithRoot(root string) (*FSLoader, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &FSLoader{root: abs}, nil
}

// Load implements symimport.Loader.
func (l *FSLoader) Load(origin symimport.Origin, path string) (symimport.Origin, []byte, error) {
	base := origin.Path
	var resolved string
	if filepath.IsAbs(path) {
		resolved = filepath.Clean(path)
	} else {
		resolved = filepath.Join(filepath.Dir(base), path)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return symimport.Origin{}, nil, symimport.NewError(origin, symimport.ReasonIO, path, err)
	}

	if l.root != "" {
		rel, err := filepath.Rel(l.root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return symimport.Origin{}, nil, symimport.NewError(origin, symimport.ReasonSandboxed, path, nil)
		}
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return symimport.Origin{}, nil, symimport.NewError(origin, symimport.ReasonNotFound, path, err)
		case errors.Is(err, fs.ErrPermission):
			return symimport.Origin{}, nil, symimport.NewError(origin, symimport.ReasonPermission, path, err)
		default:
			return symimport.Origin{}, nil, symimport.NewError(origin, symimport.ReasonIO, path, err)
		}
	}
	return symimport.Origin{Path: abs}, data, nil
}
