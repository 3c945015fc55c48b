// Package symimport defines the dependency-injected source loader contract
// the resolver uses to follow @import directives (spec.md §6). It is a
// leaf package on purpose: the resolver depends on it, concrete loaders
// (symload) depend on it, but it depends on nothing else in this module
// besides symerr, so either side can be swapped independently.
package symimport

import "github.com/Konfuzian/symbolic-language/symerr"

// Origin identifies where a source document came from: a file path (or a
// synthetic name for in-memory sources) used for diagnostics and import
// resolution.
type Origin struct {
	// Path is the canonical identifier for this source, e.g. an absolute
	// file path. It is what import-cycle detection keys on.
	Path string
}

// Loader resolves an import path relative to an Origin and returns the
// bytes of the referenced source plus a canonical Origin for it.
//
// Implementations must signal not-found, permission, and other I/O
// failures distinctly (via symerr.Import errors) so the resolver can wrap
// them without losing that distinction.
type Loader interface {
	Load(origin Origin, path string) (newOrigin Origin, data []byte, err error)
}

// ImportReason enumerates the loader-observable failure modes spec.md §7
// requires an ImportError to distinguish.
type ImportReason int

const (
	ReasonNotFound ImportReason = iota
	ReasonPermission
	ReasonIO
	ReasonSandboxed
)

func (r ImportReason) String() string {
	switch r {
	case ReasonNotFound:
		return "not found"
	case ReasonPermission:
		return "permission denied"
	case ReasonSandboxed:
		return "outside sandbox"
	default:
		return "I/O error"
	}
}

// NewError builds a symerr.Error of Kind Import for a loader failure.
func NewError(origin Origin, reason ImportReason, path string, cause error) *symerr.Error {
	msg := reason.String() + ": " + path
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return symerr.New(symerr.Import, symerr.Span{Origin: origin.Path}, "%s", msg)
}
