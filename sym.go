// Package sym is the public entry point for the SYM core pipeline: lex,
// parse, and resolve a source document into a symvalue.Value (spec.md §6
// "Parse entry points").
package sym

import (
	"github.com/Konfuzian/symbolic-language/internal/symast"
	"github.com/Konfuzian/symbolic-language/internal/symparse"
	"github.com/Konfuzian/symbolic-language/internal/symresolve"
	"github.com/Konfuzian/symbolic-language/symimport"
	"github.com/Konfuzian/symbolic-language/symload"
	"github.com/Konfuzian/symbolic-language/symvalue"
)

// Origin identifies a source for diagnostics and import resolution.
type Origin = symimport.Origin

// Loader resolves @import paths. symload.NewFSLoader satisfies it for
// the common case of resolving imports against the filesystem.
type Loader = symimport.Loader

// ParseDocument runs the full pipeline (lex, parse, resolve) over src and
// returns the resolved Value. origin is used for diagnostics and as the
// base for resolving src's own imports. A nil loader defaults to an
// unsandboxed filesystem loader, which is sufficient whenever origin is
// a real file path.
func ParseDocument(src []byte, origin string, loader Loader) (symvalue.Value, error) {
	if loader == nil {
		loader = symload.NewFSLoader()
	}
	return symresolve.Resolve(src, origin, loader)
}

// ParseAST lexes and parses src without resolving imports or variables,
// for callers that want to inspect the AST directly (spec.md §6
// "parse_ast").
func ParseAST(src []byte, origin string) (*symast.Document, error) {
	return symparse.ParseDocument(origin, src)
}
