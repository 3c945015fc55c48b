// Package symerr defines the error taxonomy shared by every stage of the
// SYM pipeline (lexer, parser, resolver). Every error those stages and the
// import loaders produce is a *Error with one of the Kind values below, carrying
// enough span information for a caller to print a source snippet.
package symerr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Kind classifies an Error the way spec.md's error taxonomy requires. The
// String form is also the value test harnesses match error.json's "type"
// field against.
type Kind int

const (
	Lex Kind = iota
	Parse
	Number
	Variable
	Import
	Merge
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "LexError"
	case Parse:
		return "ParseError"
	case Number:
		return "NumberError"
	case Variable:
		return "VariableError"
	case Import:
		return "ImportError"
	case Merge:
		return "MergeError"
	default:
		return "Error"
	}
}

// Span is a source location: a byte offset plus 1-based line and column,
// scoped to the Origin it was produced in.
type Span struct {
	Origin string
	Offset int
	Line   int
	Column int
}

func (s Span) String() string {
	if s.Origin == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.Origin, s.Line, s.Column)
}

// Error is the concrete type behind every error this module returns.
type Error struct {
	Kind       Kind
	Message    string
	Span       Span
	Related    []Span
	Suggestion string

	// Chain records the import chain (outermost first) an ImportError
	// propagated through, e.g. ["a.sym", "b.sym", "c.sym"].
	Chain []string
}

func New(kind Kind, span Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s (%s)", e.Kind, e.Message, e.Span)
	if len(e.Chain) > 1 {
		fmt.Fprintf(&b, "\n  imported via: %s", strings.Join(e.Chain, " -> "))
	}
	for _, r := range e.Related {
		fmt.Fprintf(&b, "\n  related: %s", r)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  help: did you mean %q?", e.Suggestion)
	}
	return b.String()
}

// WithRelated attaches a secondary span, e.g. the opener of a mismatched
// bracket, the object holding a duplicate key, or the earlier definition
// of a redefined variable.
func (e *Error) WithRelated(s Span) *Error {
	e.Related = append(e.Related, s)
	return e
}

// WithChain records the import chain this error surfaced through.
func (e *Error) WithChain(origins []string) *Error {
	e.Chain = append([]string(nil), origins...)
	return e
}

// WithSuggestion computes a "did you mean" candidate via fuzzy matching
// and attaches it if one is found. It never changes whether the error
// occurred; it only enriches the message for display.
func (e *Error) WithSuggestion(want string, candidates []string) *Error {
	if s := Suggest(want, candidates); s != "" {
		e.Suggestion = s
	}
	return e
}

// Suggest returns the closest candidate to want, or "" if candidates is
// empty or nothing is close enough to be useful.
func Suggest(want string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindNormalizedFold(want, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// List wraps multiple errors for implementations that want to collect
// more than the one error this module's entry points contractually return.
type List []error

func (l List) Error() string {
	msgs := make([]string, len(l))
	for i, err := range l {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}
