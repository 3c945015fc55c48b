// Package symtestkit drives the golden test-case directories spec.md §6
// defines for the external test harness: a directory holding input.sym
// plus exactly one of expected.json or error.json. It is grounded on the
// teacher's own integration-test style (runtime/parser/integration_test.go)
// of parsing a literal input and asserting on the resulting structure,
// adapted here to a fixture-directory driver since SYM's test-case format
// is itself part of the spec's external interface.
package symtestkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	sym "github.com/Konfuzian/symbolic-language"
	"github.com/Konfuzian/symbolic-language/symerr"
	"github.com/Konfuzian/symbolic-language/symload"
	"github.com/Konfuzian/symbolic-language/symvalue"
)

// ErrorExpectation is error.json's shape (spec.md §6): every field is
// optional, and only the fields present are checked.
type ErrorExpectation struct {
	Type           string `json:"type"`
	MessagePattern string `json:"messagePattern"`
	Line           *int   `json:"line"`
}

// Case is one golden test-case directory.
type Case struct {
	Dir      string
	Name     string
	Source   []byte
	Expected any               // generic JSON-like view, nil if this is an error case
	WantErr  *ErrorExpectation // nil if this is a success case
}

// Load reads a single test-case directory. Exactly one of expected.json
// or error.json must be present alongside input.sym.
func Load(dir string) (*Case, error) {
	src, err := os.ReadFile(filepath.Join(dir, "input.sym"))
	if err != nil {
		return nil, fmt.Errorf("reading input.sym: %w", err)
	}

	c := &Case{Dir: dir, Name: filepath.Base(dir), Source: src}

	expPath := filepath.Join(dir, "expected.json")
	errPath := filepath.Join(dir, "error.json")
	hasExp := fileExists(expPath)
	hasErr := fileExists(errPath)

	switch {
	case hasExp && hasErr:
		return nil, fmt.Errorf("%s: both expected.json and error.json present", dir)
	case hasExp:
		raw, err := os.ReadFile(expPath)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &c.Expected); err != nil {
			return nil, fmt.Errorf("parsing expected.json: %w", err)
		}
	case hasErr:
		raw, err := os.ReadFile(errPath)
		if err != nil {
			return nil, err
		}
		var want ErrorExpectation
		if err := json.Unmarshal(raw, &want); err != nil {
			return nil, fmt.Errorf("parsing error.json: %w", err)
		}
		c.WantErr = &want
	default:
		return nil, fmt.Errorf("%s: neither expected.json nor error.json present", dir)
	}
	return c, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Run executes one case against the full parse_document pipeline and
// asserts its outcome, per spec.md §6's test-case semantics.
func (c *Case) Run(t *testing.T) {
	t.Helper()
	val, err := sym.ParseDocument(c.Source, filepath.Join(c.Dir, "input.sym"), symload.NewFSLoader())

	if c.WantErr != nil {
		require.Error(t, err)
		assertError(t, err, c.WantErr)
		return
	}

	require.NoError(t, err)
	got := symvalue.ToJSON(val)
	require.Truef(t, symvalue.Equal(got, c.Expected), "case %s: got %#v, want %#v", c.Name, got, c.Expected)
}

func assertError(t *testing.T, err error, want *ErrorExpectation) {
	t.Helper()
	se, ok := err.(*symerr.Error)
	require.Truef(t, ok, "case produced a non-*symerr.Error: %v", err)

	if want.Type != "" {
		require.Equal(t, want.Type, se.Kind.String())
	}
	if want.MessagePattern != "" {
		re, err := regexp.Compile("(?i)" + want.MessagePattern)
		require.NoError(t, err)
		require.Truef(t, re.MatchString(se.Message), "message %q does not match pattern %q", se.Message, want.MessagePattern)
	}
	if want.Line != nil {
		require.Equal(t, *want.Line, se.Span.Line)
	}
}

// RunDir discovers every golden case directory under root (any directory
// directly containing an input.sym) and runs each as its own subtest.
func RunDir(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if !fileExists(filepath.Join(dir, "input.sym")) {
			continue
		}
		c, err := Load(dir)
		require.NoErrorf(t, err, "loading case %s", dir)
		t.Run(c.Name, c.Run)
	}
}
