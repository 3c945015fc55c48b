package sym_test

import (
	"testing"

	"github.com/Konfuzian/symbolic-language/internal/symtestkit"
)

// TestGoldenCases drives every fixture directory under testdata/golden,
// each an input.sym plus expected.json or error.json per spec.md §6's
// test-case file format.
func TestGoldenCases(t *testing.T) {
	symtestkit.RunDir(t, "testdata/golden")
}
