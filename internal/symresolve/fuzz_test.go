package symresolve

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Konfuzian/symbolic-language/symvalue"
)

// Property 3 (spec.md §8): removing or adding blank lines between fields
// never changes the resolved value. Exercised over many randomly-padded
// variants of the same document rather than one fixed pair, the way the
// teacher's own fuzz-style tests generate random well-formed inputs and
// check an invariant holds rather than comparing to one golden value.
func TestFuzzSeparatorIdentityNeverChangesResolvedValue(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	fields := []string{": a 1", ": b 2", ": c 3"}
	want := map[string]any{"a": int64(1), "b": int64(2), "c": int64(3)}

	for i := 0; i < 100; i++ {
		src := padFieldsWithBlankLines(rng, fields)
		val, err := Resolve([]byte(src), "<fuzz>", memLoader{})
		require.NoErrorf(t, err, "src:\n%s", src)
		require.Truef(t, symvalue.Equal(symvalue.ToJSON(val), want), "src:\n%s", src)
	}
}

// padFieldsWithBlankLines renders fields as one braced object, each
// written ":name value" with a randomly sized run of blank lines before
// the separating comma (and before the closing brace), and with the
// leading colon glued back onto "name" to form the real ":name" key
// token.
func padFieldsWithBlankLines(rng *rand.Rand, fields []string) string {
	var b strings.Builder
	b.WriteString("{ ")
	for i, f := range fields {
		key := strings.Replace(f, ": ", ":", 1)
		b.WriteString(key)
		b.WriteByte('\n')
		for j := 0; j < rng.Intn(3); j++ {
			b.WriteByte('\n')
		}
		if i < len(fields)-1 {
			b.WriteString(", ")
		}
	}
	for j := 0; j < rng.Intn(3); j++ {
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
	return b.String()
}
