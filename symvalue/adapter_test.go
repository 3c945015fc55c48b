package symvalue

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToJSON(t *testing.T) {
	obj := NewObject()
	obj.Set("name", Str("ferris"))
	obj.Set("age", NewInt(28))
	obj.Set("active", Bool(true))
	obj.Set("tags", Array{Symbol("admin"), Symbol("staff")})
	obj.Set("nothing", Null{})

	got := ToJSON(obj)
	want := map[string]any{
		"name":    "ferris",
		"age":     int64(28),
		"active":  true,
		"tags":    []any{":admin", ":staff"},
		"nothing": nil,
	}
	require.True(t, Equal(got, want), "got %#v, want %#v", got, want)
}

// TestToJSONPreservesKeyOrder covers spec.md §4.4's adapter mapping
// "Object -> object with keys in insertion order": ToJSON must not route
// objects through map[string]any, which would let encoding/json re-sort
// them alphabetically.
func TestToJSONPreservesKeyOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("zebra", NewInt(1))
	obj.Set("apple", NewInt(2))
	obj.Set("mango", NewInt(3))

	got, ok := ToJSON(obj).(OrderedMap)
	require.True(t, ok, "ToJSON(*Object) should produce an OrderedMap")
	require.Equal(t, []string{"zebra", "apple", "mango"}, keysOf(got))

	encoded, err := json.Marshal(got)
	require.NoError(t, err)
	require.Equal(t, `{"zebra":1,"apple":2,"mango":3}`, string(encoded))
}

func keysOf(m OrderedMap) []string {
	out := make([]string, len(m))
	for i, kv := range m {
		out[i] = kv.Key
	}
	return out
}

func TestToJSONSpecialFloats(t *testing.T) {
	require.Equal(t, "inf", ToJSON(Float(math.Inf(1))))
	require.Equal(t, "-inf", ToJSON(Float(math.Inf(-1))))
	require.Equal(t, "nan", ToJSON(Float(math.NaN())))
	require.InDelta(t, 6.022e23, ToJSON(Float(6.022e23)), 1e15)
}

func TestEqualToleratesFloatNoise(t *testing.T) {
	require.True(t, Equal(1.0000000001, 1.0))
	require.False(t, Equal(1.01, 1.0))
}

// TestToJSONOutputEqualsItself checks that ToJSON's output compares equal
// to itself under Equal. ToJSON takes a Value, so its own generic output
// cannot be passed back through it; this does not test applying the
// adapter twice.
func TestToJSONOutputEqualsItself(t *testing.T) {
	obj := NewObject()
	obj.Set("x", NewInt(1))
	once := ToJSON(obj)
	require.True(t, Equal(once, once))
}
