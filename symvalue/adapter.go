package symvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// KV is one key/value pair of an OrderedMap.
type KV struct {
	Key   string
	Value any
}

// OrderedMap is ToJSON's representation of a resolved Object: a
// map[string]any cannot preserve key order, contradicting spec.md §4.4's
// "Object -> object with keys in insertion order" adapter mapping, so
// ToJSON emits this instead. MarshalJSON writes its pairs out in order,
// which is the only way encoding/json can be made to honor that order
// since it always sorts map keys itself.
type OrderedMap []KV

// MarshalJSON writes m's pairs as a JSON object in insertion order.
func (m OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String renders m the way fmt would render a map literal, except in
// insertion order rather than Go's sorted map order — so the CLI's plain
// (non-JSON) output via "%v" still reads like one.
func (m OrderedMap) String() string {
	var b strings.Builder
	b.WriteString("map[")
	for i, kv := range m {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s:%v", kv.Key, kv.Value)
	}
	b.WriteByte(']')
	return b.String()
}

// asMap flattens m into a plain map[string]any, discarding order.
func (m OrderedMap) asMap() map[string]any {
	out := make(map[string]any, len(m))
	for _, kv := range m {
		out[kv.Key] = kv.Value
	}
	return out
}

// ToJSON converts a resolved Value into a generic tree of Go primitives
// (OrderedMap, []any, string, float64/int64, bool, nil) suitable for
// JSON encoding and for the structural equality the test harness requires
// (spec.md §4.4). Int renders as int64 when it fits, otherwise as the
// decimal string form of the big integer (still JSON-safe, just not a
// JSON number) so arbitrarily large literals are never silently truncated.
func ToJSON(v Value) any {
	switch t := v.(type) {
	case Null, nil:
		return nil
	case Bool:
		return bool(t)
	case Int:
		if t.V.IsInt64() {
			return t.V.Int64()
		}
		return t.V.String()
	case Float:
		switch {
		case t.IsNaN():
			return "nan"
		case t.IsNegInf():
			return "-inf"
		case t.IsInf():
			return "inf"
		default:
			return float64(t)
		}
	case Str:
		return string(t)
	case Symbol:
		return ":" + string(t)
	case Array:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ToJSON(e)
		}
		return out
	case *Object:
		out := make(OrderedMap, 0, t.Len())
		t.Range(func(key string, v Value) bool {
			out = append(out, KV{Key: key, Value: ToJSON(v)})
			return true
		})
		return out
	default:
		return nil
	}
}

// floatTolerance is the tolerance spec.md §4.4 requires for comparing
// numeric floats.
const floatTolerance = 1e-9

// Equal reports whether two generic JSON-like trees (as produced by
// ToJSON, or decoded from expected.json) are equal, comparing floats with
// a small tolerance and objects by key set, recursively. Both sides are
// first re-decoded through encoding/json, so an OrderedMap compares like
// the map[string]any a decoded fixture holds and an int64 like the float64
// encoding/json decodes every number to — Equal checks values, not the
// ordering ToJSON otherwise preserves for real output.
func Equal(a, b any) bool {
	norm := func(v any) any {
		raw, err := json.Marshal(v)
		if err != nil {
			return v
		}
		var out any
		if json.Unmarshal(raw, &out) != nil {
			return v
		}
		return out
	}
	return cmp.Equal(norm(a), norm(b),
		cmp.Comparer(func(x, y float64) bool {
			if math.IsNaN(x) && math.IsNaN(y) {
				return true
			}
			return math.Abs(x-y) <= floatTolerance
		}),
	)
}
