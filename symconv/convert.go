// Package symconv converts JSON, YAML, and TOML source bytes into a
// symvalue.Value tree, for the CLI's `--from-json`/`--from-yaml`/
// `--from-toml` flags (spec.md §6 CLI surface; these converters
// themselves are explicitly out of the specified core, so they live in
// their own leaf package rather than inside symvalue).
//
// Each format's decoder produces plain Go values (map[string]any,
// []any, string, bool, numbers, nil); FromGeneric maps those uniformly
// onto symvalue.Value. None of these formats distinguish a Symbol from a
// string, so decoded values are always Str, never Symbol.
package symconv

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"

	goyaml "github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/Konfuzian/symbolic-language/symvalue"
)

// FromJSON decodes JSON source into a Value tree.
func FromJSON(src []byte) (symvalue.Value, error) {
	var v any
	if err := json.Unmarshal(src, &v); err != nil {
		return nil, fmt.Errorf("symconv: invalid JSON: %w", err)
	}
	return FromGeneric(v), nil
}

// FromYAML decodes YAML source into a Value tree.
func FromYAML(src []byte) (symvalue.Value, error) {
	var v any
	if err := goyaml.Unmarshal(src, &v); err != nil {
		return nil, fmt.Errorf("symconv: invalid YAML: %w", err)
	}
	return FromGeneric(v), nil
}

// FromTOML decodes TOML source into a Value tree.
func FromTOML(src []byte) (symvalue.Value, error) {
	var v map[string]any
	if err := toml.Unmarshal(src, &v); err != nil {
		return nil, fmt.Errorf("symconv: invalid TOML: %w", err)
	}
	return FromGeneric(v), nil
}

// FromGeneric maps a decoded-format tree (as produced by encoding/json,
// goccy/go-yaml, or pelletier/go-toml) onto symvalue.Value. Map keys are
// sorted, since none of those decoders preserve source key order in a
// plain map[string]any.
func FromGeneric(v any) symvalue.Value {
	switch t := v.(type) {
	case nil:
		return symvalue.Null{}
	case bool:
		return symvalue.Bool(t)
	case string:
		return symvalue.Str(t)
	case int:
		return symvalue.NewInt(int64(t))
	case int64:
		return symvalue.NewInt(t)
	case uint64:
		return symvalue.Int{V: new(big.Int).SetUint64(t)}
	case float64:
		return symvalue.Float(t)
	case float32:
		return symvalue.Float(float64(t))
	case json.Number:
		if n, ok := new(big.Int).SetString(t.String(), 10); ok {
			return symvalue.Int{V: n}
		}
		f, _ := t.Float64()
		return symvalue.Float(f)
	case []any:
		out := make(symvalue.Array, len(t))
		for i, e := range t {
			out[i] = FromGeneric(e)
		}
		return out
	case map[string]any:
		out := symvalue.NewObject()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out.Set(k, FromGeneric(t[k]))
		}
		return out
	case map[any]any:
		conv := make(map[string]any, len(t))
		for k, val := range t {
			conv[fmt.Sprint(k)] = val
		}
		return FromGeneric(conv)
	default:
		return symvalue.Str(fmt.Sprint(t))
	}
}
