// Package symcache implements an optional on-disk cache of resolved
// import values, keyed by a content hash of the imported source. It
// mirrors the teacher's core/planfmt canonical-hashing approach (CBOR
// encoding plus a cryptographic digest as the cache key), swapping
// planfmt's SHA-256 for BLAKE2b-256 since this cache keys on content
// rather than needing FIPS-approved hashing (DESIGN.md).
package symcache

import (
	"encoding/hex"
	"math/big"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/Konfuzian/symbolic-language/symvalue"
)

// FileCache persists resolved Values as CBOR blobs under a directory,
// keyed by blake2b-256(origin path || 0x00 || content).
type FileCache struct {
	dir string
}

// NewFileCache returns a cache rooted at dir. The directory is created
// lazily on first write.
func NewFileCache(dir string) *FileCache { return &FileCache{dir: dir} }

func (c *FileCache) keyFor(origin string, content []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(origin))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *FileCache) pathFor(key string) string {
	return filepath.Join(c.dir, key+".cbor")
}

// Get returns the cached Value for (origin, content), if present.
func (c *FileCache) Get(origin string, content []byte) (symvalue.Value, bool) {
	data, err := os.ReadFile(c.pathFor(c.keyFor(origin, content)))
	if err != nil {
		return nil, false
	}
	var w wireValue
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, false
	}
	return w.toValue(), true
}

// Put stores v under the key derived from (origin, content).
func (c *FileCache) Put(origin string, content []byte, v symvalue.Value) error {
	data, err := cbor.Marshal(fromValue(v))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.pathFor(c.keyFor(origin, content)), data, 0o644)
}

// wireValue is a CBOR-friendly mirror of symvalue.Value. Unlike
// symvalue.ToJSON's generic `any` tree, it keeps Int/Symbol/Str distinct
// so round-tripping through the cache is lossless.
type wireValue struct {
	Kind    byte
	Bool    bool        `cbor:",omitempty"`
	Int     string      `cbor:",omitempty"`
	Float   float64     `cbor:",omitempty"`
	Str     string      `cbor:",omitempty"`
	Arr     []wireValue `cbor:",omitempty"`
	ObjKeys []string    `cbor:",omitempty"`
	ObjVals []wireValue `cbor:",omitempty"`
}

const (
	kindNull byte = iota
	kindBool
	kindInt
	kindFloat
	kindStr
	kindSymbol
	kindArray
	kindObject
)

func fromValue(v symvalue.Value) wireValue {
	switch t := v.(type) {
	case symvalue.Null:
		return wireValue{Kind: kindNull}
	case symvalue.Bool:
		return wireValue{Kind: kindBool, Bool: bool(t)}
	case symvalue.Int:
		return wireValue{Kind: kindInt, Int: t.V.String()}
	case symvalue.Float:
		return wireValue{Kind: kindFloat, Float: float64(t)}
	case symvalue.Str:
		return wireValue{Kind: kindStr, Str: string(t)}
	case symvalue.Symbol:
		return wireValue{Kind: kindSymbol, Str: string(t)}
	case symvalue.Array:
		arr := make([]wireValue, len(t))
		for i, e := range t {
			arr[i] = fromValue(e)
		}
		return wireValue{Kind: kindArray, Arr: arr}
	case *symvalue.Object:
		keys := t.Keys()
		vals := make([]wireValue, len(keys))
		for i, k := range keys {
			fv, _ := t.Get(k)
			vals[i] = fromValue(fv)
		}
		return wireValue{Kind: kindObject, ObjKeys: append([]string(nil), keys...), ObjVals: vals}
	default:
		return wireValue{Kind: kindNull}
	}
}

func (w wireValue) toValue() symvalue.Value {
	switch w.Kind {
	case kindBool:
		return symvalue.Bool(w.Bool)
	case kindInt:
		n := new(big.Int)
		n.SetString(w.Int, 10)
		return symvalue.Int{V: n}
	case kindFloat:
		return symvalue.Float(w.Float)
	case kindStr:
		return symvalue.Str(w.Str)
	case kindSymbol:
		return symvalue.Symbol(w.Str)
	case kindArray:
		out := make(symvalue.Array, len(w.Arr))
		for i, e := range w.Arr {
			out[i] = e.toValue()
		}
		return out
	case kindObject:
		out := symvalue.NewObject()
		for i, k := range w.ObjKeys {
			out.Set(k, w.ObjVals[i].toValue())
		}
		return out
	default:
		return symvalue.Null{}
	}
}
