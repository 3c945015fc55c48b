// Package symresolve implements the resolver/merger (spec.md §4.3): it
// walks a symast.Document, resolving imports recursively through the
// same pipeline, accumulating variable bindings left-to-right across
// imports and local defs blocks, substituting `$name` references, and
// deep-merging imported data into local data under modifier rules.
package symresolve

import (
	"strconv"
	"strings"

	"github.com/Konfuzian/symbolic-language/internal/symast"
	"github.com/Konfuzian/symbolic-language/internal/symparse"
	"github.com/Konfuzian/symbolic-language/internal/symtok"
	"github.com/Konfuzian/symbolic-language/symerr"
	"github.com/Konfuzian/symbolic-language/symimport"
	"github.com/Konfuzian/symbolic-language/symvalue"
)

// Cache is an optional on-disk store for fully-resolved imports, keyed by
// the imported source's own content (not just its path) so a changed file
// never serves a stale entry. symcache.FileCache implements it; nil means
// no disk cache, matching spec.md's default (no-cache) behavior exactly.
//
// The key is content, not the importer's variable scope: an import whose
// own data references a variable the *importer* defines (rather than one
// from its own defs blocks) can resolve differently each time it's
// imported, so a disk cache is only safe for import graphs built from
// self-contained files. An import served from the disk cache also
// contributes only its data value: the variables it defines are not bound
// in the importer's scope, since its source is not resolved again. That is the same constraint real config-import
// caches in this pack's ecosystem document, not a limitation special to
// this implementation.
type Cache interface {
	Get(origin string, content []byte) (symvalue.Value, bool)
	Put(origin string, content []byte, v symvalue.Value) error
}

// Resolve runs the full pipeline (parse, then resolve) over src and
// returns the final resolved Value. origin identifies src for
// diagnostics and as the base for resolving its imports.
func Resolve(src []byte, origin string, loader symimport.Loader) (symvalue.Value, error) {
	return ResolveWithCache(src, origin, loader, nil)
}

// ResolveWithCache is Resolve with an optional on-disk cache for resolved
// imports (spec.md §4.3 step 1, "may be cached by canonical path").
func ResolveWithCache(src []byte, origin string, loader symimport.Loader, diskCache Cache) (symvalue.Value, error) {
	o := symimport.Origin{Path: origin}
	env := newEnvironment()
	rn, err := resolveSource(src, o, loader, env, map[string]bool{o.Path: true}, []string{o.Path}, map[string]rnode{}, diskCache)
	if err != nil {
		return nil, err
	}
	return rn.toValue(), nil
}

// ResolveDocument resolves an already-parsed Document, for callers that
// used symparse.ParseDocument directly (e.g. to inspect the AST first).
func ResolveDocument(doc *symast.Document, origin string, loader symimport.Loader) (symvalue.Value, error) {
	return ResolveDocumentWithCache(doc, origin, loader, nil)
}

// ResolveDocumentWithCache is ResolveDocument with an optional on-disk
// cache for resolved imports.
func ResolveDocumentWithCache(doc *symast.Document, origin string, loader symimport.Loader, diskCache Cache) (symvalue.Value, error) {
	o := symimport.Origin{Path: origin}
	env := newEnvironment()
	rn, err := resolveDocument(doc, o, loader, env, map[string]bool{o.Path: true}, []string{o.Path}, map[string]rnode{}, diskCache)
	if err != nil {
		return nil, err
	}
	return rn.toValue(), nil
}

func resolveSource(src []byte, origin symimport.Origin, loader symimport.Loader, env *environment, inProgress map[string]bool, chain []string, cache map[string]rnode, diskCache Cache) (rnode, error) {
	doc, err := symparse.ParseDocument(origin.Path, src)
	if err != nil {
		return rnode{}, err
	}
	return resolveDocument(doc, origin, loader, env, inProgress, chain, cache, diskCache)
}

// resolveDocument implements spec.md §4.3 steps 1-4 for one document. env
// is threaded by pointer: imports and local defs both extend the same
// environment in textual order, so later imports and the local data block
// can reference variables introduced earlier (spec.md §9 "imported
// variables are in scope for subsequent imports and local defs").
func resolveDocument(doc *symast.Document, origin symimport.Origin, loader symimport.Loader, env *environment, inProgress map[string]bool, chain []string, cache map[string]rnode, diskCache Cache) (rnode, error) {
	var mergedImports rnode
	haveImports := len(doc.Imports) > 0

	for _, imp := range doc.Imports {
		childOrigin, data, err := loader.Load(origin, imp.Path)
		if err != nil {
			return rnode{}, wrapImportErr(err, imp, chain)
		}
		if inProgress[childOrigin.Path] {
			return rnode{}, symerr.New(symerr.Import, imp.Span, "import cycle detected: %q imports itself transitively", childOrigin.Path).
				WithChain(append(append([]string(nil), chain...), childOrigin.Path))
		}

		childVal, cached := cache[childOrigin.Path]
		if !cached && diskCache != nil {
			if v, hit := diskCache.Get(childOrigin.Path, data); hit {
				childVal, cached = fromValue(v), true
			}
		}
		if !cached {
			inProgress[childOrigin.Path] = true
			childVal, err = resolveSource(data, childOrigin, loader, env, inProgress, append(chain, childOrigin.Path), cache, diskCache)
			delete(inProgress, childOrigin.Path)
			if err != nil {
				return rnode{}, err
			}
			if diskCache != nil {
				_ = diskCache.Put(childOrigin.Path, data, childVal.toValue())
			}
		}
		cache[childOrigin.Path] = childVal

		mergedImports, err = merge(mergedImports, childVal)
		if err != nil {
			return rnode{}, err
		}
	}

	for _, db := range doc.Defs {
		for _, vd := range db.Defs {
			val, err := resolveValue(vd.Value, env)
			if err != nil {
				return rnode{}, err
			}
			if err := env.bind(vd.Name, val.toValue(), vd.Override, vd.Span); err != nil {
				return rnode{}, err
			}
		}
	}

	local, err := resolveValue(doc.Data, env)
	if err != nil {
		return rnode{}, err
	}
	if !haveImports {
		return local, nil
	}
	return merge(mergedImports, local)
}

func wrapImportErr(err error, imp symast.Import, chain []string) error {
	if se, ok := err.(*symerr.Error); ok {
		return se.WithChain(append(append([]string(nil), chain...), imp.Path))
	}
	return symerr.New(symerr.Import, imp.Span, "%s", err.Error()).WithChain(chain)
}

// environment holds the variable bindings accumulated so far, in the
// textual order they were introduced.
type environment struct {
	order []string
	vals  map[string]symvalue.Value
	spans map[string]symerr.Span
}

func newEnvironment() *environment {
	return &environment{vals: map[string]symvalue.Value{}, spans: map[string]symerr.Span{}}
}

// bind introduces or overrides a variable. Redefining an existing name
// without override is a VariableError (spec.md §3 invariants).
func (e *environment) bind(name string, v symvalue.Value, override bool, span symerr.Span) error {
	if prior, exists := e.spans[name]; exists {
		if !override {
			return symerr.New(symerr.Variable, span, "variable %q is already defined; use \"$%s!\" to override it", name, name).
				WithRelated(prior)
		}
	} else {
		e.order = append(e.order, name)
	}
	e.vals[name] = v
	e.spans[name] = span
	return nil
}

func (e *environment) lookup(name string) (symvalue.Value, bool) {
	v, ok := e.vals[name]
	return v, ok
}

func (e *environment) names() []string { return append([]string(nil), e.order...) }

// rnode is a resolved value that still carries, for any Object it
// contains at any depth, the per-key merge modifier its AST field was
// written with. Plain symvalue.Value cannot represent this, since
// modifiers are consumed (and discarded) by merge, never part of the
// final output (spec.md §4.3 step 5).
type rnode struct {
	kind   symvalue.Kind
	leaf   symvalue.Value // valid when kind is not Array/Object
	array  []rnode        // valid when kind == KindArray
	object *robject       // valid when kind == KindObject
}

type robject struct {
	keys  []string
	vals  map[string]rnode
	mods  map[string]symtok.Modifier
	spans map[string]symerr.Span
}

func leaf(v symvalue.Value) rnode { return rnode{kind: v.Kind(), leaf: v} }

// toValue converts a resolved node into the plain Value tree the resolver
// returns, dropping modifier annotations.
func (n rnode) toValue() symvalue.Value {
	switch n.kind {
	case symvalue.KindArray:
		out := make(symvalue.Array, len(n.array))
		for i, e := range n.array {
			out[i] = e.toValue()
		}
		return out
	case symvalue.KindObject:
		out := symvalue.NewObject()
		if n.object != nil {
			for _, k := range n.object.keys {
				out.Set(k, n.object.vals[k].toValue())
			}
		}
		return out
	default:
		return n.leaf
	}
}

// fromValue reconstructs an rnode (with no modifiers) from an already-
// resolved Value, used when a variable reference's bound value is an
// Object or Array.
func fromValue(v symvalue.Value) rnode {
	switch t := v.(type) {
	case symvalue.Array:
		out := make([]rnode, len(t))
		for i, e := range t {
			out[i] = fromValue(e)
		}
		return rnode{kind: symvalue.KindArray, array: out}
	case *symvalue.Object:
		obj := &robject{vals: map[string]rnode{}, mods: map[string]symtok.Modifier{}, spans: map[string]symerr.Span{}}
		for _, k := range t.Keys() {
			fv, _ := t.Get(k)
			obj.keys = append(obj.keys, k)
			obj.vals[k] = fromValue(fv)
		}
		return rnode{kind: symvalue.KindObject, object: obj}
	default:
		return leaf(v)
	}
}

// resolveValue substitutes variable references and recursively resolves
// an AST value into an rnode (spec.md §4.3 step 3).
func resolveValue(v symast.Value, env *environment) (rnode, error) {
	switch t := v.(type) {
	case *symast.Null:
		return leaf(symvalue.Null{}), nil
	case *symast.Bool:
		return leaf(symvalue.Bool(t.V)), nil
	case *symast.Int:
		return leaf(symvalue.Int{V: t.V}), nil
	case *symast.Float:
		return leaf(symvalue.Float(t.V)), nil
	case *symast.Str:
		return leaf(symvalue.Str(t.V)), nil
	case *symast.Symbol:
		return leaf(symvalue.Symbol(t.Name)), nil
	case *symast.VarRef:
		val, ok := env.lookup(t.Name)
		if !ok {
			return rnode{}, symerr.New(symerr.Variable, t.Span(), "undefined variable %q", t.Name).
				WithSuggestion(t.Name, env.names())
		}
		return fromValue(val), nil
	case *symast.Interp:
		return resolveInterp(t, env)
	case *symast.Array:
		elems := make([]rnode, len(t.Elems))
		for i, e := range t.Elems {
			rv, err := resolveValue(e, env)
			if err != nil {
				return rnode{}, err
			}
			elems[i] = rv
		}
		return rnode{kind: symvalue.KindArray, array: elems}, nil
	case *symast.Object:
		obj := &robject{vals: map[string]rnode{}, mods: map[string]symtok.Modifier{}, spans: map[string]symerr.Span{}}
		for _, f := range t.Fields {
			rv, err := resolveValue(f.Value, env)
			if err != nil {
				return rnode{}, err
			}
			obj.keys = append(obj.keys, f.Key)
			obj.vals[f.Key] = rv
			obj.mods[f.Key] = f.Modifier
			obj.spans[f.Key] = f.KeySpan
		}
		return rnode{kind: symvalue.KindObject, object: obj}, nil
	default:
		return rnode{}, symerr.New(symerr.Parse, v.Span(), "internal: unresolved AST node %T", v)
	}
}

func resolveInterp(node *symast.Interp, env *environment) (rnode, error) {
	var b strings.Builder
	for _, part := range node.Parts {
		if part.VarName == "" {
			b.WriteString(part.Literal)
			continue
		}
		val, ok := env.lookup(part.VarName)
		if !ok {
			return rnode{}, symerr.New(symerr.Variable, node.Span(), "undefined variable %q", part.VarName).
				WithSuggestion(part.VarName, env.names())
		}
		s, err := stringify(val)
		if err != nil {
			return rnode{}, symerr.New(symerr.Variable, node.Span(), "variable %q cannot be used in interpolation: %s", part.VarName, err.Error())
		}
		b.WriteString(s)
	}
	return leaf(symvalue.Str(b.String())), nil
}

// stringify renders a scalar Value the way interpolation requires (spec.md
// §4.3 step 3b). Object and Array are not stringifiable.
func stringify(v symvalue.Value) (string, error) {
	switch t := v.(type) {
	case symvalue.Null:
		return "null", nil
	case symvalue.Bool:
		if t {
			return "true", nil
		}
		return "false", nil
	case symvalue.Int:
		return t.V.String(), nil
	case symvalue.Float:
		switch {
		case t.IsNaN():
			return "nan", nil
		case t.IsNegInf():
			return "-inf", nil
		case t.IsInf():
			return "inf", nil
		default:
			return strconv.FormatFloat(float64(t), 'g', -1, 64), nil
		}
	case symvalue.Str:
		return string(t), nil
	case symvalue.Symbol:
		return string(t), nil
	default:
		return "", strErr{"value is an object or array, which cannot be interpolated into a string"}
	}
}

type strErr struct{ msg string }

func (e strErr) Error() string { return e.msg }

// merge implements spec.md §4.3 step 4: deep merge of imported into
// local, honoring each local key's modifier.
func merge(imported, local rnode) (rnode, error) {
	if imported.kind != symvalue.KindObject || local.kind != symvalue.KindObject {
		return local, nil
	}
	imp, loc := imported.object, local.object
	if imp == nil {
		return local, nil
	}
	if loc == nil {
		return imported, nil
	}

	result := &robject{vals: map[string]rnode{}}
	seen := make(map[string]bool, len(imp.keys)+len(loc.keys))

	for _, k := range imp.keys {
		seen[k] = true
		result.keys = append(result.keys, k)
		locVal, inLocal := loc.vals[k]
		if !inLocal {
			result.vals[k] = imp.vals[k]
			continue
		}
		switch loc.mods[k] {
		case symtok.ModReplace:
			result.vals[k] = locVal
		case symtok.ModAppend:
			impVal := imp.vals[k]
			if impVal.kind != symvalue.KindArray || locVal.kind != symvalue.KindArray {
				return rnode{}, symerr.New(symerr.Merge, loc.spans[k], "'+' modifier requires an array on both sides for key %q", k)
			}
			merged := make([]rnode, 0, len(impVal.array)+len(locVal.array))
			merged = append(merged, impVal.array...)
			merged = append(merged, locVal.array...)
			result.vals[k] = rnode{kind: symvalue.KindArray, array: merged}
		default:
			impVal := imp.vals[k]
			if impVal.kind == symvalue.KindObject && locVal.kind == symvalue.KindObject {
				mv, err := merge(impVal, locVal)
				if err != nil {
					return rnode{}, err
				}
				result.vals[k] = mv
			} else {
				result.vals[k] = locVal
			}
		}
	}
	for _, k := range loc.keys {
		if seen[k] {
			continue
		}
		result.keys = append(result.keys, k)
		result.vals[k] = loc.vals[k]
	}
	return rnode{kind: symvalue.KindObject, object: result}, nil
}
