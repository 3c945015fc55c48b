// Package symast defines the pre-resolution AST that symparse builds and
// symresolve consumes (spec.md §3 "AST"). Unlike symvalue.Value, AST
// values may still contain VarRef and Interp nodes, and objects carry a
// per-field Modifier recording an explicit '!' or '+' suffix.
package symast

import (
	"math/big"

	"github.com/Konfuzian/symbolic-language/internal/symtok"
	"github.com/Konfuzian/symbolic-language/symerr"
)

// Value is the sum type of every AST node that can occupy a field or
// array-element position.
type Value interface {
	Span() symerr.Span
	ast()
}

type base struct{ span symerr.Span }

func (b base) Span() symerr.Span { return b.span }
func (base) ast()                {}

// Null is the literal `null`.
type Null struct{ base }

// Bool is a literal `true`/`false`.
type Bool struct {
	base
	V bool
}

// Int is an integer literal, stored at arbitrary precision.
type Int struct {
	base
	V *big.Int
}

// Float is a float literal, including the `inf`/`-inf`/`nan` forms.
type Float struct {
	base
	V float64
}

// Str is a plain (unquoted, positionally scanned) string literal.
type Str struct {
	base
	V string
}

// Symbol is a `:name` literal value.
type Symbol struct {
	base
	Name string
}

// VarRef is a bare `$name` occupying an entire value position.
type VarRef struct {
	base
	Name string
}

// Interp is a string containing one or more `$name` substitutions mixed
// with literal text, assembled by the parser from lexer string chunks
// (spec.md §3 "Interp (string interpolation)").
type Interp struct {
	base
	Parts []InterpPart
}

// InterpPart is either a literal run of text or a variable reference.
type InterpPart struct {
	Literal string
	VarName string // non-empty means this part is a $VarName reference
}

// Array is an ordered sequence of element values.
type Array struct {
	base
	Elems []Value
}

// Field is one key/value pair of an Object, carrying the modifier (if
// any) the key was written with. VarDef records whether the key was
// written as `$name` rather than `:name` — classifyDefsBlock needs this
// to reject a `:`-keyed field smuggled into a non-final top-level block.
type Field struct {
	Key      string
	Modifier symtok.Modifier
	Value    Value
	KeySpan  symerr.Span
	VarDef   bool
}

// Object is an ordered mapping of fields. Like symvalue.Object it
// preserves insertion order; unlike it, a key's value may itself be
// unresolved (VarRef/Interp) and duplicate keys are a parse-time error
// rather than silently overwritten.
type Object struct {
	base
	Fields []Field
}

// Get returns the field for key, if present.
func (o *Object) Get(key string) (Field, bool) {
	for _, f := range o.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// VarDef is one `$name value` or `$name! value` entry of a DefsBlock.
type VarDef struct {
	Name     string
	Override bool
	Value    Value
	Span     symerr.Span
}

// DefsBlock is a top-level object whose fields are entirely $-prefixed
// (spec.md §3 "DefsBlock").
type DefsBlock struct {
	Defs []VarDef
	Span symerr.Span
}

// Import is one `@import <path>` directive appearing in the document's
// prefix region.
type Import struct {
	Path string
	Span symerr.Span
}

// Document is the full parse result of one SYM source: its imports, its
// defs blocks (each contributing variables, left to right), and its
// single trailing data value.
type Document struct {
	Imports []Import
	Defs    []DefsBlock
	Data    Value
}

// ImportPaths returns the raw `@import` paths in source order, without
// running the resolver. Callers building a dependency graph (or a cycle
// check ahead of a full resolve) can use this; the resolver remains the
// sole authority on whether those imports actually succeed or cycle.
func (d *Document) ImportPaths() []string {
	paths := make([]string, len(d.Imports))
	for i, imp := range d.Imports {
		paths[i] = imp.Path
	}
	return paths
}

// Constructors. symparse builds nodes exclusively through these, since
// base's span field is unexported.

func NewNull(span symerr.Span) *Null { return &Null{base{span}} }

func NewBool(span symerr.Span, v bool) *Bool { return &Bool{base{span}, v} }

func NewInt(span symerr.Span, v *big.Int) *Int { return &Int{base{span}, v} }

func NewFloat(span symerr.Span, v float64) *Float { return &Float{base{span}, v} }

func NewStr(span symerr.Span, v string) *Str { return &Str{base{span}, v} }

func NewSymbol(span symerr.Span, name string) *Symbol { return &Symbol{base{span}, name} }

func NewVarRef(span symerr.Span, name string) *VarRef { return &VarRef{base{span}, name} }

func NewInterp(span symerr.Span, parts []InterpPart) *Interp { return &Interp{base{span}, parts} }

func NewArray(span symerr.Span, elems []Value) *Array { return &Array{base{span}, elems} }

func NewObject(span symerr.Span, fields []Field) *Object { return &Object{base{span}, fields} }
