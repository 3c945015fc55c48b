package symparse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Konfuzian/symbolic-language/internal/symast"
	"github.com/Konfuzian/symbolic-language/internal/symtok"
	"github.com/Konfuzian/symbolic-language/symerr"
)

func TestParseEmptyObjectAndArray(t *testing.T) {
	doc, err := ParseDocument("<test>", []byte("{}"))
	require.NoError(t, err)
	obj, ok := doc.Data.(*symast.Object)
	require.True(t, ok)
	require.Empty(t, obj.Fields)

	doc2, err := ParseDocument("<test>", []byte("[]"))
	require.NoError(t, err)
	arr, ok := doc2.Data.(*symast.Array)
	require.True(t, ok)
	require.Empty(t, arr.Elems)
}

func TestParseArray(t *testing.T) {
	doc, err := ParseDocument("<test>", []byte("[1, 2, 3]"))
	require.NoError(t, err)
	arr, ok := doc.Data.(*symast.Array)
	require.True(t, ok)
	require.Len(t, arr.Elems, 1)
	str, ok := arr.Elems[0].(*symast.Str)
	require.True(t, ok)
	require.Equal(t, "1, 2, 3", str.V)
}

// Property 1: an inline comma with no preceding newline is literal text,
// not a separator.
func TestInlineCommaIsLiteral(t *testing.T) {
	doc, err := ParseDocument("<test>", []byte("{ :message Hello, world }"))
	require.NoError(t, err)
	obj := doc.Data.(*symast.Object)
	require.Len(t, obj.Fields, 1)
	str, ok := obj.Fields[0].Value.(*symast.Str)
	require.True(t, ok)
	require.Equal(t, "Hello, world", str.V)
}

// Property 3: a real separator requires a preceding newline.
func TestMultipleFieldsSeparatedByNewlineComma(t *testing.T) {
	doc, err := ParseDocument("<test>", []byte("{ :a 1\n, :b 2\n, :c 3\n}"))
	require.NoError(t, err)
	obj := doc.Data.(*symast.Object)
	require.Len(t, obj.Fields, 3)
	require.Equal(t, "a", obj.Fields[0].Key)
	require.Equal(t, "b", obj.Fields[1].Key)
	require.Equal(t, "c", obj.Fields[2].Key)
}

func TestParseDefsBlockThenData(t *testing.T) {
	src := "{ $env production }\n\n{ :name hello }"
	doc, err := ParseDocument("<test>", []byte(src))
	require.NoError(t, err)
	require.Len(t, doc.Defs, 1)
	require.Equal(t, "env", doc.Defs[0].Defs[0].Name)
	obj, ok := doc.Data.(*symast.Object)
	require.True(t, ok)
	require.Equal(t, "name", obj.Fields[0].Key)
}

func TestDuplicateKeyIsParseError(t *testing.T) {
	_, err := ParseDocument("<test>", []byte("{ :a 1\n, :a 2\n}"))
	require.Error(t, err)
}

func TestDuplicateVariableInDefsBlockIsError(t *testing.T) {
	src := "{ $a 1\n, $a 2\n}\n\n{ :data 1 }"
	_, err := ParseDocument("<test>", []byte(src))
	require.Error(t, err)
}

func TestNonFinalNonDefsBlockIsError(t *testing.T) {
	src := "{ :a 1 }\n\n{ :b 2 }"
	_, err := ParseDocument("<test>", []byte(src))
	require.Error(t, err)
}

func TestMismatchedBracketError(t *testing.T) {
	_, err := ParseDocument("<test>", []byte("{:a 1]"))
	require.Error(t, err)
}

// A closer of the wrong kind reports the richer "mismatched closing
// bracket" diagnostic, naming the opener's span, rather than a generic
// "expected a key"/"expected ','" error.
func TestMismatchedBracketNamesOpenerSpan(t *testing.T) {
	_, err := ParseDocument("<test>", []byte("{ :a 1]"))
	require.Error(t, err)
	se, ok := err.(*symerr.Error)
	require.True(t, ok)
	require.Contains(t, se.Message, "mismatched closing bracket")
	require.Len(t, se.Related, 1)

	_, err2 := ParseDocument("<test>", []byte("[1}"))
	require.Error(t, err2)
	se2, ok := err2.(*symerr.Error)
	require.True(t, ok)
	require.Contains(t, se2.Message, "mismatched closing bracket")
}

func TestUnclosedBracketError(t *testing.T) {
	_, err := ParseDocument("<test>", []byte("{:a 1"))
	require.Error(t, err)
}

func TestEmptyDocumentIsError(t *testing.T) {
	_, err := ParseDocument("<test>", []byte("   \n  "))
	require.Error(t, err)
}

func TestNestedObjectRejectsVarDef(t *testing.T) {
	_, err := ParseDocument("<test>", []byte("{ :outer {$inner 1} }"))
	require.Error(t, err)
}

// Property 10: symbol vs string.
func TestSymbolVsStringMidValue(t *testing.T) {
	doc, err := ParseDocument("<test>", []byte("{ :status :running }"))
	require.NoError(t, err)
	obj := doc.Data.(*symast.Object)
	sym, ok := obj.Fields[0].Value.(*symast.Symbol)
	require.True(t, ok)
	require.Equal(t, "running", sym.Name)

	doc2, err := ParseDocument("<test>", []byte("{ :image nginx:alpine }"))
	require.NoError(t, err)
	obj2 := doc2.Data.(*symast.Object)
	str, ok := obj2.Fields[0].Value.(*symast.Str)
	require.True(t, ok)
	require.Equal(t, "nginx:alpine", str.V)
}

func TestVarRefValue(t *testing.T) {
	doc, err := ParseDocument("<test>", []byte("{ :env $stage }"))
	require.NoError(t, err)
	obj := doc.Data.(*symast.Object)
	ref, ok := obj.Fields[0].Value.(*symast.VarRef)
	require.True(t, ok)
	require.Equal(t, "stage", ref.Name)
}

func TestInterpolationSplitsOnVarRef(t *testing.T) {
	doc, err := ParseDocument("<test>", []byte("{ :host db.$env.example.com }"))
	require.NoError(t, err)
	obj := doc.Data.(*symast.Object)
	interp, ok := obj.Fields[0].Value.(*symast.Interp)
	require.True(t, ok)
	require.Len(t, interp.Parts, 3)
	require.Equal(t, "db.", interp.Parts[0].Literal)
	require.Equal(t, "env", interp.Parts[1].VarName)
	require.Equal(t, ".example.com", interp.Parts[2].Literal)
}

func TestModifierParsedOnKey(t *testing.T) {
	doc, err := ParseDocument("<test>", []byte("{ :tags! [1] }"))
	require.NoError(t, err)
	obj := doc.Data.(*symast.Object)
	require.Equal(t, symtok.ModReplace, obj.Fields[0].Modifier)
}

func TestImportsCollected(t *testing.T) {
	src := "@import base.sym\n@import extra.sym\n{ :name here }"
	doc, err := ParseDocument("<test>", []byte(src))
	require.NoError(t, err)
	require.Len(t, doc.Imports, 2)
	require.Equal(t, "base.sym", doc.Imports[0].Path)
	require.Equal(t, "extra.sym", doc.Imports[1].Path)
}

func TestMissingSeparatorBetweenFieldsIsError(t *testing.T) {
	_, err := ParseDocument("<test>", []byte("{ :a 1\n:b 2\n}"))
	require.Error(t, err)
}

func TestEmptyValueYieldsEmptyString(t *testing.T) {
	doc, err := ParseDocument("<test>", []byte("{ :name\n, :age 28 }"))
	require.NoError(t, err)
	obj := doc.Data.(*symast.Object)
	str, ok := obj.Fields[0].Value.(*symast.Str)
	require.True(t, ok)
	require.Equal(t, "", str.V)
}

// Property 5: numeric literal parity at the parser level.
func TestNumericLiteralsParsedAsInt(t *testing.T) {
	doc, err := ParseDocument("<test>", []byte("{ :n 0xff }"))
	require.NoError(t, err)
	obj := doc.Data.(*symast.Object)
	n, ok := obj.Fields[0].Value.(*symast.Int)
	require.True(t, ok)
	require.Equal(t, "255", n.V.String())
}

// Property 4 / E6: escape at value start.
func TestEscapedDollarAtValueStart(t *testing.T) {
	doc, err := ParseDocument("<test>", []byte(`{ :price \$99.99 }`))
	require.NoError(t, err)
	obj := doc.Data.(*symast.Object)
	str, ok := obj.Fields[0].Value.(*symast.Str)
	require.True(t, ok)
	require.Equal(t, "$99.99", str.V)
}

// E5: multiline string value.
func TestMultilineStringValue(t *testing.T) {
	src := "{ :poem \n    Roses are red\n    Violets are blue\n, :author Anonymous\n}"
	doc, err := ParseDocument("<test>", []byte(src))
	require.NoError(t, err)
	obj := doc.Data.(*symast.Object)
	poem, ok := obj.Fields[0].Value.(*symast.Str)
	require.True(t, ok)
	require.Equal(t, "Roses are red\nViolets are blue", poem.V)
	author, ok := obj.Fields[1].Value.(*symast.Str)
	require.True(t, ok)
	require.Equal(t, "Anonymous", author.V)
}
