// Package symparse builds a symast.Document from SYM source text, using
// symlex to scan tokens. Each container parse carries its opener's span,
// so mismatched or unclosed brackets produce a precise error naming both
// the opener and the point of mismatch; a bracketTracker additionally
// records the stack of open brackets, following the teacher's
// parser/errors.go BracketTracker design (DESIGN.md).
package symparse

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/Konfuzian/symbolic-language/internal/symast"
	"github.com/Konfuzian/symbolic-language/internal/symlex"
	"github.com/Konfuzian/symbolic-language/internal/symtok"
	"github.com/Konfuzian/symbolic-language/symerr"
)

// bracketTracker records the currently open brackets and their spans.
// Mismatch and unclosed-bracket errors take the opener's span from the
// openSpan each container parse passes to expectClose, not from here.
type bracketTracker struct {
	stack []symerr.Span
	kinds []byte // '{' or '['
}

func (b *bracketTracker) push(span symerr.Span, kind byte) {
	b.stack = append(b.stack, span)
	b.kinds = append(b.kinds, kind)
}

func (b *bracketTracker) pop() (symerr.Span, byte) {
	n := len(b.stack) - 1
	span, kind := b.stack[n], b.kinds[n]
	b.stack = b.stack[:n]
	b.kinds = b.kinds[:n]
	return span, kind
}

// ParseDocument parses a complete SYM source buffer. origin identifies
// the source for diagnostics (typically a file path or "<stdin>").
func ParseDocument(origin string, src []byte) (*symast.Document, error) {
	lx := symlex.New(origin, src)
	p := &parser{lx: lx}

	var imports []symast.Import
	for {
		tok, ok, err := lx.ImportDirective()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		imports = append(imports, symast.Import{Path: tok.Text, Span: tok.Span})
	}

	var topValues []symast.Value
	for {
		eof, err := lx.AtEOF()
		if err != nil {
			return nil, err
		}
		if eof {
			break
		}
		v, err := p.parseValue(1, true)
		if err != nil {
			return nil, err
		}
		topValues = append(topValues, v)
	}

	if len(topValues) == 0 {
		return nil, symerr.New(symerr.Parse, symerr.Span{Origin: origin, Line: 1, Column: 1}, "document has no value")
	}

	doc := &symast.Document{Imports: imports}
	for _, v := range topValues[:len(topValues)-1] {
		db, err := classifyDefsBlock(v)
		if err != nil {
			return nil, err
		}
		doc.Defs = append(doc.Defs, db)
	}
	doc.Data = topValues[len(topValues)-1]
	return doc, nil
}

type parser struct {
	lx       *symlex.Lexer
	brackets bracketTracker
}

// classifyDefsBlock converts a non-final top-level object into a
// DefsBlock (spec.md §3): every field's key must be $-prefixed. The
// lexer accepts ordinary `:name` keys at top level too (they're needed
// for the final, data-block value), so this must explicitly reject any
// field that was written with `:` rather than `$` before accepting the
// rest as a shape check plus duplicate-name detection.
func classifyDefsBlock(v symast.Value) (symast.DefsBlock, error) {
	obj, ok := v.(*symast.Object)
	if !ok {
		return symast.DefsBlock{}, symerr.New(symerr.Parse, v.Span(), "a non-final top-level value must be a defs block (an object of $-prefixed keys)")
	}
	seen := make(map[string]bool, len(obj.Fields))
	db := symast.DefsBlock{Span: obj.Span()}
	for _, f := range obj.Fields {
		if !f.VarDef {
			return symast.DefsBlock{}, symerr.New(symerr.Parse, f.KeySpan, "defs block mixes data keys: %q must be written as $%s", f.Key, f.Key)
		}
		if seen[f.Key] && f.Modifier != symtok.ModOverride {
			return symast.DefsBlock{}, symerr.New(symerr.Variable, f.KeySpan, "variable %q defined twice in the same defs block", f.Key)
		}
		seen[f.Key] = true
		db.Defs = append(db.Defs, symast.VarDef{
			Name:     f.Key,
			Override: f.Modifier == symtok.ModOverride,
			Value:    f.Value,
			Span:     f.KeySpan,
		})
	}
	return db, nil
}

// parseValue parses a single value in whatever slot the caller is
// filling. fieldCol is the column of the enclosing key (the column
// of the opening '[' inside an array, or 1 at top level), used by the lexer to detect multiline
// string dedent. allowVarDef permits $-prefixed keys if this value turns
// out to be an object — only true for top-level values.
func (p *parser) parseValue(fieldCol int, allowVarDef bool) (symast.Value, error) {
	tok, err := p.lx.NextValue(fieldCol)
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case symtok.LBrace:
		return p.parseObject(tok.Span, allowVarDef)
	case symtok.LBracket:
		return p.parseArray(tok.Span)
	case symtok.Symbol:
		return symast.NewSymbol(tok.Span, tok.Text), nil
	case symtok.VarRef:
		return symast.NewVarRef(tok.Span, tok.Text), nil
	case symtok.ScalarBool:
		return symast.NewBool(tok.Span, tok.Text == "true"), nil
	case symtok.ScalarNull:
		return symast.NewNull(tok.Span), nil
	case symtok.ScalarInt:
		n := new(big.Int)
		if _, ok := n.SetString(tok.Text, 10); !ok {
			return nil, symerr.New(symerr.Number, tok.Span, "invalid integer literal %q", tok.Text)
		}
		return symast.NewInt(tok.Span, n), nil
	case symtok.ScalarFloat:
		f, err := parseFloatText(tok.Text)
		if err != nil {
			return nil, symerr.New(symerr.Number, tok.Span, "%s", err.Error())
		}
		return symast.NewFloat(tok.Span, f), nil
	case symtok.StrChunk:
		return buildStringValue(tok.Text, tok.Span), nil
	default:
		return nil, symerr.New(symerr.Parse, tok.Span, "unexpected %s where a value was expected", tok.Type)
	}
}

func parseFloatText(text string) (float64, error) {
	switch text {
	case "inf":
		return posInf, nil
	case "-inf":
		return negInf, nil
	case "nan":
		return nanVal, nil
	}
	return strconv.ParseFloat(text, 64)
}

var (
	posInf = mustParseFloat("+Inf")
	negInf = mustParseFloat("-Inf")
	nanVal = mustParseFloat("NaN")
)

func mustParseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		panic(err)
	}
	return f
}

// buildStringValue splits raw scanned text on `$identifier` occurrences
// into an Interp node, or returns a plain Str when no variable reference
// is embedded (spec.md §3 "Interp").
func buildStringValue(text string, span symerr.Span) symast.Value {
	var parts []symast.InterpPart
	var lit strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '$' && i+1 < len(text) && isIdentStart(text[i+1]) {
			if lit.Len() > 0 {
				parts = append(parts, symast.InterpPart{Literal: lit.String()})
				lit.Reset()
			}
			j := i + 1
			for j < len(text) && isIdentPart(text[j]) {
				j++
			}
			parts = append(parts, symast.InterpPart{VarName: text[i+1 : j]})
			i = j
			continue
		}
		lit.WriteByte(c)
		i++
	}
	if len(parts) == 0 {
		return symast.NewStr(span, text)
	}
	if lit.Len() > 0 {
		parts = append(parts, symast.InterpPart{Literal: lit.String()})
	}
	return symast.NewInterp(span, parts)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '-'
}

// parseObject parses the fields of an object whose opening '{' has
// already been consumed (openSpan is its span). allowVarDef is only true
// for top-level objects, letting their fields use `$name` (VarDef) key
// syntax instead of `:name` (Key).
func (p *parser) parseObject(openSpan symerr.Span, allowVarDef bool) (*symast.Object, error) {
	p.brackets.push(openSpan, '{')
	var fields []symast.Field
	seen := make(map[string]bool)

	for {
		tok, atClose, err := p.lx.FieldStart(allowVarDef)
		if err != nil {
			return nil, err
		}
		if atClose {
			if err := p.expectClose('}', openSpan); err != nil {
				return nil, err
			}
			p.brackets.pop()
			return symast.NewObject(openSpan, fields), nil
		}

		var key string
		var mod symtok.Modifier
		var isVarDef bool
		switch tok.Type {
		case symtok.Key:
			key, mod = tok.Text, tok.Modifier
		case symtok.VarDef:
			key = tok.Text
			isVarDef = true
			if tok.Modifier == symtok.ModOverride {
				mod = symtok.ModOverride
			}
		default:
			return nil, symerr.New(symerr.Parse, tok.Span, "expected a key, got %s", tok.Type)
		}

		if seen[key] && !(isVarDef && mod == symtok.ModOverride) {
			if isVarDef {
				return nil, symerr.New(symerr.Variable, tok.Span, "variable %q defined twice in the same block; use \"$%s!\" to override it", key, key)
			}
			return nil, symerr.New(symerr.Parse, tok.Span, "duplicate key %q in object", key).
				WithRelated(openSpan)
		}
		seen[key] = true

		val, err := p.parseValue(tok.Span.Column, false)
		if err != nil {
			return nil, err
		}
		fields = append(fields, symast.Field{Key: key, Modifier: mod, Value: val, KeySpan: tok.Span, VarDef: isVarDef})

		_, more, err := p.lx.NextSeparatorOrClose()
		if err != nil {
			return nil, err
		}
		if !more {
			b, err := p.lx.Peek()
			if err != nil {
				return nil, err
			}
			if b == ']' {
				return nil, p.expectClose('}', openSpan)
			}
			if b != '}' {
				return nil, symerr.New(symerr.Parse, p.lx.Span(), "expected ',' between fields")
			}
		}
	}
}

// parseArray parses the elements of an array whose opening '[' has
// already been consumed.
func (p *parser) parseArray(openSpan symerr.Span) (*symast.Array, error) {
	p.brackets.push(openSpan, '[')
	var elems []symast.Value

	for {
		b, err := p.lx.Peek()
		if err != nil {
			return nil, err
		}
		if b == ']' || b == '}' {
			if err := p.expectClose(']', openSpan); err != nil {
				return nil, err
			}
			p.brackets.pop()
			return symast.NewArray(openSpan, elems), nil
		}

		val, err := p.parseValue(openSpan.Column, false)
		if err != nil {
			return nil, err
		}
		elems = append(elems, val)

		_, more, err := p.lx.NextSeparatorOrClose()
		if err != nil {
			return nil, err
		}
		if !more {
			b, err := p.lx.Peek()
			if err != nil {
				return nil, err
			}
			if b == '}' {
				return nil, p.expectClose(']', openSpan)
			}
			if b != ']' {
				return nil, symerr.New(symerr.Parse, p.lx.Span(), "expected ',' between elements")
			}
		}
	}
}

// expectClose consumes the closing bracket `want`, reporting a mismatch
// (naming the opener's span) if a different bracket or EOF is found.
func (p *parser) expectClose(want byte, openSpan symerr.Span) error {
	b, err := p.lx.Peek()
	if err != nil {
		return err
	}
	if b == 0 {
		return symerr.New(symerr.Parse, p.lx.Span(), "unexpected end of input, unclosed %q", string(want)).
			WithRelated(openSpan)
	}
	if b != want {
		return symerr.New(symerr.Parse, p.lx.Span(), "mismatched closing bracket: expected %q", string(want)).
			WithRelated(openSpan)
	}
	p.lx.ConsumeByte()
	return nil
}
