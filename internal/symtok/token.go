// Package symtok defines the token vocabulary the lexer emits and the
// parser consumes (spec.md §4.1).
package symtok

import "github.com/Konfuzian/symbolic-language/symerr"

// Type identifies the shape of a Token.
type Type int

const (
	EOF Type = iota
	LBrace
	RBrace
	LBracket
	RBracket
	Separator
	Key
	VarDef
	VarRef
	Symbol
	ScalarBool
	ScalarNull
	ScalarInt
	ScalarFloat
	StrChunk
	StrContinuation
	ImportDirective
	Illegal
)

func (t Type) String() string {
	switch t {
	case EOF:
		return "EOF"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case Separator:
		return "separator"
	case Key:
		return "key"
	case VarDef:
		return "variable definition"
	case VarRef:
		return "variable reference"
	case Symbol:
		return "symbol"
	case ScalarBool:
		return "boolean"
	case ScalarNull:
		return "null"
	case ScalarInt:
		return "integer"
	case ScalarFloat:
		return "float"
	case StrChunk:
		return "string"
	case StrContinuation:
		return "string continuation"
	case ImportDirective:
		return "@import"
	default:
		return "illegal token"
	}
}

// Modifier is the per-key suffix `!` (replace) or `+` (append), or the
// per-variable suffix `!` (override). ModNone means no suffix was present.
type Modifier int

const (
	ModNone Modifier = iota
	ModReplace
	ModAppend
	ModOverride
)

// Token is a single lexical unit with its source span.
type Token struct {
	Type     Type
	Text     string   // identifier name, raw scalar text, or import path
	Modifier Modifier // set for Key and VarDef tokens
	Span     symerr.Span
}
