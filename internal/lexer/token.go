// Package lexer provides tokenization for ABNF grammar source text.
package lexer

import (
	"github.com/abnfkit/abnfc/internal/types"
)

// Token is a token with kind, text and source span.
type Token struct {
	Kind TokenKind
	Text string
	Span types.Span
}

// NewToken creates a new token.
func NewToken(kind TokenKind, text string, span types.Span) Token {
	return Token{Kind: kind, Text: text, Span: span}
}

// TokenKind identifies a token type.
type TokenKind int

const (
	// === Special ===

	// TokEOF marks the end of the token stream.
	TokEOF TokenKind = iota

	// === Trivia ===

	// TokComment is a ';' comment running to end of line.
	TokComment
	// TokNewline is a CRLF, LF or lone CR line ending.
	TokNewline
	// TokWhitespace is a run of spaces and tabs.
	TokWhitespace

	// === Names and operators ===

	// TokIdentifier is a rule name.
	TokIdentifier
	// TokDefineInc is '=/'.
	TokDefineInc
	// TokDefine is '='.
	TokDefine
	// TokSlash is '/'.
	TokSlash
	// TokLParen is '('.
	TokLParen
	// TokRParen is ')'.
	TokRParen
	// TokLBracket is '['.
	TokLBracket
	// TokRBracket is ']'.
	TokRBracket
	// TokStar is '*'.
	TokStar

	// === Literals ===

	// TokString is a quoted char-val, optionally prefixed by %s or %i.
	TokString
	// TokNumVal is a %b, %d or %x numeric terminal.
	TokNumVal
	// TokProse is an angle-bracketed prose value.
	TokProse
	// TokInteger is an unsigned decimal repeat count.
	TokInteger
)

// String returns the upper-case name used in error messages.
func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "EOF"
	case TokComment:
		return "COMMENT"
	case TokNewline:
		return "NEWLINE"
	case TokWhitespace:
		return "WHITESPACE"
	case TokIdentifier:
		return "IDENTIFIER"
	case TokDefineInc:
		return "DEFINE_INCREMENT"
	case TokDefine:
		return "DEFINE"
	case TokSlash:
		return "SLASH"
	case TokLParen:
		return "LPAREN"
	case TokRParen:
		return "RPAREN"
	case TokLBracket:
		return "LBRACKET"
	case TokRBracket:
		return "RBRACKET"
	case TokStar:
		return "STAR"
	case TokString:
		return "STRING"
	case TokNumVal:
		return "NUM_VAL"
	case TokProse:
		return "PROSE"
	case TokInteger:
		return "INTEGER"
	default:
		return "UNKNOWN"
	}
}

// IsTrivia returns true for tokens the parser skips: comments,
// whitespace and newlines.
func (k TokenKind) IsTrivia() bool {
	switch k {
	case TokComment, TokNewline, TokWhitespace:
		return true
	default:
		return false
	}
}

// StartsElement returns true if a token of this kind begins an element.
func (k TokenKind) StartsElement() bool {
	switch k {
	case TokIdentifier, TokLParen, TokLBracket, TokString, TokNumVal, TokProse:
		return true
	default:
		return false
	}
}

// StartsRepetition returns true if a token of this kind begins a
// repetition (an optional repeat count followed by an element).
func (k TokenKind) StartsRepetition() bool {
	return k == TokInteger || k == TokStar || k.StartsElement()
}
