package abnfc

import (
	"github.com/abnfkit/abnfc/internal/ast"
	"github.com/abnfkit/abnfc/internal/generator"
	"github.com/abnfkit/abnfc/internal/lexer"
	"github.com/abnfkit/abnfc/internal/parser"
	"github.com/abnfkit/abnfc/internal/types"
)

// Type aliases for the public API.

// RuleList is a parsed grammar.
type RuleList = ast.RuleList

// Rule is one named rule with its merged alternatives.
type Rule = ast.Rule

// Node is any AST node.
type Node = ast.Node

// AST node types.
type (
	Alternation   = ast.Alternation
	Concatenation = ast.Concatenation
	Repetition    = ast.Repetition
	RepeatCount   = ast.RepeatCount
	RuleName      = ast.RuleName
	Group         = ast.Group
	OptionalGroup = ast.Option
	CharVal       = ast.CharVal
	NumVal        = ast.NumVal
	ProseVal      = ast.ProseVal
)

// Result holds the generated pattern of every rule.
type Result = generator.Result

// RulePattern is the generated output for one rule.
type RulePattern = generator.RulePattern

// Token is a lexical token.
type Token = lexer.Token

// TokenKind identifies a token type.
type TokenKind = lexer.TokenKind

// Token kinds.
const (
	TokEOF        = lexer.TokEOF
	TokComment    = lexer.TokComment
	TokNewline    = lexer.TokNewline
	TokWhitespace = lexer.TokWhitespace
	TokIdentifier = lexer.TokIdentifier
	TokDefineInc  = lexer.TokDefineInc
	TokDefine     = lexer.TokDefine
	TokSlash      = lexer.TokSlash
	TokLParen     = lexer.TokLParen
	TokRParen     = lexer.TokRParen
	TokLBracket   = lexer.TokLBracket
	TokRBracket   = lexer.TokRBracket
	TokStar       = lexer.TokStar
	TokString     = lexer.TokString
	TokNumVal     = lexer.TokNumVal
	TokProse      = lexer.TokProse
	TokInteger    = lexer.TokInteger
)

// LexError reports input that is not a token.
type LexError = lexer.LexError

// ParseError reports a syntax error. Match its cause with errors.Is and
// the Err* sentinels.
type ParseError = parser.ParseError

// Position is a file, line and column.
type Position = types.Position

// Diagnostic is a non-fatal finding.
type Diagnostic = types.Diagnostic

// DiagnosticConfig controls which diagnostics are reported.
type DiagnosticConfig = types.DiagnosticConfig

// Severity for diagnostics.
type Severity = types.Severity

// StrictnessLevel is a preset reporting threshold.
type StrictnessLevel = types.StrictnessLevel

// Severity levels.
const (
	SeverityFatal   = types.SeverityFatal
	SeveritySevere  = types.SeveritySevere
	SeverityError   = types.SeverityError
	SeverityMinor   = types.SeverityMinor
	SeverityStyle   = types.SeverityStyle
	SeverityWarning = types.SeverityWarning
	SeverityInfo    = types.SeverityInfo
)

// Strictness presets.
const (
	StrictnessStrict = types.StrictnessStrict
	StrictnessQuiet  = types.StrictnessQuiet
	StrictnessNormal = types.StrictnessNormal
	StrictnessSilent = types.StrictnessSilent
)

// Diagnostic configuration presets.
var (
	DefaultConfig = types.DefaultConfig
	StrictConfig  = types.StrictConfig
	QuietConfig   = types.QuietConfig
)

// Parse error causes.
var (
	ErrUnexpectedToken          = parser.ErrUnexpectedToken
	ErrUnexpectedEOF            = parser.ErrUnexpectedEOF
	ErrEmptyGrammar             = parser.ErrEmptyGrammar
	ErrDuplicateRule            = parser.ErrDuplicateRule
	ErrUndefinedIncrementalRule = parser.ErrUndefinedIncrementalRule
	ErrInvalidRepeat            = parser.ErrInvalidRepeat
	ErrInvalidNumber            = parser.ErrInvalidNumber
	ErrInvalidRange             = parser.ErrInvalidRange
	ErrTooDeep                  = parser.ErrTooDeep
)

// Tokenize splits source into tokens, including whitespace, newlines and
// comments, ending with an EOF token.
func Tokenize(source []byte, name string) ([]Token, error) {
	return lexer.Tokenize(source, name)
}

// Walk calls fn for n and its descendants in source order. Children
// are skipped when fn returns false.
func Walk(n Node, fn func(Node) bool) {
	ast.Walk(n, fn)
}

// Dump renders an AST node as an indented tree.
func Dump(n Node) string {
	return ast.Dump(n)
}

// Fragment renders the reference-form pattern for a single AST node.
func Fragment(n Node) (string, []Diagnostic) {
	return generator.Fragment(n)
}

// DiagCodeInfo describes a diagnostic code.
type DiagCodeInfo = types.DiagCodeInfo

// DiagnosticCodes lists every diagnostic code with the phase that emits
// it.
func DiagnosticCodes() []DiagCodeInfo {
	return types.AllDiagnosticCodes()
}
