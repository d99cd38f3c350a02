package lexer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	plexer "github.com/alecthomas/participle/v2/lexer"

	"github.com/abnfkit/abnfc/internal/types"
)

// rule pairs a token kind with the pattern that recognizes it.
type rule struct {
	kind    TokenKind
	name    string
	pattern string
}

// rules is the ordered pattern table. At each position the first rule
// that matches wins, so '=/' precedes '=' and every keyword-like form
// precedes the catch-all classes.
var rules = []rule{
	{TokComment, "Comment", `;[^\r\n]*`},
	{TokIdentifier, "Identifier", `[A-Za-z][A-Za-z0-9-]*`},
	{TokDefineInc, "DefineInc", `=/`},
	{TokDefine, "Define", `=`},
	{TokSlash, "Slash", `/`},
	{TokLParen, "LParen", `\(`},
	{TokRParen, "RParen", `\)`},
	{TokLBracket, "LBracket", `\[`},
	{TokRBracket, "RBracket", `\]`},
	{TokStar, "Star", `\*`},
	{TokString, "String", `(?:%[sSiI])?"[^"\r\n]*"`},
	{TokNumVal, "NumVal", `%[bB][01]+(?:(?:\.[01]+)+|-[01]+)?` +
		`|%[dD][0-9]+(?:(?:\.[0-9]+)+|-[0-9]+)?` +
		`|%[xX][0-9A-Fa-f]+(?:(?:\.[0-9A-Fa-f]+)+|-[0-9A-Fa-f]+)?`},
	{TokProse, "Prose", `<[^>\r\n]*>`},
	{TokInteger, "Integer", `[0-9]+`},
	{TokNewline, "Newline", `\r\n|\n|\r`},
	{TokWhitespace, "Whitespace", `[ \t]+`},
}

// Table is a compiled, ordered token table. It is immutable and safe
// for concurrent use.
type Table struct {
	def   *plexer.StatefulDefinition
	kinds map[plexer.TokenType]TokenKind
}

// DefaultTable is the ABNF token table, compiled once.
var DefaultTable = newTable(rules)

func newTable(rules []rule) *Table {
	simple := make([]plexer.SimpleRule, len(rules))
	for i, r := range rules {
		simple[i] = plexer.SimpleRule{Name: r.name, Pattern: r.pattern}
	}
	def := plexer.MustSimple(simple)
	symbols := def.Symbols()
	kinds := make(map[plexer.TokenType]TokenKind, len(rules))
	for _, r := range rules {
		kinds[symbols[r.name]] = r.kind
	}
	return &Table{def: def, kinds: kinds}
}

// LexError reports input that no token pattern matches.
type LexError struct {
	File    string
	Offset  int
	Line    int
	Column  int
	Near    string // up to nearLen bytes of input starting at Offset
	Excerpt string // source line with a caret under Column
}

const nearLen = 16

func (e *LexError) Error() string {
	pos := types.Position{File: e.File, Line: e.Line, Column: e.Column}
	return fmt.Sprintf("%s: no token matches input near %q", pos, e.Near)
}

// Option configures tokenization.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger enables debug and trace logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Tokenize splits source into tokens using DefaultTable.
func Tokenize(source []byte, fileName string, opts ...Option) ([]Token, error) {
	return DefaultTable.Tokenize(source, fileName, opts...)
}

// Tokenize splits source into tokens. The result always ends with a
// TokEOF token, and concatenating the text of the other tokens yields
// source. Whitespace, newlines and comments are kept. The first byte no
// pattern matches aborts tokenization with a *LexError.
func (t *Table) Tokenize(source []byte, fileName string, opts ...Option) ([]Token, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	log := types.Logger{L: types.ComponentLogger(cfg.logger, "lexer")}
	log.Log(slog.LevelDebug, "tokenizing",
		slog.String("file", fileName),
		slog.Int("bytes", len(source)))

	text := string(source)
	lex, err := t.def.LexString(fileName, text)
	if err != nil {
		return nil, fmt.Errorf("lexer: %w", err)
	}

	tokens := make([]Token, 0, max(len(source)/4, 16))
	offset := 0
	for {
		ptok, err := lex.Next()
		if err != nil {
			var perr *plexer.Error
			if errors.As(err, &perr) && perr.Pos.Offset > offset {
				offset = perr.Pos.Offset
			}
			return nil, newLexError(fileName, source, offset)
		}
		if ptok.EOF() {
			break
		}
		kind, ok := t.kinds[ptok.Type]
		if !ok {
			return nil, newLexError(fileName, source, offset)
		}
		end := offset + len(ptok.Value)
		tok := NewToken(kind, ptok.Value,
			types.NewSpan(types.ByteOffset(offset), types.ByteOffset(end)))
		if log.TraceEnabled() {
			log.Trace("token",
				slog.String("kind", kind.String()),
				slog.String("text", tok.Text),
				slog.Int("start", offset),
				slog.Int("end", end))
		}
		tokens = append(tokens, tok)
		offset = end
	}

	eof := types.ByteOffset(len(source))
	tokens = append(tokens, NewToken(TokEOF, "", types.NewSpan(eof, eof)))
	log.Log(slog.LevelDebug, "tokenization complete",
		slog.String("file", fileName),
		slog.Int("tokens", len(tokens)))
	return tokens, nil
}

func newLexError(fileName string, source []byte, offset int) *LexError {
	src := types.NewSource(fileName, source)
	pos := src.Position(types.ByteOffset(offset))
	near := string(source[pos.Offset:min(pos.Offset+nearLen, len(source))])
	if i := strings.IndexAny(near, "\r\n"); i >= 0 {
		near = near[:i]
	}
	return &LexError{
		File:    fileName,
		Offset:  pos.Offset,
		Line:    pos.Line,
		Column:  pos.Column,
		Near:    near,
		Excerpt: src.Excerpt(types.ByteOffset(offset)),
	}
}
