package abnfc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/abnfkit/abnfc/internal/generator"
	"github.com/abnfkit/abnfc/internal/lexer"
	"github.com/abnfkit/abnfc/internal/parser"
	"github.com/abnfkit/abnfc/internal/types"
)

// Error is a lex or parse failure located in the grammar source. It
// wraps a *LexError or a *ParseError.
type Error struct {
	Pos     Position
	Excerpt string // offending line with a caret under the column
	Err     error
}

func (e *Error) Error() string {
	var lexErr *lexer.LexError
	if errors.As(e.Err, &lexErr) {
		return lexErr.Error()
	}
	return e.Pos.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Compile tokenizes, parses and generates patterns for source. name is
// used in positions and error messages.
func Compile(ctx context.Context, source []byte, name string, opts ...Option) (*Grammar, error) {
	return compile(ctx, source, name, newConfig(opts))
}

// CompileFile reads and compiles the grammar at path.
func CompileFile(ctx context.Context, path string, opts ...Option) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return compile(ctx, data, path, newConfig(opts))
}

// CompileFS reads and compiles the grammar at path within fsys.
func CompileFS(ctx context.Context, fsys fs.FS, path string, opts ...Option) (*Grammar, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	return compile(ctx, data, filepath.ToSlash(path), newConfig(opts))
}

func compile(ctx context.Context, data []byte, name string, cfg config) (*Grammar, error) {
	logger := types.ComponentLogger(cfg.logger, "compile")
	log := types.Logger{L: logger}
	log.Log(slog.LevelDebug, "compiling grammar",
		slog.String("file", name),
		slog.Int("bytes", len(data)))

	src := types.NewSource(name, data)
	tokens, err := lexer.Tokenize(data, name, lexer.WithLogger(cfg.logger))
	if err != nil {
		var lexErr *lexer.LexError
		if errors.As(err, &lexErr) {
			return nil, &Error{
				Pos:     src.Position(types.ByteOffset(lexErr.Offset)),
				Excerpt: lexErr.Excerpt,
				Err:     lexErr,
			}
		}
		return nil, err
	}

	p := parser.New(tokens,
		parser.WithLogger(cfg.logger),
		parser.WithDiagnosticConfig(cfg.diagConfig),
		parser.WithMaxDepth(cfg.maxDepth))
	list, err := p.ParseRuleList()
	if err != nil {
		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) {
			return nil, &Error{
				Pos:     src.Position(parseErr.Span.Start),
				Excerpt: src.Excerpt(parseErr.Span.Start),
				Err:     parseErr,
			}
		}
		return nil, err
	}

	res, err := generator.Generate(ctx, list,
		generator.WithLogger(cfg.logger),
		generator.WithDiagnosticConfig(cfg.diagConfig),
		generator.WithParallelism(cfg.parallelism),
		generator.WithInline(cfg.inline))
	if err != nil {
		return nil, fmt.Errorf("generating %s: %w", name, err)
	}

	g := &Grammar{
		Name:     name,
		Rules:    list,
		Patterns: res,
		source:   src,
	}
	g.Diagnostics = append(p.Diagnostics(), res.Diagnostics()...)

	log.Log(slog.LevelDebug, "grammar compiled",
		slog.String("file", name),
		slog.Int("rules", len(list.Rules)),
		slog.Int("diagnostics", len(g.Diagnostics)))
	return g, nil
}
