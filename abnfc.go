// Package abnfc compiles grammars written in ABNF (RFC 5234, with the
// RFC 7405 case-sensitive strings) into patterns.
//
// Compile runs the three stages in order: tokenizing, parsing into an
// AST, and generating one pattern per rule. Each rule becomes a named
// PCRE group and references become subroutine calls, so recursive
// grammars stay finite:
//
//	g, err := abnfc.Compile(ctx, []byte(`greeting = "hello" SP name`), "greeting.abnf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(g.Patterns.Text())
//
// With WithInline, rules that do not recurse also get a standalone RE2
// pattern that package regexp can compile.
package abnfc

import (
	"log/slog"

	"github.com/abnfkit/abnfc/internal/types"
)

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (tokens, rules, patterns).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// Option configures Compile, CompileFile and CompileAll.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	diagConfig  types.DiagnosticConfig
	parallelism int
	inline      bool
	maxDepth    int
}

func newConfig(opts []Option) config {
	cfg := config{diagConfig: types.DefaultConfig()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithDiagnosticConfig sets which diagnostics are reported and at what
// severity.
func WithDiagnosticConfig(cfg DiagnosticConfig) Option {
	return func(c *config) { c.diagConfig = cfg }
}

// WithParallelism bounds how many rules (or files, for CompileAll) are
// processed at once. Zero or less uses the number of CPUs.
func WithParallelism(n int) Option {
	return func(c *config) { c.parallelism = n }
}

// WithInline enables standalone RE2 patterns for non-recursive rules.
func WithInline(enabled bool) Option {
	return func(c *config) { c.inline = enabled }
}

// WithMaxDepth limits nesting of groups and options. Zero or less uses
// the parser default of 256.
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.maxDepth = depth }
}
