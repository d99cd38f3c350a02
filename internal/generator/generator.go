// Package generator turns an ABNF AST into patterns.
//
// Every rule becomes a named group, (?<key>...), and every reference to
// a rule becomes a subroutine call, (?&key). This PCRE form keeps
// recursive rules finite. Optionally, rules that do not recurse are also
// expanded into standalone RE2 patterns usable with package regexp.
//
// Rules are generated independently and in parallel. The AST is only
// read, and results are stored by rule index, so the output does not
// depend on scheduling.
package generator

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/abnfkit/abnfc/internal/ast"
	"github.com/abnfkit/abnfc/internal/graph"
	"github.com/abnfkit/abnfc/internal/types"
)

// Option configures generation.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	diagConfig  types.DiagnosticConfig
	parallelism int
	inline      bool
	maxInline   int
}

// DefaultMaxInlineLen bounds the size of a single inline pattern.
const DefaultMaxInlineLen = 1 << 16

// WithLogger enables debug and trace logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithDiagnosticConfig sets which diagnostics are kept.
func WithDiagnosticConfig(cfg types.DiagnosticConfig) Option {
	return func(c *config) {
		c.diagConfig = cfg
	}
}

// WithParallelism bounds the number of rules generated at once. Values
// below 1 select runtime.NumCPU().
func WithParallelism(n int) Option {
	return func(c *config) {
		c.parallelism = n
	}
}

// WithInline enables standalone RE2 patterns for non-recursive rules.
func WithInline(enabled bool) Option {
	return func(c *config) {
		c.inline = enabled
	}
}

// WithMaxInlineLen bounds the length of an inline pattern. Rules whose
// expansion would be longer are not inlined.
func WithMaxInlineLen(n int) Option {
	return func(c *config) {
		c.maxInline = n
	}
}

// Generate produces a pattern for every rule of list, in rule order.
// The only error is the context error when ctx is done first.
func Generate(ctx context.Context, list *ast.RuleList, opts ...Option) (*Result, error) {
	cfg := config{
		diagConfig: types.DefaultConfig(),
		maxInline:  DefaultMaxInlineLen,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.parallelism < 1 {
		cfg.parallelism = runtime.NumCPU()
	}
	log := types.Logger{L: types.ComponentLogger(cfg.logger, "generator")}
	log.Log(slog.LevelDebug, "generating patterns",
		slog.Int("rules", len(list.Rules)),
		slog.Int("parallelism", cfg.parallelism),
		slog.Bool("inline", cfg.inline))

	out := make([]RulePattern, len(list.Rules))
	prose := make([]bool, len(list.Rules))
	wide := make([]bool, len(list.Rules))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.parallelism)
	for i, r := range list.Rules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e := &emitter{rule: r.Name.Name}
			body := e.alternation(r.Alternation)
			out[i] = RulePattern{
				Name:        r.Name.Name,
				Key:         GroupName(r.Name.Name),
				Pattern:     body,
				Binding:     binding(r, body),
				Diminished:  e.prose,
				Diagnostics: e.diags,
			}
			prose[i] = e.prose
			wide[i] = e.wide
			if log.TraceEnabled() {
				log.Trace("rule pattern",
					slog.String("rule", r.Name.Name),
					slog.Int("length", len(body)),
					slog.Bool("diminished", e.prose))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cfg.inline {
		in := inliner{
			list:      list,
			graph:     graph.FromRuleList(list),
			prose:     prose,
			wide:      wide,
			maxLen:    cfg.maxInline,
			log:       log,
			patterns:  out,
			expansion: make(map[string]string),
		}
		if err := in.run(ctx); err != nil {
			return nil, err
		}
	}

	res := &Result{Rules: out}
	total := 0
	for i := range res.Rules {
		res.Rules[i].Diagnostics = cfg.diagConfig.Filter(res.Rules[i].Diagnostics)
		total += len(res.Rules[i].Diagnostics)
	}
	log.Log(slog.LevelDebug, "generation complete",
		slog.Int("rules", len(res.Rules)),
		slog.Int("diminished", len(res.Diminished())),
		slog.Int("diagnostics", total))
	return res, nil
}
