package generator

import (
	"context"
	"fmt"
	"log/slog"
	"regexp/syntax"

	"github.com/abnfkit/abnfc/internal/ast"
	"github.com/abnfkit/abnfc/internal/graph"
	"github.com/abnfkit/abnfc/internal/types"
)

// inliner expands non-recursive rules into standalone RE2 patterns,
// dependencies first.
type inliner struct {
	list      *ast.RuleList
	graph     *graph.Graph
	prose     []bool
	wide      []bool
	maxLen    int
	log       types.Logger
	patterns  []RulePattern
	expansion map[string]string // by rule key
}

func (in *inliner) run(ctx context.Context) error {
	index := make(map[string]int, len(in.list.Rules))
	for i, r := range in.list.Rules {
		index[r.Name.Key()] = i
	}

	order, cycles := in.graph.ResolutionOrder()
	reasons := make(map[string]string)
	for _, scc := range cycles {
		for _, key := range scc {
			reasons[key] = "rule is recursive"
		}
	}

	for _, key := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		i, ok := index[key]
		if !ok {
			continue
		}
		if why := in.blocker(key, i, index, reasons); why != "" {
			reasons[key] = why
			continue
		}

		rule := in.list.Rules[i]
		e := &emitter{rule: rule.Name.Name, inline: in.expansion}
		text := e.alternation(rule.Alternation)
		if len(text) > in.maxLen {
			reasons[key] = fmt.Sprintf("expansion is %d bytes, over the limit of %d", len(text), in.maxLen)
			continue
		}
		if _, err := syntax.Parse(text, syntax.Perl); err != nil {
			reasons[key] = "expansion is not a valid RE2 pattern: " + err.Error()
			continue
		}
		in.expansion[key] = text
		in.patterns[i].Inline = text
		if in.log.TraceEnabled() {
			in.log.Trace("inlined rule",
				slog.String("rule", rule.Name.Name),
				slog.Int("length", len(text)))
		}
	}

	inlined := 0
	for i, r := range in.list.Rules {
		why, blocked := reasons[r.Name.Key()]
		if !blocked {
			inlined++
			continue
		}
		in.patterns[i].Diagnostics = append(in.patterns[i].Diagnostics, types.Diagnostic{
			Severity: types.SeverityInfo,
			Code:     types.DiagInlineUnavailable,
			Rule:     r.Name.Name,
			Span:     r.Name.Span,
			Message:  "no inline pattern: " + why,
		})
	}
	in.log.Log(slog.LevelDebug, "inline expansion complete",
		slog.Int("inlined", inlined),
		slog.Int("skipped", len(in.list.Rules)-inlined))
	return nil
}

// blocker returns why rule i cannot be inlined, or "".
func (in *inliner) blocker(key string, i int, index map[string]int, reasons map[string]string) string {
	if in.prose[i] {
		return "rule contains prose"
	}
	if in.wide[i] {
		return "rule contains values beyond the largest code point"
	}
	for _, dep := range in.graph.Dependencies(key) {
		if _, ok := index[dep]; !ok {
			return fmt.Sprintf("references undefined rule %q", dep)
		}
		if _, blocked := reasons[dep]; blocked {
			return fmt.Sprintf("references rule %q, which has no inline pattern", in.list.Rules[index[dep]].Name.Name)
		}
	}
	return ""
}
