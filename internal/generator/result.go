package generator

import (
	"strings"

	"github.com/abnfkit/abnfc/internal/types"
)

// RulePattern is the generated output for one rule.
type RulePattern struct {
	Name    string // rule name as first defined
	Key     string // group name used in Binding and in references
	Pattern string // body of the rule, referencing other rules by name
	Binding string // (?<key>Pattern)
	// Inline is a standalone RE2 pattern with every reference expanded.
	// Empty when inline generation is off or the rule cannot be inlined.
	Inline string
	// Diminished is set when the rule contains prose, so the pattern
	// matches less than the grammar describes.
	Diminished  bool
	Diagnostics []types.Diagnostic
}

// Result holds the patterns for every rule in definition order.
type Result struct {
	Rules []RulePattern
}

// Lookup returns the pattern for the rule with the given name, compared
// case-insensitively, or nil.
func (r *Result) Lookup(name string) *RulePattern {
	key := GroupName(name)
	for i := range r.Rules {
		if r.Rules[i].Key == key {
			return &r.Rules[i]
		}
	}
	return nil
}

// Patterns maps each rule name to its pattern.
func (r *Result) Patterns() map[string]string {
	out := make(map[string]string, len(r.Rules))
	for _, rp := range r.Rules {
		out[rp.Name] = rp.Pattern
	}
	return out
}

// Diminished returns the names of rules whose patterns are incomplete.
func (r *Result) Diminished() []string {
	var names []string
	for _, rp := range r.Rules {
		if rp.Diminished {
			names = append(names, rp.Name)
		}
	}
	return names
}

// Diagnostics returns the diagnostics of all rules in rule order.
func (r *Result) Diagnostics() []types.Diagnostic {
	var out []types.Diagnostic
	for _, rp := range r.Rules {
		out = append(out, rp.Diagnostics...)
	}
	return out
}

// Text returns every binding on its own line.
func (r *Result) Text() string {
	var b strings.Builder
	for _, rp := range r.Rules {
		b.WriteString(rp.Binding)
		b.WriteByte('\n')
	}
	return b.String()
}

// Document wraps the bindings in a (?(DEFINE)...) block so that the
// result compiles as one PCRE pattern that matches nothing by itself and
// exposes every rule as a subroutine.
func (r *Result) Document() string {
	return "(?(DEFINE)\n" + r.Text() + ")\n"
}

// InlineText returns "key = pattern" lines for every rule that has an
// inline pattern.
func (r *Result) InlineText() string {
	var b strings.Builder
	for _, rp := range r.Rules {
		if rp.Inline == "" {
			continue
		}
		b.WriteString(rp.Key)
		b.WriteString(" = ")
		b.WriteString(rp.Inline)
		b.WriteByte('\n')
	}
	return b.String()
}
