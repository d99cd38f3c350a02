package abnfc

import (
	"github.com/abnfkit/abnfc/internal/ast"
	"github.com/abnfkit/abnfc/internal/graph"
	"github.com/abnfkit/abnfc/internal/types"
)

// Grammar is a compiled grammar.
type Grammar struct {
	Name        string
	Rules       *RuleList
	Patterns    *Result
	Diagnostics []Diagnostic // parser then generator findings, already filtered

	source *types.Source
}

// Position returns the line and column of a byte offset in the grammar
// source.
func (g *Grammar) Position(offset uint32) Position {
	return g.source.Position(types.ByteOffset(offset))
}

// Locate renders d with a file:line:col prefix.
func (g *Grammar) Locate(d Diagnostic) string {
	return d.Locate(g.source)
}

// RuleInfo summarizes one rule.
type RuleInfo struct {
	Name         string
	Alternatives int
	References   []string // distinct referenced rule names as written
	Undefined    []string // references with no matching rule
	Recursive    bool
	Prose        bool
	Inline       bool
}

// RuleInfo describes every rule in definition order.
func (g *Grammar) RuleInfo() []RuleInfo {
	refs := graph.FromRuleList(g.Rules)
	recursive := refs.Recursive()

	infos := make([]RuleInfo, len(g.Rules.Rules))
	for i, r := range g.Rules.Rules {
		info := RuleInfo{
			Name:         r.Name.Name,
			Alternatives: len(r.Alternation.Alternatives),
			Recursive:    recursive[r.Name.Key()],
			Prose:        ast.HasProse(r),
			Inline:       g.Patterns.Rules[i].Inline != "",
		}
		seen := make(map[string]bool)
		for _, ref := range ast.References(r) {
			if seen[ref.Key()] {
				continue
			}
			seen[ref.Key()] = true
			info.References = append(info.References, ref.Name)
			if g.Rules.Lookup(ref.Name) == nil {
				info.Undefined = append(info.Undefined, ref.Name)
			}
		}
		infos[i] = info
	}
	return infos
}

// Undefined returns the distinct rule names referenced but never
// defined, in order of first reference.
func (g *Grammar) Undefined() []string {
	var out []string
	seen := make(map[string]bool)
	for _, info := range g.RuleInfo() {
		for _, name := range info.Undefined {
			key := ast.NewRuleName(name, types.Synthetic).Key()
			if !seen[key] {
				seen[key] = true
				out = append(out, name)
			}
		}
	}
	return out
}
