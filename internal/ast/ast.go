// Package ast provides Abstract Syntax Tree types for parsed ABNF grammars.
//
// Nodes are created by the parser and are not modified afterwards. Every
// node carries the span of source text it was built from.
package ast

import (
	"strings"

	"github.com/abnfkit/abnfc/internal/types"
)

// Node is implemented by every AST node.
type Node interface {
	NodeSpan() types.Span
}

// RuleList is a whole grammar: rules in order of first definition.
type RuleList struct {
	Rules []*Rule
	Span  types.Span
}

func (l *RuleList) NodeSpan() types.Span { return l.Span }

// Lookup returns the rule named name, compared case-insensitively, or nil.
func (l *RuleList) Lookup(name string) *Rule {
	key := strings.ToLower(name)
	for _, r := range l.Rules {
		if r.Name.Key() == key {
			return r
		}
	}
	return nil
}

// Names returns the rule names in definition order.
func (l *RuleList) Names() []string {
	names := make([]string, len(l.Rules))
	for i, r := range l.Rules {
		names[i] = r.Name.Name
	}
	return names
}

// Rule binds a name to an alternation. Incremental alternatives ('=/')
// are merged into the rule that first defined the name.
type Rule struct {
	Name        RuleName
	Alternation *Alternation
	Span        types.Span
}

func (r *Rule) NodeSpan() types.Span { return r.Span }

// RuleName is a rule name as written. It appears as a Rule's name and,
// as an Element, as a reference to another rule.
type RuleName struct {
	Name string
	Span types.Span
}

// NewRuleName creates a new rule name.
func NewRuleName(name string, span types.Span) RuleName {
	return RuleName{Name: name, Span: span}
}

// Key returns the case-folded name. Rule names are case-insensitive.
func (n RuleName) Key() string {
	return strings.ToLower(n.Name)
}

func (n *RuleName) NodeSpan() types.Span { return n.Span }
func (*RuleName) element()               {}

// Alternation is a non-empty ordered list of alternatives.
type Alternation struct {
	Alternatives []*Concatenation
	Span         types.Span
}

func (a *Alternation) NodeSpan() types.Span { return a.Span }

// Concatenation is a non-empty ordered sequence of repetitions.
type Concatenation struct {
	Items []*Repetition
	Span  types.Span
}

func (c *Concatenation) NodeSpan() types.Span { return c.Span }

// Repetition is an element with an optional repeat count. A nil Repeat
// means exactly once.
type Repetition struct {
	Repeat  *RepeatCount
	Element Element
	Span    types.Span
}

func (r *Repetition) NodeSpan() types.Span { return r.Span }

// RepeatCount is a repeat prefix. A nil Min means 0 and a nil Max means
// unbounded. When both are set Min <= Max.
type RepeatCount struct {
	Min  *uint64
	Max  *uint64
	Span types.Span
}

func (c *RepeatCount) NodeSpan() types.Span { return c.Span }

// Bounds returns the effective minimum and maximum. bounded is false
// when there is no maximum.
func (c *RepeatCount) Bounds() (lo, hi uint64, bounded bool) {
	if c.Min != nil {
		lo = *c.Min
	}
	if c.Max != nil {
		return lo, *c.Max, true
	}
	return lo, 0, false
}

// Element is one of *RuleName, *Group, *Option, *CharVal, *NumVal or
// *ProseVal.
type Element interface {
	Node
	element()
}

// Group is a parenthesized alternation.
type Group struct {
	Alternation *Alternation
	Span        types.Span
}

func (g *Group) NodeSpan() types.Span { return g.Span }
func (*Group) element()               {}

// Option is a bracketed alternation matched zero or one times.
type Option struct {
	Alternation *Alternation
	Span        types.Span
}

func (o *Option) NodeSpan() types.Span { return o.Span }
func (*Option) element()               {}

// CharVal is a quoted string terminal without its quotes. Only the
// %s"..." form is case-sensitive.
type CharVal struct {
	Contents      string
	CaseSensitive bool
	Span          types.Span
}

func (c *CharVal) NodeSpan() types.Span { return c.Span }
func (*CharVal) element()               {}

// NumVal is a numeric terminal.
type NumVal struct {
	Value NumTerminal
	Span  types.Span
}

func (n *NumVal) NodeSpan() types.Span { return n.Span }
func (*NumVal) element()               {}

// ProseVal is an angle-bracketed prose description without its brackets.
type ProseVal struct {
	Contents string
	Span     types.Span
}

func (p *ProseVal) NodeSpan() types.Span { return p.Span }
func (*ProseVal) element()               {}

// NumTerminal is one of *BinVal, *DecVal or *HexVal.
type NumTerminal interface {
	Node
	Num() *NumValue
	Base() int
	numTerminal()
}

// NumValue holds the values of a numeric terminal. A single value has
// neither Chain nor RangeEnd. Chain holds the values after First in a
// dotted concatenation (%x41.42.43). RangeEnd is the upper bound of a
// range (%x41-5A) and is never below First. Chain and RangeEnd are
// mutually exclusive.
type NumValue struct {
	First    uint64
	Chain    []uint64
	RangeEnd *uint64
	Span     types.Span
}

func (v *NumValue) NodeSpan() types.Span { return v.Span }

// Num returns v.
func (v *NumValue) Num() *NumValue { return v }

// IsRange reports whether v is a range.
func (v *NumValue) IsRange() bool { return v.RangeEnd != nil }

// Values returns First followed by Chain.
func (v *NumValue) Values() []uint64 {
	return append([]uint64{v.First}, v.Chain...)
}

// BinVal is a %b terminal.
type BinVal struct{ NumValue }

func (*BinVal) Base() int    { return 2 }
func (*BinVal) numTerminal() {}

// DecVal is a %d terminal.
type DecVal struct{ NumValue }

func (*DecVal) Base() int    { return 10 }
func (*DecVal) numTerminal() {}

// HexVal is a %x terminal.
type HexVal struct{ NumValue }

func (*HexVal) Base() int    { return 16 }
func (*HexVal) numTerminal() {}
