package generator

import (
	"fmt"
	"strings"

	"github.com/abnfkit/abnfc/internal/ast"
	"github.com/abnfkit/abnfc/internal/types"
)

// Fragment renders the pattern for a single node in reference form,
// along with the diagnostics found while rendering it. A *ast.Rule
// yields its named binding and a *ast.RuleList yields one binding per
// line. It panics on node types outside the AST.
func Fragment(node ast.Node) (string, []types.Diagnostic) {
	e := &emitter{}
	switch n := node.(type) {
	case *ast.RuleList:
		var b strings.Builder
		for _, r := range n.Rules {
			e.rule = r.Name.Name
			b.WriteString(binding(r, e.alternation(r.Alternation)))
			b.WriteByte('\n')
		}
		return b.String(), e.diags
	case *ast.Rule:
		e.rule = n.Name.Name
		return binding(n, e.alternation(n.Alternation)), e.diags
	default:
		text, _ := e.node(node)
		return text, e.diags
	}
}

func binding(r *ast.Rule, body string) string {
	return "(?<" + GroupName(r.Name.Name) + ">" + body + ")"
}

// emitter renders nodes. In reference form rule names become subroutine
// calls; in inline form they are replaced by the already expanded
// pattern of the referenced rule.
type emitter struct {
	rule   string
	inline map[string]string // expanded patterns by rule key; nil in reference form
	diags  []types.Diagnostic
	prose  bool
	wide   bool // a code point above maxCodePoint was seen
}

func (e *emitter) diag(sev types.Severity, code string, span types.Span, format string, args ...any) {
	e.diags = append(e.diags, types.Diagnostic{
		Severity: sev,
		Code:     code,
		Rule:     e.rule,
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	})
}

// node returns the rendered text and whether it is atomic, meaning a
// quantifier may follow it without adding a group.
func (e *emitter) node(n ast.Node) (string, bool) {
	switch n := n.(type) {
	case *ast.Alternation:
		if len(n.Alternatives) == 1 {
			return e.concatenation(n.Alternatives[0])
		}
		return e.alternation(n), false
	case *ast.Concatenation:
		return e.concatenation(n)
	case *ast.Repetition:
		return e.repetition(n)
	case *ast.RuleName:
		return e.reference(n), true
	case *ast.Group:
		return "(?:" + e.alternation(n.Alternation) + ")", true
	case *ast.Option:
		return "(?:" + e.alternation(n.Alternation) + ")?", false
	case *ast.CharVal:
		return literal(n.Contents, n.CaseSensitive)
	case *ast.NumVal:
		return e.numTerminal(n.Value)
	case *ast.BinVal, *ast.DecVal, *ast.HexVal:
		return e.numTerminal(n.(ast.NumTerminal))
	case *ast.ProseVal:
		e.prose = true
		e.diag(types.SeverityWarning, types.DiagProseVal, n.Span,
			"prose value <%s> has no pattern equivalent and is kept as a comment", n.Contents)
		return proseComment(n.Contents), false
	case *ast.Rule:
		return binding(n, e.alternation(n.Alternation)), true
	case *ast.RepeatCount:
		lo, hi, bounded := n.Bounds()
		return quantifier(lo, hi, bounded), false
	default:
		panic(fmt.Sprintf("generator: unexpected node %T", n))
	}
}

func (e *emitter) alternation(a *ast.Alternation) string {
	parts := make([]string, len(a.Alternatives))
	for i, c := range a.Alternatives {
		parts[i], _ = e.concatenation(c)
	}
	return strings.Join(parts, "|")
}

func (e *emitter) concatenation(c *ast.Concatenation) (string, bool) {
	if len(c.Items) == 1 {
		return e.repetition(c.Items[0])
	}
	var b strings.Builder
	for _, r := range c.Items {
		text, _ := e.repetition(r)
		b.WriteString(text)
	}
	return b.String(), false
}

func (e *emitter) repetition(r *ast.Repetition) (string, bool) {
	text, atomic := e.node(r.Element)
	if r.Repeat == nil {
		return text, atomic
	}
	lo, hi, bounded := r.Repeat.Bounds()
	q := quantifier(lo, hi, bounded)
	if q == "" {
		return text, atomic
	}
	if !atomic {
		text = "(?:" + text + ")"
	}
	return text + q, false
}

func (e *emitter) reference(n *ast.RuleName) string {
	if e.inline == nil {
		return "(?&" + GroupName(n.Name) + ")"
	}
	return "(?:" + e.inline[n.Key()] + ")"
}

func (e *emitter) numTerminal(t ast.NumTerminal) (string, bool) {
	v := t.Num()
	e.checkCodePoint(v, v.First)
	switch {
	case v.RangeEnd != nil:
		e.checkCodePoint(v, *v.RangeEnd)
		return "[" + codePoint(v.First) + "-" + codePoint(*v.RangeEnd) + "]", true
	case len(v.Chain) == 0:
		return codePoint(v.First), true
	default:
		var b strings.Builder
		b.WriteString(codePoint(v.First))
		for _, c := range v.Chain {
			e.checkCodePoint(v, c)
			b.WriteString(codePoint(c))
		}
		return b.String(), false
	}
}

func (e *emitter) checkCodePoint(v *ast.NumValue, n uint64) {
	if n <= maxCodePoint {
		return
	}
	e.wide = true
	e.diag(types.SeverityWarning, types.DiagCodePointRange, v.Span,
		"value %#x is beyond the largest code point %#x", n, maxCodePoint)
}
