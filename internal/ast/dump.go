package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders n as an indented tree, one node per line, for debugging.
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	switch n := n.(type) {
	case *RuleList:
		fmt.Fprintf(b, "RuleList (%d)\n", len(n.Rules))
	case *Rule:
		fmt.Fprintf(b, "Rule %s\n", n.Name.Name)
	case *Alternation:
		b.WriteString("Alternation\n")
	case *Concatenation:
		b.WriteString("Concatenation\n")
	case *Repetition:
		b.WriteString("Repetition")
		if n.Repeat != nil {
			b.WriteByte(' ')
			b.WriteString(FormatRepeat(n.Repeat))
		}
		b.WriteByte('\n')
		dump(b, n.Element, depth+1)
		return
	case *RuleName:
		fmt.Fprintf(b, "RuleName %s\n", n.Name)
	case *Group:
		b.WriteString("Group\n")
	case *Option:
		b.WriteString("Option\n")
	case *CharVal:
		if n.CaseSensitive {
			fmt.Fprintf(b, "CharVal %%s%q\n", n.Contents)
		} else {
			fmt.Fprintf(b, "CharVal %q\n", n.Contents)
		}
	case *NumVal:
		fmt.Fprintf(b, "NumVal %s\n", FormatNum(n.Value))
		return
	case *ProseVal:
		fmt.Fprintf(b, "ProseVal <%s>\n", n.Contents)
	default:
		fmt.Fprintf(b, "%T\n", n)
		return
	}

	switch n := n.(type) {
	case *RuleList:
		for _, r := range n.Rules {
			dump(b, r, depth+1)
		}
	case *Rule:
		dump(b, n.Alternation, depth+1)
	case *Alternation:
		for _, c := range n.Alternatives {
			dump(b, c, depth+1)
		}
	case *Concatenation:
		for _, r := range n.Items {
			dump(b, r, depth+1)
		}
	case *Group:
		dump(b, n.Alternation, depth+1)
	case *Option:
		dump(b, n.Alternation, depth+1)
	}
}

// FormatRepeat renders a repeat count in ABNF notation: "3", "1*", "*2",
// "2*5" or "*". Equal bounds render as an exact count.
func FormatRepeat(c *RepeatCount) string {
	lo, hi, bounded := c.Bounds()
	if bounded && c.Min != nil && lo == hi {
		return strconv.FormatUint(lo, 10)
	}
	var b strings.Builder
	if c.Min != nil {
		b.WriteString(strconv.FormatUint(lo, 10))
	}
	b.WriteByte('*')
	if bounded {
		b.WriteString(strconv.FormatUint(hi, 10))
	}
	return b.String()
}

// FormatNum renders a numeric terminal in ABNF notation with upper-case
// digits, e.g. "%x41-5A" or "%d13.10".
func FormatNum(t NumTerminal) string {
	var prefix string
	switch t.(type) {
	case *BinVal:
		prefix = "%b"
	case *DecVal:
		prefix = "%d"
	case *HexVal:
		prefix = "%x"
	default:
		panic(fmt.Sprintf("ast: unexpected numeric terminal %T", t))
	}
	v := t.Num()
	base := t.Base()
	format := func(n uint64) string {
		return strings.ToUpper(strconv.FormatUint(n, base))
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(format(v.First))
	for _, c := range v.Chain {
		b.WriteByte('.')
		b.WriteString(format(c))
	}
	if v.RangeEnd != nil {
		b.WriteByte('-')
		b.WriteString(format(*v.RangeEnd))
	}
	return b.String()
}
