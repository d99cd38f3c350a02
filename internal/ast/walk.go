package ast

import "fmt"

// Walk visits n and its descendants in source order. If fn returns false
// the children of that node are skipped. NumTerminal values are visited
// as children of their NumVal.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *RuleList:
		for _, r := range n.Rules {
			Walk(r, fn)
		}
	case *Rule:
		Walk(n.Alternation, fn)
	case *Alternation:
		for _, c := range n.Alternatives {
			Walk(c, fn)
		}
	case *Concatenation:
		for _, r := range n.Items {
			Walk(r, fn)
		}
	case *Repetition:
		if n.Repeat != nil {
			Walk(n.Repeat, fn)
		}
		Walk(n.Element, fn)
	case *Group:
		Walk(n.Alternation, fn)
	case *Option:
		Walk(n.Alternation, fn)
	case *NumVal:
		Walk(n.Value, fn)
	case *RuleName, *CharVal, *ProseVal, *RepeatCount, *BinVal, *DecVal, *HexVal:
	default:
		panic(fmt.Sprintf("ast: unexpected node %T", n))
	}
}

// References returns the rule names referenced from n, in order of
// appearance, including duplicates.
func References(n Node) []*RuleName {
	var refs []*RuleName
	Walk(n, func(n Node) bool {
		if ref, ok := n.(*RuleName); ok {
			refs = append(refs, ref)
		}
		return true
	})
	return refs
}

// HasProse reports whether n contains a prose value.
func HasProse(n Node) bool {
	found := false
	Walk(n, func(n Node) bool {
		if _, ok := n.(*ProseVal); ok {
			found = true
		}
		return !found
	})
	return found
}
