package graph

import (
	"slices"
	"testing"

	"github.com/abnfkit/abnfc/internal/ast"
	"github.com/abnfkit/abnfc/internal/testutil"
	"github.com/abnfkit/abnfc/internal/types"
)

func TestGraphBasic(t *testing.T) {
	g := New(0)
	g.AddNode("a")
	g.AddNode("b")
	g.AddEdge("a", "b")

	if !g.HasNode("a") || !g.HasNode("b") {
		t.Fatal("graph should have nodes a and b")
	}
	if deps := g.Dependencies("a"); len(deps) != 1 || deps[0] != "b" {
		t.Errorf("a dependencies = %v, want [b]", deps)
	}
	if deps := g.Dependencies("b"); len(deps) != 0 {
		t.Errorf("b dependencies = %v, want none", deps)
	}
}

func TestAddEdgeCreatesNodes(t *testing.T) {
	g := New(0)
	g.AddEdge("a", "b")

	if !g.HasNode("a") {
		t.Error("AddEdge should create 'from' node")
	}
	if !g.HasNode("b") {
		t.Error("AddEdge should create 'to' node")
	}
	if got := g.Nodes(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("nodes = %v, want [a b]", got)
	}
}

func TestDuplicateEdgesAndNodes(t *testing.T) {
	g := New(0)
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")
	g.AddNode("a")

	testutil.Len(t, g.Dependencies("a"), 1, "dependencies of a")
	testutil.Len(t, g.Nodes(), 2, "nodes")
}

func TestResolutionOrderChain(t *testing.T) {
	g := New(3)
	g.AddEdge("c", "b")
	g.AddEdge("b", "a")

	order, cycles := g.ResolutionOrder()
	testutil.Len(t, cycles, 0, "cycles")
	testutil.SliceEqual(t, []string{"a", "b", "c"}, order, "resolution order")
}

func TestResolutionOrderDiamond(t *testing.T) {
	g := New(4)
	g.AddEdge("top", "left")
	g.AddEdge("top", "right")
	g.AddEdge("left", "bottom")
	g.AddEdge("right", "bottom")

	order, _ := g.ResolutionOrder()
	pos := make(map[string]int)
	for i, k := range order {
		pos[k] = i
	}
	if pos["bottom"] > pos["left"] || pos["bottom"] > pos["right"] {
		t.Errorf("bottom must precede left and right: %v", order)
	}
	testutil.Equal(t, len(order)-1, pos["top"], "top must come last: %v", order)
}

func TestCycles(t *testing.T) {
	g := New(0)
	g.AddEdge("x", "y")
	g.AddEdge("y", "z")
	g.AddEdge("z", "x")
	g.AddEdge("self", "self")
	g.AddEdge("free", "x")

	order, cycles := g.ResolutionOrder()
	if !slices.Equal(order, []string{"free"}) {
		t.Errorf("order = %v, want [free]", order)
	}
	if len(cycles) != 2 {
		t.Fatalf("cycles = %v, want 2", cycles)
	}
	if !slices.Equal(cycles[0], []string{"x", "y", "z"}) {
		t.Errorf("first cycle = %v, want [x y z]", cycles[0])
	}
	if !slices.Equal(cycles[1], []string{"self"}) {
		t.Errorf("second cycle = %v, want [self]", cycles[1])
	}

	rec := g.Recursive()
	for _, k := range []string{"x", "y", "z", "self"} {
		if !rec[k] {
			t.Errorf("%s should be recursive", k)
		}
	}
	if rec["free"] {
		t.Error("free should not be recursive")
	}
	if !g.HasCycles() {
		t.Error("HasCycles = false, want true")
	}
}

func TestReachable(t *testing.T) {
	g := New(0)
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("a", "c")
	g.AddNode("d")

	if got := g.Reachable("a"); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Reachable(a) = %v, want [b c]", got)
	}
	if got := g.Reachable("d"); len(got) != 0 {
		t.Errorf("Reachable(d) = %v, want none", got)
	}
}

func rule(name string, refs ...string) *ast.Rule {
	var items []*ast.Repetition
	for _, r := range refs {
		items = append(items, &ast.Repetition{Element: &ast.RuleName{Name: r}})
	}
	if len(items) == 0 {
		items = append(items, &ast.Repetition{Element: &ast.CharVal{Contents: name}})
	}
	return &ast.Rule{
		Name: ast.NewRuleName(name, types.Synthetic),
		Alternation: &ast.Alternation{Alternatives: []*ast.Concatenation{
			{Items: items},
		}},
	}
}

func TestFromRuleList(t *testing.T) {
	list := &ast.RuleList{Rules: []*ast.Rule{
		rule("Expr", "term", "Rest"),
		rule("term", "DIGIT"),
		rule("rest", "expr"),
	}}
	g := FromRuleList(list)

	if got := g.Nodes(); !slices.Equal(got, []string{"expr", "term", "rest", "digit"}) {
		t.Errorf("nodes = %v", got)
	}
	rec := g.Recursive()
	if !rec["expr"] || !rec["rest"] || rec["term"] {
		t.Errorf("recursive = %v, want expr and rest only", rec)
	}
	order, _ := g.ResolutionOrder()
	if !slices.Equal(order, []string{"digit", "term"}) {
		t.Errorf("order = %v, want [digit term]", order)
	}
}
