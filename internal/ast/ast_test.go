package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abnfkit/abnfc/internal/ast"
	"github.com/abnfkit/abnfc/internal/lexer"
	"github.com/abnfkit/abnfc/internal/parser"
	"github.com/abnfkit/abnfc/internal/testutil"
)

func mustParse(t *testing.T, source string) *ast.RuleList {
	t.Helper()
	tokens, err := lexer.Tokenize([]byte(source), "")
	testutil.NoError(t, err, "tokenize %q", source)
	list, err := parser.Parse(tokens)
	testutil.NoError(t, err, "parse %q", source)
	return list
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	list := mustParse(t, "Rule-One = \"a\"\nrule-two = Rule-One\n")
	require.NotNil(t, list.Lookup("RULE-ONE"))
	assert.Equal(t, "Rule-One", list.Lookup("rule-one").Name.Name)
	assert.Nil(t, list.Lookup("rule-three"))
	assert.Equal(t, "rule-one", list.Rules[0].Name.Key())
}

func TestReferences(t *testing.T) {
	list := mustParse(t, "a = b *(c / [B]) \"x\" %x41\n")
	var names []string
	for _, r := range ast.References(list.Rules[0]) {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"b", "c", "B"}, names)
}

func TestHasProse(t *testing.T) {
	list := mustParse(t, "a = b / (c <prose>)\nb = \"x\"\n")
	assert.True(t, ast.HasProse(list.Rules[0]))
	assert.False(t, ast.HasProse(list.Rules[1]))
}

func TestWalkSkipsChildren(t *testing.T) {
	list := mustParse(t, "a = (b c) d\n")
	var seen []string
	ast.Walk(list, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.RuleName:
			seen = append(seen, n.Name)
		case *ast.Group:
			return false
		}
		return true
	})
	assert.Equal(t, []string{"d"}, seen)
}

func TestWalkVisitsNumTerminals(t *testing.T) {
	list := mustParse(t, "a = %x41 %d10-13 %b1.0\n")
	var bases []int
	ast.Walk(list, func(n ast.Node) bool {
		if nt, ok := n.(ast.NumTerminal); ok {
			bases = append(bases, nt.Base())
		}
		return true
	})
	assert.Equal(t, []int{16, 10, 2}, bases)
}

func TestFormatNum(t *testing.T) {
	list := mustParse(t, "a = %x41 %x61-7a %d13.10 %b101\n")
	var got []string
	ast.Walk(list, func(n ast.Node) bool {
		if nv, ok := n.(*ast.NumVal); ok {
			got = append(got, ast.FormatNum(nv.Value))
		}
		return true
	})
	assert.Equal(t, []string{"%x41", "%x61-7A", "%d13.10", "%b101"}, got)
}

func TestFormatRepeat(t *testing.T) {
	list := mustParse(t, "a = 3b 1*c *4d 2*5e *f 1*1g\n")
	var got []string
	for _, rep := range list.Rules[0].Alternation.Alternatives[0].Items {
		got = append(got, ast.FormatRepeat(rep.Repeat))
	}
	assert.Equal(t, []string{"3", "1*", "*4", "2*5", "*", "1"}, got)
}

func TestValues(t *testing.T) {
	v := &ast.NumValue{First: 1, Chain: []uint64{2, 3}}
	assert.Equal(t, []uint64{1, 2, 3}, v.Values())
	assert.False(t, v.IsRange())
}

func TestDump(t *testing.T) {
	list := mustParse(t, "r = 1*2DIGIT / [%s\"Ab\" <p>] (x)\n")
	want := `RuleList (1)
  Rule r
    Alternation
      Concatenation
        Repetition 1*2
          RuleName DIGIT
      Concatenation
        Repetition
          Option
            Alternation
              Concatenation
                Repetition
                  CharVal %s"Ab"
                Repetition
                  ProseVal <p>
        Repetition
          Group
            Alternation
              Concatenation
                Repetition
                  RuleName x
`
	testutil.TextEqual(t, want, ast.Dump(list))
}

func TestDumpSingleRule(t *testing.T) {
	list := mustParse(t, "a = %x41.42 / %b1-11\nb = 3c\n")
	out := ast.Dump(list.Rules[0])
	testutil.Contains(t, out, "NumVal %x41.42")
	testutil.Contains(t, out, "NumVal %b1-11")

	out = ast.Dump(list.Lookup("b"))
	testutil.Contains(t, out, "Repetition 3\n        RuleName c")
}

func TestParseFailureHasNoList(t *testing.T) {
	tokens, err := lexer.Tokenize([]byte("a = (b"), "")
	testutil.NoError(t, err)
	list, err := parser.Parse(tokens)
	testutil.Error(t, err, "unclosed group")
	assert.Nil(t, list)
}
