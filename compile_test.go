package abnfc

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abnfkit/abnfc/internal/testutil"
)

func TestCompilePostal(t *testing.T) {
	g, err := CompileFile(context.Background(), "testdata/grammars/postal.abnf")
	require.NoError(t, err)

	assert.Equal(t, "testdata/grammars/postal.abnf", g.Name)
	assert.Len(t, g.Rules.Rules, 20)
	assert.Len(t, g.Patterns.Rules, 20)
	assert.Empty(t, g.Diagnostics)
	assert.Empty(t, g.Undefined())

	namePart := g.Patterns.Lookup("name-part")
	require.NotNil(t, namePart)
	assert.Equal(t,
		`(?:(?&personal_part)(?&sp))*(?&last_name)(?:(?&sp)(?&suffix))?(?&crlf)|(?&personal_part)(?&crlf)`,
		namePart.Pattern)
}

func TestCompileJSONInline(t *testing.T) {
	g, err := CompileFile(context.Background(), "testdata/grammars/rfc/json.abnf", WithInline(true))
	require.NoError(t, err)
	require.Len(t, g.Rules.Rules, 32)

	number := g.Patterns.Lookup("number")
	require.NotEmpty(t, number.Inline)
	re := regexp.MustCompile(`^(?:` + number.Inline + `)$`)
	for _, s := range []string{"0", "-12", "3.25", "-12.5e+3", "1E9"} {
		assert.True(t, re.MatchString(s), s)
	}
	for _, s := range []string{"012", "1.", "+1", "--1"} {
		assert.False(t, re.MatchString(s), s)
	}

	str := g.Patterns.Lookup("string")
	require.NotEmpty(t, str.Inline)
	re = regexp.MustCompile(`^(?:` + str.Inline + `)$`)
	assert.True(t, re.MatchString(`"a\"bé"`))
	assert.False(t, re.MatchString(`"unterminated`))

	for _, name := range []string{"JSON-text", "value", "object", "array", "member"} {
		assert.Empty(t, g.Patterns.Lookup(name).Inline, name)
	}
}

func TestRuleInfo(t *testing.T) {
	g, err := CompileFile(context.Background(), "testdata/grammars/rfc/json.abnf", WithInline(true))
	require.NoError(t, err)

	infos := make(map[string]RuleInfo)
	for _, info := range g.RuleInfo() {
		infos[info.Name] = info
	}

	value := infos["value"]
	assert.True(t, value.Recursive)
	assert.Equal(t, 7, value.Alternatives)
	assert.Equal(t, []string{"false", "null", "true", "object", "array", "number", "string"}, value.References)
	assert.False(t, value.Inline)

	text := infos["JSON-text"]
	assert.False(t, text.Recursive)
	assert.False(t, text.Inline)

	number := infos["number"]
	assert.False(t, number.Recursive)
	assert.True(t, number.Inline)
	assert.Empty(t, number.Undefined)
}

func TestUndefinedReferences(t *testing.T) {
	g, err := Compile(context.Background(), []byte(testutil.Postal), "postal.abnf")
	require.NoError(t, err)
	assert.Equal(t, []string{"SP", "CRLF", "ALPHA", "DIGIT", "VCHAR"}, g.Undefined())
}

func TestCompileLexErrorIsLocated(t *testing.T) {
	_, err := Compile(context.Background(), []byte("a = \"x\"\nb = @\n"), "lex.abnf")
	require.Error(t, err)

	var located *Error
	require.True(t, errors.As(err, &located))
	assert.Equal(t, 2, located.Pos.Line)
	assert.Equal(t, 5, located.Pos.Column)
	assert.Equal(t, "b = @\n    ^", located.Excerpt)
	assert.True(t, strings.HasPrefix(err.Error(), "lex.abnf:2:5: "), err.Error())

	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, "@", lexErr.Near)
}

func TestCompileParseErrorIsLocated(t *testing.T) {
	_, err := Compile(context.Background(), []byte("a = \"x\"\n\n  a = \"y\"\n"), "dup.abnf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateRule)

	var located *Error
	require.True(t, errors.As(err, &located))
	assert.Equal(t, 3, located.Pos.Line)
	assert.Equal(t, 3, located.Pos.Column)
	assert.Equal(t, "  a = \"y\"\n  ^", located.Excerpt)
	assert.True(t, strings.HasPrefix(err.Error(), "dup.abnf:3:3: duplicate rule definition"), err.Error())

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "a", parseErr.Found)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		source string
		want   error
	}{
		{"", ErrEmptyGrammar},
		{"a =/ b", ErrUndefinedIncrementalRule},
		{"a = 3*2b", ErrInvalidRepeat},
		{"a = 2 b", ErrInvalidRepeat},
		{"a = %x5A-41", ErrInvalidRange},
		{"a = %x10000000000000000", ErrInvalidNumber},
		{"a = (b", ErrUnexpectedEOF},
		{"a = b ]", ErrUnexpectedToken},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			g, err := Compile(context.Background(), []byte(tt.source), "err.abnf")
			assert.Nil(t, g)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCompileFileMissing(t *testing.T) {
	_, err := CompileFile(context.Background(), "testdata/grammars/missing.abnf")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestCompileMaxDepth(t *testing.T) {
	src := []byte("a = ((((b))))")
	_, err := Compile(context.Background(), src, "deep.abnf", WithMaxDepth(3))
	assert.ErrorIs(t, err, ErrTooDeep)

	_, err = Compile(context.Background(), src, "deep.abnf")
	assert.NoError(t, err)
}

func TestCompileDiagnostics(t *testing.T) {
	src := []byte("a = <free text> / 0b\nA =/ \"x\"\n")

	g, err := Compile(context.Background(), src, "diag.abnf")
	require.NoError(t, err)
	codes := make([]string, len(g.Diagnostics))
	for i, d := range g.Diagnostics {
		codes[i] = d.Code
	}
	assert.Equal(t, []string{"repeat-zero", "rule-name-case", "prose-val"}, codes)
	assert.Equal(t, []string{"a"}, g.Patterns.Diminished())

	prose := g.Diagnostics[2]
	assert.True(t, strings.HasPrefix(g.Locate(prose), "diag.abnf:1:5: [warning] a: "), g.Locate(prose))

	g, err = Compile(context.Background(), src, "diag.abnf", WithDiagnosticConfig(QuietConfig()))
	require.NoError(t, err)
	assert.Empty(t, g.Diagnostics)

	g, err = Compile(context.Background(), src, "diag.abnf", WithDiagnosticConfig(DiagnosticConfig{
		Level:     StrictnessNormal,
		Overrides: map[string]Severity{"prose-val": SeverityError},
		Ignore:    []string{"r*"},
	}))
	require.NoError(t, err)
	require.Len(t, g.Diagnostics, 1)
	assert.Equal(t, SeverityError, g.Diagnostics[0].Severity)
}

func TestCompileIsDeterministic(t *testing.T) {
	ctx := context.Background()
	a, err := CompileFile(ctx, "testdata/grammars/rfc/json.abnf", WithInline(true))
	require.NoError(t, err)
	b, err := CompileFile(ctx, "testdata/grammars/rfc/json.abnf", WithInline(true), WithParallelism(1))
	require.NoError(t, err)
	testutil.TextEqual(t, a.Patterns.Text(), b.Patterns.Text())
	testutil.TextEqual(t, a.Patterns.InlineText(), b.Patterns.InlineText())
}

func TestCompileLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}))

	_, err := Compile(context.Background(), []byte("a = b\nb = \"x\"\n"), "log.abnf", WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	for _, component := range []string{"compile", "lexer", "parser", "generator"} {
		assert.Contains(t, out, "component="+component)
	}
	assert.Contains(t, out, "grammar compiled")
}

func TestTokenizeAndDump(t *testing.T) {
	tokens, err := Tokenize([]byte("a = b"), "")
	require.NoError(t, err)
	assert.Len(t, tokens, 6)

	g, err := Compile(context.Background(), []byte("a = b"), "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(Dump(g.Rules), "RuleList (1)\n  Rule a\n"))

	frag, _ := Fragment(g.Rules.Rules[0])
	assert.Equal(t, "(?<a>(?&b))", frag)
}

func TestDiagnosticCodes(t *testing.T) {
	codes := DiagnosticCodes()
	assert.Len(t, codes, 5)
	for _, c := range codes {
		assert.NotEmpty(t, c.Phase, c.Code)
	}
}

func TestCommentsDoNotChangePatterns(t *testing.T) {
	ctx := context.Background()
	annotated, err := Compile(ctx, testutil.Fixture(t, "grammars/core.abnf"), "core.abnf")
	require.NoError(t, err)
	plain, err := Compile(ctx, []byte(testutil.CoreRules), "core.abnf")
	require.NoError(t, err)
	testutil.TextEqual(t, plain.Patterns.Text(), annotated.Patterns.Text())
}
