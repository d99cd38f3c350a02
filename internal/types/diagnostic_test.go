package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		s       string
		want    bool
	}{
		// Wildcard only
		{"*", "anything", true},
		{"*", "", true},

		// Trailing wildcard
		{"inline-*", "inline-unavailable", true},
		{"inline-*", "inline-", true},
		{"inline-*", "prose-val", false},
		{"inline-*", "inline", false},

		// Leading wildcard
		{"*-val", "prose-val", true},
		{"*-VAL", "prose-val", false},

		// Alternatives
		{"{prose,repeat}-*", "repeat-zero", true},

		// Exact match
		{"exact", "exact", true},
		{"exact", "other", false},

		// Malformed pattern
		{"[", "x", false},

		// Edge cases
		{"", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.s, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchGlob(tt.pattern, tt.s))
		})
	}
}

func TestDiagnosticConfigShouldReport(t *testing.T) {
	tests := []struct {
		name   string
		config DiagnosticConfig
		code   string
		sev    Severity
		want   bool
	}{
		{"strict/fatal", StrictConfig(), "test", SeverityFatal, true},
		{"strict/info", StrictConfig(), "test", SeverityInfo, true},

		{"normal/error", DefaultConfig(), "test", SeverityError, true},
		{"normal/warning", DefaultConfig(), "test", SeverityWarning, true},
		{"normal/info", DefaultConfig(), "test", SeverityInfo, false},

		{"quiet/minor", QuietConfig(), "test", SeverityMinor, true},
		{"quiet/style", QuietConfig(), "test", SeverityStyle, false},
		{"quiet/warning", QuietConfig(), "test", SeverityWarning, false},

		{"silent/fatal", DiagnosticConfig{Level: StrictnessSilent}, "test", SeverityFatal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.config.ShouldReport(tt.code, tt.sev))
		})
	}
}

func TestDiagnosticConfigIgnoreAndOverride(t *testing.T) {
	cfg := DiagnosticConfig{
		Level:     StrictnessNormal,
		Ignore:    []string{"inline-*"},
		Overrides: map[string]Severity{DiagRuleNameCase: SeverityInfo},
	}

	assert.False(t, cfg.ShouldReport(DiagInlineUnavailable, SeverityError), "glob-ignored code")
	assert.False(t, cfg.ShouldReport(DiagRuleNameCase, SeverityStyle), "downgraded below level")
	assert.True(t, cfg.ShouldReport(DiagProseVal, SeverityWarning))

	diags := cfg.Filter([]Diagnostic{
		{Severity: SeverityWarning, Code: DiagProseVal, Message: "a"},
		{Severity: SeverityInfo, Code: DiagInlineUnavailable, Message: "b"},
		{Severity: SeverityStyle, Code: DiagRuleNameCase, Message: "c"},
	})
	assert.Len(t, diags, 1)
	assert.Equal(t, DiagProseVal, diags[0].Code)
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Severity: SeverityWarning, Code: DiagProseVal, Rule: "greeting", Message: "prose value"}
	assert.Equal(t, "[warning] greeting: prose value", d.String())

	d.Rule = ""
	assert.Equal(t, "[warning] prose value", d.String())

	src := NewSource("g.abnf", []byte("a = b\nc = <x>\n"))
	d.Span = NewSpan(10, 13)
	assert.Equal(t, "g.abnf:2:5: [warning] prose value", d.Locate(src))
}
