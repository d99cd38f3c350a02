package types

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Severity levels for diagnostics. Lower values are more severe.
type Severity int

const (
	SeverityFatal   Severity = 0 // Cannot continue
	SeveritySevere  Severity = 1 // Output is wrong unless corrected
	SeverityError   Severity = 2 // Able to continue, should correct
	SeverityMinor   Severity = 3 // Minor issue, should correct
	SeverityStyle   Severity = 4 // Style recommendation
	SeverityWarning Severity = 5 // Output is less precise than the grammar
	SeverityInfo    Severity = 6 // Informational notice
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeveritySevere:
		return "severe"
	case SeverityError:
		return "error"
	case SeverityMinor:
		return "minor"
	case SeverityStyle:
		return "style"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("Severity(%d)", s)
	}
}

// AtLeast reports whether s is as severe as other or more.
func (s Severity) AtLeast(other Severity) bool {
	return s <= other
}

// StrictnessLevel defines preset reporting thresholds.
type StrictnessLevel int

const (
	StrictnessStrict StrictnessLevel = 0 // Report everything
	StrictnessQuiet  StrictnessLevel = 3 // Report minor issues and above
	StrictnessNormal StrictnessLevel = 5 // Report warnings and above
	StrictnessSilent StrictnessLevel = 7 // Report nothing
)

func (l StrictnessLevel) String() string {
	switch l {
	case StrictnessStrict:
		return "strict"
	case StrictnessNormal:
		return "normal"
	case StrictnessQuiet:
		return "quiet"
	case StrictnessSilent:
		return "silent"
	default:
		return fmt.Sprintf("StrictnessLevel(%d)", l)
	}
}

// Diagnostic is a non-fatal finding from the parser or generator.
type Diagnostic struct {
	Severity Severity
	Code     string // e.g. "prose-val", "rule-name-case"
	Rule     string // rule the finding belongs to, if any
	Span     Span
	Message  string
}

// String returns "[severity] rule: message" with the rule omitted when empty.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(d.Severity.String())
	b.WriteString("] ")
	if d.Rule != "" {
		b.WriteString(d.Rule)
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

// Locate renders the diagnostic with a file:line:col prefix taken from src.
func (d Diagnostic) Locate(src *Source) string {
	if src == nil || d.Span.IsSynthetic() {
		return d.String()
	}
	return src.Position(d.Span.Start).String() + ": " + d.String()
}

// DiagnosticConfig controls which diagnostics are reported.
type DiagnosticConfig struct {
	// Level sets the reporting threshold.
	// Diagnostics with severity > Level are suppressed.
	Level StrictnessLevel

	// Overrides change severity for specific diagnostic codes.
	Overrides map[string]Severity

	// Ignore lists diagnostic codes to suppress entirely.
	// Entries are doublestar patterns (e.g. "inline-*").
	Ignore []string
}

// DefaultConfig returns the default diagnostic configuration.
func DefaultConfig() DiagnosticConfig {
	return DiagnosticConfig{Level: StrictnessNormal}
}

// StrictConfig reports every diagnostic, including informational ones.
func StrictConfig() DiagnosticConfig {
	return DiagnosticConfig{Level: StrictnessStrict}
}

// QuietConfig reports only minor issues and above.
func QuietConfig() DiagnosticConfig {
	return DiagnosticConfig{Level: StrictnessQuiet}
}

// Severity returns the effective severity of code after overrides.
func (c DiagnosticConfig) Severity(code string, sev Severity) Severity {
	if override, ok := c.Overrides[code]; ok {
		return override
	}
	return sev
}

// ShouldReport returns true if a diagnostic with the given code and severity
// should be reported under this configuration.
func (c DiagnosticConfig) ShouldReport(code string, sev Severity) bool {
	if slices.ContainsFunc(c.Ignore, func(pattern string) bool {
		return MatchGlob(pattern, code)
	}) {
		return false
	}

	if c.Level >= StrictnessSilent {
		return false
	}

	if c.Level == StrictnessStrict {
		return true
	}

	return int(c.Severity(code, sev)) <= int(c.Level)
}

// Filter returns the diagnostics that should be reported, with overrides
// applied.
func (c DiagnosticConfig) Filter(diags []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if !c.ShouldReport(d.Code, d.Severity) {
			continue
		}
		d.Severity = c.Severity(d.Code, d.Severity)
		out = append(out, d)
	}
	return out
}

// MatchGlob reports whether code matches pattern. Malformed patterns
// only match themselves.
func MatchGlob(pattern, code string) bool {
	ok, err := doublestar.Match(pattern, code)
	if err != nil {
		return pattern == code
	}
	return ok
}
