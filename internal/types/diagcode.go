package types

// Diagnostic codes emitted by the parser and generator.
// Centralizing these prevents silent breakage from typos in string literals.

// Parser diagnostic codes.
const (
	DiagRuleNameCase = "rule-name-case"
	DiagRepeatZero   = "repeat-zero"
)

// Generator diagnostic codes.
const (
	DiagProseVal          = "prose-val"
	DiagCodePointRange    = "code-point-range"
	DiagInlineUnavailable = "inline-unavailable"
)

// AllDiagnosticCodes returns all known diagnostic codes grouped by phase.
func AllDiagnosticCodes() []DiagCodeInfo {
	return []DiagCodeInfo{
		// Parser
		{Code: DiagRuleNameCase, Phase: "parser"},
		{Code: DiagRepeatZero, Phase: "parser"},
		// Generator
		{Code: DiagProseVal, Phase: "generator"},
		{Code: DiagCodePointRange, Phase: "generator"},
		{Code: DiagInlineUnavailable, Phase: "generator"},
	}
}

// DiagCodeInfo describes a diagnostic code and the phase that emits it.
type DiagCodeInfo struct {
	Code  string
	Phase string
}
