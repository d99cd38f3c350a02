package main

import (
	"github.com/abnfkit/abnfc"
)

// GrammarOutput is the JSON and YAML form of a compiled grammar.
type GrammarOutput struct {
	Name        string             `json:"name" yaml:"name"`
	Rules       []RuleOutput       `json:"rules" yaml:"rules"`
	Document    string             `json:"document,omitempty" yaml:"document,omitempty"`
	Diagnostics []DiagnosticOutput `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// RuleOutput holds the patterns and reference summary of one rule.
type RuleOutput struct {
	Name       string   `json:"name" yaml:"name"`
	Key        string   `json:"key" yaml:"key"`
	Pattern    string   `json:"pattern" yaml:"pattern"`
	Inline     string   `json:"inline,omitempty" yaml:"inline,omitempty"`
	References []string `json:"references,omitempty" yaml:"references,omitempty"`
	Undefined  []string `json:"undefined,omitempty" yaml:"undefined,omitempty"`
	Recursive  bool     `json:"recursive,omitempty" yaml:"recursive,omitempty"`
	Diminished bool     `json:"diminished,omitempty" yaml:"diminished,omitempty"`
}

// DiagnosticOutput is a located diagnostic.
type DiagnosticOutput struct {
	File     string `json:"file,omitempty" yaml:"file,omitempty"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column   int    `json:"column,omitempty" yaml:"column,omitempty"`
	Severity string `json:"severity" yaml:"severity"`
	Code     string `json:"code" yaml:"code"`
	Rule     string `json:"rule,omitempty" yaml:"rule,omitempty"`
	Message  string `json:"message" yaml:"message"`
}

func grammarOutput(g *abnfc.Grammar, document bool) GrammarOutput {
	out := GrammarOutput{
		Name:        g.Name,
		Rules:       make([]RuleOutput, len(g.Patterns.Rules)),
		Diagnostics: diagnosticOutputs(g),
	}
	infos := g.RuleInfo()
	for i, rp := range g.Patterns.Rules {
		out.Rules[i] = RuleOutput{
			Name:       rp.Name,
			Key:        rp.Key,
			Pattern:    rp.Pattern,
			Inline:     rp.Inline,
			References: infos[i].References,
			Undefined:  infos[i].Undefined,
			Recursive:  infos[i].Recursive,
			Diminished: rp.Diminished,
		}
	}
	if document {
		out.Document = g.Patterns.Document()
	}
	return out
}

func diagnosticOutputs(g *abnfc.Grammar) []DiagnosticOutput {
	var out []DiagnosticOutput
	for _, d := range g.Diagnostics {
		do := DiagnosticOutput{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Rule:     d.Rule,
			Message:  d.Message,
		}
		if !d.Span.IsSynthetic() {
			pos := g.Position(uint32(d.Span.Start))
			do.File, do.Line, do.Column = pos.File, pos.Line, pos.Column
		}
		out = append(out, do)
	}
	return out
}
