package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/abnfkit/abnfc"
	"github.com/abnfkit/abnfc/cmd/internal/cliutil"
)

type checkConfig struct {
	level    int
	failOn   int
	ignore   []string
	format   string
	summary  bool
	parallel int
}

type checkResult struct {
	Files       []string           `json:"files" yaml:"files"`
	Errors      []string           `json:"errors,omitempty" yaml:"errors,omitempty"`
	Diagnostics []DiagnosticOutput `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Summary     checkSummary       `json:"summary" yaml:"summary"`
	ExitCode    int                `json:"-" yaml:"-"`
}

type checkSummary struct {
	Files      int            `json:"files" yaml:"files"`
	Failed     int            `json:"failed" yaml:"failed"`
	Total      int            `json:"total" yaml:"total"`
	BySeverity map[string]int `json:"by_severity" yaml:"by_severity"`
	ByCode     map[string]int `json:"by_code,omitempty" yaml:"by_code,omitempty"`
}

func (c *cli) newCheckCmd() *cobra.Command {
	cfg := checkConfig{
		level:  int(abnfc.StrictnessNormal),
		failOn: int(abnfc.SeverityError),
		format: string(cliutil.FormatText),
	}
	cmd := &cobra.Command{
		Use:   "check [flags] <path>...",
		Short: "Check grammars for errors and diagnostics",
		Long: `Compile every grammar under the given paths and report problems.
A path may be a directory (searched recursively for .abnf and .bnf
files), a file, or a doublestar glob.

Severity levels:
  0 = fatal       Cannot continue
  1 = severe      Output is wrong unless corrected
  2 = error       Able to continue, should correct
  3 = minor       Minor issue
  4 = style       Style recommendation
  5 = warning     Output is less precise than the grammar
  6 = info        Informational`,
		Example: `  abnfc check grammars/
  abnfc check --level 6 'rfc/**/*.abnf'
  abnfc check --fail-on 5 --ignore "rule-name-*" grammar.abnf
  abnfc check --format json grammars/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cliutil.ParseFormat(cfg.format)
			if err != nil {
				return err
			}
			result, err := c.runCheck(cmd, args, cfg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if format == cliutil.FormatText {
				printCheckText(w, result, cfg.summary)
			} else if err := cliutil.Encode(w, format, result); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			if result.ExitCode != exitOK {
				return &exitCodeError{code: result.ExitCode}
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&cfg.level, "level", cfg.level, "report diagnostics at severity `N` or below (0-7)")
	fl.IntVar(&cfg.failOn, "fail-on", cfg.failOn, "fail if any diagnostic is at severity `N` or below")
	fl.StringArrayVar(&cfg.ignore, "ignore", nil, "ignore diagnostic codes matching `glob` (repeatable)")
	fl.StringVarP(&cfg.format, "format", "f", cfg.format, "output format: text, json or yaml")
	fl.BoolVar(&cfg.summary, "summary", false, "show counts only")
	fl.IntVar(&cfg.parallel, "parallel", 0, "files compiled at once (0 = number of CPUs)")
	return cmd
}

func (c *cli) runCheck(cmd *cobra.Command, paths []string, cfg checkConfig) (*checkResult, error) {
	fc, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("level") && fc.Level != nil {
		cfg.level = *fc.Level
	}
	diagCfg, err := diagnosticConfig(cfg.level, slices.Concat(fc.Ignore, cfg.ignore), fc.Overrides, nil)
	if err != nil {
		return nil, err
	}

	var sources []abnfc.Source
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			src, err := abnfc.Dir(p)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
			continue
		}
		sources = append(sources, abnfc.Files(p))
	}
	src := abnfc.Multi(sources...)
	files, err := src.Files()
	if err != nil {
		return nil, err
	}

	opts := []abnfc.Option{
		abnfc.WithDiagnosticConfig(diagCfg),
		abnfc.WithParallelism(cfg.parallel),
		abnfc.WithInline(true),
	}
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, abnfc.WithLogger(logger))
	}
	grammars, compileErr := abnfc.CompileAll(cmd.Context(), src, opts...)
	if err := cmd.Context().Err(); err != nil {
		return nil, err
	}

	result := &checkResult{
		Files: files,
		Summary: checkSummary{
			Files:      len(files),
			Failed:     len(files) - len(grammars),
			BySeverity: make(map[string]int),
			ByCode:     make(map[string]int),
		},
	}
	if compileErr != nil {
		result.Errors = splitJoined(compileErr)
		result.ExitCode = exitError
	}
	for _, g := range grammars {
		for _, d := range diagnosticOutputs(g) {
			result.Diagnostics = append(result.Diagnostics, d)
			result.Summary.Total++
			result.Summary.BySeverity[d.Severity]++
			result.Summary.ByCode[d.Code]++
		}
		for _, d := range g.Diagnostics {
			if int(d.Severity) <= cfg.failOn && result.ExitCode == exitOK {
				result.ExitCode = exitCheckFailed
			}
		}
	}
	return result, nil
}

// splitJoined flattens an errors.Join result into messages.
func splitJoined(err error) []string {
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return []string{err.Error()}
	}
	var out []string
	for _, e := range joined.Unwrap() {
		out = append(out, e.Error())
	}
	return out
}

func printCheckText(w io.Writer, result *checkResult, summaryOnly bool) {
	if !summaryOnly {
		for _, e := range result.Errors {
			fmt.Fprintf(w, "%s\n", e)
		}
		for _, d := range result.Diagnostics {
			printCheckDiagLine(w, d)
		}
	}

	s := result.Summary
	if s.Total == 0 && s.Failed == 0 {
		fmt.Fprintf(w, "No issues found in %d files\n", s.Files)
		return
	}
	if !summaryOnly {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d files, %d failed, %d diagnostics\n", s.Files, s.Failed, s.Total)
	for sev := abnfc.SeverityFatal; sev <= abnfc.SeverityInfo; sev++ {
		if n := s.BySeverity[sev.String()]; n > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", sev.String()+":", n)
		}
	}
}

func printCheckDiagLine(w io.Writer, d DiagnosticOutput) {
	if d.File != "" && d.Line > 0 {
		fmt.Fprintf(w, "%s:%d:%d: ", d.File, d.Line, d.Column)
	}
	fmt.Fprintf(w, "[%s] %s", d.Severity, d.Code)
	if d.Rule != "" {
		fmt.Fprintf(w, " %s", d.Rule)
	}
	fmt.Fprintf(w, ": %s\n", d.Message)
}
