package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abnfkit/abnfc"
	"github.com/abnfkit/abnfc/cmd/internal/cliutil"
)

// fileConfig is the YAML config file read with --config. Explicit flags
// win over values from the file.
//
//	format: json
//	inline: true
//	parallel: 4
//	level: 6
//	ignore: ["rule-name-case"]
//	overrides:
//	  prose-val: error
type fileConfig struct {
	Format    string            `yaml:"format"`
	Inline    *bool             `yaml:"inline"`
	Document  *bool             `yaml:"document"`
	Parallel  *int              `yaml:"parallel"`
	Level     *int              `yaml:"level"`
	MaxDepth  *int              `yaml:"max-depth"`
	Ignore    []string          `yaml:"ignore"`
	Overrides map[string]string `yaml:"overrides"`
}

func (c *cli) loadConfig() (*fileConfig, error) {
	var fc fileConfig
	if c.configFile == "" {
		return &fc, nil
	}
	f, err := os.Open(c.configFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading config %s: %w", c.configFile, err)
	}
	return &fc, nil
}

// compileFlags are the flags of the root compile command.
type compileFlags struct {
	format    string
	inline    bool
	document  bool
	parallel  int
	level     int
	maxDepth  int
	ignore    []string
	overrides []string
}

func (f *compileFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.format, "format", "f", f.format, "output format: text, json or yaml")
	fl.BoolVar(&f.inline, "inline", false, "also generate standalone RE2 patterns")
	fl.BoolVar(&f.document, "document", false, "wrap text output in a (?(DEFINE)...) block")
	fl.IntVar(&f.parallel, "parallel", 0, "rules generated at once (0 = number of CPUs)")
	fl.IntVar(&f.level, "level", f.level, "report diagnostics at severity `N` or below (0-7)")
	fl.IntVar(&f.maxDepth, "max-depth", 0, "maximum group nesting (0 = default)")
	fl.StringArrayVar(&f.ignore, "ignore", nil, "ignore diagnostic codes matching `glob` (repeatable)")
	fl.StringArrayVar(&f.overrides, "severity", nil, "override a code's severity, as `code=severity` (repeatable)")
}

// settings is the merged result of flags and config file.
type settings struct {
	format   cliutil.Format
	inline   bool
	document bool
	options  []abnfc.Option
}

func (f *compileFlags) resolve(cmd *cobra.Command, fc *fileConfig) (*settings, error) {
	changed := cmd.Flags().Changed

	if !changed("format") && fc.Format != "" {
		f.format = fc.Format
	}
	if !changed("inline") && fc.Inline != nil {
		f.inline = *fc.Inline
	}
	if !changed("document") && fc.Document != nil {
		f.document = *fc.Document
	}
	if !changed("parallel") && fc.Parallel != nil {
		f.parallel = *fc.Parallel
	}
	if !changed("level") && fc.Level != nil {
		f.level = *fc.Level
	}
	if !changed("max-depth") && fc.MaxDepth != nil {
		f.maxDepth = *fc.MaxDepth
	}

	format, err := cliutil.ParseFormat(f.format)
	if err != nil {
		return nil, err
	}
	if f.inline && f.document && format == cliutil.FormatText {
		return nil, errors.New("inline and document output cannot be combined in text format")
	}

	diagCfg, err := diagnosticConfig(f.level, slices.Concat(fc.Ignore, f.ignore), fc.Overrides, f.overrides)
	if err != nil {
		return nil, err
	}

	return &settings{
		format:   format,
		inline:   f.inline,
		document: f.document,
		options: []abnfc.Option{
			abnfc.WithInline(f.inline),
			abnfc.WithParallelism(f.parallel),
			abnfc.WithMaxDepth(f.maxDepth),
			abnfc.WithDiagnosticConfig(diagCfg),
		},
	}, nil
}

// diagnosticConfig builds the reporting config. Overrides from flags
// are applied after those from the config file.
func diagnosticConfig(level int, ignore []string, fileOverrides map[string]string, flagOverrides []string) (abnfc.DiagnosticConfig, error) {
	if level < int(abnfc.StrictnessStrict) || level > int(abnfc.StrictnessSilent) {
		return abnfc.DiagnosticConfig{}, fmt.Errorf("level %d out of range 0-7", level)
	}
	cfg := abnfc.DiagnosticConfig{
		Level:  abnfc.StrictnessLevel(level),
		Ignore: ignore,
	}

	set := func(code, name string) error {
		sev, err := parseSeverity(name)
		if err != nil {
			return fmt.Errorf("severity for %s: %w", code, err)
		}
		if cfg.Overrides == nil {
			cfg.Overrides = make(map[string]abnfc.Severity)
		}
		cfg.Overrides[code] = sev
		return nil
	}
	for code, name := range fileOverrides {
		if err := set(code, name); err != nil {
			return cfg, err
		}
	}
	for _, o := range flagOverrides {
		code, name, ok := strings.Cut(o, "=")
		if !ok || code == "" {
			return cfg, fmt.Errorf("invalid severity override %q, want code=severity", o)
		}
		if err := set(code, name); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// parseSeverity accepts a severity name ("warning") or number ("5").
func parseSeverity(s string) (abnfc.Severity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < int(abnfc.SeverityFatal) || n > int(abnfc.SeverityInfo) {
			return 0, fmt.Errorf("severity %d out of range 0-6", n)
		}
		return abnfc.Severity(n), nil
	}
	for sev := abnfc.SeverityFatal; sev <= abnfc.SeverityInfo; sev++ {
		if sev.String() == s {
			return sev, nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}
