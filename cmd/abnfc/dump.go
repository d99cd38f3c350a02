package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abnfkit/abnfc"
)

func (c *cli) newDumpCmd() *cobra.Command {
	var rules []string
	cmd := &cobra.Command{
		Use:   "dump <infile>",
		Short: "Print the parsed grammar as a tree",
		Example: `  abnfc dump grammar.abnf
  abnfc dump --rule name-part --rule street grammar.abnf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.compile(cmd, args[0])
			if err != nil {
				return err
			}
			return dumpRules(cmd.OutOrStdout(), g, rules)
		},
	}
	cmd.Flags().StringArrayVarP(&rules, "rule", "r", nil, "dump only this `rule` (repeatable)")
	return cmd
}

func dumpRules(w io.Writer, g *abnfc.Grammar, names []string) error {
	if len(names) == 0 {
		_, err := io.WriteString(w, abnfc.Dump(g.Rules))
		return err
	}
	for _, name := range names {
		r := g.Rules.Lookup(name)
		if r == nil {
			return fmt.Errorf("no rule named %q in %s", name, g.Name)
		}
		if _, err := io.WriteString(w, abnfc.Dump(r)); err != nil {
			return err
		}
	}
	return nil
}

// compile compiles path with the global flags and config file applied.
func (c *cli) compile(cmd *cobra.Command, path string, extra ...abnfc.Option) (*abnfc.Grammar, error) {
	fc, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	level := int(abnfc.StrictnessNormal)
	if fc.Level != nil {
		level = *fc.Level
	}
	diagCfg, err := diagnosticConfig(level, fc.Ignore, fc.Overrides, nil)
	if err != nil {
		return nil, err
	}
	opts := []abnfc.Option{abnfc.WithDiagnosticConfig(diagCfg)}
	if fc.MaxDepth != nil {
		opts = append(opts, abnfc.WithMaxDepth(*fc.MaxDepth))
	}
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, abnfc.WithLogger(logger))
	}
	return abnfc.CompileFile(cmd.Context(), path, append(opts, extra...)...)
}
