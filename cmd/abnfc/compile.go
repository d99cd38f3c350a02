package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abnfkit/abnfc"
	"github.com/abnfkit/abnfc/cmd/internal/cliutil"
)

func (c *cli) runCompile(cmd *cobra.Command, flags *compileFlags, args []string) error {
	fc, err := c.loadConfig()
	if err != nil {
		return err
	}
	s, err := flags.resolve(cmd, fc)
	if err != nil {
		return err
	}

	opts := s.options
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, abnfc.WithLogger(logger))
	}
	g, err := abnfc.CompileFile(cmd.Context(), args[0], opts...)
	if err != nil {
		return err
	}

	outfile := ""
	if len(args) > 1 {
		outfile = args[1]
	}
	w, done, err := cliutil.GetOutput(outfile, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if s.format == cliutil.FormatText {
		for _, d := range g.Diagnostics {
			fmt.Fprintln(c.stderr, g.Locate(d))
		}
		err = writeText(w, g, s)
	} else {
		err = cliutil.Encode(w, s.format, grammarOutput(g, s.document))
	}
	if cerr := done(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func writeText(w io.Writer, g *abnfc.Grammar, s *settings) error {
	var text string
	switch {
	case s.inline:
		text = g.Patterns.InlineText()
	case s.document:
		text = g.Patterns.Document()
	default:
		text = g.Patterns.Text()
	}
	_, err := io.WriteString(w, text)
	return err
}
