package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abnfkit/abnfc"
)

func (c *cli) newTokensCmd() *cobra.Command {
	var significant bool
	cmd := &cobra.Command{
		Use:   "tokens <infile>",
		Short: "Print the token stream, one token per line",
		Long: `Print every token as "line:col KIND text". Whitespace, newlines and
comments are included unless --significant is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			tokens, err := abnfc.Tokenize(data, args[0])
			if err != nil {
				return err
			}
			return printTokens(cmd.OutOrStdout(), tokens, significant)
		},
	}
	cmd.Flags().BoolVarP(&significant, "significant", "s", false, "skip whitespace, newlines and comments")
	return cmd
}

// printTokens writes one line per token. Tokens are contiguous, so
// line and column are tracked by counting newline tokens.
func printTokens(w io.Writer, tokens []abnfc.Token, significant bool) error {
	line, lineStart := 1, uint32(0)
	for _, tok := range tokens {
		start := uint32(tok.Span.Start)
		if !significant || !tok.Kind.IsTrivia() {
			if _, err := fmt.Fprintf(w, "%d:%d\t%s\t%q\n", line, start-lineStart+1, tok.Kind, tok.Text); err != nil {
				return err
			}
		}
		if tok.Kind == abnfc.TokNewline {
			line++
			lineStart = uint32(tok.Span.End)
		}
	}
	return nil
}
