package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/abnfkit/abnfc"
)

func (c *cli) newRulesCmd() *cobra.Command {
	var undefinedOnly bool
	cmd := &cobra.Command{
		Use:   "rules <infile>",
		Short: "List rules with their references",
		Example: `  abnfc rules grammar.abnf
  abnfc rules --undefined grammar.abnf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.compile(cmd, args[0], abnfc.WithInline(true))
			if err != nil {
				return err
			}
			if undefinedOnly {
				for _, name := range g.Undefined() {
					if _, err := io.WriteString(cmd.OutOrStdout(), name+"\n"); err != nil {
						return err
					}
				}
				return nil
			}
			printRules(cmd.OutOrStdout(), g.RuleInfo())
			return nil
		},
	}
	cmd.Flags().BoolVar(&undefinedOnly, "undefined", false, "list only referenced rules that are never defined")
	return cmd
}

func printRules(w io.Writer, infos []abnfc.RuleInfo) {
	data := make([][]string, 0, len(infos))
	for _, info := range infos {
		refs := strings.Join(info.References, " ")
		if refs == "" {
			refs = "-"
		}
		data = append(data, []string{
			info.Name,
			strconv.Itoa(info.Alternatives),
			refs,
			yesNo(info.Recursive),
			yesNo(info.Prose),
			yesNo(info.Inline),
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"NAME", "ALTS", "REFERENCES", "RECURSIVE", "PROSE", "INLINE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
