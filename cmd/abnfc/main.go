// Command abnfc compiles ABNF grammars into patterns.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/abnfkit/abnfc"
	"github.com/abnfkit/abnfc/cmd/internal/cliutil"
)

// Exit codes.
const (
	exitOK          = 0 // success
	exitError       = 1 // usage, IO, lex or parse failure
	exitCheckFailed = 2 // check found diagnostics at or above --fail-on
)

// exitCodeError carries a non-default exit code out of a command.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error {
	return e.err
}

// cli holds the flags shared by every command.
type cli struct {
	verbose    bool
	trace      bool
	configFile string
	stderr     io.Writer
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var coded *exitCodeError
	if errors.As(err, &coded) {
		if coded.err != nil {
			cliutil.PrintError(stderr, "%v", coded.err)
		}
		return coded.code
	}
	cliutil.PrintError(stderr, "%v", err)
	var located *abnfc.Error
	if errors.As(err, &located) && located.Excerpt != "" {
		fmt.Fprintln(stderr, located.Excerpt)
	}
	return exitError
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	c := &cli{stderr: stderr}
	opts := &compileFlags{format: string(cliutil.FormatText), level: int(abnfc.StrictnessNormal)}

	rootCmd := &cobra.Command{
		Use:   "abnfc [flags] <infile> [outfile]",
		Short: "Compile ABNF grammars into patterns",
		Long: `abnfc compiles an ABNF grammar (RFC 5234, RFC 7405) into one named
PCRE group per rule, with references as subroutine calls. With --inline,
rules that do not recurse are also expanded into standalone RE2 patterns.

The output file defaults to stdout; "-" also means stdout.`,
		Example: `  abnfc grammar.abnf patterns.txt
  abnfc --document grammar.abnf
  abnfc --inline --format json grammar.abnf out.json
  abnfc --ignore "inline-*" --level 6 grammar.abnf`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompile(cmd, opts, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&c.trace, "trace", false, "enable trace logging (implies -v)")
	pf.StringVar(&c.configFile, "config", "", "read defaults from a YAML config `file`")

	opts.register(rootCmd)

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		c.newDumpCmd(),
		c.newTokensCmd(),
		c.newRulesCmd(),
		c.newCheckCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func (c *cli) setupLogger() *slog.Logger {
	if !c.verbose && !c.trace {
		return nil
	}
	level := slog.LevelDebug
	if c.trace {
		level = abnfc.LevelTrace
	}
	return slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "abnfc %s\n", version())
		},
	}
}

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
