package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// Run executes the jsontree CLI with args, reading documents from in,
// writing results to out and logs and errors to errOut.
//
// Logging defaults to info level; --verbose (-v) switches to debug before any
// command runs, which also registers the log-backed observability hooks.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := cli.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
//	    os.Exit(1)
//	}
func Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	var verbose bool

	c := New(errOut, LogInfo)
	c.SetIO(in, out)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	setup := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)

		if setup != nil {
			return setup(cmd, args)
		}
		return nil
	}

	root.SetArgs(args)
	root.SetIn(in)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}
