package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/pipeline"
	"github.com/matzehuels/jsontree/pkg/tree"
	"github.com/matzehuels/jsontree/pkg/view"
)

// loadView reads a document and builds its view state.
func (c *CLI) loadView(cmd *cobra.Command, file string, input inputFlags) (*view.State, error) {
	src, _, err := c.readDocument(file, input)
	if err != nil {
		return nil, err
	}
	t, err := pipeline.BuildTree(cmd.Context(), src)
	if err != nil {
		return nil, err
	}
	return view.New(t), nil
}

// searchCommand lists the nodes matching a query.
func (c *CLI) searchCommand() *cobra.Command {
	var (
		input inputFlags
		mode  string
	)

	cmd := &cobra.Command{
		Use:   "search <query> [file|-]",
		Short: "Find nodes whose path, label or value contains a query",
		Long: `Find nodes whose path, label or value contains a query, ignoring case.

In pattern mode the query is matched as an escaped pattern, so "a.b"
matches only the literal text a.b.`,
		Example: `  jsontree search 560018 data.json
  jsontree search --sample o
  jsontree search --mode pattern a.b data.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode == "" {
				mode = c.Config.View.SearchMode
			}
			m, err := view.ParseMode(mode)
			if err != nil {
				return err
			}
			if err := errors.ValidateQuery(args[0]); err != nil {
				return err
			}

			v, err := c.loadView(cmd, optionalArg(args, 1), input)
			if err != nil {
				return err
			}

			res := v.Search(args[0], m)
			switch res.Outcome {
			case view.OutcomeMatches:
				printSuccess(c.out, "%s", res.Message())
			case view.OutcomeInvalidPattern:
				printError(c.out, "%s", res.Message())
				return errors.New(errors.ErrCodeInvalidPattern, "%s", res.Message())
			default:
				printInfo(c.out, "%s", res.Message())
			}
			for _, id := range res.Matches {
				if n, ok := v.Tree().Node(id); ok {
					printMatch(c.out, n.Path, n.Label)
				}
			}
			return nil
		},
	}

	input.register(cmd)
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "search mode: literal (default), pattern")

	return cmd
}

// suggestCommand prints path completions.
func (c *CLI) suggestCommand() *cobra.Command {
	var input inputFlags

	cmd := &cobra.Command{
		Use:   "suggest <prefix> [file|-]",
		Short: "Suggest node paths containing a prefix",
		Example: `  jsontree suggest --sample addr
  jsontree suggest '$.items[' data.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateQuery(args[0]); err != nil {
				return err
			}
			v, err := c.loadView(cmd, optionalArg(args, 1), input)
			if err != nil {
				return err
			}
			for _, p := range v.Suggest(args[0]) {
				fmt.Fprintln(c.out, p)
			}
			return nil
		},
	}

	input.register(cmd)
	return cmd
}

// resolveCommand prints the JSON value at a path.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		input inputFlags
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <path> [file|-]",
		Short: "Print the JSON value at a node path",
		Long: `Print the JSON value at a node path such as $.user.hobbies[1].

Paths use the same grammar as node paths: $ for the root, .key for object
members and [i] for array elements. Objects and arrays are pretty-printed
unless --raw is set.`,
		Example: `  jsontree resolve '$.user.address' data.json
  jsontree resolve --sample '$.user.hobbies[0]'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, _, err := c.readDocument(optionalArg(args, 1), input)
			if err != nil {
				return err
			}
			res, err := tree.Resolve(src, args[0])
			if err != nil {
				return err
			}

			out := []byte(res.Raw)
			if !raw && res.Type == gjson.JSON {
				out = pretty.Pretty(out)
			} else {
				out = append(out, '\n')
			}
			_, err = c.out.Write(out)
			return err
		},
	}

	input.register(cmd)
	cmd.Flags().BoolVar(&raw, "raw", false, "print the value exactly as written in the source")
	return cmd
}
