package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/pipeline"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// treeCommand prints or writes the node/edge JSON of a document.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		input   inputFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "tree [file|-]",
		Short: "Build the node/edge tree of a JSON document",
		Long: `Build the node/edge tree of a JSON document and print it as JSON.

Every value becomes a node with a pre-order id (node-0, node-1, ...), a type,
a label, a path such as $.user.hobbies[1] and a grid position. Containment
becomes source/target edges.`,
		Example: `  jsontree tree data.json
  curl -s https://api.example.com/user | jsontree tree -
  jsontree tree --sample -o tree-nodes.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			src, name, err := c.readDocument(optionalArg(args, 0), input)
			if err != nil {
				return err
			}

			runner := c.newRunner(ctx, noCache)
			defer runner.Close()

			prog := newProgress(logger)
			t, hit, err := runner.BuildWithCacheInfo(ctx, pipeline.Options{Source: src})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Built %d nodes from %s", t.NodeCount(), name))

			if output == "" {
				return tree.Write(t, c.out)
			}
			if err := errors.ValidateOutputPath(output); err != nil {
				return err
			}
			if err := tree.WriteFile(t, output); err != nil {
				return err
			}
			printSuccess(c.out, "Tree written")
			printStats(c.out, t.NodeCount(), t.EdgeCount(), hit)
			printFile(c.out, output, 0)
			return nil
		},
	}

	input.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the tree cache")

	return cmd
}
