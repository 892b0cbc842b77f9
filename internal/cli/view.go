package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsontree/internal/tui"
	"github.com/matzehuels/jsontree/pkg/session"
	"github.com/matzehuels/jsontree/pkg/view"
)

// viewCommand opens the interactive tree viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		input     inputFlags
		mode      string
		exportDir string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "view [file|-]",
		Short: "Explore a JSON document in the terminal",
		Long: `Explore a JSON document in the terminal.

Without a file the viewer starts empty; press ctrl+l for the sample. Use "-"
to read the document from stdin. A document that does not parse is shown
with the parser's message.

Keys:
  ↑/↓ j/k  move         enter/space  fold or unfold
  /        search       tab          literal or pattern mode
  esc      clear search + - 0        zoom
  t        theme        y            show path
  e / c    expand/collapse all
  x / J    export PNG / JSON        q  quit`,
		Example: `  jsontree view data.json
  jsontree view --sample
  curl -s https://api.example.com/items | jsontree view -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if mode == "" {
				mode = c.Config.View.SearchMode
			}
			m, err := view.ParseMode(mode)
			if err != nil {
				return err
			}

			sess := session.New()
			sess.Theme = c.Config.Theme()
			if file := optionalArg(args, 0); file != "" || input.sample {
				src, name, err := c.readDocument(file, input)
				if err != nil {
					return err
				}
				if err := sess.Load(ctx, string(src)); err != nil {
					c.Logger.Warn("document does not parse", "input", name, "err", sess.Err)
				}
			}

			runner := c.newRunner(ctx, noCache)
			defer runner.Close()

			return tui.Run(ctx, tui.Options{
				Session:   sess,
				Runner:    runner,
				Mode:      m,
				ExportDir: exportDir,
				Logger:    c.Logger,
			})
		},
	}

	input.register(cmd)
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "initial search mode: literal, pattern")
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory for x and J exports")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the export cache")

	return cmd
}
