package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsontree/internal/server"
	"github.com/matzehuels/jsontree/pkg/session"
	"github.com/matzehuels/jsontree/pkg/view"
)

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		sessionTTL time.Duration
		envFile    string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API. Each client creates a session, submits a document and
drives the view through session routes:

  POST   /api/sessions                         create (optional {"input", "sample", "theme"})
  PUT    /api/sessions/{id}/document           submit document text
  GET    /api/sessions/{id}/view               tree, rows, highlights, zoom, theme
  POST   /api/sessions/{id}/nodes/{node}/toggle
  POST   /api/sessions/{id}/search             {"query", "mode"}
  GET    /api/sessions/{id}/suggest?q=
  POST   /api/sessions/{id}/zoom/{in|out|reset}
  POST   /api/sessions/{id}/theme/toggle
  GET    /api/sessions/{id}/export/{png|svg|dot|json|tree}

JSONTREE_* variables override the config file, and a .env file in the
working directory supplies variables that are not already set. Flags
override everything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			if err := c.Config.ApplyEnv(nil); err != nil {
				return err
			}
			if err := c.Config.Validate(); err != nil {
				return err
			}

			cfg := c.Config.Server
			if addr == "" {
				addr = cfg.Addr
			}
			if sessionTTL <= 0 {
				sessionTTL = cfg.SessionTTL.Duration
			}
			mode, err := view.ParseMode(c.Config.View.SearchMode)
			if err != nil {
				return err
			}

			store := session.NewMemoryStore(sessionTTL)
			go store.RunCleanup(ctx, cfg.CleanupInterval.Duration)

			runner := c.newRunner(ctx, noCache)
			defer runner.Close()

			srv := server.New(server.Options{
				Store:  store,
				Runner: runner,
				Logger: c.Logger,
				Theme:  c.Config.Theme(),
				Mode:   mode,
			})
			c.Logger.Info("Serving sessions", "ttl", sessionTTL, "cache", c.Config.Cache.Backend)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", 0, "idle session lifetime (default from config, 2h)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading JSONTREE_* variables")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the export cache")

	return cmd
}
