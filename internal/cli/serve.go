package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/labelpress/labelpress/internal/server"
	"github.com/labelpress/labelpress/pkg/library"
)

// serveCommand creates the serve command, which runs the HTTP API around
// the same pipeline the CLI uses.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		jobTTL  time.Duration
		noCache bool
		fonts   []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the labelpress HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := parseFonts(fonts)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			dir, err := dataDir()
			if err != nil {
				return fmt.Errorf("get data dir: %w", err)
			}
			store, err := library.Open(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			srv := server.New(server.Config{
				Addr:    addr,
				Logger:  c.Logger,
				Library: store,
				Fonts:   table,
				JobTTL:  jobTTL,
			}, runner)

			printInfo("Serving on %s", addr)
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&jobTTL, "job-ttl", server.DefaultJobTTL, "how long stored documents stay fetchable")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the plan and artifact cache")
	cmd.Flags().StringArrayVar(&fonts, "font", nil, "register a TTF font as key=path (repeatable)")

	return cmd
}
