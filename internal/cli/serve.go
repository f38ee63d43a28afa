package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/bookscan/internal/entrypoint"
)

func newServeCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default if no command given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(g.cfg, g.build.Version, g.logger)
		},
	}
}
