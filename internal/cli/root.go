// Package cli implements the bookscan command line.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrlokans/bookscan/internal/config"
	"github.com/mrlokans/bookscan/internal/logging"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version string
	Commit  string
}

type globals struct {
	build    BuildInfo
	cfg      *config.Config
	logger   *zap.Logger
	logLevel string
	dbPath   string
}

// NewRootCommand builds the bookscan command tree. Running it without a
// subcommand starts the HTTP server.
func NewRootCommand(build BuildInfo) *cobra.Command {
	g := &globals{build: build}

	root := &cobra.Command{
		Use:     "bookscan",
		Short:   "Book catalogue service built around ISBN and UPC barcodes",
		Version: build.Version + " (" + build.Commit + ")",

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			g.cfg = config.NewConfig()
			if g.logLevel != "" {
				g.cfg.Log.Level = g.logLevel
			}
			if g.dbPath != "" {
				g.cfg.Database.Path = g.dbPath
			}

			logger, err := logging.New(g.cfg.Log)
			if err != nil {
				return err
			}
			g.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if g.logger != nil {
				_ = g.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&g.dbPath, "database", "", "path to the catalogue database")

	serve := newServeCommand(g)
	root.RunE = serve.RunE

	root.AddCommand(
		serve,
		newISBNCommand(),
		newEnrichCommand(g),
	)
	return root
}
