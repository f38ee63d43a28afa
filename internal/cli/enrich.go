package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrlokans/bookscan/internal/database"
	"github.com/mrlokans/bookscan/internal/metadata"
)

func newEnrichCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "enrich",
		Short: "Fetch OpenLibrary metadata for every book missing it",
		Long: `Runs one bulk enrichment pass in the foreground. Progress is recorded
the same way as runs started by the server, so a concurrent run is
detected and refused.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.NewDatabase(g.cfg.Database.Path, g.logger)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			client := metadata.NewOpenLibraryClient(metadata.ClientConfig{
				BaseURL:         g.cfg.OpenLibrary.BaseURL,
				Timeout:         g.cfg.OpenLibrary.Timeout,
				RequestInterval: g.cfg.OpenLibrary.RequestInterval,
			}, g.logger)
			enricher := metadata.NewEnricher(client, database.NewMetadataUpdater(db), g.logger)
			enricher.SetProgressReporter(db.Progress)

			result, err := enricher.EnrichAllMissing(cmd.Context())
			if err != nil {
				return err
			}

			g.logger.Info("enrichment finished",
				zap.Int("total", result.TotalBooks),
				zap.Int("enriched", result.Enriched),
				zap.Int("failed", result.Failed))
			fmt.Fprintf(cmd.OutOrStdout(), "processed %d books: %d enriched, %d failed\n",
				result.TotalBooks, result.Enriched, result.Failed)
			for _, e := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", e)
			}
			return nil
		},
	}
}
