package cli

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"quizquest-service/internal/config"
	"quizquest-service/internal/infra/memory"
	"quizquest-service/internal/infra/postgres"
)

// NewSeedCmd writes the built-in catalog into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate and upsert the built-in quiz catalog into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	db, err := openBun(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := postgres.NewSeeder(db).Seed(ctx, memory.DefaultCatalog())
	if err != nil {
		return err
	}
	log.Info().Int("quizzes", n).Msg("catalog seeded")
	return nil
}
