package cli

import (
	"os"

	"github.com/spf13/cobra"
)

const (
	defaultConfigPath = "config/config.yaml"

	envPort       = "PORT"
	envConfigPath = "CONFIG_PATH"
)

// Execute runs the quiz-service CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var port, configPath string

	root := &cobra.Command{
		Use:   "quiz-service",
		Short: "Gamified quiz service: timed quizzes, experience levels and badges",
		Long: `quiz-service hosts one workspace per websocket client. Students take timed quizzes,
earn experience and badges; admins manage the catalog and its access lists.

The seed catalog comes from Postgres when postgres.url is set (see "migrate" and "seed"),
otherwise from the built-in quizzes. Redis, when configured, caches the catalog and
publishes reward events.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&port, "port", os.Getenv(envPort), "listen port, overrides server.port (env "+envPort+")")
	flags.StringVar(&configPath, "config", envOr(envConfigPath, defaultConfigPath), "YAML config file (env "+envConfigPath+")")

	root.AddCommand(
		NewStartCmd(&configPath, &port),
		NewMigrateCmd(&configPath),
		NewSeedCmd(&configPath),
	)
	return root
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
