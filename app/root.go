// Package app implements the main application commands.
package app

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string // Path to the configuration directory
	envFile    string // Optional dotenv file exported before the config is read

	rootCmd = &cobra.Command{
		Use:   "applytrack",
		Short: "applytrack is a REST backend for tracking job applications",
		Long: `applytrack is a REST backend for tracking job applications and their contacts,
with role based access control over every endpoint.`,
		Args:              cobra.OnlyValidArgs,
		SilenceUsage:      true,
		PersistentPreRunE: loadEnv,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "Directory holding main.toml")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file to export before reading the config")
}

// loadEnv exports the dotenv file, a missing file is not an error.
func loadEnv(_ *cobra.Command, _ []string) error {
	if envFile == "" {
		return nil
	}

	err := godotenv.Load(envFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("file", envFile).Msg("no dotenv file")
		return nil
	}

	return err
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
