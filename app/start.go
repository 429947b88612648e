package app

import (
	"github.com/spf13/cobra"

	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/daemon"
	"github.com/applytrack/applytrack/internal/logger"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	rootCmd.AddCommand(startCmd)
}

var (
	devMode bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the applytrack web service",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.ReadConfig(configPath)
			if err != nil {
				return err
			}

			if devMode {
				cfg.DevMode = true
			}

			if err = logger.Init(cfg.Log); err != nil {
				return err
			}

			return daemon.New(&cfg).Start()
		},
	}
)
