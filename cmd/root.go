package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"AlbumGap/config"
	"AlbumGap/logger"
)

var rootCmd = &cobra.Command{
	Use:   "albumgap",
	Short: "AlbumGap finds the albums missing from your local music collection.",
	Long: `AlbumGap scans a local music library into album records and reconciles
them per artist against the Deezer catalog to report missing releases.`,
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads configuration and initializes logging for a command run.
func loadConfig() *config.Config {
	cfg := config.Load()
	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    50,
		MaxBackups: 3,
		MaxAge:     14,
		Compress:   true,
	})
	return cfg
}
