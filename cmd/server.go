package cmd

import (
	"github.com/spf13/cobra"

	"AlbumGap/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the AlbumGap HTTP server",
	Long: `Starts the HTTP server: scan and comparison endpoints, a websocket feed of
scan progress, and a filesystem watcher that keeps the library index fresh.`,
	Run: func(cmd *cobra.Command, args []string) {
		loadConfig()
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
