package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"AlbumGap/core/scanner"
	"AlbumGap/logger"
)

var (
	scanMode  string
	scanRoots []string
	scanOut   string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the music library into album records",
	Long: `Walks the configured music roots, aggregates audio files into albums by
majority-vote metadata, and writes the result as JSON. Incremental mode skips
folders whose modification time is unchanged since the previous scan.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		roots := cfg.MusicRoots
		if len(scanRoots) > 0 {
			roots = scanRoots
		}
		if len(roots) == 0 {
			return fmt.Errorf("no music roots configured; set MUSIC_ROOTS or pass --root")
		}

		mode := scanner.ModeIncremental
		if scanMode == string(scanner.ModeFull) {
			mode = scanner.ModeFull
		}

		out := scanOut
		if out == "" {
			out = cfg.ScanResultPath
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		scanCache := scanner.LoadScanCache(cfg.ScanCachePath)
		fs := scanner.NewFolderScanner(cfg.AudioExtensions, scanCache, cfg.ScanWorkers, cfg.ScanQueueSize)
		fs.SetProgress(func(processed, discovered int) {
			if processed%25 == 0 || processed == discovered {
				logger.Info("scan progress",
					logger.Int("processed", processed),
					logger.Int("discovered", discovered))
			}
		})

		albums, err := fs.Scan(ctx, roots, mode)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		data, err := json.MarshalIndent(albums, "", "  ")
		if err != nil {
			return fmt.Errorf("encode scan result: %w", err)
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("write scan result: %w", err)
		}

		fmt.Printf("Scanned %d albums (%s mode) -> %s\n", len(albums), mode, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanMode, "mode", "m", "incremental", "scan mode: full or incremental")
	scanCmd.Flags().StringArrayVarP(&scanRoots, "root", "r", nil, "music root to scan (repeatable, overrides MUSIC_ROOTS)")
	scanCmd.Flags().StringVarP(&scanOut, "out", "o", "", "output JSON path (default from config)")
}
