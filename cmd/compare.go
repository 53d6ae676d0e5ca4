package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"AlbumGap/cache"
	"AlbumGap/core/compare"
	"AlbumGap/core/deezer"
	"AlbumGap/core/match"
	"AlbumGap/logger"
	"AlbumGap/model"
)

var (
	compareIn        string
	compareOut       string
	compareThreshold int
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Reconcile scanned albums against the Deezer catalog",
	Long: `Reads the album list produced by 'albumgap scan', looks each artist up on
Deezer, matches local against remote albums, and writes a report of the
releases missing from the local collection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		in := compareIn
		if in == "" {
			in = cfg.ScanResultPath
		}
		out := compareOut
		if out == "" {
			out = cfg.CompareResultPath
		}
		threshold := cfg.AlbumMatchThreshold
		if compareThreshold > 0 {
			threshold = compareThreshold
		}

		data, err := os.ReadFile(in)
		if err != nil {
			return fmt.Errorf("read scan result %s: %w", in, err)
		}
		var albums []*model.LocalAlbum
		if err := json.Unmarshal(data, &albums); err != nil {
			return fmt.Errorf("decode scan result %s: %w", in, err)
		}
		if len(albums) == 0 {
			return fmt.Errorf("no albums in %s; run 'albumgap scan' first", in)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client := deezer.NewClient(cfg.DeezerBaseURL, time.Duration(cfg.DeezerTimeoutSec)*time.Second)
		var catalog compare.Catalog = client
		if cfg.RedisEnabled {
			if err := cache.ConnectRedis(cfg); err != nil {
				logger.Warn("redis unavailable, catalog caching disabled", logger.ErrorField(err))
			} else {
				defer cache.CloseRedis()
				catalog = deezer.NewCachedCatalog(client, time.Duration(cfg.RedisTTLMin)*time.Minute)
			}
		}

		engine := compare.NewEngine(
			catalog,
			match.NewDeduplicator(cfg.DedupGroupThreshold),
			threshold,
			cfg.DuplicateTitleThreshold,
		)

		report, err := engine.Compare(ctx, albums)
		if err != nil {
			return fmt.Errorf("comparison failed: %w", err)
		}

		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		encoded, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if err := os.WriteFile(out, encoded, 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}

		stats := report.Statistics
		fmt.Printf("Compared %d artists: %d local, %d remote, %d missing -> %s\n",
			stats.TotalArtists, stats.TotalLocalAlbums, stats.TotalRemoteAlbums,
			stats.TotalMissingAlbums, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVarP(&compareIn, "in", "i", "", "scan result JSON to compare (default from config)")
	compareCmd.Flags().StringVarP(&compareOut, "out", "o", "", "report output path (default from config)")
	compareCmd.Flags().IntVarP(&compareThreshold, "threshold", "t", 0, "album match threshold override (1-100)")
}
