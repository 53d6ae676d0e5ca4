package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"AlbumGap/cache"
	"AlbumGap/config"
	"AlbumGap/core/compare"
	"AlbumGap/core/deezer"
	"AlbumGap/core/match"
	"AlbumGap/db"
	"AlbumGap/logger"
	"AlbumGap/model"
	"AlbumGap/repository"
	"AlbumGap/storage"
)

// Start initializes dependencies and runs the HTTP server until SIGINT or
// SIGTERM.
func Start() {
	cfg := config.Load()

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.AutoMigrateModels(&model.ScanRecord{}, &model.AlbumRecord{}, &model.ComparisonRecord{}); err != nil {
		logger.Fatal("failed to migrate models", logger.ErrorField(err))
	}

	if cfg.RedisEnabled {
		if err := cache.ConnectRedis(cfg); err != nil {
			logger.Warn("redis unavailable, catalog caching disabled", logger.ErrorField(err))
		} else {
			defer cache.CloseRedis()
		}
	}

	if cfg.MinioEnabled {
		if err := storage.InitMinio(cfg); err != nil {
			logger.Warn("minio unavailable, report archival disabled", logger.ErrorField(err))
		}
	}

	client := deezer.NewClient(cfg.DeezerBaseURL, time.Duration(cfg.DeezerTimeoutSec)*time.Second)
	var catalog compare.Catalog = client
	if cache.Enabled() {
		catalog = deezer.NewCachedCatalog(client, time.Duration(cfg.RedisTTLMin)*time.Minute)
	}

	engine := compare.NewEngine(
		catalog,
		match.NewDeduplicator(cfg.DedupGroupThreshold),
		cfg.AlbumMatchThreshold,
		cfg.DuplicateTitleThreshold,
	)

	scanRepo := repository.NewGormScanRepository(db.GormDB)
	compRepo := repository.NewGormComparisonRepository(db.GormDB)

	hub := NewProgressHub()
	go hub.Run()

	handler := NewAPIHandler(cfg, scanRepo, compRepo, engine, client, hub)

	watcher, err := NewLibraryWatcher(cfg.MusicRoots, func() { handler.TriggerScan("incremental") })
	if err != nil {
		logger.Warn("library watcher unavailable", logger.ErrorField(err))
	} else {
		go watcher.Run()
		defer watcher.Close()
	}

	router := mux.NewRouter()
	router.Use(corsMiddleware)

	router.HandleFunc("/api/scan", handler.StartScanHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/scan/status", handler.ScanStatusHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/scan/cancel", handler.CancelScanHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/albums", handler.GetAlbumsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/compare", handler.StartCompareHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/compare/latest", handler.LatestComparisonHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/album/{id}/tracks", handler.AlbumTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/ws/scan/progress", handler.ProgressSocketHandler)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	handler.CancelRunningScan()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", logger.ErrorField(err))
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
