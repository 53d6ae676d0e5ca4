package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"AlbumGap/config"
	"AlbumGap/core/compare"
	"AlbumGap/core/deezer"
	"AlbumGap/core/scanner"
	"AlbumGap/logger"
	"AlbumGap/repository"
	"AlbumGap/storage"
)

// APIHandler carries the dependencies of all HTTP endpoints.
type APIHandler struct {
	cfg      *config.Config
	scanRepo repository.ScanRepository
	compRepo repository.ComparisonRepository
	engine   *compare.Engine
	client   *deezer.Client
	hub      *ProgressHub

	mu             sync.Mutex
	scanRunning    bool
	scanCancel     context.CancelFunc
	compareRunning bool
	lastScanRunID  string
	lastProcessed  int
	lastDiscovered int
}

// NewAPIHandler creates the handler set.
func NewAPIHandler(
	cfg *config.Config,
	scanRepo repository.ScanRepository,
	compRepo repository.ComparisonRepository,
	engine *compare.Engine,
	client *deezer.Client,
	hub *ProgressHub,
) *APIHandler {
	return &APIHandler{
		cfg:      cfg,
		scanRepo: scanRepo,
		compRepo: compRepo,
		engine:   engine,
		client:   client,
		hub:      hub,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("encode response failed", logger.ErrorField(err))
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// StartScanHandler launches a scan in the background and returns its run ID.
func (h *APIHandler) StartScanHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	mode := scanner.ModeIncremental
	if body.Mode == string(scanner.ModeFull) {
		mode = scanner.ModeFull
	}

	runID, started := h.TriggerScan(string(mode))
	if !started {
		respondError(w, http.StatusConflict, "a scan is already running")
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"runId": runID, "mode": string(mode)})
}

// TriggerScan starts a background scan unless one is already running. It
// returns the run ID and whether a new scan was started. Also invoked by the
// filesystem watcher.
func (h *APIHandler) TriggerScan(mode string) (string, bool) {
	h.mu.Lock()
	if h.scanRunning {
		h.mu.Unlock()
		return "", false
	}
	runID := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	h.scanRunning = true
	h.scanCancel = cancel
	h.lastScanRunID = runID
	h.lastProcessed = 0
	h.lastDiscovered = 0
	h.mu.Unlock()

	go h.runScan(ctx, cancel, runID, scanner.Mode(mode))
	return runID, true
}

func (h *APIHandler) runScan(ctx context.Context, cancel context.CancelFunc, runID string, mode scanner.Mode) {
	defer cancel()
	defer func() {
		h.mu.Lock()
		h.scanRunning = false
		h.scanCancel = nil
		h.mu.Unlock()
	}()

	startedAt := time.Now()
	scanCache := scanner.LoadScanCache(h.cfg.ScanCachePath)
	fs := scanner.NewFolderScanner(h.cfg.AudioExtensions, scanCache, h.cfg.ScanWorkers, h.cfg.ScanQueueSize)
	fs.SetProgress(func(processed, discovered int) {
		h.mu.Lock()
		h.lastProcessed = processed
		h.lastDiscovered = discovered
		h.mu.Unlock()
		h.hub.Broadcast(ProgressEvent{RunID: runID, Processed: processed, Discovered: discovered})
	})

	albums, err := fs.Scan(ctx, h.cfg.MusicRoots, mode)
	if err != nil {
		logger.Error("scan failed", logger.String("runId", runID), logger.ErrorField(err))
		return
	}

	saveCtx, saveCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer saveCancel()
	if err := h.scanRepo.SaveScan(saveCtx, runID, string(mode), startedAt, albums); err != nil {
		logger.Error("persist scan failed", logger.String("runId", runID), logger.ErrorField(err))
	}
}

// ScanStatusHandler reports whether a scan or comparison is running and the
// latest progress counters.
func (h *APIHandler) ScanStatusHandler(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	payload := map[string]interface{}{
		"scanRunning":    h.scanRunning,
		"compareRunning": h.compareRunning,
		"lastScanRunId":  h.lastScanRunID,
		"processed":      h.lastProcessed,
		"discovered":     h.lastDiscovered,
	}
	h.mu.Unlock()
	respondJSON(w, http.StatusOK, payload)
}

// CancelScanHandler cancels the scan in flight, if any.
func (h *APIHandler) CancelScanHandler(w http.ResponseWriter, r *http.Request) {
	if h.CancelRunningScan() {
		respondJSON(w, http.StatusOK, map[string]string{"status": "cancelling"})
		return
	}
	respondError(w, http.StatusConflict, "no scan is running")
}

// CancelRunningScan cancels an in-flight scan; it reports whether one was
// running.
func (h *APIHandler) CancelRunningScan() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.scanCancel == nil {
		return false
	}
	h.scanCancel()
	return true
}

// GetAlbumsHandler returns the albums of the most recent scan.
func (h *APIHandler) GetAlbumsHandler(w http.ResponseWriter, r *http.Request) {
	albums, err := h.scanRepo.LatestAlbums(r.Context())
	if err != nil {
		logger.Error("load albums failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to load albums")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(albums),
		"albums": albums,
	})
}

// StartCompareHandler launches a comparison of the latest scan against the
// remote catalog in the background.
func (h *APIHandler) StartCompareHandler(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.compareRunning {
		h.mu.Unlock()
		respondError(w, http.StatusConflict, "a comparison is already running")
		return
	}
	h.compareRunning = true
	h.mu.Unlock()

	go h.runCompare()
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (h *APIHandler) runCompare() {
	defer func() {
		h.mu.Lock()
		h.compareRunning = false
		h.mu.Unlock()
	}()

	ctx := context.Background()
	albums, err := h.scanRepo.LatestAlbums(ctx)
	if err != nil {
		logger.Error("load albums for comparison failed", logger.ErrorField(err))
		return
	}
	if len(albums) == 0 {
		logger.Warn("no scanned albums to compare")
		return
	}

	report, err := h.engine.Compare(ctx, albums)
	if err != nil {
		logger.Error("comparison failed", logger.ErrorField(err))
		return
	}

	if err := h.compRepo.SaveComparison(ctx, report); err != nil {
		logger.Error("persist comparison failed", logger.String("runId", report.RunID), logger.ErrorField(err))
	}

	if storage.Enabled() {
		data, err := json.Marshal(report)
		if err == nil {
			err = storage.ArchiveReport(ctx, report.RunID, data)
		}
		if err != nil {
			logger.Error("archive report failed", logger.String("runId", report.RunID), logger.ErrorField(err))
		}
	}
}

// LatestComparisonHandler returns the most recent comparison report.
func (h *APIHandler) LatestComparisonHandler(w http.ResponseWriter, r *http.Request) {
	report, err := h.compRepo.LatestComparison(r.Context())
	if err != nil {
		logger.Error("load comparison failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to load comparison")
		return
	}
	if report == nil {
		respondError(w, http.StatusNotFound, "no comparison has been run")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// AlbumTracksHandler proxies a remote album's track list, mainly so the
// queue-import tooling can inspect a missing album before importing it.
func (h *APIHandler) AlbumTracksHandler(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	albumID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid album id")
		return
	}

	tracks, err := h.client.AlbumTracks(r.Context(), albumID)
	if err != nil {
		logger.Error("album tracks fetch failed", logger.Int64("albumId", albumID), logger.ErrorField(err))
		respondError(w, http.StatusBadGateway, "failed to fetch album tracks")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"albumId": albumID,
		"tracks":  tracks,
	})
}
