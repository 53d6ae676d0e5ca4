package scanner

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"sync"

	"AlbumGap/logger"
	"AlbumGap/model"
)

// Mode selects between a full rescan and an incremental pass that skips
// folders whose modification time is unchanged since the last snapshot.
type Mode string

const (
	ModeFull        Mode = "full"
	ModeIncremental Mode = "incremental"
)

// Progress is invoked after every processed folder with the number of
// folders processed so far and the number discovered so far. Workers invoke
// it concurrently; no ordering is guaranteed between invocations.
type Progress func(processed, discovered int)

const variousArtists = "various artists"

// Windows-style drive prefixes leaking into tag fields mark garbage metadata.
var drivePathRe = regexp.MustCompile(`(?i)\b[a-z]:[\\/]`)

// folderJob is one unit of scan work: a folder and its plain files.
type folderJob struct {
	path  string
	files []string
}

// FolderScanner turns directory trees of audio files into LocalAlbum
// records using a single producer and a bounded worker pool.
type FolderScanner struct {
	reader    *TagReader
	cache     *ScanCache
	workerCap int
	queueSize int
	progress  Progress
}

// NewFolderScanner builds a scanner over the given extension allow-list.
// workerCap bounds the pool; the effective size is min(workerCap, NumCPU).
func NewFolderScanner(extensions []string, cache *ScanCache, workerCap, queueSize int) *FolderScanner {
	if workerCap <= 0 {
		workerCap = 8
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	return &FolderScanner{
		reader:    NewTagReader(extensions),
		cache:     cache,
		workerCap: workerCap,
		queueSize: queueSize,
	}
}

// SetProgress installs the progress callback.
func (s *FolderScanner) SetProgress(fn Progress) {
	s.progress = fn
}

// scanState is the only mutable state shared between workers. One coarse
// mutex is enough: the critical sections are O(1) and the scan is otherwise
// I/O bound.
type scanState struct {
	mu         sync.Mutex
	seenKeys   map[string]bool
	albums     []*model.LocalAlbum
	processed  int
	discovered int
}

// Scan walks the given roots and returns the aggregated album records.
// Cancellation is cooperative: it is honored between folder jobs, not in the
// middle of a folder's file loop.
func (s *FolderScanner) Scan(ctx context.Context, roots []string, mode Mode) ([]*model.LocalAlbum, error) {
	workers := s.workerCap
	if n := runtime.NumCPU(); n < workers {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan folderJob, s.queueSize)
	state := &scanState{seenKeys: make(map[string]bool)}
	runMtimes := make(map[string]float64) // producer-only until workers are drained

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					continue // keep draining so the producer never blocks
				}
				s.processFolder(job, state)
			}
		}()
	}

	for _, root := range roots {
		if ctx.Err() != nil {
			break
		}
		if err := s.walkFolder(ctx, root, mode, runMtimes, jobs, state); err != nil {
			logger.Error("scan root failed", logger.String("root", root), logger.ErrorField(err))
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Overwrite the cache wholesale with the folders seen this run. A write
	// failure is fatal: a stale cache is safe to reuse, a half-written one
	// is not, so no partial write is attempted.
	s.cache.Replace(runMtimes)
	if err := s.cache.Save(); err != nil {
		return nil, err
	}

	logger.Info("scan finished",
		logger.Int("albums", len(state.albums)),
		logger.Int("folders", state.processed),
		logger.String("mode", string(mode)))
	return state.albums, nil
}

// walkFolder recursively visits one folder: it records the folder's mtime
// for the cache snapshot, enqueues the folder as a job unless the
// incremental cache says it is unchanged, and recurses into subfolders.
// Errors on a single path are logged and skipped; they never abort the scan.
func (s *FolderScanner) walkFolder(ctx context.Context, dir string, mode Mode, runMtimes map[string]float64, jobs chan<- folderJob, state *scanState) error {
	if ctx.Err() != nil {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var files []string
	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, filepath.Join(dir, entry.Name()))
		} else {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	if len(files) > 0 {
		info, err := os.Stat(dir)
		if err != nil {
			logger.Warn("stat folder failed", logger.String("folder", dir), logger.ErrorField(err))
		} else {
			mtime := float64(info.ModTime().UnixNano()) / 1e9
			runMtimes[dir] = mtime

			skip := false
			if mode == ModeIncremental {
				if cached, ok := s.cache.Mtime(dir); ok && cached == mtime {
					skip = true
				}
			}
			if !skip {
				state.mu.Lock()
				state.discovered++
				state.mu.Unlock()
				jobs <- folderJob{path: dir, files: files}
			}
		}
	}

	for _, sub := range subdirs {
		if ctx.Err() != nil {
			return nil
		}
		if err := s.walkFolder(ctx, sub, mode, runMtimes, jobs, state); err != nil {
			logger.Warn("skip folder", logger.String("folder", sub), logger.ErrorField(err))
		}
	}
	return nil
}

// processFolder turns one folder's files into at most one LocalAlbum
// contribution.
func (s *FolderScanner) processFolder(job folderJob, state *scanState) {
	defer func() {
		state.mu.Lock()
		state.processed++
		processed, discovered := state.processed, state.discovered
		state.mu.Unlock()
		if s.progress != nil {
			s.progress(processed, discovered)
		}
	}()

	var tracks []*model.LocalTrack
	for _, file := range job.files {
		if !s.reader.CanRead(file) {
			continue
		}
		track, err := s.reader.Extract(file)
		if err != nil {
			logger.Warn("metadata unreadable, file dropped",
				logger.String("file", file), logger.ErrorField(err))
			continue
		}
		tracks = append(tracks, track)
	}
	if len(tracks) == 0 {
		if hasAudioFiles(s.reader, job.files) {
			logger.Warn("no usable metadata in folder", logger.String("folder", job.path))
		}
		return
	}

	albumArtist := majorityVote(tracks, func(t *model.LocalTrack) string {
		if t.AlbumArtist != "" {
			return t.AlbumArtist
		}
		return t.Artist
	})
	album := majorityVote(tracks, func(t *model.LocalTrack) string {
		return t.Album
	})

	if !validAlbumField(albumArtist) || !validAlbumField(album) {
		logger.Warn("folder rejected by album validation",
			logger.String("folder", job.path),
			logger.String("albumArtist", albumArtist),
			logger.String("album", album))
		return
	}

	candidate := buildAlbum(job.path, albumArtist, album, tracks)

	state.mu.Lock()
	if state.seenKeys[candidate.Key()] {
		// First writer wins; which folder is "first" depends on lock
		// acquisition order and varies between runs.
		state.mu.Unlock()
		logger.Debug("duplicate album key, folder dropped",
			logger.String("folder", job.path), logger.String("key", candidate.Key()))
		return
	}
	state.seenKeys[candidate.Key()] = true
	state.albums = append(state.albums, candidate)
	state.mu.Unlock()
}

func hasAudioFiles(reader *TagReader, files []string) bool {
	for _, f := range files {
		if reader.CanRead(f) {
			return true
		}
	}
	return false
}

// majorityVote picks the most frequent non-empty value across the folder's
// tracks, ignoring "various artists". Ties break toward the value
// encountered first.
func majorityVote(tracks []*model.LocalTrack, field func(*model.LocalTrack) string) string {
	counts := make(map[string]int)
	var order []string
	for _, t := range tracks {
		v := strings.TrimSpace(field(t))
		if v == "" || strings.EqualFold(v, variousArtists) {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	best := ""
	bestCount := 0
	for _, v := range order {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}

// validAlbumField rejects empty values, "various artists", and values that
// look like filesystem drive paths (tag rippers sometimes dump source paths
// into artist fields).
func validAlbumField(v string) bool {
	if v == "" {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(v), variousArtists) {
		return false
	}
	return !drivePathRe.MatchString(v)
}

func buildAlbum(folder, albumArtist, album string, tracks []*model.LocalTrack) *model.LocalAlbum {
	year := 0
	total := 0.0
	formatSet := make(map[string]bool)
	for _, t := range tracks {
		if t.Year > 0 && (year == 0 || t.Year < year) {
			year = t.Year
		}
		total += t.Duration
		if t.Format != "" {
			formatSet[t.Format] = true
		}
	}
	formats := make([]string, 0, len(formatSet))
	for f := range formatSet {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	return &model.LocalAlbum{
		AlbumArtist:   albumArtist,
		Album:         album,
		FolderPath:    folder,
		Year:          year,
		Genre:         tracks[0].Genre,
		TrackCount:    len(tracks),
		TotalDuration: total,
		Formats:       formats,
	}
}
