package server

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"AlbumGap/logger"
)

// debounceWindow batches filesystem event bursts (a rip or download drops
// many files at once) into a single incremental scan.
const debounceWindow = 5 * time.Second

// LibraryWatcher watches the music roots and triggers an incremental scan
// when files change.
type LibraryWatcher struct {
	watcher *fsnotify.Watcher
	trigger func()
}

// NewLibraryWatcher sets up recursive watches over the given roots.
func NewLibraryWatcher(roots []string, trigger func()) (*LibraryWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	lw := &LibraryWatcher{watcher: watcher, trigger: trigger}
	for _, root := range roots {
		if err := lw.addRecursive(root); err != nil {
			logger.Warn("watch root failed", logger.String("root", root), logger.ErrorField(err))
		}
	}
	return lw, nil
}

// addRecursive registers the directory and all its subdirectories.
// fsnotify watches are not recursive by themselves.
func (lw *LibraryWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skip unwatchable path", logger.String("path", path), logger.ErrorField(err))
			return nil
		}
		if d.IsDir() {
			if err := lw.watcher.Add(path); err != nil {
				logger.Warn("watch failed", logger.String("path", path), logger.ErrorField(err))
			}
		}
		return nil
	})
}

// Run processes events until the watcher is closed.
func (lw *LibraryWatcher) Run() {
	var timer *time.Timer

	for {
		select {
		case event, ok := <-lw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				// New directories must be watched too.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := lw.addRecursive(event.Name); err != nil {
						logger.Warn("watch new folder failed",
							logger.String("path", event.Name), logger.ErrorField(err))
					}
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounceWindow, func() {
					logger.Info("library changed, starting incremental scan")
					lw.trigger()
				})
			}
		case err, ok := <-lw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", logger.ErrorField(err))
		}
	}
}

// Close stops the watcher.
func (lw *LibraryWatcher) Close() error {
	return lw.watcher.Close()
}
