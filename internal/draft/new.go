package draft

import (
	"context"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
	"github.com/nguyentantai21042004/smartcut/internal/logger"
)

type implStore struct {
	dir     string
	logger  logger.Logger
	watcher *fsnotify.Watcher

	mu       sync.Mutex
	cached   []Info
	fresh    bool
	watching bool
}

// New creates a Store for dir, auto-detecting the platform drafts
// directory when dir is empty. A watcher on the directory keeps the
// listing cache warm; when watching fails (directory missing, inotify
// exhausted) the store degrades to scanning on every List.
func New(dir string, log logger.Logger) (Store, error) {
	if dir == "" {
		dir = DetectDraftsDir()
	}
	if dir == "" {
		return nil, errdefs.IO("no CapCut drafts directory configured and none could be detected")
	}

	s := &implStore{dir: dir, logger: log}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn(context.Background(), "Drafts watcher unavailable, listing cache disabled: %v", err)
		return s, nil
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		log.Warn(context.Background(), "Cannot watch drafts directory %s, listing cache disabled: %v", dir, err)
		return s, nil
	}

	s.watcher = watcher
	s.watching = true
	go s.watch()

	return s, nil
}

func (s *implStore) DraftsDir() string {
	return s.dir
}

// Close stops the watcher, which also ends the cache goroutine.
func (s *implStore) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

func (s *implStore) invalidate() {
	s.mu.Lock()
	s.fresh = false
	s.mu.Unlock()
}
