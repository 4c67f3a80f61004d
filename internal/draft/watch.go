package draft

import (
	"context"

	"github.com/fsnotify/fsnotify"
)

// watch invalidates the listing cache on any structural change to the
// drafts directory. It runs until the watcher is closed; after that the
// cache stays disabled and List falls back to scanning.
func (s *implStore) watch() {
	ctx := context.Background()

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				s.disableCache()
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				s.logger.Debug(ctx, "Drafts directory changed: %s", event.Name)
				s.invalidate()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				s.disableCache()
				return
			}
			s.logger.Warn(ctx, "Drafts watcher error: %v", err)
			s.invalidate()
		}
	}
}

func (s *implStore) disableCache() {
	s.mu.Lock()
	s.watching = false
	s.fresh = false
	s.cached = nil
	s.mu.Unlock()
}
