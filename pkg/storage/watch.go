package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// Watch reports changes written to the session file by other processes.
// The directory is watched rather than the file because atomic writes replace
// the file's inode. The returned channel is closed when ctx is done.
func (s *FileStore) Watch(ctx context.Context) (<-chan Change, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.Path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(s.Path), err)
	}
	s.logger.Debug("watching session file", "path", s.Path)

	last, err := s.Snapshot()
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}

	out := make(chan Change)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != s.Path {
					continue
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}

				current, err := s.Snapshot()
				if err != nil {
					s.logger.Error("session reload failed", "error", err)
					continue
				}
				for _, c := range diff(last, current) {
					s.logger.Debug("session key changed", "key", c.Key, "removed", c.Removed)
					select {
					case out <- c:
					case <-ctx.Done():
						return nil
					}
				}
				last = current
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				s.logger.Error("fsnotify error", "error", err)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("session watcher panic", "error", err)
	}))

	return out, nil
}
