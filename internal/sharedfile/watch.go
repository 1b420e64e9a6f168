package sharedfile

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce batches bursts of writes into one notification
const DefaultDebounce = 300 * time.Millisecond

// Watch reports changes to the shared file. The directory is watched rather
// than the file so atomic renames and late creation are seen. The returned
// channel is closed when ctx is done.
func (s *FileSource) Watch(ctx context.Context) (<-chan struct{}, error) {
	return s.watch(ctx, DefaultDebounce)
}

func (s *FileSource) watch(ctx context.Context, debounce time.Duration) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	s.log.Debug("watching shared catalog", zap.String("path", s.Path))

	out := make(chan struct{}, 1)
	go s.run(ctx, w, out, debounce)
	return out, nil
}

func (s *FileSource) run(ctx context.Context, w *fsnotify.Watcher, out chan<- struct{}, debounce time.Duration) {
	defer close(out)
	defer w.Close()

	target := filepath.Clean(s.Path)
	tick := time.NewTicker(debounce / 3)
	defer tick.Stop()

	var pending bool
	var last time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending = true
			last = time.Now()

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn("shared catalog watcher error", zap.Error(err))

		case <-tick.C:
			if !pending || time.Since(last) < debounce {
				continue
			}
			pending = false
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}
