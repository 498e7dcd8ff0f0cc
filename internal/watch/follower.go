// Package watch follows a JSON log file and emits entries as they are appended.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/policeoffice/policeoffice/internal/domain"
	"github.com/policeoffice/policeoffice/internal/ports"
)

// Follower watches the directory of a JSON array log and hands every new
// element to a callback. The log is replaced by rename on each write, so the
// directory is watched rather than the file.
type Follower struct {
	path     string
	logger   ports.Logger
	debounce time.Duration

	// FromStart emits entries already present when Run starts.
	FromStart bool

	mu   sync.Mutex
	seen int
}

// NewFollower creates a follower for the log file at path.
func NewFollower(path string, logger ports.Logger) *Follower {
	return &Follower{
		path:     path,
		logger:   logger,
		debounce: 50 * time.Millisecond,
	}
}

// Run blocks until ctx is cancelled or the watcher fails.
func (f *Follower) Run(ctx context.Context, emit func(entry any)) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	if !f.FromStart {
		f.skipExisting()
	}
	f.scan(emit)

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(f.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(f.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			f.scan(emit)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Error("log watcher error", ports.Err(err))
		}
	}
}

func (f *Follower) skipExisting() {
	entries, err := f.read()
	if err != nil {
		return
	}
	f.mu.Lock()
	f.seen = len(entries)
	f.mu.Unlock()
}

// scan emits the elements past the last seen index. A shorter document
// means the file was replaced, so following restarts from its beginning.
func (f *Follower) scan(emit func(entry any)) {
	entries, err := f.read()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.logger.Warn("cannot read log file", ports.String("file", f.path), ports.Err(err))
		}
		return
	}

	f.mu.Lock()
	if len(entries) < f.seen {
		f.seen = 0
	}
	fresh := entries[f.seen:]
	f.seen = len(entries)
	f.mu.Unlock()

	for _, e := range fresh {
		emit(e)
	}
}

func (f *Follower) read() ([]any, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	doc, err := domain.ParseDocument(raw, []any{})
	if err != nil {
		return nil, err
	}
	if doc.Kind() != domain.KindArray {
		return nil, fmt.Errorf("log document is a %s, not an array", doc.Kind())
	}
	return doc.Value().([]any), nil
}
