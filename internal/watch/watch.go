// Package watch signals changes of the catalog, translation and template files, with debouncing.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors directories and sends a notification after a burst of relevant changes.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	dirs       []string
	extensions map[string]bool
	debounce   time.Duration
	onChange   chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
	stopErr    error
}

// Config holds watcher configuration options.
type Config struct {
	Dirs        []string      // directories to watch, missing ones are skipped
	Extensions  []string      // relevant file extensions, all files when empty
	DebounceDur time.Duration // quiet period before notifying
}

// DefaultConfig returns the defaults for the catalog and template files.
func DefaultConfig(dirs ...string) Config {
	return Config{
		Dirs:        dirs,
		Extensions:  []string{".yaml", ".yml", ".json", ".html"},
		DebounceDur: 300 * time.Millisecond,
	}
}

// New creates a new watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	extensions := map[string]bool{}
	for _, ext := range cfg.Extensions {
		extensions[ext] = true
	}

	return &Watcher{
		fsWatcher:  fsw,
		dirs:       cfg.Dirs,
		extensions: extensions,
		debounce:   cfg.DebounceDur,
		onChange:   make(chan struct{}, 1),
		done:       make(chan struct{}),
	}, nil
}

// Start begins watching the directories and their subdirectories.
// Returns a channel that receives a signal when files change.
func (w *Watcher) Start() (<-chan struct{}, error) {
	watched := 0
	for _, dir := range w.dirs {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return w.fsWatcher.Add(path)
			}
			return nil
		})
		if os.IsNotExist(err) {
			slog.Debug("watch directory not found", "dir", dir)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
		watched++
	}
	if watched == 0 {
		return nil, fmt.Errorf("watching: no directory found in %v", w.dirs)
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources. Safe to call more than once.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.done)
		w.stopErr = w.fsWatcher.Close()
	})
	return w.stopErr
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			// new subdirectories are watched too
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.fsWatcher.Add(event.Name)
					continue
				}
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = true

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watch error", "error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a reload.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if len(w.extensions) == 0 {
		return true
	}
	return w.extensions[filepath.Ext(event.Name)]
}

// Run calls reload after each notification until the context is done.
func Run(ctx context.Context, w *Watcher, reload func()) error {
	onChange, err := w.Start()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-onChange:
			reload()
		}
	}
}
