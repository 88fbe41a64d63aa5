package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 200 * time.Millisecond

// Watcher monitors a seed directory and invokes a callback (debounced)
// whenever a .md file changes. Used by `threads seed --watch`.
type Watcher struct {
	dir      string
	onChange func()

	mu       sync.Mutex
	watching bool
	done     chan struct{}
}

// NewWatcher creates a watcher for the given directory.
func NewWatcher(dir string, onChange func()) *Watcher {
	return &Watcher{dir: dir, onChange: onChange}
}

// Start begins filesystem monitoring. It is a no-op when already
// watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watching {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return err
	}

	// Watch subdirectories too, best effort.
	_ = filepath.WalkDir(w.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() || path == w.dir {
			return nil
		}
		_ = watcher.Add(path)
		return nil
	})

	w.watching = true
	w.done = make(chan struct{})
	go w.loop(watcher)
	return nil
}

// Stop ends monitoring.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.watching {
		return
	}
	close(w.done)
	w.watching = false
}

// loop processes filesystem events with debouncing, so a burst of
// writes triggers a single reseed.
func (w *Watcher) loop(watcher *fsnotify.Watcher) {
	defer watcher.Close()

	var debounceTimer *time.Timer

	for {
		select {
		case <-w.done:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".md") {
				continue
			}
			relevant := event.Op&fsnotify.Create != 0 ||
				event.Op&fsnotify.Write != 0 ||
				event.Op&fsnotify.Remove != 0 ||
				event.Op&fsnotify.Rename != 0
			if !relevant {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, w.onChange)

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
