package persist

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bastiangx/wordchain/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher calls a function whenever a user word file is rewritten by
// another process. Rapid successive writes collapse into one call.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func()
}

// NewWatcher watches the directory holding path; watching the directory
// keeps working across atomic rename-over writes.
func NewWatcher(path string, onChange func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if err := utils.EnsureDir(filepath.Dir(abs)); err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		watcher:  w,
		path:     abs,
		debounce: defaultDebounce,
		onChange: onChange,
	}, nil
}

// SetDebounce changes the quiet period before onChange fires.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Run blocks until ctx is done or the watcher fails, then releases it.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	log.Debugf("Watching %s for external changes", w.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			log.Debugf("User word file event: %s", event)
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("User word watcher error: %v", err)

		case <-timer.C:
			w.onChange()
		}
	}
}
