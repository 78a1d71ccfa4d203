package tables

import (
	"context"
	"os"
	"time"
)

// FileWatcher polls table files and calls onChange with each path whose
// modification time moved forward. A file that appears after the first scan
// also counts as a change.
type FileWatcher struct {
	paths    []string
	interval time.Duration
	onChange func(string)
	mtimes   map[string]time.Time
}

// NewFileWatcher watches paths every interval.
func NewFileWatcher(paths []string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		paths:    append([]string(nil), paths...),
		interval: interval,
		onChange: onChange,
		mtimes:   make(map[string]time.Time),
	}
}

// Run polls until ctx ends.
func (w *FileWatcher) Run(ctx context.Context) error {
	w.scan(true)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.scan(false)
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *FileWatcher) scan(prime bool) {
	for _, p := range w.paths {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		mt := fi.ModTime()
		last, seen := w.mtimes[p]
		if seen && !mt.After(last) {
			continue
		}
		w.mtimes[p] = mt
		if !prime && w.onChange != nil {
			w.onChange(p)
		}
	}
}
