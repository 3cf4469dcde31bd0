package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is invoked after the watched document file settles
// following an external change.
type ChangeCallback func()

// Watch starts an fsnotify watcher on the data directory and invokes cb when
// the document file is created, written, or renamed into place until ctx is
// cancelled.
//
// The operator can restore a backup by dropping a file over the live
// document while the process runs; the watcher picks that up so the in-memory
// state never drifts from disk. Events are debounced because editors and the
// app's own atomic rename produce bursts.
func Watch(ctx context.Context, dataDir, documentKey string, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dataDir); err != nil {
		return err
	}

	target := filepath.Join(dataDir, documentKey)
	logger.Info("watcher: started", slog.String("document", target))

	var debounce *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(200 * time.Millisecond)
			fire = debounce.C
		} else {
			debounce.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			logger.Debug("watcher: document changed on disk", slog.String("path", target))
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
