package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/vuon9/workdiff/internal/common"
)

// Watcher keeps diff summaries fresh: it watches the reference file and
// every workspace counterpart and triggers a new run after each debounced
// burst of filesystem events. Overlapping runs are harmless; run
// supersession discards the stale one.
type Watcher struct {
	debounce time.Duration
	trigger  func()
	logger   zerolog.Logger

	// tracked maps normalized file paths to whether events on them matter.
	tracked map[string]struct{}
}

// New creates a watcher that calls trigger after events settle for the
// debounce interval.
func New(debounce time.Duration, trigger func(), logger zerolog.Logger) *Watcher {
	return &Watcher{
		debounce: debounce,
		trigger:  trigger,
		logger:   logger.With().Str("component", "Watcher").Logger(),
		tracked:  make(map[string]struct{}),
	}
}

// Watch blocks until ctx is done, watching the parent directories of the
// given files. Directories are watched rather than the files themselves so
// that deletion and re-creation of a target still produce events.
func (w *Watcher) Watch(ctx context.Context, paths ...string) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return common.WrapError(err, "failed to create filesystem watcher")
	}
	defer func() {
		if closeErr := fsWatcher.Close(); closeErr != nil {
			w.logger.Error().Err(closeErr).Msg("Failed to close filesystem watcher")
		}
	}()

	dirs := make(map[string]struct{})
	for _, path := range paths {
		w.tracked[common.NormalizePath(path)] = struct{}{}
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			w.logger.Warn().Err(err).Str("dir", dir).Msg("Cannot watch directory, changes there will be missed")
		}
	}

	w.logger.Info().Int("files", len(w.tracked)).Int("dirs", len(dirs)).Msg("Watching for changes")
	return w.loop(ctx, fsWatcher)
}

func (w *Watcher) loop(ctx context.Context, fsWatcher *fsnotify.Watcher) error {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("Change detected")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			w.trigger()
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("Filesystem watcher error")
		}
	}
}

// relevant filters directory noise down to events on tracked files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	_, ok := w.tracked[common.NormalizePath(event.Name)]
	return ok
}
