package sources

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"rollcall/internal/logging"
	"rollcall/internal/services"
)

const defaultDebounce = 2 * time.Second

// Watcher signals when files land in or move within the watched tree. Bursts
// of filesystem events (a sync client writing dozens of files) collapse into
// a single signal after a quiet period.
type Watcher struct {
	root     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	events   chan struct{}
	logger   *slog.Logger
}

// NewWatcher watches the given root and every directory below it.
func NewWatcher(root string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "watcher", "new", "create fsnotify watcher", err)
	}

	w := &Watcher{
		root:     root,
		debounce: debounce,
		watcher:  fsWatcher,
		events:   make(chan struct{}, 1),
		logger:   logging.NewComponentLogger(logger, "watcher"),
	}
	if err := w.addTree(root); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// Events yields one signal per settled burst of filesystem activity.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Run processes filesystem events until the context ends. New directories
// are added to the watch set as they appear.
func (w *Watcher) Run(ctx context.Context) error {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				// A new directory needs its own watch before files
				// inside it can be seen.
				if err := w.addTree(event.Name); err != nil {
					w.logger.Warn("watch new directory", logging.Error(err))
				}
			}
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
			select {
			case w.events <- struct{}{}:
			default:
			}
			w.logger.Debug("inbox activity settled")

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logging.Error(err))
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Rename)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// The path may have vanished between the event and the walk.
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
