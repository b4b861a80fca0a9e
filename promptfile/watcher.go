package promptfile

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Update is one reload notification from a Watcher. Err is set when
// the reload failed; File is set otherwise.
type Update struct {
	File *File
	Err  error
}

// Watcher reloads a definition directory when its files change.
// It prefers fsnotify and falls back to modtime polling when a watch
// cannot be established.
type Watcher struct {
	dir      string
	logger   *slog.Logger
	interval time.Duration
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchLogger sets the logger for watch errors.
func WithWatchLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithPollInterval sets the polling fallback interval.
// The default is one second.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = d
	}
}

// NewWatcher creates a Watcher over a definition directory.
func NewWatcher(dir string, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		dir:      dir,
		logger:   slog.Default(),
		interval: time.Second,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch sends an Update for the initial load and after every change to
// a recognized definition file under the directory. The channel closes
// when the context is cancelled.
func (w *Watcher) Watch(ctx context.Context) <-chan Update {
	ch := make(chan Update, 1)

	go func() {
		defer close(ch)

		// Initial load so consumers start from current state.
		w.reload(ctx, ch)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			w.logger.Warn("fsnotify unavailable, polling instead", "dir", w.dir, "error", err)
			w.poll(ctx, ch)
			return
		}
		defer watcher.Close()

		if err := watcher.Add(w.dir); err != nil {
			w.logger.Warn("watch failed, polling instead", "dir", w.dir, "error", err)
			w.poll(ctx, ch)
			return
		}

		w.watchEvents(ctx, ch, watcher)
	}()

	return ch
}

func (w *Watcher) watchEvents(ctx context.Context, ch chan<- Update, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !extensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.reload(ctx, ch)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "dir", w.dir, "error", err)
		}
	}
}

// poll falls back to comparing directory modtimes on a ticker.
func (w *Watcher) poll(ctx context.Context, ch chan<- Update) {
	last := w.stamp()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current := w.stamp()
			if current == last {
				continue
			}
			last = current
			w.reload(ctx, ch)
		}
	}
}

// stamp summarizes the directory state: file names and modtimes of
// recognized definition files.
func (w *Watcher) stamp() string {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return "err:" + err.Error()
	}

	var sb strings.Builder
	for _, entry := range entries {
		if entry.IsDir() || !extensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		sb.WriteString(entry.Name())
		sb.WriteString(info.ModTime().String())
		sb.WriteString(";")
	}
	return sb.String()
}

func (w *Watcher) reload(ctx context.Context, ch chan<- Update) {
	f, err := LoadDir(w.dir)
	select {
	case ch <- Update{File: f, Err: err}:
	case <-ctx.Done():
	}
}
