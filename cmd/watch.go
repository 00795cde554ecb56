package cmd

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <script.wfc>",
	Short: "Recompile a rule script whenever it changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

// watchDebounce coalesces the bursts of events editors produce on save.
const watchDebounce = 100 * time.Millisecond

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := args[0]

	w, err := newScriptWatcher(path)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	recompile := func() {
		if err := compileAndWrite(cmd, path, cfg, logger); err != nil {
			logger.Error("compile failed", "file", path, "err", err)
		}
	}

	logger.Info("watching", "file", path)
	recompile()

	ctx := commandContext(cmd)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-w.Changes:
			if !ok {
				return nil
			}
			logger.Debug("script changed", "file", path)
			recompile()
		}
	}
}

// scriptWatcher reports debounced writes to a single script. It watches
// the parent directory so editors that replace the file on save are seen.
type scriptWatcher struct {
	Changes <-chan struct{}

	path    string
	changes chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
}

func newScriptWatcher(path string) (*scriptWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ch := make(chan struct{}, 1)
	return &scriptWatcher{
		Changes: ch,
		path:    abs,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching the script's directory. On failure the underlying
// watcher is closed and w must not be used again.
func (w *scriptWatcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.watcher.Close()
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *scriptWatcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *scriptWatcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(watchDebounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= watchDebounce {
				pending = time.Time{}
				w.emit()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

// emit signals a change without blocking; one pending signal is enough.
func (w *scriptWatcher) emit() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
