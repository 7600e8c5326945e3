package ui

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// fileChangedMsg is sent when the watched file was written or replaced
type fileChangedMsg struct{}

// watchErrMsg carries a watcher failure to the model
type watchErrMsg struct{ err error }

// Watcher reports changes to a single file. It watches the parent
// directory so editors that save by rename are still seen.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	changes  chan struct{}
	errs     chan error
	stop     chan struct{}
	debounce time.Duration
}

// NewWatcher starts watching path
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		watcher:  fw,
		changes:  make(chan struct{}, 1),
		errs:     make(chan error, 1),
		stop:     make(chan struct{}),
		debounce: 100 * time.Millisecond,
	}
	go w.processEvents()
	return w, nil
}

func (w *Watcher) processEvents() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.stop:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// editors often write a file in several steps
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// Changes delivers one value per settled burst of writes
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Wait returns a command that blocks until the next change or error
func (w *Watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.stop:
			return nil
		case _, ok := <-w.changes:
			if !ok {
				return nil
			}
			return fileChangedMsg{}
		case err := <-w.errs:
			return watchErrMsg{err: err}
		}
	}
}

// Close stops the watcher
func (w *Watcher) Close() error {
	select {
	case <-w.stop:
		return nil
	default:
		close(w.stop)
		return w.watcher.Close()
	}
}
