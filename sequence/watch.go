package sequence

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/trackedit/viewport"
)

// DefaultDebounce is the quiet period a watcher waits for after the last
// file system event before rescanning. Frame renders land as bursts of
// writes; rescanning per write would thrash the sequence.
const DefaultDebounce = 250 * time.Millisecond

// Watcher rescans a sequence directory whenever its contents settle after
// a change, and hands the fresh sequence to the registered handler.
//
// The handler is called from a single goroutine. Close releases the
// underlying watch; it is safe to call more than once.
type Watcher struct {
	dir      string
	debounce time.Duration
	handler  func(*Sequence)

	fs      *fsnotify.Watcher
	closeMu sync.Mutex
	closed  bool
	done    chan struct{}
}

// Watch starts watching dir and invokes handler with a fresh scan after
// every settled change. The initial state is not delivered; call Scan
// first if the current contents matter.
func Watch(dir string, debounce time.Duration, handler func(*Sequence)) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("sequence: nil watch handler")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("sequence: create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("sequence: watch %s: %w", dir, err)
	}

	w := &Watcher{
		dir:      dir,
		debounce: debounce,
		handler:  handler,
		fs:       fsw,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. Pending debounced rescans are dropped.
func (w *Watcher) Close() error {
	w.closeMu.Lock()
	defer w.closeMu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.fs.Close()
	<-w.done
	return err
}

// run drains file system events, collapsing bursts into a single rescan
// per quiet period.
func (w *Watcher) run() {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
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
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			viewport.Logger().Warn("sequence watch error", "dir", w.dir, "err", err)

		case <-fire:
			fire = nil
			seq, err := Scan(w.dir)
			if err != nil {
				viewport.Logger().Warn("sequence rescan failed", "dir", w.dir, "err", err)
				continue
			}
			w.handler(seq)
		}
	}
}

// relevant filters out events that cannot change the scanned sequence.
func relevant(ev fsnotify.Event) bool {
	return ev.Op.Has(fsnotify.Create) ||
		ev.Op.Has(fsnotify.Write) ||
		ev.Op.Has(fsnotify.Remove) ||
		ev.Op.Has(fsnotify.Rename)
}
