package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const (
	debounceDelay   = 50 * time.Millisecond
	eventBufferSize = 16
)

// Change reports that a document was rewritten.
type Change struct {
	Key       string
	Timestamp time.Time
}

// Watcher watches a project directory for document changes using fsnotify.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher

	mu          sync.Mutex
	subscribers map[string][]chan<- Change // pattern -> channels
	debounce    map[string]*time.Timer     // key -> debounce timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher for dir. The directory is created if it doesn't
// exist.
func NewWatcher(dir string) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		dir:         dir,
		watcher:     fw,
		subscribers: make(map[string][]chan<- Change),
		debounce:    make(map[string]*time.Timer),
		ctx:         ctx,
		cancel:      cancel,
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Watch returns a channel receiving a Change whenever a document whose key
// matches the glob pattern is written. The channel closes when ctx ends or the
// watcher closes.
func (w *Watcher) Watch(ctx context.Context, pattern string) (<-chan Change, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	ch := make(chan Change, eventBufferSize)

	w.mu.Lock()
	w.subscribers[pattern] = append(w.subscribers[pattern], ch)
	w.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			w.unsubscribe(pattern, ch)
		case <-w.ctx.Done():
		}
	}()

	return ch, nil
}

// Close stops watching and closes all subscriber channels.
func (w *Watcher) Close() error {
	w.cancel()

	w.mu.Lock()
	for _, timer := range w.debounce {
		timer.Stop()
	}
	for _, subs := range w.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	w.subscribers = make(map[string][]chan<- Change)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) unsubscribe(pattern string, ch chan<- Change) {
	w.mu.Lock()
	defer w.mu.Unlock()

	subs := w.subscribers[pattern]
	for i, sub := range subs {
		if sub == ch {
			w.subscribers[pattern] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
	if len(w.subscribers[pattern]) == 0 {
		delete(w.subscribers, pattern)
	}
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Debug().Err(err).Str("dir", w.dir).Msg("store watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Atomic writes show up as a create or rename of the final name.
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	filename := filepath.Base(event.Name)
	if !strings.HasSuffix(filename, docExt) {
		return
	}
	key := strings.TrimSuffix(filename, docExt)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx.Err() != nil {
		return
	}
	if timer, exists := w.debounce[key]; exists {
		timer.Stop()
	}
	w.debounce[key] = time.AfterFunc(debounceDelay, func() {
		w.notify(key)
	})
}

func (w *Watcher) notify(key string) {
	change := Change{Key: key, Timestamp: time.Now()}

	w.mu.Lock()
	defer w.mu.Unlock()

	for pattern, subs := range w.subscribers {
		if ok, _ := doublestar.Match(pattern, key); !ok {
			continue
		}
		for _, ch := range subs {
			select {
			case ch <- change:
			default:
				// subscriber is behind; it will reload everything anyway
			}
		}
	}

	delete(w.debounce, key)
}
