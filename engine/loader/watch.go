package loader

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/desksprite/desksprite/engine/sprite"
	"github.com/fsnotify/fsnotify"
)

// Watcher watches a directory for sprite definition files and emits fully
// loaded definitions as they appear or change. Rapid editor save sequences
// are debounced per file.
type Watcher struct {
	watcher *fsnotify.Watcher
	Sprites chan *sprite.Data
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher starts watching the given directory for sprite XML files.
//
// Parameters:
//   - dir: the directory to watch, non-recursive
//
// Returns:
//   - *Watcher: the running watcher
//   - error: error if the directory could not be watched
func NewWatcher(dir string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		Sprites: make(chan *sprite.Data, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes its channels. Idempotent.
//
// Returns:
//   - error: error from closing the underlying filesystem watcher
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		close(w.Sprites)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isDefinitionFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < 100*time.Millisecond {
				continue
			}
			last[event.Name] = now

			data, err := Load(event.Name)
			if err != nil {
				// Half-written files show up as parse failures; the next
				// write event retries.
				select {
				case w.Errors <- err:
				default:
				}
				continue
			}
			select {
			case w.Sprites <- data:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func isDefinitionFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".xml"
}
