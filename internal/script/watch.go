package script

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/artboard"
)

// debounce drops repeated events for the same file.
const debounce = 100 * time.Millisecond

// Watcher reports changes to script files. Directories are watched rather
// than files so that editors which save by rename keep being observed.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	dirs    map[string]bool

	// Events receives the path of each changed script. It is closed after
	// Close.
	Events chan string
	// Errors receives watcher errors. It is closed after Close.
	Errors chan error

	closeCh chan struct{}
	once    sync.Once
	done    chan struct{}
}

// NewWatcher watches paths. A directory reports every .yaml or .yml file
// in it; a file reports only itself.
func NewWatcher(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher: fw,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
	}
	added := make(map[string]bool)
	for _, p := range paths {
		p = filepath.Clean(p)
		dir := p
		if isScriptFile(p) {
			w.files[p] = true
			dir = filepath.Dir(p)
		} else {
			w.dirs[p] = true
		}
		if added[dir] {
			continue
		}
		added[dir] = true
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.wanted(event) {
				continue
			}
			name := filepath.Clean(event.Name)
			now := time.Now()
			if t, ok := last[name]; ok && now.Sub(t) < debounce {
				continue
			}
			last[name] = now
			artboard.Logger().Debug("script: file changed", "path", name, "op", event.Op.String())
			select {
			case w.Events <- name:
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
				artboard.Logger().Warn("script: watcher error dropped", "err", err)
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) wanted(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	if !isScriptFile(event.Name) {
		return false
	}
	name := filepath.Clean(event.Name)
	return w.files[name] || w.dirs[filepath.Dir(name)]
}

func isScriptFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
