package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventWatcher fsnotify olaylarıyla polling'i tetikler. Karar yine
// polling durumuna göre verilir; olaylar yalnızca gecikmeyi azaltır.
type EventWatcher struct {
	poller *Watcher
	fs     *fsnotify.Watcher

	// file boş değilse yalnızca bu dosyaya ait olaylar bildirilir.
	file string

	events chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewEventWatcher fsnotify backend'i oluşturur.
func NewEventWatcher(root string, match Filter, recursive bool, settleFor time.Duration) (*EventWatcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &EventWatcher{
		poller: NewWatcher(root, match, recursive, settleFor),
		fs:     fs,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}, nil
}

// NewAdaptiveWatcher event backend'i dener; olmazsa polling döner.
func NewAdaptiveWatcher(root string, match Filter, recursive bool, settleFor time.Duration) Engine {
	ew, err := NewEventWatcher(root, match, recursive, settleFor)
	if err != nil {
		return NewWatcher(root, match, recursive, settleFor)
	}
	return ew
}

func (w *EventWatcher) Bootstrap() error {
	if err := w.poller.Bootstrap(); err != nil {
		return err
	}
	if err := w.watchPaths(); err != nil {
		return err
	}
	go w.loop()
	return nil
}

func (w *EventWatcher) Poll(now time.Time) ([]string, error) {
	return w.poller.Poll(now)
}

func (w *EventWatcher) Events() <-chan struct{} {
	return w.events
}

func (w *EventWatcher) Close() error {
	w.once.Do(func() { close(w.done) })
	return w.fs.Close()
}

func (w *EventWatcher) Mode() string { return "event+polling" }

func (w *EventWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.file != "" && filepath.Clean(evt.Name) != w.file {
				continue
			}
			if evt.Has(fsnotify.Create) && w.poller.Recursive {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					_ = w.fs.Add(evt.Name)
				}
			}
			w.signal()
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// Polling devam ettiği için hata sadece yeni bir poll tetikler.
			w.signal()
		}
	}
}

func (w *EventWatcher) signal() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}

// watchPaths tek dosya izlenirken üst dizini izler; dosyanın silinip yeniden
// yazılması da böylece yakalanır.
func (w *EventWatcher) watchPaths() error {
	root := w.poller.Root
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		w.file = root
		return w.fs.Add(filepath.Dir(root))
	}
	if !w.poller.Recursive {
		return w.fs.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		return w.fs.Add(path)
	})
}
