// Package watch dosya değişikliklerini izler. Düzenleyicide açık medyanın
// kimlik değişikliğini ve render modunda yeni düzenleme dosyalarını yakalar.
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Engine izleme arka ucudur.
type Engine interface {
	Bootstrap() error
	Poll(now time.Time) ([]string, error)
	// Events değişiklik olabileceğini bildirir; polling arka ucunda nil'dir.
	Events() <-chan struct{}
	Close() error
	Mode() string
}

// Filter izlenecek dosyaları seçer.
type Filter func(path string) bool

// SuffixFilter dosya adı verilen soneklerden biriyle bitenleri seçer.
// Karşılaştırma büyük/küçük harf duyarsızdır.
func SuffixFilter(suffixes ...string) Filter {
	return func(path string) bool {
		name := strings.ToLower(filepath.Base(path))
		for _, s := range suffixes {
			if strings.HasSuffix(name, strings.ToLower(s)) {
				return true
			}
		}
		return false
	}
}

type fileState struct {
	Size       int64
	ModTime    time.Time
	LastChange time.Time
	Processed  bool
}

// Watcher polling tabanlı dosya izleyicisidir. Root bir dizin ya da tek
// bir dosya olabilir.
type Watcher struct {
	Root      string
	Match     Filter
	Recursive bool
	SettleFor time.Duration

	states map[string]fileState
}

// NewWatcher yeni bir watcher oluşturur. match nil ise tüm dosyalar izlenir.
func NewWatcher(root string, match Filter, recursive bool, settleFor time.Duration) *Watcher {
	if settleFor <= 0 {
		settleFor = 1500 * time.Millisecond
	}
	return &Watcher{
		Root:      filepath.Clean(root),
		Match:     match,
		Recursive: recursive,
		SettleFor: settleFor,
		states:    make(map[string]fileState),
	}
}

// Bootstrap mevcut dosyaları "zaten işlenmiş" olarak kaydeder.
func (w *Watcher) Bootstrap() error {
	now := time.Now()
	return w.scan(func(path string, info os.FileInfo) {
		w.states[path] = fileState{Size: info.Size(), ModTime: info.ModTime(), LastChange: now, Processed: true}
	})
}

// Poll yeni/değişen ve stabilize olmuş dosyaları döner. Her değişiklik bir
// kez bildirilir.
func (w *Watcher) Poll(now time.Time) ([]string, error) {
	seen := make(map[string]struct{})
	var ready []string

	err := w.scan(func(path string, info os.FileInfo) {
		seen[path] = struct{}{}
		state, ok := w.states[path]
		if !ok || state.Size != info.Size() || !state.ModTime.Equal(info.ModTime()) {
			w.states[path] = fileState{Size: info.Size(), ModTime: info.ModTime(), LastChange: now}
			return
		}
		if !state.Processed && now.Sub(state.LastChange) >= w.SettleFor {
			state.Processed = true
			w.states[path] = state
			ready = append(ready, path)
		}
	})
	if err != nil {
		return nil, err
	}

	for path := range w.states {
		if _, ok := seen[path]; !ok {
			delete(w.states, path)
		}
	}
	return ready, nil
}

func (w *Watcher) Events() <-chan struct{} { return nil }
func (w *Watcher) Close() error            { return nil }
func (w *Watcher) Mode() string            { return "polling" }

func (w *Watcher) scan(onFile func(path string, info os.FileInfo)) error {
	info, err := os.Stat(w.Root)
	if err != nil {
		// İzlenen tek dosya geçici olarak yoksa (ör. yeniden yazılırken)
		// hiç dosya görülmemiş sayılır.
		if errors.Is(err, os.ErrNotExist) && filepath.Ext(w.Root) != "" {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		if w.Match == nil || w.Match(w.Root) {
			onFile(w.Root, info)
		}
		return nil
	}

	return filepath.WalkDir(w.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if !w.Recursive && path != w.Root {
				return filepath.SkipDir
			}
			return nil
		}
		if w.Match != nil && !w.Match(path) {
			return nil
		}
		if fi, statErr := d.Info(); statErr == nil {
			onFile(path, fi)
		}
		return nil
	})
}
