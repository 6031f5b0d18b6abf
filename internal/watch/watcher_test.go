package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherBootstrapAndPoll(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "old.mp4.edit.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	w := NewWatcher(dir, SuffixFilter(".edit.json"), false, time.Second)
	if err := w.Bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	now := time.Now()
	ready, err := w.Poll(now)
	if err != nil || len(ready) != 0 {
		t.Fatalf("expected no ready files after bootstrap, got %v (%v)", ready, err)
	}

	newFile := filepath.Join(dir, "new.mp4.edit.json")
	if err := os.WriteFile(newFile, []byte("{}"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	ready, _ = w.Poll(now.Add(100 * time.Millisecond))
	if len(ready) != 0 {
		t.Fatalf("expected no ready files before settle")
	}
	ready, _ = w.Poll(now.Add(2 * time.Second))
	if len(ready) != 1 || ready[0] != newFile {
		t.Fatalf("expected new file ready, got: %#v", ready)
	}
	ready, _ = w.Poll(now.Add(3 * time.Second))
	if len(ready) != 0 {
		t.Fatalf("expected file to be emitted once")
	}
}

func TestWatcherSingleFileReplaced(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(media, []byte("a"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	w := NewWatcher(media, nil, false, 500*time.Millisecond)
	if err := w.Bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	base := time.Now()

	if err := os.Remove(media); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if ready, err := w.Poll(base); err != nil || len(ready) != 0 {
		t.Fatalf("missing file must not fail polling: %v %v", ready, err)
	}

	if err := os.WriteFile(media, []byte("replacement"), 0644); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}
	ready, _ := w.Poll(base.Add(100 * time.Millisecond))
	if len(ready) != 0 {
		t.Fatalf("expected no ready file before settle")
	}
	ready, _ = w.Poll(base.Add(2 * time.Second))
	if len(ready) != 1 || ready[0] != media {
		t.Fatalf("expected replaced file ready once, got: %#v", ready)
	}
}

func TestIdentityChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(media, []byte("a"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	first, err := Identity(media)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(media, []byte("longer content"), 0644); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}
	second, _ := Identity(media)
	if first.String() == second.String() {
		t.Fatalf("identity must change when the file changes")
	}
	if _, err := Identity(dir); err == nil {
		t.Fatalf("expected error for directory")
	}
}

func TestAdaptiveWatcherSignalsFileEvents(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(media, []byte("a"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	w := NewAdaptiveWatcher(media, nil, false, 10*time.Millisecond)
	defer w.Close()
	if err := w.Bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if w.Events() == nil {
		t.Skip("event backend unavailable; polling only")
	}

	if err := os.WriteFile(media, []byte("changed"), 0644); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}
	select {
	case <-w.Events():
	case <-time.After(3 * time.Second):
		t.Fatalf("expected an event for the watched file")
	}
}
