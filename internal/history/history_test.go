package history

import (
	"testing"

	"github.com/mlihgenel/clipeditor-cli/internal/timeline"
)

func entry(start, end float64) Entry {
	return Entry{TrimStart: start, TrimEnd: end}
}

func TestUndoAfterSnapshotRestoresPrevious(t *testing.T) {
	s := New(entry(0, 60))
	s.Snapshot(entry(10, 60))

	got, ok := s.Undo()
	if !ok || !got.Equal(entry(0, 60)) {
		t.Fatalf("expected initial entry, got %+v (ok=%v)", got, ok)
	}

	redo, ok := s.Redo()
	if !ok || !redo.Equal(entry(10, 60)) {
		t.Fatalf("expected redo entry, got %+v (ok=%v)", redo, ok)
	}
}

func TestUndoRedoAreNoOpsAtBoundaries(t *testing.T) {
	s := New(entry(0, 60))
	if _, ok := s.Undo(); ok {
		t.Fatalf("undo at start must be a no-op")
	}
	if s.Index() != 0 {
		t.Fatalf("index moved: %d", s.Index())
	}
	s.Snapshot(entry(1, 60))
	if _, ok := s.Redo(); ok {
		t.Fatalf("redo at end must be a no-op")
	}
	if s.Index() != 1 || s.Len() != 2 {
		t.Fatalf("unexpected stack: index=%d len=%d", s.Index(), s.Len())
	}
}

func TestSnapshotAfterUndoDiscardsRedoTail(t *testing.T) {
	s := New(entry(0, 60))
	s.Snapshot(entry(1, 60))
	s.Snapshot(entry(2, 60))
	s.Undo()
	s.Undo()

	s.Snapshot(entry(5, 60))
	if s.Len() != 2 || s.CanRedo() {
		t.Fatalf("expected redo tail discarded, len=%d canRedo=%v", s.Len(), s.CanRedo())
	}
	if !s.Current().Equal(entry(5, 60)) {
		t.Fatalf("unexpected current: %+v", s.Current())
	}
}

func TestEntryOfCopiesLoop(t *testing.T) {
	st := timeline.State{Duration: 60, TrimStart: 0, TrimEnd: 60, Loop: &timeline.Zone{Start: 1, End: 3}}
	e := EntryOf(st)
	st.Loop.Start = 2
	if e.Loop.Start != 1 {
		t.Fatalf("entry shares loop with state")
	}
}

func TestResetKeepsSingleEntry(t *testing.T) {
	s := New(entry(0, 60))
	s.Snapshot(entry(1, 60))
	s.Reset(entry(0, 30))
	if s.Len() != 1 || s.CanUndo() || s.CanRedo() {
		t.Fatalf("unexpected stack after reset: len=%d", s.Len())
	}
}
