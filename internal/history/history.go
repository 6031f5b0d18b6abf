// Package history düzenleyici için doğrusal geri al / yinele yığınıdır.
package history

import "github.com/mlihgenel/clipeditor-cli/internal/timeline"

// Entry geçmişteki değişmez bir kayıttır.
type Entry struct {
	TrimStart float64
	TrimEnd   float64
	Loop      *timeline.Zone
}

// EntryOf bir durumdan kayıt üretir. Döngü kopyalanır.
func EntryOf(s timeline.State) Entry {
	e := Entry{TrimStart: s.TrimStart, TrimEnd: s.TrimEnd}
	if s.Loop != nil {
		z := *s.Loop
		e.Loop = &z
	}
	return e
}

// Equal iki kaydı karşılaştırır.
func (e Entry) Equal(o Entry) bool {
	if e.TrimStart != o.TrimStart || e.TrimEnd != o.TrimEnd {
		return false
	}
	if e.Loop == nil || o.Loop == nil {
		return e.Loop == nil && o.Loop == nil
	}
	return *e.Loop == *o.Loop
}

// Stack kayıt dizisi ve geçerli konumdan oluşur. Index 0 başlangıç durumudur.
type Stack struct {
	entries []Entry
	index   int
}

// New başlangıç kaydıyla bir yığın oluşturur.
func New(initial Entry) *Stack {
	s := &Stack{}
	s.Reset(initial)
	return s
}

// Reset geçmişi tek bir başlangıç kaydına indirir.
func (s *Stack) Reset(initial Entry) {
	s.entries = []Entry{initial}
	s.index = 0
}

// Snapshot geçerli konumdan sonrasını atar ve yeni kaydı ekler.
func (s *Stack) Snapshot(e Entry) {
	tail := make([]Entry, s.index+1, s.index+2)
	copy(tail, s.entries[:s.index+1])
	s.entries = append(tail, e)
	s.index = len(s.entries) - 1
}

// Undo bir adım geri gider. Başlangıçtaysa false döner.
func (s *Stack) Undo() (Entry, bool) {
	if !s.CanUndo() {
		return Entry{}, false
	}
	s.index--
	return s.entries[s.index], true
}

// Redo bir adım ileri gider. Sondaysa false döner.
func (s *Stack) Redo() (Entry, bool) {
	if !s.CanRedo() {
		return Entry{}, false
	}
	s.index++
	return s.entries[s.index], true
}

func (s *Stack) CanUndo() bool { return s.index > 0 }

func (s *Stack) CanRedo() bool { return s.index < len(s.entries)-1 }

// Current geçerli kayıt
func (s *Stack) Current() Entry {
	return s.entries[s.index]
}

func (s *Stack) Len() int   { return len(s.entries) }
func (s *Stack) Index() int { return s.index }
