// Package editor zaman çizelgesi düzenleyicisinin etkileşim denetleyicisidir.
// Sürükleme hareketlerini zaman çizelgesi geçişlerine çevirir, oynatma
// sırasında kırpma ve döngü sınırlarını uygular, geçmişi yönetir.
//
// Editor tek bir olay döngüsünden kullanılmak üzere tasarlanmıştır ve
// eşzamanlı kullanım için güvenli değildir.
package editor

import (
	"errors"

	"github.com/mlihgenel/clipeditor-cli/internal/edit"
	"github.com/mlihgenel/clipeditor-cli/internal/history"
	"github.com/mlihgenel/clipeditor-cli/internal/timeline"
)

var (
	ErrNotReady   = errors.New("medya suresi henuz bilinmiyor")
	ErrDragActive = errors.New("baska bir surukleme devam ediyor")
	ErrNoLoop     = errors.New("dongu bolgesi tanimli degil")
)

// Mode oynatma denetiminin sürükleme sırasında askıya alınıp alınmadığını belirtir.
type Mode int

const (
	ModeIdle Mode = iota
	ModeInteracting
)

func (m Mode) String() string {
	if m == ModeInteracting {
		return "interacting"
	}
	return "idle"
}

// Player önizleme oynatıcısıdır. Seek beklemez; konum değişikliği daha sonra
// OnTimeUpdate ile geri bildirilir.
type Player interface {
	Seek(t float64)
	Play() error
	Pause()
}

type nopPlayer struct{}

func (nopPlayer) Seek(float64) {}
func (nopPlayer) Play() error  { return nil }
func (nopPlayer) Pause()       {}

// Editor tek bir medya için düzenleme oturumudur.
type Editor struct {
	limits timeline.Limits
	player Player

	source  string
	ready   bool
	state   timeline.State
	hist    *history.Stack
	mode    Mode
	drag    *Drag
	current float64
	playing bool
}

// New bir düzenleyici oluşturur. player nil ise önizleme yapılmaz.
func New(player Player, limits timeline.Limits) *Editor {
	if player == nil {
		player = nopPlayer{}
	}
	return &Editor{limits: limits, player: player}
}

// SetSource medya kimliğini ayarlar. Kimlik değişirse süre, kırpma, döngü,
// geçmiş ve devam eden sürükleme sıfırlanır; true döner.
func (e *Editor) SetSource(id string) bool {
	if id == e.source {
		return false
	}
	e.source = id
	e.reset()
	return true
}

func (e *Editor) reset() {
	if e.drag != nil {
		e.drag.Cancel()
	}
	if e.playing {
		e.player.Pause()
	}
	e.ready = false
	e.state = timeline.State{}
	e.hist = nil
	e.mode = ModeIdle
	e.current = 0
	e.playing = false
}

// Load medya süresi öğrenildiğinde çağrılır. initial varsa kayıtlı döngü
// gerçek süreye göre sıkıştırılarak yüklenir. Geçersiz sürede düzenleyici
// hazır olmaz.
func (e *Editor) Load(duration float64, initial *edit.Payload) error {
	var loop *timeline.Zone
	if initial != nil {
		loop = initial.Loop()
	}
	st, err := timeline.FromInitial(duration, loop, e.limits)
	if err != nil {
		e.reset()
		return err
	}
	if e.drag != nil {
		e.drag.Cancel()
	}
	e.state = st
	e.hist = history.New(history.EntryOf(st))
	e.ready = true
	e.mode = ModeIdle
	e.current = st.TrimStart
	return nil
}

func (e *Editor) Source() string          { return e.source }
func (e *Editor) Ready() bool             { return e.ready }
func (e *Editor) State() timeline.State   { return e.state }
func (e *Editor) Mode() Mode              { return e.mode }
func (e *Editor) CurrentTime() float64    { return e.current }
func (e *Editor) Playing() bool           { return e.playing }
func (e *Editor) Limits() timeline.Limits { return e.limits }

func (e *Editor) CanUndo() bool { return e.hist != nil && e.hist.CanUndo() }
func (e *Editor) CanRedo() bool { return e.hist != nil && e.hist.CanRedo() }

// TimeAt iz üzerindeki yatay konumu zamana çevirir. Oran 0..1 aralığına
// sıkıştırılır.
func (e *Editor) TimeAt(offsetX, trackWidth float64) float64 {
	if !e.ready || trackWidth <= 0 {
		return 0
	}
	ratio := offsetX / trackWidth
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return ratio * e.state.Duration
}

// Payload düzenlemenin şimdiki hali.
func (e *Editor) Payload() edit.Payload {
	return edit.PayloadOf(e.state)
}

// Request kırpma servisine gönderilecek istek.
func (e *Editor) Request() (edit.Request, error) {
	if !e.ready {
		return edit.Request{}, ErrNotReady
	}
	return edit.Request{Source: e.source, State: e.state}, nil
}

// Close oturumu kapatır; açık sürükleme geçmişe yazılmadan bırakılır.
func (e *Editor) Close() {
	if e.drag != nil {
		e.drag.Cancel()
	}
	if e.playing {
		e.player.Pause()
		e.playing = false
	}
}

// snapshot şimdiki durumu geçmişe ekler; son kayıtla aynıysa eklemez.
func (e *Editor) snapshot() {
	if e.hist == nil {
		return
	}
	entry := history.EntryOf(e.state)
	if entry.Equal(e.hist.Current()) {
		return
	}
	e.hist.Snapshot(entry)
}

func (e *Editor) restore(entry history.Entry) {
	e.state = e.state.Restore(entry.TrimStart, entry.TrimEnd, entry.Loop, e.limits)
	if e.current < e.state.TrimStart || e.current > e.state.TrimEnd {
		e.seek(e.state.ClampPlayhead(e.current))
	}
}

// Undo bir önceki duruma döner.
func (e *Editor) Undo() bool {
	if !e.ready || e.mode == ModeInteracting {
		return false
	}
	entry, ok := e.hist.Undo()
	if ok {
		e.restore(entry)
	}
	return ok
}

// Redo geri alınan adımı yeniden uygular.
func (e *Editor) Redo() bool {
	if !e.ready || e.mode == ModeInteracting {
		return false
	}
	entry, ok := e.hist.Redo()
	if ok {
		e.restore(entry)
	}
	return ok
}

// editable adlandırılmış geçişlerin uygulanabileceğini kontrol eder;
// sürükleme sürerken geçmişe ara adım yazılmaz.
func (e *Editor) editable() error {
	if !e.ready {
		return ErrNotReady
	}
	if e.mode == ModeInteracting {
		return ErrDragActive
	}
	return nil
}

// ApplyTrim kırpma aralığını tek adımda ayarlar ve geçmişe yazar.
func (e *Editor) ApplyTrim(start, end float64) error {
	if err := e.editable(); err != nil {
		return err
	}
	e.state = e.state.ApplyTrim(start, end, e.limits)
	e.snapshot()
	return nil
}

// CreateLoop oynatma kafasının bulunduğu yerde döngü açar.
func (e *Editor) CreateLoop() error {
	if err := e.editable(); err != nil {
		return err
	}
	e.state = e.state.CreateLoopAt(e.current, e.limits)
	e.snapshot()
	return nil
}

// SetLoop döngüyü verilen sınırlara göre kurar. Önce start'ta bir döngü
// açılır, sonra uçlar sürükleme kurallarıyla taşınır.
func (e *Editor) SetLoop(start, end float64) error {
	if err := e.editable(); err != nil {
		return err
	}
	e.state = e.state.CreateLoopAt(start, e.limits).
		SetLoopEnd(end, e.limits).
		SetLoopStart(start, e.limits)
	e.snapshot()
	return nil
}

// ClearLoop döngüyü kaldırır.
func (e *Editor) ClearLoop() error {
	if err := e.editable(); err != nil {
		return err
	}
	if e.state.Loop == nil {
		return nil
	}
	e.state = e.state.ClearLoop()
	e.snapshot()
	return nil
}
