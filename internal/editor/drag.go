package editor

import "fmt"

// Handle sürüklenebilir tutamaç.
type Handle int

const (
	HandleTrimStart Handle = iota
	HandleTrimEnd
	HandleLoopStart
	HandleLoopEnd
	HandlePlayhead
)

func (h Handle) String() string {
	switch h {
	case HandleTrimStart:
		return "trim-start"
	case HandleTrimEnd:
		return "trim-end"
	case HandleLoopStart:
		return "loop-start"
	case HandleLoopEnd:
		return "loop-end"
	case HandlePlayhead:
		return "playhead"
	}
	return fmt.Sprintf("handle(%d)", int(h))
}

// Drag tek bir sürükleme hareketidir. BeginDrag ile alınır ve Release ya da
// Cancel ile mutlaka bırakılır; bırakıldıktan sonra Move etkisizdir.
type Drag struct {
	e      *Editor
	handle Handle
	done   bool
}

// BeginDrag bir tutamacı yakalar ve düzenleyiciyi etkileşim moduna alır.
func (e *Editor) BeginDrag(h Handle) (*Drag, error) {
	if !e.ready {
		return nil, ErrNotReady
	}
	if e.drag != nil {
		return nil, ErrDragActive
	}
	if (h == HandleLoopStart || h == HandleLoopEnd) && e.state.Loop == nil {
		return nil, ErrNoLoop
	}
	d := &Drag{e: e, handle: h}
	e.drag = d
	e.mode = ModeInteracting
	return d, nil
}

// ActiveDrag devam eden sürükleme, yoksa nil.
func (e *Editor) ActiveDrag() *Drag {
	return e.drag
}

func (d *Drag) Handle() Handle { return d.handle }

// Done sürükleme bırakıldı mı
func (d *Drag) Done() bool { return d.done }

// MoveTo iz üzerindeki konumu zamana çevirip Move çağırır.
func (d *Drag) MoveTo(offsetX, trackWidth float64) float64 {
	return d.Move(d.e.TimeAt(offsetX, trackWidth))
}

// Move tutamacı t zamanına taşır; sıkıştırma kuralları her harekette
// uygulanır ve önizleme sıkıştırılmış zamana sarılır. Uygulanan zamanı döner.
func (d *Drag) Move(t float64) float64 {
	if d.done {
		return t
	}
	e := d.e
	l := e.limits
	var at float64

	switch d.handle {
	case HandleTrimStart:
		e.state = e.state.SetTrimStart(t, l)
		at = e.state.TrimStart
	case HandleTrimEnd:
		e.state = e.state.SetTrimEnd(t, l)
		at = e.state.TrimEnd
	case HandleLoopStart:
		if e.state.Loop == nil {
			return t
		}
		e.state = e.state.SetLoopStart(t, l)
		at = e.state.Loop.Start
	case HandleLoopEnd:
		if e.state.Loop == nil {
			return t
		}
		e.state = e.state.SetLoopEnd(t, l)
		at = e.state.Loop.End
	case HandlePlayhead:
		at = e.state.ClampPlayhead(t)
	default:
		return t
	}
	e.seek(at)
	return at
}

// Release hareketi bitirir, etkileşim modunu kapatır ve durumu geçmişe yazar.
func (d *Drag) Release() {
	if d.finish() {
		d.e.snapshot()
	}
}

// Cancel hareketi geçmişe yazmadan bırakır. Oturum kapanırken kullanılır.
func (d *Drag) Cancel() {
	d.finish()
}

func (d *Drag) finish() bool {
	if d.done {
		return false
	}
	d.done = true
	if d.e.drag == d {
		d.e.drag = nil
		d.e.mode = ModeIdle
	}
	return true
}
