package editor

// OnTimeUpdate oynatıcının bildirdiği konumu işler. Sürükleme sırasında
// hiçbir şey yapmaz. Aksi halde kırpma başlangıcının gerisine düşen konum
// başlangıca taşınır, bitişi geçen konum başa sarılıp duraklatılır, döngü
// varken oynatma döngü sonuna ulaşınca döngü başına döner.
func (e *Editor) OnTimeUpdate(t float64) {
	if !e.ready || e.mode == ModeInteracting {
		return
	}
	s := e.state
	e.current = t
	if t < s.TrimStart {
		e.seek(s.TrimStart)
		return
	}
	if t > s.TrimEnd {
		e.seek(s.TrimStart)
		e.pause()
		return
	}
	if s.Loop != nil && e.playing && t >= s.Loop.End {
		e.seek(s.Loop.Start)
	}
}

// OnEnded oynatıcı kendiliğinden durduğunda çağrılır.
func (e *Editor) OnEnded() {
	e.playing = false
}

// TogglePlay oynatmayı başlatır veya duraklatır. Konum kırpma bitişinde ya da
// sonrasındaysa oynatma kırpma başlangıcından başlar.
func (e *Editor) TogglePlay() error {
	if !e.ready {
		return ErrNotReady
	}
	if e.playing {
		e.pause()
		return nil
	}
	if e.current >= e.state.TrimEnd || e.current < e.state.TrimStart {
		e.seek(e.state.TrimStart)
	}
	if err := e.player.Play(); err != nil {
		return err
	}
	e.playing = true
	return nil
}

// Seek konumu kırpma aralığına sıkıştırarak değiştirir.
func (e *Editor) Seek(t float64) {
	if !e.ready {
		return
	}
	e.seek(e.state.ClampPlayhead(t))
}

// StepFrames konumu n kare ileri veya geri taşır.
func (e *Editor) StepFrames(n int) {
	e.Seek(e.current + float64(n)*e.limits.FrameStep)
}

// SeekTrimStart kırpma başlangıcına gider.
func (e *Editor) SeekTrimStart() { e.Seek(e.state.TrimStart) }

// SeekTrimEnd kırpma bitişine gider.
func (e *Editor) SeekTrimEnd() { e.Seek(e.state.TrimEnd) }

func (e *Editor) seek(t float64) {
	e.current = t
	e.player.Seek(t)
}

func (e *Editor) pause() {
	e.player.Pause()
	e.playing = false
}
