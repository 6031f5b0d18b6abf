package timeline

import "math"

// SetTrimStart kırpma başlangıcını [0, TrimEnd-MinGap] aralığına sıkıştırarak
// taşır ve ardından döngüyü uzlaştırır.
func (s State) SetTrimStart(t float64, l Limits) State {
	s.TrimStart = clamp(t, 0, s.TrimEnd-l.MinGap)
	return Reconcile(s, l)
}

// SetTrimEnd kırpma bitişini [TrimStart+MinGap, Duration] aralığına taşır.
// Süre MinGap'ten kısa olduğunda üst sınır kazanır.
func (s State) SetTrimEnd(t float64, l Limits) State {
	s.TrimEnd = math.Min(s.Duration, math.Max(t, s.TrimStart+l.MinGap))
	return Reconcile(s, l)
}

// ApplyTrim iki ucu birlikte uygular: başlangıç mevcut bitişe göre
// [0, TrimEnd-MinGap], bitiş yeni başlangıca göre [TrimStart+MinGap, Duration]
// aralığına sıkıştırılır. Tek uç değiştiğinde SetTrimStart/SetTrimEnd ile aynı
// sonucu verir.
func (s State) ApplyTrim(start, end float64, l Limits) State {
	s.TrimStart = clamp(start, 0, s.TrimEnd-l.MinGap)
	s.TrimEnd = math.Min(s.Duration, math.Max(end, s.TrimStart+l.MinGap))
	return Reconcile(s, l)
}

// SetLoopStart döngü başlangıcını sürükler: [TrimStart, Loop.End-MinLoop].
// Döngü yoksa durum değişmez.
func (s State) SetLoopStart(t float64, l Limits) State {
	if s.Loop == nil {
		return s
	}
	z := *s.Loop
	z.Start = math.Max(s.TrimStart, math.Min(t, z.End-l.MinLoop))
	return s.withLoop(&z)
}

// SetLoopEnd döngü bitişini sürükler: [Loop.Start+MinLoop, TrimEnd].
func (s State) SetLoopEnd(t float64, l Limits) State {
	if s.Loop == nil {
		return s
	}
	z := *s.Loop
	z.End = math.Max(z.Start+l.MinLoop, math.Min(t, s.TrimEnd))
	return s.withLoop(&z)
}

// CreateLoopAt oynatma kafasının bulunduğu yerde bir döngü açar. Hedef uzunluk
// DefaultLoop'tur; kırpma aralığı daha kısaysa aralığın tamamı (en az MinLoop).
// Başlangıç, döngü kırpma aralığına sığacak şekilde sıkıştırılır.
func (s State) CreateLoopAt(t float64, l Limits) State {
	available := s.TrimLength()
	length := l.DefaultLoop
	if available < l.DefaultLoop {
		length = math.Max(l.MinLoop, available)
	}
	maxStart := math.Max(s.TrimStart, s.TrimEnd-length)
	start := clamp(t, s.TrimStart, maxStart)
	end := math.Min(s.TrimEnd, start+length)
	return s.withLoop(&Zone{Start: start, End: end})
}

// ClearLoop döngüyü kaldırır.
func (s State) ClearLoop() State {
	s.Loop = nil
	return s
}

// ClampPlayhead bir zamanı kırpma aralığına sıkıştırır.
func (s State) ClampPlayhead(t float64) float64 {
	return clamp(t, s.TrimStart, s.TrimEnd)
}

// Restore geçmişten gelen kırpma ve döngü değerlerini süreyi koruyarak yükler.
// Sıkıştırma tam aralıktan başlar; geçerli bir kayıt aynen geri gelir.
func (s State) Restore(trimStart, trimEnd float64, loop *Zone, l Limits) State {
	s.TrimStart, s.TrimEnd = 0, s.Duration
	s = s.withLoop(loop)
	return s.ApplyTrim(trimStart, trimEnd, l)
}

// FromInitial kayıtlı bir düzenlemeyi gerçek medya süresine göre yükler.
// Kırpma her zaman tam süreden başlar. Döngü [0, duration] içine
// sıkıştırılır, DiscardLoop'tan kısa kalırsa atılır; kalan döngü kırpma
// kurallarına göre uzlaştırılır.
func FromInitial(duration float64, loop *Zone, l Limits) (State, error) {
	s, err := New(duration)
	if err != nil {
		return State{}, err
	}
	if loop == nil {
		return s, nil
	}
	start := clamp(loop.Start, 0, duration)
	end := clamp(loop.End, 0, duration)
	if end-start < l.DiscardLoop {
		return s, nil
	}
	s = s.withLoop(&Zone{Start: start, End: end})
	return Reconcile(s, l), nil
}
