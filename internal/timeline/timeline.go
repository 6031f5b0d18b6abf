// Package timeline düzenleyicinin zaman çizelgesi modelini tutar:
// medya süresi, kırpma aralığı ve isteğe bağlı döngü bölgesi.
//
// State bir değer tipidir. Tüm geçişler yeni bir State döner, alıcıyı
// değiştirmez. Bu sayede geçmiş kayıtları ve önizlemeler aynı değeri
// güvenle paylaşabilir.
package timeline

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDuration medya süresi bilinmediğinde veya geçersiz olduğunda döner.
var ErrInvalidDuration = errors.New("gecersiz medya suresi")

// Zone döngü bölgesidir, saniye cinsinden [Start, End).
type Zone struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Length bölge uzunluğu
func (z Zone) Length() float64 {
	return z.End - z.Start
}

func (z Zone) String() string {
	return fmt.Sprintf("%.3f-%.3f", z.Start, z.End)
}

// Limits zaman çizelgesi kurallarında kullanılan eşiklerdir.
type Limits struct {
	// MinGap kırpma başlangıcı ile bitişi arasındaki en küçük mesafe.
	MinGap float64
	// MinLoop bir döngü bölgesinin en küçük uzunluğu.
	MinLoop float64
	// DiscardLoop bu uzunluğun altına düşen döngü tamamen atılır.
	DiscardLoop float64
	// DefaultLoop yeni oluşturulan döngünün hedef uzunluğu.
	DefaultLoop float64
	// Epsilon süre karşılaştırmalarındaki tolerans.
	Epsilon float64
	// FrameStep kare adımı (1/30 s).
	FrameStep float64
}

// DefaultLimits varsayılan eşikler
func DefaultLimits() Limits {
	return Limits{
		MinGap:      0.5,
		MinLoop:     0.5,
		DiscardLoop: 0.1,
		DefaultLoop: 2,
		Epsilon:     0.001,
		FrameStep:   1.0 / 30.0,
	}
}

// Validate eşiklerin birbirleriyle tutarlı olduğunu kontrol eder.
func (l Limits) Validate() error {
	switch {
	case !positive(l.MinGap):
		return fmt.Errorf("min_gap pozitif olmali: %v", l.MinGap)
	case !positive(l.MinLoop):
		return fmt.Errorf("min_loop pozitif olmali: %v", l.MinLoop)
	case l.MinGap < l.MinLoop:
		// En kısa kırpma penceresi en kısa döngüyü taşıyabilmeli.
		return fmt.Errorf("min_gap min_loop degerinden kucuk olamaz: %v < %v", l.MinGap, l.MinLoop)
	case !positive(l.DiscardLoop) || l.DiscardLoop > l.MinLoop:
		return fmt.Errorf("discard_loop 0 ile min_loop arasinda olmali: %v", l.DiscardLoop)
	case l.DefaultLoop < l.MinLoop:
		return fmt.Errorf("default_loop min_loop degerinden kucuk olamaz: %v", l.DefaultLoop)
	case l.Epsilon < 0 || math.IsNaN(l.Epsilon):
		return fmt.Errorf("epsilon negatif olamaz: %v", l.Epsilon)
	case !positive(l.FrameStep):
		return fmt.Errorf("frame_step pozitif olmali: %v", l.FrameStep)
	}
	return nil
}

// State zaman çizelgesinin anlık durumudur.
//
// Değişmezler:
//
//	0 <= TrimStart < TrimEnd <= Duration
//	Loop != nil ise TrimStart <= Loop.Start < Loop.End <= TrimEnd
type State struct {
	Duration  float64 `json:"duration"`
	TrimStart float64 `json:"trimStart"`
	TrimEnd   float64 `json:"trimEnd"`
	Loop      *Zone   `json:"loopZone"`
}

// New süresi bilinen bir medya için kırpılmamış ve döngüsüz bir durum üretir.
func New(duration float64) (State, error) {
	if !ValidDuration(duration) {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidDuration, duration)
	}
	return State{Duration: duration, TrimStart: 0, TrimEnd: duration}, nil
}

// ValidDuration sürenin sonlu ve pozitif olup olmadığını söyler.
func ValidDuration(d float64) bool {
	return positive(d)
}

// HasLoop döngü bölgesi tanımlı mı
func (s State) HasLoop() bool {
	return s.Loop != nil
}

// TrimLength kırpılmış parçanın uzunluğu
func (s State) TrimLength() float64 {
	return s.TrimEnd - s.TrimStart
}

// withLoop döngüyü kopyalayarak atar; State değerleri aynı Zone'u paylaşmaz.
func (s State) withLoop(z *Zone) State {
	if z == nil {
		s.Loop = nil
		return s
	}
	cp := *z
	s.Loop = &cp
	return s
}

// Equal iki durumu karşılaştırır.
func (s State) Equal(o State) bool {
	if s.Duration != o.Duration || s.TrimStart != o.TrimStart || s.TrimEnd != o.TrimEnd {
		return false
	}
	if s.Loop == nil || o.Loop == nil {
		return s.Loop == nil && o.Loop == nil
	}
	return *s.Loop == *o.Loop
}

// Check değişmezleri doğrular. Geçişler değişmezleri korur; Check dışarıdan
// gelen veya testlerde üretilen durumlar içindir.
func (s State) Check(l Limits) error {
	if !ValidDuration(s.Duration) {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, s.Duration)
	}
	if s.TrimStart < 0 || s.TrimStart >= s.TrimEnd || s.TrimEnd > s.Duration {
		return fmt.Errorf("gecersiz kirpma araligi: %.3f-%.3f (sure %.3f)", s.TrimStart, s.TrimEnd, s.Duration)
	}
	if s.Loop == nil {
		return nil
	}
	z := *s.Loop
	if z.Start < s.TrimStart || z.End > s.TrimEnd || z.Start >= z.End {
		return fmt.Errorf("dongu kirpma araliginin disinda: %s", z)
	}
	if z.Length() < l.MinLoop-1e-9 {
		return fmt.Errorf("dongu cok kisa: %s", z)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
