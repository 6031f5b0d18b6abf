package edit

import (
	"math"

	"github.com/mlihgenel/clipeditor-cli/internal/timeline"
)

// RemapStatus döngü dönüşümünün sonucu.
type RemapStatus int

const (
	// RemapNone dönüştürülecek döngü yok.
	RemapNone RemapStatus = iota
	// RemapDiscarded döngü kırpılan parçaya düşmedi veya çok kısa kaldı.
	RemapDiscarded
	// RemapOK döngü yeni zaman çizelgesine taşındı.
	RemapOK
)

func (s RemapStatus) String() string {
	switch s {
	case RemapDiscarded:
		return "discarded"
	case RemapOK:
		return "ok"
	default:
		return "none"
	}
}

// Remap döngünün kırpılmış medyadaki karşılığıdır. Zone yalnızca RemapOK
// durumunda doludur.
type Remap struct {
	Status RemapStatus
	Zone   *timeline.Zone
}

// RemapLoop orijinal zaman çizelgesindeki döngüyü kırpma sonrası zaman
// çizelgesine taşır. finalDuration kırpılmış medyanın gerçek süresidir.
func RemapLoop(trimStart, trimEnd float64, loop *timeline.Zone, finalDuration float64, l timeline.Limits) Remap {
	if loop == nil {
		return Remap{Status: RemapNone}
	}
	start := math.Max(loop.Start, trimStart)
	end := math.Min(loop.End, trimEnd)
	if end <= start {
		return Remap{Status: RemapDiscarded}
	}

	start -= trimStart
	end -= trimStart
	if finalDuration > 0 {
		start = clamp(start, 0, finalDuration)
		end = clamp(end, 0, finalDuration)
	}
	if end-start < l.DiscardLoop {
		return Remap{Status: RemapDiscarded}
	}
	return Remap{Status: RemapOK, Zone: &timeline.Zone{Start: start, End: end}}
}

// IsMeaningfulTrim kırpmanın medyayı gerçekten değiştirip değiştirmediğini
// söyler. Süre bilinmiyorsa yalnızca başlangıca bakılır.
func IsMeaningfulTrim(p Payload, duration float64, l timeline.Limits) bool {
	if p.TrimStart > 0 {
		return true
	}
	return timeline.ValidDuration(duration) && p.TrimEnd < duration-l.Epsilon
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
