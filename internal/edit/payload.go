// Package edit düzenleme sonucunu dış dünyaya taşır: kalıcı edit payload,
// kırpma sonrası döngü dönüşümü ve kırpma servisine gönderim.
package edit

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/mlihgenel/clipeditor-cli/internal/timeline"
)

// Segment ileride çoklu kesim için ayrılmış aralıktır. Şimdilik hep boştur.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Payload orijinal zaman çizelgesine göre yazılmış düzenlemedir. Kırpma
// sonrası kaydedilirken döngü alanları yeni zaman çizelgesine taşınmış olur.
type Payload struct {
	TrimStart     float64   `json:"trimStart"`
	TrimEnd       float64   `json:"trimEnd"`
	CutSegments   []Segment `json:"cutSegments"`
	LoopZoneStart *float64  `json:"loopZoneStart,omitempty"`
	LoopZoneEnd   *float64  `json:"loopZoneEnd,omitempty"`
}

// FinalAsset kırpma servisinin ürettiği medyadır. Duration belirleyicidir.
type FinalAsset struct {
	URL      string  `json:"url"`
	Duration float64 `json:"duration"`
}

// PayloadOf zaman çizelgesi durumundan payload üretir.
func PayloadOf(s timeline.State) Payload {
	p := Payload{TrimStart: s.TrimStart, TrimEnd: s.TrimEnd, CutSegments: []Segment{}}
	if s.Loop != nil {
		p.SetLoop(s.Loop)
	}
	return p
}

// Loop payload'daki döngüyü döner; iki uç da yoksa nil.
func (p Payload) Loop() *timeline.Zone {
	if p.LoopZoneStart == nil || p.LoopZoneEnd == nil {
		return nil
	}
	return &timeline.Zone{Start: *p.LoopZoneStart, End: *p.LoopZoneEnd}
}

// SetLoop döngü alanlarını atar; nil döngü alanları temizler.
func (p *Payload) SetLoop(z *timeline.Zone) {
	if z == nil {
		p.LoopZoneStart, p.LoopZoneEnd = nil, nil
		return
	}
	start, end := z.Start, z.End
	p.LoopZoneStart, p.LoopZoneEnd = &start, &end
}

// Validate dışarıdan gelen payload'ın kaba kontrolü.
func (p Payload) Validate() error {
	if !finite(p.TrimStart) || !finite(p.TrimEnd) {
		return fmt.Errorf("trimStart/trimEnd sayi olmali")
	}
	if p.TrimStart < 0 || p.TrimEnd <= p.TrimStart {
		return fmt.Errorf("gecersiz kirpma araligi: %v-%v", p.TrimStart, p.TrimEnd)
	}
	if (p.LoopZoneStart == nil) != (p.LoopZoneEnd == nil) {
		return fmt.Errorf("loopZoneStart ve loopZoneEnd birlikte verilmeli")
	}
	if z := p.Loop(); z != nil && (!finite(z.Start) || !finite(z.End)) {
		return fmt.Errorf("dongu sinirlari sayi olmali")
	}
	return nil
}

// MarshalJSON cutSegments alanını her zaman dizi olarak yazar.
func (p Payload) MarshalJSON() ([]byte, error) {
	type plain Payload
	if p.CutSegments == nil {
		p.CutSegments = []Segment{}
	}
	return json.Marshal(plain(p))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
