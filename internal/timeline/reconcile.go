package timeline

import "math"

// Reconcile döngü bölgesini mevcut kırpma aralığına uydurur ve yeni bir durum
// döner. Saf bir fonksiyondur; kırpmayı değiştiren her geçişten sonra çağrılır.
//
//  1. Döngü kırpma aralığının tamamen dışındaysa atılır.
//  2. Başlangıç [TrimStart, TrimEnd-MinLoop], bitiş [TrimStart+MinLoop, TrimEnd]
//     aralığına sıkıştırılır.
//  3. Uzunluk MinLoop'un altında kaldıysa boşluğu olan taraf genişletilir;
//     yine de DiscardLoop'un altındaysa döngü atılır.
func Reconcile(s State, l Limits) State {
	if s.Loop == nil {
		return s
	}
	z := *s.Loop
	if z.Start >= s.TrimEnd || z.End <= s.TrimStart {
		return s.withLoop(nil)
	}

	start := clamp(z.Start, s.TrimStart, math.Max(s.TrimStart, s.TrimEnd-l.MinLoop))
	end := clamp(z.End, math.Min(s.TrimEnd, s.TrimStart+l.MinLoop), s.TrimEnd)

	if end-start < l.MinLoop {
		if start > s.TrimStart {
			start = math.Max(s.TrimStart, end-l.MinLoop)
		} else if end < s.TrimEnd {
			end = math.Min(s.TrimEnd, start+l.MinLoop)
		}
		if end-start < l.DiscardLoop {
			return s.withLoop(nil)
		}
	}
	if start == z.Start && end == z.End {
		return s
	}
	return s.withLoop(&Zone{Start: start, End: end})
}
