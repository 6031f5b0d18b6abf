// Package timecode zaman değerlerini okur ve ekranda gösterilecek biçimlere çevirir.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultFPS kare biçimli gösterimde kullanılan kare hızı.
const DefaultFPS = 30

// Parse "90", "1.5", "01:30" veya "00:01:30.5" biçimindeki bir değeri
// saniyeye çevirir. Ondalık ayırıcı olarak virgül de kabul edilir.
func Parse(raw string) (float64, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if value == "" {
		return 0, fmt.Errorf("boş değer")
	}
	if !strings.Contains(value, ":") {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, fmt.Errorf("geçersiz sayı: %s", raw)
		}
		return v, nil
	}

	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("zaman formatı hatalı: %s", raw)
	}
	nums := make([]float64, len(parts))
	for i, part := range parts {
		p := strings.TrimSpace(part)
		v, err := strconv.ParseFloat(p, 64)
		if p == "" || err != nil || v < 0 {
			return 0, fmt.Errorf("zaman formatı hatalı: %s", raw)
		}
		nums[i] = v
	}

	// Son iki alan dakika/saniye sınırına uymalı.
	for _, v := range nums[1:] {
		if v >= 60 {
			return 0, fmt.Errorf("dakika/saniye 60'tan küçük olmalı: %s", raw)
		}
	}
	if len(nums) == 2 {
		return nums[0]*60 + nums[1], nil
	}
	return nums[0]*3600 + nums[1]*60 + nums[2], nil
}

// Human saniyeyi "SS:DD:ss" veya milisaniye varsa "SS:DD:ss.mmm" olarak yazar.
func Human(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	millis := int64(seconds*1000 + 0.5)
	h := millis / 3600000
	m := (millis % 3600000) / 60000
	s := (millis % 60000) / 1000
	ms := millis % 1000
	if ms == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// Frames saniyeyi "dd:ss:kk" (dakika, saniye, kare) biçiminde yazar.
func Frames(seconds float64, fps int) string {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	whole := math.Floor(seconds)
	mins := int64(whole) / 60
	secs := int64(whole) % 60
	frame := int(math.Floor((seconds - whole) * float64(fps)))
	if frame >= fps {
		frame = fps - 1
	}
	return fmt.Sprintf("%02d:%02d:%02d", mins, secs, frame)
}

// FFmpeg ffmpeg argümanı olarak kullanılacak en kısa ondalık gösterimi döner.
func FFmpeg(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}
