package thumbnail

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// JPEGQuality önizleme karelerinin kodlama kalitesi.
const JPEGQuality = 60

// Scale kareyi verilen boyuta gerer.
func Scale(src image.Image, width, height int) image.Image {
	if src == nil {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// EncodeJPEG kareyi JPEG olarak yazar.
func EncodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
}

// NormalizeFormat kare dosya formatını normalize eder; desteklenmiyorsa boş döner.
func NormalizeFormat(format string) string {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")) {
	case "", "jpg", "jpeg":
		return "jpg"
	case "png":
		return "png"
	case "webp":
		return "webp"
	}
	return ""
}

// Encode kareyi verilen formatta yazar.
func Encode(w io.Writer, img image.Image, format string) error {
	switch NormalizeFormat(format) {
	case "jpg":
		return EncodeJPEG(w, img)
	case "png":
		return png.Encode(w, img)
	case "webp":
		return nativewebp.Encode(w, img, nil)
	}
	return fmt.Errorf("desteklenmeyen kare formati: %s", format)
}

// Average karenin ortalama rengini döner. Terminal şeridinde her kare tek bir
// hücre olarak çizilir.
func Average(img image.Image) color.RGBA {
	if img == nil {
		return color.RGBA{}
	}
	b := img.Bounds()
	var r, g, bl, n uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			r += uint64(cr >> 8)
			g += uint64(cg >> 8)
			bl += uint64(cb >> 8)
			n++
		}
	}
	if n == 0 {
		return color.RGBA{}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n), A: 255}
}
