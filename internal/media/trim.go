package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mlihgenel/clipeditor-cli/internal/edit"
	"github.com/mlihgenel/clipeditor-cli/internal/timecode"
)

// Codec modları
const (
	CodecAuto     = "auto"
	CodecCopy     = "copy"
	CodecReencode = "reencode"
)

// NormalizeCodec codec modunu normalize eder; bilinmeyen değerde "".
func NormalizeCodec(codec string) string {
	switch c := strings.ToLower(strings.TrimSpace(codec)); c {
	case "", CodecAuto:
		return CodecAuto
	case CodecCopy, CodecReencode:
		return c
	}
	return ""
}

// Trimmer ffmpeg ile kaynak dosyadan kırpma aralığını çıkarır ve ortaya
// çıkan dosyanın gerçek süresini okur.
type Trimmer struct {
	OutputDir    string
	Suffix       string
	Codec        string
	Quality      int
	OnConflict   string
	MetadataMode string
	Verbose      bool

	FFmpegPath string
	Prober     Prober
}

// Trim edit.Trimmer arayüzünü uygular.
func (t *Trimmer) Trim(ctx context.Context, source string, p edit.Payload) (edit.FinalAsset, error) {
	if err := p.Validate(); err != nil {
		return edit.FinalAsset{}, err
	}
	if _, err := os.Stat(source); err != nil {
		return edit.FinalAsset{}, fmt.Errorf("kaynak dosya bulunamadı: %w", err)
	}
	ffmpeg := t.FFmpegPath
	if ffmpeg == "" {
		found, err := FindFFmpeg()
		if err != nil {
			return edit.FinalAsset{}, err
		}
		ffmpeg = found
	}

	codec := NormalizeCodec(t.Codec)
	if codec == "" {
		return edit.FinalAsset{}, fmt.Errorf("gecersiz codec modu: %s (auto|copy|reencode)", t.Codec)
	}
	if NormalizeMetadataMode(t.MetadataMode) == "" {
		return edit.FinalAsset{}, fmt.Errorf("gecersiz metadata modu: %s", t.MetadataMode)
	}

	suffix := t.Suffix
	if suffix == "" {
		suffix = "_trim"
	}
	if t.OutputDir != "" {
		if err := os.MkdirAll(t.OutputDir, 0755); err != nil {
			return edit.FinalAsset{}, fmt.Errorf("çıktı dizini oluşturulamadı: %w", err)
		}
	}
	output, err := ResolveConflict(OutputPath(source, t.OutputDir, suffix), t.OnConflict)
	if err != nil {
		return edit.FinalAsset{}, err
	}

	args := TrimArgs(source, output, p, codec, t.Quality, t.MetadataMode, t.Verbose)
	if err := runFFmpeg(ctx, ffmpeg, args, "video trim ffmpeg hatasi"); err != nil {
		_ = os.Remove(output)
		return edit.FinalAsset{}, err
	}

	asset := edit.FinalAsset{URL: output}
	// Süre okunamazsa 0 bırakılır; servis tahmini süreye düşer.
	if d, err := t.Prober.Duration(ctx, output); err == nil {
		asset.Duration = d
	}
	return asset, nil
}

// TrimArgs ffmpeg argümanlarını üretir. auto codec kaynak ve hedef aynı
// kapsayıcıdaysa copy, değilse reencode seçer.
func TrimArgs(input, output string, p edit.Payload, codec string, quality int, metadataMode string, verbose bool) []string {
	args := []string{}
	if !verbose {
		args = append(args, "-loglevel", "error")
	}
	args = append(args, "-i", input)
	if p.TrimStart > 0 {
		args = append(args, "-ss", timecode.FFmpeg(p.TrimStart))
	}
	args = append(args, "-to", timecode.FFmpeg(p.TrimEnd))

	target := containerOf(output)
	if NormalizeCodec(codec) == CodecAuto {
		codec = CodecReencode
		if containerOf(input) == target && target != "" {
			codec = CodecCopy
		}
	}
	if codec == CodecCopy {
		args = append(args, "-c", "copy")
	} else {
		args = append(args, reencodeArgs(target, quality)...)
	}

	args = append(args, metadataArgs(metadataMode)...)
	return append(args, "-y", output)
}

func containerOf(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}

func reencodeArgs(target string, quality int) []string {
	crf := crfFor(quality)
	switch target {
	case "webm":
		return []string{
			"-c:v", "libvpx-vp9",
			"-crf", strconv.Itoa(min(crf+6, 40)),
			"-b:v", "0",
			"-c:a", "libopus",
			"-b:a", "128k",
		}
	case "mp4", "m4v", "mov":
		return []string{
			"-c:v", "libx264",
			"-crf", strconv.Itoa(crf),
			"-preset", "medium",
			"-pix_fmt", "yuv420p",
			"-movflags", "+faststart",
			"-c:a", "aac",
			"-b:a", "128k",
		}
	default:
		return []string{
			"-c:v", "libx264",
			"-crf", strconv.Itoa(crf),
			"-preset", "medium",
			"-pix_fmt", "yuv420p",
			"-c:a", "aac",
			"-b:a", "128k",
		}
	}
}

// crfFor 0-100 kalite değerini x264 CRF'ye çevirir. 0 varsayılan demektir.
func crfFor(quality int) int {
	switch {
	case quality <= 0:
		return 23
	case quality <= 25:
		return 30
	case quality <= 50:
		return 27
	case quality <= 75:
		return 24
	}
	return 20
}
