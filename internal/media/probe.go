package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Info ffprobe'dan okunan medya bilgileri.
type Info struct {
	Path       string  `json:"path"`
	Duration   float64 `json:"duration"`
	VideoCodec string  `json:"video_codec,omitempty"`
	AudioCodec string  `json:"audio_codec,omitempty"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	FPS        float64 `json:"fps,omitempty"`
}

// HasVideo görüntü akışı var mı
func (i Info) HasVideo() bool {
	return i.VideoCodec != ""
}

// ffprobeResult ffprobe JSON çıktısının ilgili alanları
type ffprobeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width,omitempty"`
		Height     int    `json:"height,omitempty"`
		RFrameRate string `json:"r_frame_rate,omitempty"`
	} `json:"streams"`
}

// Prober ffprobe ile medya bilgisi okur.
type Prober struct {
	// Path boşsa ffprobe sistemde aranır.
	Path string
}

// Probe dosyanın süresini ve akış bilgilerini okur. Süre okunamazsa
// Duration 0 kalır; çağıran bunu geçersiz süre olarak ele alır.
func (p Prober) Probe(ctx context.Context, path string) (Info, error) {
	if _, err := os.Stat(path); err != nil {
		return Info{}, fmt.Errorf("dosya bulunamadı: %w", err)
	}
	bin := p.Path
	if bin == "" {
		found, err := FindFFprobe()
		if err != nil {
			return Info{}, err
		}
		bin = found
	}

	cmd := exec.CommandContext(ctx, bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe hatasi: %w", err)
	}
	return parseProbeOutput(path, out)
}

// Duration yalnızca süreyi döner.
func (p Prober) Duration(ctx context.Context, path string) (float64, error) {
	info, err := p.Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	return info.Duration, nil
}

func parseProbeOutput(path string, out []byte) (Info, error) {
	var result ffprobeResult
	if err := json.Unmarshal(out, &result); err != nil {
		return Info{}, fmt.Errorf("ffprobe ciktisi okunamadi: %w", err)
	}

	info := Info{Path: path}
	if d := strings.TrimSpace(result.Format.Duration); d != "" {
		if v, err := strconv.ParseFloat(d, 64); err == nil {
			info.Duration = v
		}
	}
	for _, s := range result.Streams {
		switch s.CodecType {
		case "video":
			if info.VideoCodec != "" {
				continue
			}
			info.VideoCodec = s.CodecName
			info.Width, info.Height = s.Width, s.Height
			info.FPS = parseFrameRate(s.RFrameRate)
		case "audio":
			if info.AudioCodec == "" {
				info.AudioCodec = s.CodecName
			}
		}
	}
	return info, nil
}

// parseFrameRate "30000/1001" gibi kare oranlarını float'a çevirir
func parseFrameRate(rate string) float64 {
	rate = strings.TrimSpace(rate)
	if rate == "" {
		return 0
	}
	if num, den, ok := strings.Cut(rate, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 == nil && err2 == nil && d != 0 {
			return n / d
		}
		return 0
	}
	if f, err := strconv.ParseFloat(rate, 64); err == nil {
		return f
	}
	return 0
}
