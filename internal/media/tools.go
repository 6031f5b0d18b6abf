// Package media ffmpeg ve ffprobe ile konuşan katmandır: süre okuma,
// kırpma ve önizleme karesi alma.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

var (
	ErrFFmpegMissing  = errors.New("ffmpeg bulunamadi")
	ErrFFprobeMissing = errors.New("ffprobe bulunamadi")
)

// Tool harici bir aracın durumunu temsil eder
type Tool struct {
	Name      string
	Available bool
	Path      string
	Version   string
}

// lookupTool önce çevre değişkenine, sonra PATH'e, en son bilinen yollara bakar.
func lookupTool(name, envKey string) (string, error) {
	if envPath := strings.TrimSpace(os.Getenv(envKey)); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{"/opt/homebrew/bin/" + name, "/usr/local/bin/" + name}
	case "linux":
		candidates = []string{"/usr/bin/" + name, "/usr/local/bin/" + name, "/snap/bin/" + name}
	case "windows":
		candidates = []string{`C:\ffmpeg\bin\` + name + ".exe"}
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%s bulunamadi", name)
}

// FindFFmpeg ffmpeg yolunu döner. FFMPEG_PATH ile geçersiz kılınabilir.
func FindFFmpeg() (string, error) {
	p, err := lookupTool("ffmpeg", "FFMPEG_PATH")
	if err != nil {
		return "", ErrFFmpegMissing
	}
	return p, nil
}

// FindFFprobe ffprobe yolunu döner. FFPROBE_PATH ile geçersiz kılınabilir.
func FindFFprobe() (string, error) {
	p, err := lookupTool("ffprobe", "FFPROBE_PATH")
	if err != nil {
		return "", ErrFFprobeMissing
	}
	return p, nil
}

// IsFFmpegAvailable FFmpeg'in yüklü olup olmadığını kontrol eder
func IsFFmpegAvailable() bool {
	_, err := FindFFmpeg()
	return err == nil
}

// CheckTools ffmpeg ve ffprobe durumunu döner.
func CheckTools(ctx context.Context) []Tool {
	finders := []struct {
		name string
		find func() (string, error)
	}{
		{"FFmpeg", FindFFmpeg},
		{"FFprobe", FindFFprobe},
	}

	tools := make([]Tool, 0, len(finders))
	for _, f := range finders {
		t := Tool{Name: f.name}
		if path, err := f.find(); err == nil {
			t.Available = true
			t.Path = path
			if out, err := exec.CommandContext(ctx, path, "-version").Output(); err == nil {
				t.Version = firstLine(string(out))
			}
		}
		tools = append(tools, t)
	}
	return tools
}

// runFFmpeg komutu çalıştırır; hata durumunda ffmpeg çıktısı hataya eklenir.
func runFFmpeg(ctx context.Context, ffmpegPath string, args []string, prefix string) error {
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", prefix, ctxErr)
		}
		return fmt.Errorf("%s: %w\n%s", prefix, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
