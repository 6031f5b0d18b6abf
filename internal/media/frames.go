package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/mlihgenel/clipeditor-cli/internal/thumbnail"
	"github.com/mlihgenel/clipeditor-cli/internal/timecode"
)

// FrameGrabber ffmpeg ile tek bir kareyi PNG olarak alır ve çözer.
// thumbnail.FrameSource arayüzünü uygular.
type FrameGrabber struct {
	Path       string
	FFmpegPath string
}

// FrameAt t anındaki kareyi döner. Dosya okunamıyorsa hata
// thumbnail.ErrAccessDenied ile sarılır.
func (g FrameGrabber) FrameAt(ctx context.Context, t float64) (image.Image, error) {
	f, err := os.Open(g.Path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %v", thumbnail.ErrAccessDenied, err)
		}
		return nil, err
	}
	f.Close()

	bin := g.FFmpegPath
	if bin == "" {
		if bin, err = FindFFmpeg(); err != nil {
			return nil, err
		}
	}

	args := FrameArgs(g.Path, t)
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "Permission denied") {
			return nil, fmt.Errorf("%w: %s", thumbnail.ErrAccessDenied, msg)
		}
		return nil, fmt.Errorf("kare alinamadi (%s): %w\n%s", timecode.Human(t), err, msg)
	}
	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("kare cozulemedi (%s): %w", timecode.Human(t), err)
	}
	return img, nil
}

// FrameArgs tek kare alma argümanları. -ss girişten önce verilir; hızlı arama.
func FrameArgs(input string, t float64) []string {
	return []string{
		"-loglevel", "error",
		"-ss", timecode.FFmpeg(t),
		"-i", input,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	}
}
