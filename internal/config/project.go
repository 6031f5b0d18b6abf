package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/mlihgenel/clipeditor-cli/internal/thumbnail"
	"github.com/mlihgenel/clipeditor-cli/internal/timeline"
)

const projectConfigFileName = ".clipeditor.toml"

// Duration TOML'da "1s", "500ms" gibi yazılan süre.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("gecersiz sure degeri: %s", b)
	}
	*d = Duration(v)
	return nil
}

// LimitsConfig [limits] tablosu. Verilmeyen alanlar varsayılanı korur.
type LimitsConfig struct {
	MinGap      *float64 `toml:"min_gap"`
	MinLoop     *float64 `toml:"min_loop"`
	DiscardLoop *float64 `toml:"discard_loop"`
	DefaultLoop *float64 `toml:"default_loop"`
	Epsilon     *float64 `toml:"epsilon"`
	FrameStep   *float64 `toml:"frame_step"`
}

// ThumbnailConfig [thumbnails] tablosu.
type ThumbnailConfig struct {
	Count  int `toml:"count"`
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// ProjectConfig proje bazlı CLI varsayılanlarını tutar.
type ProjectConfig struct {
	DefaultOutput string          `toml:"default_output"`
	Workers       int             `toml:"workers"`
	Quality       int             `toml:"quality"`
	Codec         string          `toml:"codec"`
	OnConflict    string          `toml:"on_conflict"`
	Retry         int             `toml:"retry"`
	RetryDelay    Duration        `toml:"retry_delay"`
	ReportFormat  string          `toml:"report_format"`
	Profile       string          `toml:"profile"`
	Limits        LimitsConfig    `toml:"limits"`
	Thumbnails    ThumbnailConfig `toml:"thumbnails"`
}

// LoadProjectConfig currentDir'den yukarı doğru .clipeditor.toml arar.
// Dosya yoksa (nil, "", nil) döner.
func LoadProjectConfig(currentDir string) (*ProjectConfig, string, error) {
	path, err := findProjectConfigPath(currentDir)
	if err != nil || path == "" {
		return nil, "", err
	}
	cfg, err := parseProjectConfig(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func findProjectConfigPath(startDir string) (string, error) {
	if strings.TrimSpace(startDir) == "" {
		return "", errors.New("gecersiz calisma dizini")
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, projectConfigFileName)
		info, statErr := os.Stat(candidate)
		if statErr == nil && !info.IsDir() {
			return candidate, nil
		}
		if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
			return "", statErr
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func parseProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &ProjectConfig{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%s:%d:%d %s", path, row, col, derr.Error())
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.OnConflict = strings.ToLower(strings.TrimSpace(cfg.OnConflict))
	cfg.ReportFormat = strings.ToLower(strings.TrimSpace(cfg.ReportFormat))
	cfg.Codec = strings.ToLower(strings.TrimSpace(cfg.Codec))

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *ProjectConfig) validate() error {
	switch {
	case c.Workers < 0:
		return fmt.Errorf("workers 0 veya daha buyuk olmali")
	case c.Quality < 0 || c.Quality > 100:
		return fmt.Errorf("quality 0-100 araliginda olmali")
	case c.Retry < 0:
		return fmt.Errorf("retry 0 veya daha buyuk olmali")
	case c.RetryDelay < 0:
		return fmt.Errorf("retry_delay negatif olamaz")
	case c.Thumbnails.Count < 0 || c.Thumbnails.Width < 0 || c.Thumbnails.Height < 0:
		return fmt.Errorf("thumbnails degerleri negatif olamaz")
	}
	_, err := c.TimelineLimits()
	return err
}

// TimelineLimits [limits] tablosunu varsayılanların üzerine uygular.
func (c *ProjectConfig) TimelineLimits() (timeline.Limits, error) {
	l := timeline.DefaultLimits()
	if c == nil {
		return l, nil
	}
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&l.MinGap, c.Limits.MinGap)
	set(&l.MinLoop, c.Limits.MinLoop)
	set(&l.DiscardLoop, c.Limits.DiscardLoop)
	set(&l.DefaultLoop, c.Limits.DefaultLoop)
	set(&l.Epsilon, c.Limits.Epsilon)
	set(&l.FrameStep, c.Limits.FrameStep)
	if err := l.Validate(); err != nil {
		return timeline.Limits{}, fmt.Errorf("[limits] %w", err)
	}
	return l, nil
}

// ThumbnailOptions [thumbnails] tablosunu sampler ayarlarına çevirir.
func (c *ProjectConfig) ThumbnailOptions() thumbnail.Options {
	if c == nil {
		return thumbnail.DefaultOptions()
	}
	return thumbnail.Options{Count: c.Thumbnails.Count, Width: c.Thumbnails.Width, Height: c.Thumbnails.Height}
}
