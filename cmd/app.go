package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/clipeditor-cli/internal/batch"
	"github.com/mlihgenel/clipeditor-cli/internal/config"
	"github.com/mlihgenel/clipeditor-cli/internal/edit"
	"github.com/mlihgenel/clipeditor-cli/internal/logging"
	"github.com/mlihgenel/clipeditor-cli/internal/media"
	"github.com/mlihgenel/clipeditor-cli/internal/profile"
	"github.com/mlihgenel/clipeditor-cli/internal/store"
	"github.com/mlihgenel/clipeditor-cli/internal/timeline"
)

// trimFlags kırpma yapan komutların ortak flag'leri.
type trimFlags struct {
	profile    string
	codec      string
	quality    int
	onConflict string
	preserveMD bool
	stripMD    bool
	suffix     string
	retry      int
	retryDelay time.Duration
}

func (f *trimFlags) register(cmd *cobra.Command, withRetry bool) {
	cmd.Flags().StringVar(&f.profile, "profile", "", "Hazır profil: "+strings.Join(profile.Names(), ", "))
	cmd.Flags().StringVar(&f.codec, "codec", media.CodecAuto, "Codec modu: auto, copy, reencode")
	cmd.Flags().IntVarP(&f.quality, "quality", "q", 0, "Yeniden kodlama kalitesi (1-100)")
	cmd.Flags().StringVar(&f.onConflict, "on-conflict", media.ConflictVersioned, "Çakışma politikası: overwrite, skip, versioned")
	cmd.Flags().BoolVar(&f.preserveMD, "preserve-metadata", false, "Metadata bilgisini korumayı dene")
	cmd.Flags().BoolVar(&f.stripMD, "strip-metadata", false, "Metadata bilgisini temizle")
	cmd.Flags().StringVar(&f.suffix, "suffix", "_edited", "Çıktı dosya adı eki")
	if withRetry {
		cmd.Flags().IntVar(&f.retry, "retry", 0, "Başarısız işler için otomatik tekrar sayısı")
		cmd.Flags().DurationVar(&f.retryDelay, "retry-delay", 500*time.Millisecond, "Retry denemeleri arası bekleme (örn: 500ms, 2s)")
	}
}

// applyDefaults ortam değişkeni ve proje ayarlarını elle verilmemiş flag'lere uygular.
func (f *trimFlags) applyDefaults(cmd *cobra.Command) {
	applyProfileDefault(cmd, "profile", &f.profile)
	applyCodecDefault(cmd, "codec", &f.codec)
	applyQualityDefault(cmd, "quality", &f.quality)
	applyOnConflictDefault(cmd, "on-conflict", &f.onConflict)
	if cmd.Flags().Lookup("retry") != nil {
		applyRetryDefaults(cmd, "retry", &f.retry, "retry-delay", &f.retryDelay)
	}
}

// trimmer flag'lerden bir ffmpeg trimmer kurar; profil açık flag'leri ezmez.
func (f *trimFlags) trimmer(cmd *cobra.Command, pool *batch.Pool) (*media.Trimmer, *profile.Definition, error) {
	metadataMode, err := metadataModeFromFlags(f.preserveMD, f.stripMD)
	if err != nil {
		return nil, nil, err
	}
	codec := media.NormalizeCodec(f.codec)
	if codec == "" {
		return nil, nil, fmt.Errorf("gecersiz codec modu: %s", f.codec)
	}
	conflict := media.NormalizeConflictPolicy(f.onConflict)
	if conflict == "" {
		return nil, nil, fmt.Errorf("gecersiz on-conflict politikasi: %s", f.onConflict)
	}
	if f.quality < 0 || f.quality > 100 {
		return nil, nil, fmt.Errorf("quality 0-100 araliginda olmali")
	}

	tr := &media.Trimmer{
		OutputDir:    outputDir,
		Suffix:       f.suffix,
		Codec:        codec,
		Quality:      f.quality,
		OnConflict:   conflict,
		MetadataMode: metadataMode,
		Verbose:      verbose,
	}
	if pool != nil {
		pool.SetRetry(f.retry, f.retryDelay)
	}

	if f.profile == "" {
		return tr, nil, nil
	}
	p, err := profile.Resolve(f.profile)
	if err != nil {
		return nil, nil, err
	}
	explicit := make(map[string]bool)
	for _, name := range []string{"codec", "quality", "on-conflict", "retry", "retry-delay"} {
		explicit[name] = flagChanged(cmd, name)
	}
	explicit["metadata"] = flagChanged(cmd, "preserve-metadata") || flagChanged(cmd, "strip-metadata")
	p.Apply(tr, pool, explicit)
	return tr, &p, nil
}

func metadataModeFromFlags(preserve bool, strip bool) (string, error) {
	if preserve && strip {
		return "", fmt.Errorf("--preserve-metadata ve --strip-metadata birlikte kullanılamaz")
	}
	if preserve {
		return media.MetadataPreserve, nil
	}
	if strip {
		return media.MetadataStrip, nil
	}
	return media.MetadataAuto, nil
}

// app komutların paylaştığı servisleri tutar.
type app struct {
	logger  *slog.Logger
	limits  timeline.Limits
	store   *store.Store
	prober  media.Prober
	service *edit.Service
}

// newApp limitleri okur, veritabanını açar ve düzenleme servisini kurar.
// withStore false ise kayıt yapılmaz. Çağıran Close etmelidir.
func newApp(tr edit.Trimmer, withStore bool) (*app, error) {
	level := logLevel
	if level == "" && verbose {
		level = "debug"
	}
	logger := logging.Discard()
	if level != "" {
		logger = logging.NewLogger(level)
	}

	limits, err := activeProjectConfig.TimelineLimits()
	if err != nil {
		return nil, err
	}

	a := &app{logger: logger, limits: limits}
	if mt, ok := tr.(*media.Trimmer); ok {
		a.prober = mt.Prober
	}

	var st edit.Store
	if withStore {
		path, err := config.ResolveDBPath(dbPath)
		if err != nil {
			return nil, err
		}
		s, err := store.Open(path, logging.WithComponent(logger, "store"))
		if err != nil {
			return nil, fmt.Errorf("veritabani acilamadi: %w", err)
		}
		a.store = s
		st = s
	}

	a.service = edit.NewService(tr, st, logging.WithComponent(logger, "edit"))
	a.service.Limits = limits
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}
