package edit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/mlihgenel/clipeditor-cli/internal/timeline"
)

var (
	// ErrTrimFailed kırpma servisi başarısız olduğunda döner; asıl hata sarılır.
	ErrTrimFailed = errors.New("kirpma islemi basarisiz")
	// ErrNoAsset kırpma istendi ama servis bir çıktı bildirmedi.
	ErrNoAsset = errors.New("duzenleme istendi fakat duzenlenmis medya uretilmedi")
)

// Trimmer medyayı fiziksel olarak kırpan dış servis.
type Trimmer interface {
	Trim(ctx context.Context, source string, p Payload) (FinalAsset, error)
}

// Record kalıcı düzenleme kaydıdır. Asset, düzenleyicinin medyayı yeniden
// açarken kullandığı anahtardır.
type Record struct {
	ID        string    `json:"id"`
	Asset     string    `json:"asset"`
	Source    string    `json:"source"`
	Duration  float64   `json:"duration"`
	Edited    bool      `json:"edited"`
	Payload   Payload   `json:"edit"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store düzenleme kayıtlarını saklar.
type Store interface {
	Save(ctx context.Context, r *Record) error
}

// Request gönderilecek düzenleme.
type Request struct {
	Source string
	State  timeline.State
}

// Result gönderimin sonucu. Payload kaydedilen (dönüştürülmüş) payload'dır.
type Result struct {
	Edited  bool
	Asset   FinalAsset
	Payload Payload
	Remap   Remap
	Record  *Record
}

// Service düzenlemeyi kırpma servisine iletir, döngüyü yeni zaman
// çizelgesine taşır ve sonucu saklar.
type Service struct {
	Trimmer Trimmer
	Store   Store
	Limits  timeline.Limits
	Logger  *slog.Logger
}

// NewService varsayılan eşiklerle bir servis oluşturur. store nil olabilir.
func NewService(trimmer Trimmer, store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Trimmer: trimmer, Store: store, Limits: timeline.DefaultLimits(), Logger: logger}
}

// Submit düzenlemeyi uygular. Kırpma veya dönüşüm başarısız olursa hiçbir şey
// kaydedilmez ve hata çağırana döner.
func (s *Service) Submit(ctx context.Context, req Request) (Result, error) {
	st := req.State
	p := PayloadOf(st)
	log := s.Logger.With(slog.String("source", req.Source))

	if !IsMeaningfulTrim(p, st.Duration, s.Limits) {
		res := Result{
			Asset:   FinalAsset{URL: req.Source, Duration: st.Duration},
			Payload: p,
			Remap:   Remap{Status: RemapNone},
		}
		if z := p.Loop(); z != nil {
			res.Remap = Remap{Status: RemapOK, Zone: z}
		}
		log.Info("kirpma gerekmiyor, kaynak aynen kullaniliyor")
		rec, err := s.save(ctx, req.Source, res, false)
		res.Record = rec
		return res, err
	}

	if s.Trimmer == nil {
		return Result{}, fmt.Errorf("%w: kirpma servisi tanimli degil", ErrTrimFailed)
	}
	asset, err := s.Trimmer.Trim(ctx, req.Source, p)
	if err != nil {
		log.Error("kirpma basarisiz", slog.Any("error", err))
		return Result{}, fmt.Errorf("%w: %w", ErrTrimFailed, err)
	}
	if asset.URL == "" {
		return Result{}, fmt.Errorf("%w: %w", ErrTrimFailed, ErrNoAsset)
	}
	if !timeline.ValidDuration(asset.Duration) {
		asset.Duration = FallbackDuration(p, st.Duration)
		log.Warn("kirpma servisi sure bildirmedi, tahmini sure kullaniliyor", slog.Float64("duration", asset.Duration))
	}

	remap := RemapLoop(p.TrimStart, p.TrimEnd, st.Loop, asset.Duration, s.Limits)
	persisted := p
	persisted.CutSegments = []Segment{}
	persisted.SetLoop(remap.Zone)

	res := Result{Edited: true, Asset: asset, Payload: persisted, Remap: remap}
	log.Info("kirpma tamamlandi",
		slog.String("asset", asset.URL),
		slog.Float64("duration", asset.Duration),
		slog.String("loop", remap.Status.String()))

	rec, err := s.save(ctx, req.Source, res, true)
	res.Record = rec
	return res, err
}

func (s *Service) save(ctx context.Context, source string, res Result, edited bool) (*Record, error) {
	if s.Store == nil {
		return nil, nil
	}
	rec := &Record{
		Asset:    res.Asset.URL,
		Source:   source,
		Duration: res.Asset.Duration,
		Edited:   edited,
		Payload:  res.Payload,
	}
	if err := s.Store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("duzenleme kaydedilemedi: %w", err)
	}
	return rec, nil
}

// FallbackDuration kırpma servisi süre bildirmediğinde kırpılan aralığın
// uzunluğunu tahmin eder.
func FallbackDuration(p Payload, duration float64) float64 {
	start := math.Max(0, p.TrimStart)
	end := p.TrimEnd
	if timeline.ValidDuration(duration) {
		end = math.Min(end, duration)
	}
	return math.Max(0, end-start)
}

// StateOf dışarıdan gelen payload'ı verilen süreye göre bir zaman çizelgesi
// durumuna çevirir. Sınır dışı değerler sessizce sıkıştırılır.
func StateOf(p Payload, duration float64, l timeline.Limits) (timeline.State, error) {
	s, err := timeline.New(duration)
	if err != nil {
		return timeline.State{}, err
	}
	s = s.ApplyTrim(p.TrimStart, p.TrimEnd, l)
	if z := p.Loop(); z != nil {
		s.Loop = z
		s = timeline.Reconcile(s, l)
	}
	return s, nil
}
