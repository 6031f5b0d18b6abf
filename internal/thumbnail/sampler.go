// Package thumbnail zaman çizelgesi boyunca eşit aralıklı önizleme kareleri üretir.
//
// Kareler tek tek ve sırayla alınır; kaynak aynı anda yalnızca bir konuma
// sarılabilir. Sampler.Frames yeniden başlatılabilir fakat aynı anda iki kez
// yürütülemez.
package thumbnail

import (
	"context"
	"errors"
	"image"
	"iter"
	"sync"

	"github.com/mlihgenel/clipeditor-cli/internal/timeline"
)

var (
	// ErrAccessDenied kare verisi güvenlik nedeniyle okunamadığında kaynak
	// tarafından döndürülür. Sampler bu hatadan sonra kalıcı olarak kapanır.
	ErrAccessDenied = errors.New("kare verisine erisim engellendi")
	// ErrDisabled kapanmış bir sampler'dan kare istendiğinde döner.
	ErrDisabled = errors.New("onizleme kareleri bu oturum icin kapatildi")
	// ErrBusy önceki dizi bitmeden yeni bir dizi başlatıldığında döner.
	ErrBusy = errors.New("onizleme kareleri zaten uretiliyor")
)

// FrameSource verilen ana konumlanır ve konumlanma tamamlandığında kareyi döner.
type FrameSource interface {
	FrameAt(ctx context.Context, t float64) (image.Image, error)
}

// Options kare sayısı ve boyutu.
type Options struct {
	Count  int
	Width  int
	Height int
}

// DefaultOptions 20 kare, 160x90.
func DefaultOptions() Options {
	return Options{Count: 20, Width: 160, Height: 90}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Count <= 0 {
		o.Count = d.Count
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

// Thumbnail tek bir önizleme karesi.
type Thumbnail struct {
	Index int
	Time  float64
	Image image.Image
}

// Sampler önizleme karelerini üretir.
type Sampler struct {
	src  FrameSource
	opts Options

	mu         sync.Mutex
	disabled   bool
	generation uint64
	running    bool
	runningGen uint64
	cancel     context.CancelFunc
}

// New bir sampler oluşturur.
func New(src FrameSource, opts Options) *Sampler {
	return &Sampler{src: src, opts: opts.normalized()}
}

// Options geçerli ayarlar
func (s *Sampler) Options() Options {
	return s.opts
}

// Disabled sampler kalıcı olarak kapandı mı
func (s *Sampler) Disabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disabled
}

// Reset medya değiştiğinde çağrılır. Devam eden dizi bırakılır ve sonucu
// kullanılmaz. Kapanmış bir sampler kapalı kalır.
func (s *Sampler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Times verilen süre için kare zamanlarını döner: duration/Count * i.
func (s *Sampler) Times(duration float64) []float64 {
	out := make([]float64, s.opts.Count)
	step := duration / float64(s.opts.Count)
	for i := range out {
		out[i] = step * float64(i)
	}
	return out
}

// Frames kareleri sırayla üreten bir dizi döner. Hata ile biten dizide son
// eleman hatayı taşır. Reset çağrılırsa dizi sessizce biter.
func (s *Sampler) Frames(ctx context.Context, duration float64) iter.Seq2[Thumbnail, error] {
	return func(yield func(Thumbnail, error) bool) {
		if !timeline.ValidDuration(duration) {
			yield(Thumbnail{}, timeline.ErrInvalidDuration)
			return
		}
		runCtx, gen, err := s.acquire(ctx)
		if err != nil {
			yield(Thumbnail{}, err)
			return
		}
		defer s.release(gen)

		for i, t := range s.Times(duration) {
			if !s.current(gen) {
				return
			}
			if err := runCtx.Err(); err != nil {
				if s.current(gen) {
					yield(Thumbnail{Index: i, Time: t}, err)
				}
				return
			}
			img, err := s.src.FrameAt(runCtx, t)
			if !s.current(gen) {
				return
			}
			if err != nil {
				if errors.Is(err, ErrAccessDenied) {
					s.disable()
				}
				yield(Thumbnail{Index: i, Time: t}, err)
				return
			}
			thumb := Thumbnail{Index: i, Time: t, Image: Scale(img, s.opts.Width, s.opts.Height)}
			if !yield(thumb, nil) {
				return
			}
		}
	}
}

func (s *Sampler) acquire(ctx context.Context) (context.Context, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return nil, 0, ErrDisabled
	}
	if s.running && s.runningGen == s.generation {
		return nil, 0, ErrBusy
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.running = true
	s.runningGen = s.generation
	s.cancel = cancel
	return runCtx, s.generation, nil
}

func (s *Sampler) release(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runningGen != gen {
		return
	}
	s.running = false
	if s.generation == gen && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Sampler) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation == gen
}

func (s *Sampler) disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled = true
}
