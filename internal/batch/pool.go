package batch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mlihgenel/clipeditor-cli/internal/edit"
)

// Job bir render işini temsil eder: bir düzenleme dosyasındaki kırpmayı
// kaynağa uygular.
type Job struct {
	SidecarPath string
	Source      string
	Payload     edit.Payload
	SkipReason  string
	// LoadErr düzenleme dosyası okunamadıysa doludur; iş denenmeden başarısız sayılır.
	LoadErr error
}

// JobResult bir işin sonucunu tutar
type JobResult struct {
	Job        Job
	Success    bool
	Skipped    bool
	Edited     bool
	Output     string
	Attempts   int
	OutputSize int64
	SkipReason string
	Error      error
	Duration   time.Duration
}

// Renderer tek bir işi uygular.
type Renderer interface {
	Render(ctx context.Context, job Job) (edit.Result, error)
}

// RenderFunc fonksiyonu Renderer olarak kullanır.
type RenderFunc func(ctx context.Context, job Job) (edit.Result, error)

func (f RenderFunc) Render(ctx context.Context, job Job) (edit.Result, error) { return f(ctx, job) }

// Pool worker pool'u yönetir
type Pool struct {
	Workers    int
	RetryMax   int
	RetryDelay time.Duration
	Renderer   Renderer
	Logger     *slog.Logger
	Results    []JobResult
	OnProgress func(completed, total int) // İlerleme callback'i

	mu        sync.Mutex
	processed atomic.Int64
	totalJobs int
}

// NewPool yeni bir worker pool oluşturur
func NewPool(workers int, renderer Renderer) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	// ffmpeg süreçleri ağır; çok fazla worker açmayı engelle
	maxWorkers := runtime.NumCPU() * 2
	if workers > maxWorkers {
		workers = maxWorkers
	}

	return &Pool{
		Workers:    workers,
		RetryDelay: 500 * time.Millisecond,
		Renderer:   renderer,
		Logger:     slog.Default(),
	}
}

// SetRetry retry davranışını ayarlar.
func (p *Pool) SetRetry(max int, delay time.Duration) {
	if max < 0 {
		max = 0
	}
	p.RetryMax = max

	if delay >= 0 {
		p.RetryDelay = delay
	}
}

// Execute verilen işleri paralel olarak çalıştırır. ctx iptal edilirse
// kalan işler başarısız olarak raporlanır.
func (p *Pool) Execute(ctx context.Context, jobs []Job) []JobResult {
	p.totalJobs = len(jobs)
	p.Results = make([]JobResult, 0, len(jobs))
	p.processed.Store(0)

	if len(jobs) == 0 {
		return p.Results
	}

	workers := p.Workers
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers <= 0 {
		workers = 1
	}

	jobChan := make(chan Job, len(jobs))
	resultChan := make(chan JobResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				resultChan <- p.processJob(ctx, job)
			}
		}()
	}

	go func() {
		for _, job := range jobs {
			jobChan <- job
		}
		close(jobChan)
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for result := range resultChan {
		p.mu.Lock()
		p.Results = append(p.Results, result)
		p.mu.Unlock()

		completed := int(p.processed.Add(1))
		if p.OnProgress != nil {
			p.OnProgress(completed, p.totalJobs)
		}
	}

	return p.Results
}

// processJob tek bir render işini gerçekleştirir
func (p *Pool) processJob(ctx context.Context, job Job) JobResult {
	start := time.Now()
	log := p.logger().With(slog.String("source", job.Source))

	if job.SkipReason != "" {
		return JobResult{
			Job:        job,
			Skipped:    true,
			SkipReason: job.SkipReason,
			Duration:   time.Since(start),
		}
	}
	if job.LoadErr != nil {
		return JobResult{Job: job, Error: job.LoadErr, Duration: time.Since(start)}
	}
	if p.Renderer == nil {
		return JobResult{Job: job, Attempts: 1, Error: errors.New("renderer tanimli degil"), Duration: time.Since(start)}
	}

	var lastErr error
	attempts := p.RetryMax + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return JobResult{Job: job, Attempts: attempt - 1, Error: err, Duration: time.Since(start)}
		}

		res, err := p.Renderer.Render(ctx, job)
		if err == nil {
			size := int64(0)
			if info, statErr := os.Stat(res.Asset.URL); statErr == nil {
				size = info.Size()
			}
			log.Info("render tamamlandi", slog.String("output", res.Asset.URL), slog.Int("attempt", attempt))
			return JobResult{
				Job:        job,
				Success:    true,
				Edited:     res.Edited,
				Output:     res.Asset.URL,
				Attempts:   attempt,
				OutputSize: size,
				Duration:   time.Since(start),
			}
		}

		lastErr = err
		log.Warn("render denemesi basarisiz", slog.Int("attempt", attempt), slog.Any("error", err))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			attempts = attempt
			break
		}
		if attempt < attempts && p.RetryDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(p.RetryDelay):
			}
		}
	}

	return JobResult{
		Job:      job,
		Attempts: attempts,
		Error:    lastErr,
		Duration: time.Since(start),
	}
}

func (p *Pool) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// Summary toplu iş sonuçlarını özetler
type Summary struct {
	Total     int
	Succeeded int
	Edited    int
	Skipped   int
	Failed    int
	Duration  time.Duration
	Errors    []JobError
}

// JobError başarısız olan bir işin hata bilgisi
type JobError struct {
	InputFile string
	Error     string
	Attempts  int
}

// GetSummary iş sonuçlarından özet oluşturur
func GetSummary(results []JobResult, totalDuration time.Duration) Summary {
	s := Summary{
		Total:    len(results),
		Duration: totalDuration,
	}

	for _, r := range results {
		switch {
		case r.Success:
			s.Succeeded++
			if r.Edited {
				s.Edited++
			}
		case r.Skipped:
			s.Skipped++
		default:
			s.Failed++
			msg := "bilinmeyen hata"
			if r.Error != nil {
				msg = r.Error.Error()
			}
			s.Errors = append(s.Errors, JobError{
				InputFile: r.Job.Source,
				Error:     msg,
				Attempts:  r.Attempts,
			})
		}
	}

	return s
}
