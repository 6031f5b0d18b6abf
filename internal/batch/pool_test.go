package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/mlihgenel/clipeditor-cli/internal/edit"
	"github.com/mlihgenel/clipeditor-cli/internal/logging"
)

type flakyRenderer struct {
	failBefore int32
	attempts   atomic.Int32
	output     string
}

func (f *flakyRenderer) Render(ctx context.Context, job Job) (edit.Result, error) {
	n := f.attempts.Add(1)
	if n <= f.failBefore {
		return edit.Result{}, errors.New("forced failure")
	}
	if err := os.WriteFile(f.output, []byte("ok"), 0644); err != nil {
		return edit.Result{}, err
	}
	return edit.Result{Edited: true, Asset: edit.FinalAsset{URL: f.output, Duration: 2}}, nil
}

func TestPoolRetryEventuallySucceeds(t *testing.T) {
	dir := t.TempDir()
	fr := &flakyRenderer{failBefore: 2, output: filepath.Join(dir, "out.mp4")}

	pool := NewPool(1, fr)
	pool.Logger = logging.Discard()
	pool.SetRetry(2, 0)
	results := pool.Execute(context.Background(), []Job{{Source: filepath.Join(dir, "in.mp4")}})
	if len(results) != 1 {
		t.Fatalf("unexpected result count: %d", len(results))
	}

	r := results[0]
	if !r.Success || !r.Edited {
		t.Fatalf("expected edited success, got error: %v", r.Error)
	}
	if r.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", r.Attempts)
	}
	if r.OutputSize == 0 || r.Output != fr.output {
		t.Fatalf("expected output to be set: %+v", r)
	}
}

func TestPoolRetryExhausted(t *testing.T) {
	fr := &flakyRenderer{failBefore: 10}
	pool := NewPool(1, fr)
	pool.Logger = logging.Discard()
	pool.SetRetry(1, 0)

	results := pool.Execute(context.Background(), []Job{{Source: "a.mp4"}})
	if results[0].Success || results[0].Attempts != 2 {
		t.Fatalf("expected failure after 2 attempts: %+v", results[0])
	}
	summary := GetSummary(results, 0)
	if summary.Failed != 1 || len(summary.Errors) != 1 || summary.Errors[0].InputFile != "a.mp4" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestPoolSkippedAndLoadErrorJobs(t *testing.T) {
	var called atomic.Int32
	pool := NewPool(2, RenderFunc(func(ctx context.Context, job Job) (edit.Result, error) {
		called.Add(1)
		return edit.Result{}, nil
	}))
	pool.Logger = logging.Discard()

	results := pool.Execute(context.Background(), []Job{
		{Source: "a", SkipReason: "source_missing"},
		{Source: "b", LoadErr: errors.New("bozuk")},
	})
	if len(results) != 2 {
		t.Fatalf("unexpected result count: %d", len(results))
	}
	if called.Load() != 0 {
		t.Fatalf("renderer must not run for skipped or broken jobs")
	}

	summary := GetSummary(results, 0)
	if summary.Skipped != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestPoolCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fr := &flakyRenderer{}
	pool := NewPool(1, fr)
	pool.Logger = logging.Discard()
	results := pool.Execute(ctx, []Job{{Source: "a.mp4"}})
	if results[0].Success || !errors.Is(results[0].Error, context.Canceled) {
		t.Fatalf("expected cancellation error: %+v", results[0])
	}
	if fr.attempts.Load() != 0 {
		t.Fatalf("renderer must not be called after cancellation")
	}
}

func TestPoolProgressCallback(t *testing.T) {
	pool := NewPool(3, RenderFunc(func(ctx context.Context, job Job) (edit.Result, error) {
		return edit.Result{Asset: edit.FinalAsset{URL: job.Source}}, nil
	}))
	pool.Logger = logging.Discard()

	var last int
	pool.OnProgress = func(completed, total int) {
		if total != 4 {
			t.Errorf("unexpected total: %d", total)
		}
		last = completed
	}
	pool.Execute(context.Background(), []Job{{Source: "1"}, {Source: "2"}, {Source: "3"}, {Source: "4"}})
	if last != 4 {
		t.Fatalf("expected progress to reach 4, got %d", last)
	}
}
