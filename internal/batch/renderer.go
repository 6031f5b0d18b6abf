package batch

import (
	"context"
	"fmt"

	"github.com/mlihgenel/clipeditor-cli/internal/edit"
)

// DurationSource medya süresini okur.
type DurationSource interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// ServiceRenderer düzenlemeyi kaynağın gerçek süresine göre zaman
// çizelgesine yerleştirip servise gönderir.
type ServiceRenderer struct {
	Service *edit.Service
	Probe   DurationSource
}

func (r ServiceRenderer) Render(ctx context.Context, job Job) (edit.Result, error) {
	d, err := r.Probe.Duration(ctx, job.Source)
	if err != nil {
		return edit.Result{}, fmt.Errorf("medya suresi okunamadi: %w", err)
	}
	st, err := edit.StateOf(job.Payload, d, r.Service.Limits)
	if err != nil {
		return edit.Result{}, err
	}
	return r.Service.Submit(ctx, edit.Request{Source: job.Source, State: st})
}
