package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mlihgenel/clipeditor-cli/internal/edit"
	"github.com/mlihgenel/clipeditor-cli/internal/timeline"
)

func TestSaveAndLoadSidecar(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(source, []byte("video"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	p := edit.Payload{TrimStart: 1, TrimEnd: 4}
	p.SetLoop(&timeline.Zone{Start: 2, End: 3})
	path, err := SaveSidecar(source, p)
	if err != nil {
		t.Fatalf("SaveSidecar failed: %v", err)
	}
	if path != source+SidecarSuffix {
		t.Fatalf("unexpected sidecar path: %s", path)
	}

	job := LoadSidecar(path)
	if job.LoadErr != nil || job.SkipReason != "" {
		t.Fatalf("unexpected job state: %+v", job)
	}
	if job.Source != source || job.Payload.TrimEnd != 4 {
		t.Fatalf("unexpected job: %+v", job)
	}
	if z := job.Payload.Loop(); z == nil || z.Start != 2 || z.End != 3 {
		t.Fatalf("loop must round trip, got %v", z)
	}
}

func TestLoadSidecarMissingSourceAndBrokenFile(t *testing.T) {
	dir := t.TempDir()
	orphan := filepath.Join(dir, "gone.mp4"+SidecarSuffix)
	if err := os.WriteFile(orphan, []byte(`{"trimStart":0,"trimEnd":2,"cutSegments":[]}`), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if job := LoadSidecar(orphan); job.SkipReason != "source_missing" {
		t.Fatalf("expected source_missing, got %+v", job)
	}

	broken := filepath.Join(dir, "bad.mp4"+SidecarSuffix)
	if err := os.WriteFile(broken, []byte(`{"trimStart":3,"trimEnd":1}`), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if job := LoadSidecar(broken); job.LoadErr == nil {
		t.Fatalf("expected load error for inverted range")
	}
}

func TestCollectJobsRecursive(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	for _, p := range []string{
		filepath.Join(dir, "a.mp4"+SidecarSuffix),
		filepath.Join(nested, "b.mp4"+SidecarSuffix),
		filepath.Join(dir, "notes.json"),
	} {
		if err := os.WriteFile(p, []byte(`{"trimStart":0,"trimEnd":1}`), 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	flat, err := CollectJobs(dir, false)
	if err != nil || len(flat) != 1 {
		t.Fatalf("expected 1 job, got %d (%v)", len(flat), err)
	}
	all, _ := CollectJobs(dir, true)
	if len(all) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(all))
	}
	globbed, _ := CollectJobsFromGlob(filepath.Join(dir, "*.json"))
	if len(globbed) != 1 {
		t.Fatalf("glob must keep only sidecars, got %d", len(globbed))
	}
}

type fixedDuration float64

func (d fixedDuration) Duration(ctx context.Context, path string) (float64, error) {
	return float64(d), nil
}

type recordingTrimmer struct {
	got edit.Payload
}

func (r *recordingTrimmer) Trim(ctx context.Context, source string, p edit.Payload) (edit.FinalAsset, error) {
	r.got = p
	return edit.FinalAsset{URL: source + ".out", Duration: p.TrimEnd - p.TrimStart}, nil
}

func TestServiceRendererClampsToProbedDuration(t *testing.T) {
	tr := &recordingTrimmer{}
	svc := edit.NewService(tr, nil, nil)
	r := ServiceRenderer{Service: svc, Probe: fixedDuration(5)}

	res, err := r.Render(context.Background(), Job{Source: "clip.mp4", Payload: edit.Payload{TrimStart: 1, TrimEnd: 9}})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !res.Edited || tr.got.TrimEnd != 5 {
		t.Fatalf("trim end must be clamped to the probed duration, got %+v", tr.got)
	}
	if res.Asset.Duration != 4 {
		t.Fatalf("unexpected final duration: %v", res.Asset.Duration)
	}
}
