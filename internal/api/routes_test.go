package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mlihgenel/clipeditor-cli/internal/edit"
	"github.com/mlihgenel/clipeditor-cli/internal/logging"
	"github.com/mlihgenel/clipeditor-cli/internal/store"
)

type fakeTrimmer struct {
	asset edit.FinalAsset
	err   error
	calls int
}

func (f *fakeTrimmer) Trim(ctx context.Context, source string, p edit.Payload) (edit.FinalAsset, error) {
	f.calls++
	return f.asset, f.err
}

type memRecords struct {
	mu   sync.Mutex
	recs map[string]*edit.Record
}

func newMemRecords() *memRecords { return &memRecords{recs: make(map[string]*edit.Record)} }

func (m *memRecords) Save(ctx context.Context, r *edit.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = fmt.Sprintf("id-%d", len(m.recs)+1)
	}
	r.CreatedAt = time.Unix(0, 0).UTC()
	cp := *r
	m.recs[r.Asset] = &cp
	return nil
}

func (m *memRecords) Get(ctx context.Context, asset string) (*edit.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, asset)
	}
	return r, nil
}

func (m *memRecords) List(ctx context.Context, limit int) ([]edit.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []edit.Record
	for _, r := range m.recs {
		out = append(out, *r)
	}
	return out, nil
}

type fixedProbe float64

func (p fixedProbe) Duration(ctx context.Context, path string) (float64, error) {
	return float64(p), nil
}

func testConfig(tr edit.Trimmer, recs *memRecords) ServerConfig {
	logger := logging.Discard()
	return ServerConfig{
		Service:   edit.NewService(tr, recs, logger),
		Records:   recs,
		Probe:     fixedProbe(10),
		Logger:    logger,
		StartTime: time.Now(),
		Version:   "test",
	}
}

func postEdit(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/edits", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubmitIdentityTrim(t *testing.T) {
	tr := &fakeTrimmer{}
	recs := newMemRecords()
	h := NewRouter(testConfig(tr, recs))

	rec := postEdit(t, h, `{"source":"clip.mp4","duration":10,"editData":{"trimStart":0,"trimEnd":10,"cutSegments":[]}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["edited"] != false {
		t.Fatalf("expected edited=false, got %v", resp)
	}
	if _, ok := resp["video"]; ok {
		t.Fatalf("identity trim must not return a video: %v", resp)
	}
	if tr.calls != 0 {
		t.Fatalf("trimmer must not be called for identity trim")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}
}

func TestSubmitTrimRemapsLoop(t *testing.T) {
	tr := &fakeTrimmer{asset: edit.FinalAsset{URL: "clip_edited.mp4", Duration: 6}}
	recs := newMemRecords()
	h := NewRouter(testConfig(tr, recs))

	rec := postEdit(t, h, `{"source":"clip.mp4","editData":{"trimStart":2,"trimEnd":8,"loopZoneStart":3,"loopZoneEnd":5}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp SubmitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Edited || resp.Video == nil || resp.Video.URL != "clip_edited.mp4" || resp.Video.Duration != 6 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	z := resp.Edit.Loop()
	if z == nil || z.Start != 1 || z.End != 3 {
		t.Fatalf("loop must be shifted by trim start, got %v", z)
	}
	if resp.Edit.TrimStart != 2 || resp.Edit.TrimEnd != 8 {
		t.Fatalf("trim must stay on the original timeline: %+v", resp.Edit)
	}

	get := httptest.NewRecorder()
	h.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/edits?asset=clip_edited.mp4", nil))
	if get.Code != http.StatusOK {
		t.Fatalf("expected stored record, got %d", get.Code)
	}
	var stored RecordResponse
	_ = json.Unmarshal(get.Body.Bytes(), &stored)
	if stored.Source != "clip.mp4" || !stored.Edited || stored.ID != resp.ID {
		t.Fatalf("unexpected stored record: %+v", stored)
	}
}

func TestSubmitTrimFailure(t *testing.T) {
	tr := &fakeTrimmer{err: errors.New("ffmpeg exited 1")}
	recs := newMemRecords()
	h := NewRouter(testConfig(tr, recs))

	rec := postEdit(t, h, `{"source":"clip.mp4","duration":10,"editData":{"trimStart":1,"trimEnd":4}}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != "TRIM_FAILED" {
		t.Fatalf("unexpected error code: %+v", resp)
	}
	if len(recs.recs) != 0 {
		t.Fatalf("nothing must be persisted on failure")
	}
}

func TestSubmitBadRequests(t *testing.T) {
	h := NewRouter(testConfig(&fakeTrimmer{}, newMemRecords()))

	cases := []string{
		`not json`,
		`{"editData":{"trimStart":0,"trimEnd":1}}`,
		`{"source":"clip.mp4"}`,
		`{"source":"clip.mp4","editData":{"trimStart":3,"trimEnd":1}}`,
		`{"source":"clip.mp4","editData":{"trimStart":0,"trimEnd":1,"loopZoneStart":0.5}}`,
	}
	for _, body := range cases {
		if rec := postEdit(t, h, body); rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, rec.Code)
		}
	}
}

func TestGetEditsNotFoundAndList(t *testing.T) {
	recs := newMemRecords()
	_ = recs.Save(context.Background(), &edit.Record{Asset: "a.mp4", Source: "a.mp4"})
	h := NewRouter(testConfig(&fakeTrimmer{}, recs))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/edits?asset=missing.mp4", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/edits", nil))
	var list RecordsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list.Edits) != 1 {
		t.Fatalf("expected one record, got %+v (%v)", list, err)
	}
}

func TestHealthAndRecovery(t *testing.T) {
	cfg := testConfig(&fakeTrimmer{}, newMemRecords())
	h := NewRouter(cfg)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var health HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil || health.Status != "ok" || health.Version != "test" {
		t.Fatalf("unexpected health response: %+v (%v)", health, err)
	}

	panicking := RecoveryMiddleware(cfg.Logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec = httptest.NewRecorder()
	panicking.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
}
