package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sync/atomic"
	"testing"

	"golang.org/x/image/webp"
)

type fakeSource struct {
	times    []float64
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	failAt   int
	failErr  error
	onFrame  func(i int)
}

func (f *fakeSource) FrameAt(_ context.Context, t float64) (image.Image, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	if n > f.maxSeen.Load() {
		f.maxSeen.Store(n)
	}
	i := len(f.times)
	f.times = append(f.times, t)
	if f.onFrame != nil {
		f.onFrame(i)
	}
	if f.failErr != nil && i == f.failAt {
		return nil, f.failErr
	}
	img := image.NewRGBA(image.Rect(0, 0, 32, 18))
	for y := 0; y < 18; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img, nil
}

func collect(t *testing.T, s *Sampler, d float64) ([]Thumbnail, error) {
	t.Helper()
	var out []Thumbnail
	for th, err := range s.Frames(context.Background(), d) {
		if err != nil {
			return out, err
		}
		out = append(out, th)
	}
	return out, nil
}

func TestFramesAreSequentialAndEvenlySpaced(t *testing.T) {
	src := &fakeSource{}
	s := New(src, Options{})

	thumbs, err := collect(t, s, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(thumbs) != 20 {
		t.Fatalf("expected 20 thumbnails, got %d", len(thumbs))
	}
	for i, th := range thumbs {
		if th.Index != i || th.Time != float64(i)*2 {
			t.Fatalf("unexpected thumbnail %d: %+v", i, th)
		}
		if b := th.Image.Bounds(); b.Dx() != 160 || b.Dy() != 90 {
			t.Fatalf("unexpected size %v", b)
		}
	}
	if src.maxSeen.Load() != 1 {
		t.Fatalf("expected one seek in flight, saw %d", src.maxSeen.Load())
	}
}

func TestAccessDeniedDisablesPermanently(t *testing.T) {
	src := &fakeSource{failAt: 3, failErr: fmt.Errorf("tainted frame: %w", ErrAccessDenied)}
	s := New(src, Options{Count: 5})

	thumbs, err := collect(t, s, 10)
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if len(thumbs) != 3 || !s.Disabled() {
		t.Fatalf("expected 3 thumbnails and disabled sampler, got %d", len(thumbs))
	}

	s.Reset()
	if _, err := collect(t, s, 10); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled after reset, got %v", err)
	}
}

func TestOtherErrorsDoNotDisable(t *testing.T) {
	src := &fakeSource{failAt: 0, failErr: errors.New("decode failed")}
	s := New(src, Options{Count: 2})
	if _, err := collect(t, s, 10); err == nil {
		t.Fatalf("expected error")
	}
	if s.Disabled() {
		t.Fatalf("ordinary errors must not disable the sampler")
	}
}

func TestFramesIsRestartableButNotReentrant(t *testing.T) {
	src := &fakeSource{}
	s := New(src, Options{Count: 3})

	var inner error
	for _, err := range s.Frames(context.Background(), 9) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, err := range s.Frames(context.Background(), 9) {
			inner = err
			break
		}
		break
	}
	if !errors.Is(inner, ErrBusy) {
		t.Fatalf("expected ErrBusy for re-entrant iteration, got %v", inner)
	}

	thumbs, err := collect(t, s, 9)
	if err != nil || len(thumbs) != 3 {
		t.Fatalf("expected restart to produce 3 thumbnails, got %d (%v)", len(thumbs), err)
	}
}

func TestResetAbandonsRunningSequence(t *testing.T) {
	src := &fakeSource{}
	s := New(src, Options{Count: 10})
	src.onFrame = func(i int) {
		if i == 1 {
			s.Reset()
		}
	}

	thumbs, err := collect(t, s, 10)
	if err != nil {
		t.Fatalf("abandoned sequence must end silently, got %v", err)
	}
	if len(thumbs) != 1 {
		t.Fatalf("expected only the frame before reset, got %d", len(thumbs))
	}

	src.onFrame = nil
	thumbs, err = collect(t, s, 10)
	if err != nil || len(thumbs) != 10 {
		t.Fatalf("expected fresh sequence after reset, got %d (%v)", len(thumbs), err)
	}
}

func TestInvalidDuration(t *testing.T) {
	s := New(&fakeSource{}, Options{})
	if _, err := collect(t, s, 0); err == nil {
		t.Fatalf("expected error for zero duration")
	}
}

func TestEncodeAndAverage(t *testing.T) {
	img, _ := (&fakeSource{}).FrameAt(context.Background(), 0)
	scaled := Scale(img, 160, 90)

	avg := Average(scaled)
	if avg.R < 190 || avg.G < 90 || avg.B < 40 {
		t.Fatalf("unexpected average color: %+v", avg)
	}

	var buf bytes.Buffer
	if err := EncodeJPEG(&buf, scaled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := jpeg.Decode(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Bounds().Dx() != 160 {
		t.Fatalf("unexpected width %d", decoded.Bounds().Dx())
	}
}

func TestEncodeFormats(t *testing.T) {
	img, _ := (&fakeSource{}).FrameAt(context.Background(), 0)
	scaled := Scale(img, 32, 18)

	decoders := map[string]func(*bytes.Buffer) (image.Image, error){
		"png":  func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) },
		"webp": func(b *bytes.Buffer) (image.Image, error) { return webp.Decode(b) },
		"JPEG": func(b *bytes.Buffer) (image.Image, error) { return jpeg.Decode(b) },
	}
	for format, decode := range decoders {
		var buf bytes.Buffer
		if err := Encode(&buf, scaled, format); err != nil {
			t.Fatalf("%s: unexpected error: %v", format, err)
		}
		out, err := decode(&buf)
		if err != nil {
			t.Fatalf("%s: decode failed: %v", format, err)
		}
		if out.Bounds().Dx() != 32 || out.Bounds().Dy() != 18 {
			t.Fatalf("%s: unexpected bounds %v", format, out.Bounds())
		}
	}

	if NormalizeFormat("gif") != "" {
		t.Fatalf("gif must not be supported")
	}
	if err := Encode(&bytes.Buffer{}, scaled, "gif"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
