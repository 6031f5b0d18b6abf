package cmd

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlihgenel/clipeditor-cli/internal/batch"
	"github.com/mlihgenel/clipeditor-cli/internal/edit"
	"github.com/mlihgenel/clipeditor-cli/internal/editor"
	"github.com/mlihgenel/clipeditor-cli/internal/logging"
	"github.com/mlihgenel/clipeditor-cli/internal/thumbnail"
	"github.com/mlihgenel/clipeditor-cli/internal/timeline"
)

type stubTrimmer struct {
	calls  int
	source string
	asset  edit.FinalAsset
}

func (s *stubTrimmer) Trim(ctx context.Context, source string, p edit.Payload) (edit.FinalAsset, error) {
	s.calls++
	s.source = source
	return s.asset, nil
}

type failingTrimmer struct{}

func (failingTrimmer) Trim(ctx context.Context, source string, p edit.Payload) (edit.FinalAsset, error) {
	return edit.FinalAsset{}, errors.New("ffmpeg cikti vermedi")
}

type solidFrames struct{}

func (solidFrames) FrameAt(ctx context.Context, t float64) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	return img, nil
}

func newTestEditModel(t *testing.T, tr edit.Trimmer) editModel {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("video"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	logger := logging.Discard()
	a := &app{
		logger:  logger,
		limits:  timeline.DefaultLimits(),
		service: edit.NewService(tr, nil, logger),
	}
	m := newEditModel(context.Background(), a, path, editModelOptions{
		Sampler: thumbnail.New(solidFrames{}, thumbnail.Options{Count: 4}),
	})
	m.width = 44 // iz genişliği 40
	return m
}

func loaded(t *testing.T, m editModel, duration float64, initial *edit.Payload) (editModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(mediaLoadedMsg{id: m.editor.Source(), duration: duration, initial: initial})
	nm, ok := next.(editModel)
	if !ok {
		t.Fatalf("unexpected model type")
	}
	return nm, cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestEditModelLoadsMediaAndRestoresLoop(t *testing.T) {
	m := newTestEditModel(t, &stubTrimmer{})
	if m.phase != phaseLoading {
		t.Fatalf("expected loading phase before duration is known")
	}

	initial := &edit.Payload{TrimStart: 0, TrimEnd: 10}
	initial.SetLoop(&timeline.Zone{Start: 2, End: 4})
	m, cmd := loaded(t, m, 10, initial)

	if m.phase != phaseEditing || !m.editor.Ready() {
		t.Fatalf("expected editing phase, got %v", m.phase)
	}
	if cmd == nil {
		t.Fatalf("expected thumbnail command")
	}
	s := m.editor.State()
	if s.Loop == nil || s.Loop.Start != 2 || s.Loop.End != 4 {
		t.Fatalf("expected restored loop, got %+v", s.Loop)
	}
}

func TestEditModelIgnoresStaleLoad(t *testing.T) {
	m := newTestEditModel(t, &stubTrimmer{})
	next, cmd := m.Update(mediaLoadedMsg{id: "baska-dosya", duration: 10})
	if cmd != nil {
		t.Fatalf("stale load must not start work")
	}
	if next.(editModel).editor.Ready() {
		t.Fatalf("stale load must not make the editor ready")
	}
}

func TestEditModelInvalidDurationStaysLoading(t *testing.T) {
	m := newTestEditModel(t, &stubTrimmer{})
	m, _ = loaded(t, m, 0, nil)
	if m.phase != phaseLoading || m.editor.Ready() {
		t.Fatalf("invalid duration must keep the editor unready")
	}
	if m.status == "" {
		t.Fatalf("expected an error status")
	}
}

func TestEditModelFramesFillStrip(t *testing.T) {
	m := newTestEditModel(t, &stubTrimmer{})
	m, cmd := loaded(t, m, 8, nil)

	for i := 0; cmd != nil && i < 10; i++ {
		next, c := m.Update(cmd())
		m = next.(editModel)
		cmd = c
	}
	if m.frames != nil {
		t.Fatalf("stream must be released after the last frame")
	}
	for i, c := range m.strip {
		if c != "#FF0000" {
			t.Fatalf("frame %d not painted: %q", i, c)
		}
	}
}

func TestEditModelStaleFrameStreamIsStopped(t *testing.T) {
	m := newTestEditModel(t, &stubTrimmer{})
	m, _ = loaded(t, m, 8, nil)

	stopped := false
	old := &frameStream{stop: func() { stopped = true }}
	next, cmd := m.Update(frameMsg{stream: old, thumb: thumbnail.Thumbnail{Index: 0, Image: image.NewRGBA(image.Rect(0, 0, 1, 1))}})
	if cmd != nil || !stopped {
		t.Fatalf("stale stream must be stopped without further pulls")
	}
	if next.(editModel).strip[0] != "" {
		t.Fatalf("stale frame must not be painted")
	}
}

func TestEditModelKeysTrimAndUndo(t *testing.T) {
	m := newTestEditModel(t, &stubTrimmer{})
	m, _ = loaded(t, m, 10, nil)

	m.editor.Seek(3)
	next, _ := m.Update(runeKey('['))
	m = next.(editModel)
	if got := m.editor.State().TrimStart; got != 3 {
		t.Fatalf("expected trim start 3, got %v", got)
	}

	next, _ = m.Update(runeKey('l'))
	m = next.(editModel)
	if m.editor.State().Loop == nil {
		t.Fatalf("expected a loop after pressing l")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlZ})
	m = next.(editModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlZ})
	m = next.(editModel)
	s := m.editor.State()
	if s.TrimStart != 0 || s.Loop != nil {
		t.Fatalf("expected initial state after two undos, got %+v", s)
	}
}

func TestEditModelMouseDragMovesTrimEnd(t *testing.T) {
	m := newTestEditModel(t, &stubTrimmer{})
	m, _ = loaded(t, m, 10, nil)

	w := m.trackWidth()
	endX := trackLeft + w - 1
	midX := trackLeft + (w-1)/2

	next, _ := m.Update(tea.MouseMsg{X: endX, Y: rowTrim, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(editModel)
	if d := m.editor.ActiveDrag(); d == nil || d.Handle() != editor.HandleTrimEnd {
		t.Fatalf("expected trim end drag")
	}
	if m.editor.Mode() != editor.ModeInteracting {
		t.Fatalf("expected interacting mode during drag")
	}

	next, _ = m.Update(tea.MouseMsg{X: midX, Y: rowTrim, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = next.(editModel)
	next, _ = m.Update(tea.MouseMsg{X: midX, Y: rowTrim, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = next.(editModel)

	if m.editor.ActiveDrag() != nil || m.editor.Mode() != editor.ModeIdle {
		t.Fatalf("drag must end on release")
	}
	if got := m.editor.State().TrimEnd; got < 4.5 || got > 5.5 {
		t.Fatalf("expected trim end near 5, got %v", got)
	}
	if !m.editor.CanUndo() {
		t.Fatalf("released drag must be undoable")
	}
}

func TestEditModelTrimKeysIgnoredDuringDrag(t *testing.T) {
	m := newTestEditModel(t, &stubTrimmer{})
	m, _ = loaded(t, m, 10, nil)

	w := m.trackWidth()
	next, _ := m.Update(tea.MouseMsg{X: trackLeft + (w-1)/2, Y: rowPlayhead, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(editModel)
	if m.editor.Mode() != editor.ModeInteracting {
		t.Fatalf("expected interacting mode during drag")
	}

	for _, r := range []rune{'[', ']', 'l'} {
		next, _ = m.Update(runeKey(r))
		m = next.(editModel)
	}
	if s := m.editor.State(); s.TrimStart != 0 || s.TrimEnd != 10 || s.Loop != nil {
		t.Fatalf("keys must not edit during a drag: %+v", s)
	}
	if m.status != editor.ErrDragActive.Error() {
		t.Fatalf("expected drag status, got %q", m.status)
	}

	next, _ = m.Update(tea.MouseMsg{X: trackLeft + (w-1)/2, Y: rowPlayhead, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = next.(editModel)
	if m.editor.CanUndo() {
		t.Fatalf("history must stay empty after a playhead drag")
	}
}

func TestEditModelLoopRowWithoutLoopIgnored(t *testing.T) {
	m := newTestEditModel(t, &stubTrimmer{})
	m, _ = loaded(t, m, 10, nil)

	next, _ := m.Update(tea.MouseMsg{X: trackLeft + 3, Y: rowLoop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if next.(editModel).editor.ActiveDrag() != nil {
		t.Fatalf("loop row must not start a drag without a loop")
	}
}

func TestEditModelSubmitIdentityTrimQuits(t *testing.T) {
	tr := &stubTrimmer{}
	m := newTestEditModel(t, tr)
	m, _ = loaded(t, m, 10, nil)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(editModel)
	if m.phase != phaseSubmitting || cmd == nil {
		t.Fatalf("expected submitting phase with a command")
	}

	next, quit := m.Update(cmd())
	m = next.(editModel)
	if quit == nil {
		t.Fatalf("expected quit after successful submit")
	}
	if m.result == nil || m.result.Edited {
		t.Fatalf("identity trim must report edited=false, got %+v", m.result)
	}
	if tr.calls != 0 {
		t.Fatalf("identity trim must not call the trimmer")
	}
}

func TestEditModelSubmitTrimUsesFilePath(t *testing.T) {
	tr := &stubTrimmer{asset: edit.FinalAsset{URL: "clip_edited.mp4", Duration: 4}}
	m := newTestEditModel(t, tr)
	m, _ = loaded(t, m, 10, nil)
	if err := m.editor.ApplyTrim(2, 6); err != nil {
		t.Fatalf("ApplyTrim: %v", err)
	}

	_, cmd := m.submit()
	msg, ok := cmd().(submitDoneMsg)
	if !ok || msg.err != nil {
		t.Fatalf("unexpected submit result: %+v", msg)
	}
	if !msg.res.Edited || msg.res.Asset.URL != "clip_edited.mp4" || tr.calls != 1 {
		t.Fatalf("expected trimmed asset, got %+v", msg.res)
	}
	if tr.source != m.path {
		t.Fatalf("trimmer must receive the file path, got %q", tr.source)
	}
}

func TestEditModelReloadOnIdentityChange(t *testing.T) {
	m := newTestEditModel(t, &stubTrimmer{})
	m, _ = loaded(t, m, 10, nil)
	before := m.editor.Source()

	if err := os.WriteFile(m.path, []byte("daha uzun bir video"), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	m, cmd := m.reloadSource()
	if cmd == nil || m.phase != phaseLoading {
		t.Fatalf("expected reload after the file changed")
	}
	if m.editor.Source() == before || m.editor.Ready() {
		t.Fatalf("editor must reset for the new media")
	}
}

func TestPreviewPlayerAdvance(t *testing.T) {
	p := &previewPlayer{}
	p.Seek(1)
	_ = p.Play()
	start := p.last
	if !start.IsZero() {
		t.Fatalf("play must reset the clock")
	}
	now := time.Unix(100, 0)
	p.advance(now)
	if got := p.advance(now.Add(500 * time.Millisecond)); got != 1.5 {
		t.Fatalf("expected 1.5, got %v", got)
	}
}

func TestEditModelSidecarWrittenOnlyAfterSuccessfulSubmit(t *testing.T) {
	m := newTestEditModel(t, failingTrimmer{})
	m.opts.SaveSidecar = true
	m, _ = loaded(t, m, 10, nil)
	if err := m.editor.ApplyTrim(2, 8); err != nil {
		t.Fatalf("ApplyTrim: %v", err)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(editModel)
	next, _ = m.Update(cmd())
	m = next.(editModel)
	if !errors.Is(m.submitErr, edit.ErrTrimFailed) {
		t.Fatalf("expected trim failure, got %v", m.submitErr)
	}
	if _, err := os.Stat(batch.SidecarPath(m.path)); !os.IsNotExist(err) {
		t.Fatalf("sidecar must not be written when the trim fails: %v", err)
	}

	out := filepath.Join(filepath.Dir(m.path), "clip_edited.mp4")
	m.app.service = edit.NewService(&stubTrimmer{asset: edit.FinalAsset{URL: out, Duration: 6}}, nil, logging.Discard())
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(editModel)
	next, _ = m.Update(cmd())
	m = next.(editModel)
	if m.submitErr != nil {
		t.Fatalf("unexpected submit error: %v", m.submitErr)
	}
	if m.sidecarPath != batch.SidecarPath(m.path) {
		t.Fatalf("expected sidecar path, got %q", m.sidecarPath)
	}
	if _, err := os.Stat(m.sidecarPath); err != nil {
		t.Fatalf("sidecar not written: %v", err)
	}
}
