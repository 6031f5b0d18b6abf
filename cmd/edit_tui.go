package cmd

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"iter"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mlihgenel/clipeditor-cli/internal/batch"
	"github.com/mlihgenel/clipeditor-cli/internal/edit"
	"github.com/mlihgenel/clipeditor-cli/internal/editor"
	"github.com/mlihgenel/clipeditor-cli/internal/thumbnail"
	"github.com/mlihgenel/clipeditor-cli/internal/timecode"
	"github.com/mlihgenel/clipeditor-cli/internal/watch"
)

type editPhase int

const (
	phaseLoading editPhase = iota
	phaseEditing
	phaseSubmitting
)

// Ekran düzeni. Fare olayları bu satırlara göre eşlenir.
const (
	trackLeft   = 2
	rowPlayhead = 2
	rowStrip    = 3
	rowTrim     = 4
	rowLoop     = 5

	minTrackWidth = 20
	tickEvery     = 100 * time.Millisecond
	pollEvery     = time.Second
	settleFor     = 500 * time.Millisecond
)

type editModelOptions struct {
	Sampler     *thumbnail.Sampler
	SaveSidecar bool
	Watch       bool
}

type (
	editTickMsg time.Time

	mediaLoadedMsg struct {
		id       string
		duration float64
		initial  *edit.Payload
		err      error
	}

	frameMsg struct {
		stream *frameStream
		thumb  thumbnail.Thumbnail
		err    error
		done   bool
	}

	submitDoneMsg struct {
		res     edit.Result
		sidecar string
		err     error
	}
)

// frameStream sampler dizisinin çekme ucu. Aynı anda tek bir next çağrısı
// yapılır; her kare ayrı bir komutla istenir.
type frameStream struct {
	next func() (thumbnail.Thumbnail, error, bool)
	stop func()
}

func (s *frameStream) pull() tea.Cmd {
	return func() tea.Msg {
		th, err, ok := s.next()
		return frameMsg{stream: s, thumb: th, err: err, done: !ok}
	}
}

// previewPlayer terminalde görüntü çizmeden konumu saat ile ilerletir.
type previewPlayer struct {
	pos     float64
	playing bool
	last    time.Time
}

func (p *previewPlayer) Seek(t float64) { p.pos = t }

func (p *previewPlayer) Play() error {
	p.playing = true
	p.last = time.Time{}
	return nil
}

func (p *previewPlayer) Pause() { p.playing = false }

func (p *previewPlayer) advance(now time.Time) float64 {
	if !p.last.IsZero() {
		p.pos += now.Sub(p.last).Seconds()
	}
	p.last = now
	return p.pos
}

type editModel struct {
	ctx  context.Context
	app  *app
	path string
	opts editModelOptions

	editor   *editor.Editor
	player   *previewPlayer
	sampler  *thumbnail.Sampler
	frames   *frameStream
	strip    []lipgloss.Color
	watcher  watch.Engine
	lastPoll time.Time

	keys  editKeyMap
	help  help.Model
	width int

	phase       editPhase
	status      string
	result      *edit.Result
	submitErr   error
	sidecarPath string
}

func newEditModel(ctx context.Context, a *app, path string, opts editModelOptions) editModel {
	player := &previewPlayer{}
	m := editModel{
		ctx:     ctx,
		app:     a,
		path:    path,
		opts:    opts,
		editor:  editor.New(player, a.limits),
		player:  player,
		sampler: opts.Sampler,
		keys:    newEditKeyMap(),
		help:    help.New(),
		width:   80,
	}
	if opts.Watch {
		w := watch.NewAdaptiveWatcher(path, nil, false, settleFor)
		if err := w.Bootstrap(); err != nil {
			a.logger.Warn("dosya izleme baslatilamadi", "path", path, "error", err)
			_ = w.Close()
		} else {
			m.watcher = w
		}
	}
	m.editor.SetSource(identityOf(path))
	return m
}

// identityOf dosyanın yol, boyut ve değişiklik zamanından kimlik üretir;
// aynı yolda yeniden yazılan dosya farklı medya sayılır.
func identityOf(path string) string {
	fp, err := watch.Identity(path)
	if err != nil {
		return path
	}
	return fp.String()
}

func editTick() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg { return editTickMsg(t) })
}

func (m editModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(m.editor.Source()), editTick())
}

// loadCmd süreyi ve kayıtlı düzenlemeyi okur.
func (m editModel) loadCmd(id string) tea.Cmd {
	ctx, a, path := m.ctx, m.app, m.path
	return func() tea.Msg {
		d, err := a.prober.Duration(ctx, path)
		if err != nil {
			return mediaLoadedMsg{id: id, err: err}
		}
		var initial *edit.Payload
		if a.store != nil {
			initial, err = a.store.InitialEdit(ctx, path)
			if err != nil {
				a.logger.Warn("kayitli duzenleme okunamadi", "path", path, "error", err)
				initial = nil
			}
		}
		return mediaLoadedMsg{id: id, duration: d, initial: initial}
	}
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case mediaLoadedMsg:
		return m.onLoaded(msg)

	case frameMsg:
		return m.onFrame(msg)

	case editTickMsg:
		return m.onTick(time.Time(msg))

	case submitDoneMsg:
		m.phase = phaseEditing
		if msg.sidecar != "" {
			m.sidecarPath = msg.sidecar
		}
		if msg.err != nil {
			m.submitErr = msg.err
			m.status = msg.err.Error()
			return m, nil
		}
		m.submitErr = nil
		res := msg.res
		m.result = &res
		return m, tea.Quit

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m editModel) onLoaded(msg mediaLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.editor.Source() {
		return m, nil
	}
	if msg.err == nil {
		msg.err = m.editor.Load(msg.duration, msg.initial)
	}
	if msg.err != nil {
		m.phase = phaseLoading
		m.status = fmt.Sprintf("Medya süresi okunamadı: %v", msg.err)
		return m, nil
	}
	m.phase = phaseEditing
	m.status = ""
	if msg.initial != nil {
		m.status = "Önceki düzenleme geri yüklendi"
	}
	return m, m.startFrames(msg.duration)
}

func (m *editModel) startFrames(duration float64) tea.Cmd {
	if m.sampler == nil || m.sampler.Disabled() {
		return nil
	}
	m.strip = make([]lipgloss.Color, m.sampler.Options().Count)
	next, stop := iter.Pull2(m.sampler.Frames(m.ctx, duration))
	m.frames = &frameStream{next: next, stop: stop}
	return m.frames.pull()
}

func (m editModel) onFrame(msg frameMsg) (tea.Model, tea.Cmd) {
	if msg.stream != m.frames {
		msg.stream.stop()
		return m, nil
	}
	if msg.done || msg.err != nil {
		msg.stream.stop()
		m.frames = nil
		switch {
		case errors.Is(msg.err, thumbnail.ErrAccessDenied), errors.Is(msg.err, thumbnail.ErrDisabled):
			m.status = "Önizleme kareleri kapatıldı: dosyaya erişilemiyor"
		case msg.err != nil:
			m.status = fmt.Sprintf("Önizleme karesi alınamadı: %v", msg.err)
		}
		return m, nil
	}
	if i := msg.thumb.Index; i >= 0 && i < len(m.strip) && msg.thumb.Image != nil {
		m.strip[i] = hexColor(thumbnail.Average(msg.thumb.Image))
	}
	return m, msg.stream.pull()
}

func (m editModel) onTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.editor.Playing() && m.player.playing {
		pos := m.player.advance(now)
		d := m.editor.State().Duration
		m.editor.OnTimeUpdate(math.Min(pos, d))
		if pos >= d && m.editor.Playing() {
			m.player.Pause()
			m.editor.OnEnded()
		}
	}

	if m.watcher != nil && now.Sub(m.lastPoll) >= pollEvery {
		m.lastPoll = now
		changed, err := m.watcher.Poll(now)
		if err != nil {
			m.app.logger.Debug("dosya izleme hatasi", "error", err)
		}
		if len(changed) > 0 {
			next, cmd := m.reloadSource()
			return next, tea.Batch(cmd, editTick())
		}
	}
	return m, editTick()
}

// reloadSource dosya yerinde değiştiğinde oturumu sıfırlar ve yeniden yükler.
func (m editModel) reloadSource() (editModel, tea.Cmd) {
	id := identityOf(m.path)
	if !m.editor.SetSource(id) {
		return m, nil
	}
	if m.sampler != nil {
		m.sampler.Reset()
	}
	m.frames = nil
	m.strip = nil
	m.result = nil
	m.phase = phaseLoading
	m.status = "Dosya değişti, yeniden yükleniyor"
	return m, m.loadCmd(id)
}

func (m editModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if d := m.editor.ActiveDrag(); d != nil && msg.String() == "esc" {
			d.Cancel()
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if m.phase != phaseEditing {
		return m, nil
	}

	var err error
	s := m.editor.State()
	switch {
	case key.Matches(msg, m.keys.Play):
		err = m.editor.TogglePlay()
	case key.Matches(msg, m.keys.Back):
		m.editor.StepFrames(-1)
	case key.Matches(msg, m.keys.Forward):
		m.editor.StepFrames(1)
	case key.Matches(msg, m.keys.GoStart):
		m.editor.SeekTrimStart()
	case key.Matches(msg, m.keys.GoEnd):
		m.editor.SeekTrimEnd()
	case key.Matches(msg, m.keys.SetStart):
		err = m.editor.ApplyTrim(m.editor.CurrentTime(), s.TrimEnd)
	case key.Matches(msg, m.keys.SetEnd):
		err = m.editor.ApplyTrim(s.TrimStart, m.editor.CurrentTime())
	case key.Matches(msg, m.keys.Loop):
		err = m.editor.CreateLoop()
	case key.Matches(msg, m.keys.ClearLoop):
		err = m.editor.ClearLoop()
	case key.Matches(msg, m.keys.Undo):
		if !m.editor.Undo() {
			m.status = "Geri alınacak adım yok"
			return m, nil
		}
	case key.Matches(msg, m.keys.Redo):
		if !m.editor.Redo() {
			m.status = "Yinelenecek adım yok"
			return m, nil
		}
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	default:
		return m, nil
	}

	m.status = ""
	if err != nil {
		m.status = err.Error()
	}
	return m, nil
}

func (m editModel) submit() (tea.Model, tea.Cmd) {
	req, err := m.editor.Request()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	if m.editor.Playing() {
		_ = m.editor.TogglePlay()
	}
	// Editör kaynağı dosya kimliğidir; servise dosya yolu gider.
	req.Source = m.path
	payload := m.editor.Payload()

	m.phase = phaseSubmitting
	m.status = "Düzenleme uygulanıyor..."
	ctx, svc, path, sidecar := m.ctx, m.app.service, m.path, m.opts.SaveSidecar
	return m, func() tea.Msg {
		res, err := svc.Submit(ctx, req)
		if err != nil || !sidecar {
			return submitDoneMsg{res: res, err: err}
		}
		// Düzenleme dosyası yalnızca başarılı kırpmadan sonra yazılır.
		sc, err := batch.SaveSidecar(path, payload)
		if err != nil {
			return submitDoneMsg{res: res, err: fmt.Errorf("duzenleme dosyasi yazilamadi: %w", err)}
		}
		return submitDoneMsg{res: res, sidecar: sc}
	}
}

func (m editModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.phase != phaseEditing {
		return m, nil
	}
	span := float64(m.trackWidth() - 1)
	x := float64(msg.X - trackLeft)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		h, ok := m.handleAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		d, err := m.editor.BeginDrag(h)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = ""
		d.MoveTo(x, span)
	case tea.MouseActionMotion:
		if d := m.editor.ActiveDrag(); d != nil {
			d.MoveTo(x, span)
		}
	case tea.MouseActionRelease:
		if d := m.editor.ActiveDrag(); d != nil {
			d.MoveTo(x, span)
			d.Release()
		}
	}
	return m, nil
}

// handleAt ekran konumundaki tutamacı bulur. Kırpma ve döngü satırlarında
// en yakın tutamaç seçilir.
func (m editModel) handleAt(x, y int) (editor.Handle, bool) {
	w := m.trackWidth()
	c := x - trackLeft
	if c < 0 || c >= w {
		return 0, false
	}
	s := m.editor.State()
	nearest := func(a, b editor.Handle, ta, tb float64) editor.Handle {
		ca, cb := m.col(ta, w), m.col(tb, w)
		da, db := absInt(c-ca), absInt(c-cb)
		if da < db || (da == db && c <= ca) {
			return a
		}
		return b
	}
	switch y {
	case rowPlayhead, rowStrip:
		return editor.HandlePlayhead, true
	case rowTrim:
		return nearest(editor.HandleTrimStart, editor.HandleTrimEnd, s.TrimStart, s.TrimEnd), true
	case rowLoop:
		if s.Loop == nil {
			return 0, false
		}
		return nearest(editor.HandleLoopStart, editor.HandleLoopEnd, s.Loop.Start, s.Loop.End), true
	}
	return 0, false
}

func (m editModel) trackWidth() int {
	w := m.width - 2*trackLeft
	if w < minTrackWidth {
		w = minTrackWidth
	}
	return w
}

// col zamanı iz sütununa çevirir.
func (m editModel) col(t float64, w int) int {
	d := m.editor.State().Duration
	if d <= 0 || w <= 1 {
		return 0
	}
	c := int(math.Round(t / d * float64(w-1)))
	return max(0, min(c, w-1))
}

func (m editModel) close() {
	m.editor.Close()
	if m.sampler != nil {
		m.sampler.Reset()
	}
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
}

func (m editModel) View() string {
	var b strings.Builder

	header := titleStyle.Render("✂ " + filepath.Base(m.path))
	if m.watcher != nil {
		header += "  " + dimStyle.Render("izleme: "+m.watcher.Mode())
	}
	b.WriteString(header + "\n\n")

	if m.phase == phaseLoading {
		b.WriteString("  " + infoStyle.Render("Medya yükleniyor...") + "\n")
		if m.status != "" {
			b.WriteString("\n  " + errorStyle.Render(m.status) + "\n")
		}
		b.WriteString("\n  " + m.help.View(m.keys) + "\n")
		return b.String()
	}

	w := m.trackWidth()
	b.WriteString(m.renderPlayhead(w) + "\n")
	b.WriteString(m.renderStrip(w) + "\n")
	b.WriteString(m.renderTrim(w) + "\n")
	b.WriteString(m.renderLoop(w) + "\n\n")
	b.WriteString("  " + m.renderInfo() + "\n")

	switch {
	case m.phase == phaseSubmitting:
		b.WriteString("  " + infoStyle.Render(m.status) + "\n")
	case m.submitErr != nil:
		b.WriteString("  " + errorStyle.Render("Kırpma başarısız: "+m.status) + "\n")
	case m.status != "":
		b.WriteString("  " + dimStyle.Render(m.status) + "\n")
	default:
		b.WriteString("\n")
	}
	b.WriteString("\n  " + m.help.View(m.keys) + "\n")
	return b.String()
}

func (m editModel) renderPlayhead(w int) string {
	c := m.col(m.editor.CurrentTime(), w)
	return strings.Repeat(" ", trackLeft+c) + playheadStyle.Render("▼")
}

func (m editModel) renderStrip(w int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", trackLeft))
	n := len(m.strip)
	for c := 0; c < w; c++ {
		if n == 0 {
			b.WriteString(dimStyle.Render("░"))
			continue
		}
		cell := m.strip[c*n/w]
		if cell == "" {
			b.WriteString(dimStyle.Render("░"))
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(cell).Render("█"))
	}
	return b.String()
}

func (m editModel) renderTrim(w int) string {
	s := m.editor.State()
	cs, ce := m.col(s.TrimStart, w), m.col(s.TrimEnd, w)
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", trackLeft))
	for c := 0; c < w; c++ {
		switch {
		case c == cs:
			b.WriteString(handleStyle.Render("["))
		case c == ce:
			b.WriteString(handleStyle.Render("]"))
		case c > cs && c < ce:
			b.WriteString(trimStyle.Render("━"))
		default:
			b.WriteString(dimStyle.Render("─"))
		}
	}
	return b.String()
}

func (m editModel) renderLoop(w int) string {
	s := m.editor.State()
	if s.Loop == nil {
		return ""
	}
	ls, le := m.col(s.Loop.Start, w), m.col(s.Loop.End, w)
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", trackLeft))
	for c := 0; c <= le; c++ {
		switch {
		case c == ls:
			b.WriteString(loopHandleStyle.Render("<"))
		case c == le:
			b.WriteString(loopHandleStyle.Render(">"))
		case c > ls:
			b.WriteString(loopStyle.Render("═"))
		default:
			b.WriteString(" ")
		}
	}
	return b.String()
}

func (m editModel) renderInfo() string {
	s := m.editor.State()
	parts := []string{
		fmt.Sprintf("Kırpma %s → %s (%s)",
			timecode.Human(s.TrimStart), timecode.Human(s.TrimEnd), timecode.Human(s.TrimEnd-s.TrimStart)),
	}
	if s.Loop != nil {
		parts = append(parts, loopStyle.Render(fmt.Sprintf("Döngü %s → %s",
			timecode.Human(s.Loop.Start), timecode.Human(s.Loop.End))))
	}
	state := "⏸"
	if m.editor.Playing() {
		state = "▶"
	}
	parts = append(parts, fmt.Sprintf("%s %s / %s", state,
		timecode.Human(m.editor.CurrentTime()), timecode.Human(s.Duration)))
	if m.editor.Mode() == editor.ModeInteracting {
		if d := m.editor.ActiveDrag(); d != nil {
			parts = append(parts, infoStyle.Render("sürükleniyor: "+d.Handle().String()))
		}
	}
	return textStyle.Render(strings.Join(parts, "  │  "))
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
