// Package store düzenleme kayıtlarını SQLite veritabanında saklar.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mlihgenel/clipeditor-cli/internal/edit"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound istenen kayıt yoksa döner.
var ErrNotFound = errors.New("duzenleme kaydi bulunamadi")

// Store edit.Store arayüzünü uygular.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
}

// Open veritabanını açar, gerekirse dizini oluşturur ve migration'ları uygular.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("veritabani dizini olusturulamadi: %w", err)
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("veritabani acilamadi: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("veritabanina baglanilamadi: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%s calistirilamadi: %w", pragma, err)
		}
	}

	s := &Store{conn: conn, logger: logger}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migration hatasi: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if s.applied(name) {
			continue
		}
		content, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("%s okunamadi: %w", name, err)
		}
		if _, err := s.conn.Exec(string(content)); err != nil {
			return fmt.Errorf("%s uygulanamadi: %w", name, err)
		}
		if _, err := s.conn.Exec("INSERT INTO _migrations (name) VALUES (?)", name); err != nil {
			return fmt.Errorf("%s kaydedilemedi: %w", name, err)
		}
		if s.logger != nil {
			s.logger.Info("migration uygulandi", "name", name)
		}
	}
	return nil
}

func (s *Store) applied(name string) bool {
	var one int
	if err := s.conn.QueryRow("SELECT 1 FROM sqlite_master WHERE type='table' AND name='_migrations'").Scan(&one); err != nil {
		return false
	}
	err := s.conn.QueryRow("SELECT 1 FROM _migrations WHERE name = ?", name).Scan(&one)
	return err == nil
}

// Save kaydı asset anahtarına göre ekler veya günceller. ID boşsa üretilir;
// mevcut bir asset güncellenirse eski ID korunur ve r.ID'ye yazılır.
func (s *Store) Save(ctx context.Context, r *edit.Record) error {
	if r.Asset == "" {
		return fmt.Errorf("asset bos olamaz")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	segments := r.Payload.CutSegments
	if segments == nil {
		segments = []edit.Segment{}
	}
	segJSON, err := json.Marshal(segments)
	if err != nil {
		return err
	}

	var loopStart, loopEnd sql.NullFloat64
	if z := r.Payload.Loop(); z != nil {
		loopStart = sql.NullFloat64{Float64: z.Start, Valid: true}
		loopEnd = sql.NullFloat64{Float64: z.End, Valid: true}
	}

	row := s.conn.QueryRowContext(ctx, `
		INSERT INTO edits (id, asset, source, duration, edited, trim_start, trim_end, cut_segments, loop_start, loop_end, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(asset) DO UPDATE SET
			source = excluded.source,
			duration = excluded.duration,
			edited = excluded.edited,
			trim_start = excluded.trim_start,
			trim_end = excluded.trim_end,
			cut_segments = excluded.cut_segments,
			loop_start = excluded.loop_start,
			loop_end = excluded.loop_end,
			created_at = excluded.created_at
		RETURNING id`,
		r.ID, r.Asset, r.Source, r.Duration, r.Edited,
		r.Payload.TrimStart, r.Payload.TrimEnd, string(segJSON),
		loopStart, loopEnd, r.CreatedAt.Format(time.RFC3339Nano),
	)
	if err := row.Scan(&r.ID); err != nil {
		return fmt.Errorf("duzenleme kaydedilemedi: %w", err)
	}
	return nil
}

const selectColumns = `id, asset, source, duration, edited, trim_start, trim_end, cut_segments, loop_start, loop_end, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*edit.Record, error) {
	var (
		r                  edit.Record
		segJSON, created   string
		loopStart, loopEnd sql.NullFloat64
	)
	err := sc.Scan(&r.ID, &r.Asset, &r.Source, &r.Duration, &r.Edited,
		&r.Payload.TrimStart, &r.Payload.TrimEnd, &segJSON, &loopStart, &loopEnd, &created)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(segJSON), &r.Payload.CutSegments); err != nil || r.Payload.CutSegments == nil {
		r.Payload.CutSegments = []edit.Segment{}
	}
	if loopStart.Valid && loopEnd.Valid {
		start, end := loopStart.Float64, loopEnd.Float64
		r.Payload.LoopZoneStart, r.Payload.LoopZoneEnd = &start, &end
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		r.CreatedAt = t
	}
	return &r, nil
}

// Get asset anahtarına göre kaydı döner.
func (s *Store) Get(ctx context.Context, asset string) (*edit.Record, error) {
	row := s.conn.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM edits WHERE asset = ?", asset)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, asset)
	}
	return r, err
}

// GetByID kimliğe göre kaydı döner.
func (s *Store) GetByID(ctx context.Context, id string) (*edit.Record, error) {
	row := s.conn.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM edits WHERE id = ?", id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// List en yeni kayıtlardan başlayarak en fazla limit kayıt döner.
func (s *Store) List(ctx context.Context, limit int) ([]edit.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.conn.QueryContext(ctx, "SELECT "+selectColumns+" FROM edits ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []edit.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// InitialEdit düzenleyicinin açılışta yükleyeceği payload'ı döner. Kayıt
// yoksa nil, nil döner.
func (s *Store) InitialEdit(ctx context.Context, asset string) (*edit.Payload, error) {
	r, err := s.Get(ctx, asset)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r.Payload, nil
}

// Delete asset kaydını siler.
func (s *Store) Delete(ctx context.Context, asset string) error {
	res, err := s.conn.ExecContext(ctx, "DELETE FROM edits WHERE asset = ?", asset)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, asset)
	}
	return nil
}
