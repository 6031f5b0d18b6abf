// Package logging sunucu ve arka plan işleri için yapılandırılmış JSON log üretir.
// Kullanıcıya dönük konsol çıktısı internal/ui üzerinden gider.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel "debug", "info", "warn", "error" değerlerini okur; bilinmeyen
// değerde info döner.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewLogger stderr'e yazan bir JSON logger oluşturur.
func NewLogger(level string) *slog.Logger {
	return New(os.Stderr, level)
}

// New verilen yazıcıya JSON log yazan bir logger oluşturur. Debug seviyesinde
// kaynak konumu eklenir.
func New(w io.Writer, level string) *slog.Logger {
	lvl := ParseLevel(level)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}))
}

// Discard hiçbir şey yazmayan logger. Konsol komutları ve testler içindir.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}

func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With("request_id", requestID)
}

func WithEditID(logger *slog.Logger, editID string) *slog.Logger {
	return logger.With("edit_id", editID)
}
