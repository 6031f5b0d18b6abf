// Package api düzenleme servisini HTTP üzerinden sunar.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mlihgenel/clipeditor-cli/internal/edit"
)

// RecordReader kayıtlı düzenlemeleri okur.
type RecordReader interface {
	Get(ctx context.Context, asset string) (*edit.Record, error)
	List(ctx context.Context, limit int) ([]edit.Record, error)
}

// DurationSource istekte süre yoksa kaynağın süresini okur.
type DurationSource interface {
	Duration(ctx context.Context, path string) (float64, error)
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type ServerConfig struct {
	Host      string
	Port      int
	Service   *edit.Service
	Records   RecordReader
	Probe     DurationSource
	Logger    *slog.Logger
	StartTime time.Time
	Version   string
}

func NewServer(cfg ServerConfig) *Server {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:     NewRouter(cfg),
			ReadTimeout: 15 * time.Second,
			// Kırpma uzun sürebilir; yazma zaman aşımı yok.
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
