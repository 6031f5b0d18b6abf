package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mlihgenel/clipeditor-cli/internal/edit"
	"github.com/mlihgenel/clipeditor-cli/internal/store"
	"github.com/mlihgenel/clipeditor-cli/internal/timeline"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))
	r.Post("/edits", submitHandler(cfg))
	r.Get("/edits", getEditsHandler(cfg))

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func submitHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Source == "" || req.EditData == nil {
			WriteError(w, http.StatusBadRequest, "source and editData are required", "BAD_REQUEST")
			return
		}
		if err := req.EditData.Validate(); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		duration := req.Duration
		if !timeline.ValidDuration(duration) {
			if cfg.Probe == nil {
				WriteError(w, http.StatusBadRequest, "duration is required", "BAD_REQUEST")
				return
			}
			d, err := cfg.Probe.Duration(ctx, req.Source)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "media duration unavailable: "+err.Error(), "BAD_REQUEST")
				return
			}
			duration = d
		}

		st, err := edit.StateOf(*req.EditData, duration, cfg.Service.Limits)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		res, err := cfg.Service.Submit(ctx, edit.Request{Source: req.Source, State: st})
		switch {
		case errors.Is(err, edit.ErrTrimFailed):
			WriteError(w, http.StatusInternalServerError, err.Error(), "TRIM_FAILED")
			return
		case err != nil:
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, SubmitToResponse(res))
	}
}

func getEditsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Records == nil {
			WriteError(w, http.StatusServiceUnavailable, "edit store disabled", "UNAVAILABLE")
			return
		}
		ctx := r.Context()

		if asset := r.URL.Query().Get("asset"); asset != "" {
			rec, err := cfg.Records.Get(ctx, asset)
			if errors.Is(err, store.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "edit not found", "NOT_FOUND")
				return
			}
			if err != nil {
				WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
				return
			}
			WriteJSON(w, http.StatusOK, RecordToResponse(rec))
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		recs, err := cfg.Records.List(ctx, limit)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list edits", "INTERNAL_ERROR")
			return
		}
		resp := RecordsResponse{Edits: make([]RecordResponse, len(recs))}
		for i := range recs {
			resp.Edits[i] = RecordToResponse(&recs[i])
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}
