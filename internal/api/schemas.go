package api

import (
	"time"

	"github.com/mlihgenel/clipeditor-cli/internal/edit"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

// SubmitRequest POST /edits gövdesi. Duration verilmezse kaynaktan okunur.
type SubmitRequest struct {
	Source   string        `json:"source"`
	Duration float64       `json:"duration,omitempty"`
	EditData *edit.Payload `json:"editData"`
}

type VideoResponse struct {
	URL      string  `json:"url"`
	Duration float64 `json:"duration"`
}

// SubmitResponse kırpma yapılmadıysa yalnızca edited=false taşır.
type SubmitResponse struct {
	Edited bool           `json:"edited"`
	ID     string         `json:"id,omitempty"`
	Video  *VideoResponse `json:"video,omitempty"`
	Edit   *edit.Payload  `json:"edit,omitempty"`
	Loop   string         `json:"loop,omitempty"`
}

type RecordResponse struct {
	ID        string       `json:"id"`
	Asset     string       `json:"asset"`
	Source    string       `json:"source"`
	Duration  float64      `json:"duration"`
	Edited    bool         `json:"edited"`
	Edit      edit.Payload `json:"edit"`
	CreatedAt string       `json:"created_at"`
}

type RecordsResponse struct {
	Edits []RecordResponse `json:"edits"`
}

func SubmitToResponse(res edit.Result) SubmitResponse {
	resp := SubmitResponse{Edited: res.Edited}
	if res.Record != nil {
		resp.ID = res.Record.ID
	}
	if !res.Edited {
		return resp
	}
	p := res.Payload
	resp.Video = &VideoResponse{URL: res.Asset.URL, Duration: res.Asset.Duration}
	resp.Edit = &p
	resp.Loop = res.Remap.Status.String()
	return resp
}

func RecordToResponse(r *edit.Record) RecordResponse {
	return RecordResponse{
		ID:        r.ID,
		Asset:     r.Asset,
		Source:    r.Source,
		Duration:  r.Duration,
		Edited:    r.Edited,
		Edit:      r.Payload,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}
