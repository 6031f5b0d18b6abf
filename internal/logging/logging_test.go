package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, "WARN": slog.LevelWarn, "warning": slog.LevelWarn,
		"error": slog.LevelError, "": slog.LevelInfo, "nope": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}
}

func TestNewWritesJSONWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := WithRequestID(WithComponent(New(&buf, "info"), "api"), "req-1")
	logger.Debug("hidden")
	logger.Info("hello", "n", 3)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q (%v)", buf.String(), err)
	}
	if entry["msg"] != "hello" || entry["component"] != "api" || entry["request_id"] != "req-1" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}
