package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCtx_AddsRunID(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(NewTestLogger(&buf))
	t.Cleanup(func() { SetLogger(prev) })

	ctx := ContextWithRunID(context.Background(), "abc12345")
	Ctx(ctx).Info().Str("source", "cpsc").Msg("loaded")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["run_id"] != "abc12345" {
		t.Errorf("run_id = %v, want abc12345", entry["run_id"])
	}
	if entry["source"] != "cpsc" {
		t.Errorf("source = %v, want cpsc", entry["source"])
	}
}

func TestCtx_NoRunID(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(NewTestLogger(&buf))
	t.Cleanup(func() { SetLogger(prev) })

	Ctx(context.Background()).Info().Msg("hello")
	if strings.Contains(buf.String(), "run_id") {
		t.Errorf("unexpected run_id in %s", buf.String())
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if len(a) != 8 {
		t.Errorf("len(NewRunID()) = %d, want 8", len(a))
	}
	if a == b {
		t.Errorf("NewRunID returned the same id twice: %s", a)
	}
}
