package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerWritesContextAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	opts := *DefaultOptions
	opts.NoColor = true
	opts.SrcFileMode = Nop
	log := slog.New(NewHandler(&buf, &opts))

	ctx := ContextWithUserID(ContextWithRequestID(context.Background(), 42), 7)
	log.WarnContext(ctx, "generation failed", Err(errors.New("boom")), "mode", "txt2img")

	line := buf.String()
	for _, want := range []string{"42 ", "WARN", "generation failed", "user_id=7", "err=boom", "mode=txt2img"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "\u001b[") {
		t.Errorf("expected no ANSI sequences, got %q", line)
	}
}

func TestHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, &Options{Level: slog.LevelInfo, NoColor: true}))

	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected debug record to be dropped, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected slog.Level
		wantErr  bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}

	for _, test := range tests {
		level, err := ParseLevel(test.in)
		if (err != nil) != test.wantErr || level != test.expected {
			t.Errorf("For %q, expected (%v, %v), got (%v, %v)", test.in, test.expected, test.wantErr, level, err)
		}
	}
}
