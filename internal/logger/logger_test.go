package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestDefaultDoesNotPanic(t *testing.T) {
	t.Parallel()
	log := Default()
	if log == nil {
		t.Fatal("Default() returned nil")
	}
	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")
}

func TestNopDiscards(t *testing.T) {
	t.Parallel()
	log := Nop()
	log.Info("into the void", "key", "value")
	log.With("a", 1).Error("still nothing")
}

func TestJSONFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(&buf, FormatJSON, slog.LevelInfo)
	log.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Fatalf("expected 'hello' in output, got: %s", out)
	}
	if !strings.Contains(out, `"key":"value"`) {
		t.Fatalf("expected key/value in JSON output, got: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(&buf, FormatJSON, slog.LevelWarn)
	log.Debug("dropped")
	log.Info("dropped too")

	if buf.Len() > 0 {
		t.Fatalf("expected no output below warn level, got: %s", buf.String())
	}

	log.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("expected warn message in output, got: %s", buf.String())
	}
}

func TestUnknownFormatFallsBackToText(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(&buf, Format("bogus"), slog.LevelInfo)
	log.Info("fallback", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "fallback") || !strings.Contains(out, "key=value") {
		t.Fatalf("expected text handler output, got: %s", out)
	}
}

func TestWith(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(&buf, FormatJSON, slog.LevelInfo)
	log.With("component", "decode").Info("child message")

	out := buf.String()
	if !strings.Contains(out, `"component":"decode"`) {
		t.Fatalf("expected component attr in output, got: %s", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(&buf, FormatJSON, slog.LevelInfo)

	ctx := WithContext(context.Background(), log)
	FromContext(ctx).Info("roundtrip")

	if !strings.Contains(buf.String(), "roundtrip") {
		t.Fatalf("expected message via context logger, got: %s", buf.String())
	}
}

func TestFromContextFallsBack(t *testing.T) {
	t.Parallel()
	log := FromContext(context.Background())
	if log == nil {
		t.Fatal("FromContext with no logger returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tc := range tests {
		if got := ParseLevel(tc.input); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestPrettyBasicLine(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(&buf, FormatPretty, slog.LevelInfo)
	log.Info("step done", "tokens", 5)

	out := buf.String()
	if !strings.Contains(out, "INF") {
		t.Fatalf("expected level tag in output, got: %s", out)
	}
	if !strings.Contains(out, "step done") {
		t.Fatalf("expected message in output, got: %s", out)
	}
	if !strings.Contains(out, "tokens=5") {
		t.Fatalf("expected attr in output, got: %s", out)
	}
}

func TestPrettyLevelTags(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(&buf, FormatPretty, slog.LevelDebug)

	log.Debug("d")
	log.Warn("w")
	log.Error("e")

	out := buf.String()
	for _, tag := range []string{"DBG", "WRN", "ERR"} {
		if !strings.Contains(out, tag) {
			t.Errorf("expected %s tag in output, got: %s", tag, out)
		}
	}
}

func TestPrettyHandlerEnabled(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, slog.LevelWarn)

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestPrettyWithAttrsAndGroups(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, slog.LevelInfo)

	log := slog.New(h.WithAttrs([]slog.Attr{slog.String("run", "abc")}).WithGroup("ctx"))
	log.Info("grouped", "used", 768)

	out := buf.String()
	if !strings.Contains(out, "run=abc") {
		t.Fatalf("expected handler attr in output, got: %s", out)
	}
	if !strings.Contains(out, "ctx.used=768") {
		t.Fatalf("expected group-prefixed attr in output, got: %s", out)
	}
}

func TestPrettyEmptyGroupIsNoop(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, slog.LevelInfo)
	if h.WithGroup("") != slog.Handler(h) {
		t.Fatal("WithGroup(\"\") should return the same handler")
	}
}

func TestPrettyQuoting(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(&buf, FormatPretty, slog.LevelInfo)
	log.Info("quoting", "plain", "simple", "spaced", "hello world")

	out := buf.String()
	if !strings.Contains(out, "plain=simple") {
		t.Fatalf("simple strings should stay unquoted, got: %s", out)
	}
	if !strings.Contains(out, `spaced="hello world"`) {
		t.Fatalf("strings with spaces should be quoted, got: %s", out)
	}
}

func TestPrettyDuration(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(&buf, FormatPretty, slog.LevelInfo)
	log.Info("timing", "ttft", 150*time.Millisecond)

	if !strings.Contains(buf.String(), "ttft=150ms") {
		t.Fatalf("expected duration formatting, got: %s", buf.String())
	}
}
