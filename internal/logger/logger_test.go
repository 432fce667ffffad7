package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewHandlerFormats(t *testing.T) {
	buf := &bytes.Buffer{}
	var lvl slog.LevelVar
	log := slog.New(newHandler(buf, "json", &lvl)).With("component", "tg")
	log.Info("update.received", slog.Int64("user_id", 7))

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON output, got %s", line)
	}
	for _, want := range []string{`"component":"tg"`, `"msg":"update.received"`, `"user_id":7`} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %s in %s", want, line)
		}
	}

	buf.Reset()
	log = slog.New(newHandler(buf, "text", &lvl))
	log.Info("startup")
	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Fatalf("expected text output, got %s", buf.String())
	}
}

func TestNewHandlerLevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	var lvl slog.LevelVar
	lvl.Set(slog.LevelWarn)
	log := slog.New(newHandler(buf, "json", &lvl))
	log.Info("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("info line should be suppressed at warn level, got %s", buf.String())
	}
	log.Warn("kept")
	if buf.Len() == 0 {
		t.Fatal("warn line should be emitted")
	}
}

func TestSelectLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := selectLevel(raw); got != want {
			t.Errorf("selectLevel(%q) = %v, expected %v", raw, got, want)
		}
	}
}

func TestSelectFormat(t *testing.T) {
	if got := selectFormat(Options{Format: "kv"}); got != "text" {
		t.Errorf("kv format should map to text, got %s", got)
	}
	if got := selectFormat(Options{Profile: "debug"}); got != "text" {
		t.Errorf("debug profile should default to text, got %s", got)
	}
	if got := selectFormat(Options{}); got != "json" {
		t.Errorf("default format should be json, got %s", got)
	}
}

func TestContextLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	var lvl slog.LevelVar
	log := slog.New(newHandler(buf, "json", &lvl)).With("rid", "1:2:3")

	ctx := WithLogger(context.Background(), log)
	FromContext(ctx).Info("gated")
	if !strings.Contains(buf.String(), `"rid":"1:2:3"`) {
		t.Fatalf("expected rid attr from context logger, got %s", buf.String())
	}

	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext must fall back to a non-nil logger")
	}
}

func TestBuildRID(t *testing.T) {
	if got := BuildRID(10, 20, 30); got != "10:20:30" {
		t.Errorf("BuildRID = %q", got)
	}
}

func TestSanitizeLimit(t *testing.T) {
	if got := SanitizeLimit("abc\x00def", 10); got != "abcdef" {
		t.Errorf("control characters should be stripped, got %q", got)
	}
	if got := SanitizeLimit("0123456789", 4); got != "0123" {
		t.Errorf("output should be truncated, got %q", got)
	}
	if got := SanitizeLimit("anything", 0); got != "" {
		t.Errorf("non-positive limit should yield empty string, got %q", got)
	}
}
