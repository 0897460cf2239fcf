package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Component: ComponentEngine, Handler: slog.NewTextHandler(&buf, nil)})
	l.Info("filtered", FieldRows, 3)

	out := buf.String()
	if !strings.Contains(out, "component=engine") || !strings.Contains(out, "rows=3") {
		t.Fatalf("unexpected log line: %q", out)
	}
	if l.Component() != ComponentEngine {
		t.Fatalf("unexpected component %q", l.Component())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithComponent(ComponentDataset).
		WithOperation(OpLoad).
		WithDataset("file.csv", 10).
		WithError(errors.New("boom")).
		WithError(nil)

	if f[FieldSource] != "file.csv" || f[FieldRows] != 10 || f[FieldError] != "boom" {
		t.Fatalf("unexpected fields: %v", f)
	}
	if len(f.ToSlice()) != len(f)*2 {
		t.Fatalf("slice length mismatch")
	}
}
