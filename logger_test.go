package geoart

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	a, err := New(WithSize(32, 32))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	if !strings.Contains(buf.String(), "geoart: app created") {
		t.Errorf("log output = %q, want app created record", buf.String())
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("Logger() after SetLogger(nil) is enabled")
	}
}
