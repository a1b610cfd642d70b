package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func Test_ParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":            slog.LevelInfo,
		"<log_level>": slog.LevelInfo,
		"debug":       slog.LevelDebug,
		"info":        slog.LevelInfo,
		"warning":     slog.LevelWarn,
		"error":       slog.LevelError,
	}
	for str, want := range cases {
		level, ok := parselevel(str)
		if !ok || level != want {
			t.Fatalf("%q: want %s got %s", str, want, level)
		}
	}
	if _, ok := parselevel("verbose"); ok {
		t.Fatal("unknown level should fail")
	}
}

func Test_Log(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, slog.LevelInfo)
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatal("debug should be filtered")
	}
	l.Info("padding", slog.Int("length", 16))
	m := make(map[string]any)
	if e := json.Unmarshal(buf.Bytes(), &m); e != nil {
		t.Fatal(e)
	}
	if m["msg"] != "padding" {
		t.Fatal("msg missing")
	}
	kvs, ok := m["msg_kvs"].(map[string]any)
	if !ok || kvs["length"] != float64(16) {
		t.Fatal("kvs missing")
	}
	if _, ok := m[slog.SourceKey]; !ok {
		t.Fatal("source missing")
	}
}

func Test_Init(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warning")
	if e := Init(&bytes.Buffer{}); e != nil {
		t.Fatal(e)
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelWarn) || slog.Default().Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("level should be warning")
	}
	t.Setenv("LOG_LEVEL", "verbose")
	if e := Init(&bytes.Buffer{}); e != ErrLevelEnv {
		t.Fatalf("want ErrLevelEnv got %v", e)
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("should fall back to info")
	}
}
