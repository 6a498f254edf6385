package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_ContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, true, slog.LevelInfo)
	ctx := AppendCtx(context.Background(), slog.String("cmd", "sort"))
	ctx = AppendCtx(ctx, slog.Int("lines", 3))

	log.InfoContext(ctx, "done")
	log.DebugContext(ctx, "hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "done", rec["msg"])
	assert.Equal(t, "sort", rec["cmd"])
	assert.Equal(t, float64(3), rec["lines"])
}

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	Logger(&buf, false, slog.LevelDebug).With("run", "abc").Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "run=abc")
}

func TestRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glitch.log")
	w := RotatingFile(path, 1, 1, 1)
	Logger(w, false, slog.LevelInfo).Info("written")
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")
}

func TestTee(t *testing.T) {
	var a, b bytes.Buffer
	log := Logger(Tee(&a, nil, &b), false, slog.LevelInfo)
	log.Info("sorted", "lines", 4)
	assert.Contains(t, a.String(), "lines=4")
	assert.Equal(t, a.String(), b.String())

	assert.Same(t, &a, Tee(&a, nil))
}
