package logging

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_ContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, false, slog.LevelDebug)

	ctx := AppendCtx(context.Background(), slog.String("series", "1.2.3"))
	ctx = AppendCtx(ctx, slog.Int("frame", 4))
	log.InfoContext(ctx, "rendered")

	out := buf.String()
	assert.Contains(t, out, "msg=rendered")
	assert.Contains(t, out, "series=1.2.3")
	assert.Contains(t, out, "frame=4")
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, true, slog.LevelWarn)
	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestRotatingWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctl.log")
	w := RotatingWriter(path, 0, 1)
	log := Logger(w, false, slog.LevelInfo)
	log.Info("hello")
	require.NoError(t, w.Close())
	assert.FileExists(t, path)
}
