package logx

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromFlags(t *testing.T) {
	testCases := []struct {
		vv, v, q bool
		want     slog.Level
	}{
		{true, false, false, slog.LevelDebug},
		{true, false, true, slog.LevelDebug},
		{false, true, true, slog.LevelInfo},
		{false, false, true, slog.LevelError},
		{false, false, false, slog.LevelWarn},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, LevelFromFlags(tc.vv, tc.v, tc.q), "vv=%v v=%v q=%v", tc.vv, tc.v, tc.q)
	}
}

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelInfo))

	log.Debug("hidden")
	log.Info("scene built", "primitives", 22, "path", "res alt/prot2.wrl")
	log.With("step", "beams").WithGroup("seg").Warn("slow", "elapsed", 1500*time.Microsecond)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "INFO  scene built primitives=22 path=\"res alt/prot2.wrl\"")
	assert.Contains(t, lines[1], "WARN  slow step=beams seg.elapsed=1.5ms")
	assert.NotContains(t, buf.String(), "\x1b[", "no colour codes outside a terminal")
}

func TestHandlerLevelVar(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(slog.LevelError)
	log := slog.New(NewHandler(&buf, &lvl))

	log.Warn("quiet")
	assert.Zero(t, buf.Len())

	lvl.Set(slog.LevelDebug)
	log.Debug("loud", "group", slog.GroupValue(slog.Int("a", 1)))
	assert.Contains(t, buf.String(), "DEBUG loud group.a=1")
}
