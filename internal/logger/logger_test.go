package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesRotatedFileLog(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.LogDir = dir

	require.NoError(t, Init(cfg))
	defer stopPreviousRotation()

	Info("hello from test")
	require.NoError(t, Sync())

	_, err := os.Stat(filepath.Join(dir, "tapper.log"))
	assert.NoError(t, err)
}

func TestWithComponent_TagsLogger(t *testing.T) {
	l := WithComponent("heartbeat")
	assert.NotNil(t, l)
}

func TestGet_FallsBackBeforeInit(t *testing.T) {
	stopPreviousRotation()
	mu.Lock()
	globalLogger = nil
	globalSugar = nil
	mu.Unlock()

	assert.NotNil(t, Get())
	assert.NotNil(t, Sugar())
}
