package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "night.log")

	logger, err := New(false, path)
	require.NoError(t, err)
	logger.Info("night survived", zap.Int("night", 3))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"night survived"`)
	assert.Contains(t, string(data), `"night":3`)
}

func TestNew_Levels(t *testing.T) {
	dir := t.TempDir()

	prod, err := New(false, filepath.Join(dir, "prod.log"))
	require.NoError(t, err)
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel))

	dev, err := New(true, filepath.Join(dir, "dev.log"))
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))
}
