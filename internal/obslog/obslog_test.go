package obslog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumlabs/aurum-core/internal/obslog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, obslog.LevelOff, obslog.ParseLevel("off"))
	assert.Equal(t, obslog.LevelError, obslog.ParseLevel("error"))
	assert.Equal(t, obslog.LevelDebug, obslog.ParseLevel("debug"))
	assert.Equal(t, obslog.LevelError, obslog.ParseLevel("garbage"))
}

func TestLogger_WritesAtConfiguredLevel(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	logger, err := obslog.New(obslog.LevelDebug, path)
	require.NoError(t, err)
	defer logger.Close()

	logger.Debug("hello %s", "world")
	logger.Error("boom")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello world")
	assert.Contains(t, string(data), "boom")
}

func TestLogger_OffDiscardsOutput(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	logger, err := obslog.New(obslog.LevelOff, path)
	require.NoError(t, err)
	defer logger.Close()

	logger.Error("should not appear")

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLogger_StructuredJSON(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	logger, err := obslog.NewJSON(obslog.LevelDebug, path)
	require.NoError(t, err)
	defer logger.Close()

	logger.Structured().Info("wallet unlocked", "account_count", 3)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"wallet unlocked"`)
	assert.Contains(t, string(data), `"account_count":3`)
}

func TestNull_NeverPanics(t *testing.T) {
	t.Parallel()
	logger := obslog.Null()
	logger.Debug("x")
	logger.Error("y")
	assert.Nil(t, logger.Structured())
	assert.NoError(t, logger.Close())
}
