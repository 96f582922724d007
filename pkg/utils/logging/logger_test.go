package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerWithOptions(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, err := InitLoggerWithOptions("test", Options{Dir: dir, Console: &console})
	require.NoError(t, err)

	logger.Debug("file only")
	logger.Info("both outputs")
	require.NoError(t, logger.Sync())

	assert.Contains(t, console.String(), "both outputs")
	assert.NotContains(t, console.String(), "file only")

	files, err := filepath.Glob(filepath.Join(dir, "test_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"file only"`)
	assert.Contains(t, string(data), `"env":"test"`)
}

func TestInitLoggerWithOptions_Verbose(t *testing.T) {
	var console bytes.Buffer

	logger, err := InitLoggerWithOptions("test", Options{Dir: t.TempDir(), Console: &console, Verbose: true})
	require.NoError(t, err)

	logger.Debug("debug line")
	require.NoError(t, logger.Sync())
	assert.Contains(t, console.String(), "debug line")
}
