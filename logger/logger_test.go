package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitializeLoggerInactiveDropsMessages(t *testing.T) {
	InitializeLogger(false, "")
	NtfsForensicsLogger.Info("should not appear anywhere")
	NtfsForensicsLogger.Warning("should not appear anywhere")
	NtfsForensicsLogger.Error("should not appear anywhere")
	// nothing to assert beyond not panicking: the zero-value logger is safe.
}

func TestInitializeLoggerActiveWritesLeveledLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ntfsforensics.log")
	InitializeLogger(true, path)

	NtfsForensicsLogger.Info("scan started")
	NtfsForensicsLogger.Warning("short read of mft entry 12")
	NtfsForensicsLogger.Error("fatal parse error")

	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	lines := string(content)
	assert.True(t, strings.Contains(lines, "ntfsforensics|INFO: "))
	assert.True(t, strings.Contains(lines, "scan started"))
	assert.True(t, strings.Contains(lines, "ntfsforensics|WARNING: "))
	assert.True(t, strings.Contains(lines, "short read of mft entry 12"))
	assert.True(t, strings.Contains(lines, "ntfsforensics|ERROR: "))
	assert.True(t, strings.Contains(lines, "fatal parse error"))
}
