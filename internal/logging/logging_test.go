package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		level string
		want  log.Level
	}{
		{"debug", "debug", log.DebugLevel},
		{"upper", "DEBUG", log.DebugLevel},
		{"info", "info", log.InfoLevel},
		{"warn", "warn", log.WarnLevel},
		{"warning", "warning", log.WarnLevel},
		{"error", "error", log.ErrorLevel},
		{"unknown defaults to info", "loud", log.InfoLevel},
		{"empty defaults to info", "", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.level))
		})
	}
}

func Test_New_Writes_To_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "myday.log")
	logger, closer, err := New(path, "warn")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("save failed", "key", "todos")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "save failed")
	assert.Contains(t, string(data), "key=todos")
}

func Test_New_Empty_Path_Discards(t *testing.T) {
	t.Parallel()

	logger, closer, err := New("", "debug")
	require.NoError(t, err)
	logger.Debug("nothing")
	assert.NoError(t, closer.Close())
}
