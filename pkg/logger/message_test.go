package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageLog_Write(t *testing.T) {
	root := t.TempDir()
	m := NewMessageLog(root)
	m.now = func() time.Time {
		return time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	}
	defer m.Close()

	require.NoError(t, m.Write("10.0.0.1", "user login"))
	require.NoError(t, m.Write("10.0.0.2", "user logout\n"))

	data, err := os.ReadFile(filepath.Join(root, "App", "Log", "2024-03-09.log"))
	require.NoError(t, err)
	assert.Equal(t, "14:05:07 10.0.0.1 user login\n14:05:07 10.0.0.2 user logout\n", string(data))
}

func TestMessageLog_RotatesByDay(t *testing.T) {
	root := t.TempDir()
	m := NewMessageLog(root)
	defer m.Close()

	day := time.Date(2024, 3, 9, 23, 59, 59, 0, time.Local)
	m.now = func() time.Time { return day }
	require.NoError(t, m.Write("", "first"))

	day = day.Add(2 * time.Second)
	require.NoError(t, m.Write("", "second"))

	assert.FileExists(t, filepath.Join(root, "App", "Log", "2024-03-09.log"))
	assert.FileExists(t, filepath.Join(root, "App", "Log", "2024-03-10.log"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", parseLevel("debug").String())
	assert.Equal(t, "warning", parseLevel("warn").String())
	assert.Equal(t, "info", parseLevel("nonsense").String())
}
