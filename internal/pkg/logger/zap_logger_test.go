package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewZapLogger_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewZapLogger(path, true)

	l.Info("TEST", "hello", map[string]interface{}{"k": "v"})
	l.Warn("TEST", "nil details", nil)
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"module":"TEST"`)
	assert.Contains(t, string(data), `"level":"WARN"`)
}

func TestNewNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Error("TEST", "ignored", map[string]interface{}{"error": "x"})
	l.Debug("TEST", "ignored", nil)
}
