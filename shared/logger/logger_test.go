package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONWithServiceField(t *testing.T) {
	out := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Config{Level: "debug", Encoding: "json", OutputPath: out, Service: "gameplay"})
	require.NoError(t, err)

	log.Info("hello")
	_ = log.Sync()

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"service":"gameplay"`)
	assert.Contains(t, string(data), `"level":"INFO"`)
	assert.Contains(t, string(data), `"timestamp"`)
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	out := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Config{Level: "loud", OutputPath: out})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("shown")
	_ = log.Sync()

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNew_UnknownEncodingFallsBackToJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Config{Encoding: "xml", OutputPath: out})
	require.NoError(t, err)

	log.Info("plain")
	_ = log.Sync()

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"plain"`)
	// Без имени сервиса поле не пишется
	assert.NotContains(t, string(data), `"service"`)
}
