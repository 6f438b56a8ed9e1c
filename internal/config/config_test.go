package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
telemetry:
  url: ws://game.example:4101/telemetry
speedwalk:
  confirm_timeout_ms: 2000
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ws://game.example:4101/telemetry", cfg.Telemetry.URL)
	assert.Equal(t, 2*time.Second, cfg.Speedwalk.ConfirmWait())

	// Fields the file does not mention keep their defaults.
	assert.Equal(t, "./map.db", cfg.Map.DatabasePath)
	assert.Equal(t, 3, cfg.Speedwalk.MaxSendAttempts)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yml")
	require.NoError(t, os.WriteFile(path, []byte("telemetry: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
