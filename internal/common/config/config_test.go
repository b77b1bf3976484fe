package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// LoadConfig caches via sync.Once, so the file-loading behavior is covered
// by a single test.
func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gate-service.json")
	raw := `{
		"server": {"name": "gate-service", "host": "127.0.0.1", "http_port": 9090},
		"database": {"driver": "memory"},
		"gate": {"short_window_minutes": 15}
	}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "gate-service", cfg.Server.Name)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "memory", cfg.Database.Driver)

	// explicit knob kept, unset knobs fall back to defaults
	assert.Equal(t, 15, cfg.Gate.ShortWindowMinutes)
	assert.Equal(t, 60, cfg.Gate.LongWindowMinutes)
	assert.Equal(t, 20.0, cfg.Gate.SuspiciousStayMin)
	assert.Equal(t, 3, cfg.Gate.PastEntriesLimit)
	assert.Equal(t, 1000, cfg.Gate.AllLogsDefaultLimit)
	assert.Equal(t, 5*3600+30*60, cfg.Gate.UTCOffsetSeconds)
	assert.Equal(t, "IST", cfg.Gate.UTCOffsetName)

	// the loaded config becomes the global one
	assert.Same(t, cfg, GetConfig())
}
