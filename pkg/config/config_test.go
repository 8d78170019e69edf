package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evshield.yaml")
	err := os.WriteFile(path, []byte(`
adapter: raspi
bus: 1
addresses:
  angle: 0x19
  PFMate: 36
`), 0o600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "raspi", cfg.Adapter)
	assert.Equal(t, "/dev/i2c-1", cfg.Device)
	assert.Equal(t, 1, cfg.Bus)
	assert.Equal(t, byte(0x19), cfg.Address("angle", 0x18))
	assert.Equal(t, byte(0x19), cfg.Address("Angle", 0x18))
	assert.Equal(t, byte(0x24), cfg.Address("pfmate", 0x00))
	assert.Equal(t, byte(0x68), cfg.Address("rtc", 0x68))
}

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evshield.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addresses: [1, 2"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}
