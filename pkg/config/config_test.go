package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.EqualValues(t, 1<<20, cfg.BlockSize)
	assert.Equal(t, 2, cfg.ReplicationFactor)
	assert.Equal(t, 10*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 3, cfg.HeartbeatTimeoutFactor)
	assert.Equal(t, 30*time.Second, cfg.LivenessWindow())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BLOCK_SIZE_BYTES", "4096")
	t.Setenv("REPLICATION_FACTOR", "3")
	t.Setenv("HEARTBEAT_INTERVAL_SEC", "5")
	t.Setenv("HEARTBEAT_TIMEOUT_FACTOR", "2")
	t.Setenv("COORDINATOR_URL", "http://coord:5000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.EqualValues(t, 4096, cfg.BlockSize)
	assert.Equal(t, 3, cfg.ReplicationFactor)
	assert.Equal(t, 5*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 10*time.Second, cfg.LivenessWindow())
	assert.Equal(t, "http://coord:5000", cfg.CoordinatorURL)
}

func TestBadEnvValue(t *testing.T) {
	t.Setenv("BLOCK_SIZE_BYTES", "not-a-number")
	_, err := Load("")
	assert.Error(t, err)
}

func TestYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driftfs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"block_size_bytes: 2048\nreplication_factor: 4\nnode_id: n7\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.EqualValues(t, 2048, cfg.BlockSize)
	assert.Equal(t, 4, cfg.ReplicationFactor)
	assert.Equal(t, "n7", cfg.NodeID)
}

func TestEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driftfs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("replication_factor: 4\n"), 0o644))
	t.Setenv("REPLICATION_FACTOR", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.ReplicationFactor)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero block size", mutate: func(c *Config) { c.BlockSize = 0 }},
		{name: "zero replication", mutate: func(c *Config) { c.ReplicationFactor = 0 }},
		{name: "zero interval", mutate: func(c *Config) { c.HeartbeatInterval = 0 }},
		{name: "zero factor", mutate: func(c *Config) { c.HeartbeatTimeoutFactor = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
