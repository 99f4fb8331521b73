package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for a single-machine cluster.
const (
	DefaultBlockSize         = 1 << 20 // 1 MiB
	DefaultReplicationFactor = 2
	DefaultHeartbeatInterval = 10 * time.Second
	DefaultHeartbeatFactor   = 3
	DefaultCoordinatorAddr   = "0.0.0.0:5000"
	DefaultChunkSize         = 1 << 20 // max bytes per data-plane chunk message
)

// Config carries every tunable of the cluster. It is built once in main and
// passed by value into each server; nothing reads it from package state.
type Config struct {
	// Filesystem parameters.
	BlockSize         int64 `yaml:"block_size_bytes"`
	ReplicationFactor int   `yaml:"replication_factor"`

	// Liveness window: a node is active iff its last heartbeat is within
	// HeartbeatInterval * HeartbeatTimeoutFactor of now.
	HeartbeatInterval      time.Duration `yaml:"heartbeat_interval"`
	HeartbeatTimeoutFactor int           `yaml:"heartbeat_timeout_factor"`

	// Coordinator.
	CoordinatorListen string `yaml:"coordinator_listen"`
	CoordinatorURL    string `yaml:"coordinator_url"` // as reachable by nodes and clients
	DataDir           string `yaml:"data_dir"`        // metadata database directory

	// Storage node.
	NodeID       string `yaml:"node_id"`
	DataListen   string `yaml:"data_listen"`   // gRPC
	AdminListen  string `yaml:"admin_listen"`  // HTTP health/metrics
	DataAddress  string `yaml:"data_address"`  // advertised; defaults to DataListen
	AdminAddress string `yaml:"admin_address"` // advertised; defaults to AdminListen
	BlockDir     string `yaml:"block_dir"`
}

// Default returns the configuration with every field at its default.
func Default() Config {
	return Config{
		BlockSize:              DefaultBlockSize,
		ReplicationFactor:      DefaultReplicationFactor,
		HeartbeatInterval:      DefaultHeartbeatInterval,
		HeartbeatTimeoutFactor: DefaultHeartbeatFactor,
		CoordinatorListen:      DefaultCoordinatorAddr,
		CoordinatorURL:         "http://localhost:5000",
		DataDir:                "data",
		DataListen:             "0.0.0.0:50051",
		AdminListen:            "0.0.0.0:5001",
		BlockDir:               "blocks",
	}
}

// Load builds the effective configuration: defaults, then the optional YAML
// file, then environment overrides. path may be empty.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("BLOCK_SIZE_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid BLOCK_SIZE_BYTES %q: %w", v, err)
		}
		c.BlockSize = n
	}
	if v := os.Getenv("REPLICATION_FACTOR"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REPLICATION_FACTOR %q: %w", v, err)
		}
		c.ReplicationFactor = n
	}
	if v := os.Getenv("HEARTBEAT_INTERVAL_SEC"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HEARTBEAT_INTERVAL_SEC %q: %w", v, err)
		}
		c.HeartbeatInterval = time.Duration(n) * time.Second
	}
	if v := os.Getenv("HEARTBEAT_TIMEOUT_FACTOR"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HEARTBEAT_TIMEOUT_FACTOR %q: %w", v, err)
		}
		c.HeartbeatTimeoutFactor = n
	}
	if v := os.Getenv("COORDINATOR_LISTEN"); v != "" {
		c.CoordinatorListen = v
	}
	if v := os.Getenv("COORDINATOR_URL"); v != "" {
		c.CoordinatorURL = v
	}
	return nil
}

// Validate rejects configurations the servers cannot run with.
func (c *Config) Validate() error {
	if c.BlockSize <= 0 {
		return fmt.Errorf("block size must be positive, got %d", c.BlockSize)
	}
	if c.ReplicationFactor < 1 {
		return fmt.Errorf("replication factor must be at least 1, got %d", c.ReplicationFactor)
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("heartbeat interval must be positive, got %s", c.HeartbeatInterval)
	}
	if c.HeartbeatTimeoutFactor < 1 {
		return fmt.Errorf("heartbeat timeout factor must be at least 1, got %d", c.HeartbeatTimeoutFactor)
	}
	return nil
}

// LivenessWindow is how long a node may go silent before the reaper marks
// it inactive.
func (c *Config) LivenessWindow() time.Duration {
	return c.HeartbeatInterval * time.Duration(c.HeartbeatTimeoutFactor)
}
