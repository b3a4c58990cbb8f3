package config

import (
	"os"
	"time"
)

// Backends the client can talk to.
const (
	BackendGRPC  = "grpc"
	BackendLocal = "local"
)

// Store drivers for the persisted session.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds runtime settings for the session client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the identity gRPC endpoint.
//   - Backend: "grpc" for a remote server, "local" for an in-process directory.
//   - StoreDriver: "sqlite", "redis" or "memory".
//   - StoreDSN: SQLite database path.
//   - RedisURL: redis:// URL used by the redis driver.
//   - StorePassphrase: when set, persisted records are sealed with a key derived from it.
//   - RequestTimeout: upper bound for a single backend call.
//   - ExpiryCheckInterval: how often the session expiry watcher runs; 0 disables it.
//   - OnlineCheckInterval: how often the backend is pinged for the prompt status; 0 disables it.
//   - GuardStaleResults: discard backend results overtaken by a newer intent.
type Config struct {
	ServerEndpointAddr  string
	Backend             string
	StoreDriver         string
	StoreDSN            string
	RedisURL            string
	StorePassphrase     string
	RequestTimeout      time.Duration
	ExpiryCheckInterval time.Duration
	OnlineCheckInterval time.Duration
	GuardStaleResults   bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.Backend = BackendGRPC
	c.StoreDriver = StoreSQLite
	c.StoreDSN = "session.db"
	c.RedisURL = "redis://127.0.0.1:6379/0"
	c.StorePassphrase = ""
	c.RequestTimeout = 10 * time.Second
	c.ExpiryCheckInterval = 30 * time.Second
	c.OnlineCheckInterval = 10 * time.Second
	c.GuardStaleResults = false
}

// Load builds a Config from defaults, the optional config file and flags
// found in args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over os.Args. It panics on a bad file or flag.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}
