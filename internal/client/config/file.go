package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/sessionkeeper/internal/flagx"
	"github.com/dmitrijs2005/sessionkeeper/internal/timex"
)

// fileConfig is a DTO used exclusively for file decoding. Empty values
// leave the current setting alone.
type fileConfig struct {
	ServerEndpointAddr  string          `json:"server_endpoint_addr" toml:"server_endpoint_addr"`
	Backend             string          `json:"backend" toml:"backend"`
	StoreDriver         string          `json:"store_driver" toml:"store_driver"`
	StoreDSN            string          `json:"store_dsn" toml:"store_dsn"`
	RedisURL            string          `json:"redis_url" toml:"redis_url"`
	StorePassphrase     string          `json:"store_passphrase" toml:"store_passphrase"`
	RequestTimeout      timex.Duration  `json:"request_timeout" toml:"request_timeout"`
	ExpiryCheckInterval *timex.Duration `json:"expiry_check_interval" toml:"expiry_check_interval"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval" toml:"online_check_interval"`
	GuardStaleResults   *bool           `json:"guard_stale_results" toml:"guard_stale_results"`
}

func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &fc)
	} else {
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	setString(&cfg.ServerEndpointAddr, fc.ServerEndpointAddr)
	setString(&cfg.Backend, fc.Backend)
	setString(&cfg.StoreDriver, fc.StoreDriver)
	setString(&cfg.StoreDSN, fc.StoreDSN)
	setString(&cfg.RedisURL, fc.RedisURL)
	setString(&cfg.StorePassphrase, fc.StorePassphrase)
	if fc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.ExpiryCheckInterval != nil {
		cfg.ExpiryCheckInterval = fc.ExpiryCheckInterval.Duration
	}
	if fc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.GuardStaleResults != nil {
		cfg.GuardStaleResults = *fc.GuardStaleResults
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
