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

// fileConfig is the on-disk shape of Config. Zero values leave the current
// setting untouched.
type fileConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc" toml:"endpoint_addr_grpc"`
	SecretKey                    string         `json:"secret_key" toml:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration" toml:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration" toml:"refresh_token_validity_duration"`
	SimulatedLatency             timex.Duration `json:"simulated_latency" toml:"simulated_latency"`
	PasswordHashCost             int            `json:"password_hash_cost" toml:"password_hash_cost"`
	LoginRatePerMinute           *int           `json:"login_rate_per_minute" toml:"login_rate_per_minute"`
	LoginBurst                   int            `json:"login_burst" toml:"login_burst"`
	SeedDemoUsers                *bool          `json:"seed_demo_users" toml:"seed_demo_users"`
}

// parseFile overlays cfg with the file named by -c/-config. Files ending in
// .toml are decoded as TOML, everything else as JSON.
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

	if fc.EndpointAddrGRPC != "" {
		cfg.EndpointAddrGRPC = fc.EndpointAddrGRPC
	}
	if fc.SecretKey != "" {
		cfg.SecretKey = fc.SecretKey
	}
	if fc.AccessTokenValidityDuration.Duration != 0 {
		cfg.AccessTokenValidityDuration = fc.AccessTokenValidityDuration.Duration
	}
	if fc.RefreshTokenValidityDuration.Duration != 0 {
		cfg.RefreshTokenValidityDuration = fc.RefreshTokenValidityDuration.Duration
	}
	if fc.SimulatedLatency.Duration != 0 {
		cfg.SimulatedLatency = fc.SimulatedLatency.Duration
	}
	if fc.PasswordHashCost != 0 {
		cfg.PasswordHashCost = fc.PasswordHashCost
	}
	if fc.LoginRatePerMinute != nil {
		cfg.LoginRatePerMinute = *fc.LoginRatePerMinute
	}
	if fc.LoginBurst != 0 {
		cfg.LoginBurst = fc.LoginBurst
	}
	if fc.SeedDemoUsers != nil {
		cfg.SeedDemoUsers = *fc.SeedDemoUsers
	}
	return nil
}
