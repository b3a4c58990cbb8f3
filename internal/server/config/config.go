// Package config handles configuration for the reference identity server,
// including defaults, a JSON or TOML file overlay, and command-line flags.
package config

import (
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the identity server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC endpoint.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - SimulatedLatency: artificial delay added to every call.
//   - PasswordHashCost: bcrypt cost for stored passwords.
//   - LoginRatePerMinute / LoginBurst: per-email login throttling; 0 disables it.
//   - SeedDemoUsers: preload the demo accounts at startup.
type Config struct {
	EndpointAddrGRPC             string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	SimulatedLatency             time.Duration
	PasswordHashCost             int
	LoginRatePerMinute           int
	LoginBurst                   int
	SeedDemoUsers                bool
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour
	c.SimulatedLatency = 0
	c.PasswordHashCost = bcrypt.DefaultCost
	c.LoginRatePerMinute = 30
	c.LoginBurst = 10
	c.SeedDemoUsers = true
}

// Load builds a Config from defaults, then the config file named by -c or
// -config in args (if any), then the flags in args.
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

// LoadConfig is Load over the process arguments. It panics on a bad config
// file or flag.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}
