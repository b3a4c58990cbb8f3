package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   gRPC bind address (e.g. ":50051")
//	-k string   JWT HMAC secret key
//	-e int      access token validity, minutes
//	-l int      simulated latency, milliseconds
//	-seed bool  preload demo accounts
//
// Only these flags are picked out of args, so the config file flag and
// unrelated arguments do not interfere.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-k", "-e", "-l", "-seed"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.EndpointAddrGRPC, "a", cfg.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "JWT secret key")
	accessValidity := fs.Int("e", int(cfg.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	latency := fs.Int("l", int(cfg.SimulatedLatency.Milliseconds()), "simulated latency (in milliseconds)")
	fs.BoolVar(&cfg.SeedDemoUsers, "seed", cfg.SeedDemoUsers, "preload demo accounts")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.AccessTokenValidityDuration = time.Duration(*accessValidity) * time.Minute
	cfg.SimulatedLatency = time.Duration(*latency) * time.Millisecond
	return nil
}
