package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the identity server
//	-b string   backend: grpc or local
//	-s string   store driver: sqlite, redis or memory
//	-d string   SQLite database path
//	-r string   Redis URL
//	-p string   store passphrase (enables record sealing)
//	-t int      request timeout, seconds
//	-i int      expiry check interval, seconds (0 disables)
//	-o int      online check interval, seconds (0 disables)
//	-g bool     discard stale backend results
func parseFlags(cfg *Config, args []string) error {
	// Filter args to include only those handled here.
	args = flagx.FilterArgs(args, []string{"-a", "-b", "-s", "-d", "-r", "-p", "-t", "-i", "-o", "-g"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "backend (grpc|local)")
	fs.StringVar(&cfg.StoreDriver, "s", cfg.StoreDriver, "session store driver (sqlite|redis|memory)")
	fs.StringVar(&cfg.StoreDSN, "d", cfg.StoreDSN, "SQLite database path")
	fs.StringVar(&cfg.RedisURL, "r", cfg.RedisURL, "Redis URL")
	fs.StringVar(&cfg.StorePassphrase, "p", cfg.StorePassphrase, "store passphrase")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.ExpiryCheckInterval.Seconds()), "expiry check interval (in seconds)")
	online := fs.Int("o", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.BoolVar(&cfg.GuardStaleResults, "g", cfg.GuardStaleResults, "discard stale backend results")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.ExpiryCheckInterval = time.Duration(*interval) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*online) * time.Second

	return cfg.validate()
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendGRPC, BackendLocal:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.StoreDriver {
	case StoreSQLite, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	return nil
}
