package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, BackendGRPC, c.Backend)
	assert.Equal(t, StoreSQLite, c.StoreDriver)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 30*time.Second, c.ExpiryCheckInterval)
	assert.Equal(t, 10*time.Second, c.OnlineCheckInterval)
	assert.False(t, c.GuardStaleResults)
}

func TestLoad_Flags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name: "every flag",
			args: []string{"-a", "10.0.0.1:9000", "-b", "local", "-s", "redis", "-d", "x.db",
				"-r", "redis://cache:6379/1", "-p", "hunter2", "-t", "3", "-i", "0", "-o", "5", "-g"},
			mutate: func(c *Config) {
				c.ServerEndpointAddr = "10.0.0.1:9000"
				c.Backend = BackendLocal
				c.StoreDriver = StoreRedis
				c.StoreDSN = "x.db"
				c.RedisURL = "redis://cache:6379/1"
				c.StorePassphrase = "hunter2"
				c.RequestTimeout = 3 * time.Second
				c.ExpiryCheckInterval = 0
				c.OnlineCheckInterval = 5 * time.Second
				c.GuardStaleResults = true
			},
		},
		{name: "unknown backend", args: []string{"-b", "carrier-pigeon"}, wantErr: true},
		{name: "unknown store", args: []string{"-s", "floppy"}, wantErr: true},
		{name: "bad timeout", args: []string{"-t", "soon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := &Config{}
			want.LoadDefaults()
			tt.mutate(want)
			assert.Empty(t, cmp.Diff(want, got))
		})
	}
}

func TestLoad_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_endpoint_addr": "example.org:443",
		"store_driver": "memory",
		"request_timeout": "2s",
		"expiry_check_interval": "0s",
		"guard_stale_results": true
	}`), 0o600))

	got, err := Load([]string{"-config", path, "-t", "5"})
	require.NoError(t, err)

	assert.Equal(t, "example.org:443", got.ServerEndpointAddr)
	assert.Equal(t, StoreMemory, got.StoreDriver)
	assert.Equal(t, 5*time.Second, got.RequestTimeout, "flags override the file")
	assert.Equal(t, time.Duration(0), got.ExpiryCheckInterval)
	assert.True(t, got.GuardStaleResults)
	assert.Equal(t, "session.db", got.StoreDSN)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend = "local"
store_dsn = "/tmp/s.db"
expiry_check_interval = "1m"
online_check_interval = "0s"
`), 0o600))

	got, err := Load([]string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, got.Backend)
	assert.Equal(t, "/tmp/s.db", got.StoreDSN)
	assert.Equal(t, time.Minute, got.ExpiryCheckInterval)
	assert.Equal(t, time.Duration(0), got.OnlineCheckInterval)
}

func TestLoad_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.toml")
	require.NoError(t, os.WriteFile(path, []byte(`backend = `), 0o600))

	_, err := Load([]string{"-c", path})
	assert.Error(t, err)
}
