package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
driver = "memory"

[scheduling]
timezone = "Europe/Berlin"

[admission]
lock_timeout_ms = 1500

[cache]
driver = "redis"
ttl_seconds = 5

[cache.redis]
addr = "redis:6379"
db = 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, DatabaseDriverMemory, cfg.Database.Driver)
	assert.Equal(t, 1500*time.Millisecond, cfg.Admission.LockTimeout())
	assert.Equal(t, 5*time.Second, cfg.Cache.TTL())
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 2, cfg.Cache.Redis.DB)
	// значения по умолчанию сохраняются
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "coach_booking:settings", cfg.Cache.Redis.Key)

	loc, err := cfg.Scheduling.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "file-host"
`)
	t.Setenv("DB_HOST", "env-host")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Contains(t, cfg.Database.DSN(), "password=secret")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad timezone", func(c *Config) { c.Scheduling.Timezone = "Mars/Olympus" }},
		{"zero lock timeout", func(c *Config) { c.Admission.LockTimeoutMs = 0 }},
		{"unknown db driver", func(c *Config) { c.Database.Driver = "sqlite" }},
		{"unknown cache driver", func(c *Config) { c.Cache.Driver = "memcached" }},
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	require.NoError(t, Default().Validate())
}
