package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "depreciation-service", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "depreciation", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "memory", cfg.Lock.Backend)
	assert.Equal(t, 30*time.Second, cfg.Lock.TTL)
	assert.Equal(t, "0 2 1 * *", cfg.Scheduler.CronSchedule)
	assert.Equal(t, 3, cfg.Scheduler.RetryAttempts)
	assert.Equal(t, "EUR", cfg.Company.Currency)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DEP_APP_PORT", "9000")
	t.Setenv("DEP_DATABASE_HOST", "db.internal")
	t.Setenv("DEP_DATABASE_PORT", "5433")
	t.Setenv("DEP_LOCK_BACKEND", "redis")
	t.Setenv("DEP_SCHEDULER_ENABLED", "true")
	t.Setenv("DEP_SCHEDULER_JOB_TIMEOUT", "10m")
	t.Setenv("DEP_COMPANY_CURRENCY", "USD")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "redis", cfg.Lock.Backend)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Scheduler.JobTimeout)
	assert.Equal(t, "USD", cfg.Company.Currency)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dep.toml")
	content := `
[app]
port = "7070"

[lock]
backend = "redis"
ttl = "1m"

[company]
currency = "GBP"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.App.Port)
	assert.Equal(t, "redis", cfg.Lock.Backend)
	assert.Equal(t, time.Minute, cfg.Lock.TTL)
	assert.Equal(t, "GBP", cfg.Company.Currency)

	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid"},
		{
			name:    "idle exceeds open",
			mutate:  func(c *Config) { c.Database.MaxIdleConns = 30 },
			wantErr: "cannot exceed",
		},
		{
			name:    "unknown lock backend",
			mutate:  func(c *Config) { c.Lock.Backend = "etcd" },
			wantErr: "lock.backend",
		},
		{
			name:    "bad currency",
			mutate:  func(c *Config) { c.Company.Currency = "EURO" },
			wantErr: "company.currency",
		},
		{
			name:    "sampling ratio above one",
			mutate:  func(c *Config) { c.Telemetry.SamplingRatio = 1.5 },
			wantErr: "sampling_ratio",
		},
		{
			name: "production requires password",
			mutate: func(c *Config) {
				c.App.Env = "production"
				c.Database.SSLMode = "require"
			},
			wantErr: "database.password",
		},
		{
			name: "production rejects wildcard origin",
			mutate: func(c *Config) {
				c.App.Env = "production"
				c.Database.Password = "secret"
				c.Database.SSLMode = "require"
				c.HTTP.CORSAllowOrigins = []string{"*"}
			},
			wantErr: "cors_allow_origins",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "dep", Password: "p@ss/word", DBName: "assets", SSLMode: "disable"}
	assert.Equal(t, "postgres://dep:p%40ss%2Fword@db:5432/assets?sslmode=disable", d.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}
