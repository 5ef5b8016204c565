package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
	assert.Equal(t, 50, cfg.LogMaxSizeMB)
	assert.Equal(t, 5, cfg.LogMaxBackups)
	assert.Equal(t, 30, cfg.LogMaxAgeDays)
	assert.True(t, cfg.LogCompress)
	assert.Equal(t, "127.0.0.1:8270", cfg.ListenAddr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("GEOEDIT_DB_PATH", "/data/airports.db")
	t.Setenv("GEOEDIT_LOG_LEVEL", "debug")
	t.Setenv("GEOEDIT_LOG_FILE", "/var/log/geoedit.log")
	t.Setenv("GEOEDIT_LOG_MAX_SIZE_MB", "10")
	t.Setenv("GEOEDIT_LOG_COMPRESS", "false")
	t.Setenv("GEOEDIT_LISTEN_ADDR", ":9000")
	t.Setenv("GEOEDIT_ALLOW_SUBNET", "10.0.0.0/8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/airports.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/log/geoedit.log", cfg.LogFile)
	assert.Equal(t, 10, cfg.LogMaxSizeMB)
	assert.False(t, cfg.LogCompress)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	require.NoError(t, cfg.Validate())

	ipNet, err := cfg.AllowedNet()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.0/8", ipNet.String())
}

func TestLoad_BadNumber(t *testing.T) {
	t.Setenv("GEOEDIT_LOG_MAX_BACKUPS", "many")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{LogLevel: "info", LogMaxSizeMB: 50, LogMaxBackups: 5, LogMaxAgeDays: 30}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "invalid log level"},
		{name: "zero size", mutate: func(c *Config) { c.LogMaxSizeMB = 0 }, wantErr: "log max size"},
		{name: "negative backups", mutate: func(c *Config) { c.LogMaxBackups = -1 }, wantErr: "retention"},
		{name: "bad subnet", mutate: func(c *Config) { c.AllowSubnet = "10.0.0.0" }, wantErr: "invalid allowed subnet"},
		{name: "ipv6 subnet", mutate: func(c *Config) { c.AllowSubnet = "fd00::/8" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAllowedNet_Empty(t *testing.T) {
	ipNet, err := (&Config{}).AllowedNet()
	assert.NoError(t, err)
	assert.Nil(t, ipNet)
}

func TestParseSubnet(t *testing.T) {
	ipNet, err := ParseSubnet("192.168.1.17/24")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.0/24", ipNet.String())

	ipNet, err = ParseSubnet("")
	require.NoError(t, err)
	assert.Nil(t, ipNet)

	_, err = ParseSubnet("not-a-cidr")
	assert.ErrorContains(t, err, `invalid allowed subnet "not-a-cidr"`)
}

func TestGlobalTimeouts(t *testing.T) {
	orig := GetTimeouts()
	t.Cleanup(func() { SetGlobalTimeouts(orig) })

	assert.Equal(t, 30*time.Second, orig.WebSocketPing)

	SetGlobalTimeouts(&TimeoutConfig{WebSocketPing: time.Second, WebSocketWrite: 2 * time.Second, ShutdownGrace: 3 * time.Second})
	assert.Equal(t, time.Second, GetTimeouts().WebSocketPing)
	assert.Equal(t, 3*time.Second, GetTimeouts().ShutdownGrace)
}
