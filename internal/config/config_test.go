package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "HOST", "READ_TIMEOUT", "WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT",
		"FATSECRET_CLIENT_ID", "FATSECRET_CLIENT_SECRET", "FATSECRET_TOKEN_URL",
		"FATSECRET_SEARCH_URL", "FATSECRET_TIMEOUT", "CORS_ALLOWED_ORIGINS",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8888", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, defaultTokenURL, cfg.FatSecret.TokenURL)
	assert.Equal(t, defaultSearchURL, cfg.FatSecret.SearchURL)
	assert.Equal(t, 10*time.Second, cfg.FatSecret.RequestTimeout())
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)

	// missing credentials are not a configuration error
	assert.False(t, cfg.FatSecret.HasCredentials())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FATSECRET_CLIENT_ID", "id")
	t.Setenv("FATSECRET_CLIENT_SECRET", "secret")
	t.Setenv("FATSECRET_TIMEOUT", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.FatSecret.HasCredentials())
	assert.Equal(t, 3*time.Second, cfg.FatSecret.RequestTimeout())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	t.Setenv("FATSECRET_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.FatSecret.Timeout)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8888"},
			FatSecret: FatSecretConfig{TokenURL: "http://t", SearchURL: "http://s", Timeout: 5},
			LogLevel:  "info",
			LogFormat: "json",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "missing token url", mutate: func(c *Config) { c.FatSecret.TokenURL = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.FatSecret.Timeout = 0 }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "verbose" }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
