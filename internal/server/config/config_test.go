package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 10*24*time.Hour, cfg.RefreshTokenValidityDuration)
	assert.NotEmpty(t, cfg.AccessTokenSecret)
	assert.NotEmpty(t, cfg.RefreshTokenSecret)
	assert.NotEqual(t, cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	assert.Equal(t, 5, cfg.MaxLoginAttempts)
}

func TestParseJson_OverridesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	body := `{
		"endpoint_addr_http": ":9090",
		"database_dsn": "postgres://u:p@h:5432/db",
		"access_token_secret": "aaa",
		"refresh_token_secret": "rrr",
		"access_token_validity_duration": "5m",
		"refresh_token_validity_duration": "240h",
		"request_timeout": "3s",
		"redis_addr": "localhost:6379",
		"max_login_attempts": 3,
		"cookie_secure": true
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	oldArgs := os.Args
	os.Args = []string{"server", "-c", path}
	defer func() { os.Args = oldArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://u:p@h:5432/db", cfg.DatabaseDSN)
	assert.Equal(t, "aaa", cfg.AccessTokenSecret)
	assert.Equal(t, "rrr", cfg.RefreshTokenSecret)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 240*time.Hour, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.MaxLoginAttempts)
	assert.True(t, cfg.CookieSecure)
}

func TestParseEnv_OverridesFields(t *testing.T) {
	t.Setenv("ADDRESS", ":7070")
	t.Setenv("ACCESS_TOKEN_SECRET", "env-access")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "2m")
	t.Setenv("MAX_LOGIN_ATTEMPTS", "9")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, "env-access", cfg.AccessTokenSecret)
	assert.Equal(t, 2*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 9, cfg.MaxLoginAttempts)
	assert.True(t, cfg.CookieSecure)
}

func TestParseEnv_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRY", "soon")
	t.Setenv("MAX_LOGIN_ATTEMPTS", "many")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 5, cfg.MaxLoginAttempts)
}
