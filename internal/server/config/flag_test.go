package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags_OverridesFields(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"server", "-a", ":6060", "-d", "postgres://x", "-s", "flag-access", "-k", "flag-refresh", "-t", "30", "-r", "1440", "-b", "uploads"}
	defer func() { os.Args = oldArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":6060", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
	assert.Equal(t, "flag-access", cfg.AccessTokenSecret)
	assert.Equal(t, "flag-refresh", cfg.RefreshTokenSecret)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, "uploads", cfg.S3Bucket)
}

func TestParseFlags_UnknownFlagsIgnored(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"server", "-z", "whatever", "-a", ":5050"}
	defer func() { os.Args = oldArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":5050", cfg.EndpointAddrHTTP)
}
