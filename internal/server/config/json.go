package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mpetrenko/clipstream/internal/flagx"
	"github.com/mpetrenko/clipstream/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Duration fields accept both strings such as "15m" and integer
// nanoseconds. After unmarshalling, its fields are copied into Config.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	AccessTokenSecret            string         `json:"access_token_secret"`
	RefreshTokenSecret           string         `json:"refresh_token_secret"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	RequestTimeout               timex.Duration `json:"request_timeout"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	RedisAddr                    string         `json:"redis_addr"`
	RedisPassword                string         `json:"redis_password"`
	MaxLoginAttempts             int            `json:"max_login_attempts"`
	LoginCooldownDuration        timex.Duration `json:"login_cooldown_duration"`
	CookieSecure                 bool           `json:"cookie_secure"`
}

// parseJson loads configuration values from the JSON file named by the
// -c or -config command-line flags. If neither flag is set, nothing is loaded.
// Unreadable or invalid files panic: a config file that was asked for but
// cannot be used is a startup error.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.AccessTokenSecret = c.AccessTokenSecret
	config.RefreshTokenSecret = c.RefreshTokenSecret
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration.Duration)
	config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.RedisAddr = c.RedisAddr
	config.RedisPassword = c.RedisPassword
	config.MaxLoginAttempts = c.MaxLoginAttempts
	config.LoginCooldownDuration = time.Duration(c.LoginCooldownDuration.Duration)
	config.CookieSecure = c.CookieSecure
}
