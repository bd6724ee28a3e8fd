package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A .env file in the
// working directory is loaded first if present; real environment variables
// win over .env entries (godotenv does not override existing vars).
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString(&config.EndpointAddrHTTP, "ADDRESS")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.AccessTokenSecret, "ACCESS_TOKEN_SECRET")
	setString(&config.RefreshTokenSecret, "REFRESH_TOKEN_SECRET")
	setDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_EXPIRY")
	setDuration(&config.RefreshTokenValidityDuration, "REFRESH_TOKEN_EXPIRY")
	setDuration(&config.RequestTimeout, "REQUEST_TIMEOUT")
	setString(&config.S3RootUser, "S3_ROOT_USER")
	setString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	setString(&config.RedisAddr, "REDIS_ADDR")
	setString(&config.RedisPassword, "REDIS_PASSWORD")
	setInt(&config.MaxLoginAttempts, "MAX_LOGIN_ATTEMPTS")
	setDuration(&config.LoginCooldownDuration, "LOGIN_COOLDOWN")
	setBool(&config.CookieSecure, "COOKIE_SECURE")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
