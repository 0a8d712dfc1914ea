package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string

	// HomeCountry is the domestic nationality; passport numbers are
	// required only for applicants of any other nationality.
	HomeCountry string

	// StatsTimezone is the IANA zone used for daily ledger windows.
	StatsTimezone string

	JWTSecret     string
	SessionTTL    time.Duration
	AdminAPIKey   string
	AdminPassword string
	GuardPassword string

	ScanRateLimit       int
	ScanRateWindowSecs  int
	RateLimitMaxKeys    int
	RateLimitFailClosed bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func FromEnv() Config {
	return Config{
		HTTPAddr:            envDefault("HTTP_ADDR", ":8080"),
		PostgresDSN:         os.Getenv("POSTGRES_DSN"),
		HomeCountry:         envDefault("HOME_COUNTRY", "한국"),
		StatsTimezone:       envDefault("STATS_TIMEZONE", "Asia/Seoul"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		SessionTTL:          time.Duration(envIntDefault("SESSION_TTL_MINUTES", 720)) * time.Minute,
		AdminAPIKey:         os.Getenv("ADMIN_API_KEY"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
		GuardPassword:       os.Getenv("GUARD_PASSWORD"),
		ScanRateLimit:       envIntDefault("SCAN_RATE_LIMIT", 0),
		ScanRateWindowSecs:  envIntDefault("SCAN_RATE_WINDOW_SECONDS", 60),
		RateLimitMaxKeys:    envIntDefault("RATE_LIMIT_MAX_KEYS", 10000),
		RateLimitFailClosed: envBoolDefault("RATE_LIMIT_FAIL_CLOSED", false),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             envIntDefault("REDIS_DB", 0),
	}
}

// StatsLocation resolves StatsTimezone, falling back to the process local
// zone when the name does not load.
func (c Config) StatsLocation() *time.Location {
	loc, err := time.LoadLocation(c.StatsTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c Config) ScanRateWindow() time.Duration {
	secs := c.ScanRateWindowSecs
	if secs <= 0 {
		secs = 60
	}
	return time.Duration(secs) * time.Second
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func envBoolDefault(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "YES", "Yes":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "No":
		return false
	default:
		return def
	}
}
