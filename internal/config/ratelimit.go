package config

import "time"

// RateLimitConfig tunes the Redis token-bucket limiter applied to the auth
// routes. Each client (keyed by IP) gets a bucket of Capacity tokens refilled
// by RefillTokens every RefillInterval. TTL bounds how long idle bucket state
// lives in Redis.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// LoadRateLimitConfig reads environment variables to build a RateLimitConfig.
// The defaults allow short bursts while keeping credential-stuffing slow.
func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:        getenv("RATELIMIT_ENABLED", "true") == "true",
		Capacity:       atoi(getenv("RATELIMIT_CAPACITY", "10")),
		RefillTokens:   atoi(getenv("RATELIMIT_REFILL_TOKENS", "1")),
		RefillInterval: parseDur(getenv("RATELIMIT_REFILL_INTERVAL", "3s")),
		TTL:            parseDur(getenv("RATELIMIT_TTL", "10m")),
		Prefix:         getenv("RATELIMIT_PREFIX", "ratelimit"),
	}
}
