package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMethods(t *testing.T) {
	m := parseMethods("get, head ,POST")
	assert.True(t, m["GET"])
	assert.True(t, m["HEAD"])
	assert.True(t, m["POST"])
	assert.False(t, m["DELETE"])

	assert.Empty(t, parseMethods(""))
}

func TestParseDur(t *testing.T) {
	assert.Equal(t, 45*time.Second, parseDur("45s"))
	assert.Equal(t, 2*time.Minute, parseDur("2m"))
	// malformed input falls back to one second
	assert.Equal(t, time.Second, parseDur("soon"))
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	for _, k := range []string{"CACHE_ENABLED", "CACHE_METHODS", "CACHE_TTL", "CACHE_PREFIX", "CACHE_MAX_BODY_BYTES"} {
		t.Setenv(k, "")
	}
	cfg := LoadCacheConfig()
	assert.True(t, cfg.Methods["GET"])
	assert.Equal(t, "cache", cfg.Prefix)
	assert.Equal(t, 1048576, cfg.MaxBodyBytes)
}
