package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artefacto/heritage-api/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	body := []byte(`{"status":"success","data":{"temples":[]}}`)
	enc := encodePayload(200, echo.MIMEApplicationJSON, body)

	status, contentType, got, ok := decodePayload(enc)
	require.True(t, ok)
	assert.Equal(t, 200, status)
	assert.Equal(t, echo.MIMEApplicationJSON, contentType)
	assert.Equal(t, body, got)
}

func TestPayloadEmptyBody(t *testing.T) {
	enc := encodePayload(204, "", nil)
	status, contentType, body, ok := decodePayload(enc)
	require.True(t, ok)
	assert.Equal(t, 204, status)
	assert.Empty(t, contentType)
	assert.Empty(t, body)
}

func TestDecodePayloadTruncated(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{0, 0})
	assert.False(t, ok)

	// ctLen pointing past the buffer
	bad := encodePayload(200, "application/json", nil)[:8]
	_, _, _, ok = decodePayload(bad)
	assert.False(t, ok)
}

func newCacheCtx(t *testing.T, target, routePath string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(routePath)
	return c
}

func TestCacheKeyVariesWithQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}

	a := cacheKey(cfg, newCacheCtx(t, "/api/temples", "/api/temples"))
	b := cacheKey(cfg, newCacheCtx(t, "/api/temples?templeId=2", "/api/temples"))
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "cache:")

	// same path and query hash identically
	assert.Equal(t, a, cacheKey(cfg, newCacheCtx(t, "/api/temples", "/api/temples")))
}

func TestCacheKeyVariesWithPathParam(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}

	// Two ids served by the same registered route must never share an
	// entry, or one temple's detail would be answered with another's.
	a := cacheKey(cfg, newCacheCtx(t, "/api/temples/1", "/api/temples/:id"))
	b := cacheKey(cfg, newCacheCtx(t, "/api/temples/2", "/api/temples/:id"))
	assert.NotEqual(t, a, b)
}

func TestNewRedisCacheDisabledPassesThrough(t *testing.T) {
	mwFn := NewRedisCache(config.CacheConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/temples", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	require.NoError(t, mwFn(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c))
	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
