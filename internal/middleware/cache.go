package middleware

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/artefacto/heritage-api/internal/config"
)

// captureWriter tees the response body into a buffer while forwarding it to
// the client, so successful responses can be stored in Redis afterwards.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.size < cw.limit {
		if remain := cw.limit - cw.size; int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// cacheKey hashes the concrete request path + raw query under the configured
// prefix, so distinct path parameters and filters cache separately. The route
// pattern must not be used here: on parameterized routes like /temples/:id it
// is identical for every id.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Request().URL.Path + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// payload layout: [4 bytes status][2 bytes ctLen][contentType][body]
func encodePayload(status int, contentType string, body []byte) []byte {
	out := make([]byte, 6+len(contentType)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint16(out[4:6], uint16(len(contentType)))
	copy(out[6:], contentType)
	copy(out[6+len(contentType):], body)
	return out
}

func decodePayload(bs []byte) (status int, contentType string, body []byte, ok bool) {
	if len(bs) < 6 {
		return 0, "", nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	ctLen := int(binary.BigEndian.Uint16(bs[4:6]))
	if 6+ctLen > len(bs) {
		return 0, "", nil, false
	}
	return status, string(bs[6 : 6+ctLen]), bs[6+ctLen:], true
}

// NewRedisCache returns a middleware that serves cached responses for the
// configured methods and stores fresh 200 responses with the configured TTL.
// A nil Redis client or a disabled config yields a pass-through middleware.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, contentType, body, ok := decodePayload(bs); ok {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(status, contentType, body)
				}
			}

			cw := &captureWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Header().Set("X-Cache", "MISS")
			c.Response().Writer = cw

			if err := next(c); err != nil {
				return err
			}
			// only cache complete 200 responses
			if cw.status == http.StatusOK && cw.size <= cw.limit {
				contentType := c.Response().Header().Get(echo.HeaderContentType)
				_ = rdb.Set(ctx, key, encodePayload(cw.status, contentType, cw.buf.Bytes()), ttl).Err()
			}
			return nil
		}
	}
}
