package middleware

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rawaz/digital-menu/internal/config"
)

// captureWriter tees the response body up to a size limit while forwarding
// it to the client, so successful responses can be stored after the handler
// runs.
type captureWriter struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	size     int64
	limit    int64
	overflow bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.size += int64(len(b))
	if cw.size <= cw.limit {
		cw.buf.Write(b)
	} else {
		cw.overflow = true
	}
	return cw.ResponseWriter.Write(b)
}

// ResponseCache caches successful public GET responses in Redis. The menu
// is read-heavy and changes only when an admin edits it, so a short TTL
// keeps the public surface fast without an explicit invalidation scheme.
// With a nil Redis client or disabled config the middleware is a no-op.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			if !cfg.Methods[r.Method] {
				return next(c)
			}
			key := strings.Join([]string{cfg.Prefix, r.Method, c.Path(), r.URL.RawQuery}, ":")

			if body, err := rdb.Get(r.Context(), key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, body)
			}

			cw := &captureWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK && !cw.overflow && cw.buf.Len() > 0 {
				_ = rdb.Set(r.Context(), key, cw.buf.Bytes(), cfg.TTL).Err()
			}
			return nil
		}
	}
}
