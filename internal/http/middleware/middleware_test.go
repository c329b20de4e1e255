package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmehdipour/phone-engine/internal/http/middleware"
	"github.com/jmehdipour/phone-engine/internal/model"
	echo "github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClients map[string]*model.APIClient

func (f fakeClients) GetByAPIKey(_ context.Context, key string) (*model.APIClient, error) {
	if key == "broken" {
		return nil, errors.New("db down")
	}
	return f[key], nil
}

func intptr(i int) *int { return &i }

func newEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		id, _ := middleware.ClientIDFromCtx(c)
		return c.JSON(http.StatusOK, map[string]int64{"client_id": id})
	}, mw...)
	return e
}

func do(e *echo.Echo, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAPIKeyMiddleware(t *testing.T) {
	clients := fakeClients{
		"good":      {ID: 7, Status: "active"},
		"suspended": {ID: 8, Status: "suspended"},
	}
	e := newEcho(middleware.APIKeyMiddleware(clients))

	tests := []struct {
		name string
		key  string
		code int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"unknown", "nope", http.StatusUnauthorized},
		{"suspended", "suspended", http.StatusUnauthorized},
		{"lookup error", "broken", http.StatusInternalServerError},
		{"active", "good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, tt.key)
			assert.Equal(t, tt.code, rec.Code)
		})
	}

	assert.JSONEq(t, `{"client_id":7}`, do(e, "good").Body.String())
}

func TestRateLimitMiddleware(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	now := time.Date(2026, 1, 1, 0, 0, 0, 400*int(time.Millisecond), time.UTC)
	clients := fakeClients{
		"two":     {ID: 1, Status: "active", RateLimitRPS: intptr(2)},
		"default": {ID: 2, Status: "active"},
	}
	e := newEcho(
		middleware.APIKeyMiddleware(clients),
		middleware.RateLimitMiddleware(middleware.RateLimitConfig{
			Redis:          rdb,
			DefaultRPS:     1,
			RetryAfterHint: true,
			Now:            func() time.Time { return now },
		}),
	)

	t.Run("per client limit", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(e, "two").Code)
		assert.Equal(t, http.StatusOK, do(e, "two").Code)
		rec := do(e, "two")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	})

	t.Run("default limit", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(e, "default").Code)
		assert.Equal(t, http.StatusTooManyRequests, do(e, "default").Code)
	})

	t.Run("next window resets", func(t *testing.T) {
		now = now.Add(time.Second)
		assert.Equal(t, http.StatusOK, do(e, "two").Code)
	})

	t.Run("fails open without redis", func(t *testing.T) {
		mr.Close()
		assert.Equal(t, http.StatusOK, do(e, "default").Code)
	})
}
