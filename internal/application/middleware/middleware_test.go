package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"todo-api/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
)

func newLimitedEcho(t *testing.T, limit int64) (*echo.Echo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	port, _ := strconv.Atoi(mr.Port())
	client, err := redis.NewClient(redis.NewRedisConfig().WithHost(mr.Host()).WithPort(port))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = client.Close() })

	limiter, err := redis.NewRateLimiter(client, redis.NewRateLimiterOptions().WithLimit(limit).WithWindow(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	e := echo.New()
	SetupDefaults(e, "http://localhost:3000")
	e.Use(RateLimit(limiter))
	e.GET("/api/todos", func(c echo.Context) error { return c.JSON(http.StatusOK, []string{}) })
	e.GET("/api/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return e, mr
}

func serve(e *echo.Echo, path string, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	e, _ := newLimitedEcho(t, 2)

	for i := 0; i < 2; i++ {
		if rec := serve(e, "/api/todos", "10.0.0.1:1234"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: got %d", i, rec.Code)
		}
	}

	rec := serve(e, "/api/todos", "10.0.0.1:1234")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("remaining header: %q", rec.Header().Get("X-RateLimit-Remaining"))
	}

	if rec := serve(e, "/api/todos", "10.0.0.2:1234"); rec.Code != http.StatusOK {
		t.Errorf("other client should not be limited, got %d", rec.Code)
	}
	if rec := serve(e, "/api/health", "10.0.0.1:1234"); rec.Code != http.StatusOK {
		t.Errorf("health must not be limited, got %d", rec.Code)
	}
}

func TestRateLimitIgnoresForwardedHeaders(t *testing.T) {
	e, _ := newLimitedEcho(t, 2)

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set(echo.HeaderXForwardedFor, "203.0.113."+strconv.Itoa(i))
		req.Header.Set(echo.HeaderXRealIP, "198.51.100."+strconv.Itoa(i))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		want := http.StatusOK
		if i >= 2 {
			want = http.StatusTooManyRequests
		}
		if rec.Code != want {
			t.Fatalf("request %d: got %d, want %d", i, rec.Code, want)
		}
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	e, mr := newLimitedEcho(t, 1)
	mr.Close()

	if rec := serve(e, "/api/todos", "10.0.0.1:1234"); rec.Code != http.StatusOK {
		t.Errorf("expected request through when redis is down, got %d", rec.Code)
	}
}

func TestSetupDefaultsCORS(t *testing.T) {
	e := echo.New()
	SetupDefaults(e, "http://localhost:3000")
	SetupRequestLogger(e)
	e.GET("/api/todos", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/todos", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPatch)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight: got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "http://localhost:3000" {
		t.Errorf("allow origin: %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set(echo.HeaderOrigin, "http://evil.example")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "" {
		t.Errorf("foreign origin must not be allowed, got %q", got)
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Error("request id header missing")
	}
}
