package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"AgroPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

func corsEcho() *echo.Echo {
	e := echo.New()
	e.Use(CORS(CORSConfig{
		AllowOrigins:  []string{"http://dashboard.local"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost},
		AllowHeaders:  []string{echo.HeaderContentType},
		ExposeHeaders: []string{"Retry-After"},
		MaxAge:        600,
	}))
	e.GET("/api/farm", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.OPTIONS("/api/farm", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return e
}

func TestCORSPreflight(t *testing.T) {
	e := corsEcho()
	req := httptest.NewRequest(http.MethodOptions, "/api/farm", nil)
	req.Header.Set(echo.HeaderOrigin, "http://dashboard.local")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowMethods); got != "GET, POST" {
		t.Fatalf("allow methods: %q", got)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlMaxAge); got != "600" {
		t.Fatalf("max age: %q", got)
	}
}

func TestCORSSimpleRequest(t *testing.T) {
	e := corsEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/farm", nil)
	req.Header.Set(echo.HeaderOrigin, "http://dashboard.local")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "http://dashboard.local" {
		t.Fatalf("allow origin: %q", got)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlExposeHeaders); got != "Retry-After" {
		t.Fatalf("expose headers: %q", got)
	}
}

func TestCORSUnknownOrigin(t *testing.T) {
	e := corsEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/farm", nil)
	req.Header.Set(echo.HeaderOrigin, "http://evil.local")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestRecover(t *testing.T) {
	e := echo.New()
	e.Use(Recover(logger.Nop()))
	e.GET("/boom", func(c echo.Context) error { panic("boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
