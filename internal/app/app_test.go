package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quoteroom/quoteroom/internal/auth"
	"github.com/quoteroom/quoteroom/internal/observability"
	"github.com/quoteroom/quoteroom/internal/proxy"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *Config {
	return &Config{
		AppEnv:             "test",
		AppRequestTimeout:  5 * time.Second,
		JWTSecret:          "secret",
		JWTTTL:             time.Hour,
		AdminUsername:      "admin",
		AdminPassword:      "hunter22",
		RateLimitPerMinute: 1000,
	}
}

func testRouter(cfg *Config) http.Handler {
	logger := quietLogger()
	authService := auth.NewService(cfg.Credentials(), auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL), nil)
	return NewRouter(RouterParams{
		Logger:       logger,
		Config:       cfg,
		Metrics:      observability.NewMetrics(),
		AuthService:  authService,
		AuthHandler:  auth.NewHandler(logger, authService, false),
		ProxyHandler: proxy.NewHandler(nil, logger, nil),
	})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("S3_BUCKET", "assets")
	t.Setenv("S3_ACCESS_KEY", "ak")
	t.Setenv("S3_SECRET_KEY", "sk")
	t.Setenv("AUTH_ENFORCE", "true")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.AuthEnforce)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.True(t, cfg.StorageConfigured())
	assert.Equal(t, "assets", cfg.Storage().Bucket)
	assert.Equal(t, "auto", cfg.Storage().Region)
	assert.Equal(t, "admin", cfg.Credentials().Username)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestStorageConfiguredNeedsCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.S3Bucket = "assets"
	assert.False(t, cfg.StorageConfigured())
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, &Config{LogFormat: "json", AppEnv: "production"}).Info("hello", slog.String("k", "v"))
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])

	buf.Reset()
	newLogger(&buf, &Config{LogFormat: "pretty"}).Debug("dbg")
	assert.Contains(t, buf.String(), "msg=dbg")
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(testConfig()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["ok"])
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Frame-Options"))
}

func TestHealthzReportsDatabaseFailure(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(RouterParams{
		Logger: quietLogger(),
		Config: cfg,
		Ready:  func(context.Context) error { return errors.New("db down") },
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(testConfig()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode(t, rec)["ok"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter(testConfig())
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `quoteroom_http_requests_total{code="200",route="/healthz"}`)
}

func TestAuthNotEnforcedLetsRequestsThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(testConfig()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/proxy", nil))
	// Reaches the proxy handler, which rejects the missing url.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthEnforcedLoginFlow(t *testing.T) {
	cfg := testConfig()
	cfg.AuthEnforce = true
	router := testRouter(cfg)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/proxy", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"admin","password":"hunter22"}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "admin", data["username"])
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 2
	router := testRouter(cfg)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		router.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, false, decode(t, last)["ok"])
}

func TestInTestMode(t *testing.T) {
	t.Setenv("QUOTEROOM_TEST_MODE", "1")
	RefreshTestMode()
	assert.True(t, InTestMode())
	t.Setenv("QUOTEROOM_TEST_MODE", "")
	RefreshTestMode()
	assert.False(t, InTestMode())
}
