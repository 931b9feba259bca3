package proxy

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (c *countingRecorder) ProxyFetch(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcomes == nil {
		c.outcomes = map[string]int{}
	}
	c.outcomes[outcome]++
}

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/proxy", h.MountRoutes)
	return r
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/proxy?url="+url.QueryEscape(target), nil))
	return rec
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProxyPassesThroughBodyAndContentType(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("pngbytes"))
	}))
	defer upstream.Close()

	rec := &countingRecorder{}
	res := get(newRouter(NewHandler(nil, quietLogger(), rec)), upstream.URL+"/logo.png")

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "image/png", res.Header().Get("Content-Type"))
	assert.Equal(t, "pngbytes", res.Body.String())
	assert.Equal(t, 1, rec.outcomes["ok"])
}

func TestProxyPassesThroughUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	defer upstream.Close()

	res := get(newRouter(NewHandler(nil, quietLogger(), nil)), upstream.URL+"/missing")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Contains(t, res.Header().Get("Content-Type"), "text/plain")
}

func TestProxyRejectsBadURLs(t *testing.T) {
	router := newRouter(NewHandler(nil, quietLogger(), nil))
	for _, target := range []string{"", "ftp://example.com/a", "file:///etc/passwd", "http://"} {
		res := get(router, target)
		assert.Equal(t, http.StatusBadRequest, res.Code, target)
		var body map[string]any
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.Equal(t, false, body["ok"])
	}
}

func TestProxyRejectsOversizedBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer upstream.Close()

	h := NewHandler(nil, quietLogger(), nil)
	h.maxBytes = 32
	res := get(newRouter(h), upstream.URL)
	assert.Equal(t, http.StatusBadGateway, res.Code)
}

func TestProxyUpstreamUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	addr := upstream.URL
	upstream.Close()

	rec := &countingRecorder{}
	res := get(newRouter(NewHandler(nil, quietLogger(), rec)), addr)
	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, 1, rec.outcomes["error"])
}

func TestProxyCoalescesConcurrentFetches(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte("shared"))
	}))
	defer upstream.Close()

	router := newRouter(NewHandler(nil, quietLogger(), nil))
	const callers = 5
	var wg sync.WaitGroup
	bodies := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bodies[i] = get(router, upstream.URL+"/same").Body.String()
		}(i)
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, b := range bodies {
		assert.Equal(t, "shared", b)
	}
	assert.Less(t, hits.Load(), int32(callers))
}
