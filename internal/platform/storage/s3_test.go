package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/quoteroom/quoteroom/testing"
)

type s3Fake struct {
	mu       sync.Mutex
	requests []string
}

func (f *s3Fake) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, _ = io.Copy(io.Discard, r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.mu.Unlock()

	switch {
	case r.Method == http.MethodPut:
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete && r.URL.Path == "/assets/missing.png":
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
	case r.Method == http.MethodDelete && r.URL.Path == "/assets/locked.png":
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3(t *testing.T) (*S3, *s3Fake) {
	t.Helper()
	fake := &s3Fake{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewS3(context.Background(), Config{
		Endpoint:      srv.URL,
		Region:        "us-east-1",
		Bucket:        "assets",
		AccessKey:     "key",
		SecretKey:     "secret",
		PublicBaseURL: "https://cdn.test/",
		UsePathStyle:  true,
	})
	require.NoError(t, err)
	return s, fake
}

func TestNewS3Validation(t *testing.T) {
	_, err := NewS3(context.Background(), Config{AccessKey: "a", SecretKey: "b"})
	assert.ErrorContains(t, err, "bucket is required")

	_, err = NewS3(context.Background(), Config{Bucket: "b"})
	assert.ErrorContains(t, err, "access key")
}

func TestS3PutReturnsPublicURL(t *testing.T) {
	s, fake := newTestS3(t)

	url, err := s.Put(context.Background(), "brands/acme/brand-logo.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/brands/acme/brand-logo.png", url)
	assert.Contains(t, fake.requests, "PUT /assets/brands/acme/brand-logo.png")
}

func TestS3DeleteToleratesMissing(t *testing.T) {
	s, _ := newTestS3(t)

	assert.NoError(t, s.Delete(context.Background(), "gone.png"))
	assert.NoError(t, s.Delete(context.Background(), "missing.png"))
	assert.Error(t, s.Delete(context.Background(), "locked.png"))
}

func TestS3KeyFromURL(t *testing.T) {
	s, _ := newTestS3(t)

	key, ok := s.KeyFromURL("https://cdn.test/brands/acme/brand-logo.png?v=2")
	assert.True(t, ok)
	assert.Equal(t, "brands/acme/brand-logo.png", key)

	_, ok = s.KeyFromURL("/uploads/legacy.png")
	assert.False(t, ok)
	_, ok = s.KeyFromURL("https://cdn.test/")
	assert.False(t, ok)
}
