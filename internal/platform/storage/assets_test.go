package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	base      string
	puts      []string
	deletes   []string
	deleteErr error
}

func (f *fakeStore) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	f.puts = append(f.puts, key)
	return f.base + "/" + key, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	return f.deleteErr
}

func (f *fakeStore) KeyFromURL(raw string) (string, bool) {
	if !strings.HasPrefix(raw, f.base+"/") {
		return "", false
	}
	return strings.TrimPrefix(raw, f.base+"/"), true
}

type fakeQueue struct{ keys []string }

func (q *fakeQueue) EnqueueStorageCleanup(_ context.Context, key string) error {
	q.keys = append(q.keys, key)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUploadReturnsPublicURL(t *testing.T) {
	store := &fakeStore{base: "https://cdn.test"}
	a := NewAssets(store, "", nil, quietLogger())

	url, err := a.Upload(context.Background(), "brands/acme/brand-logo.png", Image{Data: []byte{1}, ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/brands/acme/brand-logo.png", url)
}

func TestUploadWithoutStore(t *testing.T) {
	a := NewAssets(nil, "", nil, quietLogger())
	_, err := a.Upload(context.Background(), "k", Image{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestReplaceSkipsSameURL(t *testing.T) {
	store := &fakeStore{base: "https://cdn.test"}
	a := NewAssets(store, "", nil, quietLogger())

	a.Replace(context.Background(), "https://cdn.test/brands/acme/brand-logo.png", "https://cdn.test/brands/acme/brand-logo.png")
	assert.Empty(t, store.deletes)

	a.Replace(context.Background(), "https://cdn.test/brands/acme/brand-logo.png", "https://cdn.test/brands/acme-new/brand-logo.png")
	assert.Equal(t, []string{"brands/acme/brand-logo.png"}, store.deletes)
}

func TestDiscardSwallowsFailureAndEnqueuesRetry(t *testing.T) {
	store := &fakeStore{base: "https://cdn.test", deleteErr: errors.New("connection reset")}
	queue := &fakeQueue{}
	a := NewAssets(store, "", queue, quietLogger())

	a.Discard(context.Background(), "https://cdn.test/dealerlogo/acme.png")
	assert.Equal(t, []string{"dealerlogo/acme.png"}, store.deletes)
	assert.Equal(t, []string{"dealerlogo/acme.png"}, queue.keys)
}

func TestDiscardLegacyLocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "uploads"), 0o755))
	file := filepath.Join(dir, "uploads", "old.png")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	store := &fakeStore{base: "https://cdn.test"}
	a := NewAssets(store, dir, nil, quietLogger())

	a.Discard(context.Background(), "/uploads/old.png")
	_, err := os.Stat(file)
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, store.deletes)

	// already gone and traversal attempts stay inside the public dir
	a.Discard(context.Background(), "/uploads/old.png")
	a.Discard(context.Background(), "/../../etc/passwd")
}

func TestDiscardRelativeLegacyPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "uploads"), 0o755))
	file := filepath.Join(dir, "uploads", "x.png")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	outside := filepath.Join(filepath.Dir(dir), filepath.Base(dir)+"-sibling.png")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	t.Cleanup(func() { _ = os.Remove(outside) })

	a := NewAssets(&fakeStore{base: "https://cdn.test"}, dir, nil, quietLogger())

	a.Discard(context.Background(), "uploads/x.png?v=2")
	_, err := os.Stat(file)
	assert.True(t, os.IsNotExist(err))

	a.Discard(context.Background(), "../"+filepath.Base(outside))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

func TestDiscardIgnoresForeignURL(t *testing.T) {
	store := &fakeStore{base: "https://cdn.test"}
	a := NewAssets(store, t.TempDir(), nil, quietLogger())
	a.Discard(context.Background(), "https://elsewhere.test/logo.png")
	a.Discard(context.Background(), "")
	assert.Empty(t, store.deletes)
}
