// Package storagetest provides an in-memory object store for handler and service tests.
package storagetest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/quoteroom/quoteroom/internal/platform/storage"
)

// BaseURL prefixes every URL the memory store hands out.
const BaseURL = "https://cdn.test"

// MemoryStore keeps uploaded objects in a map.
type MemoryStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Puts    []string
	Deletes []string
	PutErr  error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Objects: map[string][]byte{}}
}

func (m *MemoryStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return "", m.PutErr
	}
	m.Objects[key] = data
	m.Puts = append(m.Puts, key)
	return BaseURL + "/" + key, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes = append(m.Deletes, key)
	delete(m.Objects, key)
	return nil
}

func (m *MemoryStore) KeyFromURL(raw string) (string, bool) {
	if !strings.HasPrefix(raw, BaseURL+"/") {
		return "", false
	}
	return strings.TrimPrefix(raw, BaseURL+"/"), true
}

// Has reports whether key is currently stored.
func (m *MemoryStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[key]
	return ok
}

// NewAssets wires an asset manager over a fresh memory store.
func NewAssets() (*storage.Assets, *MemoryStore) {
	store := NewMemoryStore()
	return storage.NewAssets(store, "", nil, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

// ErrUnavailable simulates a storage outage.
var ErrUnavailable = errors.New("object storage unavailable")

// PNG is a minimal valid 1x1 PNG image.
var PNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// PNGImage is PNG wrapped as a validated upload.
func PNGImage() storage.Image {
	return storage.Image{Data: PNG, ContentType: "image/png", Ext: "png"}
}
