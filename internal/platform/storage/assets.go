package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	neturl "net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ObjectStore is the subset of S3 the asset manager needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(raw string) (string, bool)
}

// CleanupEnqueuer schedules a retry of a failed object deletion.
type CleanupEnqueuer interface {
	EnqueueStorageCleanup(ctx context.Context, key string) error
}

// ErrNotConfigured is returned by Upload when no object store is wired.
var ErrNotConfigured = errors.New("storage: object storage is not configured")

// Assets uploads images and discards the ones a document no longer references.
type Assets struct {
	store     ObjectStore
	publicDir string
	cleanup   CleanupEnqueuer
	logger    *slog.Logger
}

// NewAssets builds the manager. store and cleanup may be nil.
func NewAssets(store ObjectStore, publicDir string, cleanup CleanupEnqueuer, logger *slog.Logger) *Assets {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assets{store: store, publicDir: publicDir, cleanup: cleanup, logger: logger}
}

// Upload stores img under key and returns the public URL.
func (a *Assets) Upload(ctx context.Context, key string, img Image) (string, error) {
	if a.store == nil {
		return "", ErrNotConfigured
	}
	return a.store.Put(ctx, key, img.Data, img.ContentType)
}

// Replace discards oldURL once newURL has been persisted. Nothing happens when
// both point at the same object, as with fixed logo keys.
func (a *Assets) Replace(ctx context.Context, oldURL, newURL string) {
	if oldURL == "" || oldURL == newURL {
		return
	}
	a.Discard(ctx, oldURL)
}

// Discard deletes the asset behind url. Failures are logged and never returned.
func (a *Assets) Discard(ctx context.Context, url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	if a.store != nil {
		if key, ok := a.store.KeyFromURL(url); ok {
			if err := a.store.Delete(ctx, key); err != nil {
				a.logger.Warn("discard object", slog.String("key", key), slog.Any("error", err))
				a.retry(ctx, key)
			}
			return
		}
	}
	if isRemote(url) {
		a.logger.Debug("discard skipped foreign url", slog.String("url", url))
		return
	}
	if err := a.removeLocal(url); err != nil {
		a.logger.Warn("discard local file", slog.String("url", url), slog.Any("error", err))
	}
}

// DiscardAll discards every url in urls.
func (a *Assets) DiscardAll(ctx context.Context, urls []string) {
	for _, u := range urls {
		a.Discard(ctx, u)
	}
}

// DeleteKey removes an object directly; used by the cleanup worker.
func (a *Assets) DeleteKey(ctx context.Context, key string) error {
	if a.store == nil {
		return ErrNotConfigured
	}
	return a.store.Delete(ctx, key)
}

func (a *Assets) retry(ctx context.Context, key string) {
	if a.cleanup == nil {
		return
	}
	if err := a.cleanup.EnqueueStorageCleanup(ctx, key); err != nil {
		a.logger.Warn("enqueue storage cleanup", slog.String("key", key), slog.Any("error", err))
	}
}

func (a *Assets) removeLocal(url string) error {
	if a.publicDir == "" {
		return nil
	}
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	// Rooting before Clean keeps ".." from climbing out of the public dir.
	rel := path.Clean("/" + strings.TrimPrefix(url, "/"))
	target := filepath.Join(a.publicDir, filepath.FromSlash(rel))
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", target, err)
	}
	return nil
}

// isRemote reports whether raw names another host rather than a path under the public dir.
func isRemote(raw string) bool {
	u, err := neturl.Parse(raw)
	if err != nil {
		return true
	}
	return u.Scheme != "" || u.Host != ""
}
