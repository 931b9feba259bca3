// Package proxy fetches remote resources on behalf of the dashboard so the
// browser can embed them without CORS restrictions.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/quoteroom/quoteroom/internal/platform/httpx"
)

// MaxBodyBytes caps the size of a proxied response.
const MaxBodyBytes = 20 << 20

const fetchTimeout = 30 * time.Second

var errTooLarge = errors.New("upstream response exceeds size limit")

// Recorder counts fetch outcomes.
type Recorder interface {
	ProxyFetch(outcome string)
}

// Handler serves GET /api/proxy?url=.
type Handler struct {
	client   *http.Client
	logger   *slog.Logger
	metrics  Recorder
	group    singleflight.Group
	maxBytes int64
}

type response struct {
	status      int
	contentType string
	body        []byte
}

// NewHandler builds the proxy. client and metrics may be nil.
func NewHandler(client *http.Client, logger *slog.Logger, metrics Recorder) *Handler {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{client: client, logger: logger, metrics: metrics, maxBytes: MaxBodyBytes}
}

// MountRoutes registers the proxy route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.fetch)
}

func (h *Handler) fetch(w http.ResponseWriter, r *http.Request) {
	target, err := parseTarget(r.URL.Query().Get("url"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	// The shared fetch must survive the cancellation of whichever caller started it.
	ctx := context.WithoutCancel(r.Context())
	v, err, shared := h.group.Do(target, func() (any, error) {
		return h.load(ctx, target)
	})
	if err != nil {
		h.record("error")
		h.logger.Warn("proxy fetch failed", slog.String("url", target), slog.Any("error", err))
		if errors.Is(err, errTooLarge) {
			httpx.Fail(w, http.StatusBadGateway, err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	if shared {
		h.record("shared")
	} else {
		h.record("ok")
	}

	res := v.(*response)
	w.Header().Set("Content-Type", res.contentType)
	w.WriteHeader(res.status)
	_, _ = w.Write(res.body)
}

func (h *Handler) load(ctx context.Context, target string) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	if int64(len(body)) > h.maxBytes {
		return nil, errTooLarge
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &response{status: resp.StatusCode, contentType: contentType, body: body}, nil
}

func (h *Handler) record(outcome string) {
	if h.metrics != nil {
		h.metrics.ProxyFetch(outcome)
	}
}

func parseTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: url is required", httpx.ErrValidation)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: url is malformed", httpx.ErrValidation)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: url must use http or https", httpx.ErrValidation)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: url must include a host", httpx.ErrValidation)
	}
	return u.String(), nil
}
