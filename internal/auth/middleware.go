package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/quoteroom/quoteroom/internal/platform/httpx"
)

type contextKey struct{}

// ClaimsFromContext returns the claims attached by Middleware.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(contextKey{}).(*Claims)
	return claims
}

// TokenFromRequest reads the session cookie, falling back to a bearer header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// Middleware guards routes with the session token. With enforce off every request
// passes through untouched; paths in public are never checked.
func Middleware(service *Service, enforce bool, public ...string) func(http.Handler) http.Handler {
	open := make(map[string]struct{}, len(public))
	for _, p := range public {
		open[p] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		if !enforce {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := open[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := service.Verify(r.Context(), TokenFromRequest(r))
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), contextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
