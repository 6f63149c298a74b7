// Package reqid carries a per-request ID through the request context. It is
// echoed in X-Request-ID, stamped on log lines and forwarded on outbound
// webhook calls.
package reqid

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Header carries the ID in both directions.
const Header = "X-Request-ID"

const maxLen = 64

type key struct{}

// New returns 32 hex characters.
func New() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}

func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, key{}, id)
}

// FromCtx returns the ID stored in ctx, or "".
func FromCtx(ctx context.Context) string {
	id, _ := ctx.Value(key{}).(string)
	return id
}

// Set copies the ID in ctx onto an outbound request.
func Set(ctx context.Context, req *http.Request) {
	if id := FromCtx(ctx); id != "" {
		req.Header.Set(Header, id)
	}
}

// valid accepts IDs a proxy or load balancer would plausibly send. Anything
// else is replaced so log lines stay safe to grep.
func valid(id string) bool {
	if id == "" || len(id) > maxLen {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return false
		}
	}
	return true
}

// Middleware trusts a well-formed upstream X-Request-ID and mints one otherwise.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if !valid(id) {
				id = New()
			}
			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), id)))
		})
	}
}
