package middleware

import (
	"net/http"

	"github.com/inkwell-studio/atelier/pkg/auth"
	"github.com/inkwell-studio/atelier/pkg/response"
)

// Authenticate verifies the session token when one is present and stores the
// claims in the request context. Requests without a valid token pass
// through anonymously; use RequireAuth to reject them.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := auth.TokenFromRequest(r); tok != "" {
			if claims, err := auth.ValidateToken(tok); err == nil {
				r = r.WithContext(auth.WithClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects anonymous requests with 401 and the given message.
func RequireAuth(message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.FromContext(r.Context()); !ok {
				response.Unauthorized(w, message)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// UserIDFromCtx returns the authenticated user ID.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// RoleFromCtx returns the authenticated user's role.
func RoleFromCtx(r *http.Request) (string, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		return "", false
	}
	return claims.Role, true
}
