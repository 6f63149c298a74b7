// Package rbac gates routes on the role carried by the session token.
package rbac

import (
	"net/http"

	"github.com/inkwell-studio/atelier/pkg/auth"
	"github.com/inkwell-studio/atelier/pkg/middleware"
	"github.com/inkwell-studio/atelier/pkg/response"
)

// HasRole allows only the listed roles. Authentication must already have
// run; anonymous requests get 401 and other roles get 403 with message.
func HasRole(message string, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}
			if _, ok := allowed[role]; !ok {
				response.Forbidden(w, message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin authenticates the request and admits only ADMIN tokens.
func RequireAdmin(next http.Handler) http.Handler {
	return middleware.RequireAuth("Unauthorized")(HasRole("Admin access required", auth.RoleAdmin)(next))
}
