package middleware

import (
	"net/http"
	"slices"

	"github.com/baharkarakas/debtme-backend/internal/api/httpx"
	"github.com/baharkarakas/debtme-backend/internal/models"
)

// RequireRole allows only callers whose role is one of roles. Must run after Auth.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "authentication required", nil)
				return
			}
			if !slices.Contains(roles, id.Role) {
				httpx.WriteError(w, http.StatusForbidden, "permission_denied", "role not allowed", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
