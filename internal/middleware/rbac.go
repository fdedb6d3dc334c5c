package middleware

import (
	"net/http"

	"github.com/baharkarakas/debtme-backend/internal/api/httpx"
	"github.com/baharkarakas/debtme-backend/internal/models"
)

// RequireCapability gates a route on one entry of the caller's capability set.
// Services repeat the check; this only rejects early.
func RequireCapability(name string, has func(models.Capabilities) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "authentication required", nil)
				return
			}
			if !has(id.Caps) {
				httpx.WriteError(w, http.StatusForbidden, "permission_denied", "missing capability "+name, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var (
	CanInvite          = RequireCapability("invite", func(c models.Capabilities) bool { return c.CanInvite })
	CanManageEmployers = RequireCapability("manage_employers", func(c models.Capabilities) bool { return c.CanManageEmployers })
	CanAdminister      = RequireCapability("administer", func(c models.Capabilities) bool { return c.CanAdminister })
)
