package middleware

import (
	"net/http"

	"github.com/arunahq/backend-estimate/internal/tenant"
)

// RequireTenant ensures a tenant slug exists in the request context.
// Catalog and estimate routes are meaningless without one.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := tenant.From(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":"TENANT_REQUIRED","message":"tenant is required"}}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
