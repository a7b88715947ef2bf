package web

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/JonMunkholm/estatecrm/internal/core"
	"github.com/JonMunkholm/estatecrm/internal/logging"
)

type tenantKey struct{}

func tenantFromContext(ctx context.Context) string {
	id, _ := ctx.Value(tenantKey{}).(string)
	return id
}

// requireTenant resolves X-Tenant-ID. Requests without a valid tenant id
// never reach the handlers.
func requireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get("X-Tenant-ID"))
		if err != nil {
			respondError(w, r, core.ErrMissingTenant, http.StatusBadRequest)
			return
		}
		tenantID := id.String()

		ctx := context.WithValue(r.Context(), tenantKey{}, tenantID)
		ctx = logging.ContextWith(ctx, "tenant_id", tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
