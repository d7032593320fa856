package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/ports"
)

// RequireOrganization extracts the tenant from the X-Organization-ID header,
// verifies it exists, and stores it in the request context. Requests without
// a known organization never reach a handler.
func RequireOrganization(orgs ports.OrganizationRepository, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			orgID := r.Header.Get("X-Organization-ID")
			if orgID == "" {
				respondError(w, logger, domain.NewError(domain.KindValidationFailed,
					"X-Organization-ID header is required"))
				return
			}

			org, err := orgs.GetByID(r.Context(), orgID)
			if err != nil {
				respondError(w, logger, err)
				return
			}
			if org == nil {
				respondError(w, logger, domain.NewError(domain.KindAuthenticationFailed,
					"unknown organization %s", orgID))
				return
			}

			ctx := domain.WithOrganizationID(r.Context(), orgID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
