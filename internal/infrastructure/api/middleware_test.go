package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
)

type staticOrgRepo struct {
	orgs map[string]*domain.Organization
}

func (s *staticOrgRepo) Create(ctx context.Context, org *domain.Organization) error {
	s.orgs[org.ID] = org
	return nil
}

func (s *staticOrgRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	return s.orgs[id], nil
}

func TestRequireOrganization(t *testing.T) {
	repo := &staticOrgRepo{orgs: map[string]*domain.Organization{
		"org-1": {ID: "org-1", Name: "Acme"},
	}}

	var seenOrgID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenOrgID = domain.GetOrganizationIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireOrganization(repo, zerolog.Nop())(next)

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sites", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown organization", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sites", nil)
		req.Header.Set("X-Organization-ID", "org-ghost")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("known organization reaches handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sites", nil)
		req.Header.Set("X-Organization-ID", "org-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "org-1", seenOrgID)
	})
}

func TestStatusForKind(t *testing.T) {
	cases := map[domain.ErrorKind]int{
		domain.KindValidationFailed:     http.StatusBadRequest,
		domain.KindAuthenticationFailed: http.StatusUnauthorized,
		domain.KindNotFound:             http.StatusNotFound,
		domain.KindAlreadyExists:        http.StatusConflict,
		domain.KindSiteInactive:         http.StatusConflict,
		domain.KindMalformed:            http.StatusUnprocessableEntity,
		domain.KindRemoteRejected:       http.StatusBadGateway,
		domain.KindRenderTimeout:        http.StatusGatewayTimeout,
		domain.KindUnknown:              http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, statusForKind(kind), kind.String())
	}
}
