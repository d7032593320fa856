package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/application"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/ports"
)

// Handler bundles the REST endpoints over the application services.
type Handler struct {
	sites    *application.SiteService
	registry *application.SlotRegistry
	sync     *application.SyncService
	orgs     ports.OrganizationRepository
	logger   zerolog.Logger
}

func NewHandler(
	sites *application.SiteService,
	registry *application.SlotRegistry,
	sync *application.SyncService,
	orgs ports.OrganizationRepository,
	logger zerolog.Logger,
) *Handler {
	return &Handler{sites: sites, registry: registry, sync: sync, orgs: orgs, logger: logger}
}

// Mount attaches all routes under /api/v1. Organization creation is the only
// route reachable without an X-Organization-ID header.
func (h *Handler) Mount(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/organizations", h.CreateOrganization)

		r.Group(func(r chi.Router) {
			r.Use(RequireOrganization(h.orgs, h.logger))

			r.Get("/sites", h.ListSites)
			r.Post("/sites", h.ConnectSite)
			r.Get("/sites/stats", h.SiteStats)
			r.Get("/sites/{siteID}", h.GetSite)
			r.Delete("/sites/{siteID}", h.DisconnectSite)
			r.Get("/sites/{siteID}/sections", h.DetectSections)
			r.Post("/sites/{siteID}/content", h.UpdateContent)
			r.Get("/sites/{siteID}/slots", h.ListSlots)
			r.Post("/sites/{siteID}/slots", h.InsertSlot)
			r.Get("/sites/{siteID}/updates", h.ListUpdates)
			r.Put("/slots/{slotID}/mapping", h.MapSlot)
			r.Post("/sync", h.TriggerSync)
		})
	})
}

type createOrganizationRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateOrganization registers a new tenant and returns its identifier.
func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req createOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.WrapError(domain.KindMalformed, err, "invalid request body"))
		return
	}
	if req.Name == "" {
		respondError(w, h.logger, domain.NewError(domain.KindValidationFailed, "name is required"))
		return
	}

	org := &domain.Organization{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.orgs.Create(r.Context(), org); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, org)
}

// ConnectSite validates credentials against the remote platform and persists
// the site as active.
func (h *Handler) ConnectSite(w http.ResponseWriter, r *http.Request) {
	var input domain.ConnectSiteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, h.logger, domain.WrapError(domain.KindMalformed, err, "invalid request body"))
		return
	}

	site, err := h.sites.ConnectSite(r.Context(), domain.GetOrganizationIDFromContext(r.Context()), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, site)
}

func (h *Handler) ListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := h.sites.GetAllSites(r.Context(), domain.GetOrganizationIDFromContext(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if sites == nil {
		sites = []*domain.Site{}
	}
	respondJSON(w, http.StatusOK, sites)
}

func (h *Handler) GetSite(w http.ResponseWriter, r *http.Request) {
	detail, err := h.sites.GetSite(r.Context(), chi.URLParam(r, "siteID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if detail == nil {
		respondError(w, h.logger, domain.NewError(domain.KindNotFound, "site not found"))
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (h *Handler) SiteStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sites.GetSiteStats(r.Context(), domain.GetOrganizationIDFromContext(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// DisconnectSite removes the site's slots, releases the remote session and
// marks the site disconnected.
func (h *Handler) DisconnectSite(w http.ResponseWriter, r *http.Request) {
	if err := h.sites.DisconnectSite(r.Context(), chi.URLParam(r, "siteID")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}

// DetectSections lists editable regions. The optional "page" query parameter
// scopes detection to a single page reference.
func (h *Handler) DetectSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.sites.DetectSections(r.Context(), chi.URLParam(r, "siteID"), r.URL.Query().Get("page"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, sections)
}

// UpdateContent applies one content write, targeted at a slot or a region
// reference, and returns the audit record.
func (h *Handler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	var input domain.UpdateContentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, h.logger, domain.WrapError(domain.KindMalformed, err, "invalid request body"))
		return
	}

	record, err := h.sites.UpdateContent(r.Context(), chi.URLParam(r, "siteID"), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.registry.ListForSite(r.Context(), chi.URLParam(r, "siteID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if slots == nil {
		slots = []*domain.ContentSlot{}
	}
	respondJSON(w, http.StatusOK, slots)
}

type insertSlotRequest struct {
	PageRef  string `json:"page_ref"`
	SlotName string `json:"slot_name"`
	Label    string `json:"label"`
}

// InsertSlot writes the slot's marker pair into a remote page and registers
// the slot.
func (h *Handler) InsertSlot(w http.ResponseWriter, r *http.Request) {
	var req insertSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.WrapError(domain.KindMalformed, err, "invalid request body"))
		return
	}

	slot, err := h.sites.InsertSlotMarker(r.Context(), chi.URLParam(r, "siteID"), req.PageRef, req.SlotName, req.Label)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, slot)
}

// ListUpdates returns the site's audit trail, newest first.
func (h *Handler) ListUpdates(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.sites.ListUpdates(r.Context(), chi.URLParam(r, "siteID"), limit)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if records == nil {
		records = []*domain.ContentUpdateRecord{}
	}
	respondJSON(w, http.StatusOK, records)
}

type mapSlotRequest struct {
	SheetColumn        string `json:"sheet_column"`
	SheetRowIdentifier string `json:"sheet_row_identifier"`
}

// MapSlot binds a slot to a spreadsheet coordinate, replacing any prior
// mapping.
func (h *Handler) MapSlot(w http.ResponseWriter, r *http.Request) {
	var req mapSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.WrapError(domain.KindMalformed, err, "invalid request body"))
		return
	}

	slot, err := h.registry.MapToSheet(r.Context(), chi.URLParam(r, "slotID"), req.SheetColumn, req.SheetRowIdentifier)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, slot)
}

// TriggerSync runs one sync pass over the organization's mapped slots and
// reports the per-slot outcome.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	results, err := h.sync.RunSync(r.Context(), domain.GetOrganizationIDFromContext(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if results == nil {
		results = []application.SlotSyncResult{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"slots":   len(results),
		"results": results,
	})
}
