package estimate

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arunahq/backend-estimate/internal/catalog"
	"github.com/arunahq/backend-estimate/internal/common"
	"github.com/arunahq/backend-estimate/internal/tenant"
)

// Handler exposes estimate endpoints.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

// Preview handles POST /api/v1/estimates/preview.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "estimate service not configured", nil)
		return
	}
	slug, _ := tenant.From(r.Context())

	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON", nil)
		return
	}

	result, err := h.service.Preview(r.Context(), slug, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}

// Submit handles POST /api/v1/estimates.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "estimate service not configured", nil)
		return
	}
	slug, _ := tenant.From(r.Context())

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON", nil)
		return
	}

	rec, err := h.service.Submit(r.Context(), slug, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": rec})
}

// Get handles GET /api/v1/estimates/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "estimate service not configured", nil)
		return
	}
	slug, _ := tenant.From(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_ID", "estimate id must be a UUID", nil)
		return
	}

	rec, err := h.service.Get(r.Context(), slug, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rec})
}

// List handles GET /api/v1/estimates.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "estimate service not configured", nil)
		return
	}
	slug, _ := tenant.From(r.Context())

	email := r.URL.Query().Get("email")
	if email == "" {
		common.JSONError(w, http.StatusBadRequest, "EMAIL_REQUIRED", "email query parameter is required", nil)
		return
	}
	page, perPage := common.ParsePagination(r, h.service.defaultPerPage)

	records, pagination, err := h.service.List(r.Context(), slug, ListParams{
		ContactEmail: email,
		Page:         page,
		PerPage:      perPage,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       records,
		"pagination": pagination,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "ESTIMATE_NOT_FOUND", "estimate not found", nil)
	case errors.Is(err, catalog.ErrTenantNotFound):
		common.JSONError(w, http.StatusNotFound, "TENANT_NOT_FOUND", "tenant not found", nil)
	case errors.Is(err, catalog.ErrNoCatalog):
		common.JSONError(w, http.StatusNotFound, "CATALOG_NOT_FOUND", "no published catalog for tenant", nil)
	default:
		common.WriteError(w, err)
	}
}
