package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/arunahq/backend-estimate/internal/common"
	"github.com/arunahq/backend-estimate/internal/pricing"
	"github.com/arunahq/backend-estimate/internal/tenant"
)

// Handler exposes catalog endpoints.
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

// Published handles GET /api/v1/catalog.
func (h *Handler) Published(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	slug, _ := tenant.From(r.Context())
	doc, err := h.service.Published(r.Context(), slug)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": doc})
}

// Publish handles PUT /api/v1/admin/catalog.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	slug, _ := tenant.From(r.Context())

	var body struct {
		Catalog json.RawMessage `json:"catalog"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON", nil)
		return
	}
	if len(body.Catalog) == 0 {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "catalog field is required", nil)
		return
	}

	payload, err := decodeCatalog(body.Catalog)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	doc, err := h.service.Publish(r.Context(), slug, payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": doc})
}

// Versions handles GET /api/v1/admin/catalog/versions.
func (h *Handler) Versions(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	slug, _ := tenant.From(r.Context())
	versions, err := h.service.Versions(r.Context(), slug)
	if err != nil {
		h.writeError(w, err)
		return
	}

	page, perPage := common.ParsePagination(r, defaultVersionsPerPage)
	total := len(versions)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	common.JSON(w, http.StatusOK, map[string]any{
		"data":       versions[start:end],
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: total},
	})
}

const defaultVersionsPerPage = 20

// decodeCatalog strictly decodes an authored catalog payload. Unknown
// fields are rejected so authoring typos surface at publish time instead
// of silently dropping pricing data.
func decodeCatalog(raw json.RawMessage) (pricing.Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var payload pricing.Catalog
	if err := dec.Decode(&payload); err != nil {
		return pricing.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	return payload, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTenantNotFound):
		common.JSONError(w, http.StatusNotFound, "TENANT_NOT_FOUND", "tenant not found", nil)
	case errors.Is(err, ErrNoCatalog):
		common.JSONError(w, http.StatusNotFound, "CATALOG_NOT_FOUND", "no published catalog for tenant", nil)
	default:
		common.WriteError(w, err)
	}
}
