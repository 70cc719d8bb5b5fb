package estimate

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arunahq/backend-estimate/internal/catalog"
	"github.com/arunahq/backend-estimate/internal/common"
	"github.com/arunahq/backend-estimate/internal/obs"
	"github.com/arunahq/backend-estimate/internal/pricing"
)

// ErrNotFound indicates no estimate exists for the tenant and id.
var ErrNotFound = errors.New("estimate not found")

// Record is one persisted estimate. Records are immutable: later catalog
// publishes never change a saved total or breakdown.
type Record struct {
	ID             uuid.UUID                    `json:"id"`
	TenantSlug     string                       `json:"-"`
	CatalogVersion int                          `json:"catalogVersion"`
	Contact        Contact                      `json:"contact"`
	Configuration  pricing.ProjectConfiguration `json:"configuration"`
	Total          float64                      `json:"total"`
	Breakdown      []pricing.BreakdownRow       `json:"breakdown"`
	CreatedAt      time.Time                    `json:"createdAt"`
}

// Store persists estimate records.
type Store interface {
	Insert(ctx context.Context, tenantSlug string, rec Record) (Record, error)
	Get(ctx context.Context, tenantSlug string, id uuid.UUID) (Record, error)
	List(ctx context.Context, tenantSlug, contactEmail string, limit, offset int) ([]Record, int, error)
}

// CatalogProvider supplies the tenant's published catalog.
type CatalogProvider interface {
	Published(ctx context.Context, tenantSlug string) (catalog.Document, error)
}

// Tasks enqueues background work after an estimate is saved.
type Tasks interface {
	EnqueueEstimateSaved(ctx context.Context, tenantSlug string, estimateID uuid.UUID) error
}

// Service computes, persists, and reads estimates.
type Service struct {
	store    Store
	catalogs CatalogProvider
	tasks    Tasks
	validate *validator.Validate
	logger   zerolog.Logger

	defaultPerPage int
	maxPerPage     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store          Store
	Catalogs       CatalogProvider
	Tasks          Tasks
	Validate       *validator.Validate
	Logger         zerolog.Logger
	DefaultPerPage int
	MaxPerPage     int
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) *Service {
	validate := cfg.Validate
	if validate == nil {
		validate = validator.New()
	}
	defaultPerPage := cfg.DefaultPerPage
	if defaultPerPage <= 0 {
		defaultPerPage = 20
	}
	maxPerPage := cfg.MaxPerPage
	if maxPerPage <= 0 {
		maxPerPage = 100
	}
	return &Service{
		store:          cfg.Store,
		catalogs:       cfg.Catalogs,
		tasks:          cfg.Tasks,
		validate:       validate,
		logger:         cfg.Logger,
		defaultPerPage: defaultPerPage,
		maxPerPage:     maxPerPage,
	}
}

func validationError(err error) error {
	var details []string
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			details = append(details, fe.Namespace()+": failed "+fe.Tag())
		}
	}
	base := common.NewAppError("VALIDATION_FAILED", "request failed validation", http.StatusUnprocessableEntity, err)
	return base.WithDetails(details)
}

func (s *Service) compute(ctx context.Context, tenantSlug string, payload ConfigurationPayload, entry string) (pricing.Estimate, int, error) {
	doc, err := s.catalogs.Published(ctx, tenantSlug)
	if err != nil {
		if obs.EstimateComputeTotal != nil {
			obs.EstimateComputeTotal.WithLabelValues(entry, "error").Inc()
		}
		return pricing.Estimate{}, 0, err
	}

	started := time.Now()
	result := pricing.Compute(doc.Payload, payload.ToConfiguration())
	if obs.EstimateComputeDuration != nil {
		obs.EstimateComputeDuration.Observe(obs.DurationMillis(time.Since(started)))
	}
	if obs.EstimateComputeTotal != nil {
		obs.EstimateComputeTotal.WithLabelValues(entry, "ok").Inc()
	}
	return result, doc.Version, nil
}

// Preview computes a live total without persisting anything.
func (s *Service) Preview(ctx context.Context, tenantSlug string, req PreviewRequest) (pricing.Estimate, error) {
	if err := s.validate.Struct(req); err != nil {
		return pricing.Estimate{}, validationError(err)
	}
	result, _, err := s.compute(ctx, tenantSlug, req.Configuration, "preview")
	return result, err
}

// Submit computes and persists an immutable estimate, then enqueues the
// saved-estimate task. A positive carpet area is required at submission;
// previews tolerate zero so the customer can price area-free work early.
func (s *Service) Submit(ctx context.Context, tenantSlug string, req SubmitRequest) (Record, error) {
	if err := s.validate.Struct(req); err != nil {
		return Record{}, validationError(err)
	}
	if req.Configuration.CarpetArea <= 0 {
		return Record{}, &common.AppError{
			Code:       "VALIDATION_FAILED",
			Message:    "carpetArea must be positive to submit an estimate",
			HTTPStatus: http.StatusUnprocessableEntity,
		}
	}

	result, version, err := s.compute(ctx, tenantSlug, req.Configuration, "submit")
	if err != nil {
		return Record{}, err
	}

	rec, err := s.store.Insert(ctx, tenantSlug, Record{
		TenantSlug:     tenantSlug,
		CatalogVersion: version,
		Contact:        req.Contact,
		Configuration:  req.Configuration.ToConfiguration(),
		Total:          result.Total,
		Breakdown:      result.Breakdown,
	})
	if err != nil {
		return Record{}, err
	}

	if s.tasks != nil {
		if err := s.tasks.EnqueueEstimateSaved(ctx, tenantSlug, rec.ID); err != nil {
			// The record is already saved; delivery is best effort here
			// and asynq owns retries once the task is accepted.
			s.logger.Warn().Err(err).
				Str("tenant", tenantSlug).
				Str("estimate_id", rec.ID.String()).
				Msg("enqueue estimate:saved failed")
		}
	}
	return rec, nil
}

// Get fetches one saved estimate scoped to the tenant.
func (s *Service) Get(ctx context.Context, tenantSlug string, id uuid.UUID) (Record, error) {
	return s.store.Get(ctx, tenantSlug, id)
}

// ListParams filters and paginates estimate listings.
type ListParams struct {
	ContactEmail string
	Page         int
	PerPage      int
}

// List returns the tenant's saved estimates for a contact email, newest
// first, with the total row count for pagination.
func (s *Service) List(ctx context.Context, tenantSlug string, params ListParams) ([]Record, common.Pagination, error) {
	page := params.Page
	if page <= 0 {
		page = 1
	}
	perPage := params.PerPage
	if perPage <= 0 {
		perPage = s.defaultPerPage
	}
	if perPage > s.maxPerPage {
		perPage = s.maxPerPage
	}

	records, total, err := s.store.List(ctx, tenantSlug, params.ContactEmail, perPage, (page-1)*perPage)
	if err != nil {
		return nil, common.Pagination{}, err
	}
	return records, common.Pagination{Page: page, PerPage: perPage, TotalItems: total}, nil
}
