package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/arunahq/backend-estimate/internal/common"
	"github.com/arunahq/backend-estimate/internal/obs"
	"github.com/arunahq/backend-estimate/internal/pricing"
	"github.com/arunahq/backend-estimate/internal/tenant"
)

// Service orchestrates catalog reads, publishing, and caching.
type Service struct {
	store Store
	cache *Cache
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store Store
	Cache *Cache
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{store: cfg.Store, cache: cfg.Cache}
}

func publishedCacheKey(tenantSlug string) string {
	return "catalog:published:" + tenant.PrefixKey(tenantSlug, "v1")
}

// Published returns the tenant's latest catalog version. Reads go
// through the cache; a cache failure falls back to the store so the
// endpoint keeps working when Redis is down.
func (s *Service) Published(ctx context.Context, tenantSlug string) (Document, error) {
	key := publishedCacheKey(tenantSlug)

	var cached Document
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	doc, err := s.store.PublishedCatalog(ctx, tenantSlug)
	if err != nil {
		return Document{}, err
	}
	_ = s.cache.SetJSON(ctx, key, doc)
	return doc, nil
}

// Publish validates and stores the payload as the tenant's next catalog
// version, then drops the cached copy so readers pick it up immediately.
func (s *Service) Publish(ctx context.Context, tenantSlug string, payload pricing.Catalog) (Document, error) {
	if err := ValidateCatalog(payload); err != nil {
		if obs.CatalogPublishTotal != nil {
			obs.CatalogPublishTotal.WithLabelValues("invalid").Inc()
		}
		return Document{}, err
	}

	doc, err := s.store.InsertCatalog(ctx, tenantSlug, payload)
	if err != nil {
		if obs.CatalogPublishTotal != nil {
			obs.CatalogPublishTotal.WithLabelValues("error").Inc()
		}
		return Document{}, err
	}
	if obs.CatalogPublishTotal != nil {
		obs.CatalogPublishTotal.WithLabelValues("ok").Inc()
	}

	_ = s.cache.Delete(ctx, publishedCacheKey(tenantSlug))
	return doc, nil
}

// Versions lists every published version for the tenant, newest first.
func (s *Service) Versions(ctx context.Context, tenantSlug string) ([]VersionInfo, error) {
	return s.store.ListVersions(ctx, tenantSlug)
}

// ValidateCatalog checks structural soundness of an authored catalog
// before it is published. Authoring fixes identities and pricing kinds,
// so a bad payload is rejected outright rather than partially accepted.
func ValidateCatalog(c pricing.Catalog) error {
	var problems []string

	seenCategories := make(map[string]struct{}, len(c.Categories))
	for ci, cat := range c.Categories {
		if strings.TrimSpace(cat.ID) == "" {
			problems = append(problems, fmt.Sprintf("categories[%d]: id is required", ci))
		} else if _, dup := seenCategories[cat.ID]; dup {
			problems = append(problems, fmt.Sprintf("categories[%d]: duplicate id %q", ci, cat.ID))
		} else {
			seenCategories[cat.ID] = struct{}{}
		}
		if strings.TrimSpace(cat.Name) == "" {
			problems = append(problems, fmt.Sprintf("categories[%d]: name is required", ci))
		}

		seenItems := make(map[string]struct{}, len(cat.Items))
		for ii, it := range cat.Items {
			where := fmt.Sprintf("categories[%d].items[%d]", ci, ii)
			if strings.TrimSpace(it.ID) == "" {
				problems = append(problems, where+": id is required")
			} else if _, dup := seenItems[it.ID]; dup {
				problems = append(problems, fmt.Sprintf("%s: duplicate id %q", where, it.ID))
			} else {
				seenItems[it.ID] = struct{}{}
			}
			if strings.TrimSpace(it.Name) == "" {
				problems = append(problems, where+": name is required")
			}
			if !it.PricingKind.Valid() {
				problems = append(problems, fmt.Sprintf("%s: unknown pricing kind %q", where, it.PricingKind))
			}
			for tier, price := range it.PriceByTier {
				if !tier.Valid() {
					problems = append(problems, fmt.Sprintf("%s: unknown tier %q", where, tier))
				}
				if price < 0 {
					problems = append(problems, fmt.Sprintf("%s: negative price for tier %q", where, tier))
				}
			}
			// Every tier must be priced explicitly; a missing tier would
			// otherwise compute as 0 for every plan that selects it.
			for _, tier := range pricing.Tiers {
				if _, ok := it.PriceByTier[tier]; !ok {
					problems = append(problems, fmt.Sprintf("%s: missing price for tier %q", where, tier))
				}
			}
		}
	}

	if len(problems) > 0 {
		base := common.NewAppError("CATALOG_INVALID", "catalog payload failed validation", http.StatusUnprocessableEntity, nil)
		return base.WithDetails(problems)
	}
	return nil
}
