package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/arunahq/backend-estimate/internal/catalog"
	"github.com/arunahq/backend-estimate/internal/pricing"
	"github.com/arunahq/backend-estimate/internal/tenant"
)

type fakeStore struct {
	published    catalog.Document
	publishedErr error
	inserted     []pricing.Catalog
	versions     []catalog.VersionInfo
	reads        int
}

func (f *fakeStore) PublishedCatalog(_ context.Context, _ string) (catalog.Document, error) {
	f.reads++
	if f.publishedErr != nil {
		return catalog.Document{}, f.publishedErr
	}
	return f.published, nil
}

func (f *fakeStore) InsertCatalog(_ context.Context, _ string, payload pricing.Catalog) (catalog.Document, error) {
	f.inserted = append(f.inserted, payload)
	return catalog.Document{
		ID:          uuid.New(),
		Version:     len(f.inserted),
		Payload:     payload,
		PublishedAt: time.Now(),
	}, nil
}

func (f *fakeStore) ListVersions(_ context.Context, _ string) ([]catalog.VersionInfo, error) {
	return f.versions, nil
}

func validCatalog() pricing.Catalog {
	return pricing.Catalog{Categories: []pricing.Category{
		{
			ID:   "kitchen",
			Name: "Kitchen",
			Items: []pricing.Item{
				{
					ID:          "counters",
					Name:        "Quartz counters",
					PricingKind: pricing.PricingPerArea,
					PriceByTier: map[pricing.Tier]float64{
						pricing.TierBasic:    900,
						pricing.TierStandard: 1200,
						pricing.TierLuxe:     1800,
					},
					Enabled: true,
				},
			},
		},
	}}
}

func tenantRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(tenant.With(req.Context(), "studio-prima"))
}

func TestPublishedHandler(t *testing.T) {
	store := &fakeStore{published: catalog.Document{
		ID:          uuid.New(),
		Version:     3,
		Payload:     validCatalog(),
		PublishedAt: time.Now(),
	}}
	svc := catalog.NewService(catalog.ServiceConfig{Store: store, Cache: catalog.NewCache(nil, 0)})
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: svc})

	rec := httptest.NewRecorder()
	handler.Published(rec, tenantRequest(http.MethodGet, "/api/v1/catalog", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data catalog.Document `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Data.Version)
	require.Len(t, resp.Data.Payload.Categories, 1)
}

func TestPublishedHandlerNoCatalog(t *testing.T) {
	store := &fakeStore{publishedErr: catalog.ErrNoCatalog}
	svc := catalog.NewService(catalog.ServiceConfig{Store: store, Cache: catalog.NewCache(nil, 0)})
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: svc})

	rec := httptest.NewRecorder()
	handler.Published(rec, tenantRequest(http.MethodGet, "/api/v1/catalog", ""))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "CATALOG_NOT_FOUND")
}

func TestPublishHandler(t *testing.T) {
	store := &fakeStore{}
	svc := catalog.NewService(catalog.ServiceConfig{Store: store, Cache: catalog.NewCache(nil, 0)})
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: svc})

	payload, err := json.Marshal(map[string]any{"catalog": validCatalog()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.Publish(rec, tenantRequest(http.MethodPut, "/api/v1/admin/catalog", string(payload)))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.inserted, 1)
}

func TestPublishHandlerRejectsInvalidCatalog(t *testing.T) {
	store := &fakeStore{}
	svc := catalog.NewService(catalog.ServiceConfig{Store: store, Cache: catalog.NewCache(nil, 0)})
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: svc})

	bad := validCatalog()
	bad.Categories[0].Items[0].PricingKind = "per_smile"
	payload, err := json.Marshal(map[string]any{"catalog": bad})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.Publish(rec, tenantRequest(http.MethodPut, "/api/v1/admin/catalog", string(payload)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "CATALOG_INVALID")
	require.Empty(t, store.inserted)
}

func TestPublishHandlerRejectsPartialTierPricing(t *testing.T) {
	store := &fakeStore{}
	svc := catalog.NewService(catalog.ServiceConfig{Store: store, Cache: catalog.NewCache(nil, 0)})
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: svc})

	// A flat item priced only at basic would quietly total 0 for the
	// standard and luxe plans, so publishing it must fail.
	bad := validCatalog()
	bad.Categories[0].Items = append(bad.Categories[0].Items, pricing.Item{
		ID:          "hob",
		Name:        "Hob",
		PricingKind: pricing.PricingFlat,
		PriceByTier: map[pricing.Tier]float64{pricing.TierBasic: 4500},
	})
	payload, err := json.Marshal(map[string]any{"catalog": bad})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.Publish(rec, tenantRequest(http.MethodPut, "/api/v1/admin/catalog", string(payload)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "CATALOG_INVALID")
	require.Contains(t, rec.Body.String(), "missing price for tier")
	require.Empty(t, store.inserted)
}

func TestPublishHandlerRejectsUnknownFields(t *testing.T) {
	store := &fakeStore{}
	svc := catalog.NewService(catalog.ServiceConfig{Store: store, Cache: catalog.NewCache(nil, 0)})
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: svc})

	rec := httptest.NewRecorder()
	body := `{"catalog":{"categories":[],"surprise":true}}`
	handler.Publish(rec, tenantRequest(http.MethodPut, "/api/v1/admin/catalog", body))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "INVALID_BODY")
}

func TestVersionsHandler(t *testing.T) {
	store := &fakeStore{versions: []catalog.VersionInfo{
		{Version: 2, PublishedAt: time.Now(), Categories: 4, Items: 12},
		{Version: 1, PublishedAt: time.Now().Add(-time.Hour), Categories: 3, Items: 9},
	}}
	svc := catalog.NewService(catalog.ServiceConfig{Store: store, Cache: catalog.NewCache(nil, 0)})
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: svc})

	rec := httptest.NewRecorder()
	handler.Versions(rec, tenantRequest(http.MethodGet, "/api/v1/admin/catalog/versions", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []catalog.VersionInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	require.Equal(t, 2, resp.Data[0].Version)
}

func TestPublishedUsesCacheAndPublishInvalidates(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	store := &fakeStore{published: catalog.Document{Version: 1, Payload: validCatalog()}}
	svc := catalog.NewService(catalog.ServiceConfig{Store: store, Cache: catalog.NewCache(client, time.Minute)})

	ctx := context.Background()
	_, err = svc.Published(ctx, "studio-prima")
	require.NoError(t, err)
	_, err = svc.Published(ctx, "studio-prima")
	require.NoError(t, err)
	require.Equal(t, 1, store.reads, "second read should come from cache")

	_, err = svc.Publish(ctx, "studio-prima", validCatalog())
	require.NoError(t, err)

	_, err = svc.Published(ctx, "studio-prima")
	require.NoError(t, err)
	require.Equal(t, 2, store.reads, "publish should drop the cached copy")
}
