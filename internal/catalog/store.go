package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arunahq/backend-estimate/internal/pricing"
)

var (
	// ErrTenantNotFound indicates the tenant slug has no row.
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrNoCatalog indicates the tenant exists but has never published a catalog.
	ErrNoCatalog = errors.New("no published catalog")
)

// Document is one published, immutable catalog version.
type Document struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"-"`
	Version     int             `json:"version"`
	Payload     pricing.Catalog `json:"catalog"`
	PublishedAt time.Time       `json:"publishedAt"`
}

// VersionInfo summarises one published version for listing.
type VersionInfo struct {
	Version     int       `json:"version"`
	PublishedAt time.Time `json:"publishedAt"`
	Categories  int       `json:"categories"`
	Items       int       `json:"items"`
}

// Store persists catalog versions.
type Store interface {
	PublishedCatalog(ctx context.Context, tenantSlug string) (Document, error)
	InsertCatalog(ctx context.Context, tenantSlug string, payload pricing.Catalog) (Document, error)
	ListVersions(ctx context.Context, tenantSlug string) ([]VersionInfo, error)
}

// PGStore is the pgx-backed Store.
type PGStore struct {
	Pool *pgxpool.Pool
}

func (s *PGStore) tenantID(ctx context.Context, slug string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.Pool.QueryRow(ctx, `SELECT id FROM tenants WHERE slug = $1`, slug).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrTenantNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("lookup tenant %q: %w", slug, err)
	}
	return id, nil
}

// PublishedCatalog returns the latest published version for the tenant.
func (s *PGStore) PublishedCatalog(ctx context.Context, tenantSlug string) (Document, error) {
	tenantID, err := s.tenantID(ctx, tenantSlug)
	if err != nil {
		return Document{}, err
	}

	var (
		doc Document
		raw []byte
	)
	err = s.Pool.QueryRow(ctx, `
		SELECT id, tenant_id, version, payload, published_at
		FROM catalogs
		WHERE tenant_id = $1
		ORDER BY version DESC
		LIMIT 1`, tenantID).
		Scan(&doc.ID, &doc.TenantID, &doc.Version, &raw, &doc.PublishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNoCatalog
	}
	if err != nil {
		return Document{}, fmt.Errorf("load catalog: %w", err)
	}
	if err := json.Unmarshal(raw, &doc.Payload); err != nil {
		return Document{}, fmt.Errorf("decode catalog payload: %w", err)
	}
	return doc, nil
}

// InsertCatalog stores the payload as the tenant's next version. The
// version counter advances under a transaction so two concurrent
// publishes cannot claim the same number.
func (s *PGStore) InsertCatalog(ctx context.Context, tenantSlug string, payload pricing.Catalog) (Document, error) {
	tenantID, err := s.tenantID(ctx, tenantSlug)
	if err != nil {
		return Document{}, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Document{}, fmt.Errorf("encode catalog payload: %w", err)
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("begin publish: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	doc := Document{TenantID: tenantID, Payload: payload}
	err = tx.QueryRow(ctx, `
		INSERT INTO catalogs (tenant_id, version, payload)
		SELECT $1, COALESCE(MAX(version), 0) + 1, $2
		FROM catalogs
		WHERE tenant_id = $1
		RETURNING id, version, published_at`, tenantID, raw).
		Scan(&doc.ID, &doc.Version, &doc.PublishedAt)
	if err != nil {
		return Document{}, fmt.Errorf("insert catalog: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Document{}, fmt.Errorf("commit publish: %w", err)
	}
	return doc, nil
}

// ListVersions returns every published version, newest first, with
// category and item counts pulled from the stored payload.
func (s *PGStore) ListVersions(ctx context.Context, tenantSlug string) ([]VersionInfo, error) {
	tenantID, err := s.tenantID(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}

	rows, err := s.Pool.Query(ctx, `
		SELECT version,
		       published_at,
		       jsonb_array_length(payload->'categories'),
		       (SELECT COALESCE(SUM(jsonb_array_length(cat->'items')), 0)
		        FROM jsonb_array_elements(payload->'categories') AS cat)
		FROM catalogs
		WHERE tenant_id = $1
		ORDER BY version DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list catalog versions: %w", err)
	}
	defer rows.Close()

	versions := make([]VersionInfo, 0)
	for rows.Next() {
		var info VersionInfo
		if err := rows.Scan(&info.Version, &info.PublishedAt, &info.Categories, &info.Items); err != nil {
			return nil, fmt.Errorf("scan catalog version: %w", err)
		}
		versions = append(versions, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog versions: %w", err)
	}
	return versions, nil
}
