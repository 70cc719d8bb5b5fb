package estimate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arunahq/backend-estimate/internal/pricing"
)

// PGStore is the pgx-backed Store.
type PGStore struct {
	Pool *pgxpool.Pool
}

// Insert writes a new estimate row and returns it with the generated id
// and timestamp filled in.
func (s *PGStore) Insert(ctx context.Context, tenantSlug string, rec Record) (Record, error) {
	configuration, err := json.Marshal(rec.Configuration)
	if err != nil {
		return Record{}, fmt.Errorf("encode configuration: %w", err)
	}
	breakdown, err := json.Marshal(rec.Breakdown)
	if err != nil {
		return Record{}, fmt.Errorf("encode breakdown: %w", err)
	}

	rec.TenantSlug = tenantSlug
	err = s.Pool.QueryRow(ctx, `
		INSERT INTO estimates (
			tenant_id, catalog_version, plan_tier, carpet_area,
			contact_name, contact_email, configuration, breakdown, total
		)
		SELECT t.id, $2, $3, $4, $5, $6, $7, $8, $9
		FROM tenants t
		WHERE t.slug = $1
		RETURNING id, created_at`,
		tenantSlug, rec.CatalogVersion,
		string(rec.Configuration.PlanTier), rec.Configuration.CarpetArea,
		rec.Contact.Name, rec.Contact.Email,
		configuration, breakdown, rec.Total).
		Scan(&rec.ID, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, fmt.Errorf("insert estimate: tenant %q not found", tenantSlug)
	}
	if err != nil {
		return Record{}, fmt.Errorf("insert estimate: %w", err)
	}
	return rec, nil
}

func scanRecord(row pgx.Row, rec *Record) error {
	var (
		configuration []byte
		breakdown     []byte
	)
	if err := row.Scan(
		&rec.ID, &rec.TenantSlug, &rec.CatalogVersion,
		&rec.Contact.Name, &rec.Contact.Email,
		&configuration, &breakdown, &rec.Total, &rec.CreatedAt,
	); err != nil {
		return err
	}
	if err := json.Unmarshal(configuration, &rec.Configuration); err != nil {
		return fmt.Errorf("decode configuration: %w", err)
	}
	rec.Breakdown = []pricing.BreakdownRow{}
	if err := json.Unmarshal(breakdown, &rec.Breakdown); err != nil {
		return fmt.Errorf("decode breakdown: %w", err)
	}
	return nil
}

const recordColumns = `
	e.id, t.slug, e.catalog_version,
	e.contact_name, e.contact_email,
	e.configuration, e.breakdown, e.total, e.created_at`

// Get fetches one estimate scoped to the tenant.
func (s *PGStore) Get(ctx context.Context, tenantSlug string, id uuid.UUID) (Record, error) {
	var rec Record
	row := s.Pool.QueryRow(ctx, `
		SELECT`+recordColumns+`
		FROM estimates e
		JOIN tenants t ON t.id = e.tenant_id
		WHERE t.slug = $1 AND e.id = $2`, tenantSlug, id)
	err := scanRecord(row, &rec)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load estimate: %w", err)
	}
	return rec, nil
}

// List returns the tenant's estimates for a contact email, newest first.
func (s *PGStore) List(ctx context.Context, tenantSlug, contactEmail string, limit, offset int) ([]Record, int, error) {
	var total int
	err := s.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM estimates e
		JOIN tenants t ON t.id = e.tenant_id
		WHERE t.slug = $1 AND e.contact_email = $2`, tenantSlug, contactEmail).
		Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count estimates: %w", err)
	}

	rows, err := s.Pool.Query(ctx, `
		SELECT`+recordColumns+`
		FROM estimates e
		JOIN tenants t ON t.id = e.tenant_id
		WHERE t.slug = $1 AND e.contact_email = $2
		ORDER BY e.created_at DESC
		LIMIT $3 OFFSET $4`, tenantSlug, contactEmail, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list estimates: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var rec Record
		if err := scanRecord(rows, &rec); err != nil {
			return nil, 0, fmt.Errorf("scan estimate: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate estimates: %w", err)
	}
	return records, total, nil
}
