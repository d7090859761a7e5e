package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/solar-ticketing/internal/domain"
)

// CatalogRepository reads the reference catalog of sites and equipment.
// Catalog administration lives in a separate back-office system; this
// service only needs the lists for ticket entry.
type CatalogRepository interface {
	ListSites(ctx context.Context) ([]domain.Site, error)
	ListEquipmentBySite(ctx context.Context, siteID string) ([]domain.Equipment, error)
}

type catalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository instantiates repository.
func NewCatalogRepository(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{pool: pool}
}

func (r *catalogRepository) ListSites(ctx context.Context) ([]domain.Site, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, client_type, is_active, created_at FROM sites WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Site
	for rows.Next() {
		var site domain.Site
		if err := rows.Scan(&site.ID, &site.Name, &site.ClientType, &site.IsActive, &site.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, site)
	}
	return result, rows.Err()
}

func (r *catalogRepository) ListEquipmentBySite(ctx context.Context, siteID string) ([]domain.Equipment, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, site_id, name, is_active FROM equipment WHERE site_id=$1 AND is_active ORDER BY name`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Equipment
	for rows.Next() {
		var eq domain.Equipment
		if err := rows.Scan(&eq.ID, &eq.SiteID, &eq.Name, &eq.IsActive); err != nil {
			return nil, err
		}
		result = append(result, eq)
	}
	return result, rows.Err()
}
