package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockmov-api/internal/domain"
	"github.com/jhoicas/stockmov-api/internal/domain/entity"
	"github.com/jhoicas/stockmov-api/internal/domain/repository"
)

var _ repository.ProductSkuRepository = (*ProductSkuRepo)(nil)

// ProductSkuRepo implementación de ProductSkuRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductSkuRepo struct {
	q Querier
}

// NewProductSkuRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductSkuRepository(q Querier) *ProductSkuRepo {
	return &ProductSkuRepo{q: q}
}

const skuColumns = `id, tenant_id, product_id, code, colour, size, quantity_available, image_url, created_at, updated_at`

// ListByProduct lista los SKUs de un producto ordenados por código.
func (r *ProductSkuRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductSku, error) {
	query := `SELECT ` + skuColumns + ` FROM product_skus WHERE product_id = $1 ORDER BY code ASC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list product skus: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductSku
	for rows.Next() {
		var s entity.ProductSku
		if err := rows.Scan(&s.ID, &s.TenantID, &s.ProductID, &s.Code, &s.Colour, &s.Size, &s.QuantityAvailable, &s.ImageURL, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product sku: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// GetByCodeAndTenant devuelve el primer SKU con ese código en el tenant, o
// nil si el código ya no existe en el catálogo.
func (r *ProductSkuRepo) GetByCodeAndTenant(ctx context.Context, code, tenantID string) (*entity.ProductSku, error) {
	query := `SELECT ` + skuColumns + ` FROM product_skus WHERE code = $1 AND tenant_id = $2 LIMIT 1`
	var s entity.ProductSku
	err := r.q.QueryRow(ctx, query, code, tenantID).Scan(
		&s.ID, &s.TenantID, &s.ProductID, &s.Code, &s.Colour, &s.Size, &s.QuantityAvailable, &s.ImageURL, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product sku by code: %w", err)
	}
	return &s, nil
}

// UpdateQuantity fija la disponibilidad de un SKU.
func (r *ProductSkuRepo) UpdateQuantity(ctx context.Context, id string, quantityAvailable int) error {
	query := `UPDATE product_skus SET quantity_available = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, quantityAvailable, time.Now())
	if err != nil {
		return fmt.Errorf("update sku quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
