package repository

import (
	"context"

	"github.com/jhoicas/stockmov-api/internal/domain/entity"
)

// TenantRepository define el puerto de persistencia para tenants.
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
}
