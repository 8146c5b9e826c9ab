package repository

import (
	"context"

	"github.com/jhoicas/stockmov-api/internal/domain/entity"
)

// MovementHeaderRepository define el puerto de persistencia para cabeceras de movimiento.
type MovementHeaderRepository interface {
	Create(ctx context.Context, header *entity.MovementHeader) error
	GetByID(ctx context.Context, id string) (*entity.MovementHeader, error)
	Update(ctx context.Context, header *entity.MovementHeader) error
	// ListByTenantAndKind devuelve las cabeceras de un tenant para un kind,
	// ordenadas por fecha de creación ascendente (el orden de los números corridos).
	ListByTenantAndKind(ctx context.Context, tenantID, kind string) ([]*entity.MovementHeader, error)
	// LastRunningNumber devuelve el número corrido de la cabecera más reciente
	// del (tenant, kind), o "" si no existe ninguna.
	LastRunningNumber(ctx context.Context, tenantID, kind string) (string, error)
	Delete(ctx context.Context, id string) error
}

// MovementLineRepository define el puerto de persistencia para líneas de movimiento.
type MovementLineRepository interface {
	Create(ctx context.Context, line *entity.MovementLine) error
	GetByID(ctx context.Context, id string) (*entity.MovementLine, error)
	Update(ctx context.Context, line *entity.MovementLine) error
	ListByHeader(ctx context.Context, headerID string) ([]*entity.MovementLine, error)
	Delete(ctx context.Context, id string) error
}
