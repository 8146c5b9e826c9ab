package repository

import (
	"context"

	"github.com/jhoicas/stockmov-api/internal/domain/entity"
)

// ProductRepository define el puerto de lectura del catálogo de productos.
// El editor de movimientos solo lee; el CRUD del catálogo vive fuera de este core.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.Product, error)
}

// ProductSkuRepository define el puerto para SKUs. UpdateQuantity es el único
// punto de escritura: ajusta QuantityAvailable al guardar entradas y finalizar salidas.
type ProductSkuRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]*entity.ProductSku, error)
	// GetByCodeAndTenant devuelve el primer SKU con ese código en el tenant, o nil.
	GetByCodeAndTenant(ctx context.Context, code, tenantID string) (*entity.ProductSku, error)
	UpdateQuantity(ctx context.Context, id string, quantityAvailable int) error
}
