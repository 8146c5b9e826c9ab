package movement

import (
	"context"
	"time"

	"github.com/jhoicas/stockmov-api/internal/domain/entity"
	"github.com/jhoicas/stockmov-api/internal/domain/repository"
)

// HeaderInput campos mutables de una cabecera al crear o actualizar.
type HeaderInput struct {
	Description string
	Date        time.Time
	CreatedBy   string
}

// LineInput campos de una línea al crear o actualizar. Las actualizaciones
// van por el ID propio de la línea; no llevan referencia a la cabecera.
type LineInput struct {
	ProductName string
	SKU         string
	Quantity    int
}

// Gateway es el contrato abstracto que consumen el editor, el listado y el
// libro de movimientos. Los componentes de sesión solo conocen esta interfaz;
// la implementación real (MovementUseCase sobre PostgreSQL, un fake en tests,
// o un cliente remoto) queda fuera de su vista.
type Gateway interface {
	CreateHeader(ctx context.Context, tenantID, kind string, in HeaderInput) (*entity.MovementHeader, error)
	UpdateHeader(ctx context.Context, id string, in HeaderInput) (*entity.MovementHeader, error)
	GetHeader(ctx context.Context, id string) (*entity.MovementHeader, error)
	ListHeaders(ctx context.Context, tenantID, kind string) ([]*entity.MovementHeader, error)
	// DeleteHeader falla con ErrFinalized si la cabecera ya está finalizada.
	DeleteHeader(ctx context.Context, id string) error
	// FinalizeHeader es de un solo uso: una segunda llamada falla con ErrFinalized.
	FinalizeHeader(ctx context.Context, id string) (*entity.MovementHeader, error)
	NextNumber(ctx context.Context, tenantID, kind string) (string, error)

	ListLines(ctx context.Context, headerID string) ([]*entity.MovementLine, error)
	GetLine(ctx context.Context, id string) (*entity.MovementLine, error)
	CreateLine(ctx context.Context, headerID string, in LineInput) (*entity.MovementLine, error)
	UpdateLine(ctx context.Context, id string, in LineInput) (*entity.MovementLine, error)
	DeleteLine(ctx context.Context, id string) error

	// Catálogo de solo lectura (colaborador externo del editor).
	ListProducts(ctx context.Context, tenantID string) ([]*entity.Product, error)
	ListSkus(ctx context.Context, productID string) ([]*entity.ProductSku, error)

	ListLedger(ctx context.Context, tenantID string) ([]LedgerEntry, error)
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad al finalizar salidas
// (verificación y descuento de disponibilidad, todo o nada).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		headers repository.MovementHeaderRepository,
		lines repository.MovementLineRepository,
		skus repository.ProductSkuRepository,
	) error) error
}
