package movement

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stockmov-api/internal/domain"
	"github.com/jhoicas/stockmov-api/internal/domain/entity"
	"github.com/jhoicas/stockmov-api/internal/domain/repository"
	"github.com/jhoicas/stockmov-api/internal/domain/sequence"
)

// MovementUseCase implementa Gateway sobre los repositorios de dominio.
// Concentra las reglas de negocio del ciclo de vida borrador -> finalizado:
// asignación de números corridos, guardas de inmutabilidad tras finalizar y
// ajustes de disponibilidad de SKU.
type MovementUseCase struct {
	headers  repository.MovementHeaderRepository
	lines    repository.MovementLineRepository
	products repository.ProductRepository
	skus     repository.ProductSkuRepository
	users    repository.UserRepository
	tx       TxRunner
}

var _ Gateway = (*MovementUseCase)(nil)

func NewMovementUseCase(
	headers repository.MovementHeaderRepository,
	lines repository.MovementLineRepository,
	products repository.ProductRepository,
	skus repository.ProductSkuRepository,
	users repository.UserRepository,
	tx TxRunner,
) *MovementUseCase {
	return &MovementUseCase{
		headers:  headers,
		lines:    lines,
		products: products,
		skus:     skus,
		users:    users,
		tx:       tx,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Cabeceras
// ─────────────────────────────────────────────────────────────────────────────

// CreateHeader crea una cabecera en borrador. El número corrido lo asigna
// siempre el servidor a partir del último registrado; cualquier sugerencia
// calculada en el cliente se descarta.
func (uc *MovementUseCase) CreateHeader(ctx context.Context, tenantID, kind string, in HeaderInput) (*entity.MovementHeader, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant requerido", domain.ErrInvalidInput)
	}
	if kind != entity.MovementKindIN && kind != entity.MovementKindOUT {
		return nil, fmt.Errorf("%w: kind desconocido %q", domain.ErrInvalidInput, kind)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: la fecha es obligatoria", domain.ErrInvalidInput)
	}

	last, err := uc.headers.LastRunningNumber(ctx, tenantID, kind)
	if err != nil {
		return nil, err
	}

	header := &entity.MovementHeader{
		TenantID:      tenantID,
		Kind:          kind,
		RunningNumber: sequence.NextAfter(entity.RunningPrefix(kind), last),
		Description:   in.Description,
		Date:          in.Date,
		CreatedBy:     in.CreatedBy,
		Finalized:     false,
	}
	if err := uc.headers.Create(ctx, header); err != nil {
		return nil, err
	}
	return header, nil
}

// UpdateHeader actualiza los campos mutables de una cabecera en borrador.
// El número corrido y el kind nunca cambian después de crear.
func (uc *MovementUseCase) UpdateHeader(ctx context.Context, id string, in HeaderInput) (*entity.MovementHeader, error) {
	header, err := uc.mustDraftHeader(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: la fecha es obligatoria", domain.ErrInvalidInput)
	}

	header.Description = in.Description
	header.Date = in.Date
	if err := uc.headers.Update(ctx, header); err != nil {
		return nil, err
	}
	return header, nil
}

func (uc *MovementUseCase) GetHeader(ctx context.Context, id string) (*entity.MovementHeader, error) {
	header, err := uc.headers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, domain.ErrNotFound
	}
	return header, nil
}

func (uc *MovementUseCase) ListHeaders(ctx context.Context, tenantID, kind string) ([]*entity.MovementHeader, error) {
	return uc.headers.ListByTenantAndKind(ctx, tenantID, kind)
}

// DeleteHeader elimina una cabecera en borrador junto con sus líneas.
// Para entradas, revierte la disponibilidad que esas líneas habían sumado.
func (uc *MovementUseCase) DeleteHeader(ctx context.Context, id string) error {
	header, err := uc.mustDraftHeader(ctx, id)
	if err != nil {
		return err
	}

	lines, err := uc.lines.ListByHeader(ctx, id)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if header.Kind == entity.MovementKindIN {
			if err := uc.adjustAvailability(ctx, uc.skus, header.TenantID, line.SKU, -line.Quantity); err != nil {
				return err
			}
		}
		if err := uc.lines.Delete(ctx, line.ID); err != nil {
			return err
		}
	}
	return uc.headers.Delete(ctx, id)
}

// FinalizeHeader cierra la cabecera de forma irreversible. Para salidas, la
// verificación de disponibilidad y el descuento de todas las líneas ocurren en
// una sola transacción: si un SKU no alcanza, no se descuenta nada y la
// cabecera sigue en borrador.
func (uc *MovementUseCase) FinalizeHeader(ctx context.Context, id string) (*entity.MovementHeader, error) {
	header, err := uc.mustDraftHeader(ctx, id)
	if err != nil {
		return nil, err
	}

	if header.Kind == entity.MovementKindIN {
		// las entradas ya ajustaron disponibilidad línea a línea; solo cierra
		header.Finalized = true
		if err := uc.headers.Update(ctx, header); err != nil {
			return nil, err
		}
		return header, nil
	}

	err = uc.tx.Run(ctx, func(
		headers repository.MovementHeaderRepository,
		lines repository.MovementLineRepository,
		skus repository.ProductSkuRepository,
	) error {
		txLines, err := lines.ListByHeader(ctx, id)
		if err != nil {
			return err
		}
		for _, line := range txLines {
			if line.SKU == "" {
				continue
			}
			sku, err := skus.GetByCodeAndTenant(ctx, line.SKU, header.TenantID)
			if err != nil {
				return err
			}
			if sku == nil {
				continue
			}
			if sku.QuantityAvailable < line.Quantity {
				return fmt.Errorf("%w: SKU %s (disponible %d, requerido %d)",
					domain.ErrInsufficientStock, sku.Code, sku.QuantityAvailable, line.Quantity)
			}
			if err := skus.UpdateQuantity(ctx, sku.ID, sku.QuantityAvailable-line.Quantity); err != nil {
				return err
			}
		}
		header.Finalized = true
		return headers.Update(ctx, header)
	})
	if err != nil {
		header.Finalized = false
		return nil, err
	}
	return header, nil
}

// NextNumber devuelve el próximo número corrido que asignaría el servidor.
func (uc *MovementUseCase) NextNumber(ctx context.Context, tenantID, kind string) (string, error) {
	if kind != entity.MovementKindIN && kind != entity.MovementKindOUT {
		return "", fmt.Errorf("%w: kind desconocido %q", domain.ErrInvalidInput, kind)
	}
	last, err := uc.headers.LastRunningNumber(ctx, tenantID, kind)
	if err != nil {
		return "", err
	}
	return sequence.NextAfter(entity.RunningPrefix(kind), last), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Líneas
// ─────────────────────────────────────────────────────────────────────────────

// CreateLine agrega una línea a una cabecera en borrador. En entradas, la
// cantidad suma de inmediato a la disponibilidad del SKU.
func (uc *MovementUseCase) CreateLine(ctx context.Context, headerID string, in LineInput) (*entity.MovementLine, error) {
	header, err := uc.mustDraftHeader(ctx, headerID)
	if err != nil {
		return nil, err
	}
	if err := validateLineInput(in); err != nil {
		return nil, err
	}

	line := &entity.MovementLine{
		HeaderID:    headerID,
		ProductName: in.ProductName,
		SKU:         in.SKU,
		Quantity:    in.Quantity,
	}
	if err := uc.lines.Create(ctx, line); err != nil {
		return nil, err
	}
	if header.Kind == entity.MovementKindIN {
		if err := uc.adjustAvailability(ctx, uc.skus, header.TenantID, line.SKU, line.Quantity); err != nil {
			return nil, err
		}
	}
	return line, nil
}

// UpdateLine reemplaza el contenido de una línea existente. En entradas, la
// disponibilidad se corrige revirtiendo la cantidad anterior sobre el SKU
// anterior y aplicando la nueva sobre el nuevo.
func (uc *MovementUseCase) UpdateLine(ctx context.Context, id string, in LineInput) (*entity.MovementLine, error) {
	line, err := uc.lines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	header, err := uc.mustDraftHeader(ctx, line.HeaderID)
	if err != nil {
		return nil, err
	}
	if err := validateLineInput(in); err != nil {
		return nil, err
	}

	prevSKU, prevQty := line.SKU, line.Quantity
	line.ProductName = in.ProductName
	line.SKU = in.SKU
	line.Quantity = in.Quantity
	if err := uc.lines.Update(ctx, line); err != nil {
		return nil, err
	}
	if header.Kind == entity.MovementKindIN {
		if err := uc.adjustAvailability(ctx, uc.skus, header.TenantID, prevSKU, -prevQty); err != nil {
			return nil, err
		}
		if err := uc.adjustAvailability(ctx, uc.skus, header.TenantID, line.SKU, line.Quantity); err != nil {
			return nil, err
		}
	}
	return line, nil
}

// DeleteLine elimina una línea de una cabecera en borrador. En entradas,
// revierte la disponibilidad que la línea había sumado.
func (uc *MovementUseCase) DeleteLine(ctx context.Context, id string) error {
	line, err := uc.lines.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if line == nil {
		return domain.ErrNotFound
	}
	header, err := uc.mustDraftHeader(ctx, line.HeaderID)
	if err != nil {
		return err
	}
	if err := uc.lines.Delete(ctx, id); err != nil {
		return err
	}
	if header.Kind == entity.MovementKindIN {
		return uc.adjustAvailability(ctx, uc.skus, header.TenantID, line.SKU, -line.Quantity)
	}
	return nil
}

func (uc *MovementUseCase) ListLines(ctx context.Context, headerID string) ([]*entity.MovementLine, error) {
	return uc.lines.ListByHeader(ctx, headerID)
}

// GetLine devuelve una línea por su ID.
func (uc *MovementUseCase) GetLine(ctx context.Context, id string) (*entity.MovementLine, error) {
	line, err := uc.lines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	return line, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Catálogo y libro de movimientos
// ─────────────────────────────────────────────────────────────────────────────

func (uc *MovementUseCase) ListProducts(ctx context.Context, tenantID string) ([]*entity.Product, error) {
	return uc.products.ListByTenant(ctx, tenantID)
}

func (uc *MovementUseCase) ListSkus(ctx context.Context, productID string) ([]*entity.ProductSku, error) {
	return uc.skus.ListByProduct(ctx, productID)
}

// ListLedger fusiona entradas y salidas del tenant en un solo libro, una
// entrada por línea, con el nombre del creador resuelto. El resultado viene
// ordenado por fecha descendente.
func (uc *MovementUseCase) ListLedger(ctx context.Context, tenantID string) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	creatorIDs := make(map[string]struct{})

	for _, kind := range []string{entity.MovementKindIN, entity.MovementKindOUT} {
		headers, err := uc.headers.ListByTenantAndKind(ctx, tenantID, kind)
		if err != nil {
			return nil, err
		}
		for _, header := range headers {
			lines, err := uc.lines.ListByHeader(ctx, header.ID)
			if err != nil {
				return nil, err
			}
			for _, line := range lines {
				entries = append(entries, LedgerEntry{
					Kind:          header.Kind,
					RunningNumber: header.RunningNumber,
					Date:          header.Date,
					ProductName:   line.ProductName,
					SKU:           line.SKU,
					Quantity:      line.Quantity,
					CreatedByID:   header.CreatedBy,
				})
				if header.CreatedBy != "" {
					creatorIDs[header.CreatedBy] = struct{}{}
				}
			}
		}
	}

	names, err := uc.resolveCreatorNames(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].CreatedByName = names[entries[i].CreatedByID]
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, nil
}

func (uc *MovementUseCase) resolveCreatorNames(ctx context.Context, ids map[string]struct{}) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	flat := make([]string, 0, len(ids))
	for id := range ids {
		flat = append(flat, id)
	}
	users, err := uc.users.ListByIDs(ctx, flat)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// mustDraftHeader carga la cabecera y garantiza que sigue en borrador.
func (uc *MovementUseCase) mustDraftHeader(ctx context.Context, id string) (*entity.MovementHeader, error) {
	header, err := uc.headers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, domain.ErrNotFound
	}
	if header.Finalized {
		return nil, domain.ErrFinalized
	}
	return header, nil
}

func validateLineInput(in LineInput) error {
	if in.ProductName == "" {
		return fmt.Errorf("%w: la línea requiere producto", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	return nil
}

// adjustAvailability suma delta a la disponibilidad del SKU referenciado por
// código. Líneas sin SKU o con códigos que ya no existen en el catálogo se
// omiten sin error.
func (uc *MovementUseCase) adjustAvailability(ctx context.Context, skus repository.ProductSkuRepository, tenantID, code string, delta int) error {
	if code == "" {
		return nil
	}
	sku, err := skus.GetByCodeAndTenant(ctx, code, tenantID)
	if err != nil {
		return err
	}
	if sku == nil {
		return nil
	}
	return skus.UpdateQuantity(ctx, sku.ID, sku.QuantityAvailable+delta)
}
