package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockmov-api/internal/domain"
	"github.com/jhoicas/stockmov-api/internal/domain/entity"
	"github.com/jhoicas/stockmov-api/internal/domain/repository"
)

var _ repository.MovementHeaderRepository = (*MovementHeaderRepo)(nil)

// MovementHeaderRepo implementación de MovementHeaderRepository sobre
// PostgreSQL (usable con pool o tx).
type MovementHeaderRepo struct {
	q Querier
}

// NewMovementHeaderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementHeaderRepository(q Querier) *MovementHeaderRepo {
	return &MovementHeaderRepo{q: q}
}

const headerColumns = `id, tenant_id, kind, running_number, description, date, created_by, finalized, created_at, updated_at`

// Create persiste una cabecera nueva; asigna el UUID y los timestamps.
// Devuelve ErrDuplicate si el número corrido ya existe en el (tenant, kind).
func (r *MovementHeaderRepo) Create(ctx context.Context, header *entity.MovementHeader) error {
	if header.ID == "" {
		header.ID = uuid.New().String()
	}
	now := time.Now()
	header.CreatedAt = now
	header.UpdatedAt = now
	query := `
		INSERT INTO movement_headers (` + headerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		header.ID, header.TenantID, header.Kind, header.RunningNumber, header.Description,
		header.Date, header.CreatedBy, header.Finalized, header.CreatedAt, header.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert movement header: %w", err)
	}
	return nil
}

// GetByID obtiene una cabecera por ID, o nil si no existe.
func (r *MovementHeaderRepo) GetByID(ctx context.Context, id string) (*entity.MovementHeader, error) {
	query := `SELECT ` + headerColumns + ` FROM movement_headers WHERE id = $1`
	h, err := scanHeader(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement header: %w", err)
	}
	return h, nil
}

// Update actualiza los campos mutables y la marca de finalización.
func (r *MovementHeaderRepo) Update(ctx context.Context, header *entity.MovementHeader) error {
	header.UpdatedAt = time.Now()
	query := `
		UPDATE movement_headers
		SET description = $2, date = $3, finalized = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		header.ID, header.Description, header.Date, header.Finalized, header.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update movement header: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTenantAndKind lista las cabeceras de un tenant para un kind, en el
// orden de creación (el orden natural de los números corridos).
func (r *MovementHeaderRepo) ListByTenantAndKind(ctx context.Context, tenantID, kind string) ([]*entity.MovementHeader, error) {
	query := `
		SELECT ` + headerColumns + `
		FROM movement_headers
		WHERE tenant_id = $1 AND kind = $2
		ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, tenantID, kind)
	if err != nil {
		return nil, fmt.Errorf("list movement headers: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementHeader
	for rows.Next() {
		h, err := scanHeader(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement header: %w", err)
		}
		list = append(list, h)
	}
	return list, rows.Err()
}

// LastRunningNumber devuelve el número corrido de la cabecera más reciente
// del (tenant, kind), o "" si todavía no hay ninguna.
func (r *MovementHeaderRepo) LastRunningNumber(ctx context.Context, tenantID, kind string) (string, error) {
	query := `
		SELECT running_number FROM movement_headers
		WHERE tenant_id = $1 AND kind = $2
		ORDER BY created_at DESC LIMIT 1`
	var running string
	err := r.q.QueryRow(ctx, query, tenantID, kind).Scan(&running)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last running number: %w", err)
	}
	return running, nil
}

// Delete elimina una cabecera por ID.
func (r *MovementHeaderRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM movement_headers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement header: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanHeader(row pgx.Row) (*entity.MovementHeader, error) {
	var h entity.MovementHeader
	err := row.Scan(
		&h.ID, &h.TenantID, &h.Kind, &h.RunningNumber, &h.Description,
		&h.Date, &h.CreatedBy, &h.Finalized, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
