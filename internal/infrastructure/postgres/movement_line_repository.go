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

var _ repository.MovementLineRepository = (*MovementLineRepo)(nil)

// MovementLineRepo implementación de MovementLineRepository sobre PostgreSQL
// (usable con pool o tx).
type MovementLineRepo struct {
	q Querier
}

// NewMovementLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementLineRepository(q Querier) *MovementLineRepo {
	return &MovementLineRepo{q: q}
}

const lineColumns = `id, header_id, product_name, sku, quantity, created_at, updated_at`

// Create persiste una línea nueva; asigna el UUID y los timestamps.
func (r *MovementLineRepo) Create(ctx context.Context, line *entity.MovementLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	now := time.Now()
	line.CreatedAt = now
	line.UpdatedAt = now
	query := `
		INSERT INTO movement_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.HeaderID, line.ProductName, line.SKU, line.Quantity,
		line.CreatedAt, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement line: %w", err)
	}
	return nil
}

// GetByID obtiene una línea por ID, o nil si no existe.
func (r *MovementLineRepo) GetByID(ctx context.Context, id string) (*entity.MovementLine, error) {
	query := `SELECT ` + lineColumns + ` FROM movement_lines WHERE id = $1`
	var l entity.MovementLine
	err := r.q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.HeaderID, &l.ProductName, &l.SKU, &l.Quantity, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement line: %w", err)
	}
	return &l, nil
}

// Update reemplaza el contenido de una línea.
func (r *MovementLineRepo) Update(ctx context.Context, line *entity.MovementLine) error {
	line.UpdatedAt = time.Now()
	query := `
		UPDATE movement_lines
		SET product_name = $2, sku = $3, quantity = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		line.ID, line.ProductName, line.SKU, line.Quantity, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update movement line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByHeader lista las líneas de una cabecera en orden de creación.
func (r *MovementLineRepo) ListByHeader(ctx context.Context, headerID string) ([]*entity.MovementLine, error) {
	query := `
		SELECT ` + lineColumns + ` FROM movement_lines
		WHERE header_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, headerID)
	if err != nil {
		return nil, fmt.Errorf("list movement lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementLine
	for rows.Next() {
		var l entity.MovementLine
		if err := rows.Scan(&l.ID, &l.HeaderID, &l.ProductName, &l.SKU, &l.Quantity, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan movement line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Delete elimina una línea por ID.
func (r *MovementLineRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM movement_lines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
