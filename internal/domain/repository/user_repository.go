package repository

import (
	"context"

	"github.com/jhoicas/stockmov-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ListByIDs resuelve nombres de creadores para el libro de movimientos.
	ListByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
}
