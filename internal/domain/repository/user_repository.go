package repository

import (
	"context"

	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	// FindByUsername devuelve nil, nil si el usuario no existe.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	// CreateIfNotExists inserta el usuario; created=false si el username ya existía.
	CreateIfNotExists(ctx context.Context, user *entity.User) (created bool, err error)
}
