package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
	"github.com/jhoicas/ventas-dashboard/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const createUsersTable = `
	CREATE TABLE IF NOT EXISTS usuarios (
		id            UUID        PRIMARY KEY,
		username      TEXT        UNIQUE NOT NULL,
		password_hash TEXT        NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// FindByUsername obtiene un usuario por username; nil, nil si no existe (o si la tabla aún no fue creada).
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query, args, err := squirrel.
		Select("id", "username", "password_hash", "created_at").
		From("usuarios").
		Where(squirrel.Eq{"username": username}).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}

	var u entity.User
	err = r.pool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &u, nil
}

// CreateIfNotExists asegura la tabla e inserta el usuario ignorando duplicados.
func (r *UserRepo) CreateIfNotExists(ctx context.Context, user *entity.User) (bool, error) {
	if _, err := r.pool.Exec(ctx, createUsersTable); err != nil {
		return false, fmt.Errorf("create users table: %w", err)
	}

	query, args, err := squirrel.
		Insert("usuarios").
		Columns("id", "username", "password_hash", "created_at").
		Values(user.ID, user.Username, user.PasswordHash, user.CreatedAt).
		Suffix("ON CONFLICT (username) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert user: %w", err)
	}
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
