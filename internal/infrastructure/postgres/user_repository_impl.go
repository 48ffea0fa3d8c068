package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davryn/identity-service/internal/domain/entity"
	"github.com/davryn/identity-service/internal/domain/repository"
	"github.com/davryn/identity-service/internal/domain/valueobject"
)

const uniqueViolation = "23505"

// UserRepository persists users in Postgres. The unique index on
// lower(email) is the authoritative uniqueness guard; violations map
// to repository.ErrDuplicateEmail.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, is_verified, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, u.ID, u.Email.Address(), u.Password.Bytes(), u.IsVerified, u.IsDeleted, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, is_verified, is_deleted, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, is_verified, is_deleted, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1) AND NOT is_deleted
	`, email.Address())
	return scanUser(row)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, is_verified = $3, is_deleted = $4, updated_at = $5
		WHERE id = $6
	`, u.Email.Address(), u.Password.Bytes(), u.IsVerified, u.IsDeleted, u.UpdatedAt, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) HardDelete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u       entity.User
		address string
		hash    []byte
	)
	if err := row.Scan(&u.ID, &address, &hash, &u.IsVerified, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	email, err := valueobject.ParseEmail(address)
	if err != nil {
		return nil, fmt.Errorf("stored email %q: %w", address, err)
	}
	u.Email = email
	u.Password = valueobject.PasswordHashFromBytes(hash)
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ repository.UserRepository = (*UserRepository)(nil)
