package repository

import (
	"context"
	"errors"

	"github.com/davryn/identity-service/internal/domain/entity"
	"github.com/davryn/identity-service/internal/domain/valueobject"
)

var (
	// ErrNotFound indicates no user matched the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail indicates the uniqueness constraint on the
	// normalized email was violated.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrHardDeleteUnsupported is returned by backings that cannot
	// remove records permanently.
	ErrHardDeleteUnsupported = errors.New("hard delete not supported")
)

// UserRepository is the persistence contract for users. GetByEmail
// excludes soft-deleted users; GetByID returns them so deleted records
// stay inspectable by id.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error)
	HardDelete(ctx context.Context, id string) error
}
