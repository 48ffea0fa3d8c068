package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/davryn/identity-service/internal/domain/entity"
	"github.com/davryn/identity-service/internal/domain/repository"
	"github.com/davryn/identity-service/internal/domain/valueobject"
)

// UserRepository is the in-memory Directory double. Safe for
// concurrent use; stores copies so callers cannot mutate persisted
// state behind its back. Email matching case-folds the whole address,
// the same policy as the Postgres index on lower(email).
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]entity.User
}

func sameAddress(a, b valueobject.Email) bool {
	return strings.EqualFold(a.Address(), b.Address())
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]entity.User)}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if !existing.IsDeleted && sameAddress(existing.Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.users {
		if id != u.ID && !existing.IsDeleted && sameAddress(existing.Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if !u.IsDeleted && sameAddress(u.Email, email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) HardDelete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
