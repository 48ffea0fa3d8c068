package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/davryn/identity-service/internal/domain/valueobject"
)

// User is the aggregate root for the identity domain. The id is
// generated once at creation and never reassigned; email and password
// only change through the profile-update and reset workflows.
type User struct {
	ID         string
	Email      valueobject.Email
	Password   valueobject.PasswordHash
	IsVerified bool
	IsDeleted  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewUser constructs a user with a fresh id and creation timestamp.
func NewUser(email valueobject.Email, password valueobject.PasswordHash) *User {
	now := time.Now().UTC()
	return &User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// VerifyPassword checks a candidate against the stored credential.
func (u *User) VerifyPassword(plain string) bool {
	return u.Password.Verify(plain)
}
