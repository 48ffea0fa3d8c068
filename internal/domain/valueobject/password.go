package valueobject

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyPassword = errors.New("password cannot be empty")

// PasswordHash wraps a bcrypt hash of a password. The plain text is
// only used to derive the hash and is never retained.
type PasswordHash struct {
	hash []byte
}

// NewPasswordHash derives a hash with the default bcrypt cost.
func NewPasswordHash(plain string) (PasswordHash, error) {
	return NewPasswordHashWithCost(plain, bcrypt.DefaultCost)
}

// NewPasswordHashWithCost derives a hash with an explicit work factor.
func NewPasswordHashWithCost(plain string, cost int) (PasswordHash, error) {
	if plain == "" {
		return PasswordHash{}, ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return PasswordHash{}, err
	}
	return PasswordHash{hash: b}, nil
}

// PasswordHashFromBytes rehydrates a stored hash. Used by repositories.
func PasswordHashFromBytes(b []byte) PasswordHash {
	cp := make([]byte, len(b))
	copy(cp, b)
	return PasswordHash{hash: cp}
}

// Verify reports whether candidate matches the stored hash. An empty
// candidate is always false; malformed input never produces an error.
func (p PasswordHash) Verify(candidate string) bool {
	if candidate == "" || len(p.hash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(p.hash, []byte(candidate)) == nil
}

// Bytes returns a copy of the hash for persistence.
func (p PasswordHash) Bytes() []byte {
	cp := make([]byte, len(p.hash))
	copy(cp, p.hash)
	return cp
}

func (p PasswordHash) IsZero() bool { return len(p.hash) == 0 }
