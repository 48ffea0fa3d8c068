package valueobject

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidEmail = errors.New("invalid email address")

// local-part@domain with at least one dot in the domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email is an immutable, validated email address.
// The domain part is case-folded so that equality matches what the
// mail infrastructure treats as the same mailbox.
type Email struct {
	address string
}

// ParseEmail validates and normalizes a raw address.
func ParseEmail(raw string) (Email, error) {
	raw = strings.TrimSpace(raw)
	if !emailPattern.MatchString(raw) {
		return Email{}, ErrInvalidEmail
	}
	at := strings.LastIndex(raw, "@")
	local, domain := raw[:at], raw[at+1:]
	return Email{address: local + "@" + strings.ToLower(domain)}, nil
}

// Address returns the normalized address string.
func (e Email) Address() string { return e.address }

func (e Email) String() string { return e.address }

// Equal reports whether both values hold the same normalized address.
func (e Email) Equal(other Email) bool { return e.address == other.address }

// IsZero reports whether the value was never parsed.
func (e Email) IsZero() bool { return e.address == "" }
