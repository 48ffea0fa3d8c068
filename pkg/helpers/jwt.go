package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired indicates the token's expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalidSignature indicates the signature did not verify
	// or the token is otherwise malformed.
	ErrTokenInvalidSignature = errors.New("token signature invalid")
)

// JWTManager issues and verifies HS256 bearer tokens asserting a user
// id. It is stateless and safe for concurrent use; rotating the secret
// invalidates every previously issued token.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// NewJWTManagerWithClock injects a clock, used by tests to simulate
// expiry without sleeping.
func NewJWTManagerWithClock(secret string, ttl time.Duration, now func() time.Time) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: now}
}

// Issue signs a token with subject = userID, issued-at = now and
// expiry = now + ttl. The claims never include credential material.
func (m *JWTManager) Issue(userID string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// Verify checks the signature and expiry and returns the subject user
// id. Expiry comparison is strict; no leeway is applied.
func (m *JWTManager) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(m.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		default:
			return "", ErrTokenInvalidSignature
		}
	}
	if !tkn.Valid || claims.Subject == "" {
		return "", ErrTokenInvalidSignature
	}
	return claims.Subject, nil
}
