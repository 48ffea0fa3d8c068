package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davryn/identity-service/internal/application"
)

// TokenStore keeps single-use tokens in Redis under a key prefix, with
// expiry handled by the key TTL. Redeem uses GETDEL so a token can
// only ever be consumed once, even under concurrent redeemers.
type TokenStore struct {
	rdb    *redis.Client
	prefix string
}

func NewTokenStore(rdb *redis.Client, prefix string) *TokenStore {
	return &TokenStore{rdb: rdb, prefix: prefix}
}

func (s *TokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.prefix+token, userID, ttl).Err()
}

func (s *TokenStore) Redeem(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.GetDel(ctx, s.prefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", application.ErrResetTokenInvalid
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

var _ application.TokenStore = (*TokenStore)(nil)
