package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wardenauth/warden/internal/auth/store"
)

// Key layout. Denylist entries carry their own TTL so Redis expires them the
// moment the underlying token would have expired anyway.
const (
	denylistKeyPrefix      = "denylist:jti:"
	refreshKeyPrefix       = "refresh:"
	refreshLookupKeyPrefix = "refresh_lookup:"

	denylistValue = "revoked"
)

// Config holds the Redis connection parameters.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Store implements store.Store on top of Redis.
type Store struct {
	rdb *redis.Client
}

// NewStore connects to Redis and verifies the connection before returning.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}

	return &Store{rdb: rdb}, nil
}

// NewStoreFromClient wraps an existing client. Used by tests running against
// miniredis.
func NewStoreFromClient(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Revocations() store.Revocations { return &revocationsRepo{rdb: s.rdb} }

func (s *Store) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{rdb: s.rdb} }

func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return mapErr(err)
	}
	return nil
}

func (s *Store) Close() error { return s.rdb.Close() }

type revocationsRepo struct {
	rdb *redis.Client
}

func (r *revocationsRepo) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, denylistKeyPrefix+jti, denylistValue, ttl).Err(); err != nil {
		return mapErr(err)
	}
	return nil
}

func (r *revocationsRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.rdb.Exists(ctx, denylistKeyPrefix+jti).Result()
	if err != nil {
		return false, mapErr(err)
	}
	return n > 0, nil
}

type refreshTokensRepo struct {
	rdb *redis.Client
}

func (r *refreshTokensRepo) Save(ctx context.Context, userID, token string, ttl time.Duration) error {
	// Fetch the token being replaced so its reverse lookup can be removed
	// in the same transaction. Leaving it behind would let a rotated-out
	// token keep resolving.
	old, err := r.rdb.Get(ctx, refreshKeyPrefix+userID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return mapErr(err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if old != "" && old != token {
			pipe.Del(ctx, refreshLookupKeyPrefix+old)
		}
		pipe.Set(ctx, refreshKeyPrefix+userID, token, ttl)
		pipe.Set(ctx, refreshLookupKeyPrefix+token, userID, ttl)
		return nil
	})
	if err != nil {
		return mapErr(err)
	}
	return nil
}

func (r *refreshTokensRepo) UserIDForToken(ctx context.Context, token string) (string, error) {
	userID, err := r.rdb.Get(ctx, refreshLookupKeyPrefix+token).Result()
	if err != nil {
		return "", mapErr(err)
	}
	return userID, nil
}

func (r *refreshTokensRepo) TokenForUser(ctx context.Context, userID string) (string, error) {
	token, err := r.rdb.Get(ctx, refreshKeyPrefix+userID).Result()
	if err != nil {
		return "", mapErr(err)
	}
	return token, nil
}

func (r *refreshTokensRepo) DeleteLookup(ctx context.Context, token string) error {
	if err := r.rdb.Del(ctx, refreshLookupKeyPrefix+token).Err(); err != nil {
		return mapErr(err)
	}
	return nil
}

func (r *refreshTokensRepo) Delete(ctx context.Context, userID string) error {
	token, err := r.rdb.Get(ctx, refreshKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return mapErr(err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, refreshKeyPrefix+userID)
		pipe.Del(ctx, refreshLookupKeyPrefix+token)
		return nil
	})
	if err != nil {
		return mapErr(err)
	}
	return nil
}

func mapErr(err error) error {
	if errors.Is(err, redis.Nil) {
		return store.ErrNotFound
	}
	return errors.Join(store.ErrUnavailable, err)
}
