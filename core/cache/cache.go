package cache

import (
	"context"
	"time"

	"github.com/t0pa/plansync/core/config"
	"github.com/t0pa/plansync/core/constants"
	"github.com/t0pa/plansync/core/logger"

	"github.com/redis/go-redis/v9"
)

// Cache is the Redis-backed shared state used by the auth flow: revoked
// tokens and one-shot password reset codes. Nothing request-scoped lives
// here; aggregation is recomputed from the store on every read.
type Cache interface {
	AddToTokenBlacklist(ctx context.Context, token string) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	SetResetToken(ctx context.Context, token string, userID string) error
	ConsumeResetToken(ctx context.Context, token string) (string, error)
	Close() error
}

type redisCache struct {
	client *redis.Client
}

func New(cfg config.RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Cache:New:Ping", err)
		return nil, err
	}

	logger.Info("Redis cache initialized", "addr", cfg.Addr, "db", cfg.DB)
	return &redisCache{client: client}, nil
}

func (c *redisCache) AddToTokenBlacklist(ctx context.Context, token string) error {
	key := constants.RedisKeyTokenBlacklist + token
	return c.client.Set(ctx, key, "1", constants.RefreshTokenDuration).Err()
}

func (c *redisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := constants.RedisKeyTokenBlacklist + token
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) SetResetToken(ctx context.Context, token string, userID string) error {
	key := constants.RedisKeyResetToken + token
	return c.client.Set(ctx, key, userID, constants.ResetTokenDuration).Err()
}

// ConsumeResetToken returns the user the token was issued for and deletes
// it, so a reset token can be used at most once. Unknown or expired tokens
// return redis.Nil.
func (c *redisCache) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	key := constants.RedisKeyResetToken + token
	userID, err := c.client.GetDel(ctx, key).Result()
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

// IsMiss reports whether err is a cache miss rather than a failure.
func IsMiss(err error) bool {
	return err == redis.Nil
}
