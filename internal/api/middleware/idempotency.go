package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const HeaderIdempotencyKey = "Idempotency-Key"

// IdempotencyStore reserves request keys for a limited time.
type IdempotencyStore interface {
	PutNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

type redisIdempotencyStore struct {
	r *redis.Client
}

func NewRedisIdempotencyStore(r *redis.Client) IdempotencyStore {
	return &redisIdempotencyStore{r: r}
}

func (s *redisIdempotencyStore) PutNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.r.SetNX(ctx, "idem:"+key, "1", ttl).Result()
}

func (s *redisIdempotencyStore) Delete(ctx context.Context, key string) error {
	return s.r.Del(ctx, "idem:"+key).Err()
}

// Idempotency rejects a repeated request carrying an Idempotency-Key that
// already succeeded or is in flight. Keys of failed requests are released so
// the client can retry. Store errors let the request through.
func Idempotency(store IdempotencyStore, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if key == "" {
			return c.Next()
		}
		key = c.Method() + ":" + c.Path() + ":" + key

		ctx := c.UserContext()
		ok, err := store.PutNX(ctx, key, ttl)
		if err != nil {
			slog.Warn("idempotency store unavailable", "error", err)
			return c.Next()
		}
		if !ok {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Duplicate request",
				"code":  "duplicate_request",
			})
		}

		err = c.Next()
		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			if delErr := store.Delete(ctx, key); delErr != nil {
				slog.Warn("failed to release idempotency key", "error", delErr)
			}
		}
		return err
	}
}
