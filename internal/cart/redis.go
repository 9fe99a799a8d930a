package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// snapshotTTL matches the cart session lifetime, so snapshots outlive
// every token that can reference them and nothing more.
const snapshotTTL = 7 * 24 * time.Hour

// RedisStore persists cart snapshots in Redis. Each cart is a single JSON
// value and the discount a plain string, both expiring with the session so
// abandoned carts clean themselves up.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, ttl: snapshotTTL}, nil
}

func cartKey(cartID string) string     { return "cart:" + cartID }
func discountKey(cartID string) string { return "cart:discount:" + cartID }

func (s *RedisStore) LoadCart(ctx context.Context, cartID string) ([]Line, error) {
	raw, err := s.client.Get(ctx, cartKey(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Line{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart snapshot: %w", err)
	}
	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart snapshot: %w", err)
	}
	return lines, nil
}

func (s *RedisStore) SaveCart(ctx context.Context, cartID string, lines []Line) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart snapshot: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(cartID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cart snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadDiscount(ctx context.Context, cartID string) (float64, error) {
	raw, err := s.client.Get(ctx, discountKey(cartID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read discount: %w", err)
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse stored discount %q: %w", raw, err)
	}
	return amount, nil
}

func (s *RedisStore) SaveDiscount(ctx context.Context, cartID string, amount float64) error {
	value := strconv.FormatFloat(amount, 'f', -1, 64)
	if err := s.client.Set(ctx, discountKey(cartID), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write discount: %w", err)
	}
	return nil
}

func (s *RedisStore) ClearDiscount(ctx context.Context, cartID string) error {
	if err := s.client.Del(ctx, discountKey(cartID)).Err(); err != nil {
		return fmt.Errorf("failed to clear discount: %w", err)
	}
	return nil
}
