// internal/adapters/out/redisstore/cart_snapshot_redis.go
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	cartdom "brewhaven/internal/domain/cart"
)

// DefaultSnapshotTTL bounds how long an abandoned cart survives.
const DefaultSnapshotTTL = 30 * 24 * time.Hour

// CartSnapshotRedis implements cart.SnapshotStore on Redis: the full cart
// state is written as one JSON string per customer after every transition
// and rehydrated on first access.
//
// Key design: cart:{customerId}
type CartSnapshotRedis struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCartSnapshotRedis(client *redis.Client) *CartSnapshotRedis {
	return &CartSnapshotRedis{Client: client, TTL: DefaultSnapshotTTL}
}

func key(customerID string) string {
	return "cart:" + strings.TrimSpace(customerID)
}

// Load rehydrates the cart. Missing or unparsable data yields
// (Empty(), false, nil): the cart silently starts over rather than failing
// the request on a corrupt snapshot.
func (s *CartSnapshotRedis) Load(ctx context.Context, customerID string) (cartdom.State, bool, error) {
	if s == nil || s.Client == nil {
		return cartdom.Empty(), false, errors.New("cart_snapshot_redis: redis client is nil")
	}

	raw, err := s.Client.Get(ctx, key(customerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cartdom.Empty(), false, nil
		}
		return cartdom.Empty(), false, err
	}

	var st cartdom.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		log.Printf("[cart_snapshot_redis] corrupt snapshot customerId=%q err=%v (falling back to empty cart)", customerID, err)
		return cartdom.Empty(), false, nil
	}

	if st.Items == nil {
		st.Items = []cartdom.Item{}
	}
	return st, true, nil
}

func (s *CartSnapshotRedis) Save(ctx context.Context, customerID string, st cartdom.State) error {
	if s == nil || s.Client == nil {
		return errors.New("cart_snapshot_redis: redis client is nil")
	}

	b, err := json.Marshal(st)
	if err != nil {
		return err
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}

	return s.Client.Set(ctx, key(customerID), string(b), ttl).Err()
}
