// internal/infra/redis/client.go
package redisinfra

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to Redis for the cart snapshot store. Connectivity is
// verified with a short ping; a failing ping is a warning, not a startup
// failure, since snapshot loads degrade to an empty cart anyway.
func NewClient(addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[redis] WARN: ping failed addr=%s err=%v", addr, err)
	} else {
		log.Printf("[redis] connected addr=%s db=%d", addr, db)
	}
	return client
}
