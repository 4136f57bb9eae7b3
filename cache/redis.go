// Package cache wraps the Redis client used for response caching,
// session revocation, and rate limiting. Every helper tolerates a nil
// client: Redis being down degrades features, it never breaks requests.
package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect dials Redis at addr. Returns nil when Redis is unreachable;
// callers treat a nil client as "no cache".
func Connect(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		return nil
	}

	log.Println("Redis connected successfully")
	return client
}
