package redis

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

const remainingKey = "scarcity:remaining"

func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, scarcity cache disabled")
		return
	}

	Client = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	// Test connection
	if _, err := Client.Ping(Ctx).Result(); err != nil {
		log.Printf("Failed to connect to Redis, scarcity cache disabled: %v", err)
		Client = nil
		return
	}
	fmt.Println("✅ Connected to Redis")
}

// GetRemaining returns the cached scarcity count, or ok=false on a miss.
func GetRemaining() (int, bool) {
	if Client == nil {
		return 0, false
	}
	val, err := Client.Get(Ctx, remainingKey).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetRemaining caches the scarcity count. A short TTL bounds staleness even
// if an invalidation is missed.
func SetRemaining(n int) {
	if Client == nil {
		return
	}
	Client.Set(Ctx, remainingKey, strconv.Itoa(n), 30*time.Second)
}

// InvalidateRemaining drops the cached count; called on every reservation
// state change so the banner stays close to real time.
func InvalidateRemaining() {
	if Client == nil {
		return
	}
	Client.Del(Ctx, remainingKey)
}
