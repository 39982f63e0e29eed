package rdx

import (
	"log"
	"os"
	"time"

	"sewago/globals"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
}

// RdxSet sets a key with no expiry.
func RdxSet(key, value string) error {
	return Conn.Set(globals.Ctx, key, value, 0).Err()
}

// RdxGet returns "" when the key is missing.
func RdxGet(key string) string {
	val, err := Conn.Get(globals.Ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

// RdxSetNX acquires key only if absent; used as a lightweight lock.
func RdxSetNX(key, value string, ttl time.Duration) (bool, error) {
	return Conn.SetNX(globals.Ctx, key, value, ttl).Result()
}

func RdxDel(key string) {
	if err := Conn.Del(globals.Ctx, key).Err(); err != nil {
		log.Printf("RdxDel: failed for key %s, err=%v", key, err)
	}
}

func RdxSetEx(key, value string, ttl time.Duration) error {
	return Conn.Set(globals.Ctx, key, value, ttl).Err()
}
