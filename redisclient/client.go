package redisclient

import (
	"log"
	"os"
	"sync"

	"github.com/go-redis/redis"
)

var (
	rc   *redis.Client
	once sync.Once
)

// Init connects the process-wide client. Fatal on failure: redis backs both
// the transcript archive and the task store, so there is nothing useful to
// run without it.
func Init() {
	once.Do(func() {
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		rc = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		})
		if _, err := rc.Ping().Result(); err != nil {
			log.Fatalf("Could not connect to Redis: %v", err)
		}
		log.Println("✅ redis client connected")
	})
}

func Get() *redis.Client {
	return rc
}
