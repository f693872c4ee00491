package repo

import (
	"VaultDrop/config"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// OnFileExpired is invoked when a file expiry key fires. Set at boot;
// the retention sweep remains the authoritative cleanup path.
var OnFileExpired func(ctx context.Context, fileID string)

type RedisLock struct {
	rdb   *redis.Client
	key   string
	token string
	ttl   time.Duration
}

// InitRedis initializes the Redis client.
func InitRedis() {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", config.AppConfig.RedisHost, config.AppConfig.RedisPort),
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})
	_, err := client.Ping(context.Background()).Result()
	if err != nil {
		log.Fatal("init redis fail", err)
	}
	log.Println("init redis success")
	Redis = client
}

// EnableKeyspaceNotifications enables Redis expired-key events.
func EnableKeyspaceNotifications(ctx context.Context) error {
	if Redis == nil {
		return errors.New("redis not initialized")
	}
	return Redis.ConfigSet(ctx, "notify-keyspace-events", "Ex").Err()
}

// NewRedisLock creates a Redis lock helper.
func NewRedisLock(rdb *redis.Client, key string, ttl time.Duration) *RedisLock {
	return &RedisLock{
		rdb: rdb,
		key: key,
		ttl: ttl,
	}
}

// Lock acquires a Redis-based lock.
func (l *RedisLock) Lock(ctx context.Context) error {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("lock is busy")
	}
	l.token = token
	return nil
}

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Unlock releases a Redis-based lock.
func (l *RedisLock) Unlock(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	_, err := unlockScript.Run(
		ctx,
		l.rdb,
		[]string{l.key},
		l.token,
	).Result()
	return err
}

// FileExpireKey is the Redis key carrying a record's TTL.
func FileExpireKey(fileID string) string {
	return "file:" + fileID
}

// SetFileExpireKey mirrors a record's expiry into Redis so the
// expired-key listener can tear it down promptly. Best-effort.
func SetFileExpireKey(ctx context.Context, fileID string, ttl time.Duration) {
	if Redis == nil || ttl <= 0 {
		return
	}
	if err := Redis.Set(ctx, FileExpireKey(fileID), "1", ttl).Err(); err != nil {
		log.Printf("set file expire key failed: %v", err)
	}
}

// DelFileExpireKey drops a record's expiry key. Best-effort.
func DelFileExpireKey(ctx context.Context, fileID string) {
	if Redis == nil {
		return
	}
	if err := Redis.Del(ctx, FileExpireKey(fileID)).Err(); err != nil {
		log.Printf("del file expire key failed: %v", err)
	}
}

// ListenRedisExpired listens for Redis expired events.
func ListenRedisExpired(ctx context.Context, rdb *redis.Client, ready chan<- struct{}) {
	pubsub := rdb.Subscribe(ctx, "__keyevent@0__:expired")
	_, err := pubsub.Receive(ctx)
	if err != nil {
		log.Fatalf("subscribe failed: %v", err)
	}
	close(ready)
	ch := pubsub.Channel()

	for msg := range ch {
		handleExpiredKey(ctx, msg.Payload)
	}
}

// handleExpiredKey dispatches expired-key handlers.
func handleExpiredKey(ctx context.Context, key string) {
	switch {
	case strings.HasPrefix(key, "file:"):
		if OnFileExpired != nil {
			fileID := strings.TrimPrefix(key, "file:")
			log.Println("file expired:", fileID)
			OnFileExpired(ctx, fileID)
		}
	default:
	}
}
