package clients

import (
	"context"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/cfg"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/jitter"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const redisClientName = "product-dashboard"

// RedisClient — обёртка над go-redis для хранилища снимков кэша.
type RedisClient struct {
	Client *r.Client
}

func NewRedisClient(cfg *cfg.RedisCfg) *RedisClient {
	opts := &r.Options{
		ClientName:   redisClientName,
		Addr:         cfg.Addr,
		Username:     cfg.User,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	}

	return &RedisClient{Client: r.NewClient(opts)}
}

// Ping повторяет PING с экспоненциальной задержкой, пока не истечёт ctx.
// Redis в docker-compose часто поднимается позже приложения.
func (c *RedisClient) Ping(ctx context.Context) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = c.Client.Ping(ctx).Err(); err == nil {
			return nil
		}
		if !jitter.Sleep(ctx.Done(), 100*time.Millisecond, 2*time.Second, attempt) {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}
}

// Close закрывает пул соединений; сигнатура подходит для closer.
func (c *RedisClient) Close(context.Context) error {
	return c.Client.Close()
}
