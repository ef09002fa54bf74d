package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	// URL is either host:port or a redis:// URL.
	URL       string
	Password  string
	KeyPrefix string
	TTL       time.Duration
}

func DefaultConfig() Config {
	return Config{
		URL:       "localhost:6379",
		KeyPrefix: "connect4:recommendation:",
		TTL:       30 * time.Minute,
	}
}

// Connect opens a client and pings it. Callers decide whether a failure is fatal.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts := &redis.Options{Addr: cfg.URL, Password: cfg.Password}
	if strings.Contains(cfg.URL, "://") {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if cfg.Password != "" {
			parsed.Password = cfg.Password
		}
		opts = parsed
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RecommendationCache stores recommended columns with an expiry.
type RecommendationCache struct {
	client *redis.Client
	cfg    Config
}

func NewWithClient(client *redis.Client, cfg Config) *RecommendationCache {
	return &RecommendationCache{client: client, cfg: cfg}
}

func (c *RecommendationCache) key(k string) string {
	return c.cfg.KeyPrefix + k
}

func (c *RecommendationCache) GetColumn(ctx context.Context, key string) (int, bool, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	col, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt cached column %q: %w", val, err)
	}
	return col, true, nil
}

func (c *RecommendationCache) SetColumn(ctx context.Context, key string, column int) error {
	return c.client.Set(ctx, c.key(key), column, c.cfg.TTL).Err()
}

func (c *RecommendationCache) Close() error {
	return c.client.Close()
}
