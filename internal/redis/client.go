package redis

import (
	"context"
	"fmt"

	"github.com/mossy-p/ballo/config"
	goredis "github.com/redis/go-redis/v9"
)

// Client wraps the go-redis client shared by the document store.
type Client struct {
	*goredis.Client
}

// Connect opens a Redis client and verifies the connection
func Connect(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{Client: client}, nil
}

// NewClient wraps an existing go-redis client.
func NewClient(client *goredis.Client) *Client {
	return &Client{Client: client}
}
