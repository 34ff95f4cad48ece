// Package redis caches fetched block headers so repeated bloom queries
// against the same block skip the RPC round trip.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/bloomcheck/internal/core/bloom"
	"github.com/vietddude/bloomcheck/internal/core/domain"
)

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// Client wraps Redis operations for the header cache.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

func headerKey(chainID domain.ChainID, blockNumber uint64) string {
	return fmt.Sprintf("header:%s:%d", chainID, blockNumber)
}

// cachedHeader is the wire form of a cached header. The bloom travels as
// its 0x hex form so entries stay inspectable with redis-cli.
type cachedHeader struct {
	Number     uint64 `json:"number"`
	Hash       string `json:"hash"`
	ParentHash string `json:"parent_hash"`
	Timestamp  uint64 `json:"timestamp"`
	LogsBloom  string `json:"logs_bloom"`
}

// GetHeader returns the cached header for (chainID, blockNumber), or nil
// on a cache miss.
func (c *Client) GetHeader(ctx context.Context, chainID domain.ChainID, blockNumber uint64) (*domain.Header, error) {
	data, err := c.rdb.Get(ctx, headerKey(chainID, blockNumber)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get header failed: %w", err)
	}

	var cached cachedHeader
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("decode cached header: %w", err)
	}
	logsBloom, err := bloom.FromHex(cached.LogsBloom)
	if err != nil {
		return nil, fmt.Errorf("corrupt cached bloom: %w", err)
	}

	return &domain.Header{
		ChainID:    chainID,
		Number:     cached.Number,
		Hash:       cached.Hash,
		ParentHash: cached.ParentHash,
		Timestamp:  cached.Timestamp,
		LogsBloom:  logsBloom,
	}, nil
}

// SetHeader caches a header with the given TTL.
func (c *Client) SetHeader(ctx context.Context, header *domain.Header, ttl time.Duration) error {
	data, err := json.Marshal(cachedHeader{
		Number:     header.Number,
		Hash:       header.Hash,
		ParentHash: header.ParentHash,
		Timestamp:  header.Timestamp,
		LogsBloom:  header.LogsBloom.Hex(),
	})
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	key := headerKey(header.ChainID, header.Number)
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("set header failed: %w", err)
	}
	return nil
}
