package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/swetasamaddar-clear/document-finder/internal/document"
	"github.com/swetasamaddar-clear/document-finder/pkg/metrics"
)

// RedisRepo keeps the row log in a single Redis list. Each element is a JSON
// encoded row; RPUSH appends and LRANGE 0 -1 reads in append order.
type RedisRepo struct {
	client *redis.Client
	key    string
}

// NewRedisRepo creates a Redis-backed row store. Key may be empty.
func NewRedisRepo(client *redis.Client, key string) *RedisRepo {
	if key == "" {
		key = "documents"
	}
	return &RedisRepo{client: client, key: key}
}

func (r *RedisRepo) AppendRow(ctx context.Context, row []string) error {
	err := r.appendRow(ctx, row)
	metrics.ObserveStore(BackendRedis, OpAppend, err)
	return err
}

func (r *RedisRepo) appendRow(ctx context.Context, row []string) error {
	if err := validateRow(row); err != nil {
		return err
	}
	b, err := json.Marshal(row)
	if err != nil {
		return err
	}
	if err := r.client.RPush(ctx, r.key, b).Err(); err != nil {
		return fmt.Errorf("redis rpush: %w", err)
	}
	return nil
}

func (r *RedisRepo) ReadRows(ctx context.Context) ([][]string, error) {
	rows, err := r.readRows(ctx)
	metrics.ObserveStore(BackendRedis, OpRead, err)
	return rows, err
}

func (r *RedisRepo) readRows(ctx context.Context) ([][]string, error) {
	items, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}
	out := make([][]string, 0, len(items)+1)
	out = append(out, append([]string(nil), document.HeaderRow...))
	for i, it := range items {
		var row []string
		if err := json.Unmarshal([]byte(it), &row); err != nil {
			return nil, fmt.Errorf("redis row %d: %w", i, err)
		}
		out = append(out, row)
	}
	return out, nil
}
