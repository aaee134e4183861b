package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the list holding pending job identifiers.
const DefaultRedisKey = "kinetic:jobs"

// blockTimeout bounds each BLPOP so Dequeue notices context cancellation.
const blockTimeout = time.Second

// RedisQueue stores pending identifiers in a Redis list.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue wraps an existing client. The queue owns the client and
// closes it on Close.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisQueue{client: client, key: key}
}

// Ping verifies the Redis server is reachable.
func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

// Enqueue appends id with RPUSH.
func (q *RedisQueue) Enqueue(ctx context.Context, id int64) error {
	if err := q.client.RPush(ctx, q.key, id).Err(); err != nil {
		return fmt.Errorf("redis enqueue: %w", err)
	}
	return nil
}

// Dequeue pops the head with BLPOP, polling in short intervals until ctx is done.
func (q *RedisQueue) Dequeue(ctx context.Context) (int64, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		res, err := q.client.BLPop(ctx, blockTimeout, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 0, ctxErr
			}
			if errors.Is(err, redis.ErrClosed) {
				return 0, ErrClosed
			}
			return 0, fmt.Errorf("redis dequeue: %w", err)
		}
		// BLPOP replies with [key, value].
		if len(res) != 2 {
			return 0, fmt.Errorf("redis dequeue: unexpected reply %v", res)
		}
		id, err := strconv.ParseInt(res[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("redis dequeue: invalid job id %q: %w", res[1], err)
		}
		return id, nil
	}
}

// Pending lists waiting identifiers with LRANGE.
func (q *RedisQueue) Pending(ctx context.Context) ([]int64, error) {
	values, err := q.client.LRange(ctx, q.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis pending: %w", err)
	}
	out := make([]int64, 0, len(values))
	for _, value := range values {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

// Len returns LLEN of the list.
func (q *RedisQueue) Len(ctx context.Context) (int, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis len: %w", err)
	}
	return int(n), nil
}

// Close closes the underlying client.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
