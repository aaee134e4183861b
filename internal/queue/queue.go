package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"kinetic/internal/config"
)

// ErrClosed is returned by operations on a closed queue.
var ErrClosed = errors.New("queue closed")

// Queue is a FIFO of job identifiers.
type Queue interface {
	// Enqueue appends id to the tail. It never blocks on capacity.
	Enqueue(ctx context.Context, id int64) error
	// Dequeue blocks until an identifier is available or ctx is done.
	Dequeue(ctx context.Context) (int64, error)
	// Pending returns a snapshot of waiting identifiers in dequeue order.
	Pending(ctx context.Context) ([]int64, error)
	// Len returns the number of waiting identifiers.
	Len(ctx context.Context) (int, error)
	Close() error
}

// New builds the queue backend selected by cfg.
func New(cfg *config.Config) (Queue, error) {
	if cfg == nil {
		return NewMemoryQueue(), nil
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Queue.Backend)) {
	case "", config.QueueBackendMemory:
		return NewMemoryQueue(), nil
	case config.QueueBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Queue.RedisAddr,
			Password: cfg.Queue.RedisPassword,
			DB:       cfg.Queue.RedisDB,
		})
		return NewRedisQueue(client, cfg.Queue.RedisKey), nil
	default:
		return nil, fmt.Errorf("unsupported queue backend %q", cfg.Queue.Backend)
	}
}
