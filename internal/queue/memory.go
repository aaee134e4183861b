package queue

import (
	"context"
	"sync"
)

// MemoryQueue is an unbounded in-process FIFO.
type MemoryQueue struct {
	mu     sync.Mutex
	items  []int64
	signal chan struct{}
	closed bool
}

// NewMemoryQueue returns an empty in-memory queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{signal: make(chan struct{}, 1)}
}

// Enqueue appends id and wakes a waiting consumer.
func (q *MemoryQueue) Enqueue(_ context.Context, id int64) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items = append(q.items, id)
	q.mu.Unlock()
	q.notify()
	return nil
}

// Dequeue removes and returns the head, blocking while the queue is empty.
func (q *MemoryQueue) Dequeue(ctx context.Context) (int64, error) {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			q.notify()
			return 0, ErrClosed
		}
		if len(q.items) > 0 {
			id := q.items[0]
			q.items[0] = 0
			q.items = q.items[1:]
			more := len(q.items) > 0
			q.mu.Unlock()
			if more {
				q.notify()
			}
			return id, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-q.signal:
		}
	}
}

// Pending returns a copy of the waiting identifiers.
func (q *MemoryQueue) Pending(context.Context) ([]int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]int64, len(q.items))
	copy(out, q.items)
	return out, nil
}

// Len returns the number of waiting identifiers.
func (q *MemoryQueue) Len(context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items), nil
}

// Close wakes blocked consumers; subsequent operations return ErrClosed.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.notify()
	return nil
}

func (q *MemoryQueue) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}
