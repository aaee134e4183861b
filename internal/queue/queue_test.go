package queue_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"kinetic/internal/config"
	"kinetic/internal/queue"
)

func newRedisQueue(t *testing.T) (*queue.RedisQueue, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	q := queue.NewRedisQueue(client, "test:jobs")
	t.Cleanup(func() { _ = q.Close() })
	return q, mr
}

func backends(t *testing.T) map[string]queue.Queue {
	t.Helper()
	mem := queue.NewMemoryQueue()
	t.Cleanup(func() { _ = mem.Close() })
	rq, _ := newRedisQueue(t)
	return map[string]queue.Queue{"memory": mem, "redis": rq}
}

func TestFIFOOrderAndDuplicates(t *testing.T) {
	for name, q := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, id := range []int64{3, 1, 2, 1} {
				if err := q.Enqueue(ctx, id); err != nil {
					t.Fatalf("Enqueue(%d): %v", id, err)
				}
			}
			pending, err := q.Pending(ctx)
			if err != nil {
				t.Fatalf("Pending: %v", err)
			}
			if !reflect.DeepEqual(pending, []int64{3, 1, 2, 1}) {
				t.Fatalf("pending = %v", pending)
			}
			if n, _ := q.Len(ctx); n != 4 {
				t.Fatalf("len = %d, want 4", n)
			}

			var got []int64
			for i := 0; i < 4; i++ {
				id, err := q.Dequeue(ctx)
				if err != nil {
					t.Fatalf("Dequeue: %v", err)
				}
				got = append(got, id)
			}
			if !reflect.DeepEqual(got, []int64{3, 1, 2, 1}) {
				t.Fatalf("dequeued = %v", got)
			}
			if n, _ := q.Len(ctx); n != 0 {
				t.Fatalf("len after drain = %d", n)
			}
		})
	}
}

func TestDequeueHonoursContext(t *testing.T) {
	for name, q := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			_, err := q.Dequeue(ctx)
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("expected deadline exceeded, got %v", err)
			}
		})
	}
}

func TestMemoryDequeueBlocksUntilEnqueue(t *testing.T) {
	q := queue.NewMemoryQueue()
	defer q.Close()

	result := make(chan int64, 1)
	go func() {
		id, err := q.Dequeue(context.Background())
		if err != nil {
			result <- -1
			return
		}
		result <- id
	}()

	time.Sleep(20 * time.Millisecond)
	if err := q.Enqueue(context.Background(), 7); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	select {
	case id := <-result:
		if id != 7 {
			t.Fatalf("dequeued %d, want 7", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("dequeue did not wake up")
	}
}

func TestMemoryCloseWakesConsumers(t *testing.T) {
	q := queue.NewMemoryQueue()
	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := q.Dequeue(context.Background())
			done <- err
		}()
	}
	time.Sleep(20 * time.Millisecond)
	_ = q.Close()
	for i := 0; i < 2; i++ {
		select {
		case err := <-done:
			if !errors.Is(err, queue.ErrClosed) {
				t.Fatalf("expected ErrClosed, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("consumer not woken by Close")
		}
	}
	if err := q.Enqueue(context.Background(), 1); !errors.Is(err, queue.ErrClosed) {
		t.Fatalf("expected ErrClosed on enqueue, got %v", err)
	}
}

func TestRedisQueueSurvivesReconnect(t *testing.T) {
	q, mr := newRedisQueue(t)
	ctx := context.Background()
	if err := q.Enqueue(ctx, 11); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	other := queue.NewRedisQueue(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:jobs")
	defer other.Close()
	id, err := other.Dequeue(ctx)
	if err != nil || id != 11 {
		t.Fatalf("Dequeue from second client = %d, %v", id, err)
	}
}

func TestNewSelectsBackend(t *testing.T) {
	cfg := config.Default()
	q, err := queue.New(&cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := q.(*queue.MemoryQueue); !ok {
		t.Fatalf("expected memory queue, got %T", q)
	}

	cfg.Queue.Backend = config.QueueBackendRedis
	q, err = queue.New(&cfg)
	if err != nil {
		t.Fatalf("New redis: %v", err)
	}
	if _, ok := q.(*queue.RedisQueue); !ok {
		t.Fatalf("expected redis queue, got %T", q)
	}
	_ = q.Close()

	cfg.Queue.Backend = "kafka"
	if _, err := queue.New(&cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
