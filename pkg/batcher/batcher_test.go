package batcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestBatcher_FlushOnSize(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var flushed atomic.Int32
	var batches [][]int
	var mu sync.Mutex

	b := New(zap.NewNop(), func(_ context.Context, items []int) error {
		mu.Lock()
		defer mu.Unlock()
		flushed.Add(int32(len(items)))
		// copy to avoid reuse
		cp := make([]int, len(items))
		copy(cp, items)
		batches = append(batches, cp)
		return nil
	}, 3, time.Second, 1000)

	b.Start(ctx)
	defer b.Stop()

	for i := 0; i < 5; i++ {
		if err := b.Add(ctx, i); err != nil {
			t.Fatalf("Add error: %v", err)
		}
	}
	// Wait a moment to allow background flush.
	time.Sleep(100 * time.Millisecond)

	if flushed.Load() != 3 {
		t.Fatalf("expected first flush of 3 items, got %d", flushed.Load())
	}
	mu.Lock()
	if len(batches) != 1 || len(batches[0]) != 3 {
		t.Fatalf("unexpected batches: %+v", batches)
	}
	mu.Unlock()
}

func TestBatcher_FlushOnInterval(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var flushed atomic.Int32

	b := New(zap.NewNop(), func(_ context.Context, items []int) error {
		flushed.Add(int32(len(items)))
		return nil
	}, 5, 50*time.Millisecond, 1000)

	b.Start(ctx)
	defer b.Stop()

	if err := b.Add(ctx, 1); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	time.Sleep(120 * time.Millisecond)

	if flushed.Load() != 1 {
		t.Fatalf("expected flush after interval, got %d", flushed.Load())
	}
}

func TestBatcher_ContextCancelStops(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	b := New(zap.NewNop(), func(_ context.Context, items []int) error {
		return nil
	}, 2, time.Second, 1000)

	b.Start(ctx)
	cancel()                          // stop run loop via context
	time.Sleep(20 * time.Millisecond) // let goroutine exit
	b.Stop()                          // close stop channel

	// Add should still accept but will get canceled due to stop channel.
	err := b.Add(context.Background(), 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled on stopped batcher, got %v", err)
	}
}

func TestBatcher_FlushErrorLoggedButContinues(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	b := New(zap.NewNop(), func(_ context.Context, items []int) error {
		calls.Add(1)
		if calls.Load() == 1 {
			return errors.New("flush failed")
		}
		return nil
	}, 1, time.Second, 1000)

	b.Start(ctx)
	defer b.Stop()

	if err := b.Add(ctx, 1); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := b.Add(ctx, 2); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	if calls.Load() != 2 {
		t.Fatalf("expected two flush attempts, got %d", calls.Load())
	}
}

func TestBatcher_StopFlushesQueuedItems(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var flushed atomic.Int32
	b := New(zap.NewNop(), func(_ context.Context, items []int) error {
		flushed.Add(int32(len(items)))
		return nil
	}, 100, time.Hour, 0)

	b.Start(ctx)
	for i := 0; i < 7; i++ {
		if err := b.Add(ctx, i); err != nil {
			t.Fatalf("Add error: %v", err)
		}
	}
	b.Stop()
	b.Stop()

	if flushed.Load() != 7 {
		t.Fatalf("expected all 7 items flushed on stop, got %d", flushed.Load())
	}
	if err := b.Add(ctx, 8); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestBatcher_CanceledContextStillFlushes(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	var flushCtxErr atomic.Value
	done := make(chan struct{})
	b := New(zap.NewNop(), func(ctx context.Context, items []int) error {
		flushCtxErr.Store(ctx.Err() == nil)
		close(done)
		return nil
	}, 10, time.Hour, 0)

	b.Start(ctx)
	if err := b.Add(ctx, 1); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("queued item was not flushed after cancellation")
	}
	b.Stop()

	if ok, _ := flushCtxErr.Load().(bool); !ok {
		t.Fatal("final flush received a canceled context")
	}
}

func TestBatcher_ErrorHandlerReceivesBatch(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errFlush := errors.New("flush failed")
	var (
		mu     sync.Mutex
		failed []int
		gotErr error
	)
	b := New(zap.NewNop(), func(context.Context, []int) error {
		return errFlush
	}, 2, time.Hour, 1000, WithErrorHandler(func(items []int, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, items...)
		gotErr = err
	}))

	b.Start(ctx)
	for i := 1; i <= 2; i++ {
		if err := b.Add(ctx, i); err != nil {
			t.Fatalf("Add error: %v", err)
		}
	}
	b.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(failed) != 2 || failed[0] != 1 || failed[1] != 2 {
		t.Fatalf("unexpected failed items: %v", failed)
	}
	if !errors.Is(gotErr, errFlush) {
		t.Fatalf("unexpected error: %v", gotErr)
	}
}

func TestBatcher_FlushTimeout(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var deadline atomic.Bool
	b := New(zap.NewNop(), func(ctx context.Context, _ []int) error {
		_, ok := ctx.Deadline()
		deadline.Store(ok)
		return nil
	}, 1, time.Hour, 0, WithFlushTimeout[int](time.Second))

	b.Start(ctx)
	if err := b.Add(ctx, 1); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	b.Stop()

	if !deadline.Load() {
		t.Fatal("flush callback ran without a deadline")
	}
}
