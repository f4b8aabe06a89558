// Package batcher provides a generic buffered batch processor with rate limiting.
package batcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// ErrStopped is returned by Add once Stop was called.
var ErrStopped = fmt.Errorf("batcher stopped: %w", context.Canceled)

// Option customizes a Batcher.
type Option[T any] func(*Batcher[T])

// WithErrorHandler is called with every batch the flush callback rejected.
func WithErrorHandler[T any](fn func(items []T, err error)) Option[T] {
	return func(b *Batcher[T]) {
		b.onError = fn
	}
}

// WithFlushTimeout bounds a single flush callback.
func WithFlushTimeout[T any](d time.Duration) Option[T] {
	return func(b *Batcher[T]) {
		b.flushTimeout = d
	}
}

// Batcher buffers items and flushes them either by size or interval.
type Batcher[T any] struct {
	flushCallback func(context.Context, []T) error
	onError       func([]T, error)
	itemsCh       chan T
	flushSize     int
	flushInterval time.Duration
	flushTimeout  time.Duration
	rl            ratelimit.Limiter
	logger        *zap.Logger

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// New constructs a Batcher. A non-positive rps disables rate limiting.
func New[T any](
	logger *zap.Logger,
	flushCallback func(context.Context, []T) error,
	flushSize int,
	flushInterval time.Duration,
	rps int,
	opts ...Option[T],
) *Batcher[T] {
	flushSize = max(flushSize, 1)
	rl := ratelimit.NewUnlimited()
	if rps > 0 {
		rl = ratelimit.New(rps)
	}
	b := &Batcher[T]{
		logger:        logger,
		flushCallback: flushCallback,
		itemsCh:       make(chan T, flushSize*2),
		flushSize:     flushSize,
		flushInterval: flushInterval,
		rl:            rl,
		stop:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start begins the background flushing loop.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.run(ctx)
}

// Stop flushes everything queued so far and stops the background loop. It is safe to call twice.
func (b *Batcher[T]) Stop() {
	b.stopOnce.Do(func() {
		close(b.stop)
	})
	b.wg.Wait()
}

// Add queues an item for batching, respecting context cancellation.
func (b *Batcher[T]) Add(ctx context.Context, item T) error {
	select {
	case <-b.stop:
		return ErrStopped
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.stop:
		return ErrStopped
	case b.itemsCh <- item:
		return nil
	}
}

func (b *Batcher[T]) run(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()

	buf := make([]T, 0, b.flushSize)

	flush := func(ctx context.Context) {
		if len(buf) == 0 {
			return
		}

		b.rl.Take()
		if b.flushTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, b.flushTimeout)
			defer cancel()
		}
		err := b.flushCallback(ctx, buf)
		if err != nil {
			b.logger.Error("batch not flushed", zap.Int("size", len(buf)), zap.Error(err))
			if b.onError != nil {
				b.onError(buf, err)
			}
		} else {
			b.logger.Debug("batch flushed", zap.Int("size", len(buf)))
		}
		buf = buf[:0]
	}

	// drain hands whatever is still queued to the callback. The parent context may already be
	// done, so the final flushes run detached from its cancellation.
	drain := func() {
		final := context.WithoutCancel(ctx)
		for {
			select {
			case item := <-b.itemsCh:
				buf = append(buf, item)
				if len(buf) >= b.flushSize {
					flush(final)
				}
			default:
				flush(final)
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			drain()
			return

		case <-b.stop:
			drain()
			return

		case item := <-b.itemsCh:
			buf = append(buf, item)
			if len(buf) >= b.flushSize {
				flush(ctx)
			}

		case <-ticker.C:
			flush(ctx)
		}
	}
}
