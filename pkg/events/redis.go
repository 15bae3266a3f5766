package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/vectorcad/pkg/errors"
)

// DefaultStream is the stream key used when none is configured.
const DefaultStream = "vectorcad:events"

// DefaultMaxLen caps the stream when no limit is configured.
const DefaultMaxLen = 10000

// RedisPublisher queues events and appends them to a Redis stream on
// [RedisPublisher.Flush]. Each stream entry carries the event type as a
// field and the JSON-encoded event as "data".
type RedisPublisher struct {
	client *redis.Client
	stream string
	maxLen int64

	attempts int
	delay    time.Duration

	mu      sync.Mutex
	pending []Event
}

// PublisherOption configures a RedisPublisher.
type PublisherOption func(*RedisPublisher)

// WithStream sets the stream key.
func WithStream(key string) PublisherOption {
	return func(p *RedisPublisher) {
		if key != "" {
			p.stream = key
		}
	}
}

// WithMaxLen caps the stream to approximately n entries.
func WithMaxLen(n int64) PublisherOption {
	return func(p *RedisPublisher) {
		if n > 0 {
			p.maxLen = n
		}
	}
}

// WithRetry makes Flush try up to attempts times when the connection
// fails, waiting delay before the first retry and doubling it after each.
func WithRetry(attempts int, delay time.Duration) PublisherOption {
	return func(p *RedisPublisher) {
		p.attempts = max(attempts, 1)
		if delay > 0 {
			p.delay = delay
		}
	}
}

// NewRedisPublisher connects to addr.
func NewRedisPublisher(addr string, opts ...PublisherOption) *RedisPublisher {
	return NewRedisPublisherFromClient(redis.NewClient(&redis.Options{Addr: addr}), opts...)
}

// NewRedisPublisherFromURL connects using a redis:// or rediss:// URL.
func NewRedisPublisherFromURL(rawURL string, opts ...PublisherOption) (*RedisPublisher, error) {
	if err := errors.ValidateRedisURL(rawURL); err != nil {
		return nil, err
	}
	o, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse redis URL")
	}
	return NewRedisPublisherFromClient(redis.NewClient(o), opts...), nil
}

// NewRedisPublisherFromClient wraps an existing client.
func NewRedisPublisherFromClient(client *redis.Client, opts ...PublisherOption) *RedisPublisher {
	p := &RedisPublisher{
		client:   client,
		stream:   DefaultStream,
		maxLen:   DefaultMaxLen,
		attempts: 1,
		delay:    DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stream returns the stream key.
func (p *RedisPublisher) Stream() string { return p.stream }

// Emit queues e for the next flush.
func (p *RedisPublisher) Emit(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, e)
}

// Pending returns the number of queued events.
func (p *RedisPublisher) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Flush appends all queued events in one pipeline, retrying connection
// failures as configured by [WithRetry]. Events stay queued when every
// attempt fails.
func (p *RedisPublisher) Flush(ctx context.Context) (int, error) {
	p.mu.Lock()
	batch := p.pending
	p.pending = nil
	p.mu.Unlock()

	if len(batch) == 0 {
		return 0, nil
	}
	err := retry(ctx, p.attempts, p.delay, func() error {
		return p.Publish(ctx, batch...)
	})
	if err != nil {
		p.mu.Lock()
		p.pending = append(batch, p.pending...)
		p.mu.Unlock()
		return 0, err
	}
	return len(batch), nil
}

// Publish appends events directly, bypassing the queue.
func (p *RedisPublisher) Publish(ctx context.Context, evs ...Event) error {
	pipe := p.client.Pipeline()
	for _, e := range evs {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			MaxLen: p.maxLen,
			Approx: true,
			Values: map[string]any{
				"type": e.Type.String(),
				"data": string(data),
			},
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		err = fmt.Errorf("xadd %s: %w", p.stream, err)
		if transient(err) {
			return &RetryableError{Err: err}
		}
		return err
	}
	return nil
}

// Close closes the underlying client.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
