package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/stochclock/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const (
	// DefaultChannel is the pub/sub channel events are published on.
	DefaultChannel = "stochclock:events"
	defaultPrefix  = "stochclock:"
)

// Publisher implements ports.StateSink by publishing every event on a
// Redis pub/sub channel, so a presentation layer can run in another process.
type Publisher struct {
	client   *backend.Client
	channel  string
	prefix   string
	counters bool
	ttl      time.Duration
}

type Option func(*Publisher)

// WithChannel sets the pub/sub channel.
func WithChannel(channel string) Option {
	return func(p *Publisher) {
		p.channel = channel
	}
}

// WithPrefix sets the key prefix for counter hashes.
func WithPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

// WithCounters also keeps a per-run hash of visit counts that expires ttl
// after the last tick. A zero ttl keeps the hash until the key is deleted.
func WithCounters(ttl time.Duration) Option {
	return func(p *Publisher) {
		p.counters = true
		p.ttl = ttl
	}
}

// New creates a publisher with its own client.
func New(address, password string, db int, opts ...Option) *Publisher {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a publisher from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Publisher {
	p := &Publisher{
		client:  client,
		channel: DefaultChannel,
		prefix:  defaultPrefix,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) visitsKey(runID string) string {
	return p.prefix + "visits:" + runID
}

// Ping checks connectivity so a bad address fails at startup, not on the first tick.
func (p *Publisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Emit publishes evt as JSON.
func (p *Publisher) Emit(ctx context.Context, evt domain.StateChanged) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pipe := p.client.Pipeline()
	pipe.Publish(ctx, p.channel, data)
	if p.counters && evt.RunID != "" {
		key := p.visitsKey(evt.RunID)
		pipe.HIncrBy(ctx, key, evt.State.String(), 1)
		if p.ttl > 0 {
			pipe.Expire(ctx, key, p.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}
	return nil
}

// Visits reads back the counters kept for runID.
func (p *Publisher) Visits(ctx context.Context, runID string) (domain.Visits, error) {
	var v domain.Visits
	fields, err := p.client.HGetAll(ctx, p.visitsKey(runID)).Result()
	if err != nil {
		return v, fmt.Errorf("failed to read visits: %w", err)
	}
	for field, raw := range fields {
		s, err := strconv.Atoi(field)
		if err != nil || !domain.State(s).Valid() {
			continue
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return v, fmt.Errorf("bad count for state %s: %w", field, err)
		}
		v.Counts[s] = n
		v.Total += n
	}
	return v, nil
}

// Subscribe decodes events from the channel until ctx is done. Messages
// that do not decode are skipped.
func (p *Publisher) Subscribe(ctx context.Context) (<-chan domain.StateChanged, error) {
	sub := p.client.Subscribe(ctx, p.channel)
	// Wait for the subscription to be confirmed so no early event is lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan domain.StateChanged)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var evt domain.StateChanged
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					continue
				}
				select {
				case out <- evt:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close releases the client.
func (p *Publisher) Close() error {
	return p.client.Close()
}
