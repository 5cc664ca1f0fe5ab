package sensor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix = "fsm:state:"
	DefaultChannel   = "fsm:state"
)

// RedisClient is the subset of the go-redis client the publisher needs.
type RedisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisPublisher stores the latest state of each machine under
// KeyPrefix+machine and announces every update on Channel as JSON.
type RedisPublisher struct {
	client    RedisClient
	keyPrefix string
	channel   string
}

type RedisOption func(*RedisPublisher)

func WithKeyPrefix(prefix string) RedisOption {
	return func(p *RedisPublisher) {
		p.keyPrefix = prefix
	}
}

// WithChannel sets the pub/sub channel. An empty channel disables publishing.
func WithChannel(channel string) RedisOption {
	return func(p *RedisPublisher) {
		p.channel = channel
	}
}

func NewRedisPublisher(client RedisClient, opts ...RedisOption) *RedisPublisher {
	p := &RedisPublisher{
		client:    client,
		keyPrefix: DefaultKeyPrefix,
		channel:   DefaultChannel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Key returns the key holding the state of machine.
func (p *RedisPublisher) Key(machine string) string {
	return p.keyPrefix + machine
}

func (p *RedisPublisher) Publish(ctx context.Context, u Update) error {
	if err := p.client.Set(ctx, p.Key(u.Machine), u.State, 0).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	if p.channel == "" {
		return nil
	}

	payload, err := json.Marshal(u)
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}
