package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Scope selects which local sessions a Delivery targets.
type Scope string

const (
	ScopeRoom Scope = "room"
	ScopeUser Scope = "user"
	ScopeAll  Scope = "all"
)

// Delivery is an encoded frame relayed between instances.
type Delivery struct {
	Origin        string          `json:"origin"`
	Scope         Scope           `json:"scope"`
	Target        string          `json:"target,omitempty"`
	ExcludeUserID string          `json:"excludeUserId,omitempty"`
	Frame         json.RawMessage `json:"frame"`
}

// Bus relays deliveries to every instance so broadcast groups span processes.
type Bus interface {
	Publish(ctx context.Context, d Delivery) error
	// Subscribe blocks, invoking handle for each delivery, until ctx is canceled.
	Subscribe(ctx context.Context, handle func(Delivery)) error
	Close() error
}

// RedisBus implements Bus over a single redis pub/sub channel.
type RedisBus struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

var _ Bus = (*RedisBus)(nil)

// NewRedisBus uses channel (default "go-messenger:realtime") on the provided client.
func NewRedisBus(client *redis.Client, channel string, log *zap.Logger) *RedisBus {
	if channel == "" {
		channel = "go-messenger:realtime"
	}
	return &RedisBus{client: client, channel: channel, log: log.With(zap.String("module", "realtime_bus"))}
}

func (b *RedisBus) Publish(ctx context.Context, d Delivery) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("realtime bus: encode: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("realtime bus: publish: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, handle func(Delivery)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed before consuming.
	if _, err := sub.Receive(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("realtime bus: subscribe: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var d Delivery
			if err := json.Unmarshal([]byte(msg.Payload), &d); err != nil {
				b.log.Warn("dropping malformed delivery", zap.Error(err))
				continue
			}
			handle(d)
		}
	}
}

// Close is a no-op; the redis client is owned by the caller.
func (b *RedisBus) Close() error { return nil }
