package ws

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

const DefaultRelayChannel = "taskboard:events"

// RedisRelay shares hub frames between instances over Redis pub/sub.
type RedisRelay struct {
	client  *redis.Client
	channel string
}

func NewRedisRelay(client *redis.Client, channel string) *RedisRelay {
	if channel == "" {
		channel = DefaultRelayChannel
	}
	return &RedisRelay{client: client, channel: channel}
}

func (r *RedisRelay) Publish(ctx context.Context, msg []byte) error {
	return r.client.Publish(ctx, r.channel, msg).Err()
}

func (r *RedisRelay) Subscribe(ctx context.Context, handle func(msg []byte)) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	// wait for the subscription to be confirmed
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			handle([]byte(m.Payload))
		}
	}
}
