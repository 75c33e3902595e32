package event

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultRedisChannel is the pub/sub channel events are mirrored to.
const DefaultRedisChannel = "streamscribe:events"

// ChannelPublisher posts raw payloads on a named channel.
// redis.Component satisfies it.
type ChannelPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Envelope is the wire form of a relayed event.
type Envelope struct {
	Type Type            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// RedisPublisher mirrors events to a pub/sub channel so other processes
// can follow jobs running here.
type RedisPublisher struct {
	client  ChannelPublisher
	channel string
}

// NewRedisPublisher creates a publisher; an empty channel means
// DefaultRedisChannel.
func NewRedisPublisher(client ChannelPublisher, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

// Publish wraps the event in an Envelope and posts it.
func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	data, err := e.Data()
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Type, err)
	}
	payload, err := json.Marshal(Envelope{Type: e.Type, Data: data})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return p.client.Publish(ctx, p.channel, payload)
}
