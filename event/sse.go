package event

import (
	"context"
	"fmt"

	"github.com/kbukum/streamscribe/sse"
)

// DefaultPattern addresses every browser session.
const DefaultPattern = sse.SessionPrefix + "*"

// SSEPublisher broadcasts events to SSE clients matching a pattern.
type SSEPublisher struct {
	broadcaster sse.Broadcaster
	pattern     string
}

// NewSSEPublisher creates a publisher; an empty pattern means DefaultPattern.
func NewSSEPublisher(b sse.Broadcaster, pattern string) *SSEPublisher {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &SSEPublisher{broadcaster: b, pattern: pattern}
}

// Publish encodes the payload and hands it to the hub.
func (p *SSEPublisher) Publish(_ context.Context, e Event) error {
	data, err := e.Data()
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Type, err)
	}
	p.broadcaster.BroadcastToPattern(p.pattern, sse.Event{Event: string(e.Type), Data: string(data)})
	return nil
}
