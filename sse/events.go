package sse

import (
	"bytes"
	"strings"
)

// Infrastructure event types. Domain events are defined by the caller.
const (
	EventTypeConnected = "connected"
	EventTypeError     = "error"
)

// Event is a single server-sent event.
type Event struct {
	// Event is the type from the "event:" line; empty for data-only events.
	Event string
	// Data is the payload; multi-line data is joined with newlines.
	Data string
	ID   string
}

// Encode renders the event in wire format, ending with a blank line.
func (e Event) Encode() []byte {
	var b bytes.Buffer
	if e.ID != "" {
		b.WriteString("id: " + e.ID + "\n")
	}
	if e.Event != "" {
		b.WriteString("event: " + e.Event + "\n")
	}
	for _, line := range strings.Split(e.Data, "\n") {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteByte('\n')
	return b.Bytes()
}

// Broadcaster sends events to clients whose id matches a glob pattern
// such as "session:*".
type Broadcaster interface {
	BroadcastToPattern(pattern string, event Event)
}
