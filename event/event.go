// Package event defines the transcription events a job emits and the
// publishers that deliver them to subscribers.
package event

import (
	"context"
	"encoding/json"
)

// Type names a transcription event.
type Type string

// Event types, in the order a job may emit them: any number of segments,
// then exactly one complete or error.
const (
	TypeSegment  Type = "transcription_segment"
	TypeComplete Type = "transcription_complete"
	TypeError    Type = "transcription_error"
)

// SegmentPayload carries one partial result.
type SegmentPayload struct {
	FileID string  `json:"file_id"`
	Text   string  `json:"text"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
}

// CompletePayload carries the final transcript.
type CompletePayload struct {
	FileID         string `json:"file_id"`
	SavedFile      string `json:"saved_file,omitempty"`
	FullTranscript string `json:"full_transcript"`
}

// ErrorPayload reports a failed job.
type ErrorPayload struct {
	FileID string `json:"file_id"`
	Error  string `json:"error"`
}

// Event is a typed payload bound for subscribers.
type Event struct {
	Type    Type
	Payload any
}

// Segment builds a segment event.
func Segment(fileID, text string, start, end float64) Event {
	return Event{Type: TypeSegment, Payload: SegmentPayload{FileID: fileID, Text: text, Start: start, End: end}}
}

// Complete builds a complete event. savedFile is omitted from the payload
// when empty.
func Complete(fileID, savedFile, transcript string) Event {
	return Event{Type: TypeComplete, Payload: CompletePayload{FileID: fileID, SavedFile: savedFile, FullTranscript: transcript}}
}

// Failed builds an error event.
func Failed(fileID string, err error) Event {
	return Event{Type: TypeError, Payload: ErrorPayload{FileID: fileID, Error: err.Error()}}
}

// Data returns the JSON encoding of the payload.
func (e Event) Data() ([]byte, error) {
	return json.Marshal(e.Payload)
}

// Publisher delivers events to whoever is listening. Delivery is best
// effort: an error is reported but never retried.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, e Event) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, e Event) error { return f(ctx, e) }
