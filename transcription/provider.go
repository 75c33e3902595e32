package transcription

import (
	"context"

	"github.com/kbukum/streamscribe/provider"
)

// Provider is implemented by speech-to-text backends. Implementations are
// stateless per call and report failures once; they never retry.
type Provider interface {
	provider.Provider

	// Transcribe starts transcribing req.AudioPath. Errors starting the
	// engine are returned directly; errors mid-stream surface from Next.
	// The caller must close the iterator.
	Transcribe(ctx context.Context, req Request) (provider.Iterator[Segment], error)
}
