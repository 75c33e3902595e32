// Package transcription defines the speech-to-text provider interface and
// the configuration shared by its backends.
//
// A provider turns an audio file into a forward-only stream of segments.
// Segments arrive in engine order and the stream is consumed once.
//
// # Backends
//
//   - transcription/whisper: faster-whisper HTTP sidecar streaming SSE
//   - transcription/fasterwhisper: local CLI emitting JSON lines
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	reg.RegisterFactory(whisper.ProviderName, whisper.Factory())
//	engine, err := reg.Create(cfg.Provider, cfg.ToMap())
//	engine = transcription.Serialized(engine, cfg.MaxConcurrent, log)
//	segments, err := engine.Transcribe(ctx, transcription.Request{AudioPath: path})
package transcription
