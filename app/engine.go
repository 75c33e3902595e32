package app

import (
	"fmt"

	"github.com/kbukum/streamscribe/logger"
	"github.com/kbukum/streamscribe/transcription"
	"github.com/kbukum/streamscribe/transcription/fasterwhisper"
	"github.com/kbukum/streamscribe/transcription/whisper"
)

// NewEngine builds the configured transcription provider once for the whole
// process and limits it to cfg.MaxConcurrent transcriptions at a time.
func NewEngine(cfg transcription.Config, log *logger.Logger) (transcription.Provider, error) {
	if log == nil {
		log = logger.Nop()
	}
	cfg.ApplyDefaults()

	registry := transcription.NewRegistry()
	registry.RegisterFactory(whisper.ProviderName, whisper.Factory())
	registry.RegisterFactory(fasterwhisper.ProviderName, fasterwhisper.Factory())

	engine, err := registry.Create(cfg.Provider, cfg.ToMap())
	if err != nil {
		return nil, fmt.Errorf("transcription engine: %w", err)
	}
	log.Info("Transcription engine ready", logger.Fields(
		logger.FieldProvider, engine.Name(),
		"model", cfg.Model,
		"device", cfg.Device,
		"max_concurrent", cfg.MaxConcurrent,
	))
	return transcription.Serialized(engine, cfg.MaxConcurrent, log), nil
}
