package transcription

// Request holds parameters for a transcription call.
type Request struct {
	// AudioPath is a local filesystem path to the audio file.
	AudioPath string `json:"audio_path"`
	// Language overrides the configured language (e.g. "en").
	Language string `json:"language,omitempty"`
	// Model overrides the configured model.
	Model string `json:"model,omitempty"`
}

// Segment is a time-aligned portion of a transcript. Start <= End.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
