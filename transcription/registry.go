package transcription

import "github.com/kbukum/streamscribe/provider"

// NewRegistry creates a registry for transcription provider factories.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
