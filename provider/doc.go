// Package provider holds the generic pieces shared by swappable backends:
// the Provider base interface, a named factory Registry and the pull-based
// Iterator used for streamed results.
//
//	reg := provider.NewRegistry[transcription.Provider]()
//	reg.RegisterFactory("whisper", whisper.Factory())
//	p, err := reg.Create("whisper", cfg)
package provider
