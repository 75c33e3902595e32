// Package whisper implements transcription.Provider against a
// faster-whisper HTTP sidecar that streams segments as server-sent events.
//
// The sidecar accepts POST {url}/transcribe/stream with multipart field
// "audio" plus model/language/device/compute_type fields, and answers with
// "segment" events ({"start","end","text"}), an optional "error" event
// ({"error"}) and a final "done" event.
package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/streamscribe/provider"
	"github.com/kbukum/streamscribe/sse"
	"github.com/kbukum/streamscribe/transcription"
)

const (
	// ProviderName is the registered name for the sidecar provider.
	ProviderName = "whisper"

	streamPath = "/transcribe/stream"
	healthPath = "/health"
)

// Sidecar event types.
const (
	eventSegment = "segment"
	eventError   = "error"
	eventDone    = "done"
)

// Config holds configuration for the sidecar provider.
type Config struct {
	URL         string
	Model       string
	Language    string
	Device      string
	ComputeType string
	Timeout     time.Duration
}

// Provider implements transcription.Provider using the sidecar.
type Provider struct {
	cfg    Config
	client *http.Client
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a sidecar provider.
func NewProvider(cfg Config) *Provider {
	if cfg.URL == "" {
		cfg.URL = transcription.DefaultURL
	}
	if cfg.Model == "" {
		cfg.Model = transcription.DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = transcription.DefaultTimeout
	}
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Factory returns a provider.Factory that builds Providers from a generic
// config map, as produced by transcription.Config.ToMap.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		wc := Config{}
		if v, ok := cfg["url"].(string); ok {
			wc.URL = v
		}
		if v, ok := cfg["model"].(string); ok {
			wc.Model = v
		}
		if v, ok := cfg["language"].(string); ok {
			wc.Language = v
		}
		if v, ok := cfg["device"].(string); ok {
			wc.Device = v
		}
		if v, ok := cfg["compute_type"].(string); ok {
			wc.ComputeType = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			wc.Timeout = v
		}
		return NewProvider(wc), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the sidecar answers its health endpoint.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL+healthPath, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Transcribe uploads the audio file and returns an iterator over the
// streamed segments.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (provider.Iterator[transcription.Segment], error) {
	audio, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}

	fields := map[string]string{
		"model":        firstNonEmpty(req.Model, p.cfg.Model),
		"language":     firstNonEmpty(req.Language, p.cfg.Language),
		"device":       p.cfg.Device,
		"compute_type": p.cfg.ComputeType,
	}

	body, contentType := multipartBody(audio, filepath.Base(req.AudioPath), fields)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL+streamPath, body)
	if err != nil {
		_ = body.Close()
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("whisper request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("whisper error (status %d): %s", resp.StatusCode, msg)
	}

	reader := sse.NewReader(resp.Body)
	finished := false
	next := func(context.Context) (transcription.Segment, bool, error) {
		var zero transcription.Segment
		for !finished {
			ev, err := reader.Next()
			if errors.Is(err, io.EOF) {
				finished = true
				break
			}
			if err != nil {
				return zero, false, fmt.Errorf("read whisper stream: %w", err)
			}

			switch ev.Event {
			case eventSegment, "":
				var seg transcription.Segment
				if err := json.Unmarshal([]byte(ev.Data), &seg); err != nil {
					return zero, false, fmt.Errorf("decode whisper segment: %w", err)
				}
				return seg, true, nil
			case eventError:
				var payload struct {
					Error string `json:"error"`
				}
				_ = json.Unmarshal([]byte(ev.Data), &payload)
				if payload.Error == "" {
					payload.Error = ev.Data
				}
				finished = true
				return zero, false, fmt.Errorf("whisper: %s", payload.Error)
			case eventDone:
				finished = true
			}
		}
		return zero, false, nil
	}
	return provider.NewFuncIterator(next, reader.Close), nil
}

// multipartBody streams the audio file as a multipart form without
// buffering it in memory. The returned reader closes the file when done.
func multipartBody(audio *os.File, filename string, fields map[string]string) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		defer audio.Close()
		err := func() error {
			part, err := writer.CreateFormFile("audio", filename)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, audio); err != nil {
				return err
			}
			for k, v := range fields {
				if v == "" {
					continue
				}
				if err := writer.WriteField(k, v); err != nil {
					return err
				}
			}
			return writer.Close()
		}()
		pw.CloseWithError(err)
	}()

	return pr, writer.FormDataContentType()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
