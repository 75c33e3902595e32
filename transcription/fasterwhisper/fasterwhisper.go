// Package fasterwhisper implements transcription.Provider by running a
// local faster-whisper command line tool that prints one JSON object per
// segment on stdout:
//
//	{"start": 0.0, "end": 2.4, "text": " Hello there."}
//
// A line of the form {"error": "..."} fails the transcription. Lines that
// are not JSON objects are ignored.
package fasterwhisper

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/streamscribe/process"
	"github.com/kbukum/streamscribe/provider"
	"github.com/kbukum/streamscribe/transcription"
)

// ProviderName is the registered name for the CLI provider.
const ProviderName = "fasterwhisper"

const maxLineSize = 1 << 20

// DefaultArgs is the argument template used when none is configured.
// Placeholders are replaced per call; a flag whose value is empty is
// dropped together with the flag.
var DefaultArgs = []string{
	"--model", "{model}",
	"--device", "{device}",
	"--compute_type", "{compute_type}",
	"--language", "{language}",
	"--output_format", "jsonl",
	"{audio}",
}

// Config holds configuration for the CLI provider.
type Config struct {
	Binary      string
	Args        []string
	Model       string
	Language    string
	Device      string
	ComputeType string
	// Timeout bounds one run; the process is terminated when it expires.
	Timeout time.Duration
}

// Provider implements transcription.Provider by running Binary per call.
type Provider struct {
	cfg Config
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a CLI provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Binary == "" {
		return nil, fmt.Errorf("fasterwhisper: binary is required")
	}
	if len(cfg.Args) == 0 {
		cfg.Args = DefaultArgs
	}
	if cfg.Model == "" {
		cfg.Model = transcription.DefaultModel
	}
	return &Provider{cfg: cfg}, nil
}

// Factory returns a provider.Factory that builds Providers from a generic
// config map, as produced by transcription.Config.ToMap.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		fc := Config{}
		if v, ok := cfg["binary"].(string); ok {
			fc.Binary = v
		}
		if v, ok := cfg["args"].([]string); ok {
			fc.Args = v
		}
		if v, ok := cfg["model"].(string); ok {
			fc.Model = v
		}
		if v, ok := cfg["language"].(string); ok {
			fc.Language = v
		}
		if v, ok := cfg["device"].(string); ok {
			fc.Device = v
		}
		if v, ok := cfg["compute_type"].(string); ok {
			fc.ComputeType = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			fc.Timeout = v
		}
		return NewProvider(fc)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the binary can be started.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := process.Run(ctx, process.Command{Binary: p.cfg.Binary, Args: []string{"--help"}})
	return err == nil
}

// Transcribe starts the tool and returns an iterator over its segments.
// Closing the iterator early terminates the process.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (provider.Iterator[transcription.Segment], error) {
	var cancel context.CancelFunc = func() {}
	if p.cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
	}

	stream, err := process.Start(ctx, process.Command{
		Binary: p.cfg.Binary,
		Args: expandArgs(p.cfg.Args, map[string]string{
			"audio":        req.AudioPath,
			"model":        firstNonEmpty(req.Model, p.cfg.Model),
			"language":     firstNonEmpty(req.Language, p.cfg.Language),
			"device":       p.cfg.Device,
			"compute_type": p.cfg.ComputeType,
		}),
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("fasterwhisper: %w", err)
	}

	scanner := bufio.NewScanner(stream.Stdout())
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	done := false

	next := func(context.Context) (transcription.Segment, bool, error) {
		var zero transcription.Segment
		if done {
			return zero, false, nil
		}
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 || line[0] != '{' {
				continue
			}
			var out struct {
				transcription.Segment
				Error string `json:"error"`
			}
			if err := json.Unmarshal(line, &out); err != nil {
				done = true
				return zero, false, fmt.Errorf("fasterwhisper: decode segment: %w", err)
			}
			if out.Error != "" {
				done = true
				return zero, false, fmt.Errorf("fasterwhisper: %s", out.Error)
			}
			return out.Segment, true, nil
		}
		done = true
		if err := scanner.Err(); err != nil {
			return zero, false, fmt.Errorf("fasterwhisper: read output: %w", err)
		}
		if res, err := stream.Wait(); err != nil {
			return zero, false, fmt.Errorf("fasterwhisper: %w: %s", err, strings.TrimSpace(string(res.Stderr)))
		}
		return zero, false, nil
	}

	return provider.NewFuncIterator(next, func() error {
		defer cancel()
		return stream.Close()
	}), nil
}

// expandArgs substitutes {name} placeholders. A "--flag" followed by a
// placeholder that expands to an empty string is dropped entirely.
func expandArgs(tmpl []string, values map[string]string) []string {
	out := make([]string, 0, len(tmpl))
	for i := 0; i < len(tmpl); i++ {
		arg := tmpl[i]
		if strings.HasPrefix(arg, "-") && i+1 < len(tmpl) && isPlaceholder(tmpl[i+1]) {
			if v := values[strings.Trim(tmpl[i+1], "{}")]; v != "" {
				out = append(out, arg, v)
			}
			i++
			continue
		}
		for k, v := range values {
			arg = strings.ReplaceAll(arg, "{"+k+"}", v)
		}
		out = append(out, arg)
	}
	return out
}

func isPlaceholder(s string) bool {
	return len(s) > 2 && s[0] == '{' && s[len(s)-1] == '}'
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
