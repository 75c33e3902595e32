package transcription_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/streamscribe/component"
	"github.com/kbukum/streamscribe/provider"
	"github.com/kbukum/streamscribe/transcription"
)

type fakeEngine struct {
	active  atomic.Int32
	peak    atomic.Int32
	fail    error
	panics  bool
	down    bool
	segment transcription.Segment
}

func (f *fakeEngine) Name() string                      { return "fake" }
func (f *fakeEngine) IsAvailable(context.Context) bool { return !f.down }

func (f *fakeEngine) Transcribe(ctx context.Context, req transcription.Request) (provider.Iterator[transcription.Segment], error) {
	if f.panics {
		panic("engine crashed")
	}
	if f.fail != nil {
		return nil, f.fail
	}
	n := f.active.Add(1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	inner := provider.FromSlice(f.segment)
	return provider.NewFuncIterator(inner.Next, func() error {
		f.active.Add(-1)
		return nil
	}), nil
}

func TestConfigDefaults(t *testing.T) {
	var cfg transcription.Config
	cfg.ApplyDefaults()
	if cfg.Provider != "whisper" || cfg.Model != "medium" || cfg.Device != "cuda" || cfg.MaxConcurrent != 1 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	m := cfg.ToMap()
	if m["model"] != "medium" || m["timeout"] != transcription.DefaultTimeout {
		t.Errorf("ToMap = %v", m)
	}
}

func TestSerializedHoldsSlotUntilClose(t *testing.T) {
	engine := &fakeEngine{segment: transcription.Segment{Text: "x"}}
	s := transcription.Serialized(engine, 1, nil)
	ctx := context.Background()

	first, err := s.Transcribe(ctx, transcription.Request{})
	if err != nil {
		t.Fatal(err)
	}

	got := make(chan error, 1)
	go func() {
		it, err := s.Transcribe(ctx, transcription.Request{})
		if err == nil {
			_, err = provider.Collect(ctx, it)
		}
		got <- err
	}()

	select {
	case <-got:
		t.Fatal("second transcription started while the first held the slot")
	case <-time.After(50 * time.Millisecond):
	}

	if _, err := provider.Collect(ctx, first); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-got:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("second transcription never ran")
	}
	if engine.peak.Load() != 1 {
		t.Errorf("peak concurrency = %d, want 1", engine.peak.Load())
	}
}

func TestSerializedReleasesOnStartError(t *testing.T) {
	engine := &fakeEngine{fail: errors.New("model missing")}
	s := transcription.Serialized(engine, 1, nil)

	for i := 0; i < 2; i++ {
		if _, err := s.Transcribe(context.Background(), transcription.Request{}); err == nil || err.Error() != "model missing" {
			t.Fatalf("attempt %d: err = %v", i, err)
		}
	}
}

func TestSerializedReleasesOnPanic(t *testing.T) {
	engine := &fakeEngine{panics: true, segment: transcription.Segment{Text: "x"}}
	s := transcription.Serialized(engine, 1, nil)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected the engine panic to propagate")
			}
		}()
		_, _ = s.Transcribe(context.Background(), transcription.Request{})
	}()

	engine.panics = false
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	it, err := s.Transcribe(ctx, transcription.Request{})
	if err != nil {
		t.Fatalf("slot was not released after panic: %v", err)
	}
	if _, err := provider.Collect(ctx, it); err != nil {
		t.Fatal(err)
	}
}

func TestSerializedHonorsContext(t *testing.T) {
	engine := &fakeEngine{}
	s := transcription.Serialized(engine, 1, nil)
	held, _ := s.Transcribe(context.Background(), transcription.Request{})
	defer held.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.Transcribe(ctx, transcription.Request{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestRegistryCreate(t *testing.T) {
	reg := transcription.NewRegistry()
	reg.RegisterFactory("fake", func(map[string]any) (transcription.Provider, error) {
		return &fakeEngine{}, nil
	})
	p, err := reg.Create("fake", nil)
	if err != nil || p.Name() != "fake" {
		t.Fatalf("Create = %v, %v", p, err)
	}
}

func TestComponentHealth(t *testing.T) {
	engine := &fakeEngine{}
	c := transcription.NewComponent(transcription.Serialized(engine, 1, nil), nil)
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy || h.Name != "transcription" {
		t.Errorf("health = %+v, want healthy", h)
	}

	engine.down = true
	if err := c.Start(ctx); err != nil {
		t.Errorf("Start must not fail on an unavailable engine: %v", err)
	}
	h := c.Health(ctx)
	if h.Status != component.StatusUnhealthy || h.Message != "fake engine not available" {
		t.Errorf("health = %+v, want unhealthy", h)
	}
}
