package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/streamscribe/component"
	"github.com/kbukum/streamscribe/config"
	"github.com/kbukum/streamscribe/logger"
)

type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	health   component.Health
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string                    { return m.name }
func (m *mockComponent) Start(ctx context.Context) error { m.started = true; return m.startErr }
func (m *mockComponent) Stop(ctx context.Context) error  { m.stopped = true; return nil }
func (m *mockComponent) Health(ctx context.Context) component.Health {
	return m.health
}
func (m *mockComponent) Describe() component.Description {
	return component.Description{Type: "test", Details: "mock details", Port: 8282}
}
func (m *mockComponent) Routes() []component.Route {
	return []component.Route{{Method: "POST", Path: "/upload", Handler: "upload"}}
}

func newTestApp(t *testing.T, out *bytes.Buffer) *App[*testConfig] {
	t.Helper()
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "streamscribe", Version: "1.2.3"}}
	app, err := NewApp(cfg, WithLogger(logger.Nop()), WithSummaryOutput(out), WithGracefulTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

func TestNewAppValidates(t *testing.T) {
	_, err := NewApp(&testConfig{}, WithLogger(logger.Nop()))
	if err == nil {
		t.Fatal("expected validation error for missing name")
	}
}

func TestNewAppDefaults(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	if app.Name != "streamscribe" || app.Version != "1.2.3" {
		t.Errorf("app identity = %s %s", app.Name, app.Version)
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("defaults not applied: %q", app.Cfg.Environment)
	}
}

func TestStartRendersSummaryAndRunsHooks(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, &out)
	c := &mockComponent{name: "server", health: component.Health{Name: "server", Status: component.StatusHealthy}}
	if err := app.RegisterComponent(c); err != nil {
		t.Fatal(err)
	}

	var calls []string
	app.OnStart(func(context.Context) error { calls = append(calls, "start"); return nil })
	app.OnReady(func(context.Context) error { calls = append(calls, "ready"); return nil })
	app.OnStop(func(context.Context) error { calls = append(calls, "stop"); return nil })

	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !c.started {
		t.Error("component not started")
	}
	summary := out.String()
	for _, want := range []string{"streamscribe v1.2.3", "mock details (:8282)", "/upload", "server: healthy"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}

	if err := app.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !c.stopped {
		t.Error("component not stopped")
	}
	if strings.Join(calls, ",") != "start,ready,stop" {
		t.Errorf("hook order = %v", calls)
	}
}

func TestStartFailureStopsStarted(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	ok := &mockComponent{name: "storage"}
	bad := &mockComponent{name: "redis", startErr: errors.New("refused")}
	app.RegisterComponent(ok)
	app.RegisterComponent(bad)

	if err := app.Start(context.Background()); err == nil {
		t.Fatal("expected start error")
	}
	if !ok.stopped {
		t.Error("started component should be stopped after failure")
	}
}

func TestReadyCheck(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	app.RegisterComponent(&mockComponent{name: "redis", health: component.Health{
		Name: "redis", Status: component.StatusUnhealthy, Message: "no ping",
	}})
	err := app.ReadyCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "redis=unhealthy(no ping)") {
		t.Errorf("ReadyCheck = %v", err)
	}
}

func TestRunReturnsOnContextCancel(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
