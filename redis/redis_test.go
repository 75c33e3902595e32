package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/streamscribe/component"
)

// subscribe listens on channel through a separate connection.
func subscribe(t *testing.T, addr, channel string) *goredis.PubSub {
	t.Helper()
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	sub := rdb.Subscribe(context.Background(), channel)
	if _, err := sub.Receive(context.Background()); err != nil {
		t.Fatalf("subscribe %s: %v", channel, err)
	}
	t.Cleanup(func() { _ = sub.Close() })
	return sub
}

func startComponent(t *testing.T) (*Component, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewComponent(Config{Enabled: true, Addr: mr.Addr()}, nil)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = c.Stop(context.Background()) })
	return c, mr
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Addr != "localhost:6379" || cfg.PoolSize != 10 || cfg.DialTimeout != 5*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled config should validate: %v", err)
	}

	cfg.Enabled = true
	cfg.DB = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid db error")
	}
}

func TestNewDisabled(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Error("expected error for disabled config")
	}
}

func TestComponentPublishSubscribe(t *testing.T) {
	c, mr := startComponent(t)
	ctx := context.Background()
	sub := subscribe(t, mr.Addr(), "streamscribe:events")

	if err := c.Publish(ctx, "streamscribe:events", []byte(`{"type":"x"}`)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case msg := <-sub.Channel():
		if msg.Payload != `{"type":"x"}` {
			t.Errorf("payload = %q", msg.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestComponentHealth(t *testing.T) {
	c, mr := startComponent(t)
	ctx := context.Background()

	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("status = %s, want healthy", h.Status)
	}
	mr.Close()
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("status = %s, want unhealthy after server closed", h.Status)
	}
}

func TestComponentNotStarted(t *testing.T) {
	c := NewComponent(Config{Enabled: true}, nil)
	if err := c.Publish(context.Background(), "ch", nil); !errors.Is(err, ErrNotStarted) {
		t.Errorf("err = %v, want ErrNotStarted", err)
	}
	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("status = %s", h.Status)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("Stop on unstarted component: %v", err)
	}
}

func TestComponentStartFailsWithoutServer(t *testing.T) {
	c := NewComponent(Config{Enabled: true, Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond}, nil)
	if err := c.Start(context.Background()); err == nil {
		t.Error("expected start to fail")
	}
}
