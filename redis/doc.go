// Package redis provides a go-redis client component used to relay
// transcription events to other processes over pub/sub.
//
//	cfg := redis.Config{Enabled: true, Addr: "localhost:6379"}
//	comp := redis.NewComponent(cfg, log)
//	registry.Register(comp)
//	...
//	comp.Publish(ctx, "streamscribe:events", payload)
package redis
