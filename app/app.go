package app

import (
	"os"
	"path/filepath"

	"github.com/kbukum/streamscribe/bootstrap"
	"github.com/kbukum/streamscribe/component"
	"github.com/kbukum/streamscribe/event"
	"github.com/kbukum/streamscribe/jobs"
	"github.com/kbukum/streamscribe/logger"
	"github.com/kbukum/streamscribe/observability"
	"github.com/kbukum/streamscribe/redis"
	"github.com/kbukum/streamscribe/server"
	"github.com/kbukum/streamscribe/sse"
	"github.com/kbukum/streamscribe/storage"
	_ "github.com/kbukum/streamscribe/storage/local"
	"github.com/kbukum/streamscribe/transcription"
	"github.com/kbukum/streamscribe/upload"
)

// Service is the assembled application.
type Service struct {
	*bootstrap.App[*Config]

	Server     *server.Server
	Hub        *sse.Hub
	Dispatcher *jobs.Dispatcher
	Storage    storage.Storage
}

// New wires every component around engine. Components start in
// registration order and stop in reverse, so the HTTP server stops first,
// then the dispatcher waits for in-flight jobs, then the infrastructure
// they publish to goes away.
func New(cfg *Config, engine transcription.Provider, opts ...bootstrap.Option) (*Service, error) {
	a, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}
	log := a.Logger

	obs := observability.NewComponent(cfg.Observability, cfg.ResourceInfo(), log)
	storeComp, err := storage.NewComponent(cfg.Storage, log)
	if err != nil {
		return nil, err
	}
	hubComp := sse.NewComponent(cfg.Events.Path, log)

	publishers := []event.Publisher{event.NewSSEPublisher(hubComp.Hub(), event.DefaultPattern)}
	var redisComp *redis.Component
	if cfg.Redis.Enabled {
		redisComp = redis.NewComponent(cfg.Redis, log)
		if cfg.Events.Redis.Enabled {
			publishers = append(publishers, event.NewRedisPublisher(redisComp, cfg.Events.Redis.Channel))
		}
	}

	var runnerOpts []jobs.RunnerOption
	if metrics, err := observability.NewJobMetrics(observability.Meter(ServiceName)); err != nil {
		log.Warn("Job metrics disabled", logger.ErrorFields("metrics", err))
	} else {
		runnerOpts = append(runnerOpts, jobs.WithMetrics(metrics))
	}
	runner := jobs.NewRunner(storeComp.Storage(), engine, event.NewFanout(log, publishers...), log, runnerOpts...)
	dispatcher := jobs.NewDispatcher(runner, log)

	srv := server.New(cfg.Server, log)
	srv.OnShutdown(hubComp.Hub().Stop)

	svc := &Service{
		App:        a,
		Server:     srv,
		Hub:        hubComp.Hub(),
		Dispatcher: dispatcher,
		Storage:    storeComp.Storage(),
	}
	svc.registerRoutes(cfg, log)

	components := []component.Component{obs, storeComp, transcription.NewComponent(engine, log)}
	if redisComp != nil {
		components = append(components, redisComp)
	}
	components = append(components, hubComp, dispatcher, server.NewComponent(srv))
	for _, c := range components {
		if err := a.RegisterComponent(c); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

func (s *Service) registerRoutes(cfg *Config, log *logger.Logger) {
	engine := s.Server.GinEngine()

	s.Server.RegisterDefaultEndpoints(cfg.Name, s.Components.HealthAll)

	upload.NewHandler(s.Storage, s.Dispatcher, log,
		upload.WithMaxBodySize(cfg.Server.MaxBodyBytes()),
	).Register(engine)

	events := sse.NewHandler(s.Hub, sse.HandlerConfig{KeepAlive: cfg.Events.KeepAlive}, log)
	s.Server.Handle(cfg.Events.Path, events)

	if index := indexPage(cfg.Web.StaticDir); index != "" {
		engine.StaticFile("/", index)
	} else {
		log.Debug("Upload page not found, GET / disabled", logger.Fields(logger.FieldPath, cfg.Web.StaticDir))
	}
}

// indexPage returns the path of index.html under dir, or "" if absent.
func indexPage(dir string) string {
	if dir == "" {
		return ""
	}
	p := filepath.Join(dir, "index.html")
	if info, err := os.Stat(p); err != nil || info.IsDir() {
		return ""
	}
	return p
}

// Addr returns the bound HTTP address.
func (s *Service) Addr() string { return s.Server.Addr() }
