// Package app wires streamscribe together: configuration, the transcription
// engine, storage, the SSE hub, the optional Redis relay, observability,
// the job dispatcher and the HTTP server.
//
//	var cfg app.Config
//	_ = config.LoadConfig("streamscribe", &cfg)
//	engine, _ := app.NewEngine(cfg.Transcription, nil)
//	svc, _ := app.New(&cfg, engine)
//	_ = svc.Run(ctx)
package app
