// Package upload implements POST /upload: it validates a multipart audio
// upload, stores it under a fresh job id and hands the job to a dispatcher
// without waiting for transcription.
//
//	h := upload.NewHandler(store, dispatcher, log, upload.WithMaxBodySize(cfg.Server.MaxBodyBytes()))
//	h.Register(srv.GinEngine())
package upload
