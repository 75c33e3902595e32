// Package sse implements Server-Sent Events in both directions.
//
// The Hub routes events to connected clients whose id matches a glob
// pattern; Handler serves GET endpoints where each connection becomes a
// "session:<uuid>" client. Reader parses an SSE stream, which the whisper
// engine adapter uses to consume its sidecar.
//
// Delivery is best effort: events published while nobody matches are
// dropped, and a client that connects later never sees them.
//
//	hub := sse.NewHub(log)
//	go hub.Run()
//	router.GET("/events", gin.WrapH(sse.NewHandler(hub, sse.HandlerConfig{}, log)))
//	hub.BroadcastToPattern("session:*", sse.Event{Event: "transcription_segment", Data: payload})
package sse
