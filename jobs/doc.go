// Package jobs runs transcription jobs off the request path.
//
// Dispatcher starts one goroutine per accepted upload; Runner drives the
// job through the engine, streams every segment as an event, optionally
// saves the transcript and always removes the input file.
//
// A job moves accepted -> running -> completed | errored. The terminal
// states are exclusive: subscribers see exactly one complete or one error
// event per job, never both. Nothing is retried.
package jobs
