// Package component defines lifecycle-managed infrastructure pieces.
//
// Storage, the event hub, the redis relay, the job dispatcher and the
// HTTP server all implement Component. The Registry starts them in
// registration order and stops them in reverse.
package component
