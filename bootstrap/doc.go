// Package bootstrap runs a service through its lifecycle: start registered
// components, run hooks, print a startup summary, block until a signal,
// then stop everything in reverse order.
package bootstrap
