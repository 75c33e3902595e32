// Package process runs subprocesses with process-group cleanup.
//
// Start returns a Stream whose stdout can be consumed while the process
// runs; Run is the buffered form. Cancelling the context sends SIGTERM to
// the whole group and SIGKILL after the grace period.
package process
