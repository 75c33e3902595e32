// Package resilience provides the Bulkhead concurrency limiter.
//
// Backends that are not reentrant (a single loaded speech model, for
// example) are wrapped in a Bulkhead with MaxConcurrent 1 and WaitForever
// so callers queue instead of failing.
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{Name: "engine", MaxConcurrent: 1, MaxWait: resilience.WaitForever})
//	release, err := bh.Acquire(ctx)
//	defer release()
package resilience
