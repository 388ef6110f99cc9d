// Package resilience provides the fault-tolerance helpers the service
// relies on:
//   - Retry and RetryFunc re-run an operation with exponential backoff. They
//     guard startup checks of backing services such as Redis.
//   - Bulkhead caps how many calls run concurrently. The account service
//     runs password hashing behind one so that a surge of logins cannot
//     starve the CPU.
//   - CircuitBreaker fails fast once a backend keeps erroring. The user
//     document store calls its storage backend through one.
//
// Retry and Bulkhead honour context cancellation.
//
//	err := resilience.RetryFunc(ctx, resilience.DefaultRetryConfig(), func() error {
//	    return client.Ping(ctx)
//	})
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{Name: "hash", MaxConcurrent: 4, MaxWait: time.Second})
//	hash, err := resilience.ExecuteWithResult(bh, ctx, func() (string, error) { return hasher.Hash(pw) })
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("store"))
//	data, err := resilience.Call(cb, func() ([]byte, error) { return blobs.Download(ctx, path) })
package resilience
