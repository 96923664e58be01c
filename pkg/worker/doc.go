// Package worker provides a generic bounded worker pool. The pipeline uses it
// to resolve distinct tokens in parallel: each work item is an independent
// read-only catalog lookup producing an immutable record, so no shared state
// needs locking.
//
// Submit is non-blocking; a full queue returns ErrQueueFull as a backpressure
// signal. Statistics are always tracked with atomics; Prometheus metrics are
// opt-in through WithMetricsRegistry.
package worker
