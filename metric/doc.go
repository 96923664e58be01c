// Package metric provides Prometheus-based instrumentation for batch runs.
//
// A Registry owns a private prometheus.Registry preloaded with the core batch
// metrics (labels tokenized, tokens resolved by strategy, catalog
// connectivity, report rows written) plus the Go runtime collectors.
// Components register their own metrics through the Registrar interface; the
// worker pool instruments itself that way. Serve the registry over HTTP with
// Handler when a batch run should be scrapeable.
package metric
