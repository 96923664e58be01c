// Package pipeline orchestrates one batch run: load the taxonomy snapshot,
// tokenize every cluster label, resolve the distinct tokens in parallel
// against the graph catalog, aggregate the resolutions over the hierarchy and
// emit the report tables.
//
// A batch either completes and emits its reports or aborts on the first fatal
// condition; per-token unmatched results never abort. Resolution fans out
// over a worker pool because each lookup is independent and read-only;
// analyses run concurrently once resolution is complete.
package pipeline
