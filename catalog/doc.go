// Package catalog defines the read-only contracts this tool holds with the
// external knowledge graph - entity lookup by CURIE, label, or short form,
// and taxonomy traversal - together with the Neo4j bolt implementation.
//
// The core never issues write or update queries: the graph is treated as a
// read-only service for the duration of a batch. Per-entity misses surface as
// errors.ErrEntityNotFound and are ordinary resolution outcomes; an
// unreachable catalog is fatal and aborts the batch with no partial
// resolution report.
package catalog
