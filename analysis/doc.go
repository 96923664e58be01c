// Package analysis aggregates resolved tokens over a taxonomy snapshot. It
// produces the curation reports: the most-general-term table (per mapped
// entity and branch, the most general ancestor the mapping generalizes to),
// the neurotransmitter-consistency table (per internal node, whether every
// descendant leaf cluster shares one neurotransmitter component set), and the
// composition reports recovered from the upstream tooling (cluster
// composition, token usage, problem tokens, matching summary).
//
// All computations are read-only folds over an immutable snapshot and an
// immutable resolution set, so independent reports may run concurrently.
package analysis
