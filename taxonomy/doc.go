// Package taxonomy provides the in-memory snapshot of one cell-cluster
// taxonomy: nodes keyed by CURIE, generality tiers, and the subcluster_of
// parent/child adjacency. The taxonomy is a DAG, never assumed to be a tree -
// a node may have multiple more-general parents - and every walk is bounded
// by a depth guard so an upstream edge cycle cannot cause non-termination.
//
// Snapshots are read-only after construction; concurrent walks over different
// branches are safe.
package taxonomy
