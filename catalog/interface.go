package catalog

import (
	"context"
)

// Family selects which entity family of the knowledge graph a lookup targets.
// Token kinds route to a specific family (GENE to Gene, ANATOMICAL to MBA,
// CELL_TYPE and NEUROTRANSMISSION to Cell); Class is the generic fallback
// family, because upstream and KG vocabularies diverge in which layer holds a
// given term.
type Family int

const (
	FamilyGene Family = iota
	FamilyMBA
	FamilyCell
	FamilyClass
)

// String returns the graph node label of the family.
func (f Family) String() string {
	switch f {
	case FamilyGene:
		return "Gene"
	case FamilyMBA:
		return "MBA"
	case FamilyCell:
		return "Cell"
	case FamilyClass:
		return "Class"
	default:
		return "Unknown"
	}
}

// Entity is a read-only projection of a graph entity.
type Entity struct {
	CURIE string
	Label string
}

// Lookup is the entity-resolution face of the graph catalog. Every method
// returns errors.ErrEntityNotFound (possibly wrapped) on a per-entity miss;
// any other error indicates a catalog failure and is fatal for the batch.
type Lookup interface {
	// LookupByCURIE finds an entity by its compact URI, verbatim.
	LookupByCURIE(ctx context.Context, family Family, curie string) (*Entity, error)

	// LookupByLabel finds an entity whose label contains the given text.
	// Used only by the optional last-resort label-search strategy.
	LookupByLabel(ctx context.Context, family Family, text string) (*Entity, error)

	// LookupByShortForm finds an entity by its underscore-based short form.
	LookupByShortForm(ctx context.Context, family Family, shortForm string) (*Entity, error)
}

// NodeRow is one taxonomy node as returned by traversal, before snapshot
// assembly.
type NodeRow struct {
	CURIE string
	Label string
	// Tiers are the raw graph labels of the node; the snapshot builder
	// extracts the generality tier from them.
	Tiers []string
	// Parents are the CURIEs of the node's more-general parents via
	// subcluster_of edges. A node may have several (the taxonomy is a DAG).
	Parents []string
	// NTCombo is the neurotransmitter combo label, empty when absent.
	NTCombo string
	// ExemplarCell is the cell linked to the node as exemplar evidence;
	// zero-valued when the node has none.
	ExemplarCell Entity
}

// Traversal is the hierarchy face of the graph catalog.
type Traversal interface {
	// TaxonomyNodes returns every cell-cluster node of a taxonomy with its
	// parent edges, tier labels, neurotransmitter combo and exemplar cell.
	TaxonomyNodes(ctx context.Context, taxonomy string) ([]NodeRow, error)
}

// Catalog is the full contract with the external graph store.
type Catalog interface {
	Lookup
	Traversal

	// Ping verifies connectivity. A failed ping is fatal for the batch.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
