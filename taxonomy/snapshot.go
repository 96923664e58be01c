package taxonomy

import (
	"context"
	"fmt"
	"sort"

	"github.com/cellular-semantics/braincellkg/catalog"
	"github.com/cellular-semantics/braincellkg/errors"
)

// Node is a read-only projection of one taxonomy node. Nodes live in the
// external graph store; the snapshot holds projections keyed by CURIE.
type Node struct {
	CURIE   string
	Label   string
	Tier    Tier
	Parents []string
	// NTCombo is the neurotransmitter combo categorical string, empty when
	// the node carries none.
	NTCombo string
	// ExemplarCell links the node to a representative cell entity.
	ExemplarCell catalog.Entity
}

// Snapshot is one taxonomy materialized as an adjacency structure. It is
// immutable after construction.
type Snapshot struct {
	name     string
	nodes    map[string]*Node
	children map[string][]string
}

// NewSnapshot assembles a snapshot from traversal rows. Rows referencing an
// unknown tier are rejected; parent references to nodes outside the taxonomy
// are dropped (cross-taxonomy edges are not part of a branch walk).
func NewSnapshot(name string, rows []catalog.NodeRow) (*Snapshot, error) {
	if len(rows) == 0 {
		return nil, errors.WrapInvalid(errors.ErrNoTaxonomy, "Snapshot", "NewSnapshot", "assemble taxonomy "+name)
	}

	s := &Snapshot{
		name:     name,
		nodes:    make(map[string]*Node, len(rows)),
		children: make(map[string][]string),
	}

	for _, row := range rows {
		tier, err := TierFromLabels(row.Tiers)
		if err != nil {
			return nil, errors.WrapInvalid(
				fmt.Errorf("node %s: %w", row.CURIE, err),
				"Snapshot", "NewSnapshot", "classify tier")
		}
		s.nodes[row.CURIE] = &Node{
			CURIE:        row.CURIE,
			Label:        row.Label,
			Tier:         tier,
			Parents:      append([]string(nil), row.Parents...),
			NTCombo:      row.NTCombo,
			ExemplarCell: row.ExemplarCell,
		}
	}

	for curie, node := range s.nodes {
		kept := node.Parents[:0]
		for _, parent := range node.Parents {
			if _, ok := s.nodes[parent]; ok {
				kept = append(kept, parent)
				s.children[parent] = append(s.children[parent], curie)
			}
		}
		node.Parents = kept
	}
	for parent := range s.children {
		sort.Strings(s.children[parent])
	}

	return s, nil
}

// Load fetches a taxonomy through the traversal contract and assembles the
// snapshot.
func Load(ctx context.Context, tr catalog.Traversal, name string) (*Snapshot, error) {
	rows, err := tr.TaxonomyNodes(ctx, name)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(name, rows)
}

// Name returns the taxonomy name (its graph label).
func (s *Snapshot) Name() string {
	return s.name
}

// Len returns the node count.
func (s *Snapshot) Len() int {
	return len(s.nodes)
}

// Node returns the node with the given CURIE.
func (s *Snapshot) Node(curie string) (*Node, bool) {
	node, ok := s.nodes[curie]
	return node, ok
}

// NodesAtTier returns the nodes at one generality tier, ordered by CURIE for
// reproducible reports.
func (s *Snapshot) NodesAtTier(tier Tier) []*Node {
	var out []*Node
	for _, node := range s.nodes {
		if node.Tier == tier {
			out = append(out, node)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CURIE < out[j].CURIE })
	return out
}

// Clusters returns the leaf-tier nodes ordered by label, matching the
// ordering of the upstream cluster listing.
func (s *Snapshot) Clusters() []*Node {
	out := s.NodesAtTier(TierCluster)
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Parents returns the more-general parents of a node.
func (s *Snapshot) Parents(curie string) []*Node {
	node, ok := s.nodes[curie]
	if !ok {
		return nil
	}
	out := make([]*Node, 0, len(node.Parents))
	for _, parent := range node.Parents {
		if p, ok := s.nodes[parent]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Children returns the more-specific children of a node, ordered by CURIE.
func (s *Snapshot) Children(curie string) []*Node {
	out := make([]*Node, 0, len(s.children[curie]))
	for _, child := range s.children[curie] {
		if c, ok := s.nodes[child]; ok {
			out = append(out, c)
		}
	}
	return out
}
