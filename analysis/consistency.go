package analysis

import (
	"sort"
	"strings"

	"github.com/cellular-semantics/braincellkg/taxonomy"
)

// ConsistencyRow is one line of the neurotransmitter-consistency table.
type ConsistencyRow struct {
	NodeCURIE string
	NodeLabel string
	Tier      taxonomy.Tier
	// IsConsistent is true iff every descendant leaf cluster carries an
	// identical neurotransmitter component set.
	IsConsistent bool
	// DistinctCombos lists the canonical component sets found beneath the
	// node, most frequent first.
	DistinctCombos []string
	// ComboCounts maps each canonical combo to its leaf count.
	ComboCounts map[string]int
	// SharedComponents are the components present in every leaf's combo.
	SharedComponents []string
	// LeafCount is the number of descendant leaves with a combo value.
	LeafCount int
}

// consistencyTiers are the internal generality tiers the fold reports on.
var consistencyTiers = []taxonomy.Tier{
	taxonomy.TierClass,
	taxonomy.TierSubclass,
	taxonomy.TierSupertype,
}

// NeurotransmitterConsistency folds neurotransmitter combos bottom-up over
// the subcluster_of DAG. Every internal node at class, subclass or supertype
// generality is checked against its descendant leaf clusters within the
// configured depth bound; a multi-parent leaf contributes to each ancestor's
// fold independently. Leaves without a combo value do not participate; nodes
// with no participating leaves are omitted. Rows are ordered by tier then
// CURIE.
func (a *Aggregator) NeurotransmitterConsistency() []ConsistencyRow {
	var rows []ConsistencyRow
	for _, tier := range consistencyTiers {
		for _, node := range a.snapshot.NodesAtTier(tier) {
			if !a.scope.Includes(node) {
				continue
			}
			row, ok := a.foldNode(node)
			if ok {
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func (a *Aggregator) foldNode(node *taxonomy.Node) (ConsistencyRow, bool) {
	counts := make(map[string]int)
	var sets [][]string

	for _, leaf := range a.snapshot.DescendantClusters(node.CURIE, a.consistencyDepth) {
		if leaf.NTCombo == "" {
			continue
		}
		components := a.splitCombo(leaf.NTCombo)
		counts[strings.Join(components, a.comboSeparator)]++
		sets = append(sets, components)
	}
	if len(sets) == 0 {
		return ConsistencyRow{}, false
	}

	distinct := make([]string, 0, len(counts))
	for combo := range counts {
		distinct = append(distinct, combo)
	}
	sort.Slice(distinct, func(i, j int) bool {
		if counts[distinct[i]] != counts[distinct[j]] {
			return counts[distinct[i]] > counts[distinct[j]]
		}
		return distinct[i] < distinct[j]
	})

	return ConsistencyRow{
		NodeCURIE:        node.CURIE,
		NodeLabel:        node.Label,
		Tier:             node.Tier,
		IsConsistent:     len(distinct) == 1,
		DistinctCombos:   distinct,
		ComboCounts:      counts,
		SharedComponents: sharedComponents(sets),
		LeafCount:        len(sets),
	}, true
}

// splitCombo canonicalizes a combo label into its sorted component symbols.
// Sorting makes "Gaba:Glut" and "Glut:Gaba" the same component set.
func (a *Aggregator) splitCombo(combo string) []string {
	components := strings.Split(combo, a.comboSeparator)
	for i, c := range components {
		components[i] = strings.TrimSpace(c)
	}
	sort.Strings(components)
	return components
}

// sharedComponents returns the components present in every set, sorted.
func sharedComponents(sets [][]string) []string {
	if len(sets) == 0 {
		return nil
	}
	shared := make(map[string]int)
	for _, set := range sets {
		seen := make(map[string]bool)
		for _, c := range set {
			if !seen[c] {
				seen[c] = true
				shared[c]++
			}
		}
	}
	var out []string
	for c, n := range shared {
		if n == len(sets) {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
