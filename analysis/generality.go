package analysis

import (
	"sort"

	"github.com/google/uuid"

	"github.com/cellular-semantics/braincellkg/catalog"
	"github.com/cellular-semantics/braincellkg/taxonomy"
)

// GeneralityRow is one line of the most-general-term table: for one mapped
// target entity and one taxonomy branch, the most general ancestor at which
// the mapping still holds. Branches whose leaf cluster carries no mapping at
// all are reported with HasMapping false so that no branch silently
// disappears from the report.
type GeneralityRow struct {
	// MappingID identifies the row for downstream curation tooling.
	MappingID string
	// TargetCURIE and TargetLabel name the mapped graph entity; empty when
	// HasMapping is false.
	TargetCURIE string
	TargetLabel string
	// BranchLeaf is the leaf cluster the branch walk started from.
	BranchLeafCURIE string
	BranchLeafLabel string
	// General is the most general in-scope ancestor still carrying the
	// mapping; equal to the leaf when nothing generalizes.
	GeneralCURIE    string
	GeneralLabel    string
	GeneralTier     taxonomy.Tier
	GeneralExemplar catalog.Entity
	// Specific is the node the mapping was observed at.
	SpecificCURIE    string
	SpecificLabel    string
	SpecificExemplar catalog.Entity
	HasMapping       bool
	// BranchKey is the full ancestor path, the stable secondary sort key.
	BranchKey string
}

// MostGeneralTerms computes the most-general-term table. For every mapped
// target entity and every branch containing a mapping cluster, the walk
// climbs subcluster_of edges from the leaf and stops at the last in-scope
// ancestor whose descendant clusters all carry the same mapping. Mapped rows
// come first, ordered by target then branch path; no-mapping branches follow,
// ordered by branch path.
func (a *Aggregator) MostGeneralTerms(resolutions []LabelResolution) []GeneralityRow {
	clusterByLabel := make(map[string]*taxonomy.Node)
	for _, cluster := range a.snapshot.Clusters() {
		clusterByLabel[cluster.Label] = cluster
	}

	// clusterTargets: leaf cluster -> set of mapped target CURIEs.
	clusterTargets := make(map[string]map[string]bool)
	targetLabels := make(map[string]string)
	for _, res := range resolutions {
		cluster, ok := clusterByLabel[res.Tokens.Label]
		if !ok {
			continue
		}
		for _, resolved := range res.Resolved {
			if !resolved.Matched() {
				continue
			}
			if clusterTargets[cluster.CURIE] == nil {
				clusterTargets[cluster.CURIE] = make(map[string]bool)
			}
			clusterTargets[cluster.CURIE][resolved.CandidateCURIE] = true
			targetLabels[resolved.CandidateCURIE] = resolved.EntityLabel
		}
	}

	var mapped, unmapped []GeneralityRow
	for _, cluster := range a.snapshot.Clusters() {
		if !a.scope.Includes(cluster) {
			continue
		}
		targets := sortedKeys(clusterTargets[cluster.CURIE])
		paths := a.snapshot.AncestorPaths(cluster.CURIE, 0)

		if len(targets) == 0 {
			for _, path := range paths {
				unmapped = append(unmapped, GeneralityRow{
					MappingID:       uuid.NewString(),
					BranchLeafCURIE: cluster.CURIE,
					BranchLeafLabel: cluster.Label,
					GeneralCURIE:    cluster.CURIE,
					GeneralLabel:    cluster.Label,
					GeneralTier:     cluster.Tier,
					GeneralExemplar: cluster.ExemplarCell,
					BranchKey:       path.Key(),
				})
			}
			continue
		}

		for _, target := range targets {
			for _, path := range paths {
				general := a.generalize(path, target, clusterTargets)
				mapped = append(mapped, GeneralityRow{
					MappingID:        uuid.NewString(),
					TargetCURIE:      target,
					TargetLabel:      targetLabels[target],
					BranchLeafCURIE:  cluster.CURIE,
					BranchLeafLabel:  cluster.Label,
					GeneralCURIE:     general.CURIE,
					GeneralLabel:     general.Label,
					GeneralTier:      general.Tier,
					GeneralExemplar:  general.ExemplarCell,
					SpecificCURIE:    cluster.CURIE,
					SpecificLabel:    cluster.Label,
					SpecificExemplar: cluster.ExemplarCell,
					HasMapping:       true,
					BranchKey:        path.Key(),
				})
			}
		}
	}

	sort.Slice(mapped, func(i, j int) bool {
		if mapped[i].TargetCURIE != mapped[j].TargetCURIE {
			return mapped[i].TargetCURIE < mapped[j].TargetCURIE
		}
		return mapped[i].BranchKey < mapped[j].BranchKey
	})
	sort.Slice(unmapped, func(i, j int) bool {
		return unmapped[i].BranchKey < unmapped[j].BranchKey
	})
	return append(mapped, unmapped...)
}

// generalize walks one branch path from its leaf toward the root and returns
// the most general in-scope ancestor at which the target mapping still holds.
func (a *Aggregator) generalize(path taxonomy.BranchPath, target string, clusterTargets map[string]map[string]bool) *taxonomy.Node {
	general := path.Leaf()
	for _, ancestor := range path[1:] {
		if !a.scope.Includes(ancestor) {
			break
		}
		if !a.carriesMapping(ancestor, target, clusterTargets) {
			break
		}
		general = ancestor
	}
	return general
}

// carriesMapping reports whether the mapping to target holds at a node: a
// leaf carries it when the leaf itself mapped; an internal node carries it
// when every descendant leaf cluster mapped to the same target.
func (a *Aggregator) carriesMapping(node *taxonomy.Node, target string, clusterTargets map[string]map[string]bool) bool {
	if node.Tier == taxonomy.TierCluster {
		return clusterTargets[node.CURIE][target]
	}
	leaves := a.snapshot.DescendantClusters(node.CURIE, 0)
	if len(leaves) == 0 {
		return false
	}
	for _, leaf := range leaves {
		if !clusterTargets[leaf.CURIE][target] {
			return false
		}
	}
	return true
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
