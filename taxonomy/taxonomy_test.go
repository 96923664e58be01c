package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellular-semantics/braincellkg/catalog"
)

func row(curie, label, tier string, parents []string, ntCombo string) catalog.NodeRow {
	return catalog.NodeRow{
		CURIE:   curie,
		Label:   label,
		Tiers:   []string{"Cell_cluster", "WMB", tier},
		Parents: parents,
		NTCombo: ntCombo,
		ExemplarCell: catalog.Entity{
			CURIE: curie + ":cell",
			Label: label + " exemplar",
		},
	}
}

// fixture builds a small two-branch taxonomy:
//
//	class C1
//	├── subclass S1
//	│   ├── supertype T1 ── clusters L1, L2
//	│   └── supertype T2 ── clusters L3, L4
//	└── subclass S2
//	    └── supertype T3 ── cluster L4 (multi-parent)
func fixture(t *testing.T) *Snapshot {
	t.Helper()
	rows := []catalog.NodeRow{
		row("WMB:C1", "01 Pallium Glut", "class", nil, ""),
		row("WMB:S1", "012 MPO Gaba", "subclass", []string{"WMB:C1"}, ""),
		row("WMB:S2", "013 LSX Gaba", "subclass", []string{"WMB:C1"}, ""),
		row("WMB:T1", "0121 MPO Lhx8 Gaba", "supertype", []string{"WMB:S1"}, ""),
		row("WMB:T2", "0122 ADP Gaba", "supertype", []string{"WMB:S1"}, ""),
		row("WMB:T3", "0131 LSX Otx2 Gaba", "supertype", []string{"WMB:S2"}, ""),
		row("WMB:L1", "458 MPO-ADP Lhx8 Gaba_1", "cluster", []string{"WMB:T1"}, "Gaba"),
		row("WMB:L2", "459 MPO-ADP Lhx8 Gaba_2", "cluster", []string{"WMB:T1"}, "Gaba"),
		row("WMB:L3", "460 ADP Gaba_1", "cluster", []string{"WMB:T2"}, "Gaba"),
		row("WMB:L4", "461 LSX Otx2 Gaba_1", "cluster", []string{"WMB:T2", "WMB:T3"}, "Gaba:Glut"),
	}
	snapshot, err := NewSnapshot("WMB", rows)
	require.NoError(t, err)
	return snapshot
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		input    string
		expected Tier
		wantErr  bool
	}{
		{"class", TierClass, false},
		{"subclass", TierSubclass, false},
		{"supertype", TierSupertype, false},
		{"cluster", TierCluster, false},
		{"neighborhood", TierNeighborhood, false},
		{"Cluster", TierCluster, false},
		{"Cell_cluster", 0, true},
		{"WMB", 0, true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			tier, err := ParseTier(test.input)
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, tier)
		})
	}
}

func TestTierOrdering(t *testing.T) {
	assert.True(t, TierClass.MoreGeneralThan(TierSubclass))
	assert.True(t, TierSubclass.MoreGeneralThan(TierSupertype))
	assert.True(t, TierSupertype.MoreGeneralThan(TierCluster))
	assert.True(t, TierNeighborhood.MoreGeneralThan(TierClass))
	assert.False(t, TierCluster.MoreGeneralThan(TierClass))
}

func TestNewSnapshotEmpty(t *testing.T) {
	_, err := NewSnapshot("WMB", nil)
	require.Error(t, err)
}

func TestNewSnapshotRejectsMissingTier(t *testing.T) {
	rows := []catalog.NodeRow{
		{CURIE: "WMB:X", Label: "x", Tiers: []string{"Cell_cluster", "WMB"}},
	}
	_, err := NewSnapshot("WMB", rows)
	require.Error(t, err)
}

func TestSnapshotAdjacency(t *testing.T) {
	s := fixture(t)

	assert.Equal(t, 10, s.Len())

	node, ok := s.Node("WMB:L4")
	require.True(t, ok)
	assert.Equal(t, TierCluster, node.Tier)
	assert.Equal(t, "Gaba:Glut", node.NTCombo)

	parents := s.Parents("WMB:L4")
	require.Len(t, parents, 2, "multi-parent node keeps both subcluster_of edges")

	children := s.Children("WMB:T1")
	require.Len(t, children, 2)
	assert.Equal(t, "WMB:L1", children[0].CURIE)
	assert.Equal(t, "WMB:L2", children[1].CURIE)

	clusters := s.Clusters()
	require.Len(t, clusters, 4)
	assert.Equal(t, "458 MPO-ADP Lhx8 Gaba_1", clusters[0].Label, "clusters ordered by label")
}

func TestAncestorPathsMultiParent(t *testing.T) {
	s := fixture(t)

	paths := s.AncestorPaths("WMB:L4", 0)
	require.Len(t, paths, 2, "one path per parent branch")

	tops := map[string]bool{}
	for _, path := range paths {
		assert.Equal(t, "WMB:L4", path.Leaf().CURIE)
		tops[path.Top().CURIE] = true
		assert.Equal(t, "WMB:C1", path.Top().CURIE, "both branches end at the class root")
	}
	require.Len(t, tops, 1)
}

func TestAncestorPathsDepthBound(t *testing.T) {
	s := fixture(t)

	paths := s.AncestorPaths("WMB:L1", 1)
	require.Len(t, paths, 1)
	require.Len(t, paths[0], 2, "depth 1 stops after one hop")
	assert.Equal(t, "WMB:T1", paths[0].Top().CURIE)
}

func TestAncestorPathsCycleGuard(t *testing.T) {
	rows := []catalog.NodeRow{
		row("WMB:A", "a", "cluster", []string{"WMB:B"}, ""),
		row("WMB:B", "b", "supertype", []string{"WMB:A"}, ""),
	}
	s, err := NewSnapshot("WMB", rows)
	require.NoError(t, err)

	paths := s.AncestorPaths("WMB:A", 0)
	require.NotEmpty(t, paths, "cyclic parent edges must still terminate")
	for _, path := range paths {
		assert.LessOrEqual(t, len(path), 2)
	}
}

func TestAncestorsAtTier(t *testing.T) {
	s := fixture(t)

	subclasses := s.AncestorsAtTier("WMB:L4", TierSubclass, 0)
	require.Len(t, subclasses, 2, "multi-parent leaf reaches both subclasses")
	assert.Equal(t, "WMB:S1", subclasses[0].CURIE)
	assert.Equal(t, "WMB:S2", subclasses[1].CURIE)

	classes := s.AncestorsAtTier("WMB:L1", TierClass, 0)
	require.Len(t, classes, 1)
	assert.Equal(t, "WMB:C1", classes[0].CURIE)

	// Depth 1 from a cluster cannot reach the class tier.
	assert.Empty(t, s.AncestorsAtTier("WMB:L1", TierClass, 1))
}

func TestDescendantsWithDepth(t *testing.T) {
	s := fixture(t)

	depths := s.DescendantsWithDepth("WMB:C1", 0)
	assert.Equal(t, 0, depths["WMB:C1"])
	assert.Equal(t, 1, depths["WMB:S1"])
	assert.Equal(t, 2, depths["WMB:T2"])
	assert.Equal(t, 3, depths["WMB:L4"])

	bounded := s.DescendantsWithDepth("WMB:C1", 2)
	_, reached := bounded["WMB:L1"]
	assert.False(t, reached, "depth bound excludes deeper nodes")
}

func TestDescendantClusters(t *testing.T) {
	s := fixture(t)

	clusters := s.DescendantClusters("WMB:S1", 3)
	require.Len(t, clusters, 4)

	clusters = s.DescendantClusters("WMB:S2", 3)
	require.Len(t, clusters, 1)
	assert.Equal(t, "WMB:L4", clusters[0].CURIE)

	// A cluster has no cluster descendants.
	assert.Empty(t, s.DescendantClusters("WMB:L1", 3))
}

func TestBranchPathKey(t *testing.T) {
	s := fixture(t)

	paths := s.AncestorPaths("WMB:L1", 0)
	require.Len(t, paths, 1)
	assert.Equal(t, "01 Pallium Glut / 012 MPO Gaba / 0121 MPO Lhx8 Gaba / 458 MPO-ADP Lhx8 Gaba_1",
		paths[0].Key())
}
