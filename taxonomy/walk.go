package taxonomy

import (
	"sort"
	"strings"
)

// BranchPath is an ordered sequence of nodes from a specific leaf up through
// subcluster_of edges to an ancestor, most specific first. Paths are
// recomputed per query, never persisted.
type BranchPath []*Node

// Leaf returns the most specific node of the path.
func (p BranchPath) Leaf() *Node {
	if len(p) == 0 {
		return nil
	}
	return p[0]
}

// Top returns the most general node of the path.
func (p BranchPath) Top() *Node {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// Key returns the path's labels joined most-general-first, used as a stable
// secondary sort key for report rows.
func (p BranchPath) Key() string {
	labels := make([]string, 0, len(p))
	for i := len(p) - 1; i >= 0; i-- {
		labels = append(labels, p[i].Label)
	}
	return strings.Join(labels, " / ")
}

// depthCap resolves the effective depth bound. maxDepth <= 0 means unbounded,
// which is still capped at the node count so an upstream edge cycle cannot
// cause non-termination.
func (s *Snapshot) depthCap(maxDepth int) int {
	if maxDepth <= 0 || maxDepth > len(s.nodes) {
		return len(s.nodes)
	}
	return maxDepth
}

// AncestorPaths enumerates every upward path from a leaf, bounded by
// maxDepth hops (<= 0 for unbounded). Each branch of the DAG yields its own
// path: a node with multiple parents contributes one path per parent.
// Paths end at a root or at the depth bound. Results are ordered by path key
// for reproducibility.
func (s *Snapshot) AncestorPaths(leaf string, maxDepth int) []BranchPath {
	start, ok := s.nodes[leaf]
	if !ok {
		return nil
	}

	limit := s.depthCap(maxDepth)
	var paths []BranchPath

	var walk func(path BranchPath)
	walk = func(path BranchPath) {
		current := path[len(path)-1]
		if len(path)-1 >= limit || len(current.Parents) == 0 {
			paths = append(paths, append(BranchPath(nil), path...))
			return
		}
		for _, parent := range s.Parents(current.CURIE) {
			if pathContains(path, parent.CURIE) {
				// Edge cycle in upstream data; stop this branch.
				paths = append(paths, append(BranchPath(nil), path...))
				continue
			}
			walk(append(path, parent))
		}
	}
	walk(BranchPath{start})

	sort.Slice(paths, func(i, j int) bool { return paths[i].Key() < paths[j].Key() })
	return paths
}

// AncestorsAtTier returns the ancestors of a leaf at one generality tier,
// bounded by maxDepth hops, ordered by CURIE. The walk is branch-relative:
// every parent edge is followed independently.
func (s *Snapshot) AncestorsAtTier(leaf string, tier Tier, maxDepth int) []*Node {
	seen := make(map[string]bool)
	var out []*Node
	for _, path := range s.AncestorPaths(leaf, maxDepth) {
		for _, node := range path[1:] {
			if node.Tier == tier && !seen[node.CURIE] {
				seen[node.CURIE] = true
				out = append(out, node)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CURIE < out[j].CURIE })
	return out
}

// DescendantsWithDepth walks subcluster_of edges downward from a root and
// returns every reachable node's shortest distance in hops, bounded by
// maxDepth (<= 0 for unbounded). The root itself is included at depth 0.
func (s *Snapshot) DescendantsWithDepth(root string, maxDepth int) map[string]int {
	if _, ok := s.nodes[root]; !ok {
		return nil
	}

	limit := s.depthCap(maxDepth)
	depths := map[string]int{root: 0}
	frontier := []string{root}

	for depth := 1; depth <= limit && len(frontier) > 0; depth++ {
		var next []string
		for _, curie := range frontier {
			for _, child := range s.children[curie] {
				if _, seen := depths[child]; seen {
					continue
				}
				depths[child] = depth
				next = append(next, child)
			}
		}
		frontier = next
	}
	return depths
}

// DescendantClusters returns the leaf-tier descendants of a node within
// maxDepth hops, ordered by CURIE.
func (s *Snapshot) DescendantClusters(root string, maxDepth int) []*Node {
	depths := s.DescendantsWithDepth(root, maxDepth)
	var out []*Node
	for curie, depth := range depths {
		if depth == 0 {
			continue
		}
		if node, ok := s.nodes[curie]; ok && node.Tier == TierCluster {
			out = append(out, node)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CURIE < out[j].CURIE })
	return out
}

func pathContains(path BranchPath, curie string) bool {
	for _, node := range path {
		if node.CURIE == curie {
			return true
		}
	}
	return false
}
