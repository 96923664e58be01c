package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cellular-semantics/braincellkg/analysis"
	"github.com/cellular-semantics/braincellkg/token"
)

// TokenMapping renders the token-mapping table: one row per resolved token in
// label order.
func TokenMapping(resolutions []analysis.LabelResolution) Table {
	t := Table{
		Name:        "token_mapping",
		Description: "Every resolvable token with its resolution outcome.",
		Header: []string{
			"source_label", "token_text", "token_kind",
			"candidate_curie", "entity_label", "strategy", "target_family",
		},
	}
	for _, res := range resolutions {
		for _, resolved := range res.Resolved {
			t.Rows = append(t.Rows, []string{
				resolved.Token.SourceLabel,
				resolved.Token.Text,
				resolved.Token.Kind.String(),
				resolved.CandidateCURIE,
				resolved.EntityLabel,
				resolved.Strategy.String(),
				resolved.TargetFamily.String(),
			})
		}
	}
	return t
}

// MostGeneralTerms renders the most-general-term table.
func MostGeneralTerms(rows []analysis.GeneralityRow) Table {
	t := Table{
		Name:        "most_general_terms",
		Description: "Per mapped entity and branch, the most general node the mapping generalizes to.",
		Header: []string{
			"mapping_id", "target_curie", "target_label",
			"branch_leaf", "general_node", "general_tier", "general_exemplar_cell",
			"specific_node", "specific_exemplar_cell", "has_mapping", "branch_path",
		},
	}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{
			row.MappingID,
			row.TargetCURIE,
			row.TargetLabel,
			row.BranchLeafLabel,
			row.GeneralLabel,
			row.GeneralTier.String(),
			row.GeneralExemplar.CURIE,
			row.SpecificLabel,
			row.SpecificExemplar.CURIE,
			strconv.FormatBool(row.HasMapping),
			row.BranchKey,
		})
	}
	return t
}

// NeurotransmitterConsistency renders the consistency table. Combo counts are
// serialized "combo=count" in distinct-combo order.
func NeurotransmitterConsistency(rows []analysis.ConsistencyRow) Table {
	t := Table{
		Name:        "nt_consistency",
		Description: "Per internal node, whether every descendant cluster shares one neurotransmitter set.",
		Header: []string{
			"node_curie", "node_label", "tier", "is_consistent",
			"distinct_combos", "combo_counts", "shared_components", "leaf_count",
		},
	}
	for _, row := range rows {
		counts := make([]string, 0, len(row.DistinctCombos))
		for _, combo := range row.DistinctCombos {
			counts = append(counts, fmt.Sprintf("%s=%d", combo, row.ComboCounts[combo]))
		}
		t.Rows = append(t.Rows, []string{
			row.NodeCURIE,
			row.NodeLabel,
			row.Tier.String(),
			strconv.FormatBool(row.IsConsistent),
			strings.Join(row.DistinctCombos, "; "),
			strings.Join(counts, "; "),
			strings.Join(row.SharedComponents, "; "),
			strconv.Itoa(row.LeafCount),
		})
	}
	return t
}

// ClusterComposition renders the per-cluster composition table.
func ClusterComposition(rows []analysis.CompositionRow) Table {
	t := Table{
		Name:        "cluster_composition",
		Description: "Per cluster label, its token mix and match percentage.",
		Header: []string{
			"label", "token_total", "kind_counts",
			"resolvable", "matched", "match_percent", "flagged",
		},
	}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{
			row.Label,
			strconv.Itoa(row.TokenTotal),
			formatKindCounts(row.KindCounts),
			strconv.Itoa(row.Resolvable),
			strconv.Itoa(row.Matched),
			formatPercent(row.MatchPercent),
			strconv.FormatBool(row.Flagged),
		})
	}
	return t
}

// TokenUsage renders the distinct-token usage table.
func TokenUsage(rows []analysis.UsageRow) Table {
	t := Table{
		Name:        "token_usage",
		Description: "Per distinct token, usage counts and resolution outcome.",
		Header: []string{
			"token", "kind", "usage_count", "cluster_count", "strategy", "candidate_curie",
		},
	}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{
			row.Text,
			row.Kind.String(),
			strconv.Itoa(row.UsageCount),
			strconv.Itoa(row.ClusterCount),
			row.Strategy.String(),
			row.CandidateCURIE,
		})
	}
	return t
}

// ProblemTokens renders the manual-curation queue.
func ProblemTokens(rows []analysis.ProblemRow) Table {
	t := Table{
		Name:        "problem_tokens",
		Description: "Unmatched tokens with usage counts and example labels.",
		Header:      []string{"token", "kind", "usage_count", "example_labels"},
	}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{
			row.Text,
			row.Kind.String(),
			strconv.Itoa(row.UsageCount),
			strings.Join(row.ExampleLabels, "; "),
		})
	}
	return t
}

// MatchingSummary renders the per-kind matching summary.
func MatchingSummary(rows []analysis.SummaryRow) Table {
	t := Table{
		Name:        "matching_summary",
		Description: "Per token kind, totals and match percentage.",
		Header:      []string{"kind", "total", "matched", "match_percent"},
	}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{
			row.Kind.String(),
			strconv.Itoa(row.Total),
			strconv.Itoa(row.Matched),
			formatPercent(row.MatchPercent),
		})
	}
	return t
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}

func formatKindCounts(counts map[token.Kind]int) string {
	kinds := make([]token.Kind, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", kind, counts[kind]))
	}
	return strings.Join(parts, "; ")
}
