package analysis

import (
	"sort"

	"github.com/cellular-semantics/braincellkg/resolver"
	"github.com/cellular-semantics/braincellkg/token"
)

// CompositionRow summarizes one cluster label: its token mix and how much of
// it resolved.
type CompositionRow struct {
	Label        string
	TokenTotal   int
	KindCounts   map[token.Kind]int
	Resolvable   int
	Matched      int
	MatchPercent float64
	// Flagged carries the tokenizer's structural-violation flag through to
	// the report.
	Flagged bool
}

// UsageRow summarizes one distinct token across the whole batch.
type UsageRow struct {
	Text string
	Kind token.Kind
	// UsageCount is the number of occurrences across all labels.
	UsageCount int
	// ClusterCount is the number of distinct labels the token appears in.
	ClusterCount   int
	Strategy       resolver.Strategy
	CandidateCURIE string
}

// ProblemRow is one unmatched or flagged token, with example labels for
// manual curation.
type ProblemRow struct {
	Text          string
	Kind          token.Kind
	UsageCount    int
	ExampleLabels []string
}

// SummaryRow is one line of the per-kind matching summary.
type SummaryRow struct {
	Kind         token.Kind
	Total        int
	Matched      int
	MatchPercent float64
}

// maxProblemExamples bounds the example labels kept per problem token.
const maxProblemExamples = 3

// ClusterComposition produces one row per label, in input order.
func ClusterComposition(resolutions []LabelResolution) []CompositionRow {
	rows := make([]CompositionRow, 0, len(resolutions))
	for _, res := range resolutions {
		row := CompositionRow{
			Label:      res.Tokens.Label,
			TokenTotal: len(res.Tokens.Tokens),
			KindCounts: make(map[token.Kind]int),
			Flagged:    res.Tokens.Flagged,
		}
		for _, tok := range res.Tokens.Tokens {
			row.KindCounts[tok.Kind]++
		}
		for _, resolved := range res.Resolved {
			row.Resolvable++
			if resolved.Matched() {
				row.Matched++
			}
		}
		row.MatchPercent = percent(row.Matched, row.Resolvable)
		rows = append(rows, row)
	}
	return rows
}

// TokenUsage produces one row per distinct resolvable token, ordered by usage
// count descending then text.
func TokenUsage(resolutions []LabelResolution) []UsageRow {
	type usage struct {
		row    UsageRow
		labels map[string]bool
	}
	byText := make(map[string]*usage)

	for _, res := range resolutions {
		for _, resolved := range res.Resolved {
			u, ok := byText[resolved.Token.Text]
			if !ok {
				u = &usage{
					row: UsageRow{
						Text:           resolved.Token.Text,
						Kind:           resolved.Token.Kind,
						Strategy:       resolved.Strategy,
						CandidateCURIE: resolved.CandidateCURIE,
					},
					labels: make(map[string]bool),
				}
				byText[resolved.Token.Text] = u
			}
			u.row.UsageCount++
			u.labels[res.Tokens.Label] = true
		}
	}

	rows := make([]UsageRow, 0, len(byText))
	for _, u := range byText {
		u.row.ClusterCount = len(u.labels)
		rows = append(rows, u.row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].UsageCount != rows[j].UsageCount {
			return rows[i].UsageCount > rows[j].UsageCount
		}
		return rows[i].Text < rows[j].Text
	})
	return rows
}

// ProblemTokens lists the unmatched tokens with usage counts and example
// labels, ordered by usage count descending then text. These rows are the
// manual-curation queue.
func ProblemTokens(resolutions []LabelResolution) []ProblemRow {
	byText := make(map[string]*ProblemRow)

	for _, res := range resolutions {
		for _, resolved := range res.Resolved {
			if resolved.Matched() {
				continue
			}
			row, ok := byText[resolved.Token.Text]
			if !ok {
				row = &ProblemRow{Text: resolved.Token.Text, Kind: resolved.Token.Kind}
				byText[resolved.Token.Text] = row
			}
			row.UsageCount++
			if len(row.ExampleLabels) < maxProblemExamples && !containsLabel(row.ExampleLabels, res.Tokens.Label) {
				row.ExampleLabels = append(row.ExampleLabels, res.Tokens.Label)
			}
		}
	}

	rows := make([]ProblemRow, 0, len(byText))
	for _, row := range byText {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].UsageCount != rows[j].UsageCount {
			return rows[i].UsageCount > rows[j].UsageCount
		}
		return rows[i].Text < rows[j].Text
	})
	return rows
}

// MatchingSummary produces per-kind totals over the resolvable kinds, in kind
// order.
func MatchingSummary(resolutions []LabelResolution) []SummaryRow {
	totals := make(map[token.Kind]*SummaryRow)

	for _, res := range resolutions {
		for _, resolved := range res.Resolved {
			row, ok := totals[resolved.Token.Kind]
			if !ok {
				row = &SummaryRow{Kind: resolved.Token.Kind}
				totals[resolved.Token.Kind] = row
			}
			row.Total++
			if resolved.Matched() {
				row.Matched++
			}
		}
	}

	rows := make([]SummaryRow, 0, len(totals))
	for _, row := range totals {
		row.MatchPercent = percent(row.Matched, row.Total)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Kind < rows[j].Kind })
	return rows
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
