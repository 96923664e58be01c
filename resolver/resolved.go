package resolver

import (
	"fmt"
	"strings"

	"github.com/cellular-semantics/braincellkg/catalog"
	"github.com/cellular-semantics/braincellkg/errors"
	"github.com/cellular-semantics/braincellkg/token"
)

// Strategy identifies which resolution step matched a token. Values are
// ordered by priority: a token resolvable by a lower-valued strategy is never
// reported with a higher one.
type Strategy int

const (
	// StrategyDirect is a verbatim lookup of the token's expected CURIE.
	StrategyDirect Strategy = iota
	// StrategyCaseNormalized retries with the namespace's inconsistent-case
	// counterpart (the ENSEMBL:/ensembl: class of bug).
	StrategyCaseNormalized
	// StrategyClassFallback retries the same identifier against the generic
	// Class family.
	StrategyClassFallback
	// StrategyShortForm retries with the underscore-based short form.
	StrategyShortForm
	// StrategyLabelSearch is a last-resort substring match on entity labels.
	// Disabled by default; it trades precision for recall.
	StrategyLabelSearch
	// StrategyUnmatched marks a token that exhausted every strategy.
	StrategyUnmatched
)

var strategyNames = map[Strategy]string{
	StrategyDirect:         "DIRECT",
	StrategyCaseNormalized: "CASE_NORMALIZED",
	StrategyClassFallback:  "CLASS_FALLBACK",
	StrategyShortForm:      "SHORT_FORM",
	StrategyLabelSearch:    "LABEL_SEARCH",
	StrategyUnmatched:      "UNMATCHED",
}

// String returns the report name of the strategy.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseStrategy returns the strategy named by s. Used when reading a custom
// chain order from configuration. UNMATCHED is not a configurable step.
func ParseStrategy(s string) (Strategy, error) {
	for strategy, name := range strategyNames {
		if strategy == StrategyUnmatched {
			continue
		}
		if strings.EqualFold(s, name) {
			return strategy, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errors.ErrUnknownStrategy, s)
}

// ResolvedToken is the immutable outcome of resolving one token. It is created
// once per resolution pass and appended to the mapping report unchanged.
type ResolvedToken struct {
	// Token is the classified token that was resolved.
	Token token.Token
	// CandidateCURIE is the matched entity's CURIE; empty when unmatched.
	CandidateCURIE string
	// EntityLabel is the matched entity's label, kept for report readability.
	EntityLabel string
	// Strategy records which step of the chain matched.
	Strategy Strategy
	// TargetFamily is the entity family the token was routed to.
	TargetFamily catalog.Family
}

// Matched reports whether the token resolved to an entity.
func (r ResolvedToken) Matched() bool {
	return r.Strategy != StrategyUnmatched
}

// FamilyForKind routes a token kind to its entity family. The second return
// is false for kinds that carry no graph identity (the cluster number and the
// disambiguation suffix).
func FamilyForKind(kind token.Kind) (catalog.Family, bool) {
	switch kind {
	case token.KindGene:
		return catalog.FamilyGene, true
	case token.KindAnatomical:
		return catalog.FamilyMBA, true
	case token.KindCellType, token.KindNeurotransmission:
		return catalog.FamilyCell, true
	default:
		return 0, false
	}
}
