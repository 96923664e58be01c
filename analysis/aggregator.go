package analysis

import (
	"log/slog"
	"strings"

	"github.com/cellular-semantics/braincellkg/resolver"
	"github.com/cellular-semantics/braincellkg/taxonomy"
	"github.com/cellular-semantics/braincellkg/token"
)

// DefaultConsistencyDepth is the documented descendant-walk bound for the
// neurotransmitter-consistency fold.
const DefaultConsistencyDepth = 3

// DefaultComboSeparator splits a neurotransmitter combo label into its
// component symbols.
const DefaultComboSeparator = ":"

// LabelResolution pairs one label's tokenization with its resolution records.
// The pipeline materializes one per cluster label before aggregation.
type LabelResolution struct {
	Tokens   token.Result
	Resolved []resolver.ResolvedToken
}

// Scope restricts which taxonomy nodes a report covers.
type Scope struct {
	// StopTier is the most general tier still included in ancestor walks.
	StopTier taxonomy.Tier
	// ExcludeLabels removes whole branches by label substring, e.g.
	// "Nonneuron" to keep the reports neuron-only.
	ExcludeLabels []string
}

// Includes reports whether a node is inside the scope.
func (s Scope) Includes(node *taxonomy.Node) bool {
	if node.Tier.MoreGeneralThan(s.StopTier) {
		return false
	}
	for _, excl := range s.ExcludeLabels {
		if excl != "" && strings.Contains(node.Label, excl) {
			return false
		}
	}
	return true
}

// Aggregator runs the hierarchy reports over one taxonomy snapshot.
type Aggregator struct {
	snapshot         *taxonomy.Snapshot
	scope            Scope
	comboSeparator   string
	consistencyDepth int
	logger           *slog.Logger
}

// Option is a functional option for Aggregator construction.
type Option func(*Aggregator)

// WithScope sets the report scope.
func WithScope(scope Scope) Option {
	return func(a *Aggregator) {
		a.scope = scope
	}
}

// WithComboSeparator overrides the neurotransmitter combo separator.
func WithComboSeparator(sep string) Option {
	return func(a *Aggregator) {
		if sep != "" {
			a.comboSeparator = sep
		}
	}
}

// WithConsistencyDepth overrides the descendant-walk bound of the consistency
// fold. Values <= 0 leave the default in place.
func WithConsistencyDepth(depth int) Option {
	return func(a *Aggregator) {
		if depth > 0 {
			a.consistencyDepth = depth
		}
	}
}

// WithLogger sets the aggregator's structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// NewAggregator creates an Aggregator over a snapshot. The default scope
// reaches up to the class tier with no label exclusions.
func NewAggregator(snapshot *taxonomy.Snapshot, opts ...Option) *Aggregator {
	a := &Aggregator{
		snapshot:         snapshot,
		scope:            Scope{StopTier: taxonomy.TierClass},
		comboSeparator:   DefaultComboSeparator,
		consistencyDepth: DefaultConsistencyDepth,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
