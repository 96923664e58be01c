package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cellular-semantics/braincellkg/catalog"
	"github.com/cellular-semantics/braincellkg/errors"
	"github.com/cellular-semantics/braincellkg/token"
	"github.com/cellular-semantics/braincellkg/vocabulary"
)

// DefaultStrategyOrder is the documented chain order. The class-fallback vs
// short-form ordering is configurable because upstream behavior differs
// between exports.
var DefaultStrategyOrder = []Strategy{
	StrategyDirect,
	StrategyCaseNormalized,
	StrategyClassFallback,
	StrategyShortForm,
}

// request carries the derived lookup inputs for one token through the chain.
type request struct {
	token  token.Token
	family catalog.Family
	// curie is the expected CURIE derived from the curated vocabularies;
	// empty when the token has no known identifier.
	curie string
}

// step is one resolution capability. A step returns ErrEntityNotFound
// (possibly wrapped) on a miss; any other error is a catalog failure.
type step func(ctx context.Context, lookup catalog.Lookup, req request) (*catalog.Entity, error)

var steps = map[Strategy]step{
	StrategyDirect: func(ctx context.Context, lookup catalog.Lookup, req request) (*catalog.Entity, error) {
		if req.curie == "" {
			return nil, errors.ErrEntityNotFound
		}
		return lookup.LookupByCURIE(ctx, req.family, req.curie)
	},
	StrategyCaseNormalized: func(ctx context.Context, lookup catalog.Lookup, req request) (*catalog.Entity, error) {
		variant, ok := vocabulary.CaseNormalized(req.curie)
		if !ok {
			return nil, errors.ErrEntityNotFound
		}
		return lookup.LookupByCURIE(ctx, req.family, variant)
	},
	StrategyClassFallback: func(ctx context.Context, lookup catalog.Lookup, req request) (*catalog.Entity, error) {
		if req.curie == "" {
			return nil, errors.ErrEntityNotFound
		}
		return lookup.LookupByCURIE(ctx, catalog.FamilyClass, req.curie)
	},
	StrategyShortForm: func(ctx context.Context, lookup catalog.Lookup, req request) (*catalog.Entity, error) {
		if req.curie == "" {
			return nil, errors.ErrEntityNotFound
		}
		return lookup.LookupByShortForm(ctx, req.family, vocabulary.ShortForm(req.curie))
	},
	StrategyLabelSearch: func(ctx context.Context, lookup catalog.Lookup, req request) (*catalog.Entity, error) {
		return lookup.LookupByLabel(ctx, req.family, req.token.Text)
	},
}

// Resolver resolves tokens against the graph catalog. Resolution is
// independent per token and side-effect-free, so one Resolver may be shared
// across worker goroutines.
type Resolver struct {
	lookup catalog.Lookup
	tokens *vocabulary.TokenCatalog
	order  []Strategy
	logger *slog.Logger
}

// Option is a functional option for Resolver construction.
type Option func(*Resolver)

// WithTokenCatalog supplies the curated token table used to derive expected
// CURIEs for cataloged tokens.
func WithTokenCatalog(tc *vocabulary.TokenCatalog) Option {
	return func(r *Resolver) {
		r.tokens = tc
	}
}

// WithStrategyOrder replaces the default chain order. Later entries are only
// tried when every earlier entry misses.
func WithStrategyOrder(order []Strategy) Option {
	return func(r *Resolver) {
		if len(order) > 0 {
			r.order = append([]Strategy(nil), order...)
		}
	}
}

// WithLabelSearch appends the last-resort label substring strategy to the
// chain. Off by default.
func WithLabelSearch() Option {
	return func(r *Resolver) {
		r.order = append(r.order, StrategyLabelSearch)
	}
}

// WithLogger sets the resolver's structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a Resolver over a graph lookup.
func New(lookup catalog.Lookup, opts ...Option) *Resolver {
	r := &Resolver{
		lookup: lookup,
		order:  append([]Strategy(nil), DefaultStrategyOrder...),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps one token to a canonical graph entity. The returned record
// always has the token's target family; an exhausted chain yields
// StrategyUnmatched with no candidate CURIE. A non-nil error means the
// catalog failed and the batch must abort.
func (r *Resolver) Resolve(ctx context.Context, tok token.Token) (ResolvedToken, error) {
	family, ok := FamilyForKind(tok.Kind)
	if !ok {
		return ResolvedToken{}, errors.WrapInvalid(
			fmt.Errorf("token kind %s has no entity family", tok.Kind),
			"Resolver", "Resolve", "route token")
	}

	req := request{token: tok, family: family, curie: r.identifierFor(tok)}

	for _, strategy := range r.order {
		run, ok := steps[strategy]
		if !ok {
			continue
		}
		entity, err := run(ctx, r.lookup, req)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return ResolvedToken{}, errors.WrapFatal(err, "Resolver", "Resolve",
				"lookup "+tok.Text+" via "+strategy.String())
		}
		r.logger.Debug("token resolved",
			"token", tok.Text,
			"strategy", strategy.String(),
			"curie", entity.CURIE,
			"family", family.String())
		return ResolvedToken{
			Token:          tok,
			CandidateCURIE: entity.CURIE,
			EntityLabel:    entity.Label,
			Strategy:       strategy,
			TargetFamily:   family,
		}, nil
	}

	r.logger.Debug("token unmatched", "token", tok.Text, "family", family.String())
	return ResolvedToken{
		Token:        tok,
		Strategy:     StrategyUnmatched,
		TargetFamily: family,
	}, nil
}

// ResolveAll resolves the resolvable tokens of one tokenization result in
// order. Number and suffix tokens carry no graph identity and are skipped.
func (r *Resolver) ResolveAll(ctx context.Context, result token.Result) ([]ResolvedToken, error) {
	var out []ResolvedToken
	for _, tok := range result.Tokens {
		if _, ok := FamilyForKind(tok.Kind); !ok {
			continue
		}
		resolved, err := r.Resolve(ctx, tok)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// identifierFor derives the expected CURIE for a token from the curated
// vocabularies: the token table first, then the neurotransmitter registry.
// Returns "" when neither knows the token.
func (r *Resolver) identifierFor(tok token.Token) string {
	if r.tokens != nil {
		if entry, ok := r.tokens.Lookup(tok.Text); ok && entry.PrimaryIdentifier != "" {
			return entry.PrimaryIdentifier
		}
	}
	if tok.Kind == token.KindNeurotransmission {
		if nt, ok := vocabulary.LookupNeurotransmitter(tok.Text); ok {
			return nt.Identifier
		}
	}
	return ""
}
