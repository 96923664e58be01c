package resolver

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellular-semantics/braincellkg/catalog"
	"github.com/cellular-semantics/braincellkg/errors"
	"github.com/cellular-semantics/braincellkg/token"
	"github.com/cellular-semantics/braincellkg/vocabulary"
)

// fakeLookup is an in-memory catalog keyed by family plus identifier.
type fakeLookup struct {
	byCURIE     map[string]catalog.Entity
	byShortForm map[string]catalog.Entity
	byLabel     map[string]catalog.Entity
	err         error
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		byCURIE:     make(map[string]catalog.Entity),
		byShortForm: make(map[string]catalog.Entity),
		byLabel:     make(map[string]catalog.Entity),
	}
}

func key(family catalog.Family, id string) string {
	return family.String() + "|" + id
}

func (f *fakeLookup) LookupByCURIE(_ context.Context, family catalog.Family, curie string) (*catalog.Entity, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byCURIE[key(family, curie)]; ok {
		return &e, nil
	}
	return nil, errors.ErrEntityNotFound
}

func (f *fakeLookup) LookupByShortForm(_ context.Context, family catalog.Family, shortForm string) (*catalog.Entity, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byShortForm[key(family, shortForm)]; ok {
		return &e, nil
	}
	return nil, errors.ErrEntityNotFound
}

func (f *fakeLookup) LookupByLabel(_ context.Context, family catalog.Family, text string) (*catalog.Entity, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byLabel[key(family, text)]; ok {
		return &e, nil
	}
	return nil, errors.ErrEntityNotFound
}

func geneCatalog(t *testing.T) *vocabulary.TokenCatalog {
	t.Helper()
	tc := vocabulary.NewTokenCatalog()
	tc.Add(vocabulary.CatalogEntry{
		Text: "Lhx8", Kind: vocabulary.CatalogGene,
		PrimaryIdentifier: "ENSEMBL:ENSMUSG00000096225",
	})
	tc.Add(vocabulary.CatalogEntry{
		Text: "Ensembl123", Kind: vocabulary.CatalogGene,
		PrimaryIdentifier: "ENSEMBL:123",
	})
	tc.Add(vocabulary.CatalogEntry{
		Text: "MPO", Kind: vocabulary.CatalogAnatomical,
		PrimaryIdentifier: "MBA:523",
	})
	return tc
}

func geneToken(text string) token.Token {
	return token.Token{Text: text, Kind: token.KindGene, Position: 2, SourceLabel: "test"}
}

func TestResolveDirect(t *testing.T) {
	lookup := newFakeLookup()
	lookup.byCURIE[key(catalog.FamilyGene, "ENSEMBL:ENSMUSG00000096225")] =
		catalog.Entity{CURIE: "ENSEMBL:ENSMUSG00000096225", Label: "Lhx8"}

	r := New(lookup, WithTokenCatalog(geneCatalog(t)))
	resolved, err := r.Resolve(context.Background(), geneToken("Lhx8"))
	require.NoError(t, err)

	assert.Equal(t, StrategyDirect, resolved.Strategy)
	assert.Equal(t, "ENSEMBL:ENSMUSG00000096225", resolved.CandidateCURIE)
	assert.Equal(t, catalog.FamilyGene, resolved.TargetFamily)
	assert.True(t, resolved.Matched())
}

func TestResolveCaseNormalized(t *testing.T) {
	// DIRECT misses on ENSEMBL:123 but the graph holds the lowercase
	// counterpart minted by the inconsistent export.
	lookup := newFakeLookup()
	lookup.byCURIE[key(catalog.FamilyGene, "ensembl:123")] =
		catalog.Entity{CURIE: "ensembl:123", Label: "Ensembl123"}

	r := New(lookup, WithTokenCatalog(geneCatalog(t)))
	resolved, err := r.Resolve(context.Background(), geneToken("Ensembl123"))
	require.NoError(t, err)

	assert.Equal(t, StrategyCaseNormalized, resolved.Strategy)
	assert.Equal(t, "ensembl:123", resolved.CandidateCURIE)
}

func TestResolveClassFallback(t *testing.T) {
	lookup := newFakeLookup()
	lookup.byCURIE[key(catalog.FamilyClass, "MBA:523")] =
		catalog.Entity{CURIE: "MBA:523", Label: "Medial preoptic nucleus"}

	r := New(lookup, WithTokenCatalog(geneCatalog(t)))
	tok := token.Token{Text: "MPO", Kind: token.KindAnatomical, Position: 1, SourceLabel: "test"}
	resolved, err := r.Resolve(context.Background(), tok)
	require.NoError(t, err)

	assert.Equal(t, StrategyClassFallback, resolved.Strategy)
	assert.Equal(t, catalog.FamilyMBA, resolved.TargetFamily,
		"target family records the kind routing, not the fallback family")
}

func TestResolveShortForm(t *testing.T) {
	lookup := newFakeLookup()
	lookup.byShortForm[key(catalog.FamilyMBA, "MBA_523")] =
		catalog.Entity{CURIE: "MBA:523", Label: "Medial preoptic nucleus"}

	r := New(lookup, WithTokenCatalog(geneCatalog(t)))
	tok := token.Token{Text: "MPO", Kind: token.KindAnatomical, Position: 1, SourceLabel: "test"}
	resolved, err := r.Resolve(context.Background(), tok)
	require.NoError(t, err)

	assert.Equal(t, StrategyShortForm, resolved.Strategy)
}

func TestResolveUnmatched(t *testing.T) {
	r := New(newFakeLookup(), WithTokenCatalog(geneCatalog(t)))
	resolved, err := r.Resolve(context.Background(), geneToken("Lhx8"))
	require.NoError(t, err, "an unmatched token is a report outcome, not an error")

	assert.Equal(t, StrategyUnmatched, resolved.Strategy)
	assert.Empty(t, resolved.CandidateCURIE)
	assert.False(t, resolved.Matched())
}

func TestResolveStrategyMonotonicity(t *testing.T) {
	// An entity reachable by DIRECT and SHORT_FORM must report DIRECT.
	lookup := newFakeLookup()
	lookup.byCURIE[key(catalog.FamilyGene, "ENSEMBL:ENSMUSG00000096225")] =
		catalog.Entity{CURIE: "ENSEMBL:ENSMUSG00000096225", Label: "Lhx8"}
	lookup.byShortForm[key(catalog.FamilyGene, "ENSEMBL_ENSMUSG00000096225")] =
		catalog.Entity{CURIE: "ENSEMBL:ENSMUSG00000096225", Label: "Lhx8"}

	r := New(lookup, WithTokenCatalog(geneCatalog(t)))
	resolved, err := r.Resolve(context.Background(), geneToken("Lhx8"))
	require.NoError(t, err)
	assert.Equal(t, StrategyDirect, resolved.Strategy)
}

func TestResolveDeterminism(t *testing.T) {
	lookup := newFakeLookup()
	lookup.byCURIE[key(catalog.FamilyCell, "CL:0000617")] =
		catalog.Entity{CURIE: "CL:0000617", Label: "GABAergic neuron"}

	r := New(lookup)
	tok := token.Token{Text: "Gaba", Kind: token.KindNeurotransmission, Position: 3, SourceLabel: "test"}

	first, err := r.Resolve(context.Background(), tok)
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveNeurotransmitterIdentifier(t *testing.T) {
	// Neurotransmitter tokens derive their CURIE from the closed vocabulary
	// without needing a token-table entry.
	lookup := newFakeLookup()
	lookup.byCURIE[key(catalog.FamilyCell, "CL:0000679")] =
		catalog.Entity{CURIE: "CL:0000679", Label: "glutamatergic neuron"}

	r := New(lookup)
	tok := token.Token{Text: "Glut", Kind: token.KindNeurotransmission, Position: 2, SourceLabel: "test"}
	resolved, err := r.Resolve(context.Background(), tok)
	require.NoError(t, err)

	assert.Equal(t, StrategyDirect, resolved.Strategy)
	assert.Equal(t, "CL:0000679", resolved.CandidateCURIE)
}

func TestResolveCustomOrder(t *testing.T) {
	// With SHORT_FORM moved ahead of CLASS_FALLBACK, a token reachable by
	// both resolves via SHORT_FORM.
	lookup := newFakeLookup()
	lookup.byCURIE[key(catalog.FamilyClass, "MBA:523")] =
		catalog.Entity{CURIE: "MBA:523", Label: "Medial preoptic nucleus"}
	lookup.byShortForm[key(catalog.FamilyMBA, "MBA_523")] =
		catalog.Entity{CURIE: "MBA:523", Label: "Medial preoptic nucleus"}

	r := New(lookup,
		WithTokenCatalog(geneCatalog(t)),
		WithStrategyOrder([]Strategy{
			StrategyDirect, StrategyCaseNormalized, StrategyShortForm, StrategyClassFallback,
		}))
	tok := token.Token{Text: "MPO", Kind: token.KindAnatomical, Position: 1, SourceLabel: "test"}
	resolved, err := r.Resolve(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, StrategyShortForm, resolved.Strategy)
}

func TestResolveLabelSearchOptIn(t *testing.T) {
	lookup := newFakeLookup()
	lookup.byLabel[key(catalog.FamilyCell, "PLI")] =
		catalog.Entity{CURIE: "CL:0009073", Label: "PLI interneuron"}
	tok := token.Token{Text: "PLI", Kind: token.KindCellType, Position: 2, SourceLabel: "test"}

	r := New(lookup)
	resolved, err := r.Resolve(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, StrategyUnmatched, resolved.Strategy, "label search is off by default")

	r = New(lookup, WithLabelSearch())
	resolved, err = r.Resolve(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, StrategyLabelSearch, resolved.Strategy)
}

func TestResolveCatalogFailureIsFatal(t *testing.T) {
	lookup := newFakeLookup()
	lookup.err = stderrors.New("connection refused")

	r := New(lookup, WithTokenCatalog(geneCatalog(t)))
	_, err := r.Resolve(context.Background(), geneToken("Lhx8"))
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err), "catalog failure must abort the batch")
}

func TestResolveAllSkipsStructuralTokens(t *testing.T) {
	lookup := newFakeLookup()
	r := New(lookup)

	result := token.Result{
		Label: "458 MPO Gaba_1",
		Tokens: []token.Token{
			{Text: "458", Kind: token.KindNumber, Position: 0},
			{Text: "MPO", Kind: token.KindAnatomical, Position: 1},
			{Text: "Gaba", Kind: token.KindNeurotransmission, Position: 2},
			{Text: "_1", Kind: token.KindSuffix, Position: 3},
		},
	}

	resolved, err := r.ResolveAll(context.Background(), result)
	require.NoError(t, err)
	require.Len(t, resolved, 2, "number and suffix tokens carry no graph identity")
	assert.Equal(t, "MPO", resolved[0].Token.Text)
	assert.Equal(t, "Gaba", resolved[1].Token.Text)
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input    string
		expected Strategy
		wantErr  bool
	}{
		{"DIRECT", StrategyDirect, false},
		{"case_normalized", StrategyCaseNormalized, false},
		{"CLASS_FALLBACK", StrategyClassFallback, false},
		{"SHORT_FORM", StrategyShortForm, false},
		{"LABEL_SEARCH", StrategyLabelSearch, false},
		{"UNMATCHED", 0, true},
		{"FUZZY", 0, true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			strategy, err := ParseStrategy(test.input)
			if test.wantErr {
				require.Error(t, err)
				assert.True(t, stderrors.Is(err, errors.ErrUnknownStrategy))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, strategy)
		})
	}
}
