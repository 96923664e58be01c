package token

import (
	"regexp"

	"github.com/cellular-semantics/braincellkg/vocabulary"
)

// Context carries the surrounding state available to a word classifier.
type Context struct {
	// Position is the separator-delimited unit index of the word.
	Position int
	// Label is the full source label.
	Label string
}

// Classifier decides the kind of a single word. Implementations must be
// deterministic and side-effect-free; the scanner calls them once per word.
//
// The default implementation is a local per-word heuristic with a documented
// error rate of roughly 5% on gene-vs-cell-type boundaries. A corpus-informed
// classifier can be substituted without changing the scanning loop.
type Classifier interface {
	Classify(word string, ctx Context) Kind
}

// geneShape matches the common marker-gene symbol shape: a capital letter,
// lowercase letters or digits, at least one digit, and an optional -<digits>
// tail (Lhx8, Nkx2-1, Ensembl123). All-caps acronyms do not match.
var geneShape = regexp.MustCompile(`^[A-Z][a-z0-9]*[0-9][a-z0-9]*(-[0-9]+)?$`)

// HeuristicClassifier classifies words by curated-catalog membership first,
// then the closed neurotransmitter vocabulary, then the gene-symbol shape,
// defaulting to cell type. Vocabulary membership outranks the gene heuristic
// because the vocabulary is a closed, curated list - smaller and higher
// precision than the open-ended shape match.
type HeuristicClassifier struct {
	// Catalog is the curated token table. Optional; when nil only the
	// vocabulary and shape heuristics apply.
	Catalog *vocabulary.TokenCatalog
}

// Classify implements Classifier.
func (hc *HeuristicClassifier) Classify(word string, _ Context) Kind {
	if hc.Catalog != nil {
		if entry, ok := hc.Catalog.Lookup(word); ok {
			return catalogKind(entry.Kind)
		}
	}

	if vocabulary.IsNeurotransmitter(word) {
		return KindNeurotransmission
	}

	if geneShape.MatchString(word) {
		return KindGene
	}

	return KindCellType
}

// IsGeneWithHyphen reports whether a hyphenated word is a single gene symbol
// (e.g. Nkx2-1) rather than an anatomical compound, consulting the catalog
// before falling back to the shape heuristic.
func (hc *HeuristicClassifier) IsGeneWithHyphen(word string) bool {
	if hc.Catalog != nil {
		if entry, ok := hc.Catalog.Lookup(word); ok {
			return entry.Kind == vocabulary.CatalogGene
		}
	}
	return geneShape.MatchString(word)
}

func catalogKind(kind vocabulary.CatalogKind) Kind {
	switch kind {
	case vocabulary.CatalogAnatomical:
		return KindAnatomical
	case vocabulary.CatalogGene:
		return KindGene
	case vocabulary.CatalogNeurotransmitter:
		return KindNeurotransmission
	default:
		return KindCellType
	}
}
