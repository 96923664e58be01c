package token

// Kind classifies a token produced by the label scanner.
type Kind int

const (
	// KindNumber is the leading cluster number.
	KindNumber Kind = iota
	// KindAnatomical is a brain-structure acronym from the leading
	// hyphen-joined anatomical run.
	KindAnatomical
	// KindCellType is a cell-type word; also the classifier's fallback for
	// unrecognized capitalized words.
	KindCellType
	// KindGene is a marker-gene symbol.
	KindGene
	// KindNeurotransmission is a neurotransmitter vocabulary symbol.
	KindNeurotransmission
	// KindSuffix is the trailing _<integer> disambiguation suffix.
	KindSuffix
)

// String returns the report name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindAnatomical:
		return "anatomical"
	case KindCellType:
		return "cell type"
	case KindGene:
		return "gene"
	case KindNeurotransmission:
		return "neurotransmission"
	case KindSuffix:
		return "suffix"
	default:
		return "unknown"
	}
}

// Token is one classified span of a cell-cluster label. Tokens are derived,
// not persisted; their lifetime is bound to one tokenization pass.
type Token struct {
	// Text is the token span exactly as it appears in the label.
	Text string
	// Kind is the token classification.
	Kind Kind
	// Position is the index of the separator-delimited unit the token came
	// from, with the leading number at position 0. Components expanded from
	// one neurotransmitter compound share the compound's position.
	Position int
	// SourceLabel is the raw label the token was scanned from.
	SourceLabel string
}

// Result is the outcome of one tokenization pass.
type Result struct {
	// Label is the raw input label.
	Label string
	// Tokens is the ordered token sequence. Never empty for non-empty input.
	Tokens []Token
	// Flagged marks a structural violation of the label grammar (a missing
	// leading cluster number). Flagged labels are still tokenized; the flag
	// routes them to the problem report for manual review.
	Flagged bool
}

// OfKind returns the tokens of one kind, preserving order.
func (r Result) OfKind(kind Kind) []Token {
	var out []Token
	for _, tok := range r.Tokens {
		if tok.Kind == kind {
			out = append(out, tok)
		}
	}
	return out
}
