package token

import (
	"regexp"
	"strings"

	"github.com/cellular-semantics/braincellkg/vocabulary"
)

var (
	leadingNumber   = regexp.MustCompile(`^(\d+)(\s+|$)`)
	trailingSuffix  = regexp.MustCompile(`_(\d+)$`)
	anatomicalGroup = regexp.MustCompile(`^[A-Z][A-Za-z]*$`)
)

// Tokenizer scans cell-cluster labels into classified tokens. The zero-cost
// construction path is New(); tokenization is total and never fails.
type Tokenizer struct {
	classifier Classifier
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithClassifier replaces the default per-word heuristic classifier.
func WithClassifier(c Classifier) Option {
	return func(t *Tokenizer) {
		t.classifier = c
	}
}

// WithCatalog installs a heuristic classifier backed by the curated token
// catalog.
func WithCatalog(catalog *vocabulary.TokenCatalog) Option {
	return func(t *Tokenizer) {
		t.classifier = &HeuristicClassifier{Catalog: catalog}
	}
}

// New creates a Tokenizer. Without options it uses the catalog-less heuristic
// classifier.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{classifier: &HeuristicClassifier{}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize splits a label into an ordered token sequence. The scan is a
// single left-to-right pass with no backtracking:
//
//  1. a leading run of digits is the cluster NUMBER (its absence flags the
//     label but never rejects it),
//  2. the first word after the number, when shaped as hyphen-joined
//     capitalized alphabetic groups, is the ANATOMICAL run,
//  3. remaining space-separated words are classified independently, with
//     hyphen-joined neurotransmitter compounds expanded into sibling tokens
//     sharing the compound's position,
//  4. a trailing _<digits> group is the SUFFIX and terminates the scan.
func (t *Tokenizer) Tokenize(label string) Result {
	result := Result{Label: label}

	remaining := strings.TrimSpace(label)
	if remaining == "" {
		return result
	}

	position := 0
	hasNumber := false

	if m := leadingNumber.FindStringSubmatch(remaining); m != nil {
		result.Tokens = append(result.Tokens, Token{
			Text:        m[1],
			Kind:        KindNumber,
			Position:    position,
			SourceLabel: label,
		})
		remaining = strings.TrimSpace(remaining[len(m[0]):])
		position++
		hasNumber = true
	} else {
		result.Flagged = true
	}

	var suffix string
	if m := trailingSuffix.FindStringSubmatch(remaining); m != nil {
		suffix = "_" + m[1]
		remaining = remaining[:len(remaining)-len(suffix)]
	}

	words := strings.Fields(remaining)
	for i, word := range words {
		if i == 0 && hasNumber && t.isAnatomicalRun(word) {
			for _, group := range strings.Split(word, "-") {
				result.Tokens = append(result.Tokens, Token{
					Text:        group,
					Kind:        KindAnatomical,
					Position:    position,
					SourceLabel: label,
				})
				position++
			}
			continue
		}

		position = t.scanWord(&result, word, position, label)
	}

	if suffix != "" {
		result.Tokens = append(result.Tokens, Token{
			Text:        suffix,
			Kind:        KindSuffix,
			Position:    position,
			SourceLabel: label,
		})
	}

	return result
}

// scanWord emits the token(s) for one space-separated word and returns the
// next position.
func (t *Tokenizer) scanWord(result *Result, word string, position int, label string) int {
	ctx := Context{Position: position, Label: label}

	switch {
	case vocabulary.IsNeurotransmitterCompound(word):
		// Compound expansion is lossless and order-preserving; components
		// share the compound's source position.
		for _, symbol := range vocabulary.SplitCompound(word) {
			result.Tokens = append(result.Tokens, Token{
				Text:        symbol,
				Kind:        KindNeurotransmission,
				Position:    position,
				SourceLabel: label,
			})
		}
		return position + 1

	case strings.Contains(word, "-") && !t.isHyphenatedGene(word):
		// Hyphen-joined non-gene, non-compound words split into parts
		// classified independently (e.g. SI-MA-ACB).
		for _, part := range strings.Split(word, "-") {
			result.Tokens = append(result.Tokens, Token{
				Text:        part,
				Kind:        t.classifier.Classify(part, ctx),
				Position:    position,
				SourceLabel: label,
			})
			position++
		}
		return position

	default:
		result.Tokens = append(result.Tokens, Token{
			Text:        word,
			Kind:        t.classifier.Classify(word, ctx),
			Position:    position,
			SourceLabel: label,
		})
		return position + 1
	}
}

// isAnatomicalRun reports whether the first post-number word is the
// hyphen-joined anatomical run: every group capitalized alphabetic, the word
// as a whole neither a neurotransmitter (single or compound) nor a gene.
func (t *Tokenizer) isAnatomicalRun(word string) bool {
	if vocabulary.IsNeurotransmitter(word) || vocabulary.IsNeurotransmitterCompound(word) {
		return false
	}
	if t.isHyphenatedGene(word) {
		return false
	}
	hc, catalogBacked := t.classifier.(*HeuristicClassifier)
	for _, group := range strings.Split(word, "-") {
		if catalogBacked && hc.Catalog != nil {
			if entry, found := hc.Catalog.Lookup(group); found {
				if entry.Kind != vocabulary.CatalogAnatomical {
					return false
				}
				continue
			}
		}
		if !anatomicalGroup.MatchString(group) {
			return false
		}
	}
	return true
}

type hyphenGeneChecker interface {
	IsGeneWithHyphen(word string) bool
}

func (t *Tokenizer) isHyphenatedGene(word string) bool {
	if !strings.Contains(word, "-") {
		return false
	}
	if checker, ok := t.classifier.(hyphenGeneChecker); ok {
		return checker.IsGeneWithHyphen(word)
	}
	return geneShape.MatchString(word)
}
