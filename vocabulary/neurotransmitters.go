package vocabulary

import (
	"strings"
	"sync"
)

// Neurotransmitter describes one entry of the closed neurotransmitter
// vocabulary. The vocabulary is small and curated, which is why membership
// outranks the open-ended gene-shape heuristic during classification.
type Neurotransmitter struct {
	// Symbol is the token text as it appears in cluster labels, e.g. "Gaba".
	Symbol string
	// Name is the human-readable neurotransmitter name.
	Name string
	// Identifier is the canonical CURIE of the corresponding cell type.
	Identifier string
}

var (
	ntMu       sync.RWMutex
	ntRegistry = make(map[string]Neurotransmitter)
)

func init() {
	// Seed vocabulary recovered from the WMB label convention.
	for _, nt := range []Neurotransmitter{
		{Symbol: "Gaba", Name: "GABAergic", Identifier: "CL:0000617"},
		{Symbol: "GABA", Name: "GABAergic", Identifier: "CL:0000617"},
		{Symbol: "Glut", Name: "glutamatergic", Identifier: "CL:0000679"},
		{Symbol: "Gly", Name: "glycinergic", Identifier: "CL:0000616"},
		{Symbol: "Glyc", Name: "glycinergic", Identifier: "CL:0000616"},
		{Symbol: "Dopa", Name: "dopaminergic", Identifier: "CL:0000700"},
		{Symbol: "Chol", Name: "cholinergic", Identifier: "CL:0000108"},
		{Symbol: "Sero", Name: "serotonergic", Identifier: "CL:0000850"},
		{Symbol: "Hist", Name: "histaminergic", Identifier: "CL:0011110"},
		{Symbol: "Nora", Name: "noradrenergic", Identifier: "CL:0008025"},
	} {
		RegisterNeurotransmitter(nt)
	}
}

// RegisterNeurotransmitter adds a neurotransmitter to the vocabulary.
// Re-registering a symbol overwrites the previous entry.
func RegisterNeurotransmitter(nt Neurotransmitter) {
	ntMu.Lock()
	defer ntMu.Unlock()
	ntRegistry[nt.Symbol] = nt
}

// LookupNeurotransmitter returns the vocabulary entry for a symbol.
func LookupNeurotransmitter(symbol string) (Neurotransmitter, bool) {
	ntMu.RLock()
	defer ntMu.RUnlock()
	nt, ok := ntRegistry[symbol]
	return nt, ok
}

// IsNeurotransmitter reports whether a word is a vocabulary member.
func IsNeurotransmitter(word string) bool {
	_, ok := LookupNeurotransmitter(word)
	return ok
}

// IsNeurotransmitterCompound reports whether a hyphen-joined word is composed
// entirely of vocabulary members (e.g. "Gly-Gaba"). A single vocabulary
// member without hyphens is not a compound.
func IsNeurotransmitterCompound(word string) bool {
	if !strings.Contains(word, "-") {
		return false
	}
	parts := strings.Split(word, "-")
	for _, part := range parts {
		if !IsNeurotransmitter(part) {
			return false
		}
	}
	return len(parts) > 1
}

// SplitCompound splits a hyphen-joined neurotransmitter compound into its
// component symbols in original order. Splitting is lossless: every component
// of a word accepted by IsNeurotransmitterCompound is itself a vocabulary
// member.
func SplitCompound(word string) []string {
	return strings.Split(word, "-")
}

// ListNeurotransmitters returns all registered symbols. Useful for debugging
// and report headers.
func ListNeurotransmitters() []string {
	ntMu.RLock()
	defer ntMu.RUnlock()

	symbols := make([]string, 0, len(ntRegistry))
	for symbol := range ntRegistry {
		symbols = append(symbols, symbol)
	}
	return symbols
}
