package vocabulary

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cellular-semantics/braincellkg/errors"
)

// PrefixMetadata describes a CURIE namespace prefix and its known quirks.
type PrefixMetadata struct {
	// Prefix is the canonical prefix as minted upstream, e.g. "ENSEMBL".
	Prefix string
	// Description is a human-readable note about the namespace.
	Description string
	// CaseVariant is an inconsistent-case counterpart known to exist in the
	// knowledge graph (the documented ENSEMBL:/ensembl: class of bug).
	// Empty when the namespace has a single consistent casing.
	CaseVariant string
}

var (
	prefixMu       sync.RWMutex
	prefixRegistry = make(map[string]PrefixMetadata)
)

// PrefixOption is a functional option for prefix registration.
type PrefixOption func(*PrefixMetadata)

// WithPrefixDescription sets the human-readable namespace description.
func WithPrefixDescription(desc string) PrefixOption {
	return func(m *PrefixMetadata) {
		m.Description = desc
	}
}

// WithCaseVariant records an inconsistent-case counterpart for the prefix.
// Lookups that miss on the canonical casing retry with the variant.
func WithCaseVariant(variant string) PrefixOption {
	return func(m *PrefixMetadata) {
		m.CaseVariant = variant
	}
}

func init() {
	RegisterPrefix("ENSEMBL",
		WithPrefixDescription("Ensembl gene identifiers"),
		WithCaseVariant("ensembl"))
	RegisterPrefix("MBA",
		WithPrefixDescription("Allen Mouse Brain Atlas anatomical structures"))
	RegisterPrefix("CL",
		WithPrefixDescription("Cell Ontology cell types"))
	RegisterPrefix("WMB",
		WithPrefixDescription("Whole Mouse Brain taxonomy cell set accessions"))
	RegisterPrefix("BG",
		WithPrefixDescription("Basal ganglia taxonomy cell set accessions"))
}

// RegisterPrefix registers a CURIE prefix with metadata. Re-registering a
// prefix overwrites the previous entry.
func RegisterPrefix(prefix string, opts ...PrefixOption) {
	meta := PrefixMetadata{Prefix: prefix}
	for _, opt := range opts {
		opt(&meta)
	}

	prefixMu.Lock()
	defer prefixMu.Unlock()
	prefixRegistry[prefix] = meta
}

// GetPrefixMetadata retrieves metadata for a prefix. Returns nil if the
// prefix is not registered.
func GetPrefixMetadata(prefix string) *PrefixMetadata {
	prefixMu.RLock()
	defer prefixMu.RUnlock()

	if meta, exists := prefixRegistry[prefix]; exists {
		metaCopy := meta
		return &metaCopy
	}
	return nil
}

// SplitCURIE splits a compact URI into prefix and local identifier.
// Returns ErrInvalidCURIE when the value has no prefix separator or an empty
// part on either side.
func SplitCURIE(curie string) (prefix, local string, err error) {
	idx := strings.Index(curie, ":")
	if idx <= 0 || idx == len(curie)-1 {
		return "", "", fmt.Errorf("%w: %q", errors.ErrInvalidCURIE, curie)
	}
	return curie[:idx], curie[idx+1:], nil
}

// CaseNormalized returns the curie rewritten with its prefix's registered
// inconsistent-case counterpart. The second return is false when the curie is
// malformed or its prefix has no known case variant.
func CaseNormalized(curie string) (string, bool) {
	prefix, local, err := SplitCURIE(curie)
	if err != nil {
		return "", false
	}

	meta := GetPrefixMetadata(prefix)
	if meta == nil || meta.CaseVariant == "" {
		return "", false
	}
	return meta.CaseVariant + ":" + local, true
}

// ShortForm converts a curie to its underscore-based short form
// ("MBA:452" -> "MBA_452"), the local-name convention used by some graph
// exports. Returns the input unchanged when it contains no separator.
func ShortForm(curie string) string {
	return strings.ReplaceAll(curie, ":", "_")
}
