package vocabulary

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cellular-semantics/braincellkg/errors"
)

// CatalogKind is the curated classification of a catalog token. Values match
// the simplified-type vocabulary of the upstream token table.
type CatalogKind string

const (
	CatalogAnatomical       CatalogKind = "anatomical"
	CatalogGene             CatalogKind = "gene"
	CatalogCellType         CatalogKind = "cell type"
	CatalogNeurotransmitter CatalogKind = "neurotransmission"
)

// CatalogEntry describes one curated token: its classification and the
// identifiers used to resolve it against the knowledge graph.
type CatalogEntry struct {
	Text              string
	Kind              CatalogKind
	Type              string
	Name              string
	PrimaryIdentifier string
	SecondaryID       string
	TertiaryID        string
}

// TokenCatalog holds the curated token table keyed by token text. The catalog
// is loaded once at startup and is read-only afterwards.
type TokenCatalog struct {
	entries map[string]CatalogEntry
}

// NewTokenCatalog creates an empty catalog.
func NewTokenCatalog() *TokenCatalog {
	return &TokenCatalog{entries: make(map[string]CatalogEntry)}
}

// Add inserts or replaces a catalog entry.
func (tc *TokenCatalog) Add(entry CatalogEntry) {
	tc.entries[entry.Text] = entry
}

// Lookup returns the entry for a token text.
func (tc *TokenCatalog) Lookup(text string) (CatalogEntry, bool) {
	entry, ok := tc.entries[text]
	return entry, ok
}

// Len returns the number of catalog entries.
func (tc *TokenCatalog) Len() int {
	return len(tc.entries)
}

// catalog CSV column layout, matching the upstream token table export
const (
	colToken = iota
	colSimplifiedType
	colType
	colName
	colPrimaryID
	colSecondaryID
	colTertiaryID
	catalogColumns = 5 // first five columns are required
)

// LoadTokenCatalog reads the curated token table from CSV. The expected
// header is: token, simplified_type, type, name, primary_identifier,
// secondary_identifier, tertiary_identifier (the trailing identifier columns
// are optional). Rows with an unknown simplified type are rejected rather
// than silently skipped.
func LoadTokenCatalog(r io.Reader) (*TokenCatalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // identifier columns vary by export

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapInvalid(err, "TokenCatalog", "LoadTokenCatalog", "read csv")
	}
	if len(records) == 0 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("token table is empty"),
			"TokenCatalog", "LoadTokenCatalog", "validate csv")
	}

	catalog := NewTokenCatalog()
	for i, record := range records {
		if i == 0 && strings.EqualFold(record[colToken], "token") {
			continue // header row
		}
		if len(record) < catalogColumns {
			return nil, errors.WrapInvalid(
				fmt.Errorf("row %d has %d columns, want at least %d", i+1, len(record), catalogColumns),
				"TokenCatalog", "LoadTokenCatalog", "validate row")
		}

		kind := CatalogKind(strings.TrimSpace(record[colSimplifiedType]))
		switch kind {
		case CatalogAnatomical, CatalogGene, CatalogCellType, CatalogNeurotransmitter:
		default:
			return nil, errors.WrapInvalid(
				fmt.Errorf("row %d has unknown simplified type %q", i+1, kind),
				"TokenCatalog", "LoadTokenCatalog", "validate row")
		}

		entry := CatalogEntry{
			Text:              strings.TrimSpace(record[colToken]),
			Kind:              kind,
			Type:              strings.TrimSpace(record[colType]),
			Name:              strings.TrimSpace(record[colName]),
			PrimaryIdentifier: strings.TrimSpace(record[colPrimaryID]),
		}
		if len(record) > colSecondaryID {
			entry.SecondaryID = strings.TrimSpace(record[colSecondaryID])
		}
		if len(record) > colTertiaryID {
			entry.TertiaryID = strings.TrimSpace(record[colTertiaryID])
		}
		catalog.Add(entry)
	}

	return catalog, nil
}
