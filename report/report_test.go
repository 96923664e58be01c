package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cellular-semantics/braincellkg/analysis"
	"github.com/cellular-semantics/braincellkg/catalog"
	"github.com/cellular-semantics/braincellkg/resolver"
	"github.com/cellular-semantics/braincellkg/taxonomy"
	"github.com/cellular-semantics/braincellkg/token"
)

func sampleTable() Table {
	return Table{
		Name:        "token_usage",
		Description: "test table",
		Header:      []string{"token", "count"},
		Rows: [][]string{
			{"Lhx8", "2"},
			{"Gaba", "5"},
		},
	}
}

func TestCSVSinkRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewCSVSink(dir)
	require.NoError(t, err)

	require.NoError(t, sink.Write(sampleTable()))
	require.NoError(t, sink.Close())

	f, err := os.Open(filepath.Join(dir, "token_usage.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"token", "count"}, records[0])
	assert.Equal(t, []string{"Lhx8", "2"}, records[1])
	assert.Equal(t, []string{"Gaba", "5"}, records[2])
}

func TestCSVSinkWriteAfterClose(t *testing.T) {
	sink, err := NewCSVSink(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	err = sink.Write(sampleTable())
	require.Error(t, err)
}

func TestWorkbookRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.xlsx")
	wb := NewWorkbook(path)

	require.NoError(t, wb.Write(sampleTable()))
	require.NoError(t, wb.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "token_usage")
	assert.Contains(t, sheets, "README")
	assert.NotContains(t, sheets, "Sheet1")

	cell, err := f.GetCellValue("token_usage", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Lhx8", cell)

	rows, err := f.GetRows("README")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"token_usage", "2", "test table"}, rows[1])
}

func TestWorkbookWriteAfterClose(t *testing.T) {
	wb := NewWorkbook(filepath.Join(t.TempDir(), "reports.xlsx"))
	require.NoError(t, wb.Close())
	require.Error(t, wb.Write(sampleTable()))
}

func TestTokenMappingTable(t *testing.T) {
	tok := token.Token{
		Text: "Lhx8", Kind: token.KindGene, Position: 2,
		SourceLabel: "458 MPO-ADP Lhx8 Gaba_1",
	}
	table := TokenMapping([]analysis.LabelResolution{{
		Tokens: token.Result{Label: tok.SourceLabel, Tokens: []token.Token{tok}},
		Resolved: []resolver.ResolvedToken{{
			Token:          tok,
			CandidateCURIE: "ENSEMBL:ENSMUSG00000096225",
			EntityLabel:    "Lhx8",
			Strategy:       resolver.StrategyDirect,
			TargetFamily:   catalog.FamilyGene,
		}},
	}})

	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{
		"458 MPO-ADP Lhx8 Gaba_1", "Lhx8", "gene",
		"ENSEMBL:ENSMUSG00000096225", "Lhx8", "DIRECT", "Gene",
	}, table.Rows[0])
}

func TestConsistencyTable(t *testing.T) {
	table := NeurotransmitterConsistency([]analysis.ConsistencyRow{{
		NodeCURIE:        "WMB:S1",
		NodeLabel:        "012 MPO Gaba",
		Tier:             taxonomy.TierSubclass,
		IsConsistent:     false,
		DistinctCombos:   []string{"Gaba", "Gaba:Glut"},
		ComboCounts:      map[string]int{"Gaba": 3, "Gaba:Glut": 1},
		SharedComponents: []string{"Gaba"},
		LeafCount:        4,
	}})

	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{
		"WMB:S1", "012 MPO Gaba", "subclass", "false",
		"Gaba; Gaba:Glut", "Gaba=3; Gaba:Glut=1", "Gaba", "4",
	}, table.Rows[0])
}

func TestMostGeneralTermsTable(t *testing.T) {
	table := MostGeneralTerms([]analysis.GeneralityRow{{
		MappingID:        "m-1",
		TargetCURIE:      "ENSEMBL:G1",
		TargetLabel:      "Lhx8",
		BranchLeafLabel:  "458 MPO-ADP Lhx8 Gaba_1",
		GeneralLabel:     "012 MPO Gaba",
		GeneralTier:      taxonomy.TierSubclass,
		GeneralExemplar:  catalog.Entity{CURIE: "WMB:cell1"},
		SpecificLabel:    "458 MPO-ADP Lhx8 Gaba_1",
		SpecificExemplar: catalog.Entity{CURIE: "WMB:cell2"},
		HasMapping:       true,
		BranchKey:        "a / b / c",
	}})

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "true", table.Rows[0][9])
	assert.Equal(t, "subclass", table.Rows[0][5])
}
