// Package braincellkg curates a knowledge graph of brain-cell taxonomies by
// transferring annotations between independently published cell-cluster
// taxonomies (for example, a whole-brain atlas and a basal-ganglia atlas).
//
// # Architecture
//
// The module is a batch tool built from three layered components:
//
//	┌─────────────────────────────────────┐
//	│          Label Tokenizer            │  token
//	│  (cluster label → typed tokens)     │
//	└─────────────────────────────────────┘
//	           ↓ token stream
//	┌─────────────────────────────────────┐
//	│          Entity Resolver            │  resolver
//	│  (token → canonical graph entity)   │
//	└─────────────────────────────────────┘
//	           ↓ resolved mappings
//	┌─────────────────────────────────────┐
//	│       Hierarchy Aggregator          │  analysis
//	│  (most-general-term, consistency)   │
//	└─────────────────────────────────────┘
//
// The tokenizer parses free-text cell-cluster labels (for example
// "458 MPO-ADP Lhx8 Gaba_1") into NUMBER, ANATOMICAL, GENE, CELL_TYPE,
// NEUROTRANSMISSION and SUFFIX tokens. The resolver maps each token to a
// canonical CURIE in the knowledge graph through an ordered chain of lookup
// strategies that absorbs the graph's competing naming conventions. The
// aggregator folds resolved mappings over the taxonomy's subcluster_of DAG to
// find the most general node carrying each mapping and to check per-subtree
// neurotransmitter consistency.
//
// Supporting packages:
//
//   - catalog: graph lookup and traversal contracts plus the Neo4j client
//   - taxonomy: in-memory taxonomy snapshot with depth-guarded DAG walks
//   - vocabulary: neurotransmitter vocabulary, CURIE prefixes, token catalog
//   - analysis: report computations over the snapshot
//   - report: CSV sinks and the consolidated Excel workbook
//   - pipeline: batch orchestration from snapshot load to report emission
//
// The knowledge graph is treated as a read-only external collaborator for the
// duration of a batch: the tool never issues write queries.
package braincellkg
