// Package token implements the cell-cluster label tokenizer: a total,
// single-pass, left-to-right scanner that splits a raw label such as
// "458 MPO-ADP Lhx8 Gaba_1" into an ordered sequence of classified tokens.
//
// The scanner never fails. Gene and cell-type boundaries are inherently
// ambiguous in the source convention, so unrecognized capitalized words fall
// back to CELL_TYPE and surface in the problem-token report for review
// instead of causing a runtime error.
// A label missing its leading cluster number is flagged for review and
// scanned without a NUMBER token rather than rejected.
//
// Word classification is a pluggable capability (the Classifier interface) so
// a corpus-informed classifier can replace the per-word heuristic without
// touching the scanning loop.
package token
