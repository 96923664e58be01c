// Package report renders the aggregation results as named tables and
// persists them through tabular sinks. The core guarantees row ordering and
// field completeness; the sink owns format and destination. Two sinks are
// provided: per-table CSV files and a consolidated Excel workbook with one
// sheet per table.
package report
