package report

// Table is an ordered, named set of rows ready for persistence.
type Table struct {
	// Name identifies the output (file stem or sheet name).
	Name string
	// Description is a one-line summary used by the workbook README sheet.
	Description string
	Header      []string
	Rows        [][]string
}

// Sink persists named tables. Implementations own format and destination;
// callers only rely on row ordering being preserved. Write after Close
// returns ErrSinkClosed.
type Sink interface {
	Write(table Table) error
	Close() error
}
