package report

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/cellular-semantics/braincellkg/errors"
)

// CSVSink writes each table to <dir>/<name>.csv.
type CSVSink struct {
	dir    string
	closed bool
}

// NewCSVSink creates the output directory if needed and returns the sink.
func NewCSVSink(dir string) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapFatal(err, "CSVSink", "NewCSVSink", "create output dir")
	}
	return &CSVSink{dir: dir}, nil
}

// Write persists one table as a CSV file, header first.
func (s *CSVSink) Write(table Table) error {
	if s.closed {
		return errors.WrapInvalid(errors.ErrSinkClosed, "CSVSink", "Write", "write "+table.Name)
	}

	path := filepath.Join(s.dir, table.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapFatal(err, "CSVSink", "Write", "create "+path)
	}

	w := csv.NewWriter(f)
	if err := w.Write(table.Header); err != nil {
		f.Close()
		return errors.WrapFatal(err, "CSVSink", "Write", "write header of "+table.Name)
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return errors.WrapFatal(err, "CSVSink", "Write", "write row of "+table.Name)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return errors.WrapFatal(err, "CSVSink", "Write", "flush "+table.Name)
	}
	if err := f.Close(); err != nil {
		return errors.WrapFatal(err, "CSVSink", "Write", "close "+path)
	}
	return nil
}

// Close marks the sink closed. CSV files are flushed per Write, so Close has
// nothing further to persist.
func (s *CSVSink) Close() error {
	s.closed = true
	return nil
}
