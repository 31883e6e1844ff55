package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"SearchAudit/internal/domain"
	"SearchAudit/internal/ports"
)

var mismatchHeader = []string{"Question", "RequestedType", "ActualType", "TraceID", "IsEmptyResponse"}

// MismatchWriter streams type-coverage mismatch rows into a CSV report.
type MismatchWriter struct {
	mu   sync.Mutex
	file *os.File
	csv  *csv.Writer
}

var _ ports.MismatchSink = (*MismatchWriter)(nil)

// NewMismatchWriter creates the report file and writes the header.
func NewMismatchWriter(path string) (*MismatchWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create mismatch report %s: %w", path, err)
	}

	w := &MismatchWriter{file: file, csv: csv.NewWriter(file)}
	if err := w.csv.Write(mismatchHeader); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("write mismatch header: %w", err)
	}
	w.csv.Flush()
	return w, w.csv.Error()
}

// WriteMismatch appends one row and flushes it to disk.
func (w *MismatchWriter) WriteMismatch(row domain.MismatchRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	record := []string{
		row.Query,
		string(row.RequestedType),
		row.ActualType,
		row.TraceID,
		row.EmptyResponse,
	}

	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("write mismatch row: %w", err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("flush mismatch row: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *MismatchWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}
