package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"SearchAudit/internal/domain"
	"SearchAudit/internal/ports"
)

var violationHeader = []string{
	"endpoint", "id", "title", "showTime", "source", "informationType",
	"jumpUrl", "currentQuery", "originalQuery", "inputQuery",
	"isCache_present", "isCache_value", "invalid_reasons", "process_time",
}

// ViolationWriter streams field-compliance failures into a CSV report.
type ViolationWriter struct {
	mu   sync.Mutex
	file *os.File
	csv  *csv.Writer
	now  func() time.Time
}

var _ ports.ViolationSink = (*ViolationWriter)(nil)

// NewViolationWriter creates the report file and writes the header.
func NewViolationWriter(path string) (*ViolationWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create violation report %s: %w", path, err)
	}

	w := &ViolationWriter{file: file, csv: csv.NewWriter(file), now: time.Now}
	if err := w.csv.Write(violationHeader); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("write violation header: %w", err)
	}
	w.csv.Flush()
	return w, w.csv.Error()
}

// WriteViolation appends one non-compliant record and flushes it to disk.
func (w *ViolationWriter) WriteViolation(row domain.ViolationRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	cacheValue := ""
	if row.Cache.Present {
		cacheValue = strconv.FormatBool(row.Cache.Hit)
	}

	record := []string{
		string(row.Revision),
		row.Record.ID,
		row.Record.Title,
		row.Record.ShowTime,
		row.Record.Source,
		string(row.Record.InformationType),
		row.Record.JumpURL,
		row.Record.CurrentQuery,
		row.Record.OriginalQuery,
		row.InputQuery,
		strconv.FormatBool(row.Cache.Present),
		cacheValue,
		row.Reasons,
		w.now().Format("2006-01-02 15:04:05"),
	}

	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("write violation row: %w", err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("flush violation row: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *ViolationWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}
