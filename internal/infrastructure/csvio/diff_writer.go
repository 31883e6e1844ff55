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

var diffHeader = []string{
	"question", "old_id", "new_id", "diff_type", "timestamp",
	"old_traceid", "new_traceid", "position", "total_diff_count", "source_combo",
}

// DiffWriter streams id-difference rows into a CSV report. Rows of one query
// are written under a single critical section so lines stay grouped.
type DiffWriter struct {
	mu   sync.Mutex
	file *os.File
	csv  *csv.Writer
	now  func() time.Time
}

var _ ports.DiffSink = (*DiffWriter)(nil)

// NewDiffWriter creates the report file and writes the header.
func NewDiffWriter(path string) (*DiffWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create diff report %s: %w", path, err)
	}

	w := &DiffWriter{file: file, csv: csv.NewWriter(file), now: time.Now}
	if err := w.csv.Write(diffHeader); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("write diff header: %w", err)
	}
	w.csv.Flush()
	return w, w.csv.Error()
}

// WriteDiffRows appends all rows of one query and flushes them to disk.
func (w *DiffWriter) WriteDiffRows(rows []domain.DiffRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	stamp := w.now().Format("2006-01-02 15:04:05")
	for _, row := range rows {
		record := []string{
			row.Query,
			row.OldID,
			row.NewID,
			row.DiffType,
			stamp,
			row.OldTraceID,
			row.NewTraceID,
			row.Position,
			strconv.Itoa(row.TotalDiffCount),
			row.SourceCombo,
		}
		if err := w.csv.Write(record); err != nil {
			return fmt.Errorf("write diff row: %w", err)
		}
	}

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("flush diff rows: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *DiffWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}
