package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"SearchAudit/internal/domain"
	"SearchAudit/internal/ports"
)

var cacheHeader = []string{"Query", "TraceId", "CacheTraceId", "IsCache", "DecomposedQueries"}

// CacheWriter appends per-query cache-status rows. Unlike the other reports
// the file is opened in append mode so interrupted runs keep their rows; the
// header is only written when the file is new or empty.
type CacheWriter struct {
	mu   sync.Mutex
	file *os.File
	csv  *csv.Writer
}

var _ ports.CacheSink = (*CacheWriter)(nil)

// NewCacheWriter opens or creates the cache report.
func NewCacheWriter(path string) (*CacheWriter, error) {
	needHeader := true
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		needHeader = false
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open cache report %s: %w", path, err)
	}

	w := &CacheWriter{file: file, csv: csv.NewWriter(file)}
	if needHeader {
		if err := w.csv.Write(cacheHeader); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("write cache header: %w", err)
		}
		w.csv.Flush()
		if err := w.csv.Error(); err != nil {
			_ = file.Close()
			return nil, err
		}
	}
	return w, nil
}

// WriteCacheRow appends one query's cache status and flushes it to disk.
func (w *CacheWriter) WriteCacheRow(query string, result domain.ProbeResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	isCache := ""
	if result.Cache.Present {
		isCache = strconv.FormatBool(result.Cache.Hit)
	}

	record := []string{
		query,
		result.ServerTraceID,
		result.Cache.TraceID,
		isCache,
		strings.Join(result.DecomposedQueries, "; "),
	}

	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("write cache row: %w", err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("flush cache row: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *CacheWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}
