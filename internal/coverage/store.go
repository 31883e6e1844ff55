package coverage

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"SearchAudit/internal/domain"
	"SearchAudit/internal/ports"
)

// Schema of the persisted table: one row per information type, one column per
// (revision, cache-bucket) pair, named Count_<revision>_<bucket>.
var bucketColumn = map[domain.CacheBucket]string{
	domain.BucketCacheHit:    "CacheHit",
	domain.BucketCacheMiss:   "CacheMiss",
	domain.BucketNoCacheInfo: "NoCacheInfo",
}

var columnBucket = map[string]domain.CacheBucket{
	"CacheHit":    domain.BucketCacheHit,
	"CacheMiss":   domain.BucketCacheMiss,
	"NoCacheInfo": domain.BucketNoCacheInfo,
}

// FileStore persists coverage counters as a flat CSV snapshot, rewritten in
// full on every Save.
type FileStore struct {
	mu        sync.Mutex
	path      string
	revisions []domain.Revision
	logger    *slog.Logger
}

var _ ports.CoverageStore = (*FileStore)(nil)

// NewFileStore writes snapshots for the given revisions (column order) to path.
func NewFileStore(path string, revisions []domain.Revision, logger *slog.Logger) *FileStore {
	if len(revisions) == 0 {
		revisions = []domain.Revision{domain.RevisionOld, domain.RevisionNew}
	}
	return &FileStore{path: path, revisions: revisions, logger: logger}
}

// Load reconstructs counters from a previously written report by parsing its
// column headers back into (revision, bucket) keys. A missing or empty file
// yields empty counters; an unparsable one is logged and also yields empty
// counters, so the run restarts the tally from zero.
func (s *FileStore) Load() (domain.CoverageCounters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counters := domain.CoverageCounters{}

	info, err := os.Stat(s.path)
	if os.IsNotExist(err) || (err == nil && info.Size() == 0) {
		return counters, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat coverage snapshot: %w", err)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open coverage snapshot: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil || len(rows) == 0 {
		s.warn("coverage snapshot unreadable, starting from zero", "path", s.path, "error", err)
		return domain.CoverageCounters{}, nil
	}

	header := rows[0]
	keyByColumn := map[int]struct {
		rev    domain.Revision
		bucket domain.CacheBucket
	}{}
	for i, name := range header {
		if !strings.HasPrefix(name, "Count_") {
			continue
		}
		parts := strings.Split(name, "_")
		if len(parts) < 3 {
			continue
		}
		bucket, ok := columnBucket[parts[len(parts)-1]]
		if !ok {
			continue
		}
		keyByColumn[i] = struct {
			rev    domain.Revision
			bucket domain.CacheBucket
		}{rev: domain.Revision(parts[1]), bucket: bucket}
	}

	for _, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		infoType := domain.InformationType(row[0])
		for col, key := range keyByColumn {
			if col >= len(row) {
				continue
			}
			count, convErr := strconv.Atoi(row[col])
			if convErr != nil {
				s.warn("coverage snapshot cell skipped", "column", header[col], "type", infoType, "value", row[col])
				continue
			}
			if count != 0 {
				counters[domain.CoverageKey{Revision: key.rev, Bucket: key.bucket, Type: infoType}] += count
			}
		}
	}

	return counters, nil
}

// Save rewrites the full counter table, replacing the previous snapshot.
func (s *FileStore) Save(counters domain.CoverageCounters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	types := map[domain.InformationType]struct{}{}
	for key := range counters {
		types[key.Type] = struct{}{}
	}
	sorted := make([]string, 0, len(types))
	for t := range types {
		sorted = append(sorted, string(t))
	}
	sort.Strings(sorted)

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create coverage snapshot: %w", err)
	}

	w := csv.NewWriter(f)

	header := []string{"InformationType"}
	for _, rev := range s.revisions {
		for _, bucket := range domain.AllCacheBuckets {
			header = append(header, fmt.Sprintf("Count_%s_%s", rev, bucketColumn[bucket]))
		}
	}
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("write coverage header: %w", err)
	}

	for _, infoType := range sorted {
		row := []string{infoType}
		for _, rev := range s.revisions {
			for _, bucket := range domain.AllCacheBuckets {
				key := domain.CoverageKey{Revision: rev, Bucket: bucket, Type: domain.InformationType(infoType)}
				row = append(row, strconv.Itoa(counters[key]))
			}
		}
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return fmt.Errorf("write coverage row %s: %w", infoType, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush coverage snapshot: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close coverage snapshot: %w", err)
	}
	return nil
}

func (s *FileStore) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
