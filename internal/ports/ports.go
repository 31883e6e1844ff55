package ports

import (
	"context"

	"SearchAudit/internal/domain"
)

// Prober issues one request against one backend revision. Implementations
// retry per their policy; an error is only possible under a bounded policy.
type Prober interface {
	Probe(ctx context.Context, endpoint domain.Endpoint, query string, childType domain.InformationType) (domain.ProbeResult, error)
}

// QuerySource loads the corpus of input queries.
type QuerySource interface {
	Queries() ([]string, error)
}

// DiffSink persists the id-difference rows of one query.
type DiffSink interface {
	WriteDiffRows(rows []domain.DiffRow) error
}

// ViolationSink persists one per-record compliance failure.
type ViolationSink interface {
	WriteViolation(row domain.ViolationRow) error
}

// CacheSink persists one per-query cache-status row.
type CacheSink interface {
	WriteCacheRow(query string, result domain.ProbeResult) error
}

// MismatchSink persists one type-coverage mismatch row.
type MismatchSink interface {
	WriteMismatch(row domain.MismatchRow) error
}

// CoverageStore persists and reloads the coverage counter table. Save
// rewrites the full snapshot so a crash loses at most one query's updates.
type CoverageStore interface {
	Load() (domain.CoverageCounters, error)
	Save(counters domain.CoverageCounters) error
}
