// Package coverage accumulates per-category record counts segmented by API
// revision and cache bucket, and persists them as a resumable CSV snapshot.
// Accumulation (Tracker) and persistence (FileStore) are deliberately
// separate contracts.
package coverage

import (
	"sync"

	"SearchAudit/internal/domain"
)

// Tracker owns the mutable coverage counters behind a mutex; it is the only
// component that mutates them.
type Tracker struct {
	mu     sync.Mutex
	counts domain.CoverageCounters
}

// NewTracker starts accumulation on top of a prior snapshot. A nil initial
// map starts from zero. The initial counters are copied, never aliased.
func NewTracker(initial domain.CoverageCounters) *Tracker {
	if initial == nil {
		initial = domain.CoverageCounters{}
	}
	return &Tracker{counts: initial.Clone()}
}

// Record increments one counter.
func (t *Tracker) Record(rev domain.Revision, bucket domain.CacheBucket, infoType domain.InformationType) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[domain.CoverageKey{Revision: rev, Bucket: bucket, Type: infoType}]++
}

// Snapshot returns an independent copy of the current counters.
func (t *Tracker) Snapshot() domain.CoverageCounters {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts.Clone()
}
