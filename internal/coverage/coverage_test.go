package coverage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SearchAudit/internal/domain"
)

func TestTrackerRecordAndSnapshot(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(nil)
	tracker.Record(domain.RevisionOld, domain.BucketCacheHit, domain.TypeNews)
	tracker.Record(domain.RevisionOld, domain.BucketCacheHit, domain.TypeNews)
	tracker.Record(domain.RevisionNew, domain.BucketNoCacheInfo, domain.TypeBond)

	snap := tracker.Snapshot()

	assert.Equal(t, 2, snap[domain.CoverageKey{Revision: domain.RevisionOld, Bucket: domain.BucketCacheHit, Type: domain.TypeNews}])
	assert.Equal(t, 1, snap[domain.CoverageKey{Revision: domain.RevisionNew, Bucket: domain.BucketNoCacheInfo, Type: domain.TypeBond}])

	// Mutating the snapshot must not leak back into the tracker.
	snap[domain.CoverageKey{Revision: domain.RevisionOld, Bucket: domain.BucketCacheHit, Type: domain.TypeNews}] = 99
	assert.Equal(t, 2, tracker.Snapshot()[domain.CoverageKey{Revision: domain.RevisionOld, Bucket: domain.BucketCacheHit, Type: domain.TypeNews}])
}

func TestTrackerStartsFromInitialCopy(t *testing.T) {
	t.Parallel()

	key := domain.CoverageKey{Revision: domain.RevisionOld, Bucket: domain.BucketCacheMiss, Type: domain.TypeLaw}
	initial := domain.CoverageCounters{key: 5}

	tracker := NewTracker(initial)
	tracker.Record(domain.RevisionOld, domain.BucketCacheMiss, domain.TypeLaw)

	assert.Equal(t, 6, tracker.Snapshot()[key])
	assert.Equal(t, 5, initial[key])
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "coverage_results.csv")
	store := NewFileStore(path, nil, nil)

	counters := domain.CoverageCounters{
		{Revision: domain.RevisionOld, Bucket: domain.BucketCacheHit, Type: domain.TypeNews}:    3,
		{Revision: domain.RevisionOld, Bucket: domain.BucketNoCacheInfo, Type: domain.TypeNews}: 1,
		{Revision: domain.RevisionNew, Bucket: domain.BucketCacheMiss, Type: domain.TypeReport}: 7,
		{Revision: domain.RevisionNew, Bucket: domain.BucketNoCacheInfo, Type: domain.TypeBond}: 2,
	}
	require.NoError(t, store.Save(counters))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t,
		"InformationType,Count_B_CacheHit,Count_B_CacheMiss,Count_B_NoCacheInfo,Count_C_CacheHit,Count_C_CacheMiss,Count_C_NoCacheInfo",
		lines[0])
	// One row per type, alphabetically.
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "BOND,"))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, counters, loaded)
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), "absent.csv"), nil, nil)

	loaded, err := store.Load()

	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileStoreLoadGarbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "coverage_results.csv")
	require.NoError(t, os.WriteFile(path, []byte("InformationType,Count_B_CacheHit\nNEWS,notanumber\n"), 0o644))

	store := NewFileStore(path, nil, nil)
	loaded, err := store.Load()

	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestAccumulationIsAtLeastOnce(t *testing.T) {
	t.Parallel()

	// Re-running identical input on top of a persisted snapshot doubles the
	// counters: there is no input-level checkpointing.
	path := filepath.Join(t.TempDir(), "coverage_results.csv")
	store := NewFileStore(path, nil, nil)

	runOnce := func() {
		initial, err := store.Load()
		require.NoError(t, err)
		tracker := NewTracker(initial)
		tracker.Record(domain.RevisionOld, domain.BucketCacheHit, domain.TypeNews)
		tracker.Record(domain.RevisionNew, domain.BucketCacheMiss, domain.TypeCFH)
		require.NoError(t, store.Save(tracker.Snapshot()))
	}

	runOnce()
	runOnce()

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, loaded[domain.CoverageKey{Revision: domain.RevisionOld, Bucket: domain.BucketCacheHit, Type: domain.TypeNews}])
	assert.Equal(t, 2, loaded[domain.CoverageKey{Revision: domain.RevisionNew, Bucket: domain.BucketCacheMiss, Type: domain.TypeCFH}])
}
