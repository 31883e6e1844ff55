package csvio

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SearchAudit/internal/domain"
)

func TestQueryFileSkipsBlanksAndBOM(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "query.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufefffirst query\n\n  second query  \r\n\n"), 0o644))

	queries, err := QueryFile{Path: path}.Queries()

	require.NoError(t, err)
	assert.Equal(t, []string{"first query", "second query"}, queries)
}

func TestQueryFileMissingIsFatal(t *testing.T) {
	t.Parallel()

	_, err := QueryFile{Path: filepath.Join(t.TempDir(), "absent.csv")}.Queries()
	require.Error(t, err)
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestDiffWriterRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "id_diff_report.csv")
	w, err := NewDiffWriter(path)
	require.NoError(t, err)

	err = w.WriteDiffRows([]domain.DiffRow{
		{
			Query: "q1", OldID: "NW1", DiffType: domain.DiffOnlyInOld,
			OldTraceID: "t-old", TotalDiffCount: 3, SourceCombo: "old_1xnew_2",
		},
		{
			Query: "q1", OldID: "NW2", NewID: "NW3", DiffType: domain.DiffOrder,
			OldTraceID: "t-old", NewTraceID: "t-new", Position: "4",
			TotalDiffCount: 3, SourceCombo: "old_1xnew_2",
		},
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rows := readAll(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "question", rows[0][0])
	assert.Equal(t, []string{"q1", "NW1", "", "only_in_old"}, rows[1][:4])
	assert.Equal(t, "t-old", rows[1][5])
	assert.Equal(t, "", rows[1][7])
	assert.Equal(t, "3", rows[1][8])
	assert.Equal(t, "order_diff", rows[2][3])
	assert.Equal(t, "4", rows[2][7])
}

func TestViolationWriterRow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "validation_results.csv")
	w, err := NewViolationWriter(path)
	require.NoError(t, err)

	err = w.WriteViolation(domain.ViolationRow{
		Revision: domain.RevisionOld,
		Record: domain.ResultRecord{
			ID:              "AP1",
			InformationType: domain.TypeNews,
		},
		InputQuery: "q",
		Cache:      domain.CacheInfo{Present: true, Hit: false},
		Reasons:    "id prefix should be NW but got: AP",
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rows := readAll(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "B", rows[1][0])
	assert.Equal(t, "AP1", rows[1][1])
	assert.Equal(t, "NEWS", rows[1][5])
	assert.Equal(t, "true", rows[1][10])
	assert.Equal(t, "false", rows[1][11])
	assert.Equal(t, "id prefix should be NW but got: AP", rows[1][12])
}

func TestCacheWriterAppendsWithoutDuplicateHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache_results.csv")

	w, err := NewCacheWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteCacheRow("q1", domain.ProbeResult{
		ServerTraceID:     "srv-1",
		Cache:             domain.CacheInfo{Present: true, Hit: true, TraceID: "c-1"},
		DecomposedQueries: []string{"a", "b"},
	}))
	require.NoError(t, w.Close())

	// Reopening must append rows, not a second header.
	w, err = NewCacheWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteCacheRow("q2", domain.ProbeResult{ServerTraceID: "srv-2"}))
	require.NoError(t, w.Close())

	rows := readAll(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Query", "TraceId", "CacheTraceId", "IsCache", "DecomposedQueries"}, rows[0])
	assert.Equal(t, []string{"q1", "srv-1", "c-1", "true", "a; b"}, rows[1])
	assert.Equal(t, []string{"q2", "srv-2", "", "", ""}, rows[2])
}

func TestMismatchWriterRow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mismatch_records.csv")
	w, err := NewMismatchWriter(path)
	require.NoError(t, err)

	require.NoError(t, w.WriteMismatch(domain.MismatchRow{
		Query:         "q",
		RequestedType: domain.TypeNews,
		ActualType:    "REPORT",
		TraceID:       "t-1",
		EmptyResponse: "NO",
	}))
	require.NoError(t, w.Close())

	rows := readAll(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"q", "NEWS", "REPORT", "t-1", "NO"}, rows[1])
}

func TestDiffWriterTimestampFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "diff.csv")
	w, err := NewDiffWriter(path)
	require.NoError(t, err)

	require.NoError(t, w.WriteDiffRows([]domain.DiffRow{{Query: "q", DiffType: domain.DiffOnlyInNew}}))
	require.NoError(t, w.Close())

	rows := readAll(t, path)
	require.Len(t, rows, 2)
	stamp := rows[1][4]
	assert.Len(t, stamp, len("2006-01-02 15:04:05"))
	assert.False(t, strings.Contains(stamp, "T"))
}
