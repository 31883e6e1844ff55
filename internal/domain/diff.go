package domain

// Diff row tags persisted in the diff report.
const (
	DiffOnlyInOld = "only_in_old"
	DiffOnlyInNew = "only_in_new"
	DiffOrder     = "order_diff"
)

// OrderChange records one positional mismatch between two id sequences that
// share the same id set. For trailing positions past the shorter sequence the
// missing counterpart id is empty.
type OrderChange struct {
	Position int
	OldID    string
	NewID    string
}

// DiffReport is the structured difference between two sampled id sequences.
// Order differences are only computed when the id sets match; under a set
// mismatch a positional comparison is ill-defined and would double-count.
type DiffReport struct {
	SetDiff        bool
	OrderDiff      bool
	OnlyInOld      []string
	OnlyInNew      []string
	OrderChanges   []OrderChange
	TotalDiffCount int
}

// DiffRow is one persisted line of the id-difference report.
type DiffRow struct {
	Query          string
	OldID          string
	NewID          string
	DiffType       string
	OldTraceID     string
	NewTraceID     string
	Position       string
	TotalDiffCount int
	SourceCombo    string
}

// ViolationRow is one persisted line of the field-compliance report.
type ViolationRow struct {
	Revision   Revision
	Record     ResultRecord
	InputQuery string
	Cache      CacheInfo
	Reasons    string
}

// MismatchRow is one persisted line of the type-coverage report: either a
// record served under a different category than requested, or an empty or
// failed response for the requested category.
type MismatchRow struct {
	Query         string
	RequestedType InformationType
	ActualType    string
	TraceID       string
	EmptyResponse string
}

// CoverageKey addresses one counter of the coverage table.
type CoverageKey struct {
	Revision Revision
	Bucket   CacheBucket
	Type     InformationType
}

// CoverageCounters maps (revision, cache-bucket, information type) to the
// number of records observed in that slice of the corpus.
type CoverageCounters map[CoverageKey]int

// Clone returns an independent copy of the counters.
func (c CoverageCounters) Clone() CoverageCounters {
	out := make(CoverageCounters, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
