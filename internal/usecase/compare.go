package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"SearchAudit/internal/diffing"
	"SearchAudit/internal/domain"
	"SearchAudit/internal/ports"
)

// CompareDeps wires the collaborators of the consistency run.
type CompareDeps struct {
	Collector   *Collector
	Sink        ports.DiffSink
	Logger      *slog.Logger
	OldEndpoint domain.Endpoint
	NewEndpoint domain.Endpoint
	Samples     int
	Pool        Pool
}

// ComparePipeline replays each query against both revisions, samples each
// side several times, and reports the id differences of the best-matching
// pairing. Repeated sampling filters out backend non-determinism so that
// only genuine behavioral divergence produces rows.
type ComparePipeline struct {
	collector   *Collector
	sink        ports.DiffSink
	logger      *slog.Logger
	oldEndpoint domain.Endpoint
	newEndpoint domain.Endpoint
	samples     int
	pool        Pool

	processed atomic.Int64
	withDiffs atomic.Int64
	diffItems atomic.Int64
}

// NewComparePipeline constructs the consistency run.
func NewComparePipeline(deps CompareDeps) *ComparePipeline {
	samples := deps.Samples
	if samples <= 0 {
		samples = 3
	}
	return &ComparePipeline{
		collector:   deps.Collector,
		sink:        deps.Sink,
		logger:      deps.Logger,
		oldEndpoint: deps.OldEndpoint,
		newEndpoint: deps.NewEndpoint,
		samples:     samples,
		pool:        deps.Pool,
	}
}

// Run processes the whole corpus and logs a final summary.
func (p *ComparePipeline) Run(ctx context.Context, queries []string) error {
	err := p.pool.Run(ctx, queries, p.logger, p.processQuery)

	p.logger.Info("compare run finished",
		"queries", len(queries),
		"processed", p.processed.Load(),
		"queries_with_diffs", p.withDiffs.Load(),
		"total_diff_entries", p.diffItems.Load(),
	)
	return err
}

func (p *ComparePipeline) processQuery(ctx context.Context, query string) error {
	oldSamples := p.collector.Collect(ctx, p.oldEndpoint, query, p.samples)
	newSamples := p.collector.Collect(ctx, p.newEndpoint, query, p.samples)

	if len(oldSamples) < p.samples || len(newSamples) < p.samples {
		p.logger.Warn("incomplete sample set",
			"query", query,
			"old_samples", len(oldSamples),
			"new_samples", len(newSamples),
		)
	}
	if len(oldSamples) == 0 || len(newSamples) == 0 {
		p.logger.Warn("query skipped, no samples on one side", "query", query)
		return nil
	}

	best, ok := diffing.BestPairing(toSamples(oldSamples, "old"), toSamples(newSamples, "new"))
	if !ok {
		return nil
	}

	p.processed.Add(1)
	combo := fmt.Sprintf("%sx%s", best.Old.Label, best.New.Label)

	if best.Report.TotalDiffCount == 0 {
		p.logger.Info("query consistent", "query", query, "combo", combo)
		return nil
	}

	p.withDiffs.Add(1)
	p.diffItems.Add(int64(best.Report.TotalDiffCount))
	p.logger.Info("query diverged",
		"query", query,
		"combo", combo,
		"diff_count", best.Report.TotalDiffCount,
	)

	if err := p.sink.WriteDiffRows(buildDiffRows(query, combo, best)); err != nil {
		// Persistence failures are not fatal; the row is lost, the run
		// continues.
		p.logger.Error("diff rows not persisted", "query", query, "error", err)
	}
	return nil
}

func toSamples(results []domain.ProbeResult, side string) []diffing.Sample {
	samples := make([]diffing.Sample, 0, len(results))
	for i, res := range results {
		samples = append(samples, diffing.Sample{
			IDs:           res.IDs(),
			CorrelationID: res.CorrelationID,
			Label:         fmt.Sprintf("%s_%d", side, i+1),
		})
	}
	return samples
}

// buildDiffRows serializes the winning pairing: one row per set-difference
// id and one per order change.
func buildDiffRows(query, combo string, best diffing.Pairing) []domain.DiffRow {
	report := best.Report
	rows := make([]domain.DiffRow, 0, report.TotalDiffCount)

	for _, id := range report.OnlyInOld {
		rows = append(rows, domain.DiffRow{
			Query:          query,
			OldID:          id,
			DiffType:       domain.DiffOnlyInOld,
			OldTraceID:     best.Old.CorrelationID,
			TotalDiffCount: report.TotalDiffCount,
			SourceCombo:    combo,
		})
	}
	for _, id := range report.OnlyInNew {
		rows = append(rows, domain.DiffRow{
			Query:          query,
			NewID:          id,
			DiffType:       domain.DiffOnlyInNew,
			NewTraceID:     best.New.CorrelationID,
			TotalDiffCount: report.TotalDiffCount,
			SourceCombo:    combo,
		})
	}
	for _, change := range report.OrderChanges {
		rows = append(rows, domain.DiffRow{
			Query:          query,
			OldID:          change.OldID,
			NewID:          change.NewID,
			DiffType:       domain.DiffOrder,
			OldTraceID:     best.Old.CorrelationID,
			NewTraceID:     best.New.CorrelationID,
			Position:       strconv.Itoa(change.Position),
			TotalDiffCount: report.TotalDiffCount,
			SourceCombo:    combo,
		})
	}

	return rows
}
