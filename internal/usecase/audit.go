package usecase

import (
	"context"
	"log/slog"
	"sync"

	"SearchAudit/internal/coverage"
	"SearchAudit/internal/domain"
	"SearchAudit/internal/ports"
	"SearchAudit/internal/validation"
)

// AuditDeps wires the collaborators of the field-compliance run.
type AuditDeps struct {
	Prober        ports.Prober
	Sink          ports.ViolationSink
	CoverageStore ports.CoverageStore
	Logger        *slog.Logger
	Endpoints     []domain.Endpoint
	Pool          Pool
}

// AuditPipeline probes every query against each configured revision, checks
// each returned record against the field rules, and keeps resumable coverage
// counters by revision, cache state and information type.
type AuditPipeline struct {
	prober  ports.Prober
	sink    ports.ViolationSink
	store   ports.CoverageStore
	logger  *slog.Logger
	targets []domain.Endpoint
	pool    Pool

	mu      sync.Mutex
	tracker *coverage.Tracker
}

// NewAuditPipeline constructs the compliance run. Previously saved coverage
// counters are loaded so an interrupted run resumes counting where it
// stopped.
func NewAuditPipeline(deps AuditDeps) (*AuditPipeline, error) {
	initial, err := deps.CoverageStore.Load()
	if err != nil {
		return nil, err
	}
	return &AuditPipeline{
		prober:  deps.Prober,
		sink:    deps.Sink,
		store:   deps.CoverageStore,
		logger:  deps.Logger,
		targets: deps.Endpoints,
		pool:    deps.Pool,
		tracker: coverage.NewTracker(initial),
	}, nil
}

// Run processes the whole corpus and writes the final coverage snapshot.
func (p *AuditPipeline) Run(ctx context.Context, queries []string) error {
	err := p.pool.Run(ctx, queries, p.logger, p.processQuery)

	if saveErr := p.store.Save(p.tracker.Snapshot()); saveErr != nil {
		p.logger.Error("coverage snapshot not saved", "error", saveErr)
		if err == nil {
			err = saveErr
		}
	}
	return err
}

func (p *AuditPipeline) processQuery(ctx context.Context, query string) error {
	for _, endpoint := range p.targets {
		result, err := p.prober.Probe(ctx, endpoint, query, "")
		if err != nil {
			return err
		}
		p.inspect(endpoint, query, result)
	}

	// Persist after every query so an interrupted run loses at most the
	// counters of the query in flight.
	p.mu.Lock()
	snapshot := p.tracker.Snapshot()
	p.mu.Unlock()
	if err := p.store.Save(snapshot); err != nil {
		p.logger.Error("coverage snapshot not saved", "query", query, "error", err)
	}
	return nil
}

func (p *AuditPipeline) inspect(endpoint domain.Endpoint, query string, result domain.ProbeResult) {
	if !result.DataValid {
		row := domain.ViolationRow{
			Revision:   endpoint.Revision,
			InputQuery: query,
			Cache:      result.Cache,
			Reasons:    "response 'data' field is not a list",
		}
		if err := p.sink.WriteViolation(row); err != nil {
			p.logger.Error("violation row not persisted", "query", query, "error", err)
		}
		return
	}

	bucket := result.Cache.Bucket()
	for _, rec := range result.Records {
		if rec.InformationType != "" {
			p.mu.Lock()
			p.tracker.Record(endpoint.Revision, bucket, rec.InformationType)
			p.mu.Unlock()
		}

		reasons := validation.Validate(rec)
		if len(reasons) == 0 {
			continue
		}
		row := domain.ViolationRow{
			Revision:   endpoint.Revision,
			Record:     rec,
			InputQuery: query,
			Cache:      result.Cache,
			Reasons:    validation.JoinReasons(reasons),
		}
		if err := p.sink.WriteViolation(row); err != nil {
			p.logger.Error("violation row not persisted", "query", query, "error", err)
		}
	}
}
