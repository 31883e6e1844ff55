package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"SearchAudit/internal/domain"
	"SearchAudit/internal/ports"
)

// TypeCoverDeps wires the collaborators of the type-coverage run.
type TypeCoverDeps struct {
	Prober   ports.Prober
	Sink     ports.MismatchSink
	Logger   *slog.Logger
	Endpoint domain.Endpoint
	Pool     Pool
}

// TypeCoverPipeline issues each query once per information type, with the
// child search type pinned to that type, and reports every response that
// comes back empty or carries records of a different type.
type TypeCoverPipeline struct {
	prober   ports.Prober
	sink     ports.MismatchSink
	logger   *slog.Logger
	endpoint domain.Endpoint
	pool     Pool
}

// NewTypeCoverPipeline constructs the type-coverage run.
func NewTypeCoverPipeline(deps TypeCoverDeps) *TypeCoverPipeline {
	return &TypeCoverPipeline{
		prober:   deps.Prober,
		sink:     deps.Sink,
		logger:   deps.Logger,
		endpoint: deps.Endpoint,
		pool:     deps.Pool,
	}
}

// Run processes the whole corpus.
func (p *TypeCoverPipeline) Run(ctx context.Context, queries []string) error {
	return p.pool.Run(ctx, queries, p.logger, p.processQuery)
}

func (p *TypeCoverPipeline) processQuery(ctx context.Context, query string) error {
	for _, infoType := range domain.AllInformationTypes {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.probeType(ctx, query, infoType)
	}
	return nil
}

func (p *TypeCoverPipeline) probeType(ctx context.Context, query string, infoType domain.InformationType) {
	result, err := p.prober.Probe(ctx, p.endpoint, query, infoType)
	if err != nil {
		// Under a bounded retry policy the probe can give up. The failure
		// still gets a row so the coverage table stays complete.
		p.writeRow(domain.MismatchRow{
			Query:         query,
			RequestedType: infoType,
			ActualType:    fmt.Sprintf("ERROR: %v", err),
			TraceID:       uuid.NewString(),
			EmptyResponse: "YES",
		})
		return
	}

	if !result.DataValid || len(result.Records) == 0 {
		p.writeRow(domain.MismatchRow{
			Query:         query,
			RequestedType: infoType,
			ActualType:    "EMPTY_RESPONSE",
			TraceID:       result.CorrelationID,
			EmptyResponse: "YES",
		})
		return
	}

	for _, rec := range result.Records {
		if rec.InformationType == infoType {
			continue
		}
		p.writeRow(domain.MismatchRow{
			Query:         query,
			RequestedType: infoType,
			ActualType:    string(rec.InformationType),
			TraceID:       result.CorrelationID,
			EmptyResponse: "NO",
		})
	}
}

func (p *TypeCoverPipeline) writeRow(row domain.MismatchRow) {
	if err := p.sink.WriteMismatch(row); err != nil {
		p.logger.Error("mismatch row not persisted", "query", row.Query, "error", err)
	}
}
