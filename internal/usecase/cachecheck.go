package usecase

import (
	"context"
	"log/slog"

	"SearchAudit/internal/domain"
	"SearchAudit/internal/ports"
)

// CacheCheckDeps wires the collaborators of the cache-status run.
type CacheCheckDeps struct {
	Prober   ports.Prober
	Sink     ports.CacheSink
	Logger   *slog.Logger
	Endpoint domain.Endpoint
	Pool     Pool
}

// CacheCheckPipeline probes each query once and records the cache metadata
// the backend reported for it.
type CacheCheckPipeline struct {
	prober   ports.Prober
	sink     ports.CacheSink
	logger   *slog.Logger
	endpoint domain.Endpoint
	pool     Pool
}

// NewCacheCheckPipeline constructs the cache-status run.
func NewCacheCheckPipeline(deps CacheCheckDeps) *CacheCheckPipeline {
	return &CacheCheckPipeline{
		prober:   deps.Prober,
		sink:     deps.Sink,
		logger:   deps.Logger,
		endpoint: deps.Endpoint,
		pool:     deps.Pool,
	}
}

// Run processes the whole corpus.
func (p *CacheCheckPipeline) Run(ctx context.Context, queries []string) error {
	return p.pool.Run(ctx, queries, p.logger, p.processQuery)
}

func (p *CacheCheckPipeline) processQuery(ctx context.Context, query string) error {
	result, err := p.prober.Probe(ctx, p.endpoint, query, "")
	if err != nil {
		return err
	}

	p.logger.Info("cache status",
		"query", query,
		"cache_present", result.Cache.Present,
		"cache_hit", result.Cache.Hit,
		"trace_id", result.ServerTraceID,
	)
	if err := p.sink.WriteCacheRow(query, result); err != nil {
		p.logger.Error("cache row not persisted", "query", query, "error", err)
	}
	return nil
}
