package app

import (
	"context"
	"log/slog"
	"net/http"

	"SearchAudit/internal/config"
	"SearchAudit/internal/coverage"
	"SearchAudit/internal/domain"
	"SearchAudit/internal/infrastructure/csvio"
	"SearchAudit/internal/infrastructure/searchapi"
	"SearchAudit/internal/logging"
	"SearchAudit/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	return &Application{cfg: cfg, logger: baseLogger}
}

// Compare runs the consistency check of both revisions over the query corpus.
func (a *Application) Compare(ctx context.Context) error {
	queries, err := a.queries()
	if err != nil {
		return err
	}

	sink, err := csvio.NewDiffWriter(a.cfg.Files.DiffReport)
	if err != nil {
		return err
	}
	defer sink.Close()

	pipeline := usecase.NewComparePipeline(usecase.CompareDeps{
		Collector:   usecase.NewCollector(a.prober(), a.logger.With("component", "collector")),
		Sink:        sink,
		Logger:      a.logger.With("component", "compare"),
		OldEndpoint: a.cfg.OldEndpoint(),
		NewEndpoint: a.cfg.NewEndpoint(),
		Samples:     a.cfg.Probe.Samples,
		Pool:        a.pool(),
	})
	return pipeline.Run(ctx, queries)
}

// Audit runs the field-compliance check over both revisions.
func (a *Application) Audit(ctx context.Context) error {
	queries, err := a.queries()
	if err != nil {
		return err
	}

	sink, err := csvio.NewViolationWriter(a.cfg.Files.Violations)
	if err != nil {
		return err
	}
	defer sink.Close()

	store := coverage.NewFileStore(a.cfg.Files.Coverage,
		[]domain.Revision{domain.RevisionOld, domain.RevisionNew},
		a.logger.With("component", "coverage"))

	pipeline, err := usecase.NewAuditPipeline(usecase.AuditDeps{
		Prober:        a.prober(),
		Sink:          sink,
		CoverageStore: store,
		Logger:        a.logger.With("component", "audit"),
		Endpoints:     []domain.Endpoint{a.cfg.OldEndpoint(), a.cfg.NewEndpoint()},
		Pool:          a.pool(),
	})
	if err != nil {
		return err
	}
	return pipeline.Run(ctx, queries)
}

// CacheCheck records the cache status of one revision per query.
func (a *Application) CacheCheck(ctx context.Context, rev domain.Revision) error {
	queries, err := a.queries()
	if err != nil {
		return err
	}

	sink, err := csvio.NewCacheWriter(a.cfg.Files.CacheReport)
	if err != nil {
		return err
	}
	defer sink.Close()

	pipeline := usecase.NewCacheCheckPipeline(usecase.CacheCheckDeps{
		Prober:   a.prober(),
		Sink:     sink,
		Logger:   a.logger.With("component", "cachecheck"),
		Endpoint: a.cfg.Endpoint(rev),
		Pool:     a.pool(),
	})
	return pipeline.Run(ctx, queries)
}

// TypeCover checks per-category responses of one revision for every query.
func (a *Application) TypeCover(ctx context.Context, rev domain.Revision) error {
	queries, err := a.queries()
	if err != nil {
		return err
	}

	sink, err := csvio.NewMismatchWriter(a.cfg.Files.Mismatches)
	if err != nil {
		return err
	}
	defer sink.Close()

	// Type coverage probes 10 categories per query, so giving up after a
	// few attempts beats stalling the whole matrix on one dead category.
	prober := searchapi.NewClient(a.httpClient(), searchapi.Policy{
		MaxAttempts: 3,
		Backoff:     a.cfg.Probe.RetryBackoff,
	}, a.logger.With("component", "prober"))

	pipeline := usecase.NewTypeCoverPipeline(usecase.TypeCoverDeps{
		Prober:   prober,
		Sink:     sink,
		Logger:   a.logger.With("component", "typecover"),
		Endpoint: a.cfg.Endpoint(rev),
		Pool:     a.pool(),
	})
	return pipeline.Run(ctx, queries)
}

func (a *Application) queries() ([]string, error) {
	return csvio.QueryFile{Path: a.cfg.Files.Queries}.Queries()
}

func (a *Application) prober() *searchapi.Client {
	return searchapi.NewClient(a.httpClient(), searchapi.Policy{
		MaxAttempts: a.cfg.Probe.MaxAttempts,
		Backoff:     a.cfg.Probe.RetryBackoff,
	}, a.logger.With("component", "prober"))
}

func (a *Application) httpClient() *http.Client {
	return &http.Client{Timeout: a.cfg.Probe.RequestTimeout}
}

func (a *Application) pool() usecase.Pool {
	return usecase.Pool{
		Workers:  a.cfg.Probe.Workers,
		Interval: a.cfg.Probe.QueryInterval,
	}
}
