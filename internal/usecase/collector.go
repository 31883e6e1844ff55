package usecase

import (
	"context"
	"log/slog"

	"SearchAudit/internal/domain"
	"SearchAudit/internal/ports"
)

// Collector gathers repeated probe samples for one query against one
// revision. It never fails: probes that error out under a bounded retry
// policy are logged and dropped, so callers may receive fewer samples than
// requested, down to zero.
type Collector struct {
	prober ports.Prober
	logger *slog.Logger
}

// NewCollector wires a prober.
func NewCollector(prober ports.Prober, logger *slog.Logger) *Collector {
	return &Collector{prober: prober, logger: logger}
}

// Collect issues n independent sequential probes and returns the successful
// ones in probe order.
func (c *Collector) Collect(ctx context.Context, endpoint domain.Endpoint, query string, n int) []domain.ProbeResult {
	samples := make([]domain.ProbeResult, 0, n)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}

		result, err := c.prober.Probe(ctx, endpoint, query, "")
		if err != nil {
			c.warn("sample dropped",
				"revision", endpoint.Revision,
				"query", query,
				"sample", i+1,
				"error", err,
			)
			continue
		}
		samples = append(samples, result)
	}
	return samples
}

func (c *Collector) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
