// Package searchapi implements the network prober for the search backend.
package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"SearchAudit/internal/domain"
	"SearchAudit/internal/ports"
)

const (
	defaultBackoff = 500 * time.Millisecond
	defaultTimeout = 10 * time.Second
)

// Policy controls the retry behavior of the prober. MaxAttempts <= 0 retries
// without bound, which is the production default: transient network
// flakiness must never skew the diff/validation signal, so a probe against a
// permanently-down endpoint blocks forever by design. Bounded policies exist
// for tests and for the collector's soft sample budget.
type Policy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// Unlimited is the production retry policy.
var Unlimited = Policy{Backoff: defaultBackoff}

// Client probes one search endpoint revision per call.
type Client struct {
	http   *http.Client
	policy Policy
	logger *slog.Logger
}

var _ ports.Prober = (*Client)(nil)

// NewClient wires an HTTP client and a retry policy.
func NewClient(httpClient *http.Client, policy Policy, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if policy.Backoff <= 0 {
		policy.Backoff = defaultBackoff
	}
	return &Client{http: httpClient, policy: policy, logger: logger}
}

// searchRequest is the wire shape of one probe. Embedding flattens the shared
// params next to the per-call fields.
type searchRequest struct {
	domain.SearchParams
	Query           string `json:"query"`
	TraceID         string `json:"traceid"`
	ChildSearchType string `json:"childSearchType,omitempty"`
}

type extraInfos struct {
	IsCache           *bool    `json:"isCache"`
	CacheTraceID      string   `json:"cacheTraceId"`
	DecomposedQueries []string `json:"decomposedQueries"`
}

type searchResponse struct {
	Data       json.RawMessage `json:"data"`
	ExtraInfos *extraInfos     `json:"extraInfos"`
	TraceID    string          `json:"traceId"`
}

// Probe issues one request and retries on any transport failure (connection
// error, timeout, non-2xx status, malformed body), sleeping the policy
// backoff between attempts with a fresh correlation id each time. Under an
// unbounded policy it never returns an error except on context cancellation.
func (c *Client) Probe(ctx context.Context, endpoint domain.Endpoint, query string, childType domain.InformationType) (domain.ProbeResult, error) {
	attempt := 0
	for {
		attempt++
		correlationID := uuid.NewString()

		result, err := c.attempt(ctx, endpoint, query, childType, correlationID)
		if err == nil {
			return result, nil
		}

		c.warn("probe attempt failed",
			"revision", endpoint.Revision,
			"endpoint", endpoint.URL,
			"query", query,
			"attempt", attempt,
			"trace_id", correlationID,
			"error", err,
		)

		if c.policy.MaxAttempts > 0 && attempt >= c.policy.MaxAttempts {
			return domain.ProbeResult{}, fmt.Errorf("probe %s after %d attempts: %w", endpoint.URL, attempt, err)
		}

		select {
		case <-ctx.Done():
			return domain.ProbeResult{}, ctx.Err()
		case <-time.After(c.policy.Backoff):
		}
	}
}

func (c *Client) attempt(ctx context.Context, endpoint domain.Endpoint, query string, childType domain.InformationType, correlationID string) (domain.ProbeResult, error) {
	payload := searchRequest{
		SearchParams:    endpoint.Params,
		Query:           strings.TrimSpace(query),
		TraceID:         correlationID,
		ChildSearchType: string(childType),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.ProbeResult{}, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.URL, bytes.NewReader(body))
	if err != nil {
		return domain.ProbeResult{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ProbeResult{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return domain.ProbeResult{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.ProbeResult{}, fmt.Errorf("decode response: %w", err)
	}

	return buildResult(parsed, correlationID)
}

// buildResult separates transport success from structural validity: a `data`
// field that is present but not a list marks the result invalid instead of
// triggering a retry.
func buildResult(parsed searchResponse, correlationID string) (domain.ProbeResult, error) {
	result := domain.ProbeResult{
		CorrelationID: correlationID,
		ServerTraceID: parsed.TraceID,
		DataValid:     true,
	}

	if extra := parsed.ExtraInfos; extra != nil {
		result.Cache.TraceID = extra.CacheTraceID
		result.DecomposedQueries = extra.DecomposedQueries
		if extra.IsCache != nil {
			result.Cache.Present = true
			result.Cache.Hit = *extra.IsCache
		}
	}

	data := bytes.TrimSpace(parsed.Data)
	switch {
	case len(data) == 0 || string(data) == "null":
		// Absent data is a valid empty response; an explicit null is not.
		result.DataValid = len(data) == 0
	case data[0] == '[':
		if err := json.Unmarshal(data, &result.Records); err != nil {
			return domain.ProbeResult{}, fmt.Errorf("decode data list: %w", err)
		}
	default:
		result.DataValid = false
	}

	return result, nil
}

func (c *Client) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
