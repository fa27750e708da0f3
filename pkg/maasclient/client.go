// Package maasclient provides the read-only MAAS REST API client used as
// the upstream fetch collaborator of the resource pipeline.
package maasclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lspecian/maas-mcp-server/pkg/mcperr"
)

// Prometheus metrics for MAAS API operations.
var (
	maasRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maas_requests_total",
		Help: "Total MAAS API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	maasRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maas_request_duration_seconds",
		Help:    "MAAS API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	maasErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maas_errors_total",
		Help: "Total MAAS API errors by class",
	}, []string{"class"})
)

// Config holds the client configuration.
type Config struct {
	// BaseURL is the MAAS API root, e.g. "http://maas.example.com/MAAS/api/2.0".
	BaseURL string

	// APIKey is the MAAS API key in "consumer:token:secret" form.
	APIKey string

	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL, apiKey string) Config {
	return Config{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: 30 * time.Second,
	}
}

// Client is the MAAS API client. It retries transient upstream faults with
// exponential backoff and surfaces non-success responses as
// *mcperr.UpstreamError.
type Client struct {
	httpClient *http.Client
	config     Config
	auth       *apiKey
	logger     zerolog.Logger
}

// New creates a new MAAS client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	auth, err := parseAPIKey(cfg.APIKey)
	if err != nil {
		return nil, err
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		auth:   auth,
		logger: log.With().Str("component", "maas-client").Logger(),
	}, nil
}

// Fetch performs a GET against a MAAS endpoint and decodes the JSON
// response. It satisfies the pipeline's fetch collaborator contract: params
// become query-string values and the context carries the caller's
// cancellation signal.
func (c *Client) Fetch(ctx context.Context, endpoint string, params map[string]string) (any, error) {
	target := strings.TrimSuffix(c.config.BaseURL, "/") + "/" + strings.TrimPrefix(endpoint, "/")

	startTime := time.Now()
	defer func() {
		maasRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	var value any

	err := retryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		if len(params) > 0 {
			query := req.URL.Query()
			for key, val := range params {
				query.Set(key, val)
			}
			req.URL.RawQuery = query.Encode()
		}

		req.Header.Set("Accept", "application/json")
		if c.auth != nil {
			req.Header.Set("Authorization", c.auth.authorizationHeader())
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			maasErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			maasRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("MAAS request failed")
			return err
		}
		defer resp.Body.Close()

		maasRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode >= 400 {
			errClass := classifyStatus(resp.StatusCode)
			maasErrorsTotal.WithLabelValues(string(errClass)).Inc()
			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Str("error_class", string(errClass)).
				Msg("MAAS API error")
			return upstreamError(resp)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}

		value = nil
		if len(body) > 0 {
			if err := json.Unmarshal(body, &value); err != nil {
				return fmt.Errorf("decode MAAS response: %w", err)
			}
		}
		return nil
	}, func(err error) ErrorClass {
		// Cancellation and deadline faults belong to the caller, never retry.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ""
		}
		var upstream *mcperr.UpstreamError
		if errors.As(err, &upstream) {
			return classifyStatus(upstream.StatusCode)
		}
		return ErrorClassNetwork
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// upstreamError builds an *mcperr.UpstreamError from a non-success response.
func upstreamError(resp *http.Response) error {
	upstream := &mcperr.UpstreamError{
		StatusCode: resp.StatusCode,
	}

	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			upstream.RetryAfter = seconds
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8192))
	if err != nil || len(body) == 0 {
		return upstream
	}

	// MAAS error bodies are either plain text or {"code": ..., "details": ...}.
	var payload struct {
		Code    string `json:"code"`
		Details any    `json:"details"`
	}
	if jsonErr := json.Unmarshal(body, &payload); jsonErr == nil && payload.Code != "" {
		upstream.Code = payload.Code
		upstream.Details = payload.Details
	} else {
		upstream.Details = strings.TrimSpace(string(body))
	}
	return upstream
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
