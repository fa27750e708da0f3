package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lspecian/maas-mcp-server/pkg/audit"
	"github.com/lspecian/maas-mcp-server/pkg/cache"
	"github.com/lspecian/maas-mcp-server/pkg/logging"
	"github.com/lspecian/maas-mcp-server/pkg/mcperr"
	"github.com/lspecian/maas-mcp-server/pkg/schema"
	"github.com/lspecian/maas-mcp-server/pkg/uritemplate"
)

// Request is one resource read. Scoped to a single call, never shared.
type Request struct {
	// URI is the concrete resource URI.
	URI string

	// RequestID identifies the request in audit events. Generated when
	// empty.
	RequestID string

	// Format optionally selects the response representation ("json" or
	// "xml"). Empty means JSON.
	Format string

	// UserID and IP attribute the request in audit events.
	UserID string
	IP     string
}

// Pipeline serves one registered resource. Concurrent requests for the same
// key are not deduplicated: two simultaneous misses may both fetch and both
// write the cache, last write wins.
type Pipeline struct {
	desc    Descriptor
	store   cache.Store
	fetcher Fetcher
	audit   audit.Logger
	logger  zerolog.Logger

	mu   sync.RWMutex
	opts cache.Options
}

// New creates a pipeline for a resource descriptor.
func New(desc Descriptor, store cache.Store, fetcher Fetcher, auditLog audit.Logger, opts cache.Options) (*Pipeline, error) {
	if err := desc.validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("descriptor %s: cache store is required", desc.Name)
	}
	if fetcher == nil {
		return nil, fmt.Errorf("descriptor %s: fetcher is required", desc.Name)
	}
	if auditLog == nil {
		auditLog = audit.Nop{}
	}

	return &Pipeline{
		desc:    desc,
		store:   store,
		fetcher: fetcher,
		audit:   auditLog,
		logger:  logging.NewLogger("pipeline").With().Str("resource", desc.Name).Logger(),
		opts:    opts,
	}, nil
}

// Descriptor returns the resource registration data.
func (p *Pipeline) Descriptor() Descriptor {
	return p.desc
}

// CacheOptions returns the current per-resource cache options.
func (p *Pipeline) CacheOptions() cache.Options {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.opts
}

// UpdateCacheOptions replaces the per-resource cache options. Entries
// already stored keep the TTL they were written with.
func (p *Pipeline) UpdateCacheOptions(opts cache.Options, requestID string) {
	p.mu.Lock()
	p.opts = opts
	p.mu.Unlock()

	p.audit.LogCacheOp(p.desc.Name, audit.OpUpdateOptions, requestID, "", map[string]any{
		"enabled":     opts.Enabled,
		"ttl_seconds": opts.TTLSeconds,
	})
}

// InvalidateCache removes every cached entry of the resource and returns
// the number removed.
func (p *Pipeline) InvalidateCache(ctx context.Context, requestID string) int {
	count := p.store.InvalidateResource(ctx, p.desc.Name)
	p.audit.LogCacheOp(p.desc.Name, audit.OpInvalidateAll, requestID, "", map[string]any{"count": count})
	return count
}

// InvalidateCacheByID removes the cached entries for one resource instance
// and returns the number removed.
func (p *Pipeline) InvalidateCacheByID(ctx context.Context, id, requestID string) int {
	count := p.store.InvalidateResourceByID(ctx, p.desc.Name, id)
	p.audit.LogCacheOp(p.desc.Name, audit.OpInvalidateByID, requestID, id, map[string]any{"count": count})
	return count
}

// Read runs the request lifecycle: match the URI, validate parameters,
// probe the cache, fetch on a miss, validate the payload, store it and
// render the response. A response is either served entirely from one cache
// entry or entirely freshly fetched and validated.
//
// Every fault is classified exactly once, mirrored to the audit sink, and
// returned as a *mcperr.Error; nothing is swallowed and failures are never
// cached.
func (p *Pipeline) Read(ctx context.Context, req Request) (*Result, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	opts := p.CacheOptions()
	ev := audit.Event{UserID: req.UserID, IP: req.IP}

	startTime := time.Now()
	defer func() {
		resourceRequestDuration.WithLabelValues(p.desc.Name).Observe(time.Since(startTime).Seconds())
	}()

	// Stage 1: bind URI parameters.
	params, ok := uritemplate.Match(req.URI, p.desc.URIPattern)
	if !ok {
		err := mcperr.New(mcperr.KindMissingParameter, p.desc.Name,
			fmt.Sprintf("URI '%s' does not match pattern '%s'", req.URI, p.desc.URIPattern))
		return nil, p.fail(req, "", err, ev)
	}

	// Stage 2: parameter validation. Failures never reach the fetch stage.
	validated, err := p.desc.ParamsSchema.Validate(paramsToAny(params))
	if err != nil {
		classified := &mcperr.Error{
			Kind:         mcperr.KindInvalidParameters,
			HTTPStatus:   400,
			Message:      fmt.Sprintf("Invalid parameters for %s", p.desc.Name),
			ResourceName: p.desc.Name,
			Details:      validationIssues(err),
			Err:          err,
		}
		return nil, p.fail(req, "", classified, ev)
	}
	if validatedMap, ok := validated.(map[string]any); ok {
		params = flattenParams(validatedMap)
	}

	resourceID := ""
	if p.desc.IDParam != "" {
		resourceID = params[p.desc.IDParam]
	}

	// Stage 3: audit the access attempt.
	p.audit.LogAccess(p.desc.Name, resourceID, "read", req.RequestID, ev, nil)

	// Stage 4: cache probe.
	cachingOn := p.store.Enabled() && opts.Enabled
	var key string
	if cachingOn {
		key = cache.GenerateKey(p.desc.Name, req.URI, params, opts.IncludeQueryParams)
		if entry, hit := p.store.Get(ctx, key); hit {
			p.audit.LogCacheOp(p.desc.Name, audit.OpHit, req.RequestID, resourceID, nil)
			resourceRequestsTotal.WithLabelValues(p.desc.Name, "hit").Inc()
			p.logger.Debug().
				Str("request_id", req.RequestID).
				Str("key", key).
				Bool("cache_hit", true).
				Msg("Serving resource from cache")
			return p.render(req, entry.Value, true, entry.Age(time.Now()), entry.TTLSeconds, opts)
		}
		p.audit.LogCacheOp(p.desc.Name, audit.OpMiss, req.RequestID, resourceID, nil)
	}

	// Stage 5: upstream fetch with the caller's cancellation signal.
	endpoint, queryParams := resolveEndpoint(p.desc.APIEndpoint, params)
	value, err := p.fetcher.Fetch(ctx, endpoint, queryParams)
	if err != nil {
		return nil, p.fail(req, resourceID, err, ev)
	}

	elementCount := 0
	if p.desc.Cardinality == Collection {
		elements, ok := value.([]any)
		if !ok {
			err := mcperr.New(mcperr.KindUnexpectedError, p.desc.Name,
				fmt.Sprintf("Invalid response format: Expected an array of %s", p.desc.Name))
			return nil, p.fail(req, resourceID, err, ev)
		}
		elementCount = len(elements)

		// Stage 6 (collection): all-or-nothing element validation.
		for i, element := range elements {
			if _, err := p.desc.DataSchema.Validate(element); err != nil {
				return nil, p.fail(req, resourceID, p.dataValidationError(err, i), ev)
			}
		}
	} else {
		// Stage 6 (single).
		if _, err := p.desc.DataSchema.Validate(value); err != nil {
			return nil, p.fail(req, resourceID, p.dataValidationError(err, -1), ev)
		}
	}

	// Stage 7: populate the cache. A fetch completing after the caller
	// cancelled does not write the cache.
	ttl := p.store.EffectiveTTL(p.desc.Name, opts)
	if cachingOn && ctx.Err() == nil {
		p.store.Set(ctx, key, value, p.desc.Name, opts)
		p.audit.LogCacheOp(p.desc.Name, audit.OpSet, req.RequestID, resourceID, map[string]any{"ttl_seconds": ttl})
	}

	// Stage 8: audit success.
	successEv := ev
	if p.desc.Cardinality == Collection {
		successEv.Meta = map[string]any{"outcome": "success", "count": elementCount}
	} else {
		successEv.Meta = map[string]any{"outcome": "success"}
	}
	p.audit.LogAccess(p.desc.Name, resourceID, "read", req.RequestID, successEv, nil)
	resourceRequestsTotal.WithLabelValues(p.desc.Name, "miss").Inc()

	p.logger.Debug().
		Str("request_id", req.RequestID).
		Bool("cache_hit", false).
		Int("ttl", ttl).
		Msg("Serving freshly fetched resource")

	// Stage 9: render.
	return p.render(req, value, false, 0, ttl, opts)
}

// fail classifies a fault, mirrors it to the audit sink and returns it.
func (p *Pipeline) fail(req Request, resourceID string, err error, ev audit.Event) error {
	classified := mcperr.Classify(err, p.desc.Name, resourceID)
	p.audit.LogFailure(p.desc.Name, resourceID, "read", req.RequestID, classified, ev)
	resourceRequestsTotal.WithLabelValues(p.desc.Name, "error").Inc()
	resourceErrorsTotal.WithLabelValues(p.desc.Name, string(classified.Kind)).Inc()

	p.logger.Debug().
		Str("request_id", req.RequestID).
		Str("kind", string(classified.Kind)).
		Int("status", classified.HTTPStatus).
		Msg("Resource read failed")
	return classified
}

// dataValidationError wraps a schema failure of the fetched payload.
// elementIndex is -1 for single resources.
func (p *Pipeline) dataValidationError(err error, elementIndex int) *mcperr.Error {
	message := fmt.Sprintf("Invalid %s data from MAAS", p.desc.Name)
	if elementIndex >= 0 {
		message = fmt.Sprintf("Invalid %s data from MAAS at index %d", p.desc.Name, elementIndex)
	}
	return &mcperr.Error{
		Kind:         mcperr.KindValidationError,
		HTTPStatus:   422,
		Message:      message,
		ResourceName: p.desc.Name,
		Details:      validationIssues(err),
		Err:          err,
	}
}

// validationIssues extracts structured issues from a schema failure.
func validationIssues(err error) []mcperr.ValidationIssue {
	var validationErr *schema.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Issues
	}
	return []mcperr.ValidationIssue{{Message: err.Error()}}
}

// resolveEndpoint substitutes bound parameters into the endpoint template.
// Parameters not consumed by a placeholder are passed through as fetch
// query values.
func resolveEndpoint(endpoint string, params map[string]string) (string, map[string]string) {
	remaining := make(map[string]string, len(params))
	for name, val := range params {
		placeholder := "{" + name + "}"
		if strings.Contains(endpoint, placeholder) {
			endpoint = strings.ReplaceAll(endpoint, placeholder, val)
			continue
		}
		remaining[name] = val
	}
	if len(remaining) == 0 {
		remaining = nil
	}
	return endpoint, remaining
}

// paramsToAny converts bound parameters for schema validation.
func paramsToAny(params map[string]string) map[string]any {
	out := make(map[string]any, len(params))
	for name, val := range params {
		out[name] = val
	}
	return out
}

// flattenParams reduces validated parameters back to single string values,
// taking the first element when a value is array-shaped.
func flattenParams(validated map[string]any) map[string]string {
	out := make(map[string]string, len(validated))
	for name, val := range validated {
		switch v := val.(type) {
		case string:
			out[name] = v
		case []any:
			if len(v) > 0 {
				out[name] = fmt.Sprintf("%v", v[0])
			}
		default:
			out[name] = fmt.Sprintf("%v", v)
		}
	}
	return out
}
