// Package metrics provides a central reference for the Prometheus metrics
// exported by the MAAS MCP server. All metrics are defined in their
// respective packages (pipeline, cache, maasclient) to maintain modularity
// and avoid circular dependencies.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the server.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Pipeline Metrics (pkg/pipeline):
//   - mcp_resource_requests_total{resource, outcome} (Counter): Resource reads by outcome (hit, miss, error)
//   - mcp_resource_request_duration_seconds{resource} (Histogram): Read duration by resource
//   - mcp_resource_errors_total{resource, kind} (Counter): Classified errors by kind
//
// Cache Metrics (pkg/cache):
//   - mcp_cache_hits_total{backend} (Counter): Cache hits by backend (memory, redis)
//   - mcp_cache_misses_total{backend} (Counter): Cache misses
//   - mcp_cache_evictions_total{backend, reason} (Counter): Evictions (expired, size)
//   - mcp_cache_invalidations_total{backend, scope} (Counter): Explicit invalidations (resource, resource_id)
//   - mcp_cache_entries{backend} (Gauge): Live entries
//   - mcp_cache_errors_total{operation} (Counter): Backend errors
//
// Upstream Metrics (pkg/maasclient):
//   - maas_requests_total{endpoint, status} (Counter): MAAS API requests by status
//   - maas_request_duration_seconds{endpoint} (Histogram): MAAS request duration
//   - maas_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//   - maas_retries_total{error_class} (Counter): Retry attempts
//   - maas_retry_backoff_seconds{error_class} (Histogram): Backoff durations
//   - maas_retry_exhausted_total{error_class} (Counter): Exhausted retry budgets
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(mcp_cache_hits_total[5m])) /
//   (sum(rate(mcp_cache_hits_total[5m])) + sum(rate(mcp_cache_misses_total[5m])))
//
//   # Error Rate by Kind
//   rate(mcp_resource_errors_total[5m])
//
//   # P95 Resource Read Latency
//   histogram_quantile(0.95, rate(mcp_resource_request_duration_seconds_bucket[5m]))
