// Package audit records access, failure and cache events for resource
// reads. The sink is observability only: implementations must never return
// a failure into the request path.
package audit

// CacheOp identifies a cache event type.
type CacheOp string

const (
	OpHit              CacheOp = "hit"
	OpMiss             CacheOp = "miss"
	OpSet              CacheOp = "set"
	OpInvalidateAll    CacheOp = "invalidate_all"
	OpInvalidateByID   CacheOp = "invalidate_by_id"
	OpUpdateOptions    CacheOp = "update_options"
)

// Event carries the optional attribution fields shared by audit records.
type Event struct {
	UserID string
	IP     string
	Meta   map[string]any
}

// Logger is the audit sink consumed by the pipeline. Implementations are
// fire-and-forget.
type Logger interface {
	// LogAccess records a read attempt or success.
	LogAccess(resource, id, action, requestID string, ev Event, snapshot any)

	// LogFailure records a failed read with its classified error.
	LogFailure(resource, id, action, requestID string, err error, ev Event)

	// LogCacheOp records a cache event.
	LogCacheOp(resource string, op CacheOp, requestID, id string, meta map[string]any)
}

// Nop is a Logger that discards everything. Used when audit logging is
// disabled.
type Nop struct{}

var _ Logger = Nop{}

func (Nop) LogAccess(string, string, string, string, Event, any)       {}
func (Nop) LogFailure(string, string, string, string, error, Event)    {}
func (Nop) LogCacheOp(string, CacheOp, string, string, map[string]any) {}
