package audit

import "sync"

// AccessRecord is one recorded access or success event.
type AccessRecord struct {
	Resource  string
	ID        string
	Action    string
	RequestID string
	Event     Event
	Snapshot  any
}

// FailureRecord is one recorded failure event.
type FailureRecord struct {
	Resource  string
	ID        string
	Action    string
	RequestID string
	Err       error
	Event     Event
}

// CacheRecord is one recorded cache event.
type CacheRecord struct {
	Resource  string
	Op        CacheOp
	RequestID string
	ID        string
	Meta      map[string]any
}

// Recorder is an in-memory Logger for tests.
type Recorder struct {
	mu       sync.Mutex
	Accesses []AccessRecord
	Failures []FailureRecord
	CacheOps []CacheRecord
}

var _ Logger = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// LogAccess implements Logger.
func (r *Recorder) LogAccess(resource, id, action, requestID string, ev Event, snapshot any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Accesses = append(r.Accesses, AccessRecord{
		Resource: resource, ID: id, Action: action, RequestID: requestID,
		Event: ev, Snapshot: snapshot,
	})
}

// LogFailure implements Logger.
func (r *Recorder) LogFailure(resource, id, action, requestID string, err error, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, FailureRecord{
		Resource: resource, ID: id, Action: action, RequestID: requestID,
		Err: err, Event: ev,
	})
}

// LogCacheOp implements Logger.
func (r *Recorder) LogCacheOp(resource string, op CacheOp, requestID, id string, meta map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CacheOps = append(r.CacheOps, CacheRecord{
		Resource: resource, Op: op, RequestID: requestID, ID: id, Meta: meta,
	})
}

// OpsOfType returns the recorded cache events of one type.
func (r *Recorder) OpsOfType(op CacheOp) []CacheRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []CacheRecord
	for _, rec := range r.CacheOps {
		if rec.Op == op {
			out = append(out, rec)
		}
	}
	return out
}
