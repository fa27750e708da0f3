package audit

import (
	"github.com/rs/zerolog"
)

// ZerologSink writes audit records as structured log events.
type ZerologSink struct {
	logger zerolog.Logger
}

var _ Logger = (*ZerologSink)(nil)

// NewZerologSink creates an audit sink on top of a zerolog logger.
func NewZerologSink(logger zerolog.Logger) *ZerologSink {
	return &ZerologSink{
		logger: logger.With().Str("component", "audit").Logger(),
	}
}

// LogAccess implements Logger.
func (s *ZerologSink) LogAccess(resource, id, action, requestID string, ev Event, snapshot any) {
	e := s.logger.Info().
		Str("event", "access").
		Str("resource", resource).
		Str("action", action).
		Str("request_id", requestID)
	addEvent(e, ev)
	if id != "" {
		e = e.Str("resource_id", id)
	}
	if snapshot != nil {
		e = e.Interface("snapshot", snapshot)
	}
	e.Msg("Resource access")
}

// LogFailure implements Logger.
func (s *ZerologSink) LogFailure(resource, id, action, requestID string, err error, ev Event) {
	e := s.logger.Warn().
		Str("event", "failure").
		Str("resource", resource).
		Str("action", action).
		Str("request_id", requestID).
		Err(err)
	addEvent(e, ev)
	if id != "" {
		e = e.Str("resource_id", id)
	}
	e.Msg("Resource access failed")
}

// LogCacheOp implements Logger.
func (s *ZerologSink) LogCacheOp(resource string, op CacheOp, requestID, id string, meta map[string]any) {
	e := s.logger.Debug().
		Str("event", "cache").
		Str("resource", resource).
		Str("op", string(op)).
		Str("request_id", requestID)
	if id != "" {
		e = e.Str("resource_id", id)
	}
	if len(meta) > 0 {
		e = e.Interface("meta", meta)
	}
	e.Msg("Cache operation")
}

func addEvent(e *zerolog.Event, ev Event) {
	if ev.UserID != "" {
		e.Str("user_id", ev.UserID)
	}
	if ev.IP != "" {
		e.Str("ip", ev.IP)
	}
	if len(ev.Meta) > 0 {
		e.Interface("meta", ev.Meta)
	}
}
