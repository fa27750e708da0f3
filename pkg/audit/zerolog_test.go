package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func sinkWithBuffer() (*ZerologSink, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewZerologSink(zerolog.New(&buf)), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var fields map[string]any
	if err := json.Unmarshal(buf.Bytes(), &fields); err != nil {
		t.Fatalf("audit line is not JSON: %v\n%s", err, buf.String())
	}
	return fields
}

func TestZerologSink_LogAccess(t *testing.T) {
	sink, buf := sinkWithBuffer()

	sink.LogAccess("Machine", "abc123", "read", "req-1",
		Event{UserID: "operator", IP: "10.0.0.9", Meta: map[string]any{"outcome": "success"}}, nil)

	fields := decodeLine(t, buf)
	if fields["event"] != "access" {
		t.Errorf("event = %v, want access", fields["event"])
	}
	if fields["resource"] != "Machine" {
		t.Errorf("resource = %v, want Machine", fields["resource"])
	}
	if fields["resource_id"] != "abc123" {
		t.Errorf("resource_id = %v, want abc123", fields["resource_id"])
	}
	if fields["user_id"] != "operator" {
		t.Errorf("user_id = %v, want operator", fields["user_id"])
	}
	meta, _ := fields["meta"].(map[string]any)
	if meta["outcome"] != "success" {
		t.Errorf("meta = %v, want outcome success", fields["meta"])
	}
}

func TestZerologSink_LogFailure(t *testing.T) {
	sink, buf := sinkWithBuffer()

	sink.LogFailure("Machine", "abc123", "read", "req-1", errors.New("boom"), Event{})

	fields := decodeLine(t, buf)
	if fields["event"] != "failure" {
		t.Errorf("event = %v, want failure", fields["event"])
	}
	if fields["error"] != "boom" {
		t.Errorf("error = %v, want boom", fields["error"])
	}
	if fields["level"] != "warn" {
		t.Errorf("level = %v, want warn", fields["level"])
	}
}

func TestZerologSink_LogCacheOp(t *testing.T) {
	sink, buf := sinkWithBuffer()

	sink.LogCacheOp("Machine", OpSet, "req-1", "abc123", map[string]any{"ttl_seconds": 60})

	fields := decodeLine(t, buf)
	if fields["event"] != "cache" {
		t.Errorf("event = %v, want cache", fields["event"])
	}
	if fields["op"] != "set" {
		t.Errorf("op = %v, want set", fields["op"])
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()

	rec.LogAccess("Machine", "abc123", "read", "req-1", Event{}, nil)
	rec.LogFailure("Machine", "abc123", "read", "req-1", errors.New("boom"), Event{})
	rec.LogCacheOp("Machine", OpHit, "req-1", "abc123", nil)
	rec.LogCacheOp("Machine", OpMiss, "req-2", "abc123", nil)
	rec.LogCacheOp("Tag", OpHit, "req-3", "web", nil)

	if len(rec.Accesses) != 1 || len(rec.Failures) != 1 || len(rec.CacheOps) != 3 {
		t.Fatalf("unexpected record counts: %d/%d/%d",
			len(rec.Accesses), len(rec.Failures), len(rec.CacheOps))
	}

	hits := rec.OpsOfType(OpHit)
	if len(hits) != 2 {
		t.Fatalf("OpsOfType(OpHit) = %d records, want 2", len(hits))
	}
	if hits[1].Resource != "Tag" {
		t.Errorf("second hit resource = %s, want Tag", hits[1].Resource)
	}
}
