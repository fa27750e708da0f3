package maasclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lspecian/maas-mcp-server/internal/testutil"
	"github.com/lspecian/maas-mcp-server/pkg/mcperr"
)

func newTestClient(t *testing.T, mock *testutil.MockMAAS) *Client {
	t.Helper()

	client, err := New(Config{
		BaseURL: mock.URL() + "/MAAS/api/2.0",
		APIKey:  "consumer:token:secret",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error for empty base URL")
	}
	if _, err := New(Config{BaseURL: "http://maas.example.com", APIKey: "not-three-parts"}); err == nil {
		t.Error("expected error for malformed API key")
	}
	if _, err := New(Config{BaseURL: "http://maas.example.com"}); err != nil {
		t.Errorf("empty API key should be accepted, got %v", err)
	}
}

func TestFetch_DecodesJSON(t *testing.T) {
	mock := testutil.NewMockMAAS()
	defer mock.Close()
	mock.SetResponse("/MAAS/api/2.0/machines/", testutil.NewJSONResponse(
		`[{"system_id": "abc123", "hostname": "node-1"}]`))

	client := newTestClient(t, mock)
	value, err := client.Fetch(context.Background(), "/machines/", nil)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	machines, ok := value.([]any)
	if !ok {
		t.Fatalf("expected []any, got %T", value)
	}
	if len(machines) != 1 {
		t.Fatalf("expected 1 machine, got %d", len(machines))
	}
	machine := machines[0].(map[string]any)
	if machine["hostname"] != "node-1" {
		t.Errorf("hostname = %v, want node-1", machine["hostname"])
	}
}

func TestFetch_ParamsBecomeQueryValues(t *testing.T) {
	mock := testutil.NewMockMAAS()
	defer mock.Close()

	var gotQuery string
	mock.SetHandler("/MAAS/api/2.0/machines/", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	client := newTestClient(t, mock)
	_, err := client.Fetch(context.Background(), "/machines/", map[string]string{"zone": "default"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if gotQuery != "zone=default" {
		t.Errorf("query = %q, want zone=default", gotQuery)
	}
}

func TestFetch_SendsOAuthHeader(t *testing.T) {
	mock := testutil.NewMockMAAS()
	defer mock.Close()
	mock.SetResponse("/MAAS/api/2.0/zones/", testutil.NewJSONResponse(`[]`))

	client := newTestClient(t, mock)
	if _, err := client.Fetch(context.Background(), "/zones/", nil); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	auth := mock.LastRequestHeader.Get("Authorization")
	for _, want := range []string{
		"OAuth ",
		`oauth_signature_method="PLAINTEXT"`,
		`oauth_consumer_key="consumer"`,
		`oauth_token="token"`,
		`oauth_signature="&secret"`,
	} {
		if !strings.Contains(auth, want) {
			t.Errorf("Authorization header missing %q: %s", want, auth)
		}
	}
	if accept := mock.LastRequestHeader.Get("Accept"); accept != "application/json" {
		t.Errorf("Accept = %q, want application/json", accept)
	}
}

func TestFetch_NoAuthHeaderWithoutKey(t *testing.T) {
	mock := testutil.NewMockMAAS()
	defer mock.Close()
	mock.SetResponse("/MAAS/api/2.0/zones/", testutil.NewJSONResponse(`[]`))

	client, err := New(Config{BaseURL: mock.URL() + "/MAAS/api/2.0"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := client.Fetch(context.Background(), "/zones/", nil); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if auth := mock.LastRequestHeader.Get("Authorization"); auth != "" {
		t.Errorf("expected no Authorization header, got %q", auth)
	}
}

func TestFetch_NotFoundIsNotRetried(t *testing.T) {
	mock := testutil.NewMockMAAS()
	defer mock.Close()
	mock.SetResponse("/MAAS/api/2.0/machines/nope/", testutil.NewNotFoundResponse())

	client := newTestClient(t, mock)
	_, err := client.Fetch(context.Background(), "/machines/nope/", nil)
	if err == nil {
		t.Fatal("expected error for 404")
	}

	var upstream *mcperr.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *mcperr.UpstreamError, got %T: %v", err, err)
	}
	if upstream.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", upstream.StatusCode)
	}
	if upstream.Details != "Not Found" {
		t.Errorf("Details = %v, want plain-text body", upstream.Details)
	}
	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("request count = %d, want 1 (client errors must not be retried)", got)
	}
}

func TestFetch_RetriesServerErrorThenSucceeds(t *testing.T) {
	if testing.Short() {
		t.Skip("retry backoff sleeps for about a second")
	}

	mock := testutil.NewMockMAAS()
	defer mock.Close()

	attempts := 0
	mock.SetHandler("/MAAS/api/2.0/machines/", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"code": "internal_error", "details": "boom"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	client := newTestClient(t, mock)
	value, err := client.Fetch(context.Background(), "/machines/", nil)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if _, ok := value.([]any); !ok {
		t.Errorf("expected []any after retry, got %T", value)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestFetch_CancellationDuringBackoff(t *testing.T) {
	mock := testutil.NewMockMAAS()
	defer mock.Close()
	mock.SetResponse("/MAAS/api/2.0/machines/", testutil.NewServerErrorResponse())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	client := newTestClient(t, mock)
	_, err := client.Fetch(ctx, "/machines/", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrContextCancelled) {
		t.Errorf("expected ErrContextCancelled, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cancellation cause must stay in the chain, got %v", err)
	}
}

func TestUpstreamError_RateLimitWithRetryAfter(t *testing.T) {
	resp := httptest.NewRecorder()
	resp.Header().Set("Retry-After", "30")
	resp.WriteHeader(http.StatusTooManyRequests)
	resp.WriteString(`{"code": "rate_limited", "details": "Too many requests"}`)

	err := upstreamError(resp.Result())

	var upstream *mcperr.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *mcperr.UpstreamError, got %T", err)
	}
	if upstream.StatusCode != 429 {
		t.Errorf("StatusCode = %d, want 429", upstream.StatusCode)
	}
	if upstream.RetryAfter != 30 {
		t.Errorf("RetryAfter = %d, want 30", upstream.RetryAfter)
	}
	if upstream.Code != "rate_limited" {
		t.Errorf("Code = %q, want rate_limited", upstream.Code)
	}
}

func TestUpstreamError_EmptyBody(t *testing.T) {
	resp := httptest.NewRecorder()
	resp.WriteHeader(http.StatusBadGateway)

	err := upstreamError(resp.Result())

	var upstream *mcperr.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *mcperr.UpstreamError, got %T", err)
	}
	if upstream.StatusCode != 502 {
		t.Errorf("StatusCode = %d, want 502", upstream.StatusCode)
	}
	if upstream.Details != nil {
		t.Errorf("Details = %v, want nil", upstream.Details)
	}
}
