// Package testutil provides testing utilities for the MAAS MCP server.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock MAAS endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockMAAS is a configurable mock MAAS API server for testing.
type MockMAAS struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	RequestPaths      []string
	LastRequestHeader http.Header
}

// NewMockMAAS creates a new mock MAAS server.
func NewMockMAAS() *MockMAAS {
	mock := &MockMAAS{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.RequestPaths = append(mock.RequestPaths, r.URL.Path)
		mock.LastRequestHeader = r.Header.Clone()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockMAAS) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockMAAS) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockMAAS) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.RequestPaths = nil
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockMAAS) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockMAAS) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockMAAS) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetRequestPaths returns the paths requested so far.
func (m *MockMAAS) GetRequestPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.RequestPaths...)
}

// defaultHandler provides a default MAAS-like response.
func (m *MockMAAS) defaultHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

// NewJSONResponse creates a 200 OK response with a JSON body.
func NewJSONResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// NewNotFoundResponse creates the 404 response MAAS emits for unknown ids.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       "Not Found",
		Headers: map[string]string{
			"Content-Type": "text/plain",
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse(retryAfterSeconds string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"code": "rate_limited", "details": "Too many requests"}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Retry-After":  retryAfterSeconds,
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"code": "internal_error", "details": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}
