// Package pipeline implements the cached resource-access pipeline: it turns
// a templated-URI read request into a validated, cached, audited,
// content-negotiated response backed by an upstream fetch.
package pipeline

import (
	"context"
	"fmt"

	"github.com/lspecian/maas-mcp-server/pkg/schema"
)

// Cardinality describes whether a resource yields one item or an array.
type Cardinality int

const (
	// Single resources return one item addressed by bound parameters.
	Single Cardinality = iota

	// Collection resources return an array; every element is validated
	// independently and one invalid element fails the whole response.
	Collection
)

// Descriptor is the immutable registration data of one resource. Created
// once at registration time and owned by the pipeline serving it.
type Descriptor struct {
	// Name is the resource name used in cache keys, audit events and error
	// messages (e.g. "Machine").
	Name string

	// URIPattern is the templated URI the resource answers, with {name}
	// placeholder segments (e.g. "maas://machine/{id}/details").
	URIPattern string

	// APIEndpoint is the upstream endpoint, with the same placeholders
	// (e.g. "/machines/{id}/").
	APIEndpoint string

	// Cardinality selects the Single or Collection lifecycle.
	Cardinality Cardinality

	// IDParam names the bound parameter carrying the resource id, empty
	// for collections.
	IDParam string

	// ParamsSchema validates the bound URI parameters.
	ParamsSchema schema.Schema

	// DataSchema validates the fetched payload (each element, for
	// collections).
	DataSchema schema.Schema
}

// validate checks registration data at construction time.
func (d Descriptor) validate() error {
	if d.Name == "" {
		return fmt.Errorf("descriptor name is required")
	}
	if d.URIPattern == "" {
		return fmt.Errorf("descriptor %s: URI pattern is required", d.Name)
	}
	if d.APIEndpoint == "" {
		return fmt.Errorf("descriptor %s: API endpoint is required", d.Name)
	}
	if d.ParamsSchema == nil || d.DataSchema == nil {
		return fmt.Errorf("descriptor %s: params and data schemas are required", d.Name)
	}
	return nil
}

// Fetcher is the upstream read collaborator. Params become query values;
// the context carries the caller's cancellation signal.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, params map[string]string) (any, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, endpoint string, params map[string]string) (any, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, endpoint string, params map[string]string) (any, error) {
	return f(ctx, endpoint, params)
}
