// Package resources registers the MAAS read entities served by the resource
// pipeline. Descriptors and schemas here are configuration data; the
// request lifecycle lives in pkg/pipeline.
package resources

import (
	"fmt"

	"github.com/lspecian/maas-mcp-server/pkg/audit"
	"github.com/lspecian/maas-mcp-server/pkg/cache"
	"github.com/lspecian/maas-mcp-server/pkg/pipeline"
	"github.com/lspecian/maas-mcp-server/pkg/schema"
	"github.com/lspecian/maas-mcp-server/pkg/uritemplate"
)

// Registry resolves concrete resource URIs to the pipeline serving them.
type Registry struct {
	pipelines []*pipeline.Pipeline
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a pipeline to the registry.
func (r *Registry) Register(p *pipeline.Pipeline) {
	r.pipelines = append(r.pipelines, p)
}

// Resolve finds the pipeline whose URI pattern matches the given URI.
// Single patterns are checked before collection patterns so
// "maas://machines?zone=a" never shadows "maas://machine/{system_id}".
func (r *Registry) Resolve(uri string) (*pipeline.Pipeline, bool) {
	for _, p := range r.pipelines {
		if _, ok := uritemplate.Match(uri, p.Descriptor().URIPattern); ok {
			return p, true
		}
	}
	return nil, false
}

// Pipelines returns all registered pipelines.
func (r *Registry) Pipelines() []*pipeline.Pipeline {
	return r.pipelines
}

// DefaultDescriptors returns the registration data for the MAAS read
// entities.
func DefaultDescriptors() []pipeline.Descriptor {
	return []pipeline.Descriptor{
		{
			Name:         "Machine",
			URIPattern:   "maas://machine/{system_id}",
			APIEndpoint:  "/machines/{system_id}/",
			Cardinality:  pipeline.Single,
			IDParam:      "system_id",
			ParamsSchema: schema.MustCompile(idParamsSchema),
			DataSchema:   schema.MustCompile(machineDataSchema),
		},
		{
			Name:         "Machines",
			URIPattern:   "maas://machines",
			APIEndpoint:  "/machines/",
			Cardinality:  pipeline.Collection,
			ParamsSchema: schema.MustCompile(collectionParamsSchema),
			DataSchema:   schema.MustCompile(machineDataSchema),
		},
		{
			Name:         "Tag",
			URIPattern:   "maas://tag/{name}",
			APIEndpoint:  "/tags/{name}/",
			Cardinality:  pipeline.Single,
			IDParam:      "name",
			ParamsSchema: schema.MustCompile(nameParamsSchema),
			DataSchema:   schema.MustCompile(tagDataSchema),
		},
		{
			Name:         "Tags",
			URIPattern:   "maas://tags",
			APIEndpoint:  "/tags/",
			Cardinality:  pipeline.Collection,
			ParamsSchema: schema.MustCompile(collectionParamsSchema),
			DataSchema:   schema.MustCompile(tagDataSchema),
		},
		{
			Name:         "Subnet",
			URIPattern:   "maas://subnet/{id}",
			APIEndpoint:  "/subnets/{id}/",
			Cardinality:  pipeline.Single,
			IDParam:      "id",
			ParamsSchema: schema.MustCompile(numericIDParamsSchema),
			DataSchema:   schema.MustCompile(subnetDataSchema),
		},
		{
			Name:         "Subnets",
			URIPattern:   "maas://subnets",
			APIEndpoint:  "/subnets/",
			Cardinality:  pipeline.Collection,
			ParamsSchema: schema.MustCompile(collectionParamsSchema),
			DataSchema:   schema.MustCompile(subnetDataSchema),
		},
		{
			Name:         "Zone",
			URIPattern:   "maas://zone/{name}",
			APIEndpoint:  "/zones/{name}/",
			Cardinality:  pipeline.Single,
			IDParam:      "name",
			ParamsSchema: schema.MustCompile(nameParamsSchema),
			DataSchema:   schema.MustCompile(zoneDataSchema),
		},
		{
			Name:         "Zones",
			URIPattern:   "maas://zones",
			APIEndpoint:  "/zones/",
			Cardinality:  pipeline.Collection,
			ParamsSchema: schema.MustCompile(collectionParamsSchema),
			DataSchema:   schema.MustCompile(zoneDataSchema),
		},
		{
			Name:         "Device",
			URIPattern:   "maas://device/{system_id}",
			APIEndpoint:  "/devices/{system_id}/",
			Cardinality:  pipeline.Single,
			IDParam:      "system_id",
			ParamsSchema: schema.MustCompile(idParamsSchema),
			DataSchema:   schema.MustCompile(deviceDataSchema),
		},
		{
			Name:         "Devices",
			URIPattern:   "maas://devices",
			APIEndpoint:  "/devices/",
			Cardinality:  pipeline.Collection,
			ParamsSchema: schema.MustCompile(collectionParamsSchema),
			DataSchema:   schema.MustCompile(deviceDataSchema),
		},
		{
			Name:         "Domain",
			URIPattern:   "maas://domain/{id}",
			APIEndpoint:  "/domains/{id}/",
			Cardinality:  pipeline.Single,
			IDParam:      "id",
			ParamsSchema: schema.MustCompile(numericIDParamsSchema),
			DataSchema:   schema.MustCompile(domainDataSchema),
		},
		{
			Name:         "Domains",
			URIPattern:   "maas://domains",
			APIEndpoint:  "/domains/",
			Cardinality:  pipeline.Collection,
			ParamsSchema: schema.MustCompile(collectionParamsSchema),
			DataSchema:   schema.MustCompile(domainDataSchema),
		},
	}
}

// BuildDefault registers a pipeline for every default descriptor. The opts
// callback resolves per-resource cache options; nil applies enabled
// defaults everywhere.
func BuildDefault(store cache.Store, fetcher pipeline.Fetcher, auditLog audit.Logger, opts func(resourceName string) cache.Options) (*Registry, error) {
	if opts == nil {
		opts = func(string) cache.Options {
			return cache.Options{Enabled: true}
		}
	}

	registry := NewRegistry()
	for _, desc := range DefaultDescriptors() {
		p, err := pipeline.New(desc, store, fetcher, auditLog, opts(desc.Name))
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", desc.Name, err)
		}
		registry.Register(p)
	}
	return registry, nil
}
