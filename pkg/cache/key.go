package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached resource read. The concrete URI path is embedded
// in the key so id-scoped invalidation can locate entries for one resource
// instance.
type Key struct {
	// ResourceName is the registered resource name (e.g. "Machine").
	ResourceName string

	// URI is the concrete resource URI being read.
	URI string

	// Params are the validated request parameters.
	Params map[string]string

	// IncludeQueryParams adds the URI query string to the key.
	IncludeQueryParams bool
}

// String generates a deterministic cache key string. Parameter insertion
// order never affects the result: path and query parameters are sorted
// before joining.
//
// Format: mcp:resource:host/path:param1=val1:param2=val2
func (k Key) String() string {
	parts := []string{"mcp", k.ResourceName}

	var query url.Values
	if u, err := url.Parse(k.URI); err == nil {
		path := strings.Trim(u.Host+u.Path, "/")
		if path != "" {
			parts = append(parts, path)
		}
		query = u.Query()
	}

	if len(k.Params) > 0 {
		paramKeys := make([]string, 0, len(k.Params))
		for key := range k.Params {
			paramKeys = append(paramKeys, key)
		}
		sort.Strings(paramKeys)

		for _, key := range paramKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Params[key]))
		}
	}

	if k.IncludeQueryParams && len(query) > 0 {
		queryKeys := make([]string, 0, len(query))
		for key := range query {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, query.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}

// GenerateKey is a convenience wrapper over Key.String.
func GenerateKey(resourceName, uri string, params map[string]string, includeQueryParams bool) string {
	return Key{
		ResourceName:       resourceName,
		URI:                uri,
		Params:             params,
		IncludeQueryParams: includeQueryParams,
	}.String()
}

// keyPrefix is the common prefix of every key for a resource.
func keyPrefix(resourceName string) string {
	return "mcp:" + resourceName + ":"
}

// keyMatchesID reports whether a key built for resourceName embeds the given
// resource id, either as a path segment or as a parameter value.
func keyMatchesID(key, resourceName, id string) bool {
	prefix := keyPrefix(resourceName)
	if !strings.HasPrefix(key, prefix) {
		return false
	}

	for _, part := range strings.Split(strings.TrimPrefix(key, prefix), ":") {
		if eq := strings.IndexByte(part, '='); eq >= 0 {
			if part[eq+1:] == id {
				return true
			}
			continue
		}
		for _, seg := range strings.Split(part, "/") {
			if seg == id {
				return true
			}
		}
	}
	return false
}
