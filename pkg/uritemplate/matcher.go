// Package uritemplate matches concrete resource URIs against templated
// patterns with {name} placeholder segments.
package uritemplate

import (
	"net/url"
	"strings"
)

// Match compares a concrete URI against a placeholder pattern and extracts
// the bound parameters.
//
// Pattern segments enclosed in braces bind to the corresponding path segment
// of the URI; all other segments must match literally. A placeholder never
// binds an empty segment: "maas://machine//details" does not match
// "maas://machine/{id}/details".
//
// Patterns without placeholders address collections; for those, Match
// returns the query-string key/value pairs of the URI instead of path
// bindings (first value wins for repeated keys).
//
// Match performs no shape validation of the bound values. Returns ok=false
// when the URI does not match the pattern.
func Match(uri, pattern string) (map[string]string, bool) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, false
	}
	p, err := url.Parse(pattern)
	if err != nil {
		return nil, false
	}

	if u.Scheme != p.Scheme || u.Host != p.Host {
		return nil, false
	}

	uriSegs := splitPath(u.Path)
	patSegs := splitPath(p.Path)

	if len(uriSegs) != len(patSegs) {
		return nil, false
	}

	params := make(map[string]string)
	hasPlaceholder := false

	for i, seg := range patSegs {
		if name, ok := placeholderName(seg); ok {
			hasPlaceholder = true
			if uriSegs[i] == "" {
				return nil, false
			}
			params[name] = uriSegs[i]
			continue
		}
		if seg != uriSegs[i] {
			return nil, false
		}
	}

	if !hasPlaceholder {
		// Collection pattern: the interesting variables live in the query
		// string, not the path.
		query := make(map[string]string)
		for key, values := range u.Query() {
			if len(values) > 0 {
				query[key] = values[0]
			}
		}
		return query, true
	}

	return params, true
}

// placeholderName reports whether a pattern segment is a {name} placeholder.
func placeholderName(seg string) (string, bool) {
	if len(seg) > 2 && strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
		return seg[1 : len(seg)-1], true
	}
	return "", false
}

// splitPath splits a URL path into segments, dropping the leading and a
// single trailing empty segment so "/a/b/" and "/a/b" compare equal.
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
