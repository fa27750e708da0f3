package pipeline

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lspecian/maas-mcp-server/pkg/cache"
)

// Contents is one rendered resource representation.
type Contents struct {
	URI      string            `json:"uri"`
	Text     string            `json:"text"`
	MimeType string            `json:"mimeType"`
	Headers  map[string]string `json:"headers,omitempty"`
}

// Result is the wire shape of a resource read, for both Single and
// Collection resources.
type Result struct {
	Contents []Contents `json:"contents"`
}

// render produces the response representation: JSON by default, a
// best-effort XML projection when the request asks for it. Cache-Control
// carries the effective TTL and the configured directives; Age is present
// only when served from cache.
func (p *Pipeline) render(req Request, value any, fromCache bool, ageSeconds, ttlSeconds int, opts cache.Options) (*Result, error) {
	text, mimeType := p.negotiate(req.Format, value)

	headers := map[string]string{
		"Cache-Control": cacheControlHeader(ttlSeconds, opts.CacheControl),
	}
	if fromCache {
		headers["Age"] = strconv.Itoa(ageSeconds)
	}

	return &Result{
		Contents: []Contents{{
			URI:      req.URI,
			Text:     text,
			MimeType: mimeType,
			Headers:  headers,
		}},
	}, nil
}

// negotiate picks the representation. XML conversion failures fall back to
// JSON silently; they are logged, never raised.
func (p *Pipeline) negotiate(format string, value any) (text, mimeType string) {
	if strings.EqualFold(format, "xml") {
		if xmlText, err := toXML(strings.ToLower(p.desc.Name), value); err == nil {
			return xmlText, "application/xml"
		} else {
			p.logger.Debug().Err(err).Msg("XML conversion failed, falling back to JSON")
		}
	}

	data, err := json.Marshal(value)
	if err != nil {
		// Cached values round-tripped through JSON already; this is
		// unreachable for pipeline-produced values.
		data = []byte("null")
		p.logger.Warn().Err(err).Msg("JSON render failed")
	}
	return string(data), "application/json"
}

// cacheControlHeader builds "max-age=<ttl>" plus any configured directives.
func cacheControlHeader(ttlSeconds int, d cache.Directives) string {
	parts := []string{fmt.Sprintf("max-age=%d", ttlSeconds)}
	if d.Private {
		parts = append(parts, "private")
	}
	if d.MustRevalidate {
		parts = append(parts, "must-revalidate")
	}
	if d.Immutable {
		parts = append(parts, "immutable")
	}
	return strings.Join(parts, ", ")
}

// toXML performs a best-effort structural conversion: object keys become
// elements, arrays produce pluralized wrapper elements with singular
// children, nil fields are omitted, scalars are stringified.
func toXML(rootName string, value any) (string, error) {
	var b strings.Builder
	b.WriteString(xml.Header)
	if err := writeXMLValue(&b, rootName, value, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

const maxXMLDepth = 32

func writeXMLValue(b *strings.Builder, name string, value any, depth int) error {
	if depth > maxXMLDepth {
		return fmt.Errorf("value nests deeper than %d levels", maxXMLDepth)
	}
	if value == nil {
		return nil
	}
	name = xmlName(name)

	switch v := value.(type) {
	case map[string]any:
		b.WriteString("<" + name + ">")
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := writeXMLValue(b, key, v[key], depth+1); err != nil {
				return err
			}
		}
		b.WriteString("</" + name + ">")
	case []any:
		wrapper := pluralize(name)
		child := singularize(wrapper)
		b.WriteString("<" + wrapper + ">")
		for _, element := range v {
			if err := writeXMLValue(b, child, element, depth+1); err != nil {
				return err
			}
		}
		b.WriteString("</" + wrapper + ">")
	case string:
		b.WriteString("<" + name + ">")
		if err := xml.EscapeText(b, []byte(v)); err != nil {
			return err
		}
		b.WriteString("</" + name + ">")
	default:
		b.WriteString("<" + name + ">")
		if err := xml.EscapeText(b, []byte(fmt.Sprintf("%v", v))); err != nil {
			return err
		}
		b.WriteString("</" + name + ">")
	}
	return nil
}

// xmlName sanitizes a key into a usable element name.
func xmlName(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case (r == '-' || r == '.') && i > 0:
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "value"
	}
	out := b.String()
	if out[0] >= '0' && out[0] <= '9' {
		return "_" + out
	}
	return out
}

// Resource payload keys are plain English nouns ("machines", "tags",
// "interfaces"), so a suffix check is all the pluralization needed.
func pluralize(name string) string {
	if strings.HasSuffix(name, "s") {
		return name
	}
	return name + "s"
}

func singularize(name string) string {
	if len(name) > 1 && strings.HasSuffix(name, "s") {
		return strings.TrimSuffix(name, "s")
	}
	return name + "_item"
}
