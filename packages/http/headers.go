package http

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Header is a single name/value pair.
type Header struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Headers is an ordered header list with case-insensitive names.
// Methods never modify the receiver.
type Headers []Header

func (h Headers) index(name string) int {
	for i, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			return i
		}
	}
	return -1
}

// Get returns the value for name, or "" when absent.
func (h Headers) Get(name string) string {
	if i := h.index(name); i >= 0 {
		return h[i].Value
	}
	return ""
}

// Has reports whether name is present.
func (h Headers) Has(name string) bool {
	return h.index(name) >= 0
}

// With returns a copy of h with name set to value. An existing entry with the
// same name is replaced in place.
func (h Headers) With(name, value string) Headers {
	out := make(Headers, len(h), len(h)+1)
	copy(out, h)
	if i := out.index(name); i >= 0 {
		out[i] = Header{Name: name, Value: value}
		return out
	}
	return append(out, Header{Name: name, Value: value})
}

// Merge returns a copy of h with every entry of other applied in order.
func (h Headers) Merge(other Headers) Headers {
	out := h
	for _, hdr := range other {
		out = out.With(hdr.Name, hdr.Value)
	}
	if out == nil {
		return Headers{}
	}
	return out
}

// Map returns the headers as a plain map keyed by the stored names.
func (h Headers) Map() map[string]string {
	m := make(map[string]string, len(h))
	for _, hdr := range h {
		m[hdr.Name] = hdr.Value
	}
	return m
}

// Apply writes the headers onto a net/http header set.
func (h Headers) Apply(dst http.Header) {
	for _, hdr := range h {
		dst.Set(hdr.Name, hdr.Value)
	}
}

// FromHTTPHeader converts a net/http header set, joining repeated values with ", ".
// Names are sorted so the result is stable.
func FromHTTPHeader(src http.Header) Headers {
	names := make([]string, 0, len(src))
	for name := range src {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(Headers, 0, len(names))
	for _, name := range names {
		out = append(out, Header{Name: strings.ToLower(name), Value: strings.Join(src[name], ", ")})
	}
	return out
}

// ParseHeaders converts a caller-supplied header value into Headers.
//
// Accepted shapes are flat name/value lists ([]string or []any of even length),
// maps, []Header, Headers and tables ([]map[string]any) whose rows either have
// "name" and "value" columns or hold a single name/value entry.
func ParseHeaders(v any, loc string) (Headers, error) {
	switch val := v.(type) {
	case nil:
		return Headers{}, nil
	case Headers:
		return Headers{}.Merge(val), nil
	case []Header:
		return Headers{}.Merge(val), nil
	case []string:
		items := make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
		return parseHeaderList(items, loc)
	case []any:
		if len(val) > 0 {
			if _, ok := val[0].(map[string]any); ok {
				rows := make([]map[string]any, 0, len(val))
				for _, item := range val {
					row, ok := item.(map[string]any)
					if !ok {
						return nil, &InvalidHeaderFormatError{Location: loc, Reason: "mixed table rows and values in header list"}
					}
					rows = append(rows, row)
				}
				return parseHeaderTable(rows, loc)
			}
		}
		return parseHeaderList(val, loc)
	case map[string]string:
		out := Headers{}
		for _, name := range sortedKeys(val) {
			out = out.With(name, val[name])
		}
		return out, nil
	case map[string]any:
		out := Headers{}
		for _, name := range sortedKeys(val) {
			s, err := headerValue(val[name], loc)
			if err != nil {
				return nil, err
			}
			out = out.With(name, s)
		}
		return out, nil
	case []map[string]any:
		return parseHeaderTable(val, loc)
	default:
		return nil, &InvalidHeaderFormatError{Location: loc, Reason: fmt.Sprintf("unsupported header value of type %T", v)}
	}
}

func parseHeaderList(items []any, loc string) (Headers, error) {
	if len(items)%2 != 0 {
		return nil, &InvalidHeaderFormatError{Location: loc, Reason: fmt.Sprintf("expected name/value pairs, got %d items", len(items))}
	}
	out := Headers{}
	for i := 0; i < len(items); i += 2 {
		name, err := headerValue(items[i], loc)
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, &InvalidHeaderFormatError{Location: loc, Reason: "header name is empty"}
		}
		value, err := headerValue(items[i+1], loc)
		if err != nil {
			return nil, err
		}
		out = out.With(name, value)
	}
	return out, nil
}

func parseHeaderTable(rows []map[string]any, loc string) (Headers, error) {
	out := Headers{}
	for _, row := range rows {
		if name, ok := row["name"]; ok && len(row) == 2 {
			if value, ok := row["value"]; ok {
				n, err := headerValue(name, loc)
				if err != nil {
					return nil, err
				}
				s, err := headerValue(value, loc)
				if err != nil {
					return nil, err
				}
				out = out.With(n, s)
				continue
			}
		}
		if len(row) != 1 {
			return nil, &InvalidHeaderFormatError{Location: loc, Reason: "table rows must have name and value columns"}
		}
		for name, value := range row {
			s, err := headerValue(value, loc)
			if err != nil {
				return nil, err
			}
			out = out.With(name, s)
		}
	}
	return out, nil
}

func headerValue(v any, loc string) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case fmt.Stringer:
		return val.String(), nil
	case bool, int, int32, int64, uint, uint32, uint64, float32, float64:
		return fmt.Sprint(val), nil
	default:
		return "", &InvalidHeaderFormatError{Location: loc, Reason: fmt.Sprintf("header value of type %T is not a string", v)}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
