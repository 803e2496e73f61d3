package http

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"mime"
	neturl "net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

const (
	MediaJSON = "application/json"
	MediaYAML = "application/yaml"
	MediaForm = "application/x-www-form-urlencoded"
	MediaCSV  = "text/csv"
)

// EncodeFunc serializes a structured value.
type EncodeFunc func(v any) ([]byte, error)

// DecodeFunc parses a body into a structured value.
type DecodeFunc func(data []byte) (any, error)

// Codec pairs the encoder and decoder for one media type. Either may be nil.
type Codec struct {
	Encode EncodeFunc
	Decode DecodeFunc
}

// Codecs maps media types and URL extensions to codecs.
type Codecs struct {
	byType map[string]Codec
	byExt  map[string]string
}

// NewCodecs returns an empty registry.
func NewCodecs() *Codecs {
	return &Codecs{
		byType: make(map[string]Codec),
		byExt:  make(map[string]string),
	}
}

// DefaultCodecs returns the registry used when callers do not supply one.
func DefaultCodecs() *Codecs {
	c := NewCodecs()
	c.Register(MediaJSON, Codec{Encode: encodeJSON, Decode: decodeJSON}, "json")
	c.Register(MediaYAML, Codec{Encode: encodeYAML, Decode: decodeYAML}, "yaml", "yml")
	c.Alias("application/x-yaml", MediaYAML)
	c.Alias("text/yaml", MediaYAML)
	c.Alias("text/json", MediaJSON)
	c.Register(MediaForm, Codec{Encode: encodeForm, Decode: decodeForm})
	c.Register(MediaCSV, Codec{Decode: decodeCSV}, "csv")
	return c
}

// Register adds or replaces the codec for mediaType and maps the given URL
// extensions to it.
func (c *Codecs) Register(mediaType string, codec Codec, exts ...string) {
	mt := strings.ToLower(mediaType)
	c.byType[mt] = codec
	for _, ext := range exts {
		c.byExt[strings.ToLower(ext)] = mt
	}
}

// Alias makes alias resolve to the codec registered for target.
func (c *Codecs) Alias(alias, target string) {
	if codec, ok := c.byType[strings.ToLower(target)]; ok {
		c.byType[strings.ToLower(alias)] = codec
	}
}

// Lookup finds the codec for a Content-Type value. Parameters are ignored and
// structured suffixes (+json, +yaml) resolve to their base codec.
func (c *Codecs) Lookup(contentType string) (Codec, bool) {
	mt := MediaType(contentType)
	if mt == "" {
		return Codec{}, false
	}
	if codec, ok := c.byType[mt]; ok {
		return codec, true
	}
	if i := strings.LastIndex(mt, "+"); i >= 0 {
		switch mt[i+1:] {
		case "json":
			codec, ok := c.byType[MediaJSON]
			return codec, ok
		case "yaml":
			codec, ok := c.byType[MediaYAML]
			return codec, ok
		}
	}
	return Codec{}, false
}

// LookupExtension finds the media type registered for a URL extension.
func (c *Codecs) LookupExtension(ext string) (string, bool) {
	mt, ok := c.byExt[strings.ToLower(ext)]
	return mt, ok
}

// MediaType strips parameters from a Content-Type value and lowercases it.
func MediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

func encodeJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// decodeJSON validates with gjson first so malformed bodies fail cheaply.
func decodeJSON(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	return jsonValue(gjson.ParseBytes(data)), nil
}

// DecodeJSON parses a JSON document. Integers that fit in 64 bits decode to
// int64 or uint64 so large ids keep their exact value; other numbers are
// float64.
func DecodeJSON(data []byte) (any, error) {
	return decodeJSON(data)
}

func jsonValue(r gjson.Result) any {
	switch {
	case r.IsObject():
		out := make(map[string]any)
		r.ForEach(func(key, value gjson.Result) bool {
			out[key.String()] = jsonValue(value)
			return true
		})
		return out
	case r.IsArray():
		out := []any{}
		r.ForEach(func(_, value gjson.Result) bool {
			out = append(out, jsonValue(value))
			return true
		})
		return out
	case r.Type == gjson.Number:
		raw := strings.TrimSpace(r.Raw)
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return n
		}
		return r.Float()
	default:
		return r.Value()
	}
}

func encodeYAML(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func decodeYAML(data []byte) (any, error) {
	var out any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return stringKeys(out), nil
}

// stringKeys converts maps with non-string keys (e.g. `200:`) to
// map[string]any so decoded YAML can be rendered as JSON.
func stringKeys(v any) any {
	switch val := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = stringKeys(item)
		}
		return out
	case map[string]any:
		for k, item := range val {
			val[k] = stringKeys(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = stringKeys(item)
		}
		return val
	default:
		return v
	}
}

func encodeForm(v any) ([]byte, error) {
	values := neturl.Values{}
	switch val := v.(type) {
	case map[string]any:
		for _, k := range sortedKeys(val) {
			values.Add(k, fmt.Sprint(val[k]))
		}
	case map[string]string:
		for _, k := range sortedKeys(val) {
			values.Add(k, val[k])
		}
	case []any:
		if len(val)%2 != 0 {
			return nil, fmt.Errorf("form data list must have an even number of items, got %d", len(val))
		}
		for i := 0; i < len(val); i += 2 {
			values.Add(fmt.Sprint(val[i]), fmt.Sprint(val[i+1]))
		}
	case []string:
		if len(val)%2 != 0 {
			return nil, fmt.Errorf("form data list must have an even number of items, got %d", len(val))
		}
		for i := 0; i < len(val); i += 2 {
			values.Add(val[i], val[i+1])
		}
	default:
		return nil, fmt.Errorf("cannot encode %T as form data", v)
	}
	return []byte(values.Encode()), nil
}

func decodeForm(data []byte) (any, error) {
	values, err := neturl.ParseQuery(string(data))
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(values))
	for k, vs := range values {
		if len(vs) == 1 {
			out[k] = vs[0]
			continue
		}
		items := make([]any, len(vs))
		for i, s := range vs {
			items[i] = s
		}
		out[k] = items
	}
	return out, nil
}

// decodeCSV treats the first record as the column names.
func decodeCSV(data []byte) (any, error) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []any{}, nil
	}
	columns := records[0]
	rows := make([]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// mediaTypes lists the registered media types, sorted.
func (c *Codecs) mediaTypes() []string {
	out := make([]string, 0, len(c.byType))
	for mt := range c.byType {
		out = append(out, mt)
	}
	sort.Strings(out)
	return out
}
