package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaders_WithIsCopyOnWrite(t *testing.T) {
	base := Headers{}.With("Accept", "text/plain")
	next := base.With("accept", "application/json")

	assert.Equal(t, "text/plain", base.Get("Accept"))
	assert.Equal(t, "application/json", next.Get("ACCEPT"))
	assert.Len(t, next, 1)
}

func TestHeaders_MergeKeepsOrder(t *testing.T) {
	h := Headers{}.
		With("X-First", "1").
		With("X-Second", "2").
		Merge(Headers{{Name: "x-first", Value: "one"}, {Name: "X-Third", Value: "3"}})

	require.Len(t, h, 3)
	assert.Equal(t, "x-first", h[0].Name)
	assert.Equal(t, "one", h[0].Value)
	assert.Equal(t, "X-Second", h[1].Name)
	assert.Equal(t, "X-Third", h[2].Name)
}

func TestHeaders_Apply(t *testing.T) {
	dst := http.Header{}
	Headers{{Name: "x-token", Value: "abc"}}.Apply(dst)
	assert.Equal(t, "abc", dst.Get("X-Token"))
}

func TestFromHTTPHeader(t *testing.T) {
	src := http.Header{}
	src.Add("Set-Cookie", "a=1")
	src.Add("Set-Cookie", "b=2")
	src.Set("Content-Type", "text/plain")

	h := FromHTTPHeader(src)
	require.Len(t, h, 2)
	assert.Equal(t, "content-type", h[0].Name)
	assert.Equal(t, "a=1, b=2", h.Get("Set-Cookie"))
}

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Headers
	}{
		{
			name:  "nil",
			input: nil,
			want:  Headers{},
		},
		{
			name:  "flat string list",
			input: []string{"X-One", "1", "X-Two", "2"},
			want:  Headers{{Name: "X-One", Value: "1"}, {Name: "X-Two", Value: "2"}},
		},
		{
			name:  "later entries win",
			input: []any{"X-One", "1", "x-one", "2"},
			want:  Headers{{Name: "x-one", Value: "2"}},
		},
		{
			name:  "non-string scalars are formatted",
			input: []any{"X-Count", 3, "X-Flag", true},
			want:  Headers{{Name: "X-Count", Value: "3"}, {Name: "X-Flag", Value: "true"}},
		},
		{
			name:  "map is sorted by name",
			input: map[string]string{"b": "2", "a": "1"},
			want:  Headers{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}},
		},
		{
			name:  "record",
			input: map[string]any{"X-Id": 7},
			want:  Headers{{Name: "X-Id", Value: "7"}},
		},
		{
			name: "table with name and value columns",
			input: []map[string]any{
				{"name": "X-A", "value": "a"},
				{"name": "X-B", "value": "b"},
			},
			want: Headers{{Name: "X-A", Value: "a"}, {Name: "X-B", Value: "b"}},
		},
		{
			name:  "table of single entry records",
			input: []any{map[string]any{"X-A": "a"}, map[string]any{"X-B": "b"}},
			want:  Headers{{Name: "X-A", Value: "a"}, {Name: "X-B", Value: "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHeaders(tt.input, "headers")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHeaders_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{name: "odd length list", input: []string{"X-One", "1", "X-Two"}},
		{name: "empty name", input: []string{"", "1"}},
		{name: "nested value", input: []any{"X-One", []any{"a"}}},
		{name: "unsupported type", input: 42},
		{name: "wide table row", input: []map[string]any{{"a": "1", "b": "2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeaders(tt.input, "headers")
			require.Error(t, err)

			var headerErr *InvalidHeaderFormatError
			require.True(t, errors.As(err, &headerErr))
			assert.Equal(t, "headers", headerErr.Location)
		})
	}
}
