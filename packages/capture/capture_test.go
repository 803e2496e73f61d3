package capture

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fullResponse struct {
	Status int `json:"status"`
	Body   any `json:"body"`
}

func TestSelect(t *testing.T) {
	decoded := map[string]any{
		"data": map[string]any{
			"items": []any{
				map[string]any{"id": float64(1), "name": "a"},
				map[string]any{"id": float64(2), "name": "b"},
			},
		},
	}

	tests := []struct {
		name  string
		value any
		path  string
		want  any
	}{
		{name: "empty path", value: "plain", path: "", want: "plain"},
		{name: "nested field", value: decoded, path: "data.items.1.name", want: "b"},
		{name: "array projection", value: decoded, path: "data.items.#.id", want: []any{int64(1), int64(2)}},
		{name: "raw JSON string", value: `{"ok":true}`, path: "ok", want: true},
		{name: "raw JSON bytes", value: []byte(`[1,2,3]`), path: "#", want: int64(3)},
		{name: "struct value", value: &fullResponse{Status: 201, Body: decoded}, path: "status", want: int64(201)},
		{name: "large integer", value: `{"id":9007199254740993}`, path: "id", want: int64(9007199254740993)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(tt.value, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelect_Errors(t *testing.T) {
	_, err := Select(map[string]any{"a": 1}, "b")
	var notFound *PathNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "b", notFound.Path)

	_, err = Select("<html>", "a")
	assert.ErrorContains(t, err, "non-JSON body")

	_, err = Select(make(chan int), "a")
	assert.Error(t, err)
}
