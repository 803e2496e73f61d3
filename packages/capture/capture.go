package capture

import (
	"encoding/json"
	"fmt"

	hithttp "github.com/abdul-hamid-achik/hitverb/packages/http"
	"github.com/tidwall/gjson"
)

// PathNotFoundError is returned when a path matches nothing.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path %q not found in response", e.Path)
}

// Select extracts path from a normalized response value using gjson syntax
// (e.g. "data.items.0.id", "items.#.name"). Raw string values are treated as
// JSON documents. An empty path returns value unchanged.
func Select(value any, path string) (any, error) {
	if path == "" {
		return value, nil
	}

	doc, err := toJSON(value)
	if err != nil {
		return nil, err
	}

	result := gjson.GetBytes(doc, path)
	if !result.Exists() {
		return nil, &PathNotFoundError{Path: path}
	}
	return hithttp.DecodeJSON([]byte(result.Raw))
}

func toJSON(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		if !gjson.Valid(v) {
			return nil, fmt.Errorf("cannot select from a non-JSON body")
		}
		return []byte(v), nil
	case []byte:
		if !gjson.ValidBytes(v) {
			return nil, fmt.Errorf("cannot select from a non-JSON body")
		}
		return v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("cannot select from response: %w", err)
		}
		return data, nil
	}
}
