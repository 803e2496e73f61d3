package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	hithttp "github.com/abdul-hamid-achik/hitverb/packages/http"
)

// ErrorOutput is the machine-readable shape of a failure.
type ErrorOutput struct {
	Error  string `json:"error" yaml:"error"`
	Status int    `json:"status,omitempty" yaml:"status,omitempty"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
	Body   any    `json:"body,omitempty" yaml:"body,omitempty"`
}

func newErrorOutput(err error) ErrorOutput {
	out := ErrorOutput{Error: err.Error()}
	var statusErr *hithttp.HTTPStatusError
	if errors.As(err, &statusErr) {
		out.Status = statusErr.Status
		out.URL = statusErr.URL
		out.Body = printable(statusErr.Body)
	}
	return out
}

// printable turns non-text byte bodies into strings so they encode readably.
func printable(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// JSONFormatter writes results as indented JSON.
type JSONFormatter struct {
	writer    io.Writer
	errWriter io.Writer
}

func NewJSONFormatter(w, errW io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w, errWriter: errW}
}

func (f *JSONFormatter) FormatResult(v any) error {
	if b, ok := v.([]byte); ok {
		return writeRaw(f.writer, b, false)
	}
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("cannot render response as JSON: %w", err)
	}
	return nil
}

func (f *JSONFormatter) FormatError(err error) {
	encoder := json.NewEncoder(f.errWriter)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(newErrorOutput(err))
}
