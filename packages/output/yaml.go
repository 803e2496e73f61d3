package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter writes results as YAML documents.
type YAMLFormatter struct {
	writer    io.Writer
	errWriter io.Writer
}

func NewYAMLFormatter(w, errW io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w, errWriter: errW}
}

func (f *YAMLFormatter) FormatResult(v any) error {
	if b, ok := v.([]byte); ok {
		return writeRaw(f.writer, b, false)
	}
	encoder := yaml.NewEncoder(f.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("cannot render response as YAML: %w", err)
	}
	return encoder.Close()
}

func (f *YAMLFormatter) FormatError(err error) {
	encoder := yaml.NewEncoder(f.errWriter)
	encoder.SetIndent(2)
	_ = encoder.Encode(newErrorOutput(err))
	_ = encoder.Close()
}
