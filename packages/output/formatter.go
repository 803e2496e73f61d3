package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Formatter renders the result of a single request.
type Formatter interface {
	FormatResult(v any) error
	FormatError(err error)
}

// Formats lists the accepted output format names.
var Formats = []string{"console", "json", "yaml"}

// Options configures the formatter returned by New.
type Options struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
	NoColor   bool
}

// New returns the formatter for name.
func New(name string, opts Options) (Formatter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.ErrWriter == nil {
		opts.ErrWriter = os.Stderr
	}

	switch strings.ToLower(name) {
	case "", "console":
		return NewConsoleFormatter(
			WithWriter(opts.Writer),
			WithErrWriter(opts.ErrWriter),
			WithVerbose(opts.Verbose),
			WithNoColor(opts.NoColor),
		), nil
	case "json":
		return NewJSONFormatter(opts.Writer, opts.ErrWriter), nil
	case "yaml", "yml":
		return NewYAMLFormatter(opts.Writer, opts.ErrWriter), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (supported: %s)", name, strings.Join(Formats, ", "))
	}
}

// writeRaw writes b as-is, adding a trailing newline for text.
func writeRaw(w io.Writer, b []byte, text bool) error {
	if _, err := w.Write(b); err != nil {
		return err
	}
	if text && len(b) > 0 && b[len(b)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
