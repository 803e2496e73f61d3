package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	hithttp "github.com/abdul-hamid-achik/hitverb/packages/http"
	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer    io.Writer
	errWriter io.Writer
	verbose   bool
	noColor   bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer:    os.Stdout,
		errWriter: os.Stderr,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithErrWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.errWriter = w
	}
}

// WithVerbose also prints request headers for full responses.
func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(v any) error {
	if full, ok := v.(*hithttp.FullResponse); ok {
		return f.formatFull(full)
	}
	return f.formatBody(f.writer, v)
}

func (f *ConsoleFormatter) formatFull(full *hithttp.FullResponse) error {
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", bold("Status:"), statusColor(full.Status).Sprint(full.Status))

	if f.verbose && len(full.Headers.Request) > 0 {
		fmt.Fprintf(f.writer, "%s\n", bold("Request headers:"))
		f.formatHeaders(full.Headers.Request)
	}
	if len(full.Headers.Response) > 0 {
		fmt.Fprintf(f.writer, "%s\n", bold("Response headers:"))
		f.formatHeaders(full.Headers.Response)
	}
	fmt.Fprintln(f.writer)

	return f.formatBody(f.writer, full.Body)
}

func (f *ConsoleFormatter) formatHeaders(headers map[string]string) {
	cyan := color.New(color.FgCyan).SprintFunc()

	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(f.writer, "  %s: %s\n", cyan(name), headers[name])
	}
}

func (f *ConsoleFormatter) formatBody(w io.Writer, v any) error {
	switch body := v.(type) {
	case nil:
		return nil
	case string:
		return writeRaw(w, []byte(body), true)
	case []byte:
		return writeRaw(w, body, false)
	default:
		data, err := json.MarshalIndent(body, "", "  ")
		if err != nil {
			return fmt.Errorf("cannot render response: %w", err)
		}
		return writeRaw(w, data, true)
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.errWriter, "%s %v\n", red("Error:"), err)

	var statusErr *hithttp.HTTPStatusError
	if errors.As(err, &statusErr) && statusErr.Body != nil && statusErr.Body != "" {
		_ = f.formatBody(f.errWriter, statusErr.Body)
	}
}

func statusColor(status int) *color.Color {
	switch {
	case status >= 500:
		return color.New(color.FgRed, color.Bold)
	case status >= 400:
		return color.New(color.FgYellow, color.Bold)
	case status >= 300:
		return color.New(color.FgCyan, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}
