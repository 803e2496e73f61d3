package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/hitverb/packages/assertions"
	hithttp "github.com/abdul-hamid-achik/hitverb/packages/http"
)

// Exit codes for hitverb CLI
const (
	// ExitSuccess indicates the request succeeded
	ExitSuccess = 0

	// ExitFailure indicates an HTTP error status or any other failure
	ExitFailure = 1

	// ExitSchemaError indicates the response did not match --schema
	ExitSchemaError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitTimeout indicates the request timed out
	ExitTimeout = 5

	// ExitUsageError indicates invalid CLI usage or input
	ExitUsageError = 64

	// ExitCancelled indicates the request was interrupted
	ExitCancelled = 130
)

// usageError marks invalid arguments or flags.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// configError marks failures loading configuration or env files.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// reportedError marks errors the formatter already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		statusErr  *hithttp.HTTPStatusError
		schemaErr  *assertions.SchemaError
		cfgErr     *configError
		connErr    *hithttp.ConnectionError
		timeoutErr *hithttp.TimeoutError
		cancelErr  *hithttp.CancelledError
		usageErr   *usageError
		urlErr     *hithttp.InvalidURLError
		tmErr      *hithttp.InvalidTimeoutError
		headerErr  *hithttp.InvalidHeaderFormatError
		encErr     *hithttp.BodyEncodingError
	)

	switch {
	case errors.As(err, &statusErr):
		return ExitFailure
	case errors.As(err, &schemaErr):
		return ExitSchemaError
	case errors.As(err, &cfgErr):
		return ExitConfigError
	case errors.As(err, &connErr):
		return ExitNetworkError
	case errors.As(err, &timeoutErr):
		return ExitTimeout
	case errors.As(err, &cancelErr):
		return ExitCancelled
	case errors.As(err, &usageErr),
		errors.As(err, &urlErr),
		errors.As(err, &tmErr),
		errors.As(err, &headerErr),
		errors.As(err, &encErr):
		return ExitUsageError
	default:
		return ExitFailure
	}
}
