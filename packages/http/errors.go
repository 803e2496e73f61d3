package http

import (
	"fmt"
	"time"
)

// InvalidURLError is returned when the target is not an http or https URL.
type InvalidURLError struct {
	URL      string
	Location string
	Reason   string
}

func (e *InvalidURLError) Error() string {
	return withLocation(fmt.Sprintf("invalid URL %q: %s", e.URL, e.Reason), e.Location)
}

// InvalidTimeoutError is returned when the timeout is not a positive number of seconds.
type InvalidTimeoutError struct {
	Value    int64
	Location string
}

func (e *InvalidTimeoutError) Error() string {
	return withLocation(fmt.Sprintf("invalid timeout %d: value must be an integer larger than 0", e.Value), e.Location)
}

// InvalidHeaderFormatError is returned when custom headers are not name/value pairs.
type InvalidHeaderFormatError struct {
	Location string
	Reason   string
}

func (e *InvalidHeaderFormatError) Error() string {
	return withLocation("invalid header format: "+e.Reason, e.Location)
}

// BodyEncodingError is returned when a structured body cannot be serialized.
type BodyEncodingError struct {
	ContentType string
	Location    string
	Err         error
}

func (e *BodyEncodingError) Error() string {
	msg := "cannot encode request body"
	if e.ContentType != "" {
		msg += " as " + e.ContentType
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return withLocation(msg, e.Location)
}

func (e *BodyEncodingError) Unwrap() error { return e.Err }

// ConnectionError covers DNS, TCP and TLS failures, and failures reading the response.
type ConnectionError struct {
	URL      string
	Location string
	Err      error
}

func (e *ConnectionError) Error() string {
	return withLocation(fmt.Sprintf("cannot connect to %s: %v", e.URL, e.Err), e.Location)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TimeoutError is returned when no response arrived before the timeout elapsed.
type TimeoutError struct {
	URL      string
	Timeout  time.Duration
	Location string
	Err      error
}

func (e *TimeoutError) Error() string {
	return withLocation(fmt.Sprintf("request to %s timed out after %s", e.URL, e.Timeout), e.Location)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// CancelledError is returned when the caller's context was cancelled mid-request.
type CancelledError struct {
	URL      string
	Location string
	Err      error
}

func (e *CancelledError) Error() string {
	return withLocation(fmt.Sprintf("request to %s was cancelled", e.URL), e.Location)
}

func (e *CancelledError) Unwrap() error { return e.Err }

// HTTPStatusError reports a response with status >= 400 when errors are not allowed.
// Body holds the best-effort decoded response body for diagnostics.
type HTTPStatusError struct {
	Status     int
	StatusText string
	URL        string
	Location   string
	Body       any
}

func (e *HTTPStatusError) Error() string {
	return withLocation(fmt.Sprintf("network failure: %s (%d) from %s", statusReason(e.Status, e.StatusText), e.Status, e.URL), e.Location)
}

func withLocation(msg, loc string) string {
	if loc == "" {
		return msg
	}
	return msg + " [at " + loc + "]"
}

func statusReason(status int, text string) string {
	switch status {
	case 400:
		return "Bad request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Access forbidden"
	case 404:
		return "Requested file not found"
	case 408:
		return "Request timeout"
	}
	if status >= 500 {
		return "Server error"
	}
	if text != "" {
		return text
	}
	return "Request failed"
}
