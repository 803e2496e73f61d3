package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Method is an HTTP verb supported by the request core.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
	MethodHead   Method = http.MethodHead
)

// Methods lists every supported verb.
var Methods = []Method{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead}

// ParseMethod accepts a verb in any case.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported method %q", s)
}

// BodyKind tags a request body.
type BodyKind int

const (
	BodyRaw BodyKind = iota
	BodyStructured
)

// Body is a request payload: raw bytes sent verbatim or a structured value
// serialized according to the resolved content type.
type Body struct {
	Kind  BodyKind
	Raw   []byte
	Value any
}

// RawBody wraps bytes that are sent unchanged.
func RawBody(b []byte) *Body {
	return &Body{Kind: BodyRaw, Raw: b}
}

// StructuredBody wraps a value that is serialized at assembly time.
func StructuredBody(v any) *Body {
	return &Body{Kind: BodyStructured, Value: v}
}

// BodyOf infers the body tag from the shape of v. Strings, byte slices and
// readers are raw; anything else is structured.
func BodyOf(v any) (*Body, error) {
	switch val := v.(type) {
	case *Body:
		return val, nil
	case []byte:
		return RawBody(val), nil
	case string:
		return RawBody([]byte(val)), nil
	case io.Reader:
		data, err := io.ReadAll(val)
		if err != nil {
			return nil, &BodyEncodingError{Err: err}
		}
		return RawBody(data), nil
	default:
		return StructuredBody(v), nil
	}
}

// Credentials are used for basic authentication. Either field may be empty.
type Credentials struct {
	Username string
	Password string
}

// Flags shape the normalized output.
type Flags struct {
	Raw         bool
	Full        bool
	AllowErrors bool
}

// RequestSpec describes one outbound call before assembly.
type RequestSpec struct {
	Method         Method
	Headers        any
	DefaultHeaders Headers
	Body           *Body
	ContentType    string
	TimeoutSeconds *int64
	Auth           *Credentials
	Flags          Flags
	// Location attributes errors to the caller's input. The per-step
	// locations below override it for errors raised by that step.
	Location        string
	HeadersLocation string
	TimeoutLocation string
	BodyLocation    string
	// Codecs overrides DefaultCodecs when set.
	Codecs *Codecs
}

// Request is a fully assembled request. It is a value: assembly steps return
// modified copies and never share state with their input.
type Request struct {
	Method      Method
	Target      *Target
	Headers     Headers
	Body        []byte
	ContentType string
	Timeout     time.Duration
	Location    string
}

func (s RequestSpec) locate(step string) string {
	if step != "" {
		return step
	}
	return s.Location
}

type assembleStep func(Request, RequestSpec, *Codecs) (Request, error)

// Assemble builds a Request for target from spec. Steps run in a fixed order:
// default headers, timeout, basic auth, custom headers, body. Custom headers
// therefore override both defaults and the generated Authorization header.
func Assemble(target *Target, spec RequestSpec) (Request, error) {
	codecs := spec.Codecs
	if codecs == nil {
		codecs = DefaultCodecs()
	}

	method := spec.Method
	if method == "" {
		method = MethodGet
	}
	req := Request{
		Method:   method,
		Target:   target,
		Headers:  Headers{},
		Location: spec.Location,
	}

	steps := []assembleStep{
		withDefaultHeaders,
		withTimeout,
		withBasicAuth,
		withCustomHeaders,
		withBody,
	}
	for _, step := range steps {
		next, err := step(req, spec, codecs)
		if err != nil {
			return Request{}, err
		}
		req = next
	}
	return req, nil
}

func withDefaultHeaders(req Request, spec RequestSpec, _ *Codecs) (Request, error) {
	req.Headers = req.Headers.Merge(spec.DefaultHeaders)
	return req, nil
}

func withTimeout(req Request, spec RequestSpec, _ *Codecs) (Request, error) {
	if spec.TimeoutSeconds == nil {
		return req, nil
	}
	secs := *spec.TimeoutSeconds
	if secs < 1 || secs > int64(time.Duration(1<<63-1)/time.Second) {
		return req, &InvalidTimeoutError{Value: secs, Location: spec.locate(spec.TimeoutLocation)}
	}
	req.Timeout = time.Duration(secs) * time.Second
	return req, nil
}

func withBasicAuth(req Request, spec RequestSpec, _ *Codecs) (Request, error) {
	if spec.Auth == nil {
		return req, nil
	}
	creds := spec.Auth.Username + ":" + spec.Auth.Password
	encoded := base64.StdEncoding.EncodeToString([]byte(creds))
	req.Headers = req.Headers.With("Authorization", "Basic "+encoded)
	return req, nil
}

func withCustomHeaders(req Request, spec RequestSpec, _ *Codecs) (Request, error) {
	custom, err := ParseHeaders(spec.Headers, spec.locate(spec.HeadersLocation))
	if err != nil {
		return req, err
	}
	req.Headers = req.Headers.Merge(custom)
	return req, nil
}

func withBody(req Request, spec RequestSpec, codecs *Codecs) (Request, error) {
	if spec.Body == nil {
		return req, nil
	}

	contentType := spec.ContentType
	if contentType == "" {
		contentType = req.Headers.Get("Content-Type")
	}

	switch spec.Body.Kind {
	case BodyStructured:
		if contentType == "" {
			contentType = MediaJSON
		}
		codec, ok := codecs.Lookup(contentType)
		if !ok || codec.Encode == nil {
			return req, &BodyEncodingError{
				ContentType: contentType,
				Location:    spec.locate(spec.BodyLocation),
				Err:         fmt.Errorf("no encoder registered (known: %s)", strings.Join(codecs.mediaTypes(), ", ")),
			}
		}
		data, err := codec.Encode(spec.Body.Value)
		if err != nil {
			return req, &BodyEncodingError{ContentType: contentType, Location: spec.locate(spec.BodyLocation), Err: err}
		}
		req.Body = data
	default:
		req.Body = spec.Body.Raw
	}

	if contentType != "" {
		req.ContentType = contentType
		req.Headers = req.Headers.With("Content-Type", contentType)
	}
	return req, nil
}

// HTTPRequest converts the assembled request into a net/http request bound to ctx.
func (r Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, string(r.Method), r.Target.String(), body)
	if err != nil {
		return nil, err
	}
	r.Headers.Apply(httpReq.Header)
	// net/http ignores a Host entry in Header and sends req.Host instead.
	if host := r.Headers.Get("Host"); host != "" {
		httpReq.Host = host
	}
	return httpReq, nil
}
