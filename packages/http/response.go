package http

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"
)

// Envelope is a received response. It is created once by Client.Send and not
// modified afterwards.
type Envelope struct {
	Status         int
	StatusText     string
	Headers        Headers
	RequestHeaders Headers
	Body           []byte
	ContentType    string
	URL            string
	Duration       time.Duration

	// Target is the resolved request URL; its extension guides decoding
	// when the response has no content type.
	Target *Target
}

func (e *Envelope) BodyString() string {
	return string(e.Body)
}

func (e *Envelope) Header(key string) string {
	return e.Headers.Get(key)
}

func (e *Envelope) IsSuccess() bool {
	return e.Status < 400
}

func (e *Envelope) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

func (e *Envelope) IsServerError() bool {
	return e.Status >= 500
}

func (e *Envelope) DurationMs() int64 {
	return e.Duration.Milliseconds()
}

// DecodeKind tags a decoded response body.
type DecodeKind int

const (
	// DecodedRaw is an unparsed body, either requested or because no decoder applies.
	DecodedRaw DecodeKind = iota
	// DecodedStructured is a body parsed by the codec for its content type.
	DecodedStructured
	// DecodedFallback is a body whose decoder failed and was kept unparsed.
	DecodedFallback
)

// DecodedBody is a response body after content-type driven decoding.
type DecodedBody struct {
	Kind  DecodeKind
	Raw   []byte
	Value any
	// Err is the decoder error for DecodedFallback.
	Err error
}

// Interface returns the caller-facing value: the decoded value when structured,
// otherwise the raw body as a string, or as bytes when it is not valid UTF-8.
func (d DecodedBody) Interface() any {
	if d.Kind == DecodedStructured {
		return d.Value
	}
	if utf8.Valid(d.Raw) {
		return string(d.Raw)
	}
	return d.Raw
}

// FullHeaders holds both header sets of a full response.
type FullHeaders struct {
	Request  map[string]string `json:"request" yaml:"request"`
	Response map[string]string `json:"response" yaml:"response"`
}

// FullResponse wraps status and headers around the body.
type FullResponse struct {
	Status  int         `json:"status" yaml:"status"`
	Headers FullHeaders `json:"headers" yaml:"headers"`
	Body    any         `json:"body" yaml:"body"`
}

// DecodeBody decodes env's body according to its content type, falling back
// to the URL extension when the response declares none.
func DecodeBody(env *Envelope, codecs *Codecs) DecodedBody {
	if codecs == nil {
		codecs = DefaultCodecs()
	}

	contentType := env.ContentType
	if contentType == "" && env.Target != nil && env.Target.Extension != "" {
		if mt, ok := codecs.LookupExtension(env.Target.Extension); ok {
			contentType = mt
		}
	}

	codec, ok := codecs.Lookup(contentType)
	if !ok || codec.Decode == nil {
		return DecodedBody{Kind: DecodedRaw, Raw: env.Body}
	}
	value, err := codec.Decode(env.Body)
	if err != nil {
		return DecodedBody{Kind: DecodedFallback, Raw: env.Body, Err: err}
	}
	return DecodedBody{Kind: DecodedStructured, Raw: env.Body, Value: value}
}

// Normalize classifies env's status and shapes the output according to flags.
// Statuses >= 400 fail with *HTTPStatusError unless flags.AllowErrors is set.
func Normalize(env *Envelope, flags Flags, codecs *Codecs) (any, error) {
	return normalize(env, flags, codecs, nil)
}

// normalize is Normalize with a hook that sees every decoded body, used by Do
// to log bodies that fell back to raw.
func normalize(env *Envelope, flags Flags, codecs *Codecs, seen func(DecodedBody)) (any, error) {
	decode := func() any {
		decoded := DecodeBody(env, codecs)
		if seen != nil {
			seen(decoded)
		}
		return decoded.Interface()
	}

	if !env.IsSuccess() && !flags.AllowErrors {
		return nil, &HTTPStatusError{
			Status:     env.Status,
			StatusText: env.StatusText,
			URL:        env.URL,
			Body:       decode(),
		}
	}

	var body any
	if flags.Raw {
		body = DecodedBody{Kind: DecodedRaw, Raw: env.Body}.Interface()
	} else {
		body = decode()
	}

	if !flags.Full {
		return body, nil
	}
	return &FullResponse{
		Status: env.Status,
		Headers: FullHeaders{
			Request:  env.RequestHeaders.Map(),
			Response: env.Headers.Map(),
		},
		Body: body,
	}, nil
}

// Do runs the whole pipeline for one request: resolve rawURL, assemble spec,
// send it with client and normalize the response.
func Do(ctx context.Context, client *Client, rawURL string, spec RequestSpec) (any, error) {
	target, err := ResolveURL(rawURL, spec.Location)
	if err != nil {
		return nil, err
	}
	req, err := Assemble(target, spec)
	if err != nil {
		return nil, err
	}
	env, err := client.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	out, err := normalize(env, spec.Flags, spec.Codecs, func(decoded DecodedBody) {
		if decoded.Kind == DecodedFallback {
			client.logger.Debug("response body could not be decoded, returning raw body",
				slog.String("content_type", env.ContentType),
				slog.Any("error", decoded.Err))
		}
	})
	if err != nil {
		var statusErr *HTTPStatusError
		if errors.As(err, &statusErr) {
			statusErr.Location = spec.Location
		}
		client.logger.Debug("request failed", slog.Any("error", err))
		return nil, err
	}
	return out, nil
}
