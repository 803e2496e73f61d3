package http

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	neturl "net/url"
	"time"
)

const (
	// DefaultTimeout is used when a request carries no timeout of its own
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
	// DefaultUserAgent is sent unless the request sets its own
	DefaultUserAgent = "hitverb"
)

var errRequestTimeout = errors.New("request timeout elapsed")

// Client sends assembled requests. It is immutable after NewClient returns
// and safe for concurrent use.
type Client struct {
	httpClient     *http.Client
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	insecure       bool
	proxyURL       string
	userAgent      string
	logger         *slog.Logger
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout:        DefaultTimeout,
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		userAgent:      DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	// Configure TLS verification
	if c.insecure {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	// Configure proxy if specified
	if c.proxyURL != "" {
		proxyURL, err := neturl.Parse(c.proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		} else {
			c.logger.Warn("ignoring invalid proxy URL", "proxy", c.proxyURL, "error", err)
		}
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !c.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= c.maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	// Timeouts are enforced per request through the context in Send.
	c.httpClient = &http.Client{
		Transport:     transport,
		CheckRedirect: redirectPolicy,
	}

	return c
}

// WithDefaultTimeout sets the timeout for requests that do not carry one.
// Zero disables it.
func WithDefaultTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirect = follow
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

// WithInsecure disables TLS certificate verification
func WithInsecure(insecure bool) ClientOption {
	return func(c *Client) {
		c.insecure = insecure
	}
}

// WithProxy sets the proxy URL for all requests, overriding the environment
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// Insecure reports whether certificate verification is disabled.
func (c *Client) Insecure() bool {
	return c.insecure
}

// Send executes req once. ctx is the caller's cancellation signal; the
// request timeout runs alongside it and whichever fires first decides
// between *CancelledError and *TimeoutError.
func (c *Client) Send(ctx context.Context, req Request) (*Envelope, error) {
	timeout := req.Timeout
	if timeout == 0 {
		timeout = c.timeout
	}

	var (
		reqCtx context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		reqCtx, cancel = context.WithTimeoutCause(ctx, timeout, errRequestTimeout)
	} else {
		reqCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	httpReq, err := req.HTTPRequest(reqCtx)
	if err != nil {
		return nil, &ConnectionError{URL: req.Target.String(), Location: req.Location, Err: err}
	}
	if httpReq.Header.Get("User-Agent") == "" && c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("sending request", "method", req.Method, "url", req.Target.String(), "timeout", timeout)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.classify(reqCtx, req, timeout, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, c.classify(reqCtx, req, timeout, err)
	}
	duration := time.Since(start)

	c.logger.Debug("received response", "status", httpResp.StatusCode, "bytes", len(respBody), "duration", duration)

	return &Envelope{
		Status:         httpResp.StatusCode,
		StatusText:     http.StatusText(httpResp.StatusCode),
		Headers:        FromHTTPHeader(httpResp.Header),
		RequestHeaders: FromHTTPHeader(httpReq.Header),
		Body:           respBody,
		ContentType:    httpResp.Header.Get("Content-Type"),
		URL:            httpResp.Request.URL.String(),
		Duration:       duration,
		Target:         req.Target,
	}, nil
}

func (c *Client) classify(reqCtx context.Context, req Request, timeout time.Duration, err error) error {
	url := req.Target.String()
	cause := context.Cause(reqCtx)
	switch {
	case errors.Is(cause, errRequestTimeout):
		c.logger.Debug("request timed out", "url", url, "timeout", timeout)
		return &TimeoutError{URL: url, Timeout: timeout, Location: req.Location, Err: err}
	case cause != nil:
		c.logger.Debug("request cancelled", "url", url, "cause", cause)
		return &CancelledError{URL: url, Location: req.Location, Err: cause}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{URL: url, Timeout: timeout, Location: req.Location, Err: err}
	}
	return &ConnectionError{URL: url, Location: req.Location, Err: err}
}
