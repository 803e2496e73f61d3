package http

import (
	neturl "net/url"
	"path"
	"strings"
)

// Target is a resolved request URL.
type Target struct {
	URL *neturl.URL
	// Extension is the lowercased suffix of the URL path without the dot, if any.
	Extension string
}

func (t *Target) String() string {
	return t.URL.String()
}

// ResolveURL checks that raw is an absolute http or https URL and returns its
// canonical form. loc names where raw came from and is carried on errors.
func ResolveURL(raw, loc string) (*Target, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &InvalidURLError{URL: raw, Location: loc, Reason: "URL is empty"}
	}

	u, err := neturl.Parse(trimmed)
	if err != nil {
		return nil, &InvalidURLError{URL: raw, Location: loc, Reason: err.Error()}
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		reason := "unsupported URL scheme " + u.Scheme + " (only http and https are allowed)"
		if u.Scheme == "" {
			reason = "missing URL scheme (only http and https are allowed)"
		}
		return nil, &InvalidURLError{URL: raw, Location: loc, Reason: reason}
	}
	if u.Host == "" {
		return nil, &InvalidURLError{URL: raw, Location: loc, Reason: "URL must have a host"}
	}

	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && u.Opaque == "" {
		u.Path = "/"
	}

	return &Target{
		URL:       u,
		Extension: strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), ".")),
	}, nil
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme
func ValidateURL(rawURL string) error {
	_, err := ResolveURL(rawURL, "")
	return err
}
