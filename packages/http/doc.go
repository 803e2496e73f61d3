// Package http issues a single HTTP request and normalizes its response.
//
// A call flows through five stages:
//   - ResolveURL validates the target (http and https only)
//   - NewClient builds the transport (TLS verification, proxy, redirects)
//   - Assemble merges timeout, basic auth, custom headers and the encoded body
//   - Client.Send executes the request, honoring context cancellation
//   - Normalize classifies the status and shapes the output (raw, full, allow errors)
//
// Do chains all five. Request and response bodies are encoded and decoded
// through a Codecs registry keyed by media type.
package http
