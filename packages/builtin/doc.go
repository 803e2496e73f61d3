// Package builtin provides the functions callable from {{...}} templates.
//
// Available functions:
//   - uuid(): Random UUID v4
//   - now(layout), date(layout): Current UTC time, RFC 3339 or YYYY-MM-DD by default
//   - timestamp(), timestampMs(): Unix time in seconds or milliseconds
//   - random(min, max), randomString(length): Random values
//   - base64(value), base64Decode(value), sha256(value), urlEncode(value)
//   - hmacSha256(key, message): Hex HMAC digest, e.g. for signed webhooks
//   - basicAuth(user, password): Authorization header value
//   - env(NAME, default): Process environment lookup
package builtin
