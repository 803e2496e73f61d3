// Package capture extracts values from normalized responses.
//
// Paths use gjson syntax and apply to structured bodies, raw JSON bodies and
// full responses alike, e.g. "body.id" on a full response or "items.#.name"
// on a decoded array.
package capture
